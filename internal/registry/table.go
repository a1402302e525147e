package registry

import "wwtxtp/internal/bank"

// Object is one resolved hierarchy object, built from a source node by
// its type's construction contract. Construction is two-phase: Bind
// hands the object the registry for resolving children, Parse extracts
// structure from the node. Parse runs at most once per node identity.
type Object interface {
	Bind(r *Registry)
	Parse(n *bank.Node) error

	// ChildIDs lists referenced child object ids, for unused-object
	// heuristics. Empty means the object plays nothing on its own.
	ChildIDs() []uint32
}

// Entry describes one hierarchy type's construction contract.
type Entry struct {
	New func() Object

	// TrackUnused includes the type in the unused-object pass.
	TrackUnused bool

	// SkipUnusedWhenEmpty drops never-used objects from the unused
	// report when their resolved form has no child references. Silent
	// music segments are authored leftovers, not real unused content.
	SkipUnusedWhenEmpty bool
}

// Table is the capability table mapping hierarchy type names to
// construction contracts. It is built once at process start and read
// only afterwards.
type Table struct {
	entries     map[string]Entry
	unusedOrder []string
}

// NewTable builds an empty capability table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Entry)}
}

// Register adds one type's contract. Types registered with TrackUnused
// join the unused pass in registration order, which is the pass's
// priority order: rendering earlier types can mark later ones used.
func (t *Table) Register(typeName string, e Entry) {
	if _, ok := t.entries[typeName]; ok {
		return
	}
	t.entries[typeName] = e
	if e.TrackUnused {
		t.unusedOrder = append(t.unusedOrder, typeName)
	}
}

// Lookup returns the contract for a type name.
func (t *Table) Lookup(typeName string) (Entry, bool) {
	e, ok := t.entries[typeName]
	return e, ok
}

// UnusedOrder returns type names tracked for the unused pass, in
// priority order.
func (t *Table) UnusedOrder() []string {
	out := make([]string, len(t.unusedOrder))
	copy(out, t.unusedOrder)
	return out
}
