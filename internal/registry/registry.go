package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"wwtxtp/internal/bank"
	"wwtxtp/internal/logging"
)

// Registry maps (bank, id) references to source nodes and to the
// objects built from them. Create one per run, populate it during the
// setup pass, then treat it as read-only while rendering.
type Registry struct {
	table  *Table
	logger *slog.Logger

	refToNode map[bank.Ref]*bank.Node
	idToRefs  map[uint32][]bank.Ref
	typeNodes map[string][]*bank.Node

	built map[bank.Handle]Object
	used  map[bank.Handle]bool

	loadedBanks map[uint32]string

	missingLoaded  map[bank.Ref]bool
	missingOthers  map[bank.Ref]bool
	missingUnknown map[bank.Ref]bool
	missingBanks   map[string]bool
	ambiguous      map[uint32]bool

	unknownProps      map[string]bool
	transitionObjects int
}

// New builds an empty registry dispatching construction through the
// given capability table.
func New(table *Table, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Registry{
		table:          table,
		logger:         logger,
		refToNode:      make(map[bank.Ref]*bank.Node),
		idToRefs:       make(map[uint32][]bank.Ref),
		typeNodes:      make(map[string][]*bank.Node),
		built:          make(map[bank.Handle]Object),
		used:           make(map[bank.Handle]bool),
		loadedBanks:    make(map[uint32]string),
		missingLoaded:  make(map[bank.Ref]bool),
		missingOthers:  make(map[bank.Ref]bool),
		missingUnknown: make(map[bank.Ref]bool),
		missingBanks:   make(map[string]bool),
		ambiguous:      make(map[uint32]bool),
		unknownProps:   make(map[string]bool),
	}
}

// AddLoadedBank records a bank participating in this run.
func (r *Registry) AddLoadedBank(bankID uint32, filename string) {
	r.loadedBanks[bankID] = filename
}

// LoadedBankName returns the filename registered for a bank id.
func (r *Registry) LoadedBankName(bankID uint32) (string, bool) {
	name, ok := r.loadedBanks[bankID]
	return name, ok
}

// Register inserts one (bank, id) to node mapping. Objects repeated
// across banks are usually clones saved into each bank, but sometimes
// they are genuinely distinct, so bank+id stays the primary key while a
// per-id index allows cross-bank fallback. First registration wins;
// repeats are dropped.
func (r *Registry) Register(bankID, sid uint32, node *bank.Node) {
	ref := bank.Ref{BankID: bankID, ID: sid}
	if _, ok := r.refToNode[ref]; ok {
		r.logger.Debug("ignored repeated registration",
			logging.Uint32("bank", bankID), logging.Uint32("id", sid))
		return
	}
	r.refToNode[ref] = node
	r.idToRefs[sid] = append(r.idToRefs[sid], ref)
	r.typeNodes[node.Name] = append(r.typeNodes[node.Name], node)
}

// Resolve looks a reference up in its exact bank, then falls back to
// any bank holding the id. A fallback that could pick between multiple
// banks records the id as ambiguous, once, and deterministically
// returns the first-registered candidate.
func (r *Registry) Resolve(bankID, sid uint32) *bank.Node {
	ref := bank.Ref{BankID: bankID, ID: sid}
	if node, ok := r.refToNode[ref]; ok {
		return node
	}
	refs := r.idToRefs[sid]
	if len(refs) == 0 {
		return nil
	}
	if len(refs) > 1 && !r.ambiguous[sid] {
		r.ambiguous[sid] = true
		r.logger.Debug("id found in multiple banks",
			logging.Uint32("id", sid), logging.Uint32("wanted_bank", bankID))
	}
	return r.refToNode[refs[0]]
}

// GetOrBuild resolves a reference and returns its built object. A
// missing reference is a valid outcome: it is classified into exactly
// one diagnostic bucket and (nil, nil) is returned. Only construction
// failures produce an error.
//
// caller identifies the referencing object for diagnostics. declared
// names the target bank when the reference carries one: its value is
// the bank id, its hashname attribute the bank's display name.
func (r *Registry) GetOrBuild(bankID, sid uint32, caller *bank.Node, declared *bank.Node) (Object, error) {
	if bankID == 0 || sid == 0 {
		// id 0 appears in actions referencing nothing
		return nil, nil
	}

	node := r.Resolve(bankID, sid)
	if node != nil {
		return r.Build(node)
	}

	ref := bank.Ref{BankID: bankID, ID: sid}
	switch {
	case r.isLoaded(bankID):
		// target bank is loaded: the id is authoring leftover
		if !r.missingLoaded[ref] {
			r.logger.Debug("missing node in loaded bank",
				logging.Uint32("id", sid), logging.String("bank", r.loadedBanks[bankID]),
				logging.String("caller", caller.Label()))
		}
		r.missingLoaded[ref] = true
	case declared == nil:
		// no target bank on the reference: cannot tell leftover
		// garbage from a bank that was never loaded
		if !r.missingUnknown[ref] {
			r.logger.Debug("missing node in unknown bank",
				logging.Uint32("id", sid), logging.String("caller", caller.Label()))
		}
		r.missingUnknown[ref] = true
	default:
		bankName := declared.Attr(bank.AttrHashName)
		if bankName == "" {
			bankName = fmt.Sprintf("%d", declared.U32())
		}
		if !r.missingOthers[ref] {
			r.logger.Debug("missing node in non-loaded bank",
				logging.Uint32("id", sid), logging.String("bank", bankName),
				logging.String("caller", caller.Label()))
		}
		r.missingOthers[ref] = true
		r.missingBanks[bankName] = true
	}
	return nil, nil
}

func (r *Registry) isLoaded(bankID uint32) bool {
	_, ok := r.loadedBanks[bankID]
	return ok
}

// Build returns the object for a source node, constructing it on first
// use. Construction is per node identity: repeated calls return the
// cached object and usage marking stays monotonic.
func (r *Registry) Build(node *bank.Node) (Object, error) {
	return r.build(node, true)
}

func (r *Registry) build(node *bank.Node, markUsed bool) (Object, error) {
	if node == nil {
		return nil, nil
	}
	h := node.Handle()
	if obj, ok := r.built[h]; ok {
		if markUsed {
			r.used[h] = true
		}
		return obj, nil
	}

	entry, ok := r.table.Lookup(node.Name)
	var obj Object
	if ok {
		obj = entry.New()
	} else {
		r.logger.Debug("no contract for type", logging.String("type", node.Name))
		obj = nullObject{}
	}
	obj.Bind(r)
	if err := obj.Parse(node); err != nil {
		return nil, fmt.Errorf("build %s %s: %w", node.Name, node.Label(), err)
	}

	r.built[h] = obj
	if markUsed {
		r.used[h] = true
	}
	return obj, nil
}

// nullObject stands in for hierarchy types without a contract (buses,
// attenuations and other non-playable objects).
type nullObject struct{}

func (nullObject) Bind(*Registry) {}

func (nullObject) Parse(*bank.Node) error { return nil }

func (nullObject) ChildIDs() []uint32 { return nil }

// ReportUnknownProps accumulates property names a contract saw but did
// not interpret.
func (r *Registry) ReportUnknownProps(names []string) {
	for _, name := range names {
		r.unknownProps[name] = true
	}
}

// ReportTransitionObject counts transition rule objects seen while
// parsing, for the end-of-run summary.
func (r *Registry) ReportTransitionObject() { r.transitionObjects++ }

// Diagnostics accessors. Counts cover distinct (bank, id) pairs.

func (r *Registry) MissingLoadedCount() int  { return len(r.missingLoaded) }
func (r *Registry) MissingOthersCount() int  { return len(r.missingOthers) }
func (r *Registry) MissingUnknownCount() int { return len(r.missingUnknown) }
func (r *Registry) TransitionObjects() int   { return r.transitionObjects }

// MissingBankNames returns the display names of referenced banks that
// were not loaded, sorted.
func (r *Registry) MissingBankNames() []string {
	names := make([]string, 0, len(r.missingBanks))
	for name := range r.missingBanks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AmbiguousIDs returns ids that resolved through the any-bank fallback
// with more than one candidate, sorted.
func (r *Registry) AmbiguousIDs() []uint32 {
	ids := make([]uint32, 0, len(r.ambiguous))
	for id := range r.ambiguous {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// UnknownProps returns accumulated uninterpreted property names, sorted.
func (r *Registry) UnknownProps() []string {
	props := make([]string, 0, len(r.unknownProps))
	for p := range r.unknownProps {
		props = append(props, p)
	}
	sort.Strings(props)
	return props
}
