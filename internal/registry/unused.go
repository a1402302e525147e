package registry

import "wwtxtp/internal/bank"

// HasUnused reports whether any tracked type still has objects whose
// resolved form was never constructed during the run.
func (r *Registry) HasUnused() bool {
	for _, typeName := range r.table.UnusedOrder() {
		if len(r.ListUnused(typeName)) > 0 {
			return true
		}
	}
	return false
}

// UnusedTypes returns the tracked type names in the fixed priority
// order the unused pass must follow: rendering one type can mark other
// types used, so the order is part of the contract.
func (r *Registry) UnusedTypes() []string {
	return r.table.UnusedOrder()
}

// ListUnused returns never-used nodes of one type, in registration
// order. Types flagged SkipUnusedWhenEmpty drop entries whose resolved
// form has no child references.
func (r *Registry) ListUnused(typeName string) []*bank.Node {
	entry, ok := r.table.Lookup(typeName)
	if !ok {
		return nil
	}
	var out []*bank.Node
	for _, node := range r.typeNodes[typeName] {
		if r.used[node.Handle()] {
			continue
		}
		if entry.SkipUnusedWhenEmpty {
			// probe without marking usage; a probe must not hide the
			// node from later unused queries
			obj, err := r.build(node, false)
			if err != nil || obj == nil || len(obj.ChildIDs()) == 0 {
				continue
			}
		}
		out = append(out, node)
	}
	return out
}
