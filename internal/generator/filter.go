package generator

import (
	"strings"

	"wwtxtp/internal/bank"
	"wwtxtp/internal/config"
)

// Filter restricts which root objects render. Matching is by short id,
// hash name (case folded), or hierarchy type name.
type Filter struct {
	ids   map[uint32]bool
	names map[string]bool
	types map[string]bool
	rest  bool
}

// NewFilter compiles the configured filter lists.
func NewFilter(cfg config.Filter) *Filter {
	f := &Filter{
		ids:   make(map[uint32]bool, len(cfg.IDs)),
		names: make(map[string]bool, len(cfg.Names)),
		types: make(map[string]bool, len(cfg.Types)),
		rest:  cfg.Rest,
	}
	for _, id := range cfg.IDs {
		f.ids[id] = true
	}
	for _, name := range cfg.Names {
		f.names[strings.ToLower(name)] = true
	}
	for _, t := range cfg.Types {
		f.types[strings.ToLower(t)] = true
	}
	return f
}

// Empty reports whether no restriction is configured.
func (f *Filter) Empty() bool {
	return len(f.ids) == 0 && len(f.names) == 0 && len(f.types) == 0
}

// Rest reports whether the excluded remainder renders after the
// allowed set.
func (f *Filter) Rest() bool { return f.rest }

// Allowed reports whether a root candidate passes the filter. An empty
// filter allows everything.
func (f *Filter) Allowed(node *bank.Node) bool {
	if f.Empty() {
		return true
	}
	if id, ok := node.ShortID(); ok && f.ids[id] {
		return true
	}
	if name := node.DisplayName(); name != "" && f.names[strings.ToLower(name)] {
		return true
	}
	return f.types[strings.ToLower(node.Name)]
}
