package render

import "wwtxtp/internal/bank"

// SecondaryKind labels playable objects discovered as a side effect of
// rendering a primary object.
type SecondaryKind int

const (
	SecondaryStinger SecondaryKind = iota
	SecondaryTransition
)

func (k SecondaryKind) String() string {
	if k == SecondaryTransition {
		return "transition"
	}
	return "stinger"
}

// Secondary is one side-channel discovery, rendered as an independent
// artifact after the primary object's combination tree is exhausted.
type Secondary struct {
	Kind SecondaryKind
	Ref  bank.Ref
	Name string
}

type secondaryKey struct {
	kind SecondaryKind
	ref  bank.Ref
}

// State is the per-root-object scratch the walker and engine share:
// the active assignment for each dimension, the combo sets discovered
// while rendering, and side-channel discoveries. It is created fresh
// per run and fully reset per root object; dimension-scoped sub-resets
// happen between nested combo iterations.
//
// Defaults pin a dimension to configured values: a pinned dimension
// contributes exactly its configured combo and discovery is ignored.
type State struct {
	selectorDefaults SelectorCombo
	paramDefaults    ParamCombo

	selectors *SelectorPaths
	active    *SelectorParams

	chunks       *ChunkPaths
	activeChunk  *StateChunk
	defaultChunk bool

	params       *ParamPaths
	activeParams ParamCombo

	secondaries   []Secondary
	secondarySeen map[secondaryKey]bool
}

// NewState returns a fully reset state.
func NewState() *State {
	s := &State{}
	s.Reset()
	return s
}

// SetSelectorDefaults pins the selector dimension.
func (s *State) SetSelectorDefaults(combo SelectorCombo) { s.selectorDefaults = combo }

// SetParamDefaults pins the parameter dimension.
func (s *State) SetParamDefaults(combo ParamCombo) { s.paramDefaults = combo }

// Reset clears everything for a new root object.
func (s *State) Reset() {
	s.selectors = NewSelectorPaths()
	s.active = NewSelectorParams()
	s.ResetChunks()
	s.ResetParams()
	s.secondaries = nil
	s.secondarySeen = make(map[secondaryKey]bool)
}

// ResetChunks clears state-chunk discoveries and the active chunk.
// Chunk sets depend on the selector assignment, so every selector step
// must reset them or combos from a sibling branch leak in.
func (s *State) ResetChunks() {
	s.chunks = NewChunkPaths()
	s.activeChunk = nil
	s.defaultChunk = false
}

// ResetParams clears parameter discoveries and the active combo.
func (s *State) ResetParams() {
	s.params = NewParamPaths()
	s.activeParams = nil
}

// ApplySelector sets the active selector assignment.
func (s *State) ApplySelector(combo SelectorCombo) { s.active.Apply(combo) }

// ApplyChunk sets the active state chunk; nil clears it.
func (s *State) ApplyChunk(c *StateChunk) {
	s.activeChunk = c
	s.defaultChunk = false
}

// ApplyDefaultChunk clears the chunk state and marks the default pass.
func (s *State) ApplyDefaultChunk() {
	s.activeChunk = nil
	s.defaultChunk = true
}

// ApplyParams sets the active parameter combo.
func (s *State) ApplyParams(combo ParamCombo) { s.activeParams = combo }

// SelectorCombos returns the combos to iterate for the selector
// dimension: the pinned defaults when configured, otherwise whatever
// the previous render pass discovered.
func (s *State) SelectorCombos() []SelectorCombo {
	if len(s.selectorDefaults) > 0 {
		return []SelectorCombo{s.selectorDefaults}
	}
	return s.selectors.Combos()
}

// ChunkCombos returns the discovered state-chunk combos.
func (s *State) ChunkCombos() []*StateChunk { return s.chunks.Combos() }

// ParamCombos returns the combos to iterate for the parameter
// dimension, honoring pinned defaults.
func (s *State) ParamCombos() []ParamCombo {
	if len(s.paramDefaults) > 0 {
		return []ParamCombo{s.paramDefaults}
	}
	return s.params.Combos()
}

// FilterChunks tags chunk reachability relative to the active selector
// assignment.
func (s *State) FilterChunks() { s.chunks.Filter(s.active) }

// HasUnreachableChunks reports whether the current chunk set has
// branches the active selector assignment can never trigger.
func (s *State) HasUnreachableChunks() bool { return s.chunks.HasUnreachables() }

// GenerateDefaultChunk reports whether one extra default-marked pass is
// wanted after the reachable chunk combos.
func (s *State) GenerateDefaultChunk(combos []*StateChunk) bool {
	return s.chunks.GenerateDefault(combos)
}

// ActiveSelector returns the active assignment for a group, consulted
// by the walker when it reaches a selector node.
func (s *State) ActiveSelector(kind SelectorKind, group uint32) (Selector, bool) {
	return s.active.Value(kind, group)
}

// ActiveSelectors returns the applied selector combo.
func (s *State) ActiveSelectors() SelectorCombo { return s.active.Active() }

// ActiveChunk returns the applied chunk, nil outside the chunk loop.
func (s *State) ActiveChunk() *StateChunk { return s.activeChunk }

// DefaultChunkPass reports whether the current pass is the extra
// default (no-chunk) render.
func (s *State) DefaultChunkPass() bool { return s.defaultChunk }

// ActiveChunkValue returns the applied value for a chunk group. The
// default pass reports every group as explicitly cleared.
func (s *State) ActiveChunkValue(group uint32) (uint32, bool) {
	if s.defaultChunk {
		return 0, true
	}
	if s.activeChunk != nil && s.activeChunk.Group == group {
		return s.activeChunk.Value, true
	}
	return 0, false
}

// ActiveParams returns the applied parameter combo.
func (s *State) ActiveParams() ParamCombo { return s.activeParams }

// ReportSelector records one discovered selector value.
func (s *State) ReportSelector(kind SelectorKind, group uint32, groupName string, value uint32, valueName string) {
	s.selectors.Add(kind, group, groupName, value, valueName)
}

// ReportChunk records one discovered state-chunk assignment.
func (s *State) ReportChunk(group uint32, groupName string, value uint32, valueName string) {
	s.chunks.Add(group, groupName, value, valueName)
}

// ReportParam records discovered bucket values for one parameter.
func (s *State) ReportParam(id uint32, name string, values ...float64) {
	s.params.Add(id, name, values...)
}

// AddStinger records a stinger discovery, once per target.
func (s *State) AddStinger(ref bank.Ref, name string) {
	s.addSecondary(SecondaryStinger, ref, name)
}

// AddTransition records a transition discovery, once per target.
func (s *State) AddTransition(ref bank.Ref, name string) {
	s.addSecondary(SecondaryTransition, ref, name)
}

func (s *State) addSecondary(kind SecondaryKind, ref bank.Ref, name string) {
	key := secondaryKey{kind: kind, ref: ref}
	if s.secondarySeen[key] {
		return
	}
	s.secondarySeen[key] = true
	s.secondaries = append(s.secondaries, Secondary{Kind: kind, Ref: ref, Name: name})
}

// Secondaries returns side-channel discoveries in discovery order.
func (s *State) Secondaries() []Secondary {
	out := make([]Secondary, len(s.secondaries))
	copy(out, s.secondaries)
	return out
}
