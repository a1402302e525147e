package render

// SelectorKind distinguishes the two discrete selector flavors. States
// are global; switches are scoped to the triggering game object.
type SelectorKind int

const (
	SelectorState SelectorKind = iota
	SelectorSwitch
)

func (k SelectorKind) String() string {
	if k == SelectorSwitch {
		return "switch"
	}
	return "state"
}

// Selector is one group=value assignment.
type Selector struct {
	Kind      SelectorKind
	Group     uint32
	GroupName string
	Value     uint32
	ValueName string
}

// SelectorCombo assigns one value to every discovered selector group.
type SelectorCombo []Selector

type selectorKey struct {
	kind  SelectorKind
	group uint32
}

type selectorGroup struct {
	key       selectorKey
	groupName string
	order     []uint32
	names     map[uint32]string
}

// SelectorPaths accumulates selector groups and values discovered while
// rendering. Insertion order is preserved so enumeration stays
// deterministic for a given bank load order.
type SelectorPaths struct {
	order  []*selectorGroup
	groups map[selectorKey]*selectorGroup
}

// NewSelectorPaths returns an empty discovery set.
func NewSelectorPaths() *SelectorPaths {
	return &SelectorPaths{groups: make(map[selectorKey]*selectorGroup)}
}

// Add records one possible value for a selector group.
func (p *SelectorPaths) Add(kind SelectorKind, group uint32, groupName string, value uint32, valueName string) {
	key := selectorKey{kind: kind, group: group}
	g, ok := p.groups[key]
	if !ok {
		g = &selectorGroup{key: key, groupName: groupName, names: make(map[uint32]string)}
		p.groups[key] = g
		p.order = append(p.order, g)
	}
	if g.groupName == "" {
		g.groupName = groupName
	}
	if _, seen := g.names[value]; seen {
		return
	}
	g.names[value] = valueName
	g.order = append(g.order, value)
}

// Empty reports whether nothing was discovered.
func (p *SelectorPaths) Empty() bool { return len(p.order) == 0 }

// Combos returns the cartesian product over every discovered group, in
// discovery order.
func (p *SelectorPaths) Combos() []SelectorCombo {
	if len(p.order) == 0 {
		return nil
	}
	combos := []SelectorCombo{nil}
	for _, g := range p.order {
		next := make([]SelectorCombo, 0, len(combos)*len(g.order))
		for _, base := range combos {
			for _, value := range g.order {
				combo := make(SelectorCombo, len(base), len(base)+1)
				copy(combo, base)
				combo = append(combo, Selector{
					Kind:      g.key.kind,
					Group:     g.key.group,
					GroupName: g.groupName,
					Value:     value,
					ValueName: g.names[value],
				})
				next = append(next, combo)
			}
		}
		combos = next
	}
	return combos
}

// SelectorParams is the active selector assignment for the current
// render pass.
type SelectorParams struct {
	combo  SelectorCombo
	values map[selectorKey]Selector
}

// NewSelectorParams returns an empty assignment.
func NewSelectorParams() *SelectorParams {
	return &SelectorParams{values: make(map[selectorKey]Selector)}
}

// Apply replaces the assignment with the given combo.
func (p *SelectorParams) Apply(combo SelectorCombo) {
	p.combo = combo
	p.values = make(map[selectorKey]Selector, len(combo))
	for _, s := range combo {
		p.values[selectorKey{kind: s.Kind, group: s.Group}] = s
	}
}

// Value returns the assigned selector for a group, if any.
func (p *SelectorParams) Value(kind SelectorKind, group uint32) (Selector, bool) {
	s, ok := p.values[selectorKey{kind: kind, group: group}]
	return s, ok
}

// Active returns the applied combo.
func (p *SelectorParams) Active() SelectorCombo { return p.combo }

// StateChunk is one discovered state-chunk assignment, tagged
// reachable or unreachable relative to the selector assignment that
// was active when Filter ran.
type StateChunk struct {
	Group       uint32
	GroupName   string
	Value       uint32
	ValueName   string
	Unreachable bool
}

type chunkKey struct {
	group uint32
	value uint32
}

// ChunkPaths accumulates state-chunk assignments discovered while
// rendering. A chunk naming the group's "none" state signals that a
// default artifact without any chunk applied is also wanted.
type ChunkPaths struct {
	order       []*StateChunk
	seen        map[chunkKey]bool
	wantDefault bool
}

// NewChunkPaths returns an empty discovery set.
func NewChunkPaths() *ChunkPaths {
	return &ChunkPaths{seen: make(map[chunkKey]bool)}
}

// Add records one state-chunk assignment. Value zero is the group's
// "none" state: it contributes no combo but requests the default pass.
func (p *ChunkPaths) Add(group uint32, groupName string, value uint32, valueName string) {
	if value == 0 {
		p.wantDefault = true
		return
	}
	key := chunkKey{group: group, value: value}
	if p.seen[key] {
		return
	}
	p.seen[key] = true
	p.order = append(p.order, &StateChunk{
		Group:     group,
		GroupName: groupName,
		Value:     value,
		ValueName: valueName,
	})
}

// Empty reports whether nothing was discovered.
func (p *ChunkPaths) Empty() bool { return len(p.order) == 0 }

// Filter tags every chunk unreachable whose group is pinned to a
// different value by the active selector assignment: selector states
// and chunk states are the same underlying groups, so such a chunk can
// never trigger under that assignment.
func (p *ChunkPaths) Filter(sel *SelectorParams) {
	for _, c := range p.order {
		if s, ok := sel.Value(SelectorState, c.Group); ok && s.Value != c.Value {
			c.Unreachable = true
		} else {
			c.Unreachable = false
		}
	}
}

// HasUnreachables reports whether Filter tagged any chunk unreachable.
func (p *ChunkPaths) HasUnreachables() bool {
	for _, c := range p.order {
		if c.Unreachable {
			return true
		}
	}
	return false
}

// Combos returns every discovered chunk in discovery order.
func (p *ChunkPaths) Combos() []*StateChunk {
	out := make([]*StateChunk, len(p.order))
	copy(out, p.order)
	return out
}

// GenerateDefault reports whether a default (no-chunk) artifact is
// wanted after the reachable combos: only when a "none" state was
// observed and at least one reachable combo rendered, so the default is
// a genuine alternative rather than a duplicate of the base render.
func (p *ChunkPaths) GenerateDefault(combos []*StateChunk) bool {
	if !p.wantDefault {
		return false
	}
	for _, c := range combos {
		if !c.Unreachable {
			return true
		}
	}
	return false
}

// Param is one parameter-bucket assignment.
type Param struct {
	ID    uint32
	Name  string
	Value float64
}

// ParamCombo assigns one bucket to every discovered parameter.
type ParamCombo []Param

type paramGroup struct {
	id    uint32
	name  string
	order []float64
	seen  map[float64]bool
}

// ParamPaths accumulates parameter value buckets discovered while
// rendering.
type ParamPaths struct {
	order  []*paramGroup
	groups map[uint32]*paramGroup
}

// NewParamPaths returns an empty discovery set.
func NewParamPaths() *ParamPaths {
	return &ParamPaths{groups: make(map[uint32]*paramGroup)}
}

// Add records candidate bucket values for one parameter.
func (p *ParamPaths) Add(id uint32, name string, values ...float64) {
	g, ok := p.groups[id]
	if !ok {
		g = &paramGroup{id: id, name: name, seen: make(map[float64]bool)}
		p.groups[id] = g
		p.order = append(p.order, g)
	}
	if g.name == "" {
		g.name = name
	}
	for _, v := range values {
		if g.seen[v] {
			continue
		}
		g.seen[v] = true
		g.order = append(g.order, v)
	}
}

// Empty reports whether nothing was discovered.
func (p *ParamPaths) Empty() bool { return len(p.order) == 0 }

// Combos returns the cartesian product over every discovered parameter.
func (p *ParamPaths) Combos() []ParamCombo {
	if len(p.order) == 0 {
		return nil
	}
	combos := []ParamCombo{nil}
	for _, g := range p.order {
		next := make([]ParamCombo, 0, len(combos)*len(g.order))
		for _, base := range combos {
			for _, value := range g.order {
				combo := make(ParamCombo, len(base), len(base)+1)
				copy(combo, base)
				combo = append(combo, Param{ID: g.id, Name: g.name, Value: value})
				next = append(next, combo)
			}
		}
		combos = next
	}
	return combos
}
