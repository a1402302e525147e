package hirc

import (
	"fmt"

	"wwtxtp/internal/bank"
	"wwtxtp/internal/registry"
	"wwtxtp/internal/render"
)

// objectBase carries what every contract needs: the bound registry,
// the source node, and the identity used for info lines.
type objectBase struct {
	reg  *registry.Registry
	node *bank.Node
	id   uint32
	name string
}

func (b *objectBase) Bind(r *registry.Registry) { b.reg = r }

func (b *objectBase) parseBase(n *bank.Node) {
	b.node = n
	b.id, _ = n.ShortID()
	b.name = n.DisplayName()
}

// enter pushes this object onto the artifact's info tree.
func (b *objectBase) enter(p *pass) {
	bankName := ""
	if b.node.Bank() != nil {
		bankName = b.node.Bank().Filename
	}
	p.t.Next(b.node.Name, b.id, b.name, bankName)
}

func (b *objectBase) bankID() uint32 {
	if b.node.Bank() == nil {
		return 0
	}
	return b.node.Bank().ID
}

// event plays a list of actions.
type event struct {
	objectBase
	actions []uint32
}

func (e *event) Parse(n *bank.Node) error {
	e.parseBase(n)
	for _, a := range n.ChildrenNamed(fieldActionID) {
		e.actions = append(e.actions, a.U32())
	}
	reportUnknown(e.reg, n, map[string]bool{fieldActionID: true})
	return nil
}

func (e *event) ChildIDs() []uint32 { return e.actions }

func (e *event) render(p *pass) error {
	e.enter(p)
	defer p.t.Done()
	for _, id := range e.actions {
		if err := p.renderRef(e.node, e.bankID(), id, nil); err != nil {
			return err
		}
	}
	return nil
}

// action targets one object, possibly in another bank. Non-play
// action types (set state, seek, stop, ...) contribute no structure.
type action struct {
	objectBase
	actionType int64
	target     uint32
	bankRef    *bank.Node
}

// play-like action type values; everything else renders nothing.
const (
	actionPlay      = 4
	actionPlayEvent = 33
)

func (a *action) Parse(n *bank.Node) error {
	a.parseBase(n)
	if at := n.Child(fieldActionType); at != nil {
		a.actionType = at.Value
	} else {
		a.actionType = actionPlay
	}
	a.target = n.Child(fieldIDExt).U32()
	a.bankRef = n.Child(fieldBankID)
	reportUnknown(a.reg, n, map[string]bool{fieldActionType: true, fieldIDExt: true, fieldBankID: true})
	return nil
}

func (a *action) ChildIDs() []uint32 {
	if a.target == 0 {
		return nil
	}
	return []uint32{a.target}
}

func (a *action) render(p *pass) error {
	a.enter(p)
	defer p.t.Done()
	if a.actionType != actionPlay && a.actionType != actionPlayEvent {
		return nil
	}
	targetBank := a.bankID()
	if a.bankRef != nil {
		targetBank = a.bankRef.U32()
	}
	return p.renderRef(a.node, targetBank, a.target, a.bankRef)
}

// sound is a leaf: one audio source.
type sound struct {
	objectBase
	sourceID   uint32
	sourceName string
}

func (s *sound) Parse(n *bank.Node) error {
	s.parseBase(n)
	src := n.Child(fieldSourceID)
	if src == nil {
		return fmt.Errorf("sound without source")
	}
	s.sourceID = src.U32()
	s.sourceName = src.Attr(bank.AttrGUIDName)
	reportUnknown(s.reg, n, map[string]bool{fieldSourceID: true, fieldRTPC: true})
	return nil
}

func (s *sound) ChildIDs() []uint32 { return nil }

func (s *sound) render(p *pass) error {
	s.enter(p)
	defer p.t.Done()
	p.t.AddSource(s.sourceID, s.sourceName)
	return nil
}

// ranSeqContainer plays its children in authored order; which child a
// live engine picks is a post-render variation, not a state combo.
type ranSeqContainer struct {
	objectBase
	children []uint32
}

func (c *ranSeqContainer) Parse(n *bank.Node) error {
	c.parseBase(n)
	for _, child := range n.ChildrenNamed(fieldChildID) {
		c.children = append(c.children, child.U32())
	}
	reportUnknown(c.reg, n, map[string]bool{fieldChildID: true, fieldRTPC: true})
	return nil
}

func (c *ranSeqContainer) ChildIDs() []uint32 { return c.children }

func (c *ranSeqContainer) render(p *pass) error {
	c.enter(p)
	defer p.t.Done()
	for _, id := range c.children {
		if err := p.renderRef(c.node, c.bankID(), id, nil); err != nil {
			return err
		}
	}
	return nil
}

// switchItem maps one selector value to the nodes it plays.
type switchItem struct {
	value     uint32
	valueName string
	nodes     []uint32
}

// selectorSet is the shared switch/state selection logic used by both
// the actor and the music switch containers.
type selectorSet struct {
	kind      render.SelectorKind
	group     uint32
	groupName string
	items     []switchItem
}

func (s *selectorSet) parse(n *bank.Node) {
	group := n.Child(fieldGroupID)
	s.group = group.U32()
	s.groupName = label(group)
	kind := int64(groupTypeSwitch)
	if gt := n.Child(fieldGroupType); gt != nil {
		kind = gt.Value
	}
	if kind == groupTypeState {
		s.kind = render.SelectorState
	} else {
		s.kind = render.SelectorSwitch
	}
	for _, item := range n.ChildrenNamed(fieldSwitchItem) {
		value := item.Child(fieldSwitchID)
		si := switchItem{value: value.U32(), valueName: label(value)}
		for _, node := range item.ChildrenNamed(fieldNodeID) {
			si.nodes = append(si.nodes, node.U32())
		}
		s.items = append(s.items, si)
	}
}

func (s *selectorSet) childIDs() []uint32 {
	var out []uint32
	for _, item := range s.items {
		out = append(out, item.nodes...)
	}
	return out
}

// render resolves the active assignment for this group. Unassigned, it
// reports every possible value and renders every branch so nested
// selector groups and chunks surface in the discovery pass; the engine
// discards that pass's output once combos exist. Assigned, it renders
// the matching branch only and tags the artifact.
func (s *selectorSet) render(p *pass, caller *bank.Node, callerBank uint32) error {
	sel, assigned := p.w.ws.ActiveSelector(s.kind, s.group)
	if !assigned {
		for _, item := range s.items {
			p.w.ws.ReportSelector(s.kind, s.group, s.groupName, item.value, item.valueName)
		}
		for _, item := range s.items {
			for _, id := range item.nodes {
				if err := p.renderRef(caller, callerBank, id, nil); err != nil {
					return err
				}
			}
		}
		return nil
	}

	valueName := sel.ValueName
	if valueName == "" {
		valueName = fmt.Sprintf("%d", sel.Value)
	}
	groupName := s.groupName
	if groupName == "" {
		groupName = fmt.Sprintf("%d", s.group)
	}
	p.t.AddSelector(groupName, valueName, s.kind == render.SelectorSwitch)

	for _, item := range s.items {
		if item.value != sel.Value {
			continue
		}
		for _, id := range item.nodes {
			if err := p.renderRef(caller, callerBank, id, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// switchContainer picks children by one switch/state group.
type switchContainer struct {
	objectBase
	sel selectorSet
}

func (c *switchContainer) Parse(n *bank.Node) error {
	c.parseBase(n)
	if n.Child(fieldGroupID) == nil {
		return fmt.Errorf("switch container without group")
	}
	c.sel.parse(n)
	reportUnknown(c.reg, n, map[string]bool{
		fieldGroupID: true, fieldGroupType: true, fieldSwitchItem: true, fieldRTPC: true,
	})
	return nil
}

func (c *switchContainer) ChildIDs() []uint32 { return c.sel.childIDs() }

func (c *switchContainer) render(p *pass) error {
	c.enter(p)
	defer p.t.Done()
	return c.sel.render(p, c.node, c.bankID())
}

// rtpcDef is one parameter curve: a parameter id and the value range
// whose endpoints become the discovery buckets.
type rtpcDef struct {
	id   uint32
	name string
	min  float64
	max  float64
}

func parseRTPCs(n *bank.Node) []rtpcDef {
	var out []rtpcDef
	for _, r := range n.ChildrenNamed(fieldRTPC) {
		id := r.Child(fieldRTPCID)
		def := rtpcDef{id: id.U32(), name: label(id)}
		if minNode := r.Child(fieldRTPCMin); minNode != nil {
			def.min = float64(minNode.Value)
		}
		if maxNode := r.Child(fieldRTPCMax); maxNode != nil {
			def.max = float64(maxNode.Value)
		}
		out = append(out, def)
	}
	return out
}

func reportRTPCs(p *pass, defs []rtpcDef) {
	for _, def := range defs {
		name := def.name
		if name == "" {
			name = fmt.Sprintf("%d", def.id)
		}
		p.w.ws.ReportParam(def.id, name, def.min, def.max)
	}
}

// layerContainer plays all children at once; its parameter curves
// drive which bucket combos exist.
type layerContainer struct {
	objectBase
	children []uint32
	rtpcs    []rtpcDef
}

func (c *layerContainer) Parse(n *bank.Node) error {
	c.parseBase(n)
	for _, child := range n.ChildrenNamed(fieldChildID) {
		c.children = append(c.children, child.U32())
	}
	c.rtpcs = parseRTPCs(n)
	reportUnknown(c.reg, n, map[string]bool{fieldChildID: true, fieldRTPC: true})
	return nil
}

func (c *layerContainer) ChildIDs() []uint32 { return c.children }

func (c *layerContainer) render(p *pass) error {
	c.enter(p)
	defer p.t.Done()
	reportRTPCs(p, c.rtpcs)
	for _, id := range c.children {
		if err := p.renderRef(c.node, c.bankID(), id, nil); err != nil {
			return err
		}
	}
	return nil
}
