package hirc

import (
	"fmt"

	"wwtxtp/internal/bank"
)

// chunkState is one (group, state) assignment parsed from an object's
// state chunk. State id zero names the group's "none" state.
type chunkState struct {
	group     uint32
	groupName string
	state     uint32
	stateName string
}

func parseStateChunks(n *bank.Node) []chunkState {
	var out []chunkState
	for _, chunk := range n.ChildrenNamed(fieldStateChunk) {
		for _, group := range chunk.ChildrenNamed(fieldStateGroup) {
			groupID := group.U32()
			groupName := label(group)
			for _, state := range group.ChildrenNamed(fieldState) {
				id := state.Child(fieldStateID)
				out = append(out, chunkState{
					group:     groupID,
					groupName: groupName,
					state:     id.U32(),
					stateName: label(id),
				})
			}
		}
	}
	return out
}

func reportChunks(p *pass, chunks []chunkState) {
	for _, c := range chunks {
		p.w.ws.ReportChunk(c.group, c.groupName, c.state, c.stateName)
	}
}

// stingerDef pairs a trigger with the segment it plays on top of the
// running music.
type stingerDef struct {
	trigger uint32
	segment uint32
	name    string
}

func parseStingers(n *bank.Node) []stingerDef {
	var out []stingerDef
	for _, st := range n.ChildrenNamed(fieldStinger) {
		seg := st.Child(fieldSegmentID)
		def := stingerDef{segment: seg.U32(), name: label(seg)}
		if trig := st.Child(fieldTriggerID); trig != nil {
			def.trigger = trig.U32()
		}
		out = append(out, def)
	}
	return out
}

// reportStingers records each stinger as a secondary artifact and
// prefetches its segment so it never lands in the unused report.
func reportStingers(p *pass, caller *bank.Node, callerBank uint32, defs []stingerDef) error {
	for _, def := range defs {
		if def.segment == 0 {
			continue
		}
		ref := bank.Ref{BankID: callerBank, ID: def.segment}
		p.w.ws.AddStinger(ref, def.name)
		if _, err := p.w.reg.GetOrBuild(ref.BankID, ref.ID, caller, nil); err != nil {
			return err
		}
	}
	return nil
}

// parseTransitions counts transition rules and collects destination
// segments referenced outside the container's own child list.
func parseTransitions(p interface{ ReportTransitionObject() }, n *bank.Node) []uint32 {
	var dests []uint32
	for _, tr := range n.ChildrenNamed(fieldTransition) {
		p.ReportTransitionObject()
		if seg := tr.Child(fieldSegmentID); seg != nil && seg.U32() != 0 {
			dests = append(dests, seg.U32())
		}
	}
	return dests
}

// reportTransitions records each destination segment as a secondary
// artifact when it is not already part of the container's children.
func reportTransitions(p *pass, caller *bank.Node, callerBank uint32, dests []uint32, children []uint32) error {
	if len(dests) > 0 {
		p.t.AddInfo(fmt.Sprintf("transitions: %d", len(dests)))
	}
	owned := make(map[uint32]bool, len(children))
	for _, id := range children {
		owned[id] = true
	}
	for _, dest := range dests {
		if owned[dest] {
			continue
		}
		ref := bank.Ref{BankID: callerBank, ID: dest}
		node := p.w.reg.Resolve(ref.BankID, ref.ID)
		p.w.ws.AddTransition(ref, node.DisplayName())
		if _, err := p.w.reg.GetOrBuild(ref.BankID, ref.ID, caller, nil); err != nil {
			return err
		}
	}
	return nil
}

// musicSegment plays its tracks in parallel. Segments double as
// transition filler, so an empty one is routine rather than a defect.
type musicSegment struct {
	objectBase
	tracks   []uint32
	chunks   []chunkState
	stingers []stingerDef
}

func (m *musicSegment) Parse(n *bank.Node) error {
	m.parseBase(n)
	for _, child := range n.ChildrenNamed(fieldChildID) {
		m.tracks = append(m.tracks, child.U32())
	}
	m.chunks = parseStateChunks(n)
	m.stingers = parseStingers(n)
	reportUnknown(m.reg, n, map[string]bool{
		fieldChildID: true, fieldStateChunk: true, fieldStinger: true, fieldRTPC: true,
	})
	return nil
}

func (m *musicSegment) ChildIDs() []uint32 { return m.tracks }

func (m *musicSegment) render(p *pass) error {
	m.enter(p)
	defer p.t.Done()
	reportChunks(p, m.chunks)
	if err := reportStingers(p, m.node, m.bankID(), m.stingers); err != nil {
		return err
	}
	for _, id := range m.tracks {
		if err := p.renderRef(m.node, m.bankID(), id, nil); err != nil {
			return err
		}
	}
	return nil
}

// musicTrack is a leaf holding one audio source plus optional
// parameter curves.
type musicTrack struct {
	objectBase
	sourceID   uint32
	sourceName string
	rtpcs      []rtpcDef
}

func (m *musicTrack) Parse(n *bank.Node) error {
	m.parseBase(n)
	if src := n.Child(fieldSourceID); src != nil {
		m.sourceID = src.U32()
		m.sourceName = src.Attr(bank.AttrGUIDName)
	}
	m.rtpcs = parseRTPCs(n)
	reportUnknown(m.reg, n, map[string]bool{fieldSourceID: true, fieldRTPC: true})
	return nil
}

func (m *musicTrack) ChildIDs() []uint32 { return nil }

func (m *musicTrack) render(p *pass) error {
	m.enter(p)
	defer p.t.Done()
	reportRTPCs(p, m.rtpcs)
	if m.sourceID != 0 {
		p.t.AddSource(m.sourceID, m.sourceName)
	}
	return nil
}

// musicSwitch routes between music nodes by one switch/state group and
// carries the transition rules between them.
type musicSwitch struct {
	objectBase
	sel         selectorSet
	chunks      []chunkState
	transitions []uint32
}

func (m *musicSwitch) Parse(n *bank.Node) error {
	m.parseBase(n)
	if n.Child(fieldGroupID) == nil {
		return fmt.Errorf("music switch without group")
	}
	m.sel.parse(n)
	m.chunks = parseStateChunks(n)
	m.transitions = parseTransitions(m.reg, n)
	reportUnknown(m.reg, n, map[string]bool{
		fieldGroupID: true, fieldGroupType: true, fieldSwitchItem: true,
		fieldStateChunk: true, fieldTransition: true, fieldRTPC: true,
	})
	return nil
}

func (m *musicSwitch) ChildIDs() []uint32 { return m.sel.childIDs() }

func (m *musicSwitch) render(p *pass) error {
	m.enter(p)
	defer p.t.Done()
	reportChunks(p, m.chunks)
	if err := reportTransitions(p, m.node, m.bankID(), m.transitions, m.sel.childIDs()); err != nil {
		return err
	}
	return m.sel.render(p, m.node, m.bankID())
}

// musicRanSeq chains segments into a playlist.
type musicRanSeq struct {
	objectBase
	children    []uint32
	chunks      []chunkState
	transitions []uint32
}

func (m *musicRanSeq) Parse(n *bank.Node) error {
	m.parseBase(n)
	for _, child := range n.ChildrenNamed(fieldChildID) {
		m.children = append(m.children, child.U32())
	}
	m.chunks = parseStateChunks(n)
	m.transitions = parseTransitions(m.reg, n)
	reportUnknown(m.reg, n, map[string]bool{
		fieldChildID: true, fieldStateChunk: true, fieldTransition: true, fieldRTPC: true,
	})
	return nil
}

func (m *musicRanSeq) ChildIDs() []uint32 { return m.children }

func (m *musicRanSeq) render(p *pass) error {
	m.enter(p)
	defer p.t.Done()
	reportChunks(p, m.chunks)
	if err := reportTransitions(p, m.node, m.bankID(), m.transitions, m.children); err != nil {
		return err
	}
	for _, id := range m.children {
		if err := p.renderRef(m.node, m.bankID(), id, nil); err != nil {
			return err
		}
	}
	return nil
}
