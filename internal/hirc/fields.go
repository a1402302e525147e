package hirc

import "wwtxtp/internal/bank"

// Hierarchy type names as they appear on top-level bank items.
const (
	TypeEvent        = "Event"
	TypeAction       = "Action"
	TypeSound        = "Sound"
	TypeRanSeq       = "RandomSequenceContainer"
	TypeSwitch       = "SwitchContainer"
	TypeLayer        = "LayerContainer"
	TypeMusicSwitch  = "MusicSwitchContainer"
	TypeMusicRanSeq  = "MusicRandomSequence"
	TypeMusicSegment = "MusicSegment"
	TypeMusicTrack   = "MusicTrack"
)

// Field sub-node names shared across types.
const (
	fieldActionID   = "actionID"
	fieldActionType = "actionType"
	fieldIDExt      = "idExt"
	fieldBankID     = "bankID"
	fieldSourceID   = "sourceID"
	fieldChildID    = "childID"
	fieldGroupID    = "groupID"
	fieldGroupType  = "groupType"
	fieldSwitchItem = "switchItem"
	fieldSwitchID   = "switchID"
	fieldNodeID     = "nodeID"
	fieldStateChunk = "stateChunk"
	fieldStateGroup = "stateGroup"
	fieldState      = "state"
	fieldStateID    = "stateID"
	fieldRTPC       = "rtpc"
	fieldRTPCID     = "rtpcID"
	fieldRTPCMin    = "min"
	fieldRTPCMax    = "max"
	fieldStinger    = "stinger"
	fieldTriggerID  = "triggerID"
	fieldSegmentID  = "segmentID"
	fieldTransition = "transition"
)

// groupType values on selector containers.
const (
	groupTypeSwitch = 0
	groupTypeState  = 1
)

// label picks a node's hash name, empty when the node is anonymous.
func label(n *bank.Node) string {
	if n == nil {
		return ""
	}
	return n.Attr(bank.AttrHashName)
}

// reportUnknown forwards field names the contract did not interpret.
func reportUnknown(reg reporter, n *bank.Node, known map[string]bool) {
	var names []string
	for _, c := range n.Children {
		if c.Name == bank.NameSID || known[c.Name] {
			continue
		}
		names = append(names, n.Name+"."+c.Name)
	}
	if len(names) > 0 {
		reg.ReportUnknownProps(names)
	}
}

type reporter interface {
	ReportUnknownProps(names []string)
}
