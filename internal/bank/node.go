package bank

import "strconv"

// Attribute keys carried by parsed nodes. Hash names come from the
// project's string table; guid names and paths from authoring metadata.
const (
	AttrHashName = "hashname"
	AttrGUIDName = "guidname"
	AttrPath     = "path"
	AttrObjPath  = "objpath"
)

// NameSID is the element name of the self-identifying sub-node carrying
// an object's short id.
const NameSID = "sid"

// Handle is a stable per-run node identity assigned at adoption.
// Zero is never assigned.
type Handle uint32

// Ref identifies one hierarchy object by owning bank and short id.
// Short ids are unique by intent only; the same id may name distinct
// objects in different banks.
type Ref struct {
	BankID uint32
	ID     uint32
}

func (r Ref) String() string {
	return strconv.FormatUint(uint64(r.BankID), 10) + "/" + strconv.FormatUint(uint64(r.ID), 10)
}

// Node is one parsed hierarchy element: a named value with optional
// attributes and children. Top-level items under a bank use their
// hierarchy type name ("Event", "SwitchContainer", ...) as the element
// name; field sub-nodes use field names ("actionID", "groupID", ...).
type Node struct {
	Name     string
	Value    int64
	Attrs    map[string]string
	Children []*Node

	bank   *Bank
	handle Handle
}

// Bank returns the owning bank, nil until the node has been adopted.
func (n *Node) Bank() *Bank { return n.bank }

// Handle returns the node's arena handle, zero until adopted.
func (n *Node) Handle() Handle { return n.handle }

// Attr returns the named attribute or "".
func (n *Node) Attr(key string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// U32 returns the node value truncated to an unsigned id.
func (n *Node) U32() uint32 {
	if n == nil {
		return 0
	}
	return uint32(n.Value)
}

// Child returns the first direct child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children with the given name.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first descendant with the given name, depth first,
// or nil.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// SID returns the self-identifying sub-node, or nil for anonymous
// elements (media-only entries, field nodes).
func (n *Node) SID() *Node { return n.Child(NameSID) }

// ShortID returns the node's short id when it carries one.
func (n *Node) ShortID() (uint32, bool) {
	sid := n.SID()
	if sid == nil {
		return 0, false
	}
	return sid.U32(), true
}

// DisplayName returns the hash name attached to the sid sub-node, or ""
// for unnamed objects.
func (n *Node) DisplayName() string {
	return n.SID().Attr(AttrHashName)
}

// Label renders the node's id and display name for diagnostics.
func (n *Node) Label() string {
	if n == nil {
		return "?"
	}
	id, ok := n.ShortID()
	if !ok {
		return n.Name
	}
	if name := n.DisplayName(); name != "" {
		return name
	}
	return strconv.FormatUint(uint64(id), 10)
}
