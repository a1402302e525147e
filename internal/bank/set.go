package bank

// Bank is one loaded unit of project data: a numeric bank id, the
// source filename, and the top-level hierarchy items. Media-only banks
// carry no items.
type Bank struct {
	ID       uint32
	Filename string
	Items    []*Node
}

// Set owns every loaded bank for one run and backs the handle arena.
// Load order is significant: registration and ambiguous-reference
// fallback both follow it.
type Set struct {
	banks []*Bank
	count uint32
}

// NewSet adopts the given banks in order, assigning arena handles to
// every node. Banks must not be mutated afterwards.
func NewSet(banks ...*Bank) *Set {
	s := &Set{}
	for _, b := range banks {
		s.Add(b)
	}
	return s
}

// Add adopts one more bank at the end of the load order.
func (s *Set) Add(b *Bank) {
	if b == nil {
		return
	}
	for _, item := range b.Items {
		s.adopt(b, item)
	}
	s.banks = append(s.banks, b)
}

func (s *Set) adopt(b *Bank, n *Node) {
	if n == nil || n.handle != 0 {
		return
	}
	s.count++
	n.bank = b
	n.handle = Handle(s.count)
	for _, c := range n.Children {
		s.adopt(b, c)
	}
}

// Banks returns the banks in load order.
func (s *Set) Banks() []*Bank { return s.banks }

// NodeCount reports how many nodes the arena has adopted.
func (s *Set) NodeCount() int { return int(s.count) }
