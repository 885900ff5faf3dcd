package trackview

// Node is one element of a sequence tree: a *Sequence, an *AnimNode or a
// *Track. Parents own their children; the parent link is a non-owning back
// reference.
type Node interface {
	Kind() NodeKind
	Name() string
	Parent() Node
	Children() []Node
	Sequence() *Sequence

	IsSelected() bool
	SetSelected(selected bool)
	IsHidden() bool
	SetHidden(hidden bool)
	IsExpanded() bool
	SetExpanded(expanded bool)

	AllKeys() KeyBundle
	SelectedKeys() KeyBundle
	KeysInTimeRange(t0, t1 float64) KeyBundle

	base() *nodeBase
}

// nodeBase holds the tree state shared by all node kinds.
type nodeBase struct {
	self     Node
	parent   Node
	children []Node

	name     string
	selected bool
	hidden   bool
	expanded bool
}

func (n *nodeBase) base() *nodeBase { return n }

// Name returns the node name.
func (n *nodeBase) Name() string { return n.name }

// Parent returns the parent node, or nil for a root or detached node.
func (n *nodeBase) Parent() Node { return n.parent }

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *nodeBase) Children() []Node { return n.children }

// NumChildren returns the number of children.
func (n *nodeBase) NumChildren() int { return len(n.children) }

// ChildAt returns the child at the given index.
func (n *nodeBase) ChildAt(index int) Node { return n.children[index] }

// Sequence returns the sequence owning this node, found by walking ancestors.
// Detached nodes return nil.
func (n *nodeBase) Sequence() *Sequence {
	for cur := n.self; cur != nil; cur = cur.Parent() {
		if s, ok := cur.(*Sequence); ok {
			return s
		}
	}
	return nil
}

// Director returns the nearest ancestor Director node, or nil.
func (n *nodeBase) Director() *AnimNode {
	for cur := n.parent; cur != nil; cur = cur.Parent() {
		if a := asAnimNode(cur); a != nil && cur.Kind() == KindAnimNode && a.nodeType == AnimNodeDirector {
			return a
		}
	}
	return nil
}

// IsSelected reports whether the node is selected.
func (n *nodeBase) IsSelected() bool { return n.selected }

// SetSelected selects or deselects the node.
func (n *nodeBase) SetSelected(selected bool) {
	if n.selected == selected {
		return
	}
	n.selected = selected
	seq := n.Sequence()
	if selected {
		seq.OnNodeChanged(n.self, ChangeSelected)
	} else {
		seq.OnNodeChanged(n.self, ChangeDeselected)
	}
	seq.OnNodeSelectionChanged()
}

// IsHidden reports whether the node is hidden.
func (n *nodeBase) IsHidden() bool { return n.hidden }

// IsExpanded reports whether the node's children are shown for navigation.
func (n *nodeBase) IsExpanded() bool { return n.expanded }

// SetExpanded expands or collapses the node.
func (n *nodeBase) SetExpanded(expanded bool) {
	if n.expanded == expanded {
		return
	}
	n.expanded = expanded
	if expanded {
		n.Sequence().OnNodeChanged(n.self, ChangeExpanded)
	} else {
		n.Sequence().OnNodeChanged(n.self, ChangeCollapsed)
	}
}

// --- Tree manipulation ---

// AddChild appends child, re-sorts all siblings, sets the parent link and
// emits an Added notification.
// Panics if child is nil, is a Sequence, would create a cycle, or is an
// AnimNode added below a Track.
func (n *nodeBase) AddChild(child Node) {
	if child == nil {
		panic("trackview: cannot add nil child")
	}
	if child.Kind() == KindSequence {
		panic("trackview: a sequence cannot be a child")
	}
	if n.self.Kind() == KindTrack && child.Kind() != KindTrack {
		panic("trackview: tracks can only hold sub-tracks")
	}
	if isAncestor(child, n.self) {
		panic("trackview: adding child would create a cycle")
	}
	if p := child.Parent(); p != nil {
		p.base().removeChildByPtr(child)
	}
	n.children = append(n.children, child)
	sortNodes(n.children)
	child.base().parent = n.self
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
		debugCheckOrder(n)
	}
	n.Sequence().OnNodeChanged(child, ChangeAdded)
}

// RemoveChild deselects every key under child, emits Removed and detaches it.
// Anim nodes are unbound first. Panics if child's parent is not this node.
func (n *nodeBase) RemoveChild(child Node) {
	if child.Parent() != n.self {
		panic("trackview: child's parent is not this node")
	}
	if a := asAnimNode(child); a != nil {
		a.Unbind()
	}
	n.Sequence().OnNodeChanged(child, ChangeRemoved)
	n.removeChildByPtr(child)
	child.base().parent = nil
}

// sortChildren re-sorts the children after a name change.
func (n *nodeBase) sortChildren() {
	sortNodes(n.children)
}

// indexOf returns the index of child, or -1.
func (n *nodeBase) indexOf(child Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// --- Navigation ---

// PrevSibling returns the sibling sorted immediately before this node.
func (n *nodeBase) PrevSibling() Node {
	if n.parent == nil {
		return nil
	}
	siblings := n.parent.base()
	i := siblings.indexOf(n.self)
	if i <= 0 {
		return nil
	}
	return siblings.children[i-1]
}

// NextSibling returns the sibling sorted immediately after this node.
func (n *nodeBase) NextSibling() Node {
	if n.parent == nil {
		return nil
	}
	siblings := n.parent.base()
	i := siblings.indexOf(n.self)
	if i < 0 || i+1 >= len(siblings.children) {
		return nil
	}
	return siblings.children[i+1]
}

// AboveNode returns the node displayed directly above this one in an
// expand-aware depth-first walk: the deepest last visible descendant of the
// previous sibling, or the parent.
func (n *nodeBase) AboveNode() Node {
	if n.parent == nil {
		return nil
	}
	prev := n.PrevSibling()
	if prev == nil {
		return n.parent
	}
	cur := prev
	for cur.IsExpanded() && len(cur.Children()) > 0 {
		children := cur.Children()
		cur = children[len(children)-1]
	}
	return cur
}

// BelowNode returns the node displayed directly below this one. Children of
// collapsed nodes are skipped.
func (n *nodeBase) BelowNode() Node {
	if n.expanded && len(n.children) > 0 {
		return n.children[0]
	}
	if n.parent == nil {
		return nil
	}
	if next := n.NextSibling(); next != nil {
		return next
	}
	for p := n.parent; p != nil; p = p.Parent() {
		if next := p.base().NextSibling(); next != nil {
			return next
		}
	}
	return nil
}

// --- Keys ---

// AllKeys returns every key below this node.
func (n *nodeBase) AllKeys() KeyBundle {
	var b KeyBundle
	for _, c := range n.children {
		b.AppendKeyBundle(c.AllKeys())
	}
	return b
}

// SelectedKeys returns every selected key below this node.
func (n *nodeBase) SelectedKeys() KeyBundle {
	var b KeyBundle
	for _, c := range n.children {
		b.AppendKeyBundle(c.SelectedKeys())
	}
	return b
}

// KeysInTimeRange returns every key below this node with t0 <= time <= t1.
func (n *nodeBase) KeysInTimeRange(t0, t1 float64) KeyBundle {
	var b KeyBundle
	for _, c := range n.children {
		b.AppendKeyBundle(c.KeysInTimeRange(t0, t1))
	}
	return b
}

// SnapTimeToPrevKey returns the time of the closest key strictly before t
// below this node. ok is false when no such key exists.
func (n *nodeBase) SnapTimeToPrevKey(t float64) (snapped float64, ok bool) {
	keys := n.self.AllKeys()
	for i := 0; i < keys.KeyCount(); i++ {
		kt := keys.Key(i).Time()
		if kt < t && (!ok || kt > snapped) {
			snapped, ok = kt, true
		}
	}
	return snapped, ok
}

// SnapTimeToNextKey returns the time of the closest key strictly after t
// below this node. ok is false when no such key exists.
func (n *nodeBase) SnapTimeToNextKey(t float64) (snapped float64, ok bool) {
	keys := n.self.AllKeys()
	for i := 0; i < keys.KeyCount(); i++ {
		kt := keys.Key(i).Time()
		if kt > t && (!ok || kt < snapped) {
			snapped, ok = kt, true
		}
	}
	return snapped, ok
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node Node) bool {
	for p := node; p != nil; p = p.Parent() {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing its parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *nodeBase) removeChildByPtr(child Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// depth returns the number of ancestors of n.
func depth(n Node) int {
	d := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}

// asAnimNode returns the AnimNode part of n, or nil when n is a track.
func asAnimNode(n Node) *AnimNode {
	switch v := n.(type) {
	case *AnimNode:
		return v
	case *Sequence:
		return &v.AnimNode
	}
	return nil
}
