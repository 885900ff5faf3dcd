package trackview

// AnimNodeBundle is an order-preserving, duplicate-free collection of nodes.
type AnimNodeBundle struct {
	nodes       []*AnimNode
	allSameType bool
}

// Append adds n unless it is already present.
func (b *AnimNodeBundle) Append(n *AnimNode) {
	if n == nil || b.Contains(n) {
		return
	}
	if len(b.nodes) == 0 {
		b.allSameType = true
	} else if b.nodes[len(b.nodes)-1].nodeType != n.nodeType {
		b.allSameType = false
	}
	b.nodes = append(b.nodes, n)
}

// AppendBundle appends every node of other in order.
func (b *AnimNodeBundle) AppendBundle(other AnimNodeBundle) {
	for _, n := range other.nodes {
		b.Append(n)
	}
}

// Count returns the number of nodes.
func (b AnimNodeBundle) Count() int { return len(b.nodes) }

// Node returns the node at index.
func (b AnimNodeBundle) Node(index int) *AnimNode { return b.nodes[index] }

// Nodes returns the nodes. The returned slice MUST NOT be mutated by the caller.
func (b AnimNodeBundle) Nodes() []*AnimNode { return b.nodes }

// Contains reports whether n is in the bundle.
func (b AnimNodeBundle) Contains(n *AnimNode) bool {
	for _, c := range b.nodes {
		if c == n {
			return true
		}
	}
	return false
}

// Remove drops n from the bundle.
func (b *AnimNodeBundle) Remove(n *AnimNode) bool {
	for i, c := range b.nodes {
		if c == n {
			b.nodes = append(b.nodes[:i], b.nodes[i+1:]...)
			return true
		}
	}
	return false
}

// AreAllOfSameType reports whether every node shares one AnimNodeType.
func (b AnimNodeBundle) AreAllOfSameType() bool {
	return len(b.nodes) > 0 && b.allSameType
}

// ExpandAll expands every node, and their ancestors when alsoParents is set.
func (b AnimNodeBundle) ExpandAll(alsoParents bool) {
	for _, n := range b.nodes {
		n.self.SetExpanded(true)
		if !alsoParents {
			continue
		}
		for p := n.parent; p != nil; p = p.Parent() {
			p.SetExpanded(true)
		}
	}
}

// CollapseAll collapses every node.
func (b AnimNodeBundle) CollapseAll() {
	for _, n := range b.nodes {
		n.self.SetExpanded(false)
	}
}

// TrackBundle is an order-preserving, duplicate-free collection of tracks.
type TrackBundle struct {
	tracks      []*Track
	allSameType bool
}

// Append adds t unless it is already present.
func (b *TrackBundle) Append(t *Track) {
	if t == nil || b.Contains(t) {
		return
	}
	if len(b.tracks) == 0 {
		b.allSameType = true
	} else {
		last := b.tracks[len(b.tracks)-1]
		if last.param != t.param || last.valueType != t.valueType {
			b.allSameType = false
		}
	}
	b.tracks = append(b.tracks, t)
}

// AppendBundle appends every track of other in order.
func (b *TrackBundle) AppendBundle(other TrackBundle) {
	for _, t := range other.tracks {
		b.Append(t)
	}
}

// Count returns the number of tracks.
func (b TrackBundle) Count() int { return len(b.tracks) }

// Track returns the track at index.
func (b TrackBundle) Track(index int) *Track { return b.tracks[index] }

// Tracks returns the tracks. The returned slice MUST NOT be mutated by the caller.
func (b TrackBundle) Tracks() []*Track { return b.tracks }

// Contains reports whether t is in the bundle.
func (b TrackBundle) Contains(t *Track) bool {
	for _, c := range b.tracks {
		if c == t {
			return true
		}
	}
	return false
}

// AreAllOfSameType reports whether every track shares parameter and value type.
func (b TrackBundle) AreAllOfSameType() bool {
	return len(b.tracks) > 0 && b.allSameType
}

// KeyBundle is an order-preserving, duplicate-free collection of key handles.
type KeyBundle struct {
	keys        []KeyHandle
	allSameType bool
}

// AppendKey adds h unless an equal handle is already present.
func (b *KeyBundle) AppendKey(h KeyHandle) {
	for _, k := range b.keys {
		if k == h {
			return
		}
	}
	if len(b.keys) == 0 {
		b.allSameType = true
	} else {
		last := b.keys[len(b.keys)-1].track
		if last.param != h.track.param || last.valueType != h.track.valueType {
			b.allSameType = false
		}
	}
	b.keys = append(b.keys, h)
}

// AppendKeyBundle appends every handle of other in order.
func (b *KeyBundle) AppendKeyBundle(other KeyBundle) {
	for _, h := range other.keys {
		b.AppendKey(h)
	}
}

// KeyCount returns the number of handles.
func (b KeyBundle) KeyCount() int { return len(b.keys) }

// Key returns the handle at index.
func (b KeyBundle) Key(index int) KeyHandle { return b.keys[index] }

// Keys returns the handles. The returned slice MUST NOT be mutated by the caller.
func (b KeyBundle) Keys() []KeyHandle { return b.keys }

// AreAllKeysOfSameType reports whether every key lives on tracks sharing
// parameter and value type.
func (b KeyBundle) AreAllKeysOfSameType() bool {
	return len(b.keys) > 0 && b.allSameType
}

// SingleSelectedKey returns the only selected key of the bundle, or an
// invalid handle when zero or several keys are selected.
func (b KeyBundle) SingleSelectedKey() KeyHandle {
	var found KeyHandle
	n := 0
	for _, h := range b.keys {
		if h.IsSelected() {
			found = h
			n++
		}
	}
	if n != 1 {
		return KeyHandle{}
	}
	return found
}

// SelectKeys selects or deselects every key, emitting at most one
// key-selection notification per sequence.
func (b KeyBundle) SelectKeys(selected bool) {
	var batches []*NotificationBatch
	seen := map[*Sequence]bool{}
	for _, h := range b.keys {
		seq := h.track.Sequence()
		if seq != nil && !seen[seq] {
			seen[seq] = true
			batches = append(batches, seq.BeginNotifications())
		}
	}
	for _, h := range b.keys {
		h.Select(selected)
	}
	for i := len(batches) - 1; i >= 0; i-- {
		batches[i].End()
	}
}
