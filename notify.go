package trackview

import "slices"

// SequenceListener observes changes of one sequence. Listeners are called in
// registration order.
type SequenceListener interface {
	OnSequenceSettingsChanged(seq *Sequence)
	OnNodeChanged(node Node, reason ChangeReason)
	OnNodeRenamed(node Node, oldName string)
	OnNodeSelectionChanged(seq *Sequence)
	OnKeySelectionChanged(seq *Sequence)
	OnKeysChanged(seq *Sequence)
	OnKeyAdded(key KeyHandle)
}

// ListenerFuncs adapts optional callbacks to a SequenceListener. Register it
// by pointer so it can be removed again.
type ListenerFuncs struct {
	SettingsChanged      func(seq *Sequence)
	NodeChanged          func(node Node, reason ChangeReason)
	NodeRenamed          func(node Node, oldName string)
	NodeSelectionChanged func(seq *Sequence)
	KeySelectionChanged  func(seq *Sequence)
	KeysChanged          func(seq *Sequence)
	KeyAdded             func(key KeyHandle)
}

func (f *ListenerFuncs) OnSequenceSettingsChanged(seq *Sequence) {
	if f.SettingsChanged != nil {
		f.SettingsChanged(seq)
	}
}

func (f *ListenerFuncs) OnNodeChanged(node Node, reason ChangeReason) {
	if f.NodeChanged != nil {
		f.NodeChanged(node, reason)
	}
}

func (f *ListenerFuncs) OnNodeRenamed(node Node, oldName string) {
	if f.NodeRenamed != nil {
		f.NodeRenamed(node, oldName)
	}
}

func (f *ListenerFuncs) OnNodeSelectionChanged(seq *Sequence) {
	if f.NodeSelectionChanged != nil {
		f.NodeSelectionChanged(seq)
	}
}

func (f *ListenerFuncs) OnKeySelectionChanged(seq *Sequence) {
	if f.KeySelectionChanged != nil {
		f.KeySelectionChanged(seq)
	}
}

func (f *ListenerFuncs) OnKeysChanged(seq *Sequence) {
	if f.KeysChanged != nil {
		f.KeysChanged(seq)
	}
}

func (f *ListenerFuncs) OnKeyAdded(key KeyHandle) {
	if f.KeyAdded != nil {
		f.KeyAdded(key)
	}
}

// AddListener registers l. Registering the same listener twice is a no-op.
func (s *Sequence) AddListener(l SequenceListener) {
	if slices.Contains(s.listeners, l) {
		return
	}
	s.listeners = append(s.listeners, l)
}

// RemoveListener unregisters l.
func (s *Sequence) RemoveListener(l SequenceListener) {
	if i := slices.Index(s.listeners, l); i >= 0 {
		s.listeners = slices.Delete(s.listeners, i, i+1)
	}
}

func (s *Sequence) dispatch(fn func(SequenceListener)) {
	if s.noNotifications {
		return
	}
	for _, l := range slices.Clone(s.listeners) {
		fn(l)
	}
}

// --- Batching ---

// QueueNotifications opens a batching scope. Selection, keys-changed and
// re-animate requests are held until the matching SubmitPendingNotifications
// brings the depth back to zero.
func (s *Sequence) QueueNotifications() {
	s.depth++
}

// SubmitPendingNotifications closes a batching scope. At depth zero every
// pending flag is flushed as exactly one listener call.
// Panics when no scope is open.
func (s *Sequence) SubmitPendingNotifications() {
	if s.depth <= 0 {
		panic("trackview: SubmitPendingNotifications without QueueNotifications")
	}
	s.depth--
	if s.depth == 0 {
		s.flush()
	}
}

// discardQueuedScope closes a batching scope without flushing. Pending flags
// stay set and go out with the next flush.
func (s *Sequence) discardQueuedScope() {
	if s.depth > 0 {
		s.depth--
	}
}

// NotificationDepth returns the number of open batching scopes.
func (s *Sequence) NotificationDepth() int { return s.depth }

func (s *Sequence) flush() {
	nodeSel, keySel, keys, reanimate := s.pendingNodeSelection, s.pendingKeySelection, s.pendingKeys, s.pendingReanimate
	s.pendingNodeSelection, s.pendingKeySelection, s.pendingKeys, s.pendingReanimate = false, false, false, false
	if nodeSel {
		s.dispatch(func(l SequenceListener) { l.OnNodeSelectionChanged(s) })
	}
	if keySel {
		s.dispatch(func(l SequenceListener) { l.OnKeySelectionChanged(s) })
	}
	if keys {
		s.dispatch(func(l SequenceListener) { l.OnKeysChanged(s) })
	}
	if reanimate && !s.noNotifications {
		s.reanimate()
	}
}

// NotificationBatch is a scoped QueueNotifications/SubmitPendingNotifications
// pair. A batch on a nil sequence does nothing.
type NotificationBatch struct {
	seq  *Sequence
	done bool
}

// BeginNotifications opens a batching scope that must be closed with End or
// Cancel, typically deferred.
func (s *Sequence) BeginNotifications() *NotificationBatch {
	if s != nil {
		s.QueueNotifications()
	}
	return &NotificationBatch{seq: s}
}

// End submits the scope. Calling End again, or after Cancel, is a no-op.
func (b *NotificationBatch) End() {
	if b.done || b.seq == nil {
		return
	}
	b.done = true
	b.seq.SubmitPendingNotifications()
}

// Cancel discards the scope without flushing.
func (b *NotificationBatch) Cancel() {
	if b.done || b.seq == nil {
		return
	}
	b.done = true
	b.seq.discardQueuedScope()
}

// SuppressNotifications silences every dispatch until the returned restore
// function runs. Guards nest; restore puts back the previous state.
//
//	defer seq.SuppressNotifications()()
func (s *Sequence) SuppressNotifications() (restore func()) {
	if s == nil {
		return func() {}
	}
	prev := s.noNotifications
	s.noNotifications = true
	return func() { s.noNotifications = prev }
}

// NotificationsSuppressed reports whether a suppression guard is active.
func (s *Sequence) NotificationsSuppressed() bool { return s.noNotifications }

// --- Events ---

// OnNodeChanged reports a node change. Removal first deselects the node's
// keys and the node itself. Structural, enable, visibility, director and
// owner changes request a re-animation.
func (s *Sequence) OnNodeChanged(node Node, reason ChangeReason) {
	if s == nil {
		return
	}
	if reason == ChangeRemoved {
		s.deselectRemoved(node)
	}
	switch reason {
	case ChangeAdded, ChangeRemoved:
		if nodeIsActive(node) {
			s.ForceAnimation()
		}
	case ChangeEnabled, ChangeDisabled, ChangeHidden, ChangeUnhidden,
		ChangeSetAsActiveDirector, ChangeOwnerChanged:
		s.ForceAnimation()
	}
	s.markModified()
	s.dispatch(func(l SequenceListener) { l.OnNodeChanged(node, reason) })
}

// deselectRemoved clears the key selection below node and the node's own
// selection. The key deselection scope is discarded when no key selection
// change is pending.
func (s *Sequence) deselectRemoved(node Node) {
	batch := s.BeginNotifications()
	defer batch.End()
	keys := node.SelectedKeys()
	for _, h := range keys.Keys() {
		h.Select(false)
	}
	if !s.pendingKeySelection {
		batch.Cancel()
	}
	if node.IsSelected() {
		node.SetSelected(false)
	}
}

func nodeIsActive(node Node) bool {
	switch v := node.(type) {
	case *Track:
		if a := v.AnimNode(); a != nil {
			return a.IsActive()
		}
		return false
	default:
		if a := asAnimNode(node); a != nil {
			return a.IsActive()
		}
	}
	return false
}

// OnNodeRenamed reports a rename.
func (s *Sequence) OnNodeRenamed(node Node, oldName string) {
	if s == nil {
		return
	}
	s.markModified()
	s.dispatch(func(l SequenceListener) { l.OnNodeRenamed(node, oldName) })
}

// OnNodeSelectionChanged records a node selection change.
func (s *Sequence) OnNodeSelectionChanged() {
	if s == nil {
		return
	}
	s.pendingNodeSelection = true
	if s.depth == 0 {
		s.flush()
	}
}

// OnKeySelectionChanged records a key selection change.
func (s *Sequence) OnKeySelectionChanged() {
	if s == nil {
		return
	}
	s.pendingKeySelection = true
	if s.depth == 0 {
		s.flush()
	}
}

// OnKeysChanged records a key data change.
func (s *Sequence) OnKeysChanged() {
	if s == nil {
		return
	}
	s.markModified()
	s.pendingKeys = true
	if s.depth == 0 {
		s.flush()
	}
}

// OnKeyAdded reports a new key immediately.
func (s *Sequence) OnKeyAdded(key KeyHandle) {
	if s == nil {
		return
	}
	s.dispatch(func(l SequenceListener) { l.OnKeyAdded(key) })
}

// OnSequenceSettingsChanged reports a change of range, flags or name.
func (s *Sequence) OnSequenceSettingsChanged() {
	if s == nil {
		return
	}
	s.markModified()
	s.dispatch(func(l SequenceListener) { l.OnSequenceSettingsChanged(s) })
}

// ForceAnimation requests that the bound runtime state be re-evaluated at
// the current time. Inside a batch the request is deferred to the flush.
func (s *Sequence) ForceAnimation() {
	if s == nil || s.noNotifications {
		return
	}
	if s.depth > 0 {
		s.pendingReanimate = true
		return
	}
	s.reanimate()
}
