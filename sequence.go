package trackview

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeRange is the range of sequences created without one.
var DefaultTimeRange = Range{Start: 0, End: 10}

// Sequence is the root of an authored timeline. It owns the node tree, the
// change-notification engine and the binding state of the whole tree.
type Sequence struct {
	AnimNode

	id          uuid.UUID
	timeRange   Range
	flags       SequenceFlags
	time        float64
	lastAnim    float64 // local time of the last evaluation, NaN after a reset
	activated   bool
	directing   bool // a director of this sequence is animating
	bound       bool
	modified    bool
	nextTrackID uint32

	activeDirector *AnimNode

	manager     *Manager
	store       EntityStore
	notifier    Notifier
	reanimateFn func(*Sequence)
	debug       bool

	// Notification engine
	listeners            []SequenceListener
	depth                int
	noNotifications      bool
	pendingNodeSelection bool
	pendingKeySelection  bool
	pendingKeys          bool
	pendingReanimate     bool
}

// SequenceOption configures a new Sequence.
type SequenceOption func(*Sequence)

// WithID sets the sequence id instead of a random one.
func WithID(id uuid.UUID) SequenceOption {
	return func(s *Sequence) { s.id = id }
}

// WithTimeRange sets the initial time range.
func WithTimeRange(r Range) SequenceOption {
	return func(s *Sequence) { s.timeRange = r }
}

// WithFlags sets the initial sequence flags.
func WithFlags(f SequenceFlags) SequenceOption {
	return func(s *Sequence) { s.flags = f }
}

// WithEntityStore sets the store entity nodes resolve against.
func WithEntityStore(store EntityStore) SequenceOption {
	return func(s *Sequence) { s.store = store }
}

// WithNotifier sets the sink for user-facing messages.
func WithNotifier(n Notifier) SequenceOption {
	return func(s *Sequence) { s.notifier = n }
}

// NewSequence creates an empty, unbound sequence.
func NewSequence(name string, opts ...SequenceOption) *Sequence {
	s := &Sequence{
		id:        uuid.New(),
		timeRange: DefaultTimeRange,
		lastAnim:  math.NaN(),
	}
	s.self = s
	s.name = name
	s.expanded = true
	s.nodeType = AnimNodeInvalid
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind returns KindSequence.
func (s *Sequence) Kind() NodeKind { return KindSequence }

// ID returns the sequence id used by director keys to reference it.
func (s *Sequence) ID() uuid.UUID { return s.id }

// SetName renames the sequence. Names are unique within a Manager; a
// conflicting name is rejected with a user message.
func (s *Sequence) SetName(name string) bool {
	if name == "" || name == s.name {
		return name != ""
	}
	if s.manager != nil {
		if other := s.manager.SequenceByName(name); other != nil && other != s {
			s.logf("A sequence named '%s' already exists", name)
			return false
		}
	}
	old := s.name
	s.name = name
	s.OnNodeRenamed(s, old)
	s.OnSequenceSettingsChanged()
	return true
}

// TimeRange returns the authored time range.
func (s *Sequence) TimeRange() Range { return s.timeRange }

// SetTimeRange sets the authored time range.
func (s *Sequence) SetTimeRange(r Range) {
	if r == s.timeRange {
		return
	}
	s.timeRange = r
	s.OnSequenceSettingsChanged()
}

// Flags returns the sequence flags.
func (s *Sequence) Flags() SequenceFlags { return s.flags }

// SetFlags replaces the sequence flags.
func (s *Sequence) SetFlags(f SequenceFlags) {
	if f == s.flags {
		return
	}
	s.flags = f
	s.OnSequenceSettingsChanged()
}

// HasFlag reports whether every bit of f is set.
func (s *Sequence) HasFlag(f SequenceFlags) bool { return s.flags&f == f }

// Time returns the time of the last evaluation.
func (s *Sequence) Time() float64 { return s.time }

// Manager returns the manager the sequence belongs to, or nil.
func (s *Sequence) Manager() *Manager { return s.manager }

// EntityStore returns the store entity nodes resolve against.
func (s *Sequence) EntityStore() EntityStore { return s.store }

// SetEntityStore sets the store. Bound nodes keep their resolved entities
// until they are rebound.
func (s *Sequence) SetEntityStore(store EntityStore) { s.store = store }

// Notifier returns the user-message sink.
func (s *Sequence) Notifier() Notifier {
	if s == nil || s.notifier == nil {
		return defaultNotifier
	}
	return s.notifier
}

// SetNotifier sets the user-message sink.
func (s *Sequence) SetNotifier(n Notifier) { s.notifier = n }

func (s *Sequence) logf(format string, args ...any) {
	s.Notifier().LogUserNotification(fmt.Sprintf(format, args...))
}

// SetReanimateHandler installs the function that performs forced
// re-animations. Without a handler the sequence re-animates itself at its
// current time.
func (s *Sequence) SetReanimateHandler(fn func(*Sequence)) { s.reanimateFn = fn }

func (s *Sequence) reanimate() {
	if s.reanimateFn != nil {
		s.reanimateFn(s)
		return
	}
	if s.bound {
		s.Animate(AnimContext{Time: s.time, Force: true})
	}
}

// SetDebugMode enables or disables debug mode. When enabled, tree depth and
// child count warnings are printed, sibling order is verified after each
// insertion and per-call animation stats are logged to stderr.
func (s *Sequence) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// IsModified reports whether the sequence changed since ClearModified.
func (s *Sequence) IsModified() bool { return s.modified }

// ClearModified resets the modified flag, typically after saving.
func (s *Sequence) ClearModified() { s.modified = false }

func (s *Sequence) markModified() { s.modified = true }

// defaultEase is the ease of new float keys.
func (s *Sequence) defaultEase() Ease {
	if s == nil || s.manager == nil {
		return EaseLinear
	}
	return s.manager.cfg.Ease()
}

func (s *Sequence) allocTrackID() uint32 {
	if s == nil {
		return 0
	}
	s.nextTrackID++
	return s.nextTrackID
}

// ActiveDirector returns the active director node, or nil when the sequence
// root acts as director.
func (s *Sequence) ActiveDirector() *AnimNode { return s.activeDirector }

// --- Binding ---

// IsBound reports whether the sequence is bound to runtime objects.
func (s *Sequence) IsBound() bool { return s.bound }

// Bind binds every active node of the tree. Binding a bound sequence is a
// no-op.
func (s *Sequence) Bind() {
	if s.bound {
		return
	}
	batch := s.BeginNotifications()
	defer batch.End()
	s.bound = true
	s.AnimNode.Bind()
	s.ForceAnimation()
}

// Unbind releases every node's runtime binding.
func (s *Sequence) Unbind() {
	batch := s.BeginNotifications()
	defer batch.End()
	s.AnimNode.Unbind()
	s.bound = false
}

// --- Activation ---

// IsActivated reports whether the sequence is activated for playback.
func (s *Sequence) IsActivated() bool { return s.activated }

// Activate prepares the sequence for playback.
func (s *Sequence) Activate() {
	if s.activated {
		return
	}
	s.activated = true
	s.Reset(false)
}

// Deactivate ends playback preparation.
func (s *Sequence) Deactivate() {
	if !s.activated {
		return
	}
	s.activated = false
	s.lastAnim = math.NaN()
}

// Reset forgets the last evaluated time so the next Animate always applies.
// With seekToStart the sequence is evaluated at the start of its range.
func (s *Sequence) Reset(seekToStart bool) {
	s.lastAnim = math.NaN()
	s.resetChildren(&s.AnimNode)
	if seekToStart && s.bound {
		s.Animate(AnimContext{Time: s.timeRange.Start, Force: true, Resetting: true})
	}
}

func (s *Sequence) resetChildren(n *AnimNode) {
	for _, c := range n.children {
		if a := asAnimNode(c); a != nil {
			if a.animator != nil {
				a.animator.Reset(a)
			}
			s.resetChildren(a)
		}
	}
}

// LastAnimatedTime returns the local time of the last evaluation and whether
// one happened since the last reset.
func (s *Sequence) LastAnimatedTime() (float64, bool) {
	return s.lastAnim, !math.IsNaN(s.lastAnim)
}

// --- Evaluation ---

// Animate evaluates the tree at ac.Time and applies the result to bound
// entities. Unforced evaluations at the last evaluated time are skipped.
func (s *Sequence) Animate(ac AnimContext) {
	if !ac.Force && ac.Time == s.lastAnim {
		return
	}
	var start time.Time
	if s.debug {
		start = time.Now()
	}
	s.time = ac.Time
	s.lastAnim = ac.Time
	s.AnimNode.Animate(ac)
	if s.debug {
		s.debugLog(debugStats{
			animateTime: time.Since(start),
			nodeCount:   countNodes(s),
		})
	}
}

// Render collects overlay draw commands of every active node into rc.
func (s *Sequence) Render(rc *RenderContext) {
	s.AnimNode.Render(rc)
}

// --- Key editing ---

// DeselectAllKeys clears the key selection of the whole sequence.
func (s *Sequence) DeselectAllKeys() {
	s.SelectedKeys().SelectKeys(false)
}

// SelectAllKeys selects every key of the sequence.
func (s *Sequence) SelectAllKeys() {
	s.AllKeys().SelectKeys(true)
}

// ClearSelection deselects every node and key.
func (s *Sequence) ClearSelection() {
	batch := s.BeginNotifications()
	defer batch.End()
	s.DeselectAllKeys()
	s.walk(func(n Node) {
		if n.IsSelected() {
			n.SetSelected(false)
		}
	})
}

// SelectKeysInTimeRange selects the keys with t0 <= time <= t1 below the
// selected nodes, or below the whole sequence when no node is selected.
func (s *Sequence) SelectKeysInTimeRange(t0, t1 float64) {
	batch := s.BeginNotifications()
	defer batch.End()
	nodes := s.SelectedAnimNodes()
	if nodes.Count() == 0 {
		s.KeysInTimeRange(t0, t1).SelectKeys(true)
		return
	}
	for _, n := range nodes.Nodes() {
		n.KeysInTimeRange(t0, t1).SelectKeys(true)
	}
}

// DeleteSelectedKeys removes every selected key.
func (s *Sequence) DeleteSelectedKeys() {
	batch := s.BeginNotifications()
	defer batch.End()
	keys := s.SelectedKeys()
	// Delete back to front so earlier handles stay valid.
	for i := keys.KeyCount() - 1; i >= 0; i-- {
		keys.Key(i).Delete()
	}
}

// OffsetSelectedKeys moves every selected key by delta seconds.
func (s *Sequence) OffsetSelectedKeys(delta float64) {
	if delta == 0 {
		return
	}
	batch := s.BeginNotifications()
	defer batch.End()
	for _, t := range s.tracksWithSelectedKeys() {
		t.offsetSelected(delta)
	}
}

// CloneSelectedKeys duplicates every selected key shifted by offset. The
// copies become the selection.
func (s *Sequence) CloneSelectedKeys(offset float64) {
	batch := s.BeginNotifications()
	defer batch.End()
	for _, t := range s.tracksWithSelectedKeys() {
		t.cloneSelected(offset)
	}
}

// SlideKeys shifts every key at or after pivot by offset.
func (s *Sequence) SlideKeys(pivot, offset float64) {
	batch := s.BeginNotifications()
	defer batch.End()
	for _, t := range s.AllTracks().Tracks() {
		if !t.IsCompound() {
			t.SlideKeys(pivot, offset)
		}
	}
}

func (s *Sequence) tracksWithSelectedKeys() []*Track {
	var out []*Track
	for _, t := range s.AllTracks().Tracks() {
		if t.IsCompound() {
			continue
		}
		for i := range t.keys {
			if t.keys[i].Selected {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// walk visits every node below the sequence depth-first.
func (s *Sequence) walk(fn func(Node)) {
	var visit func(n Node)
	visit = func(n Node) {
		for _, c := range n.Children() {
			fn(c)
			visit(c)
		}
	}
	visit(s)
}

func (s *Sequence) String() string {
	return fmt.Sprintf("Sequence(%q %v)", s.name, s.timeRange)
}
