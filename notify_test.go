package trackview

import (
	"slices"
	"testing"

	"github.com/google/uuid"
)

func filterEvents(events []string, keep ...string) []string {
	var out []string
	for _, e := range events {
		if slices.Contains(keep, e) {
			out = append(out, e)
		}
	}
	return out
}

func TestNestedBatchesFlushOnce(t *testing.T) {
	seq, tr := floatTrack()
	h := tr.CreateKey(1)
	rec := &recorder{}
	seq.AddListener(rec)

	outer := seq.BeginNotifications()
	inner := seq.BeginNotifications()
	h.Select(true)
	tr.CreateKey(2)
	tr.CreateKey(3)
	inner.End()
	if got := filterEvents(rec.events, "keySelection", "keys"); len(got) != 0 {
		t.Errorf("events before the outermost End = %v, want none", got)
	}
	outer.End()

	if rec.count("keySelection") != 1 || rec.count("keys") != 1 {
		t.Errorf("events = %v, want one keySelection and one keys", rec.events)
	}
	if rec.count("keyAdded") != 2 {
		t.Errorf("keyAdded = %d, want 2 (delivered immediately)", rec.count("keyAdded"))
	}
}

func TestBatchDepthUnwind(t *testing.T) {
	seq, tr := floatTrack()
	rec := &recorder{}
	seq.AddListener(rec)

	const n = 5
	for i := 0; i < n; i++ {
		seq.QueueNotifications()
	}
	tr.CreateKey(1)
	for i := 0; i < n; i++ {
		if seq.NotificationDepth() != n-i {
			t.Fatalf("depth = %d, want %d", seq.NotificationDepth(), n-i)
		}
		if i < n-1 && rec.count("keys") != 0 {
			t.Fatalf("keys dispatched at depth %d", seq.NotificationDepth())
		}
		seq.SubmitPendingNotifications()
	}
	if rec.count("keys") != 1 {
		t.Errorf("keys = %d, want 1", rec.count("keys"))
	}
}

func TestPartialUnwindDispatchesNothing(t *testing.T) {
	seq, tr := floatTrack()
	rec := &recorder{}
	seq.AddListener(rec)

	seq.QueueNotifications()
	seq.QueueNotifications()
	tr.CreateKey(1).Select(true)
	seq.SubmitPendingNotifications()
	if got := filterEvents(rec.events, "keySelection", "keys"); len(got) != 0 {
		t.Errorf("events = %v, want none", got)
	}
	seq.SubmitPendingNotifications()
	if got := filterEvents(rec.events, "keySelection", "keys"); !slices.Equal(got, []string{"keySelection", "keys"}) {
		t.Errorf("events = %v, want [keySelection keys]", got)
	}
}

func TestFlushOrder(t *testing.T) {
	seq, tr := floatTrack()
	rec := &recorder{}
	seq.AddListener(rec)

	batch := seq.BeginNotifications()
	tr.CreateKey(1).Select(true)
	tr.AnimNode().SetSelected(true)
	batch.End()

	got := filterEvents(rec.events, "nodeSelection", "keySelection", "keys")
	want := []string{"nodeSelection", "keySelection", "keys"}
	if !slices.Equal(got, want) {
		t.Errorf("flush order = %v, want %v", got, want)
	}
}

func TestNodeChangedIsImmediate(t *testing.T) {
	seq, tr := floatTrack()
	rec := &recorder{}
	seq.AddListener(rec)

	batch := seq.BeginNotifications()
	tr.SetHidden(true)
	if rec.count("changed Float Hidden") != 1 {
		t.Errorf("events = %v, want Hidden inside the batch", rec.events)
	}
	batch.End()
}

func TestSubmitWithoutQueuePanics(t *testing.T) {
	seq, _ := newTestSequence("seq")
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	seq.SubmitPendingNotifications()
}

func TestBatchEndTwiceIsNoop(t *testing.T) {
	seq, _ := newTestSequence("seq")
	outer := seq.BeginNotifications()
	inner := seq.BeginNotifications()
	inner.End()
	inner.End()
	if seq.NotificationDepth() != 1 {
		t.Errorf("depth = %d, want 1", seq.NotificationDepth())
	}
	outer.End()
	if seq.NotificationDepth() != 0 {
		t.Errorf("depth = %d, want 0", seq.NotificationDepth())
	}
}

func TestBatchCancelKeepsPendingFlags(t *testing.T) {
	seq, tr := floatTrack()
	h := tr.CreateKey(1)
	rec := &recorder{}
	seq.AddListener(rec)

	batch := seq.BeginNotifications()
	h.Select(true)
	batch.Cancel()
	batch.End()
	if len(rec.events) != 0 {
		t.Errorf("events after Cancel = %v, want none", rec.events)
	}
	if seq.NotificationDepth() != 0 {
		t.Errorf("depth = %d, want 0", seq.NotificationDepth())
	}

	// The next flush carries the held selection change.
	seq.OnKeysChanged()
	if !slices.Equal(rec.events, []string{"keySelection", "keys"}) {
		t.Errorf("events = %v, want [keySelection keys]", rec.events)
	}
}

func TestNilSequenceBatch(t *testing.T) {
	var seq *Sequence
	batch := seq.BeginNotifications()
	batch.End()
	batch.Cancel()
	seq.SuppressNotifications()()
	seq.OnKeysChanged()
	seq.OnNodeChanged(nil, ChangeAdded)
}

// --- Suppression ---

func TestSuppressNotifications(t *testing.T) {
	seq, tr := floatTrack()
	rec := &recorder{}
	seq.AddListener(rec)

	restore := seq.SuppressNotifications()
	tr.CreateKey(1).Select(true)
	tr.SetDisabled(true)
	restore()
	if len(rec.events) != 0 {
		t.Errorf("events while suppressed = %v, want none", rec.events)
	}

	tr.SetDisabled(false)
	if rec.count("changed Float Enabled") != 1 {
		t.Errorf("events after restore = %v, want Enabled", rec.events)
	}
}

func TestSuppressionGuardsNest(t *testing.T) {
	seq, _ := newTestSequence("seq")
	outer := seq.SuppressNotifications()
	inner := seq.SuppressNotifications()
	inner()
	if !seq.NotificationsSuppressed() {
		t.Error("inner restore should keep the outer guard")
	}
	outer()
	if seq.NotificationsSuppressed() {
		t.Error("outer restore should lift suppression")
	}
}

// --- Re-animation ---

func TestForceAnimationDeferredInBatch(t *testing.T) {
	seq, _ := newTestSequence("seq")
	calls := 0
	seq.SetReanimateHandler(func(*Sequence) { calls++ })

	batch := seq.BeginNotifications()
	seq.ForceAnimation()
	seq.ForceAnimation()
	seq.ForceAnimation()
	if calls != 0 {
		t.Errorf("calls inside batch = %d, want 0", calls)
	}
	batch.End()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	seq.ForceAnimation()
	if calls != 2 {
		t.Errorf("calls = %d, want 2 outside a batch", calls)
	}
}

func TestForceAnimationSuppressed(t *testing.T) {
	seq, _ := newTestSequence("seq")
	calls := 0
	seq.SetReanimateHandler(func(*Sequence) { calls++ })
	restore := seq.SuppressNotifications()
	seq.ForceAnimation()
	restore()
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestStructuralChangesRequestAnimation(t *testing.T) {
	seq, _ := newTestSequence("seq")
	calls := 0
	seq.SetReanimateHandler(func(*Sequence) { calls++ })
	g := seq.CreateSubNode("g", AnimNodeGroup, uuid.Nil)
	calls = 0

	g.SetDisabled(true)
	if calls != 1 {
		t.Errorf("calls after disable = %d, want 1", calls)
	}
	g.SetExpanded(true)
	if calls != 1 {
		t.Errorf("calls after expand = %d, want 1", calls)
	}
}

// --- Listeners ---

func TestListenersCalledInRegistrationOrder(t *testing.T) {
	seq, tr := floatTrack()
	var order []string
	a := &ListenerFuncs{KeysChanged: func(*Sequence) { order = append(order, "a") }}
	b := &ListenerFuncs{KeysChanged: func(*Sequence) { order = append(order, "b") }}
	seq.AddListener(a)
	seq.AddListener(b)
	seq.AddListener(a)

	tr.CreateKey(1)
	if !slices.Equal(order, []string{"a", "b"}) {
		t.Errorf("order = %v, want [a b]", order)
	}

	seq.RemoveListener(a)
	order = nil
	tr.CreateKey(2)
	if !slices.Equal(order, []string{"b"}) {
		t.Errorf("order after remove = %v, want [b]", order)
	}
}

func TestListenerMayRemoveItself(t *testing.T) {
	seq, tr := floatTrack()
	calls := 0
	var self *ListenerFuncs
	self = &ListenerFuncs{KeysChanged: func(s *Sequence) {
		calls++
		s.RemoveListener(self)
	}}
	other := &recorder{}
	seq.AddListener(self)
	seq.AddListener(other)

	tr.CreateKey(1)
	tr.CreateKey(2)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if other.count("keys") != 2 {
		t.Errorf("other listener keys = %d, want 2", other.count("keys"))
	}
}

func TestRenameNotifiesOldName(t *testing.T) {
	seq, _ := newTestSequence("seq")
	g := seq.CreateSubNode("g", AnimNodeGroup, uuid.Nil)
	rec := &recorder{}
	seq.AddListener(rec)
	g.SetName("h")
	if rec.count("renamed g->h") != 1 {
		t.Errorf("events = %v, want renamed g->h", rec.events)
	}
	if !seq.IsModified() {
		t.Error("rename should mark the sequence modified")
	}
}
