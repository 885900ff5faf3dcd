package trackview

import (
	"testing"

	"github.com/google/uuid"
)

func TestManagerRejectsDuplicateNames(t *testing.T) {
	msgs := &messages{}
	m := NewManager(DefaultConfig(), nil, msgs)
	a := m.CreateSequence("intro")
	if a == nil {
		t.Fatal("CreateSequence returned nil")
	}
	if m.CreateSequence("intro") != nil {
		t.Error("a duplicate name should be rejected")
	}
	if len(msgs.msgs) != 1 {
		t.Errorf("messages = %v, want one", msgs.msgs)
	}
	if m.CreateSequence("") != nil {
		t.Error("an empty name should be rejected")
	}
	if want := "A sequence needs a name"; len(msgs.msgs) != 2 || msgs.msgs[1] != want {
		t.Errorf("messages = %v, want %q last", msgs.msgs, want)
	}
}

func TestManagerAppliesDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultRange = RangeConfig{Start: 2, End: 8}
	cfg.DefaultEase = EaseInQuad.String()
	store := newFakeStore()
	m := NewManager(cfg, store, nil)

	seq := m.CreateSequence("s")
	if seq.TimeRange() != (Range{Start: 2, End: 8}) {
		t.Errorf("TimeRange = %v, want [2, 8]", seq.TimeRange())
	}
	if seq.EntityStore() != EntityStore(store) || seq.Manager() != m {
		t.Error("sequence should share the manager's store")
	}
	if seq.Notifier() == nil {
		t.Error("a nil notifier should fall back to logging")
	}

	tr := seq.CreateSubNode("v", AnimNodeCVar, uuid.Nil).CreateTrack(Param(ParamFloat))
	if e := tr.CreateKey(0).Value().(FloatKey).Ease; e != EaseInQuad {
		t.Errorf("new key ease = %v, want %v", e, EaseInQuad)
	}

	over := m.CreateSequence("o", WithTimeRange(Range{Start: 0, End: 1}))
	if over.TimeRange().End != 1 {
		t.Error("explicit options should override the defaults")
	}
}

func TestManagerLookup(t *testing.T) {
	m := NewManager(DefaultConfig(), nil, &messages{})
	a := m.CreateSequence("a")
	b := m.CreateSequence("b")

	if m.SequenceByID(b.ID()) != b || m.SequenceByName("a") != a {
		t.Error("lookup by id and name should find the sequences")
	}
	if m.SequenceByID(uuid.New()) != nil || m.SequenceByName("c") != nil {
		t.Error("unknown sequences should not be found")
	}
	if len(m.Sequences()) != 2 {
		t.Errorf("Sequences = %d, want 2", len(m.Sequences()))
	}
}

func TestManagerAddSequence(t *testing.T) {
	msgs := &messages{}
	m := NewManager(DefaultConfig(), newFakeStore(), msgs)
	m.CreateSequence("a")

	loose := NewSequence("loose")
	if !m.AddSequence(loose) {
		t.Fatal("AddSequence failed")
	}
	if loose.Manager() != m || loose.EntityStore() == nil {
		t.Error("an added sequence should adopt the manager's collaborators")
	}
	if m.AddSequence(NewSequence("a")) {
		t.Error("a taken name should be rejected")
	}
	if m.AddSequence(NewSequence("other", WithID(loose.ID()))) {
		t.Error("a taken id should be rejected")
	}
}

func TestManagerDeleteSequence(t *testing.T) {
	m := NewManager(DefaultConfig(), nil, &messages{})
	a := m.CreateSequence("a")
	a.Bind()

	m.DeleteSequence(a)
	if a.IsBound() || a.Manager() != nil || m.SequenceByName("a") != nil {
		t.Error("a deleted sequence should be unbound and unregistered")
	}
	m.DeleteSequence(a)
}

func TestSequenceRenameChecksManager(t *testing.T) {
	msgs := &messages{}
	m := NewManager(DefaultConfig(), nil, msgs)
	a := m.CreateSequence("a")
	m.CreateSequence("b")

	if a.SetName("b") {
		t.Error("renaming onto a taken name should fail")
	}
	if a.Name() != "a" || len(msgs.msgs) != 1 {
		t.Errorf("name=%q messages=%v, want a and one message", a.Name(), msgs.msgs)
	}
	if !a.SetName("c") || m.SequenceByName("c") != a {
		t.Error("renaming to a free name should succeed")
	}
}

func TestSequenceKeyFor(t *testing.T) {
	seq := NewSequence("shot", WithTimeRange(Range{Start: 1, End: 6}))
	k := SequenceKeyFor(seq)
	if k.Sequence != seq.ID() || k.Name != "shot" || k.StartOffset != 1 || k.EndTime != 6 {
		t.Errorf("SequenceKeyFor = %+v", k)
	}
	if k.Duration() != 5 {
		t.Errorf("Duration = %v, want 5", k.Duration())
	}
}
