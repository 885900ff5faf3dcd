package trackview

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// --- Fake entity store ---

type fakeEntity struct {
	id      uuid.UUID
	name    string
	tr      Transform
	props   map[string]float64
	visible bool
	comps   []ComponentInfo
}

func (e *fakeEntity) ID() uuid.UUID             { return e.id }
func (e *fakeEntity) Name() string              { return e.name }
func (e *fakeEntity) Transform() Transform      { return e.tr }
func (e *fakeEntity) SetTransform(tr Transform) { e.tr = tr }
func (e *fakeEntity) SetVisible(visible bool)   { e.visible = visible }
func (e *fakeEntity) Components() []ComponentInfo {
	return slices.Clone(e.comps)
}

func (e *fakeEntity) Property(name string) (float64, bool) {
	v, ok := e.props[name]
	return v, ok
}

func (e *fakeEntity) SetProperty(name string, v float64) bool {
	if _, ok := e.props[name]; !ok {
		return false
	}
	e.props[name] = v
	return true
}

// fakeStore records every lookup, subscribe and unsubscribe in call order.
type fakeStore struct {
	entities map[uuid.UUID]*fakeEntity
	subs     map[uuid.UUID][]EntityListener
	log      []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entities: map[uuid.UUID]*fakeEntity{},
		subs:     map[uuid.UUID][]EntityListener{},
	}
}

func (s *fakeStore) add(name string) *fakeEntity {
	e := &fakeEntity{
		id:      uuid.New(),
		name:    name,
		tr:      IdentityTransform,
		props:   map[string]float64{},
		visible: true,
		comps:   []ComponentInfo{{ID: 1, TypeName: TransformComponent, Animatable: true}},
	}
	s.entities[e.id] = e
	return e
}

func (s *fakeStore) Lookup(id uuid.UUID) (Entity, bool) {
	e, ok := s.entities[id]
	if !ok {
		s.log = append(s.log, "lookup-miss")
		return nil, false
	}
	s.log = append(s.log, "lookup "+e.name)
	return e, true
}

func (s *fakeStore) Subscribe(id uuid.UUID, l EntityListener) func() {
	name := s.entities[id].name
	s.log = append(s.log, "subscribe "+name)
	s.subs[id] = append(s.subs[id], l)
	return func() {
		s.log = append(s.log, "unsubscribe "+name)
		i := slices.Index(s.subs[id], l)
		if i >= 0 {
			s.subs[id] = slices.Delete(s.subs[id], i, i+1)
		}
	}
}

func (s *fakeStore) emit(id uuid.UUID, kind EntityEventKind) {
	for _, l := range slices.Clone(s.subs[id]) {
		l.OnEntityEvent(EntityEvent{Entity: id, Kind: kind})
	}
}

func (s *fakeStore) resetLog() { s.log = nil }

// --- Listener recorder ---

type recorder struct {
	events []string
}

func (r *recorder) OnSequenceSettingsChanged(*Sequence) { r.events = append(r.events, "settings") }
func (r *recorder) OnNodeChanged(n Node, reason ChangeReason) {
	r.events = append(r.events, fmt.Sprintf("changed %s %s", n.Name(), reason))
}
func (r *recorder) OnNodeRenamed(n Node, old string) {
	r.events = append(r.events, fmt.Sprintf("renamed %s->%s", old, n.Name()))
}
func (r *recorder) OnNodeSelectionChanged(*Sequence) { r.events = append(r.events, "nodeSelection") }
func (r *recorder) OnKeySelectionChanged(*Sequence)  { r.events = append(r.events, "keySelection") }
func (r *recorder) OnKeysChanged(*Sequence)          { r.events = append(r.events, "keys") }
func (r *recorder) OnKeyAdded(KeyHandle)             { r.events = append(r.events, "keyAdded") }

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func (r *recorder) reset() { r.events = nil }

// --- Messages ---

type messages struct {
	msgs []string
}

func (m *messages) LogUserNotification(msg string) { m.msgs = append(m.msgs, msg) }

// --- Builders ---

func newTestSequence(name string) (*Sequence, *messages) {
	msgs := &messages{}
	return NewSequence(name, WithNotifier(msgs)), msgs
}

// floatTrack returns a standalone float track attached to a CVar node of a
// fresh sequence.
func floatTrack() (*Sequence, *Track) {
	seq, _ := newTestSequence("seq")
	node := seq.CreateSubNode("var", AnimNodeCVar, uuid.Nil)
	return seq, node.CreateTrack(Param(ParamFloat))
}

func keyTimes(t *Track) []float64 {
	times := make([]float64, 0, len(t.keys))
	for _, k := range t.keys {
		times = append(times, k.Time)
	}
	return times
}

func addFloatKey(t *Track, time, value float64) KeyHandle {
	h := t.CreateKey(time)
	h.SetValue(FloatKey{Value: value})
	return h
}
