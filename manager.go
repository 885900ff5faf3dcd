package trackview

import (
	"slices"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Manager owns the sequences of a level and resolves the nested-sequence
// references of director keys.
type Manager struct {
	cfg       Config
	store     EntityStore
	notifier  Notifier
	sequences []*Sequence
}

// NewManager creates a manager. Sequences it creates share store and
// notifier. A nil notifier logs through slog.
func NewManager(cfg Config, store EntityStore, notifier Notifier) *Manager {
	m := &Manager{store: store, notifier: notifier}
	if err := copier.CopyWithOption(&m.cfg, &cfg, copier.Option{DeepCopy: true}); err != nil {
		m.cfg = cfg
	}
	if m.notifier == nil {
		m.notifier = defaultNotifier
	}
	globalDebug = m.cfg.Debug
	return m
}

// Config returns the manager's configuration.
func (m *Manager) Config() Config { return m.cfg }

// CreateSequence creates and registers an empty sequence using the
// configured default range. Duplicate names are rejected with a message.
func (m *Manager) CreateSequence(name string, opts ...SequenceOption) *Sequence {
	if name == "" {
		m.notifier.LogUserNotification("A sequence needs a name")
		return nil
	}
	if m.SequenceByName(name) != nil {
		m.notifier.LogUserNotification("A sequence named '" + name + "' already exists")
		return nil
	}
	base := []SequenceOption{
		WithTimeRange(m.cfg.DefaultRange.Range()),
		WithEntityStore(m.store),
		WithNotifier(m.notifier),
	}
	s := NewSequence(name, append(base, opts...)...)
	s.manager = m
	s.debug = m.cfg.Debug
	m.sequences = append(m.sequences, s)
	return s
}

// AddSequence registers an existing sequence. It fails when the name or id
// is already taken.
func (m *Manager) AddSequence(s *Sequence) bool {
	if m.SequenceByName(s.name) != nil || m.SequenceByID(s.id) != nil {
		m.notifier.LogUserNotification("A sequence named '" + s.name + "' already exists")
		return false
	}
	s.manager = m
	if s.store == nil {
		s.store = m.store
	}
	if s.notifier == nil {
		s.notifier = m.notifier
	}
	m.sequences = append(m.sequences, s)
	return true
}

// DeleteSequence unbinds and unregisters s.
func (m *Manager) DeleteSequence(s *Sequence) {
	i := slices.Index(m.sequences, s)
	if i < 0 {
		return
	}
	s.Unbind()
	s.manager = nil
	m.sequences = slices.Delete(m.sequences, i, i+1)
}

// SequenceByID returns the sequence with id, or nil.
func (m *Manager) SequenceByID(id uuid.UUID) *Sequence {
	for _, s := range m.sequences {
		if s.id == id {
			return s
		}
	}
	return nil
}

// SequenceByName returns the sequence named name, or nil.
func (m *Manager) SequenceByName(name string) *Sequence {
	for _, s := range m.sequences {
		if s.name == name {
			return s
		}
	}
	return nil
}

// Sequences returns the registered sequences. The returned slice MUST NOT be
// mutated by the caller.
func (m *Manager) Sequences() []*Sequence { return m.sequences }

// SequenceKeyFor returns a director key payload that plays s over its whole
// range.
func SequenceKeyFor(s *Sequence) SequenceKey {
	return SequenceKey{
		Sequence:    s.id,
		Name:        s.name,
		StartOffset: s.timeRange.Start,
		EndTime:     s.timeRange.End,
	}
}
