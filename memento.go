package trackview

import (
	"slices"

	"gopkg.in/yaml.v3"
)

// Memento is an opaque snapshot of a track's keys, including the keys of its
// sub-tracks. It is what undo records store.
type Memento struct {
	data []byte
}

// IsEmpty reports whether the memento holds no snapshot.
func (m Memento) IsEmpty() bool { return len(m.data) == 0 }

type trackSnapshot struct {
	Keys []clipKey      `yaml:"keys,omitempty"`
	Subs []trackSnapshot `yaml:"subs,omitempty"`
}

func snapshotTrack(t *Track) (trackSnapshot, error) {
	var snap trackSnapshot
	keys, err := encodeKeys(t.keys, nil)
	if err != nil {
		return snap, err
	}
	snap.Keys = keys
	for _, sub := range t.SubTracks() {
		s, err := snapshotTrack(sub)
		if err != nil {
			return snap, err
		}
		snap.Subs = append(snap.Subs, s)
	}
	return snap, nil
}

// Capture records the current keys of t. Key payloads that fail to encode
// produce an empty memento.
func (t *Track) Capture() Memento {
	snap, err := snapshotTrack(t)
	if err != nil {
		t.Sequence().logf("capture of track '%s' failed: %v", t.name, err)
		return Memento{}
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		t.Sequence().logf("capture of track '%s' failed: %v", t.name, err)
		return Memento{}
	}
	return Memento{data: data}
}

// Restore replaces the keys of t and its sub-tracks with the snapshot in m.
// A selection change is reported when the restored selection differs from the
// current one. Restoring the same memento twice leaves the same state.
func (t *Track) Restore(m Memento) {
	if m.IsEmpty() {
		return
	}
	var snap trackSnapshot
	if err := yaml.Unmarshal(m.data, &snap); err != nil {
		t.Sequence().logf("restore of track '%s' failed: %v", t.name, err)
		return
	}
	seq := t.Sequence()
	batch := seq.BeginNotifications()
	defer batch.End()
	if t.restoreSnapshot(snap) {
		seq.OnKeySelectionChanged()
	}
	seq.OnKeysChanged()
}

// restoreSnapshot swaps in the snapshot keys and reports whether the key
// selection changed.
func (t *Track) restoreSnapshot(snap trackSnapshot) bool {
	keys, err := decodeKeys(snap.Keys)
	if err != nil {
		t.Sequence().logf("restore of track '%s' failed: %v", t.name, err)
		return false
	}
	changed := !slices.Equal(selectionOf(t.keys), selectionOf(keys))
	t.keys = keys
	t.sortKeys()
	subs := t.SubTracks()
	for i, s := range snap.Subs {
		if i < len(subs) && subs[i].restoreSnapshot(s) {
			changed = true
		}
	}
	return changed
}

// selectionOf returns the times of the selected keys.
func selectionOf(keys []Key) []float64 {
	var sel []float64
	for i := range keys {
		if keys[i].Selected {
			sel = append(sel, keys[i].Time)
		}
	}
	return sel
}
