package trackview

import (
	"cmp"
	"math"
	"slices"
)

// Track is an ordered-by-time container of keys for one parameter of an
// AnimNode. Compound tracks (vector, rotation, color) hold float sub-tracks as
// children and never store keys themselves.
type Track struct {
	nodeBase

	id           uint32
	param        ParamType
	valueType    ValueType
	flags        TrackFlags
	keys         []Key
	defaultValue float64
}

func newTrack(param ParamType, vt ValueType, name string) *Track {
	t := &Track{param: param, valueType: vt}
	t.self = t
	t.name = name
	return t
}

// Kind returns KindTrack.
func (t *Track) Kind() NodeKind { return KindTrack }

// ID returns the sequence-unique track id.
func (t *Track) ID() uint32 { return t.id }

// ParamType returns the animated parameter.
func (t *Track) ParamType() ParamType { return t.param }

// ValueType returns the value kind stored by the track's keys.
func (t *Track) ValueType() ValueType { return t.valueType }

// IsCompound reports whether the track holds sub-tracks instead of keys.
func (t *Track) IsCompound() bool { return t.valueType.IsCompound() }

// IsSubTrack reports whether the track is a child of a compound track.
func (t *Track) IsSubTrack() bool {
	_, ok := t.parent.(*Track)
	return ok
}

// SubTracks returns the sub-tracks of a compound track.
func (t *Track) SubTracks() []*Track {
	subs := make([]*Track, 0, len(t.children))
	for _, c := range t.children {
		subs = append(subs, c.(*Track))
	}
	return subs
}

// AnimNode returns the node owning this track.
func (t *Track) AnimNode() *AnimNode {
	for p := t.parent; p != nil; p = p.Parent() {
		if a := asAnimNode(p); a != nil {
			return a
		}
	}
	return nil
}

// SetName renames the track and re-sorts its siblings.
func (t *Track) SetName(name string) {
	if t.name == name {
		return
	}
	t.name = name
	if t.parent != nil {
		t.parent.base().sortChildren()
	}
	t.Sequence().OnNodeChanged(t, ChangeRenamed)
}

// SetHidden hides or shows the track.
func (t *Track) SetHidden(hidden bool) {
	if t.hidden == hidden {
		return
	}
	t.hidden = hidden
	if hidden {
		t.Sequence().OnNodeChanged(t, ChangeHidden)
	} else {
		t.Sequence().OnNodeChanged(t, ChangeUnhidden)
	}
}

// Flags returns the track flags.
func (t *Track) Flags() TrackFlags { return t.flags }

// IsDisabled reports whether the track is excluded from evaluation.
func (t *Track) IsDisabled() bool { return t.flags&TrackDisabled != 0 }

// SetDisabled enables or disables the track.
func (t *Track) SetDisabled(disabled bool) {
	if t.IsDisabled() == disabled {
		return
	}
	if disabled {
		t.flags |= TrackDisabled
		t.Sequence().OnNodeChanged(t, ChangeDisabled)
	} else {
		t.flags &^= TrackDisabled
		t.Sequence().OnNodeChanged(t, ChangeEnabled)
	}
}

// UsesMute reports whether the track's value type honors the muted flag.
func (t *Track) UsesMute() bool { return t.valueType.UsesMute() }

// IsMuted reports whether the track is muted.
func (t *Track) IsMuted() bool { return t.flags&TrackMuted != 0 }

// SetMuted mutes or unmutes the track. It is a no-op unless UsesMute.
func (t *Track) SetMuted(muted bool) {
	if !t.UsesMute() || t.IsMuted() == muted {
		return
	}
	if muted {
		t.flags |= TrackMuted
		t.Sequence().OnNodeChanged(t, ChangeMuted)
	} else {
		t.flags &^= TrackMuted
		t.Sequence().OnNodeChanged(t, ChangeUnmuted)
	}
}

// DefaultValue is the value the track evaluates to when it has no keys.
func (t *Track) DefaultValue() float64 { return t.defaultValue }

// SetDefaultValue sets the value used when the track has no keys.
func (t *Track) SetDefaultValue(v float64) { t.defaultValue = v }

// --- Queries ---

// KeyCount returns the number of keys. Compound tracks always report 0.
func (t *Track) KeyCount() int {
	if t.IsCompound() {
		return 0
	}
	return len(t.keys)
}

// Key returns a handle to the key at index. On compound tracks the index
// addresses the concatenated keys of all sub-tracks.
func (t *Track) Key(index int) KeyHandle {
	return KeyHandle{track: t, index: index}
}

// KeyByTime returns the key whose time equals time exactly. Compound tracks
// search their sub-tracks and return an index offset by the key counts of the
// preceding sub-tracks. The handle is invalid when no key matches.
func (t *Track) KeyByTime(time float64) KeyHandle {
	if t.IsCompound() {
		offset := 0
		for _, sub := range t.SubTracks() {
			if i := sub.findKey(time); i >= 0 {
				return KeyHandle{track: t, index: offset + i}
			}
			offset += len(sub.keys)
		}
		return KeyHandle{}
	}
	if i := t.findKey(time); i >= 0 {
		return KeyHandle{track: t, index: i}
	}
	return KeyHandle{}
}

func (t *Track) findKey(time float64) int {
	for i := range t.keys {
		if t.keys[i].Time == time {
			return i
		}
	}
	return -1
}

// NearestKeyByTime returns the key closest to time. Keys are time-sorted, so
// the scan stops as soon as the distance stops decreasing; on ties the
// earlier key wins.
func (t *Track) NearestKeyByTime(time float64) KeyHandle {
	if t.IsCompound() {
		best := KeyHandle{}
		bestDist, bestTime := math.Inf(1), math.Inf(1)
		offset := 0
		for _, sub := range t.SubTracks() {
			if i := sub.nearestIndex(time); i >= 0 {
				kt := sub.keys[i].Time
				d := math.Abs(kt - time)
				if d < bestDist || (d == bestDist && kt < bestTime) {
					best, bestDist, bestTime = KeyHandle{track: t, index: offset + i}, d, kt
				}
			}
			offset += len(sub.keys)
		}
		return best
	}
	if i := t.nearestIndex(time); i >= 0 {
		return KeyHandle{track: t, index: i}
	}
	return KeyHandle{}
}

func (t *Track) nearestIndex(time float64) int {
	if len(t.keys) == 0 {
		return -1
	}
	best, minDist := 0, math.Inf(1)
	for i := range t.keys {
		d := math.Abs(t.keys[i].Time - time)
		if d > minDist {
			break
		}
		// Equal distances keep the earlier key.
		if d < minDist {
			best, minDist = i, d
		}
	}
	return best
}

// PrevKey returns the key closest to time among keys strictly before it.
func (t *Track) PrevKey(time float64) KeyHandle {
	return t.scanClosest(func(kt float64) bool { return kt < time }, func(kt, best float64) bool { return kt > best })
}

// NextKey returns the key closest to time among keys strictly after it.
func (t *Track) NextKey(time float64) KeyHandle {
	return t.scanClosest(func(kt float64) bool { return kt > time }, func(kt, best float64) bool { return kt < best })
}

func (t *Track) scanClosest(candidate func(kt float64) bool, closer func(kt, best float64) bool) KeyHandle {
	best := KeyHandle{}
	var bestTime float64
	visit := func(owner *Track, offset int, keys []Key) {
		for i := range keys {
			kt := keys[i].Time
			if candidate(kt) && (!best.IsValid() || closer(kt, bestTime)) {
				best, bestTime = KeyHandle{track: owner, index: offset + i}, kt
			}
		}
	}
	if t.IsCompound() {
		offset := 0
		for _, sub := range t.SubTracks() {
			visit(t, offset, sub.keys)
			offset += len(sub.keys)
		}
		return best
	}
	visit(t, 0, t.keys)
	return best
}

// AllKeys returns every key of the track (or of its sub-tracks).
func (t *Track) AllKeys() KeyBundle {
	return t.collectKeys(func(*Key) bool { return true })
}

// SelectedKeys returns the selected keys of the track.
func (t *Track) SelectedKeys() KeyBundle {
	return t.collectKeys(func(k *Key) bool { return k.Selected })
}

// KeysInTimeRange returns the keys with t0 <= time <= t1.
func (t *Track) KeysInTimeRange(t0, t1 float64) KeyBundle {
	return t.collectKeys(func(k *Key) bool { return k.Time >= t0 && k.Time <= t1 })
}

func (t *Track) collectKeys(match func(*Key) bool) KeyBundle {
	var b KeyBundle
	if t.IsCompound() {
		for _, sub := range t.SubTracks() {
			b.AppendKeyBundle(sub.collectKeys(match))
		}
		return b
	}
	for i := range t.keys {
		if match(&t.keys[i]) {
			b.AppendKey(KeyHandle{track: t, index: i})
		}
	}
	return b
}

// --- Mutation ---

// CreateKey inserts a key with the value type's default payload at time and
// returns its handle. Compound tracks create one key per sub-track and return
// the first.
func (t *Track) CreateKey(time float64) KeyHandle {
	seq := t.Sequence()
	if t.IsCompound() {
		batch := seq.BeginNotifications()
		defer batch.End()
		var first KeyHandle
		offset := 0
		for i, sub := range t.SubTracks() {
			h := sub.CreateKey(time)
			if i == 0 {
				first = KeyHandle{track: t, index: offset + h.index}
			}
			offset += len(sub.keys)
		}
		return first
	}
	value := newKeyValue(t.valueType)
	if t.valueType == ValueFloat || t.valueType == ValueDiscreteFloat {
		value = FloatKey{Value: t.FloatValue(time), Ease: seq.defaultEase()}
	}
	i := t.insertKey(Key{Time: time, Value: value})
	h := KeyHandle{track: t, index: i}
	seq.OnKeysChanged()
	seq.OnKeyAdded(h)
	return h
}

// insertKey places k after every key with time <= k.Time and returns its index.
func (t *Track) insertKey(k Key) int {
	i, _ := slices.BinarySearchFunc(t.keys, k.Time, func(e Key, time float64) int {
		if e.Time <= time {
			return -1
		}
		return 1
	})
	t.keys = slices.Insert(t.keys, i, k)
	return i
}

// removeKey deletes the key at index.
func (t *Track) removeKey(index int) {
	wasSelected := t.keys[index].Selected
	t.keys = slices.Delete(t.keys, index, index+1)
	seq := t.Sequence()
	if wasSelected {
		seq.OnKeySelectionChanged()
	}
	seq.OnKeysChanged()
}

// cloneKey copies the key at index with its time shifted by offset and
// returns the new index.
func (t *Track) cloneKey(index int, offset float64) int {
	k := t.keys[index]
	k.Time += offset
	k.sortMarker = false
	i := t.insertKey(k)
	seq := t.Sequence()
	seq.OnKeysChanged()
	seq.OnKeyAdded(KeyHandle{track: t, index: i})
	return i
}

// setKeyTime writes a key time and re-sorts the keys.
func (t *Track) setKeyTime(index int, time float64, notify bool) {
	t.keys[index].Time = time
	t.sortKeys()
	if notify {
		t.Sequence().OnKeysChanged()
	}
}

func (t *Track) sortKeys() {
	slices.SortStableFunc(t.keys, func(a, b Key) int {
		return cmp.Compare(a.Time, b.Time)
	})
}

// selectKey sets the selection flag of the key at index.
func (t *Track) selectKey(index int, selected bool) {
	if t.keys[index].Selected == selected {
		return
	}
	t.keys[index].Selected = selected
	t.Sequence().OnKeySelectionChanged()
}

// SlideKeys shifts every key at or after pivot by offset.
func (t *Track) SlideKeys(pivot, offset float64) {
	if t.IsCompound() {
		batch := t.Sequence().BeginNotifications()
		defer batch.End()
		for _, sub := range t.SubTracks() {
			sub.SlideKeys(pivot, offset)
		}
		return
	}
	moved := false
	for i := range t.keys {
		if t.keys[i].Time >= pivot {
			t.keys[i].Time += offset
			moved = true
		}
	}
	if !moved {
		return
	}
	t.sortKeys()
	t.Sequence().OnKeysChanged()
}

// --- Compound index resolution ---

// resolve maps a handle index to the track and index that store the key.
func (t *Track) resolve(index int) (*Track, int) {
	if !t.IsCompound() {
		if index < 0 || index >= len(t.keys) {
			return nil, -1
		}
		return t, index
	}
	if index < 0 {
		return nil, -1
	}
	for _, sub := range t.SubTracks() {
		if index < len(sub.keys) {
			return sub, index
		}
		index -= len(sub.keys)
	}
	return nil, -1
}

// subTrackOffset returns the concatenated index at which sub's keys start.
func (t *Track) subTrackOffset(sub *Track) int {
	offset := 0
	for _, s := range t.SubTracks() {
		if s == sub {
			return offset
		}
		offset += len(s.keys)
	}
	return offset
}

// offsetSelected moves the selected keys by delta and re-sorts.
func (t *Track) offsetSelected(delta float64) {
	for i := range t.keys {
		if t.keys[i].Selected {
			t.keys[i].Time += delta
		}
	}
	t.sortKeys()
	t.Sequence().OnKeysChanged()
}

// cloneSelected inserts a selected copy of every selected key shifted by
// offset and deselects the originals.
func (t *Track) cloneSelected(offset float64) {
	var copies []Key
	for i := range t.keys {
		if t.keys[i].Selected {
			k := t.keys[i]
			k.Time += offset
			copies = append(copies, k)
			t.keys[i].Selected = false
		}
	}
	if len(copies) == 0 {
		return
	}
	seq := t.Sequence()
	for _, k := range copies {
		i := t.insertKey(k)
		seq.OnKeyAdded(KeyHandle{track: t, index: i})
	}
	seq.OnKeySelectionChanged()
	seq.OnKeysChanged()
}
