package trackview

import "fmt"

// KeyHandle is an ephemeral (track, index) reference to a key. It is not an
// owner: re-sorting a track invalidates other handles into it. SetTime keeps
// its own handle pointing at the moved key.
//
// Using an invalid handle is a programming error and panics.
type KeyHandle struct {
	track *Track
	index int
}

// IsValid reports whether the handle addresses an existing key.
func (h KeyHandle) IsValid() bool {
	if h.track == nil {
		return false
	}
	owner, _ := h.track.resolve(h.index)
	return owner != nil
}

func (h KeyHandle) mustResolve() (*Track, int) {
	if h.track == nil {
		panic("trackview: key handle has no track")
	}
	owner, i := h.track.resolve(h.index)
	if owner == nil {
		panic(fmt.Sprintf("trackview: key index %d out of range on track %q", h.index, h.track.name))
	}
	return owner, i
}

// Track returns the track the handle was obtained from.
func (h KeyHandle) Track() *Track { return h.track }

// Index returns the key index within the handle's track.
func (h KeyHandle) Index() int { return h.index }

// Key returns a copy of the addressed key.
func (h KeyHandle) Key() Key {
	owner, i := h.mustResolve()
	return owner.keys[i]
}

// Time returns the key time.
func (h KeyHandle) Time() float64 {
	owner, i := h.mustResolve()
	return owner.keys[i].Time
}

// SetTime moves the key to time. The key is tagged with a sort marker before
// the write; if re-sorting moved it, the handle adopts the marker's new index.
func (h *KeyHandle) SetTime(time float64) {
	h.setTime(time, true)
}

func (h *KeyHandle) setTime(time float64, notify bool) {
	owner, i := h.mustResolve()
	owner.keys[i].sortMarker = true
	owner.setKeyTime(i, time, notify)
	if !owner.keys[i].sortMarker {
		for x := range owner.keys {
			if owner.keys[x].sortMarker {
				i = x
				break
			}
		}
	}
	owner.keys[i].sortMarker = false
	if owner != h.track {
		h.index = h.track.subTrackOffset(owner) + i
	} else {
		h.index = i
	}
}

// Offset moves the key by delta seconds.
func (h *KeyHandle) Offset(delta float64) {
	h.SetTime(h.Time() + delta)
}

// Value returns the key payload.
func (h KeyHandle) Value() KeyValue {
	owner, i := h.mustResolve()
	return owner.keys[i].Value
}

// SetValue replaces the key payload. Panics if the payload does not fit the
// track's value type.
func (h KeyHandle) SetValue(v KeyValue) {
	owner, i := h.mustResolve()
	if !valueFits(owner.valueType, v) {
		panic(fmt.Sprintf("trackview: %T does not fit a %s track", v, owner.valueType))
	}
	owner.keys[i].Value = v
	owner.Sequence().OnKeysChanged()
}

func valueFits(vt ValueType, v KeyValue) bool {
	if v == nil {
		return false
	}
	if vt == ValueDiscreteFloat {
		return v.ValueType() == ValueFloat
	}
	return v.ValueType() == vt
}

// IsSelected reports whether the key is selected.
func (h KeyHandle) IsSelected() bool {
	owner, i := h.mustResolve()
	return owner.keys[i].Selected
}

// Select selects or deselects the key.
func (h KeyHandle) Select(selected bool) {
	owner, i := h.mustResolve()
	owner.selectKey(i, selected)
}

// Delete removes the key from its track. The handle is invalid afterwards.
func (h KeyHandle) Delete() {
	owner, i := h.mustResolve()
	owner.removeKey(i)
}

// Clone copies the key with its time shifted by offset and returns the copy.
func (h KeyHandle) Clone(offset float64) KeyHandle {
	owner, i := h.mustResolve()
	ni := owner.cloneKey(i, offset)
	if owner != h.track {
		return KeyHandle{track: h.track, index: h.track.subTrackOffset(owner) + ni}
	}
	return KeyHandle{track: owner, index: ni}
}

// Description returns the payload description.
func (h KeyHandle) Description() string {
	v := h.Value()
	if v == nil {
		return ""
	}
	return v.Description()
}

// Duration returns the timeline length covered by the key.
func (h KeyHandle) Duration() float64 {
	v := h.Value()
	if v == nil {
		return 0
	}
	return v.Duration()
}

// NextKey returns the following key on the same track.
func (h KeyHandle) NextKey() KeyHandle {
	next := KeyHandle{track: h.track, index: h.index + 1}
	if !next.IsValid() {
		return KeyHandle{}
	}
	return next
}

// PrevKey returns the preceding key on the same track.
func (h KeyHandle) PrevKey() KeyHandle {
	prev := KeyHandle{track: h.track, index: h.index - 1}
	if !prev.IsValid() {
		return KeyHandle{}
	}
	return prev
}

// AboveKey returns the key nearest in time on the closest track with keys
// displayed above this one.
func (h KeyHandle) AboveKey() KeyHandle {
	t := h.Time()
	for cur := h.track.AboveNode(); cur != nil; cur = cur.base().AboveNode() {
		if tr, ok := cur.(*Track); ok && tr.KeyCount() > 0 {
			return tr.NearestKeyByTime(t)
		}
	}
	return KeyHandle{}
}

// BelowKey returns the key nearest in time on the closest track with keys
// displayed below this one.
func (h KeyHandle) BelowKey() KeyHandle {
	t := h.Time()
	for cur := h.track.BelowNode(); cur != nil; cur = cur.base().BelowNode() {
		if tr, ok := cur.(*Track); ok && tr.KeyCount() > 0 {
			return tr.NearestKeyByTime(t)
		}
	}
	return KeyHandle{}
}

func (h KeyHandle) String() string {
	if !h.IsValid() {
		return "KeyHandle(invalid)"
	}
	return fmt.Sprintf("KeyHandle(%s#%d @%g)", h.track.name, h.index, h.Time())
}
