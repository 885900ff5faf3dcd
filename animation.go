package trackview

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// easeFuncs maps an Ease to its gween curve. EaseStep is handled separately.
var easeFuncs = map[Ease]ease.TweenFunc{
	EaseLinear:     ease.Linear,
	EaseInQuad:     ease.InQuad,
	EaseOutQuad:    ease.OutQuad,
	EaseInOutQuad:  ease.InOutQuad,
	EaseInCubic:    ease.InCubic,
	EaseOutCubic:   ease.OutCubic,
	EaseInOutCubic: ease.InOutCubic,
	EaseInOutSine:  ease.InOutSine,
}

// FloatValue evaluates a float track at time. Before the first key and after
// the last the nearest key's value holds; between keys the value follows the
// earlier key's ease. A track without keys yields its default value.
// Interpolated values carry float32 precision.
func (t *Track) FloatValue(time float64) float64 {
	if t.IsCompound() || len(t.keys) == 0 {
		return t.defaultValue
	}
	first, last := t.keys[0], t.keys[len(t.keys)-1]
	if time <= first.Time {
		return t.floatOf(first)
	}
	if time >= last.Time {
		return t.floatOf(last)
	}
	i := t.activeIndex(time)
	k0, k1 := t.keys[i], t.keys[i+1]
	v0, v1 := t.floatOf(k0), t.floatOf(k1)
	fk, _ := k0.Value.(FloatKey)
	if time == k0.Time || fk.Ease == EaseStep || t.valueType == ValueDiscreteFloat {
		return v0
	}
	fn, ok := easeFuncs[fk.Ease]
	if !ok {
		fn = ease.Linear
	}
	tw := gween.New(float32(v0), float32(v1), float32(k1.Time-k0.Time), fn)
	v, _ := tw.Set(float32(time - k0.Time))
	return float64(v)
}

func (t *Track) floatOf(k Key) float64 {
	if fk, ok := k.Value.(FloatKey); ok {
		return fk.Value
	}
	return t.defaultValue
}

// activeIndex returns the index of the last key with Time <= time, or -1.
func (t *Track) activeIndex(time float64) int {
	idx := -1
	for i := range t.keys {
		if t.keys[i].Time > time {
			break
		}
		idx = i
	}
	return idx
}

// ActiveKey returns the last key at or before time, or an invalid handle.
func (t *Track) ActiveKey(time float64) KeyHandle {
	if t.IsCompound() {
		return KeyHandle{}
	}
	if i := t.activeIndex(time); i >= 0 {
		return KeyHandle{track: t, index: i}
	}
	return KeyHandle{}
}

// Vec3Value evaluates the X, Y and Z sub-tracks of a compound track.
func (t *Track) Vec3Value(time float64) Vec3 {
	subs := t.SubTracks()
	if len(subs) != 3 {
		return Vec3{}
	}
	return Vec3{subs[0].FloatValue(time), subs[1].FloatValue(time), subs[2].FloatValue(time)}
}

// ColorValue evaluates the R, G and B sub-tracks of a color track. Alpha is
// always 1.
func (t *Track) ColorValue(time float64) Color {
	v := t.Vec3Value(time)
	return Color{R: v.X, G: v.Y, B: v.Z, A: 1}
}

// BoolValue evaluates a bool track: the last key at or before time wins;
// before the first key the default value applies.
func (t *Track) BoolValue(time float64) bool {
	if i := t.activeIndex(time); i >= 0 {
		if bk, ok := t.keys[i].Value.(BoolKey); ok {
			return bk.Value
		}
	}
	return t.defaultValue != 0
}

// applyTracks writes the node's evaluated tracks to its entity.
func (n *AnimNode) applyTracks(time float64) {
	ent := n.Entity()
	if ent == nil {
		return
	}
	tr := ent.Transform()
	moved := false
	for _, c := range n.children {
		t, ok := c.(*Track)
		if !ok || t.IsDisabled() {
			continue
		}
		switch t.param.Type {
		case ParamPosition:
			tr.Position, moved = t.Vec3Value(time), true
		case ParamRotation:
			tr.Rotation, moved = t.Vec3Value(time), true
		case ParamScale:
			tr.Scale, moved = t.Vec3Value(time), true
		case ParamVisibility:
			if !n.hidden {
				ent.SetVisible(t.BoolValue(time))
			}
		case ParamByString:
			ent.SetProperty(t.param.Name, t.FloatValue(time))
		}
	}
	if moved {
		ent.SetTransform(tr)
	}
}

// applyEntityDefaults seeds a new track's default values from the bound
// entity, or from neutral values when there is none.
func (n *AnimNode) applyEntityDefaults(t *Track) {
	ent := n.Entity()
	tr := IdentityTransform
	if ent != nil {
		tr = ent.Transform()
	}
	setVec := func(v Vec3) {
		subs := t.SubTracks()
		if len(subs) == 3 {
			subs[0].defaultValue, subs[1].defaultValue, subs[2].defaultValue = v.X, v.Y, v.Z
		}
	}
	switch t.param.Type {
	case ParamPosition:
		if n.nodeType == AnimNodeComment {
			setVec(Vec3{0.5, 0.5, 0})
		} else {
			setVec(tr.Position)
		}
	case ParamRotation:
		setVec(tr.Rotation)
	case ParamScale:
		setVec(tr.Scale)
	case ParamColor:
		setVec(Vec3{1, 1, 1})
	case ParamVisibility:
		t.defaultValue = 1
	case ParamFOV:
		t.defaultValue = 60
	case ParamByString:
		if ent != nil {
			if v, ok := ent.Property(t.param.Name); ok {
				t.defaultValue = v
			}
		}
	}
}
