package trackview

import (
	"fmt"

	"github.com/google/uuid"
)

// Key is one time-stamped keyframe. Keys are owned by exactly one track and
// are only created, cloned and removed through it.
type Key struct {
	Time     float64
	Selected bool
	Value    KeyValue

	sortMarker bool
}

// KeyValue is the kind-specific payload of a key. Implementations are plain
// value types, so copying a Key copies its payload.
type KeyValue interface {
	ValueType() ValueType
	// Description is the short text shown next to the key.
	Description() string
	// Duration is the length the key covers on the timeline, or 0.
	Duration() float64
}

// Ease selects the interpolation curve from a float key to the next one.
type Ease uint8

const (
	EaseLinear Ease = iota
	EaseInQuad
	EaseOutQuad
	EaseInOutQuad
	EaseInCubic
	EaseOutCubic
	EaseInOutCubic
	EaseInOutSine
	EaseStep // hold the value until the next key
)

var easeNames = [...]string{
	"linear", "in-quad", "out-quad", "in-out-quad", "in-cubic", "out-cubic",
	"in-out-cubic", "in-out-sine", "step",
}

func (e Ease) String() string {
	if int(e) < len(easeNames) {
		return easeNames[e]
	}
	return fmt.Sprintf("Ease(%d)", uint8(e))
}

// ParseEase returns the ease named s. Unknown names yield EaseLinear and false.
func ParseEase(s string) (Ease, bool) {
	for i, name := range easeNames {
		if name == s {
			return Ease(i), true
		}
	}
	return EaseLinear, false
}

// FloatKey is the payload of float and discrete-float tracks.
type FloatKey struct {
	Value float64 `yaml:"value"`
	Ease  Ease    `yaml:"ease"`
}

func (FloatKey) ValueType() ValueType  { return ValueFloat }
func (k FloatKey) Description() string { return fmt.Sprintf("%.3g", k.Value) }
func (FloatKey) Duration() float64     { return 0 }

// BoolKey is the payload of bool tracks. The value holds until the next key.
type BoolKey struct {
	Value bool `yaml:"value"`
}

func (BoolKey) ValueType() ValueType  { return ValueBool }
func (k BoolKey) Description() string { return fmt.Sprint(k.Value) }
func (BoolKey) Duration() float64     { return 0 }

// SelectKey switches to the named camera.
type SelectKey struct {
	Camera   string    `yaml:"camera"`
	CameraID uuid.UUID `yaml:"cameraId"`
	Blend    float64   `yaml:"blend"`
}

func (SelectKey) ValueType() ValueType  { return ValueSelect }
func (k SelectKey) Description() string { return k.Camera }
func (k SelectKey) Duration() float64   { return k.Blend }

// EventKey fires a named event with an optional value.
type EventKey struct {
	Event string `yaml:"event"`
	Value string `yaml:"value"`
}

func (EventKey) ValueType() ValueType { return ValueEvent }
func (k EventKey) Description() string {
	if k.Value == "" {
		return k.Event
	}
	return k.Event + ", " + k.Value
}
func (EventKey) Duration() float64 { return 0 }

// SequenceKey places a nested sequence on a director timeline. With
// OverrideTimes unset, the nested sequence plays its whole time range.
type SequenceKey struct {
	Sequence      uuid.UUID `yaml:"sequence"`
	Name          string    `yaml:"name"`
	OverrideTimes bool      `yaml:"overrideTimes"`
	StartOffset   float64   `yaml:"startOffset"`
	EndTime       float64   `yaml:"endTime"` // local end time, not a length
}

func (SequenceKey) ValueType() ValueType  { return ValueSequence }
func (k SequenceKey) Description() string { return k.Name }
func (k SequenceKey) Duration() float64   { return k.EndTime - k.StartOffset }

// SoundKey starts a sound.
type SoundKey struct {
	Sound  string  `yaml:"sound"`
	Length float64 `yaml:"duration"`
	Volume float64 `yaml:"volume"`
}

func (SoundKey) ValueType() ValueType  { return ValueSound }
func (k SoundKey) Description() string { return k.Sound }
func (k SoundKey) Duration() float64   { return k.Length }

// ConsoleKey runs a console command.
type ConsoleKey struct {
	Command string `yaml:"command"`
}

func (ConsoleKey) ValueType() ValueType  { return ValueConsole }
func (k ConsoleKey) Description() string { return k.Command }
func (ConsoleKey) Duration() float64     { return 0 }

// CommentKey shows a text overlay for Length seconds.
type CommentKey struct {
	Text   string    `yaml:"text"`
	Length float64   `yaml:"duration"`
	Font   string    `yaml:"font"`
	Size   float64   `yaml:"size"`
	Color  Color     `yaml:"color"`
	Align  TextAlign `yaml:"align"`
}

func (CommentKey) ValueType() ValueType  { return ValueComment }
func (k CommentKey) Description() string { return k.Text }
func (k CommentKey) Duration() float64   { return k.Length }

// newKeyValue returns the default payload for a new key of value type vt.
func newKeyValue(vt ValueType) KeyValue {
	switch vt {
	case ValueFloat, ValueDiscreteFloat:
		return FloatKey{}
	case ValueBool:
		return BoolKey{Value: true}
	case ValueSelect:
		return SelectKey{}
	case ValueEvent:
		return EventKey{}
	case ValueSequence:
		return SequenceKey{}
	case ValueSound:
		return SoundKey{Volume: 1}
	case ValueConsole:
		return ConsoleKey{}
	case ValueComment:
		return CommentKey{Text: "Comment", Length: 1, Size: 1, Color: ColorWhite}
	}
	return nil
}

// valueKindName is the payload tag used in clipboard documents.
func valueKindName(v KeyValue) string {
	switch v.(type) {
	case FloatKey:
		return "float"
	case BoolKey:
		return "bool"
	case SelectKey:
		return "select"
	case EventKey:
		return "event"
	case SequenceKey:
		return "sequence"
	case SoundKey:
		return "sound"
	case ConsoleKey:
		return "console"
	case CommentKey:
		return "comment"
	}
	return ""
}

// keyValueForKind returns a pointer to a zero payload of the named kind, for
// decoding.
func keyValueForKind(kind string) (any, bool) {
	switch kind {
	case "float":
		return &FloatKey{}, true
	case "bool":
		return &BoolKey{}, true
	case "select":
		return &SelectKey{}, true
	case "event":
		return &EventKey{}, true
	case "sequence":
		return &SequenceKey{}, true
	case "sound":
		return &SoundKey{}, true
	case "console":
		return &ConsoleKey{}, true
	case "comment":
		return &CommentKey{}, true
	}
	return nil, false
}

// derefKeyValue converts a decoded payload pointer back to its value form.
func derefKeyValue(p any) KeyValue {
	switch v := p.(type) {
	case *FloatKey:
		return *v
	case *BoolKey:
		return *v
	case *SelectKey:
		return *v
	case *EventKey:
		return *v
	case *SequenceKey:
		return *v
	case *SoundKey:
		return *v
	case *ConsoleKey:
		return *v
	case *CommentKey:
		return *v
	}
	return nil
}
