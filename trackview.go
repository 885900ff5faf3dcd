package trackview

import "fmt"

// Color represents an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default comment color.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for unit-space overlay positions.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D vector used for positions, euler rotations (degrees) and scales.
type Vec3 struct {
	X, Y, Z float64
}

// Transform is the transform-like property set of an external entity.
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

// IdentityTransform has zero position and rotation and unit scale.
var IdentityTransform = Transform{Scale: Vec3{1, 1, 1}}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Range is a closed time interval in seconds.
type Range struct {
	Start, End float64
}

// Length returns End - Start.
func (r Range) Length() float64 {
	return r.End - r.Start
}

// Contains reports whether t lies inside the range, bounds included.
func (r Range) Contains(t float64) bool {
	return t >= r.Start && t <= r.End
}

// Clamp limits t to the range.
func (r Range) Clamp(t float64) float64 {
	if t < r.Start {
		return r.Start
	}
	if t > r.End {
		return r.End
	}
	return t
}

// NodeKind distinguishes the three node variants of the tree.
// The numeric order is the primary sibling sort key.
type NodeKind uint8

const (
	KindSequence NodeKind = iota // root of a tree
	KindAnimNode                 // animatable entity or sub-component
	KindTrack                    // parameter track or compound sub-track
)

func (k NodeKind) String() string {
	switch k {
	case KindSequence:
		return "Sequence"
	case KindAnimNode:
		return "AnimNode"
	case KindTrack:
		return "Track"
	}
	return fmt.Sprintf("NodeKind(%d)", uint8(k))
}

// AnimNodeType is the kind tag of an AnimNode.
type AnimNodeType uint8

const (
	AnimNodeInvalid         AnimNodeType = iota
	AnimNodeEntity                       // bound to one external entity
	AnimNodeDirector                     // hosts nested sequences
	AnimNodeCamera                       // camera parameters
	AnimNodeCVar                         // console variable
	AnimNodeScriptVar                    // script variable
	AnimNodeMaterial                     // material parameters
	AnimNodeEvent                        // event track host
	AnimNodeGroup                        // pure folder
	AnimNodeLayer                        // layer visibility
	AnimNodeComment                      // authoring comment rendered as overlay
	AnimNodeRadialBlur                   // post effect
	AnimNodeColorCorrection              // post effect
	AnimNodeDepthOfField                 // post effect
	AnimNodeScreenFader                  // post effect
	AnimNodeLight                        // light parameters
	AnimNodeShadowSetup                  // shadow parameters
	AnimNodeComponent                    // one component of an entity node
)

var animNodeTypeNames = map[AnimNodeType]string{
	AnimNodeInvalid:         "Invalid",
	AnimNodeEntity:          "Entity",
	AnimNodeDirector:        "Director",
	AnimNodeCamera:          "Camera",
	AnimNodeCVar:            "CVar",
	AnimNodeScriptVar:       "ScriptVar",
	AnimNodeMaterial:        "Material",
	AnimNodeEvent:           "Event",
	AnimNodeGroup:           "Group",
	AnimNodeLayer:           "Layer",
	AnimNodeComment:         "Comment",
	AnimNodeRadialBlur:      "RadialBlur",
	AnimNodeColorCorrection: "ColorCorrection",
	AnimNodeDepthOfField:    "DepthOfField",
	AnimNodeScreenFader:     "ScreenFader",
	AnimNodeLight:           "Light",
	AnimNodeShadowSetup:     "ShadowSetup",
	AnimNodeComponent:       "Component",
}

func (t AnimNodeType) String() string {
	if s, ok := animNodeTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("AnimNodeType(%d)", uint8(t))
}

// ParseAnimNodeType returns the type named s, or AnimNodeInvalid.
func ParseAnimNodeType(s string) AnimNodeType {
	for t, name := range animNodeTypeNames {
		if name == s {
			return t
		}
	}
	return AnimNodeInvalid
}

// NodeFlags is the flag set of an AnimNode.
type NodeFlags uint16

const (
	FlagEntitySelected       NodeFlags = 1 << iota // the bound entity is selected in the scene
	FlagCanChangeName                              // the node may be renamed
	FlagDisabled                                   // excluded from animation
	FlagDisabledForComponent                       // disabled because its host component is gone
)

// TrackFlags is the flag set of a Track.
type TrackFlags uint8

const (
	TrackDisabled TrackFlags = 1 << iota // excluded from evaluation
	TrackMuted                           // muted (only honored when the value type uses mute)
)

// SequenceFlags is the flag set of a Sequence.
type SequenceFlags uint16

const (
	SeqPlayOnReset SequenceFlags = 1 << iota // start playing when reset
	SeqLoop                                  // wrap time at the end of the range
	SeqCutScene                              // plays as a cut-scene
	SeqNoSeek                                // seeking disallowed at runtime
)

// ChangeReason is the reason code carried by a node-changed notification.
type ChangeReason uint8

const (
	ChangeAdded ChangeReason = iota
	ChangeRemoved
	ChangeSelected
	ChangeDeselected
	ChangeHidden
	ChangeUnhidden
	ChangeEnabled
	ChangeDisabled
	ChangeMuted
	ChangeUnmuted
	ChangeExpanded
	ChangeCollapsed
	ChangeRenamed
	ChangeOwnerChanged
	ChangeSetAsActiveDirector
)

var changeReasonNames = [...]string{
	"Added", "Removed", "Selected", "Deselected", "Hidden", "Unhidden",
	"Enabled", "Disabled", "Muted", "Unmuted", "Expanded", "Collapsed",
	"Renamed", "OwnerChanged", "SetAsActiveDirector",
}

func (r ChangeReason) String() string {
	if int(r) < len(changeReasonNames) {
		return changeReasonNames[r]
	}
	return fmt.Sprintf("ChangeReason(%d)", uint8(r))
}

// TextAlign controls horizontal alignment of comment text.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // align text to the left edge (default)
	TextAlignCenter                  // center text horizontally
	TextAlignRight                   // align text to the right edge
)
