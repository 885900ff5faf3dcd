package trackview

import "fmt"

// AnimParam identifies the animated parameter of a track. The numeric order is
// the secondary sort key between sibling tracks.
type AnimParam uint16

const (
	ParamInvalid AnimParam = iota
	ParamFOV
	ParamPosition
	ParamRotation
	ParamScale
	ParamEvent
	ParamVisibility
	ParamCamera
	ParamSound
	ParamSequence
	ParamConsole
	ParamFloat
	ParamTimeWarp
	ParamCommentText
	ParamColor
	ParamPositionX
	ParamPositionY
	ParamPositionZ
	ParamRotationX
	ParamRotationY
	ParamRotationZ
	ParamScaleX
	ParamScaleY
	ParamScaleZ
	ParamColorR
	ParamColorG
	ParamColorB
	ParamByString // component property addressed by name
)

var animParamNames = map[AnimParam]string{
	ParamInvalid:     "Invalid",
	ParamFOV:         "FOV",
	ParamPosition:    "Position",
	ParamRotation:    "Rotation",
	ParamScale:       "Scale",
	ParamEvent:       "Event",
	ParamVisibility:  "Visibility",
	ParamCamera:      "Camera",
	ParamSound:       "Sound",
	ParamSequence:    "Sequence",
	ParamConsole:     "Console",
	ParamFloat:       "Float",
	ParamTimeWarp:    "TimeWarp",
	ParamCommentText: "CommentText",
	ParamColor:       "Color",
	ParamPositionX:   "X",
	ParamPositionY:   "Y",
	ParamPositionZ:   "Z",
	ParamRotationX:   "X",
	ParamRotationY:   "Y",
	ParamRotationZ:   "Z",
	ParamScaleX:      "X",
	ParamScaleY:      "Y",
	ParamScaleZ:      "Z",
	ParamColorR:      "R",
	ParamColorG:      "G",
	ParamColorB:      "B",
	ParamByString:    "ByString",
}

// ParamType is a parameter tag. Name is only meaningful for ParamByString.
type ParamType struct {
	Type AnimParam
	Name string
}

// Param returns the ParamType for a built-in parameter.
func Param(p AnimParam) ParamType {
	return ParamType{Type: p}
}

// PropertyParam returns the ParamType addressing a named component property.
func PropertyParam(name string) ParamType {
	return ParamType{Type: ParamByString, Name: name}
}

func (p ParamType) String() string {
	if p.Type == ParamByString {
		return p.Name
	}
	if s, ok := animParamNames[p.Type]; ok {
		return s
	}
	return fmt.Sprintf("AnimParam(%d)", uint16(p.Type))
}

// ValueType is the value kind stored by a track's keys.
type ValueType uint8

const (
	ValueUnknown ValueType = iota
	ValueFloat
	ValueVector // compound: X, Y, Z float sub-tracks
	ValueQuat   // compound: euler X, Y, Z float sub-tracks
	ValueRGB    // compound: R, G, B float sub-tracks
	ValueBool
	ValueSelect
	ValueDiscreteFloat
	ValueEvent
	ValueSequence
	ValueSound
	ValueConsole
	ValueComment
)

var valueTypeNames = [...]string{
	"Unknown", "Float", "Vector", "Quat", "RGB", "Bool", "Select",
	"DiscreteFloat", "Event", "Sequence", "Sound", "Console", "Comment",
}

func (v ValueType) String() string {
	if int(v) < len(valueTypeNames) {
		return valueTypeNames[v]
	}
	return fmt.Sprintf("ValueType(%d)", uint8(v))
}

// IsCompound reports whether tracks of this value type hold sub-tracks
// instead of keys.
func (v ValueType) IsCompound() bool {
	return v == ValueVector || v == ValueQuat || v == ValueRGB
}

// UsesMute reports whether tracks of this value type honor the muted flag.
func (v ValueType) UsesMute() bool {
	return v == ValueSound
}

// ParamFlags qualify how a parameter may be used on a node.
type ParamFlags uint8

const (
	ParamMultipleTracks ParamFlags = 1 << iota // several tracks of this param may coexist
)

// ParamInfo describes one parameter a node kind supports.
type ParamInfo struct {
	Param     ParamType
	ValueType ValueType
	Flags     ParamFlags
}

var paramValueTypes = map[AnimParam]ValueType{
	ParamFOV:         ValueFloat,
	ParamPosition:    ValueVector,
	ParamRotation:    ValueQuat,
	ParamScale:       ValueVector,
	ParamEvent:       ValueEvent,
	ParamVisibility:  ValueBool,
	ParamCamera:      ValueSelect,
	ParamSound:       ValueSound,
	ParamSequence:    ValueSequence,
	ParamConsole:     ValueConsole,
	ParamFloat:       ValueFloat,
	ParamTimeWarp:    ValueFloat,
	ParamCommentText: ValueComment,
	ParamColor:       ValueRGB,
	ParamByString:    ValueFloat,
}

// ValueTypeOf returns the value type stored by tracks of param p.
func ValueTypeOf(p ParamType) ValueType {
	if vt, ok := paramValueTypes[p.Type]; ok {
		return vt
	}
	if p.Type >= ParamPositionX && p.Type <= ParamColorB {
		return ValueFloat
	}
	return ValueUnknown
}

var subTrackParams = map[AnimParam][3]AnimParam{
	ParamPosition: {ParamPositionX, ParamPositionY, ParamPositionZ},
	ParamRotation: {ParamRotationX, ParamRotationY, ParamRotationZ},
	ParamScale:    {ParamScaleX, ParamScaleY, ParamScaleZ},
	ParamColor:    {ParamColorR, ParamColorG, ParamColorB},
}

func info(p AnimParam, flags ParamFlags) ParamInfo {
	return ParamInfo{Param: Param(p), ValueType: paramValueTypes[p], Flags: flags}
}

var transformParams = []ParamInfo{
	info(ParamPosition, 0),
	info(ParamRotation, 0),
	info(ParamScale, 0),
}

var nodeParams = map[AnimNodeType][]ParamInfo{
	AnimNodeEntity: {
		info(ParamVisibility, 0),
		info(ParamEvent, ParamMultipleTracks),
	},
	AnimNodeDirector: {
		info(ParamCamera, 0),
		info(ParamEvent, ParamMultipleTracks),
		info(ParamSound, ParamMultipleTracks),
		info(ParamSequence, 0),
		info(ParamConsole, 0),
		info(ParamTimeWarp, 0),
	},
	AnimNodeCamera: {
		info(ParamPosition, 0),
		info(ParamRotation, 0),
		info(ParamFOV, 0),
	},
	AnimNodeCVar:            {info(ParamFloat, 0)},
	AnimNodeScriptVar:       {info(ParamFloat, 0)},
	AnimNodeMaterial:        {info(ParamColor, 0), info(ParamFloat, ParamMultipleTracks)},
	AnimNodeEvent:           {info(ParamEvent, ParamMultipleTracks)},
	AnimNodeLayer:           {info(ParamVisibility, 0)},
	AnimNodeComment:         {info(ParamCommentText, 0), info(ParamPosition, 0)},
	AnimNodeRadialBlur:      {info(ParamFloat, ParamMultipleTracks)},
	AnimNodeColorCorrection: {info(ParamColor, 0), info(ParamFloat, ParamMultipleTracks)},
	AnimNodeDepthOfField:    {info(ParamFloat, ParamMultipleTracks)},
	AnimNodeScreenFader:     {info(ParamColor, 0), info(ParamFloat, 0)},
	AnimNodeLight:           {info(ParamPosition, 0), info(ParamColor, 0), info(ParamFloat, ParamMultipleTracks)},
	AnimNodeShadowSetup:     {info(ParamFloat, ParamMultipleTracks)},
}

var defaultParams = map[AnimNodeType][]AnimParam{
	AnimNodeCamera:  {ParamPosition, ParamRotation, ParamFOV},
	AnimNodeComment: {ParamCommentText},
	AnimNodeEvent:   {ParamEvent},
	AnimNodeLight:   {ParamPosition, ParamColor},
}

// TransformComponent is the component type name that exposes the
// position, rotation and scale parameters.
const TransformComponent = "Transform"

// SupportedParams returns the parameters a node kind accepts. Component nodes
// depend on their component and are resolved by AnimNode.SupportedParams.
func SupportedParams(t AnimNodeType) []ParamInfo {
	return nodeParams[t]
}
