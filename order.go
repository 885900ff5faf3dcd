package trackview

import (
	"cmp"
	"slices"
	"strings"
)

// unrankedKind is the rank of node kinds that have no authored position in
// the sibling order. It equals the Director rank, so such nodes interleave
// with directors by name only.
const unrankedKind = 0

// animNodeRank maps every AnimNodeType to its sibling sort rank.
var animNodeRank = map[AnimNodeType]int{
	AnimNodeDirector:        0,
	AnimNodeCamera:          1,
	AnimNodeCVar:            2,
	AnimNodeScriptVar:       3,
	AnimNodeMaterial:        4,
	AnimNodeEvent:           5,
	AnimNodeLayer:           6,
	AnimNodeComment:         7,
	AnimNodeRadialBlur:      8,
	AnimNodeColorCorrection: 9,
	AnimNodeDepthOfField:    10,
	AnimNodeScreenFader:     11,
	AnimNodeLight:           12,
	AnimNodeShadowSetup:     13,
	AnimNodeGroup:           14,
	AnimNodeEntity:          unrankedKind,
	AnimNodeComponent:       unrankedKind,
	AnimNodeInvalid:         unrankedKind,
}

func kindRank(t AnimNodeType) int {
	if r, ok := animNodeRank[t]; ok {
		return r
	}
	return unrankedKind
}

// compareNodes orders siblings: node kind first, then the AnimNode kind rank
// or the track parameter ordinal, then the case-sensitive name.
func compareNodes(a, b Node) int {
	if c := cmp.Compare(a.Kind(), b.Kind()); c != 0 {
		return c
	}
	switch a.Kind() {
	case KindAnimNode:
		ra := kindRank(asAnimNode(a).nodeType)
		rb := kindRank(asAnimNode(b).nodeType)
		if c := cmp.Compare(ra, rb); c != 0 {
			return c
		}
	case KindTrack:
		if c := cmp.Compare(a.(*Track).param.Type, b.(*Track).param.Type); c != 0 {
			return c
		}
	}
	return strings.Compare(a.Name(), b.Name())
}

// sortNodes stable-sorts nodes so equal siblings keep their creation order.
func sortNodes(nodes []Node) {
	slices.SortStableFunc(nodes, compareNodes)
}

// isSorted reports whether nodes satisfy the sibling ordering.
func isSorted(nodes []Node) bool {
	return slices.IsSortedFunc(nodes, compareNodes)
}
