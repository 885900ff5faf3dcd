package trackview

import (
	"cmp"
	"slices"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandText CommandType = iota // text overlay
)

// RenderCommand is a single overlay draw instruction emitted during a
// Sequence.Render traversal. Drawing is left to the host.
type RenderCommand struct {
	Type      CommandType
	Node      *AnimNode
	Text      string
	Font      string
	Color     Color
	Align     TextAlign
	Transform [6]float64
	Layer     int
	treeOrder int // assigned on emit for stable sort
}

// RenderContext collects overlay commands for one viewport.
type RenderContext struct {
	Viewport Rect
	Commands []RenderCommand
	order    int
}

// NewRenderContext returns an empty context for viewport.
func NewRenderContext(viewport Rect) *RenderContext {
	return &RenderContext{Viewport: viewport}
}

func (rc *RenderContext) emit(cmd RenderCommand) {
	cmd.treeOrder = rc.order
	rc.order++
	rc.Commands = append(rc.Commands, cmd)
}

// Reset drops the collected commands, keeping the backing array.
func (rc *RenderContext) Reset() {
	rc.Commands = rc.Commands[:0]
	rc.order = 0
}

// Sorted returns the commands ordered by layer, then traversal order.
func (rc *RenderContext) Sorted() []RenderCommand {
	out := slices.Clone(rc.Commands)
	slices.SortStableFunc(out, func(a, b RenderCommand) int {
		if c := cmp.Compare(a.Layer, b.Layer); c != 0 {
			return c
		}
		return cmp.Compare(a.treeOrder, b.treeOrder)
	})
	return out
}
