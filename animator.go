package trackview

// AnimContext carries the parameters of one evaluation.
type AnimContext struct {
	Time      float64 // sequence-local time in seconds
	Force     bool    // re-apply even when Time did not change
	Playing   bool    // evaluation is driven by playback rather than a scrub
	Resetting bool    // evaluation is part of a reset
}

// Animator is the kind-specific behavior of an AnimNode, selected once from
// the node kind when the node is created.
type Animator interface {
	Bind(n *AnimNode)
	Unbind(n *AnimNode)
	Animate(n *AnimNode, ac AnimContext)
	Render(n *AnimNode, rc *RenderContext)
	Reset(n *AnimNode)
}

func newAnimator(t AnimNodeType) Animator {
	switch t {
	case AnimNodeComment:
		return &commentAnimator{}
	case AnimNodeDirector:
		return &directorAnimator{}
	}
	return nil
}

// commentAnimator shows the active comment key as a text overlay placed by
// the node's unit-space position track.
type commentAnimator struct {
	visible bool
	key     CommentKey
	unitPos Vec2
}

func (a *commentAnimator) Bind(*AnimNode)   {}
func (a *commentAnimator) Unbind(*AnimNode) { a.visible = false }
func (a *commentAnimator) Reset(*AnimNode)  { a.visible = false }

func (a *commentAnimator) Animate(n *AnimNode, ac AnimContext) {
	a.visible = false
	if text := n.TrackForParameter(Param(ParamCommentText), 0); text != nil && !text.IsDisabled() {
		if h := text.ActiveKey(ac.Time); h.IsValid() {
			if k, ok := h.Value().(CommentKey); ok && ac.Time-h.Time() <= k.Length {
				a.visible = true
				a.key = k
			}
		}
	}
	a.unitPos = Vec2{0.5, 0.5}
	if pos := n.TrackForParameter(Param(ParamPosition), 0); pos != nil && !pos.IsDisabled() {
		v := pos.Vec3Value(ac.Time)
		a.unitPos = Vec2{v.X, v.Y}
	}
}

func (a *commentAnimator) Render(n *AnimNode, rc *RenderContext) {
	if !a.visible || n.hidden {
		return
	}
	size := a.key.Size
	if size <= 0 {
		size = 1
	}
	rc.emit(RenderCommand{
		Type:      CommandText,
		Node:      n,
		Text:      a.key.Text,
		Font:      a.key.Font,
		Color:     a.key.Color,
		Align:     a.key.Align,
		Transform: overlayTransform(a.unitPos, size, rc.Viewport),
	})
}
