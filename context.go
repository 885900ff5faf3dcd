package trackview

import "math"

// AnimationContext drives the time of one sequence: scrubbing, playback and
// forced re-animation requests.
type AnimationContext struct {
	seq     *Sequence
	time    float64
	playing bool
	fps     float64
	snap    bool
}

// NewAnimationContext returns a context using cfg's frame rate and key
// snapping.
func NewAnimationContext(cfg Config) *AnimationContext {
	fps := cfg.FPS
	if fps <= 0 {
		fps = DefaultConfig().FPS
	}
	return &AnimationContext{fps: fps, snap: cfg.SnapToKeys}
}

// Sequence returns the driven sequence, or nil.
func (c *AnimationContext) Sequence() *Sequence { return c.seq }

// Time returns the current time.
func (c *AnimationContext) Time() float64 { return c.time }

// FPS returns the frame rate used by StepFrames.
func (c *AnimationContext) FPS() float64 { return c.fps }

// IsPlaying reports whether Update advances time.
func (c *AnimationContext) IsPlaying() bool { return c.playing }

// SetSequence unbinds the previous sequence, binds seq and moves to the start
// of its range. Forced re-animations of seq are routed through the context.
func (c *AnimationContext) SetSequence(seq *Sequence) {
	if c.seq == seq {
		return
	}
	if old := c.seq; old != nil {
		old.SetReanimateHandler(nil)
		old.Unbind()
		old.Deactivate()
	}
	c.seq = seq
	c.playing = false
	if seq == nil {
		return
	}
	c.time = seq.timeRange.Start
	seq.SetReanimateHandler(c.reanimate)
	seq.Bind()
	seq.Activate()
	c.SetTime(seq.timeRange.Start)
}

// SetTime scrubs to t, clamped to the sequence range, and evaluates it
// forcibly. With key snapping enabled, t snaps to a key within half a frame.
func (c *AnimationContext) SetTime(t float64) {
	if c.seq == nil {
		c.time = t
		return
	}
	t = c.seq.timeRange.Clamp(t)
	if c.snap {
		t = c.snapToKey(t)
	}
	c.time = t
	c.seq.Animate(AnimContext{Time: t, Force: true})
}

func (c *AnimationContext) snapToKey(t float64) float64 {
	half := 0.5 / c.fps
	best, bestDist := t, math.Inf(1)
	if prev, ok := c.seq.SnapTimeToPrevKey(t + half); ok {
		if d := math.Abs(prev - t); d <= half && d < bestDist {
			best, bestDist = prev, d
		}
	}
	if next, ok := c.seq.SnapTimeToNextKey(t - half); ok {
		if d := math.Abs(next - t); d <= half && d < bestDist {
			best = next
		}
	}
	return best
}

// Play starts playback from the current time.
func (c *AnimationContext) Play() { c.playing = c.seq != nil }

// Pause stops playback.
func (c *AnimationContext) Pause() { c.playing = false }

// Update advances time by dt seconds while playing. Past the end of the range
// a looping sequence wraps to its start; otherwise time clamps and playback
// stops.
func (c *AnimationContext) Update(dt float64) {
	if !c.playing || c.seq == nil {
		return
	}
	r := c.seq.timeRange
	t := c.time + dt
	if t >= r.End {
		if c.seq.HasFlag(SeqLoop) && r.Length() > 0 {
			t = r.Start + math.Mod(t-r.Start, r.Length())
			c.seq.Reset(false)
		} else {
			t = r.End
			c.playing = false
		}
	}
	c.time = t
	c.seq.Animate(AnimContext{Time: t, Playing: true})
}

// StepFrames moves time by n frames and evaluates it forcibly.
func (c *AnimationContext) StepFrames(n int) {
	c.SetTime(c.time + float64(n)/c.fps)
}

// ForceAnimation re-evaluates the current time.
func (c *AnimationContext) ForceAnimation() {
	if c.seq == nil {
		return
	}
	c.seq.Animate(AnimContext{Time: c.time, Force: true})
}

func (c *AnimationContext) reanimate(seq *Sequence) {
	if seq == c.seq {
		c.ForceAnimation()
	}
}
