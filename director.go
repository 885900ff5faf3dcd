package trackview

import (
	"math"
	"slices"
	"time"
)

// directorAnimator keeps the nested sequences of a director's sequence track
// bound while their key window contains the current time.
//
// A key starting at s plays its sequence at local time t - s + offset and is
// live while s <= t and the local time is before the local end. Without
// OverrideTimes the offset and end come from the nested sequence's range.
type directorAnimator struct {
	bound []*Sequence // nested sequences bound by this director, in bind order
}

// window is one resolved sequence key.
type window struct {
	seq    *Sequence
	start  float64
	offset float64
	end    float64
}

func (w window) local(t float64) float64 { return t - w.start + w.offset }

func (w window) live(t float64) bool { return t >= w.start && w.local(t) < w.end }

func (d *directorAnimator) Bind(*AnimNode) {}

// Unbind releases every nested sequence the director bound.
func (d *directorAnimator) Unbind(*AnimNode) {
	for _, nested := range d.bound {
		d.release(nested)
	}
	d.bound = nil
}

// Reset forgets the evaluated time of every bound nested sequence.
func (d *directorAnimator) Reset(*AnimNode) {
	for _, nested := range d.bound {
		nested.Reset(false)
	}
}

func (d *directorAnimator) windows(n *AnimNode) []window {
	seq := n.Sequence()
	track := n.TrackForParameter(Param(ParamSequence), 0)
	if seq == nil || seq.manager == nil || track == nil || track.IsDisabled() {
		return nil
	}
	out := make([]window, 0, len(track.keys))
	for _, k := range track.keys {
		sk, ok := k.Value.(SequenceKey)
		if !ok {
			continue
		}
		nested := seq.manager.SequenceByID(sk.Sequence)
		if nested == nil || nested == seq || nested.directing {
			continue
		}
		w := window{seq: nested, start: k.Time, offset: nested.timeRange.Start, end: nested.timeRange.End}
		if sk.OverrideTimes {
			w.offset, w.end = sk.StartOffset, sk.EndTime
		}
		out = append(out, w)
	}
	return out
}

// Animate unbinds every bound nested sequence whose windows no longer contain
// ac.Time, then binds and animates the live ones. All unbinding happens
// before any binding. Only the active director plays its sequences.
func (d *directorAnimator) Animate(n *AnimNode, ac AnimContext) {
	if !n.IsActiveDirector() {
		d.Unbind(n)
		return
	}
	seq := n.Sequence()
	var start time.Time
	if seq.debug {
		start = time.Now()
	}
	seq.directing = true
	defer func() { seq.directing = false }()

	var live []window
	liveSet := map[*Sequence]bool{}
	for _, w := range d.windows(n) {
		if w.live(ac.Time) && !liveSet[w.seq] {
			liveSet[w.seq] = true
			live = append(live, w)
		}
	}

	stats := debugStats{}
	var keep []*Sequence
	for _, nested := range d.bound {
		if liveSet[nested] {
			keep = append(keep, nested)
			continue
		}
		if ac.Force {
			d.finalAnimate(n, nested, ac)
		}
		d.release(nested)
		stats.nestedUnbound++
	}
	d.bound = keep

	for _, w := range live {
		nested := w.seq
		if !nested.bound {
			restore := nested.SuppressNotifications()
			nested.Bind()
			restore()
			stats.nestedBound++
		}
		if !slices.Contains(d.bound, nested) {
			d.bound = append(d.bound, nested)
		}
		if !nested.activated {
			nested.Activate()
		}
		local := math.Min(w.local(ac.Time), w.end)
		if prev, ok := nested.LastAnimatedTime(); ac.Force || !ok || prev != local {
			nested.Animate(AnimContext{Time: local, Force: ac.Force, Playing: ac.Playing, Resetting: ac.Resetting})
			stats.nestedAnimated++
		}
	}

	if seq.debug {
		stats.animateTime = time.Since(start)
		seq.debugLog(stats)
	}
}

// finalAnimate evaluates an expiring nested sequence once at the clipped end
// of the latest window that has started.
func (d *directorAnimator) finalAnimate(n *AnimNode, nested *Sequence, ac AnimContext) {
	windows := d.windows(n)
	for i := len(windows) - 1; i >= 0; i-- {
		w := windows[i]
		if w.seq != nested {
			continue
		}
		if raw := w.local(ac.Time); raw >= 0 {
			nested.Animate(AnimContext{Time: math.Min(raw, w.end), Force: true, Resetting: ac.Resetting})
			return
		}
	}
}

func (d *directorAnimator) release(nested *Sequence) {
	restore := nested.SuppressNotifications()
	nested.Unbind()
	restore()
	nested.Deactivate()
}

// Render collects the overlays of the live nested sequences.
func (d *directorAnimator) Render(_ *AnimNode, rc *RenderContext) {
	for _, nested := range d.bound {
		nested.Render(rc)
	}
}

// BoundSequences returns the nested sequences the director node currently
// keeps bound, in bind order.
func (n *AnimNode) BoundSequences() []*Sequence {
	if d, ok := n.animator.(*directorAnimator); ok {
		return slices.Clone(d.bound)
	}
	return nil
}
