package trackview

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrNoSteps is returned for a playback script without steps.
var ErrNoSteps = errors.New("trackview: playback script has no steps")

// playbackStep represents a single action in a playback script.
type playbackStep struct {
	Action   string  `yaml:"action"`
	Time     float64 `yaml:"time,omitempty"`
	Frames   int     `yaml:"frames,omitempty"`
	Director string  `yaml:"director,omitempty"`
}

// playbackScript is the top-level YAML structure for a playback script.
type playbackScript struct {
	Steps []playbackStep `yaml:"steps"`
}

var playbackActions = map[string]bool{
	"seek": true, "play": true, "pause": true, "wait": true,
	"advance": true, "bind": true, "unbind": true, "director": true,
}

// PlaybackRunner replays scripted scrubs and playback across frames, for
// automated checks of authored sequences:
//
//	steps:
//	  - action: seek
//	    time: 2.5
//	  - action: play
//	  - action: wait
//	    frames: 30
type PlaybackRunner struct {
	steps     []playbackStep
	cursor    int
	waitCount int
	done      bool
}

// LoadPlaybackScript parses a YAML playback script.
func LoadPlaybackScript(data []byte) (*PlaybackRunner, error) {
	var script playbackScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse playback script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse playback script: %w", ErrNoSteps)
	}
	for i, st := range script.Steps {
		if !playbackActions[st.Action] {
			return nil, fmt.Errorf("parse playback script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &PlaybackRunner{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *PlaybackRunner) Done() bool {
	return r.done
}

// Step advances the runner by one frame of ctx. A playing context advances by
// one frame first.
func (r *PlaybackRunner) Step(ctx *AnimationContext) {
	if r.done {
		return
	}
	ctx.Update(1 / ctx.fps)
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	seq := ctx.Sequence()
	switch st.Action {
	case "seek":
		ctx.SetTime(st.Time)
	case "play":
		ctx.Play()
	case "pause":
		ctx.Pause()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "advance":
		ctx.StepFrames(st.Frames)
	case "bind":
		if seq != nil {
			seq.Bind()
		}
	case "unbind":
		if seq != nil {
			seq.Unbind()
		}
	case "director":
		if seq != nil {
			for _, d := range seq.AnimNodesByType(AnimNodeDirector).Nodes() {
				if d.name == st.Director {
					d.SetAsActiveDirector()
					break
				}
			}
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

// Run steps the runner until it is done or maxFrames frames have passed and
// returns the number of frames stepped.
func (r *PlaybackRunner) Run(ctx *AnimationContext, maxFrames int) int {
	n := 0
	for !r.done && n < maxFrames {
		r.Step(ctx)
		n++
	}
	return n
}
