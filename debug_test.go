package trackview

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestDebugCheckOrderPanics(t *testing.T) {
	seq, _ := newTestSequence("seq")
	seq.CreateSubNode("a", AnimNodeGroup, uuid.Nil)
	seq.CreateSubNode("b", AnimNodeGroup, uuid.Nil)
	seq.children[0], seq.children[1] = seq.children[1], seq.children[0]

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on out-of-order children")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "out of order") {
			t.Errorf("panic message = %q, want it to mention the order", msg)
		}
	}()
	debugCheckOrder(&seq.nodeBase)
}

func TestDebugCheckOrderAcceptsSorted(t *testing.T) {
	seq, _ := newTestSequence("seq")
	seq.SetDebugMode(true)
	defer seq.SetDebugMode(false)

	seq.CreateSubNode("b", AnimNodeGroup, uuid.Nil)
	seq.CreateSubNode("a", AnimNodeGroup, uuid.Nil)
	seq.CreateSubNode("cam", AnimNodeCamera, uuid.Nil)
	debugCheckOrder(&seq.nodeBase)
}

func TestSetDebugModeSetsGlobal(t *testing.T) {
	seq, _ := newTestSequence("seq")
	seq.SetDebugMode(true)
	if !globalDebug {
		t.Error("globalDebug should follow SetDebugMode(true)")
	}
	seq.SetDebugMode(false)
	if globalDebug {
		t.Error("globalDebug should follow SetDebugMode(false)")
	}
}

func TestCountNodes(t *testing.T) {
	seq, _ := newTestSequence("seq")
	g := seq.CreateSubNode("g", AnimNodeGroup, uuid.Nil)
	g.CreateSubNode("cam", AnimNodeCamera, uuid.Nil)

	// seq, g, cam and the camera's FOV, Position (X, Y, Z) and Rotation
	// (X, Y, Z) tracks.
	if got := countNodes(seq); got != 11 {
		t.Errorf("countNodes = %d, want 11", got)
	}
}

func TestDebugAnimateStillEvaluates(t *testing.T) {
	seq, tr := floatTrack()
	addFloatKey(tr, 0, 0)
	addFloatKey(tr, 1, 10)
	seq.SetDebugMode(true)
	defer seq.SetDebugMode(false)

	seq.Bind()
	seq.Animate(AnimContext{Time: 0.5})
	if seq.Time() != 0.5 {
		t.Errorf("Time = %v, want 0.5", seq.Time())
	}
}
