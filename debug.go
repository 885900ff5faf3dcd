package trackview

import (
	"fmt"
	"os"
	"time"
)

// globalDebug mirrors the most recently set Sequence debug flag so that node
// operations (which may run on detached nodes) can check it cheaply. With
// several sequences in differing debug modes it reflects whichever called
// SetDebugMode last.
var globalDebug bool

// debugStats holds per-call animation metrics.
// Only populated when the sequence is in debug mode.
type debugStats struct {
	animateTime    time.Duration
	nodeCount      int
	nestedBound    int
	nestedUnbound  int
	nestedAnimated int
}

// debugLog prints animation stats to stderr.
func (s *Sequence) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[trackview] %s animate: %v | nodes: %d | nested bound: %d unbound: %d animated: %d\n",
		s.name, stats.animateTime, stats.nodeCount, stats.nestedBound, stats.nestedUnbound, stats.nestedAnimated)
}

const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
func debugCheckTreeDepth(n Node) {
	if d := depth(n) + 1; d > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[trackview] warning: tree depth %d exceeds %d (node %q)\n",
			d, debugMaxTreeDepth, n.Name())
	}
}

const debugMaxChildCount = 1000

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
func debugCheckChildCount(n *nodeBase) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[trackview] warning: node %q has %d children (threshold %d)\n",
			n.name, len(n.children), debugMaxChildCount)
	}
}

// debugCheckOrder panics when a child list is not in sibling order. It runs
// after every insertion in debug mode.
func debugCheckOrder(n *nodeBase) {
	if !isSorted(n.children) {
		panic(fmt.Sprintf("trackview debug: children of %q are out of order", n.name))
	}
}

// countNodes counts n and every node below it.
func countNodes(n Node) int {
	count := 1
	for _, c := range n.Children() {
		count += countNodes(c)
	}
	return count
}
