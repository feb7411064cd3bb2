package motive

import (
	"fmt"
	"os"
	"time"
)

// globalDebug mirrors the most recently set Scheduler debug flag so that
// snapshot construction (which lacks a Scheduler pointer) can check it
// cheaply. Only valid with a single Scheduler; multiple Schedulers with
// differing debug modes reflect whichever called SetDebugMode last.
var globalDebug bool

// DebugSink receives per-tick observations for every driven binding. It must
// be side-effect-free with respect to scheduling: observing an animation may
// never change its outcome.
type DebugSink interface {
	Observe(id BindingID, progress float64, value Value)
}

// StderrSink is a DebugSink that logs one line per observation.
type StderrSink struct{}

func (StderrSink) Observe(id BindingID, progress float64, value Value) {
	_, _ = fmt.Fprintf(os.Stderr, "[motive] binding %d progress=%.3f value=%v\n", id, progress, value)
}

// debugStats holds per-tick counters, logged when debug mode is on.
type debugStats struct {
	advanced  int
	completed int
	elapsed   time.Duration
}

func (s *Scheduler) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[motive] tick: advanced %d | completed %d | active %d | %v\n",
		stats.advanced, stats.completed, s.ActiveCount(), stats.elapsed)
}

// debugCheckDoneAdvance panics when a finished evaluator is advanced again.
// In release mode the caller treats it as a no-op instead.
func debugCheckDoneAdvance() {
	if globalDebug {
		panic("motive debug: advancing a completed animation")
	}
}

// debugCheckAcyclic panics if the snapshot graph references a node twice,
// either as a cycle or as a diamond. The engine assumes a tree.
const debugMaxTreeDepth = 64

func debugCheckAcyclic(root *Node) {
	seen := make(map[*Node]bool)
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if seen[n] {
			panic(fmt.Sprintf("motive debug: node %q appears twice in one snapshot", n.Type))
		}
		seen[n] = true
		if depth > debugMaxTreeDepth {
			_, _ = fmt.Fprintf(os.Stderr, "[motive] warning: tree depth %d exceeds %d (node %q)\n",
				depth, debugMaxTreeDepth, n.Type)
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(root, 1)
}
