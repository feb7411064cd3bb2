package motive

import (
	"errors"
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func trackScheduler(t *testing.T, op float64) *Scheduler {
	t.Helper()
	s := NewScheduler()
	n := NewNode("box")
	n.SetProp(PropOpacity, Float(op))
	if err := s.Apply(nil, NewSnapshot(n)); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestTrackVisitsWaypointsInOrder(t *testing.T) {
	s := trackScheduler(t, 0)
	track := &KeyframeTrack{
		Prop: PropOpacity,
		Frames: []Keyframe{
			{Value: Float(1), Duration: 0.2},
			{Value: Float(0.25), Duration: 0.2},
		},
	}
	id, err := s.StartTrack("box", track, nil)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("expected a live animation id")
	}

	s.Tick(0.1)
	v, _ := s.ValueOf("box", PropOpacity)
	if got := float64(v.(Float)); math.Abs(got-0.5) > 0.01 {
		t.Errorf("mid segment 0: %f, want ~0.5", got)
	}

	s.Tick(0.2) // crosses into segment 1
	v, _ = s.ValueOf("box", PropOpacity)
	if got := float64(v.(Float)); math.Abs(got-0.625) > 0.01 {
		t.Errorf("mid segment 1: %f, want ~0.625", got)
	}

	s.Tick(1.0)
	v, _ = s.ValueOf("box", PropOpacity)
	if got := float64(v.(Float)); got != 0.25 {
		t.Errorf("final waypoint: %f, want exactly 0.25", got)
	}
	if s.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d after track finished", s.ActiveCount())
	}
}

func TestTrackSegmentCallbacksInOrder(t *testing.T) {
	s := trackScheduler(t, 0)
	var fired []int
	track := &KeyframeTrack{
		Prop: PropOpacity,
		Frames: []Keyframe{
			{Value: Float(0.3), Duration: 0.1},
			{Value: Float(0.6), Duration: 0.1},
			{Value: Float(1), Duration: 0.1},
		},
		OnSegment: func(i int) { fired = append(fired, i) },
	}
	if _, err := s.StartTrack("box", track, nil); err != nil {
		t.Fatal(err)
	}

	// One large tick crosses the first two boundaries; both callbacks fire
	// this tick, in segment order.
	s.Tick(0.25)
	if len(fired) != 2 || fired[0] != 0 || fired[1] != 1 {
		t.Fatalf("fired = %v, want [0 1] from one tick", fired)
	}
	s.Tick(1.0)
	if len(fired) != 3 || fired[2] != 2 {
		t.Errorf("fired = %v, want trailing 2", fired)
	}
}

func TestTrackOverflowCarriesAcrossSegments(t *testing.T) {
	s := trackScheduler(t, 0)
	track := &KeyframeTrack{
		Prop: PropOpacity,
		Frames: []Keyframe{
			{Value: Float(0.5), Duration: 0.1},
			{Value: Float(1), Duration: 0.1},
		},
	}
	if _, err := s.StartTrack("box", track, nil); err != nil {
		t.Fatal(err)
	}
	// 0.15 spends 0.1 in segment 0 and 0.05 in segment 1; no time is lost at
	// the boundary.
	s.Tick(0.15)
	v, _ := s.ValueOf("box", PropOpacity)
	if got := float64(v.(Float)); math.Abs(got-0.75) > 0.01 {
		t.Errorf("after boundary crossing: %f, want ~0.75", got)
	}
}

func TestTrackZeroDurationSegmentSnaps(t *testing.T) {
	s := trackScheduler(t, 0)
	var fired []int
	track := &KeyframeTrack{
		Prop: PropOpacity,
		Frames: []Keyframe{
			{Value: Float(1), Duration: 0}, // hard cut
			{Value: Float(0.5), Duration: 0.1},
		},
		OnSegment: func(i int) { fired = append(fired, i) },
	}
	if _, err := s.StartTrack("box", track, nil); err != nil {
		t.Fatal(err)
	}
	s.Tick(0.05)
	v, _ := s.ValueOf("box", PropOpacity)
	if got := float64(v.(Float)); math.Abs(got-0.75) > 0.01 {
		t.Errorf("after hard cut plus half segment: %f, want ~0.75", got)
	}
	if len(fired) == 0 || fired[0] != 0 {
		t.Errorf("fired = %v, want the zero-duration segment reported first", fired)
	}
}

func TestTrackEasingPerSegment(t *testing.T) {
	s := trackScheduler(t, 0)
	track := &KeyframeTrack{
		Prop: PropOpacity,
		Frames: []Keyframe{
			{Value: Float(1), Duration: 0.2, Func: ease.InQuad},
		},
	}
	if _, err := s.StartTrack("box", track, nil); err != nil {
		t.Fatal(err)
	}
	s.Tick(0.1)
	v, _ := s.ValueOf("box", PropOpacity)
	// InQuad at the halfway point is 0.25, not 0.5.
	if got := float64(v.(Float)); math.Abs(got-0.25) > 0.01 {
		t.Errorf("eased segment: %f, want ~0.25", got)
	}
}

func TestTrackValidation(t *testing.T) {
	s := trackScheduler(t, 0)

	var cfg *ConfigurationError
	if _, err := s.StartTrack("box", &KeyframeTrack{Prop: PropOpacity}, nil); !errors.As(err, &cfg) {
		t.Errorf("empty track: got %v, want *ConfigurationError", err)
	}
	bad := &KeyframeTrack{Prop: PropOpacity, Frames: []Keyframe{{Value: Float(1), Duration: -1}}}
	if _, err := s.StartTrack("box", bad, nil); !errors.As(err, &cfg) {
		t.Errorf("negative duration: got %v, want *ConfigurationError", err)
	}
	mismatched := &KeyframeTrack{Prop: PropOpacity, Frames: []Keyframe{{Value: Vec2{X: 1}, Duration: 0.1}}}
	if _, err := s.StartTrack("box", mismatched, nil); !errors.As(err, &cfg) {
		t.Errorf("component mismatch: got %v, want *ConfigurationError", err)
	}
	good := &KeyframeTrack{Prop: PropOpacity, Frames: []Keyframe{{Value: Float(1), Duration: 0.1}}}
	if _, err := s.StartTrack("missing", good, nil); err == nil {
		t.Error("unknown path should fail")
	}
}

func TestTrackDisabledTransactionSnapsToFinalWaypoint(t *testing.T) {
	s := trackScheduler(t, 0)
	track := &KeyframeTrack{
		Prop: PropOpacity,
		Frames: []Keyframe{
			{Value: Float(0.5), Duration: 0.1},
			{Value: Float(0.9), Duration: 0.1},
		},
	}
	id, err := s.StartTrack("box", track, &Transaction{Disabled: true})
	if err != nil {
		t.Fatal(err)
	}
	if id != 0 {
		t.Errorf("disabled start returned animation id %d, want 0", id)
	}
	v, _ := s.ValueOf("box", PropOpacity)
	if v.(Float) != 0.9 {
		t.Errorf("value = %v, want final waypoint 0.9", v)
	}
	if s.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d, want 0", s.ActiveCount())
	}
}

func TestTrackProgressReporting(t *testing.T) {
	s := trackScheduler(t, 0)
	track := &KeyframeTrack{
		Prop: PropOpacity,
		Frames: []Keyframe{
			{Value: Float(0.5), Duration: 0.25},
			{Value: Float(1), Duration: 0.25},
		},
	}
	id, err := s.StartTrack("box", track, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Tick(0.25)
	a := s.Animation(id)
	if a == nil {
		t.Fatal("animation dropped while running")
	}
	if p := a.Progress(); math.Abs(p-0.5) > 0.01 {
		t.Errorf("progress = %f, want ~0.5 of total track time", p)
	}
}

func TestTrackSupersedesBindingAnimation(t *testing.T) {
	s := trackScheduler(t, 0)
	// A long binding animation toward 1.
	n := NewNode("box")
	n.SetProp(PropOpacity, Float(1))
	if err := s.Apply(&Transaction{Curve: Must(Linear(10))}, NewSnapshot(n)); err != nil {
		t.Fatal(err)
	}
	s.Tick(1.0)

	track := &KeyframeTrack{
		Prop:   PropOpacity,
		Frames: []Keyframe{{Value: Float(0), Duration: 0.1}},
	}
	if _, err := s.StartTrack("box", track, nil); err != nil {
		t.Fatal(err)
	}
	if s.ActiveCount() != 1 {
		t.Errorf("ActiveCount = %d, want the track alone", s.ActiveCount())
	}
	s.Tick(1.0)
	v, _ := s.ValueOf("box", PropOpacity)
	if v.(Float) != 0 {
		t.Errorf("value = %v, want 0", v)
	}
}

func TestPhaseSequenceAdvancesAndWraps(t *testing.T) {
	s := trackScheduler(t, 0)
	seq := NewPhaseSequence(PropOpacity, Float(0), Float(0.5), Float(1))
	if seq.Phase() != 0 || seq.Current() != Float(0) {
		t.Fatalf("initial phase = %d %v", seq.Phase(), seq.Current())
	}

	// No curve anywhere: each trigger snaps to the next projection.
	for _, want := range []Float{0.5, 1, 0} {
		if err := s.AdvancePhase("box", seq, nil); err != nil {
			t.Fatal(err)
		}
		v, _ := s.ValueOf("box", PropOpacity)
		if v.(Float) != want {
			t.Errorf("phase %d projection = %v, want %v", seq.Phase(), v, want)
		}
	}
	if seq.Phase() != 0 {
		t.Errorf("phase = %d after wrap, want 0", seq.Phase())
	}
}

func TestPhaseSequenceAnimatesUnderTransactionCurve(t *testing.T) {
	s := trackScheduler(t, 0)
	seq := NewPhaseSequence(PropOpacity, Float(0), Float(1))
	tx := &Transaction{Curve: Must(Linear(0.2))}
	if err := s.AdvancePhase("box", seq, tx); err != nil {
		t.Fatal(err)
	}
	if s.ActiveCount() != 1 {
		t.Fatalf("ActiveCount = %d, want 1", s.ActiveCount())
	}
	s.Tick(0.1)
	v, _ := s.ValueOf("box", PropOpacity)
	if got := float64(v.(Float)); math.Abs(got-0.5) > 0.01 {
		t.Errorf("mid phase move: %f, want ~0.5", got)
	}
}

func TestPhaseSequencePerPhaseCurveWins(t *testing.T) {
	s := trackScheduler(t, 0)
	seq := &PhaseSequence{
		Prop:   PropOpacity,
		Phases: []Value{Float(0), Float(1)},
		Curves: []Curve{nil, Must(Linear(0.1))},
	}
	tx := &Transaction{Curve: Must(Linear(100))}
	if err := s.AdvancePhase("box", seq, tx); err != nil {
		t.Fatal(err)
	}
	s.Tick(0.05)
	s.Tick(0.05)
	if s.ActiveCount() != 0 {
		t.Error("per-phase 0.1s curve should have finished, not the 100s transaction curve")
	}
	v, _ := s.ValueOf("box", PropOpacity)
	if v.(Float) != 1 {
		t.Errorf("value = %v, want 1", v)
	}
}

func TestPhaseSequenceRequiresPhases(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewPhaseSequence(PropOpacity)
}
