package motive

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Keyframe is one waypoint of a track: the value to reach, how long the
// segment takes, and the easing shaping that segment. A nil Func is linear.
type Keyframe struct {
	Value    Value
	Duration float64
	Func     ease.TweenFunc
}

// KeyframeTrack is an ordered list of waypoints bound to one property.
// Independent tracks are independently timed, so several may run
// concurrently and deliberately desynchronize for multi-property
// choreography. Start a track with [Scheduler.StartTrack].
type KeyframeTrack struct {
	Prop   PropertyID
	Frames []Keyframe

	// OnSegment, if set, fires after the indexed segment completes. Like
	// all completion callbacks it runs only after every animation advanced
	// for the tick.
	OnSegment func(index int)
}

func (t *KeyframeTrack) validate() error {
	if len(t.Frames) == 0 {
		return &ConfigurationError{Field: "frames", Value: 0, Reason: "track needs at least one keyframe"}
	}
	for _, f := range t.Frames {
		if f.Duration < 0 {
			return &ConfigurationError{Field: "duration", Value: f.Duration, Reason: "must not be negative"}
		}
	}
	return nil
}

// newAnimator builds the track runtime: one gween tween per (segment,
// component), chained with overflow carry so a large tick delta crosses
// segment boundaries without losing time.
func (t *KeyframeTrack) newAnimator(from []float64) (*trackAnimator, error) {
	a := &trackAnimator{
		comps: append([]float64(nil), from...),
		vel:   make([]float64, len(from)),
		prev:  make([]float64, len(from)),
	}
	cur := from
	for i, f := range t.Frames {
		target := f.Value.Components()
		if len(target) != len(cur) {
			return nil, &ConfigurationError{
				Field: "frames", Value: float64(i),
				Reason: "keyframe value has a different component count than the track start",
			}
		}
		fn := f.Func
		if fn == nil {
			fn = ease.Linear
		}
		var tweens []*gween.Tween
		if f.Duration > 0 {
			tweens = make([]*gween.Tween, len(cur))
			for c := range cur {
				tweens[c] = gween.New(float32(cur[c]), float32(target[c]), float32(f.Duration), fn)
			}
		}
		a.segs = append(a.segs, tweens)
		a.targets = append(a.targets, append([]float64(nil), target...))
		a.total += f.Duration
		cur = target
	}
	return a, nil
}

// trackAnimator advances segment tweens in order. All components of a
// segment share one duration and easing, so component 0 decides segment
// completion and its tween's overflow carries into the next segment.
type trackAnimator struct {
	segs    [][]*gween.Tween
	targets [][]float64
	seg     int
	total   float64
	elapsed float64

	comps []float64
	vel   []float64
	prev  []float64

	finishedSegs []int // segments completed during the last advance
	done         bool
}

func (a *trackAnimator) advance(dt float64) ([]float64, float64, bool) {
	a.finishedSegs = a.finishedSegs[:0]
	if a.done {
		debugCheckDoneAdvance()
		return a.comps, 1, true
	}
	copy(a.prev, a.comps)
	remaining := dt
	for a.seg < len(a.segs) {
		tweens := a.segs[a.seg]
		if tweens == nil {
			// Zero-duration segment: snap through it, consume no time.
			copy(a.comps, a.targets[a.seg])
			a.finishedSegs = append(a.finishedSegs, a.seg)
			a.seg++
			continue
		}
		finished := false
		for c, tw := range tweens {
			v, fin := tw.Update(float32(remaining))
			a.comps[c] = float64(v)
			if c == 0 {
				finished = fin
			}
		}
		if !finished {
			break
		}
		copy(a.comps, a.targets[a.seg])
		remaining = float64(tweens[0].Overflow)
		a.finishedSegs = append(a.finishedSegs, a.seg)
		a.seg++
	}
	a.elapsed += dt
	if a.seg >= len(a.segs) {
		a.done = true
		copy(a.comps, a.targets[len(a.targets)-1])
		for i := range a.vel {
			a.vel[i] = 0
		}
		return a.comps, 1, true
	}
	if dt > 0 {
		for i := range a.vel {
			a.vel[i] = (a.comps[i] - a.prev[i]) / dt
		}
	}
	progress := 1.0
	if a.total > 0 {
		progress = a.elapsed / a.total
		if progress > 1 {
			progress = 1
		}
	}
	return a.comps, progress, false
}

func (a *trackAnimator) velocity() []float64 { return a.vel }

// PhaseSequence steps one property through a list of discrete phases. An
// external trigger ([Scheduler.AdvancePhase]) moves to the next phase,
// wrapping at the end; the rendered value is the projection of the current
// phase, animated under that phase's curve.
type PhaseSequence struct {
	Prop   PropertyID
	Phases []Value

	// Curves holds one curve per phase transition: Curves[i] shapes the move
	// into phase i. Nil, or a nil entry, falls back to the transaction curve.
	Curves []Curve

	index int
}

// NewPhaseSequence creates a sequence starting at phase 0.
func NewPhaseSequence(prop PropertyID, phases ...Value) *PhaseSequence {
	if len(phases) == 0 {
		panic("motive: phase sequence needs at least one phase")
	}
	return &PhaseSequence{Prop: prop, Phases: phases}
}

// Phase returns the current phase index.
func (p *PhaseSequence) Phase() int { return p.index }

// Current returns the projection of the current phase.
func (p *PhaseSequence) Current() Value { return p.Phases[p.index] }

// next advances the trigger and returns the new target and its curve.
func (p *PhaseSequence) next() (Value, Curve) {
	p.index = (p.index + 1) % len(p.Phases)
	var curve Curve
	if p.index < len(p.Curves) {
		curve = p.Curves[p.index]
	}
	return p.Phases[p.index], curve
}
