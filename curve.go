package motive

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Curve describes how a value travels from its start to its target. The two
// families are parametric eases ([EaseCurve]) and springs ([SpringCurve]).
// A Curve is a reusable descriptor; each running animation gets its own
// evaluator state.
type Curve interface {
	// newAnimator creates evaluator state for one animation over the given
	// start/target component vectors. v0 is the initial velocity in
	// units/second, captured from a superseded animation (springs use it,
	// parametric curves ignore it).
	newAnimator(from, to, v0 []float64) animator
}

// animator is the per-instance evaluator behind one scheduled animation.
type animator interface {
	// advance moves the evaluator by dt seconds and returns the new component
	// vector, eased progress in [0, 1], and completion. The returned slice is
	// owned by the animator and valid until the next advance.
	advance(dt float64) (comps []float64, progress float64, done bool)
	// velocity returns the current per-component velocity in units/second,
	// for continuity handoff when the animation is superseded.
	velocity() []float64
}

// EaseCurve is a parametric curve: a duration shaped by a gween easing
// function, with an optional speed multiplier. The zero Func means linear.
type EaseCurve struct {
	Duration float64
	Func     ease.TweenFunc
	Speed    float64 // playback rate multiplier; 0 means 1
}

// Ease creates a parametric curve of the given duration and easing function.
// A negative duration is a configuration error. A zero duration is legal and
// completes on the curve's first tick.
func Ease(duration float64, fn ease.TweenFunc) (*EaseCurve, error) {
	if duration < 0 {
		return nil, &ConfigurationError{Field: "duration", Value: duration, Reason: "must not be negative"}
	}
	if fn == nil {
		fn = ease.Linear
	}
	return &EaseCurve{Duration: duration, Func: fn, Speed: 1}, nil
}

// Linear creates a constant-rate curve of the given duration.
func Linear(duration float64) (*EaseCurve, error) {
	return Ease(duration, ease.Linear)
}

// WithSpeed returns a copy of the curve playing at the given rate multiplier.
func (c *EaseCurve) WithSpeed(speed float64) (*EaseCurve, error) {
	if speed <= 0 {
		return nil, &ConfigurationError{Field: "speed", Value: speed, Reason: "must be positive"}
	}
	out := *c
	out.Speed = speed
	return &out, nil
}

// Must unwraps a (Curve, error) pair, panicking on error. For statically
// known-good curves in initializers and examples.
func Must[C Curve](c C, err error) C {
	if err != nil {
		panic(err)
	}
	return c
}

func (c *EaseCurve) newAnimator(from, to, _ []float64) animator {
	d := c.Duration
	if c.Speed > 0 {
		d /= c.Speed
	}
	fn := c.Func
	if fn == nil {
		fn = ease.Linear
	}
	a := &easeAnimator{
		from:  append([]float64(nil), from...),
		to:    append([]float64(nil), to...),
		comps: append([]float64(nil), from...),
		vel:   make([]float64, len(from)),
	}
	if d <= 0 {
		a.instant = true
	} else {
		a.tw = gween.New(0, 1, float32(d), fn)
	}
	return a
}

// easeAnimator drives a normalized 0→1 gween tween and maps the eased
// progress over the component vector. Velocity is estimated by finite
// difference so a spring can take over seamlessly on interruption.
type easeAnimator struct {
	tw       *gween.Tween
	from, to []float64
	comps    []float64
	vel      []float64
	instant  bool
	done     bool
}

func (a *easeAnimator) advance(dt float64) ([]float64, float64, bool) {
	if a.done {
		debugCheckDoneAdvance()
		copy(a.comps, a.to)
		return a.comps, 1, true
	}
	var p float64
	var finished bool
	if a.instant {
		p, finished = 1, true
	} else {
		p32, fin := a.tw.Update(float32(dt))
		p, finished = float64(p32), fin
	}
	for i := range a.comps {
		next := a.from[i] + (a.to[i]-a.from[i])*p
		if dt > 0 {
			a.vel[i] = (next - a.comps[i]) / dt
		}
		a.comps[i] = next
	}
	if finished {
		// Land exactly on the target; float32 progress may carry noise.
		copy(a.comps, a.to)
		for i := range a.vel {
			a.vel[i] = 0
		}
		p = 1
		a.done = true
	}
	return a.comps, p, finished
}

func (a *easeAnimator) velocity() []float64 { return a.vel }

// Bezier builds a cubic-bezier easing function from the two control points
// of the CSS timing-function form: P0=(0,0), P3=(1,1), with P1=(x1,y1) and
// P2=(x2,y2). The x coordinates must lie in [0, 1] so time stays monotonic.
// The result is an ordinary gween ease.TweenFunc and composes with any
// EaseCurve or keyframe segment.
func Bezier(x1, y1, x2, y2 float64) (ease.TweenFunc, error) {
	if x1 < 0 || x1 > 1 {
		return nil, &ConfigurationError{Field: "x1", Value: x1, Reason: "control x must be in [0, 1]"}
	}
	if x2 < 0 || x2 > 1 {
		return nil, &ConfigurationError{Field: "x2", Value: x2, Reason: "control x must be in [0, 1]"}
	}
	return func(t, b, c, d float32) float32 {
		p := float64(t) / float64(d)
		if p <= 0 {
			return b
		}
		if p >= 1 {
			return b + c
		}
		s := bezierSolve(p, x1, x2)
		y := bezierAt(s, y1, y2)
		return b + c*float32(y)
	}, nil
}

// bezierAt evaluates the 1D cubic bezier with inner control values c1, c2 at
// parameter s (endpoints fixed at 0 and 1).
func bezierAt(s, c1, c2 float64) float64 {
	inv := 1 - s
	return 3*inv*inv*s*c1 + 3*inv*s*s*c2 + s*s*s
}

func bezierDeriv(s, c1, c2 float64) float64 {
	inv := 1 - s
	return 3*inv*inv*c1 + 6*inv*s*(c2-c1) + 3*s*s*(1-c2)
}

// bezierSolve finds s with bezierAt(s, x1, x2) == x via Newton iteration,
// falling back to bisection when the derivative collapses.
func bezierSolve(x, x1, x2 float64) float64 {
	s := x
	for i := 0; i < 8; i++ {
		err := bezierAt(s, x1, x2) - x
		if math.Abs(err) < 1e-7 {
			return s
		}
		d := bezierDeriv(s, x1, x2)
		if math.Abs(d) < 1e-6 {
			break
		}
		s -= err / d
	}
	lo, hi := 0.0, 1.0
	s = x
	for i := 0; i < 32; i++ {
		if bezierAt(s, x1, x2) < x {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) / 2
	}
	return s
}
