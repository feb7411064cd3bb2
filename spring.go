package motive

import "math"

// settleEpsilon is the spring completion threshold, applied to both position
// displacement and velocity on every component. 1e-3 is well below one
// layout unit or color step at typical value scales, and large enough that
// critically and over-damped springs settle in finite time.
const settleEpsilon = 1e-3

// SpringCurve is a mass-spring-damper model. Unlike parametric curves it has
// no fixed duration: it integrates toward the target each tick and completes
// when position and velocity settle within epsilon. Velocity carries across
// interruption, so retargeting a moving spring stays continuous.
type SpringCurve struct {
	Stiffness float64
	Damping   float64
	Mass      float64
}

// Spring creates a spring from the designer-facing parameterization:
// response is the approximate settling period in seconds, dampingFraction
// the fraction of critical damping (1 settles without overshoot, < 1
// bounces, > 1 is sluggish).
func Spring(response, dampingFraction float64) (*SpringCurve, error) {
	if response <= 0 {
		return nil, &ConfigurationError{Field: "response", Value: response, Reason: "must be positive"}
	}
	if dampingFraction < 0 {
		return nil, &ConfigurationError{Field: "dampingFraction", Value: dampingFraction, Reason: "must not be negative"}
	}
	omega := 2 * math.Pi / response
	stiffness := omega * omega
	return &SpringCurve{
		Stiffness: stiffness,
		Damping:   dampingFraction * 2 * math.Sqrt(stiffness),
		Mass:      1,
	}, nil
}

// SpringPhysics creates a spring from raw physical parameters.
func SpringPhysics(stiffness, damping, mass float64) (*SpringCurve, error) {
	if stiffness <= 0 {
		return nil, &ConfigurationError{Field: "stiffness", Value: stiffness, Reason: "must be positive"}
	}
	if damping < 0 {
		return nil, &ConfigurationError{Field: "damping", Value: damping, Reason: "must not be negative"}
	}
	if mass <= 0 {
		return nil, &ConfigurationError{Field: "mass", Value: mass, Reason: "must be positive"}
	}
	return &SpringCurve{Stiffness: stiffness, Damping: damping, Mass: mass}, nil
}

func (c *SpringCurve) newAnimator(from, to, v0 []float64) animator {
	a := &springAnimator{
		curve: *c,
		pos:   append([]float64(nil), from...),
		to:    append([]float64(nil), to...),
		vel:   make([]float64, len(from)),
		span:  make([]float64, len(from)),
	}
	if len(v0) == len(from) {
		copy(a.vel, v0)
	}
	for i := range from {
		a.span[i] = math.Abs(to[i] - from[i])
	}
	return a
}

// springAnimator advances every component by one semi-implicit Euler step per
// tick: acceleration from the current state, velocity first, then position.
type springAnimator struct {
	curve SpringCurve
	pos   []float64
	vel   []float64
	to    []float64
	span  []float64 // initial |to-from| per component, for progress reporting
	done  bool
}

func (a *springAnimator) advance(dt float64) ([]float64, float64, bool) {
	if a.done {
		debugCheckDoneAdvance()
		copy(a.pos, a.to)
		return a.pos, 1, true
	}
	settled := true
	worst := 0.0 // largest remaining displacement relative to initial span
	for i := range a.pos {
		accel := (-a.curve.Stiffness*(a.pos[i]-a.to[i]) - a.curve.Damping*a.vel[i]) / a.curve.Mass
		a.vel[i] += accel * dt
		a.pos[i] += a.vel[i] * dt

		disp := math.Abs(a.pos[i] - a.to[i])
		if disp > settleEpsilon || math.Abs(a.vel[i]) > settleEpsilon {
			settled = false
		}
		if a.span[i] > 0 {
			if r := disp / a.span[i]; r > worst {
				worst = r
			}
		}
	}
	if settled {
		copy(a.pos, a.to)
		for i := range a.vel {
			a.vel[i] = 0
		}
		a.done = true
		return a.pos, 1, true
	}
	progress := 1 - worst
	if progress < 0 {
		progress = 0
	}
	return a.pos, progress, false
}

func (a *springAnimator) velocity() []float64 { return a.vel }
