package motive

import (
	"errors"
	"math"
	"testing"
)

func TestSpringCriticallyDampedConvergesMonotonically(t *testing.T) {
	c := Must(Spring(0.5, 1.0))
	a := c.newAnimator([]float64{0}, []float64{1}, nil)

	prev := 0.0
	done := false
	ticks := 0
	for !done {
		var comps []float64
		comps, _, done = a.advance(1.0 / 240)
		if comps[0] < prev-1e-9 {
			t.Fatalf("regressed from %f to %f", prev, comps[0])
		}
		if comps[0] > 1+1e-6 {
			t.Fatalf("critically damped spring overshot: %f", comps[0])
		}
		prev = comps[0]
		ticks++
		if ticks > 240*20 {
			t.Fatal("spring never settled")
		}
	}
	if prev != 1 {
		t.Errorf("settled value = %f, want exactly 1", prev)
	}
	for _, v := range a.velocity() {
		if v != 0 {
			t.Errorf("settled velocity = %f, want 0", v)
		}
	}
}

func TestSpringSettlesWithinEpsilon(t *testing.T) {
	c := Must(Spring(0.3, 0.7))
	a := c.newAnimator([]float64{0}, []float64{1}, nil)
	done := false
	var comps []float64
	for i := 0; i < 240*20 && !done; i++ {
		comps, _, done = a.advance(1.0 / 240)
	}
	if !done {
		t.Fatal("underdamped spring never settled")
	}
	if comps[0] != 1 {
		t.Errorf("completion snaps to the target; got %f", comps[0])
	}
}

func TestSpringUnderdampedOvershoots(t *testing.T) {
	// Low damping fraction must pass the target at least once; overshoot is
	// the point of a bouncy spring.
	c := Must(Spring(0.4, 0.2))
	a := c.newAnimator([]float64{0}, []float64{1}, nil)
	overshot := false
	done := false
	for i := 0; i < 240*30 && !done; i++ {
		var comps []float64
		comps, _, done = a.advance(1.0 / 240)
		if comps[0] > 1+settleEpsilon {
			overshot = true
		}
	}
	if !overshot {
		t.Error("dampingFraction 0.2 should overshoot the target")
	}
}

func TestSpringInitialVelocityCarries(t *testing.T) {
	c := Must(Spring(0.5, 1.0))
	still := c.newAnimator([]float64{0}, []float64{1}, nil)
	moving := c.newAnimator([]float64{0}, []float64{1}, []float64{5})

	s1, _, _ := still.advance(1.0 / 60)
	s2, _, _ := moving.advance(1.0 / 60)
	if s2[0] <= s1[0] {
		t.Errorf("initial velocity should lead: %f vs %f", s2[0], s1[0])
	}
}

func TestSpringCompositeComponentsSettleTogether(t *testing.T) {
	c := Must(Spring(0.4, 1.0))
	a := c.newAnimator([]float64{0, 100}, []float64{10, 200}, nil)
	done := false
	var comps []float64
	for i := 0; i < 240*20 && !done; i++ {
		comps, _, done = a.advance(1.0 / 240)
	}
	if !done {
		t.Fatal("never settled")
	}
	if comps[0] != 10 || comps[1] != 200 {
		t.Errorf("settled = %v, want [10 200]", comps)
	}
}

func TestSpringProgressReporting(t *testing.T) {
	c := Must(Spring(0.5, 1.0))
	a := c.newAnimator([]float64{0}, []float64{1}, nil)
	_, p1, _ := a.advance(0.05)
	_, p2, _ := a.advance(0.2)
	if p1 < 0 || p1 > 1 || p2 < 0 || p2 > 1 {
		t.Errorf("progress out of range: %f, %f", p1, p2)
	}
	if p2 <= p1 {
		t.Errorf("progress should grow as the spring approaches: %f then %f", p1, p2)
	}
}

func TestSpringParameterValidation(t *testing.T) {
	var cfg *ConfigurationError
	if _, err := Spring(0, 1); !errors.As(err, &cfg) {
		t.Errorf("zero response: got %v", err)
	}
	if _, err := Spring(0.5, -0.1); !errors.As(err, &cfg) {
		t.Errorf("negative damping fraction: got %v", err)
	}
	if _, err := SpringPhysics(-1, 1, 1); !errors.As(err, &cfg) {
		t.Errorf("negative stiffness: got %v", err)
	}
	if _, err := SpringPhysics(1, 1, 0); !errors.As(err, &cfg) {
		t.Errorf("zero mass: got %v", err)
	}
	if _, err := SpringPhysics(1, -1, 1); !errors.As(err, &cfg) {
		t.Errorf("negative damping: got %v", err)
	}
}

func TestSpringResponseParameterization(t *testing.T) {
	c := Must(Spring(0.5, 1.0))
	omega := 2 * math.Pi / 0.5
	if math.Abs(c.Stiffness-omega*omega) > 1e-9 {
		t.Errorf("stiffness = %f, want %f", c.Stiffness, omega*omega)
	}
	if math.Abs(c.Damping-2*omega) > 1e-9 {
		t.Errorf("critical damping = %f, want %f", c.Damping, 2*omega)
	}
}
