package motive

import (
	"errors"
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestEaseLinearScenario(t *testing.T) {
	// The canonical scenario: 100 → 200 under a 0.3s linear curve.
	c := Must(Linear(0.3))
	a := c.newAnimator([]float64{100}, []float64{200}, nil)

	// 0.15 doubles exactly in float32, so two halves land on the duration.
	comps, _, done := a.advance(0.15)
	if done {
		t.Fatal("should not be done at the midpoint")
	}
	if math.Abs(comps[0]-150) > 0.5 {
		t.Errorf("value at t=0.15 = %f, want ~150", comps[0])
	}

	comps, progress, done := a.advance(0.15)
	if !done {
		t.Fatal("should be done after the full duration")
	}
	if comps[0] != 200 {
		t.Errorf("value at completion = %f, want exactly 200", comps[0])
	}
	if progress != 1 {
		t.Errorf("progress at completion = %f, want 1", progress)
	}
}

func TestEaseCompletesExactlyOnTarget(t *testing.T) {
	c := Must(Ease(0.7, ease.InOutCubic))
	a := c.newAnimator([]float64{3, -2}, []float64{-1, 8}, nil)
	var comps []float64
	done := false
	for i := 0; i < 1000 && !done; i++ {
		comps, _, done = a.advance(1.0 / 60)
	}
	if !done {
		t.Fatal("never completed")
	}
	if comps[0] != -1 || comps[1] != 8 {
		t.Errorf("completion = %v, want exactly [-1 8]", comps)
	}
}

func TestEaseZeroDurationCompletesFirstTick(t *testing.T) {
	c := Must(Ease(0, ease.OutQuad))
	a := c.newAnimator([]float64{5}, []float64{9}, nil)
	comps, progress, done := a.advance(1.0 / 60)
	if !done || comps[0] != 9 || progress != 1 {
		t.Errorf("zero-duration advance = (%v, %f, %v), want ([9], 1, true)", comps, progress, done)
	}
}

func TestEaseNegativeDurationRejected(t *testing.T) {
	_, err := Ease(-0.1, ease.Linear)
	var cfg *ConfigurationError
	if !errors.As(err, &cfg) {
		t.Fatalf("expected *ConfigurationError, got %v", err)
	}
	if cfg.Field != "duration" {
		t.Errorf("Field = %q, want duration", cfg.Field)
	}
}

func TestEaseSpeedMultiplier(t *testing.T) {
	base := Must(Linear(1.0))
	fast, err := base.WithSpeed(2)
	if err != nil {
		t.Fatalf("WithSpeed: %v", err)
	}
	a := fast.newAnimator([]float64{0}, []float64{100}, nil)
	if _, _, done := a.advance(0.25); done {
		t.Fatal("done too early")
	}
	if _, _, done := a.advance(0.25); !done {
		t.Error("2x speed over 1s should finish in 0.5s")
	}
	if _, err := base.WithSpeed(0); err == nil {
		t.Error("expected error for non-positive speed")
	}
}

func TestEaseNeverOvershootsStandardFamilies(t *testing.T) {
	for name, fn := range map[string]ease.TweenFunc{
		"linear": ease.Linear, "inOutQuad": ease.InOutQuad, "outCubic": ease.OutCubic,
		"inOutSine": ease.InOutSine, "outBounce": ease.OutBounce,
	} {
		c := Must(Ease(0.4, fn))
		a := c.newAnimator([]float64{0}, []float64{1}, nil)
		done := false
		for !done {
			var comps []float64
			comps, _, done = a.advance(1.0 / 60)
			if comps[0] < -1e-6 || comps[0] > 1+1e-6 {
				t.Errorf("%s: value %f outside [0, 1]", name, comps[0])
				break
			}
		}
	}
}

func TestBezierEndpointsAndMonotonicity(t *testing.T) {
	fn, err := Bezier(0.25, 0.1, 0.25, 1.0)
	if err != nil {
		t.Fatalf("Bezier: %v", err)
	}
	if got := fn(0, 0, 1, 1); got != 0 {
		t.Errorf("t=0 = %f, want 0", got)
	}
	if got := fn(1, 0, 1, 1); got != 1 {
		t.Errorf("t=1 = %f, want 1", got)
	}
	prev := float32(0)
	for i := 1; i <= 100; i++ {
		v := fn(float32(i)/100, 0, 1, 1)
		if v < prev-1e-4 {
			t.Fatalf("non-monotonic at step %d: %f after %f", i, v, prev)
		}
		prev = v
	}
}

func TestBezierMatchesLinearDiagonal(t *testing.T) {
	// Control points on the diagonal reproduce the identity curve.
	fn, err := Bezier(0.5, 0.5, 0.5, 0.5)
	if err != nil {
		t.Fatalf("Bezier: %v", err)
	}
	for i := 0; i <= 10; i++ {
		p := float32(i) / 10
		if got := fn(p, 0, 1, 1); math.Abs(float64(got-p)) > 1e-3 {
			t.Errorf("diagonal bezier at %f = %f", p, got)
		}
	}
}

func TestBezierRejectsOutOfRangeControlX(t *testing.T) {
	if _, err := Bezier(-0.1, 0, 0.5, 1); err == nil {
		t.Error("expected error for x1 < 0")
	}
	if _, err := Bezier(0.5, 0, 1.5, 1); err == nil {
		t.Error("expected error for x2 > 1")
	}
}

func TestMustPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Must(Ease(-1, ease.Linear))
}
