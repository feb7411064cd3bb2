package motive

import (
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
)

// Value is anything the engine can interpolate. A type decomposes into an
// ordered sequence of scalars and reconstructs from one; no inheritance or
// registration is required. Composite values are combined pairwise so all
// components share a single progress curve and complete together.
type Value interface {
	Components() []float64
	Reconstruct(components []float64) Value
}

// Float is a scalar value (opacity, rotation, a bare number).
type Float float64

func (f Float) Components() []float64 { return []float64{float64(f)} }

func (f Float) Reconstruct(c []float64) Value {
	if len(c) != 1 {
		return nil
	}
	return Float(c[0])
}

// Vec2 is a 2D vector used for positions, offsets, and per-axis scale.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Components() []float64 { return []float64{v.X, v.Y} }

func (v Vec2) Reconstruct(c []float64) Value {
	if len(c) != 2 {
		return nil
	}
	return Vec2{X: c[0], Y: c[1]}
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

func (s Size) Components() []float64 { return []float64{s.Width, s.Height} }

func (s Size) Reconstruct(c []float64) Value {
	if len(c) != 2 {
		return nil
	}
	return Size{Width: c[0], Height: c[1]}
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorHex parses a "#rrggbb" hex string into an opaque Color.
func ColorHex(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, err
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// Hex returns the color as a "#rrggbb" string. Alpha is dropped.
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Hex()
}

// BlendHCL blends toward other in HCL space, which stays perceptually uniform
// where straight RGB interpolation drifts through gray. Alpha blends linearly.
// t is in [0, 1].
func (c Color) BlendHCL(other Color, t float64) Color {
	blended := colorful.Color{R: c.R, G: c.G, B: c.B}.
		BlendHcl(colorful.Color{R: other.R, G: other.G, B: other.B}, t).Clamped()
	return Color{
		R: blended.R,
		G: blended.G,
		B: blended.B,
		A: c.A + (other.A-c.A)*t,
	}
}

func (c Color) Components() []float64 { return []float64{c.R, c.G, c.B, c.A} }

func (c Color) Reconstruct(comps []float64) Value {
	if len(comps) != 4 {
		return nil
	}
	return Color{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}
}

// Lerp interpolates between a and b at progress t, pairwise per component.
// t outside [0, 1] extrapolates, which overshooting ease functions rely on.
//
// If the two values do not decompose compatibly (differing component counts,
// or Reconstruct rejects the result), Lerp falls back to identity
// interpolation — a at t < 1, b at t >= 1 — and emits a one-line diagnostic.
// The abrupt jump is a discoverable integration bug, not a fatal condition.
func Lerp(a, b Value, t float64) Value {
	ca, cb := a.Components(), b.Components()
	if len(ca) == 0 || len(ca) != len(cb) {
		warnMissingMapping(a, b)
		return identityLerp(a, b, t)
	}
	out := make([]float64, len(ca))
	for i := range ca {
		out[i] = ca[i] + (cb[i]-ca[i])*t
	}
	v := a.Reconstruct(out)
	if v == nil {
		warnMissingMapping(a, b)
		return identityLerp(a, b, t)
	}
	return v
}

func identityLerp(a, b Value, t float64) Value {
	if t >= 1 {
		return b
	}
	return a
}

func warnMissingMapping(a, b Value) {
	_, _ = fmt.Fprintf(os.Stderr,
		"[motive] warning: no interpolation mapping between %T and %T; values will jump\n", a, b)
}

// valuesEqual reports exact component equality. Equal values never produce a
// binding, so unchanged properties cost nothing per frame.
func valuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return compsEqual(a.Components(), b.Components())
}

func compsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
