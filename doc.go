// Package motive is a declarative, state-driven animation engine.
//
// Motive does not render anything. It takes immutable snapshots of a view
// tree, diffs consecutive snapshots, and produces smoothly interpolated
// per-frame values for every visual property that changed — without the
// caller managing per-frame timers. Layout, styling, input, and compositor
// submission are the host application's problem.
//
// # Quick start
//
// Build a snapshot, apply it through a [Scheduler], and tick the scheduler
// from whatever frame clock you have (display link, fixed-step loop, or a
// synthetic test clock):
//
//	sched := motive.NewScheduler()
//
//	box := motive.NewNode("box")
//	box.SetProp(motive.PropOpacity, motive.Float(1))
//	sched.Apply(nil, motive.NewSnapshot(box))
//
//	// State changed: opacity 1 → 0 over 0.3s.
//	box2 := motive.NewNode("box")
//	box2.SetProp(motive.PropOpacity, motive.Float(0))
//	tx := &motive.Transaction{Curve: motive.Must(motive.Ease(0.3, ease.OutQuad))}
//	sched.Apply(tx, motive.NewSnapshot(box2))
//
//	sched.Tick(1.0 / 60)
//	v, _ := sched.ValueOf("box", motive.PropOpacity)
//
// # Values
//
// Anything implementing [Value] is animatable: it decomposes into an ordered
// sequence of scalars and reconstructs from one. Composite values interpolate
// all components under a single progress curve, so correlated properties
// reach completion together. [Float], [Vec2], [Size], and [Color] are built
// in.
//
// # Curves
//
// Parametric curves ([EaseCurve]) run a [gween] tween over normalized
// progress and accept any gween easing function, including the cubic-bezier
// adapter [Bezier]. [SpringCurve] integrates a mass-spring-damper model and
// keeps its velocity across interruption, so retargeting a moving value never
// produces a visible jump.
//
// # Transitions and choreography
//
// Nodes inserted or removed between snapshots animate through their
// [Transition] (fade, offset, scale, or any combination); removed nodes stay
// alive until their exit animation finishes. [KeyframeTrack] sequences
// multi-step waypoints on one property, and [PhaseSequence] steps through
// discrete phases on an external trigger.
//
// [gween]: https://github.com/tanema/gween
package motive
