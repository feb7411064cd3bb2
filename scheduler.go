package motive

import (
	"fmt"
	"strings"
	"time"
)

// ScheduledAnimation is one running instance of a curve applied to a
// binding, keyframe track, or transition leg.
type ScheduledAnimation struct {
	ID    AnimationID
	State LifecycleState

	binding *Binding
	anim    animator
	run     *txRun
	track   *KeyframeTrack // set for track animations, for OnSegment
	exit    string         // retained subtree root path for exit legs

	// OnDone fires exactly once when this instance completes. It never
	// fires for a superseded (Cancelled) instance.
	OnDone func()

	progress float64
}

// Progress returns the last reported eased progress in [0, 1].
func (a *ScheduledAnimation) Progress() float64 { return a.progress }

// Scheduler is the frame clock's consumer: it owns all bindings and active
// animations, applies state-change batches, advances everything per tick,
// and fires completions. It is single-threaded by design; Apply and Tick
// must run on the same goroutine and never concurrently.
type Scheduler struct {
	prev     *Snapshot
	bindings map[string]*Binding
	byID     map[BindingID]*Binding
	anims    []*ScheduledAnimation
	retained map[string]*retainedExit
	declared map[string]Value

	completions map[string]*completionState

	sink  DebugSink
	debug bool
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		bindings:    make(map[string]*Binding),
		byID:        make(map[BindingID]*Binding),
		retained:    make(map[string]*retainedExit),
		declared:    make(map[string]Value),
		completions: make(map[string]*completionState),
	}
}

// SetDebugMode enables or disables debug mode. When enabled, invariant
// violations panic instead of being ignored and per-tick stats are logged
// to stderr.
func (s *Scheduler) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// SetDebugSink installs an optional per-tick observer. The sink must not
// mutate engine state.
func (s *Scheduler) SetDebugSink(sink DebugSink) {
	s.sink = sink
}

// Apply diffs the new snapshot against the previous one under the given
// transaction and registers the resulting animations. Processing is
// synchronous: when Apply returns, every new animation's start state is in
// place for the next tick. A diff error (identity collision) leaves the
// scheduler untouched.
func (s *Scheduler) Apply(tx *Transaction, next *Snapshot) error {
	if next == nil {
		panic("motive: cannot apply nil snapshot")
	}
	cs, err := diff(s.prev, next)
	if err != nil {
		return err
	}

	run := s.beginRun(tx)

	for _, rm := range cs.removes {
		s.applyRemove(tx, run, rm)
	}
	for _, up := range cs.updates {
		s.applyUpdate(tx, run, up)
	}
	for _, ins := range cs.inserts {
		s.applyInsert(tx, run, ins)
	}

	s.prev = next
	s.rebuildDeclared(next)

	// Release the sentinel; a batch with no animations completes here.
	run.animationFinished()
	return nil
}

// beginRun resolves the transaction's completion registration at
// application time and opens the batch with a sentinel count.
func (s *Scheduler) beginRun(tx *Transaction) *txRun {
	run := &txRun{remaining: 1}
	if tx == nil || tx.Completion == nil {
		return run
	}
	run.completion = tx.Completion
	if tx.CompletionKey == "" {
		run.fire = true
		return run
	}
	st := s.completions[tx.CompletionKey]
	if st == nil {
		st = &completionState{}
		s.completions[tx.CompletionKey] = st
	}
	run.fire = st.shouldFire(tx.Watch)
	return run
}

// applyUpdate turns one change record into a binding animation, or a snap
// when the batch is not animated.
func (s *Scheduler) applyUpdate(tx *Transaction, run *txRun, up propChange) {
	key := bindingKey(up.path, up.id)
	b := s.ensureBinding(key, up.path, up.id, up.from)
	curve := tx.curveFor(up.node)
	if curve == nil {
		s.cancelActive(b)
		b.set(up.to)
		return
	}
	s.startAnimation(b, curve, up.to, up.to.Components(), run, nil, "")
}

// applyInsert registers declared values for an inserted subtree and starts
// enter legs for every node carrying a transition. A subtree reappearing
// while its exit legs run is revived in place, keeping value continuity —
// and every surviving binding the enter legs don't drive is brought back to
// its declared value, animated under the resolved curve or snapped when the
// batch cannot animate. Stale mid-exit values never outlive the revival.
func (s *Scheduler) applyInsert(tx *Transaction, run *txRun, ins subtreeRef) {
	revived := false
	if r, ok := s.retained[ins.path]; ok {
		s.cancelExitLegs(r)
		delete(s.retained, ins.path)
		revived = true
	}
	walkNodes(ins.node, ins.path, func(path string, n *Node) {
		curve := tx.curveFor(n)
		var entered map[PropertyID]bool
		if curve != nil && n.Transition != nil {
			for _, leg := range n.Transition.Enter {
				declaredV, ok := n.Prop(leg.ID)
				if !ok {
					continue
				}
				if entered == nil {
					entered = make(map[PropertyID]bool)
				}
				entered[leg.ID] = true
				key := bindingKey(path, leg.ID)
				_, existed := s.bindings[key]
				b := s.ensureBinding(key, path, leg.ID, declaredV)
				if !existed {
					// Render at the active phase until the first tick advances.
					// A revived binding instead continues from where its exit
					// leg left it.
					b.write(leg.activeComps(declaredV), nil)
				}
				s.startAnimation(b, curve, declaredV, declaredV.Components(), run, nil, "")
			}
		}
		if !revived {
			return
		}
		for _, p := range n.Props {
			if entered[p.ID] {
				continue
			}
			b, ok := s.bindings[bindingKey(path, p.ID)]
			if !ok {
				continue
			}
			if curve != nil {
				s.startAnimation(b, curve, p.Value, p.Value.Components(), run, nil, "")
				continue
			}
			s.cancelActive(b)
			b.set(p.Value)
		}
	})
}

// applyRemove retains the removed subtree while its exit legs animate, or
// purges it immediately when nothing can animate. Exit legs only run under
// the transaction-scope curve; a curve declared inside the removed subtree
// left the tree with it.
func (s *Scheduler) applyRemove(tx *Transaction, run *txRun, rm subtreeRef) {
	r := &retainedExit{path: rm.path, node: rm.node}
	curve := tx.exitCurve()

	walkNodes(rm.node, rm.path, func(path string, n *Node) {
		// Whatever was still animating on this subtree belongs to state
		// that no longer exists.
		for _, p := range n.Props {
			if b, ok := s.bindings[bindingKey(path, p.ID)]; ok {
				s.cancelActive(b)
			}
		}
		if curve == nil || n.Transition == nil || len(n.Transition.Exit) == 0 {
			return
		}
		for _, leg := range n.Transition.Exit {
			declaredV, ok := n.Prop(leg.ID)
			if !ok {
				continue
			}
			key := bindingKey(path, leg.ID)
			b := s.ensureBinding(key, path, leg.ID, declaredV)
			if s.startAnimation(b, curve, declaredV, leg.activeComps(declaredV), run, nil, rm.path) != nil {
				r.pending++
			}
		}
	})

	if r.pending == 0 {
		s.purge(rm.path)
		return
	}
	s.retained[rm.path] = r
}

// StartTrack runs a keyframe track on the given node path, starting from
// the property's current value. An existing animation on the same binding
// is superseded. With a nil or animated transaction the track runs; a
// disabled transaction snaps straight to the final waypoint.
func (s *Scheduler) StartTrack(path string, track *KeyframeTrack, tx *Transaction) (AnimationID, error) {
	if err := track.validate(); err != nil {
		return 0, err
	}
	key := bindingKey(path, track.Prop)
	b, ok := s.bindings[key]
	if !ok {
		declaredV, ok := s.declared[key]
		if !ok {
			return 0, fmt.Errorf("motive: no value at %s to start track from", key)
		}
		b = s.ensureBinding(key, path, track.Prop, declaredV)
	}

	run := s.beginRun(tx)
	defer run.animationFinished()

	if tx != nil && tx.Disabled {
		s.cancelActive(b)
		final := track.Frames[len(track.Frames)-1].Value
		b.set(final)
		return 0, nil
	}

	anim, err := track.newAnimator(b.comps)
	if err != nil {
		return 0, err
	}
	sa := s.register(b, anim, run, track, "")
	return sa.ID, nil
}

// AdvancePhase triggers the sequence's next phase and animates the bound
// property to that phase's projection under the phase's curve (falling back
// to the transaction curve).
func (s *Scheduler) AdvancePhase(path string, seq *PhaseSequence, tx *Transaction) error {
	target, curve := seq.next()
	key := bindingKey(path, seq.Prop)
	b, ok := s.bindings[key]
	if !ok {
		declaredV, ok := s.declared[key]
		if !ok {
			return fmt.Errorf("motive: no value at %s to animate a phase on", key)
		}
		b = s.ensureBinding(key, path, seq.Prop, declaredV)
	}
	if curve == nil && tx.animated() {
		curve = tx.Curve
	}

	run := s.beginRun(tx)
	defer run.animationFinished()

	if curve == nil || (tx != nil && tx.Disabled) {
		s.cancelActive(b)
		b.set(target)
		return nil
	}
	s.startAnimation(b, curve, target, target.Components(), run, nil, "")
	return nil
}

// startAnimation supersedes whatever drives the binding and starts a new
// animation from the binding's current value and velocity. Continuity is
// the invariant here: no discontinuous jump is ever observable, and the
// superseded instance's completion callback never fires.
//
// tv is the value the target components came from. When the binding's
// current decomposition and the target disagree in component count there is
// no pairwise mapping to interpolate over, so the value jumps straight to tv
// with one diagnostic instead of animating (or crashing mid-tick).
func (s *Scheduler) startAnimation(b *Binding, curve Curve, tv Value, target []float64, run *txRun, track *KeyframeTrack, exitPath string) *ScheduledAnimation {
	if len(target) != len(b.comps) {
		warnMissingMapping(b.value, tv)
		s.cancelActive(b)
		b.set(tv)
		return nil
	}
	from := append([]float64(nil), b.comps...)
	v0 := append([]float64(nil), b.vel...)
	if !b.Animating() && compsEqual(from, target) {
		// Already resting at the target; nothing to do.
		return nil
	}
	s.cancelActive(b)
	b.target = append(b.target[:0], target...)
	return s.register(b, curve.newAnimator(from, target, v0), run, track, exitPath)
}

func (s *Scheduler) register(b *Binding, anim animator, run *txRun, track *KeyframeTrack, exitPath string) *ScheduledAnimation {
	s.cancelActive(b)
	sa := &ScheduledAnimation{
		ID:      nextAnimationID(),
		State:   StatePending,
		binding: b,
		anim:    anim,
		run:     run,
		track:   track,
		exit:    exitPath,
	}
	run.remaining++
	b.active = sa
	s.anims = append(s.anims, sa)
	return sa
}

// cancelActive supersedes the binding's running animation. Immediate and
// synchronous; the cancelled instance's own callback never fires, but its
// batch still drains.
func (s *Scheduler) cancelActive(b *Binding) {
	a := b.active
	if a == nil {
		return
	}
	if a.State == StatePending || a.State == StateRunning {
		a.State = StateCancelled
		a.run.animationFinished()
	}
	b.active = nil
}

func (s *Scheduler) cancelExitLegs(r *retainedExit) {
	for _, a := range s.anims {
		if a.exit == r.path && (a.State == StatePending || a.State == StateRunning) {
			a.State = StateCancelled
			if a.binding != nil && a.binding.active == a {
				a.binding.active = nil
			}
			a.run.animationFinished()
		}
	}
}

// Tick advances every running animation by the tick's elapsed delta, then
// fires the tick's completion callbacks. All bindings are advanced with the
// same delta before any callback runs, so no callback ever observes a
// partially advanced sibling.
func (s *Scheduler) Tick(dt float64) {
	if dt < 0 {
		panic("motive: negative tick delta")
	}
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	var stats debugStats
	var completed []*ScheduledAnimation
	type segEvent struct {
		track *KeyframeTrack
		index int
	}
	var segEvents []segEvent

	for _, a := range s.anims {
		if a.State == StatePending {
			a.State = StateRunning
		}
		if a.State != StateRunning {
			// Cancelled entries linger until this tick's compact pass.
			continue
		}
		comps, progress, done := a.anim.advance(dt)
		a.progress = progress
		a.binding.write(comps, a.anim.velocity())
		if s.sink != nil {
			s.sink.Observe(a.binding.ID, progress, a.binding.value)
		}
		if ta, ok := a.anim.(*trackAnimator); ok && a.track != nil && a.track.OnSegment != nil {
			for _, idx := range ta.finishedSegs {
				segEvents = append(segEvents, segEvent{a.track, idx})
			}
		}
		stats.advanced++
		if done {
			a.State = StateCompleting
			completed = append(completed, a)
		}
	}

	for _, e := range segEvents {
		e.track.OnSegment(e.index)
	}
	for _, a := range completed {
		a.State = StateDone
		if a.binding.active == a {
			a.binding.active = nil
		}
		if a.OnDone != nil {
			a.OnDone()
		}
		if a.exit != "" {
			s.exitLegFinished(a.exit)
		}
		a.run.animationFinished()
		stats.completed++
	}

	s.compact()
	if s.debug {
		stats.elapsed = time.Since(t0)
		s.debugLog(stats)
	}
}

func (s *Scheduler) exitLegFinished(path string) {
	r, ok := s.retained[path]
	if !ok {
		return
	}
	r.pending--
	if r.pending > 0 {
		return
	}
	delete(s.retained, path)
	s.purge(path)
}

// purge drops every binding and declared value under a subtree path.
func (s *Scheduler) purge(path string) {
	prefix := path + "/"
	for key, b := range s.bindings {
		if b.Path == path || strings.HasPrefix(b.Path, prefix) {
			s.cancelActive(b)
			delete(s.bindings, key)
			delete(s.byID, b.ID)
		}
	}
	for key := range s.declared {
		p := key[:strings.LastIndexByte(key, '.')]
		if p == path || strings.HasPrefix(p, prefix) {
			delete(s.declared, key)
		}
	}
}

// compact drops finished entries, preserving registration order for the
// rest so ticks advance animations deterministically.
func (s *Scheduler) compact() {
	live := s.anims[:0]
	for _, a := range s.anims {
		switch a.State {
		case StatePending, StateRunning, StateCompleting:
			live = append(live, a)
		}
	}
	for i := len(live); i < len(s.anims); i++ {
		s.anims[i] = nil
	}
	s.anims = live
}

// ActiveCount returns the number of animations still advancing.
func (s *Scheduler) ActiveCount() int {
	n := 0
	for _, a := range s.anims {
		if a.State == StatePending || a.State == StateRunning {
			n++
		}
	}
	return n
}

// Animation returns the running animation with the given ID, or nil once it
// has finished and been dropped.
func (s *Scheduler) Animation(id AnimationID) *ScheduledAnimation {
	for _, a := range s.anims {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Current returns the interpolated value behind a binding ID. Render
// consumers poll this once per tick, after Tick returns.
func (s *Scheduler) Current(id BindingID) (Value, bool) {
	b, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return b.value, true
}

// Lookup resolves the binding ID for a node path and property, if a binding
// exists for it.
func (s *Scheduler) Lookup(path string, prop PropertyID) (BindingID, bool) {
	b, ok := s.bindings[bindingKey(path, prop)]
	if !ok {
		return 0, false
	}
	return b.ID, true
}

// ValueOf returns the current value at a node path and property: the live
// binding value while animating (including retained, exiting nodes), else
// the declared snapshot value.
func (s *Scheduler) ValueOf(path string, prop PropertyID) (Value, bool) {
	key := bindingKey(path, prop)
	if b, ok := s.bindings[key]; ok {
		return b.value, true
	}
	v, ok := s.declared[key]
	return v, ok
}

func (s *Scheduler) ensureBinding(key, path string, prop PropertyID, initial Value) *Binding {
	if b, ok := s.bindings[key]; ok {
		return b
	}
	b := newBinding(path, prop, initial)
	s.bindings[key] = b
	s.byID[b.ID] = b
	return b
}

// rebuildDeclared reindexes declared values for the applied snapshot plus
// every retained exiting subtree.
func (s *Scheduler) rebuildDeclared(snap *Snapshot) {
	s.declared = make(map[string]Value)
	walkNodes(snap.Root, rootToken(snap.Root), s.declareNode)
	for _, r := range s.retained {
		walkNodes(r.node, r.path, s.declareNode)
	}
}

func (s *Scheduler) declareNode(path string, n *Node) {
	for _, p := range n.Props {
		s.declared[bindingKey(path, p.ID)] = p.Value
	}
}

// walkNodes visits a subtree depth-first, computing each node's path with
// the same tokens the diff uses.
func walkNodes(n *Node, path string, fn func(path string, n *Node)) {
	fn(path, n)
	typeSeen := make(map[string]int)
	for _, child := range n.Children {
		var token string
		if child.Key != "" {
			token = nodeToken(child, 0)
		} else {
			idx := typeSeen[child.Type]
			typeSeen[child.Type]++
			token = nodeToken(child, idx)
		}
		walkNodes(child, path+"/"+token, fn)
	}
}
