package motive

// PhaseProp pins one property's "active" phase value — where an inserted
// node starts from, or where a removed node heads to. The identity value is
// whatever the snapshot declares for the property. A Relative leg adds
// Active componentwise to the declared value instead of replacing it, which
// is how displacement transitions like [Offset] compose with layout.
type PhaseProp struct {
	ID       PropertyID
	Active   Value
	Relative bool
}

// Transition describes how a node appears and disappears. Enter and Exit may
// differ (asymmetric transitions); a nil slice means that direction is
// instant.
//
// On insertion the node renders at the Active values and animates to its
// declared values. On removal the node is retained in the render tree — and
// keeps receiving ticks — until every exit leg completes, then it is purged.
// Exit legs only animate under a curve established by the enclosing
// Transaction; a curve scoped to the removed subtree disappears with it.
type Transition struct {
	Enter []PhaseProp
	Exit  []PhaseProp
}

// Fade transitions opacity from 0 on entry and back to 0 on exit.
func Fade() *Transition {
	return symmetric(PhaseProp{ID: PropOpacity, Active: Float(0)})
}

// Offset transitions position from the given displacement off the declared
// position (and back out through it on exit).
func Offset(dx, dy float64) *Transition {
	return symmetric(PhaseProp{ID: PropPosition, Active: Vec2{X: dx, Y: dy}, Relative: true})
}

// ScaleUp transitions scale from the factor k on both axes.
func ScaleUp(k float64) *Transition {
	return symmetric(PhaseProp{ID: PropScale, Active: Vec2{X: k, Y: k}})
}

// Asymmetric pairs a different enter and exit transition.
func Asymmetric(enter, exit *Transition) *Transition {
	t := &Transition{}
	if enter != nil {
		t.Enter = enter.Enter
	}
	if exit != nil {
		t.Exit = exit.Exit
	}
	return t
}

// Combined merges several transitions so all their legs run together.
func Combined(transitions ...*Transition) *Transition {
	out := &Transition{}
	for _, tr := range transitions {
		out.Enter = append(out.Enter, tr.Enter...)
		out.Exit = append(out.Exit, tr.Exit...)
	}
	return out
}

func symmetric(props ...PhaseProp) *Transition {
	return &Transition{
		Enter: append([]PhaseProp(nil), props...),
		Exit:  append([]PhaseProp(nil), props...),
	}
}

// activeComps resolves a leg's active phase value against the declared
// (identity) value.
func (p PhaseProp) activeComps(declared Value) []float64 {
	act := p.Active.Components()
	if !p.Relative {
		return act
	}
	base := declared.Components()
	if len(base) != len(act) {
		warnMissingMapping(declared, p.Active)
		return act
	}
	out := make([]float64, len(base))
	for i := range base {
		out[i] = base[i] + act[i]
	}
	return out
}

// retainedExit tracks one removed subtree kept alive while its exit legs
// run. pending counts legs still in flight; at zero the subtree and all its
// bindings are purged.
type retainedExit struct {
	path    string
	node    *Node
	pending int
}
