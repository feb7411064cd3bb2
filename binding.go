package motive

// Binding is the live association between one property path and its
// currently interpolating value. Bindings are owned by the Scheduler; the
// stored value is always the last computed interpolated value, never stale.
type Binding struct {
	ID   BindingID
	Path string
	Prop PropertyID

	proto  Value     // reconstruction prototype for the component vector
	comps  []float64 // current components
	vel    []float64 // current velocity, units/second
	target []float64
	value  Value

	active *ScheduledAnimation
}

func bindingKey(path string, prop PropertyID) string {
	return path + "." + string(prop)
}

func newBinding(path string, prop PropertyID, v Value) *Binding {
	comps := v.Components()
	return &Binding{
		ID:     nextBindingID(),
		Path:   path,
		Prop:   prop,
		proto:  v,
		comps:  append([]float64(nil), comps...),
		vel:    make([]float64, len(comps)),
		target: append([]float64(nil), comps...),
		value:  v,
	}
}

// Value returns the binding's current interpolated value.
func (b *Binding) Value() Value { return b.value }

// set snaps the binding to v with zero velocity.
func (b *Binding) set(v Value) {
	b.proto = v
	b.comps = append(b.comps[:0], v.Components()...)
	b.target = append(b.target[:0], b.comps...)
	b.vel = make([]float64, len(b.comps))
	b.value = v
}

// write stores the advanced state computed by an animator. A nil vel means
// at rest.
func (b *Binding) write(comps, vel []float64) {
	b.comps = append(b.comps[:0], comps...)
	if vel == nil {
		b.vel = append(b.vel[:0], make([]float64, len(comps))...)
	} else {
		b.vel = append(b.vel[:0], vel...)
	}
	if v := b.proto.Reconstruct(b.comps); v != nil {
		b.value = v
	} else {
		warnMissingMapping(b.proto, b.proto)
	}
}

// Animating reports whether an animation currently drives this binding.
func (b *Binding) Animating() bool {
	return b.active != nil &&
		(b.active.State == StateRunning || b.active.State == StatePending)
}
