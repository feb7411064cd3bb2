package motive

// Transaction is the scoped configuration for one state-change batch. It is
// passed explicitly to [Scheduler.Apply] — there is no ambient "current
// transaction" state.
//
// A nil Transaction, a nil Curve, or Disabled all mean the change applies
// without animation: values snap and no bindings are created.
type Transaction struct {
	// Curve is the transaction-scope curve for every change in the batch.
	// Node-scoped curves override it for their own subtree's property
	// changes and enter legs; exit legs animate only under this curve.
	Curve Curve

	// Disabled suppresses animation for the whole batch even when curves
	// are present.
	Disabled bool

	// Completion fires once every animation the batch created has finished
	// or been superseded. A batch creating no animations completes
	// synchronously during Apply.
	Completion func()

	// CompletionKey identifies the completion registration across
	// consecutive applications. With an empty key each Transaction is its
	// own registration and Completion fires normally. With a key and no
	// Watch, Completion fires at most once for the lifetime of the
	// registration. With a key and a Watch, Completion refires only when
	// the watched value changed since the previous application under the
	// same key. The asymmetry is deliberate and part of the API contract.
	CompletionKey string

	// Watch is the optional watched value for keyed registrations.
	Watch Value
}

// animated reports whether this transaction can animate at all.
func (tx *Transaction) animated() bool {
	return tx != nil && !tx.Disabled
}

// curveFor resolves the effective curve for a node's property changes and
// enter legs: the node-scoped curve wins, then the transaction's.
func (tx *Transaction) curveFor(node *Node) Curve {
	if !tx.animated() {
		return nil
	}
	if node != nil && node.Curve != nil {
		return node.Curve
	}
	return tx.Curve
}

// exitCurve resolves the curve for exit legs. Node-scoped curves left the
// tree with the removed subtree, so only the transaction scope applies.
func (tx *Transaction) exitCurve() Curve {
	if !tx.animated() {
		return nil
	}
	return tx.Curve
}

// completionState is the per-registration bookkeeping behind CompletionKey.
type completionState struct {
	fired   bool
	hasLast bool
	last    []float64 // components of the previous application's Watch
}

// shouldFire decides, at application time, whether this application's
// completion may fire, and records the watched value for the next one.
func (st *completionState) shouldFire(watch Value) bool {
	if watch == nil {
		if st.fired {
			return false
		}
		st.fired = true
		return true
	}
	comps := watch.Components()
	changed := !st.hasLast || !compsEqual(st.last, comps)
	st.last = append(st.last[:0], comps...)
	st.hasLast = true
	return changed
}

// txRun tracks one application's outstanding animations so the transaction
// completion fires exactly when the batch drains.
type txRun struct {
	completion func()
	remaining  int
	fire       bool
}

func (r *txRun) animationFinished() {
	if r == nil {
		return
	}
	r.remaining--
	if r.remaining == 0 && r.fire && r.completion != nil {
		r.completion()
	}
}
