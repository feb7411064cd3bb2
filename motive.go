package motive

// PropertyID names one animatable property on a node, e.g. "opacity".
// Applications may define their own IDs; the constants below cover the
// common visual properties and are what the built-in transitions use.
type PropertyID string

const (
	PropOpacity  PropertyID = "opacity"  // Float in [0, 1]
	PropPosition PropertyID = "position" // Vec2, layout units
	PropScale    PropertyID = "scale"    // Vec2, multiplier per axis
	PropRotation PropertyID = "rotation" // Float, radians
	PropColor    PropertyID = "color"    // Color
	PropSize     PropertyID = "size"     // Size, layout units
)

// BindingID identifies one live property binding for render-consumer polling.
type BindingID uint64

// AnimationID identifies one running animation instance.
type AnimationID uint64

// LifecycleState tracks a scheduled animation through its life.
type LifecycleState uint8

const (
	StatePending    LifecycleState = iota // registered, not yet advanced by a tick
	StateRunning                          // advancing each tick
	StateCompleting                       // reached completion this tick, callback not yet fired
	StateDone                             // finished, callbacks fired
	StateCancelled                        // superseded before completing; its callback never fires
)

// String returns the state name for diagnostics.
func (s LifecycleState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleting:
		return "completing"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	default:
		return "invalid"
	}
}

// ID counters are plain ints (no atomic — motive is single-threaded).
var bindingIDCounter uint64
var animationIDCounter uint64

func nextBindingID() BindingID {
	bindingIDCounter++
	return BindingID(bindingIDCounter)
}

func nextAnimationID() AnimationID {
	animationIDCounter++
	return AnimationID(animationIDCounter)
}
