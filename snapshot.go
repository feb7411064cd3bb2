package motive

// Node is one element of a view-tree snapshot: a type, an optional explicit
// identity key, an ordered property list, and children. Nodes are built once
// per state re-evaluation and handed to the engine read-only; the next state
// change supersedes the snapshot rather than editing it.
//
// Identity continuity across snapshots requires matching Type and Key.
// Anything else pairs as remove + insert, never as a property change.
type Node struct {
	Type string
	Key  string

	// Props is the static ordered property list. Order is the declaration
	// order and is preserved through diffing, so change records come out
	// deterministically.
	Props []Prop

	Children []*Node

	// Transition governs this node's appearance and disappearance. Nil means
	// the node pops in and out with no animation.
	Transition *Transition

	// Curve is a node-scoped curve override for this node's property changes
	// and enter legs. It lives inside the subtree: when the subtree is
	// removed the override goes with it, so exit legs only animate under a
	// curve established by the enclosing Transaction.
	Curve Curve
}

// Prop is one (property, value) pair on a node.
type Prop struct {
	ID    PropertyID
	Value Value
}

// NewNode creates a node of the given type with no properties or children.
func NewNode(typ string) *Node {
	return &Node{Type: typ}
}

// SetProp sets a property, replacing an existing entry in place so the
// declared order is stable.
func (n *Node) SetProp(id PropertyID, v Value) {
	for i := range n.Props {
		if n.Props[i].ID == id {
			n.Props[i].Value = v
			return
		}
	}
	n.Props = append(n.Props, Prop{ID: id, Value: v})
}

// Prop returns the value of the given property, if declared.
func (n *Node) Prop(id PropertyID) (Value, bool) {
	for i := range n.Props {
		if n.Props[i].ID == id {
			return n.Props[i].Value, true
		}
	}
	return nil, false
}

// AddChild appends child to this node's children.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("motive: cannot add nil child")
	}
	if nodeContains(child, n) {
		panic("motive: adding child would create a cycle")
	}
	n.Children = append(n.Children, child)
}

// nodeContains reports whether root's subtree contains target.
func nodeContains(root, target *Node) bool {
	if root == target {
		return true
	}
	for _, c := range root.Children {
		if nodeContains(c, target) {
			return true
		}
	}
	return false
}

// Snapshot is an immutable description of the view tree at one state
// revision. The engine never mutates it and the caller must not either.
type Snapshot struct {
	Root *Node
}

// NewSnapshot wraps root in a snapshot. In debug mode the tree is checked
// for cycles and excessive depth; a cyclic node graph is a programming
// error, not a recoverable runtime condition.
func NewSnapshot(root *Node) *Snapshot {
	if root == nil {
		panic("motive: snapshot root must not be nil")
	}
	if globalDebug {
		debugCheckAcyclic(root)
	}
	return &Snapshot{Root: root}
}
