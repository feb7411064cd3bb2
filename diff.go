package motive

import "strconv"

// propChange is one typed change record: a continuing node whose property
// moved between snapshots.
type propChange struct {
	path string
	node *Node // the node in the new snapshot, for its scoped curve
	id   PropertyID
	from Value
	to   Value
}

// subtreeRef addresses an inserted or removed subtree root.
type subtreeRef struct {
	path string
	node *Node
}

// changeSet is the diff output: continuing nodes' changed properties,
// inserted subtrees, removed subtrees.
type changeSet struct {
	updates []propChange
	inserts []subtreeRef
	removes []subtreeRef
}

// nodeToken renders one path segment. Keyed nodes are addressed by identity,
// unkeyed nodes by position within their sibling type group, so a continuing
// node keeps the same path across snapshots.
func nodeToken(n *Node, typeIndex int) string {
	if n.Key != "" {
		return n.Type + "[" + n.Key + "]"
	}
	return n.Type + "#" + strconv.Itoa(typeIndex)
}

// diff structurally compares two snapshots. prev may be nil (everything is
// an insert). Matching is by (Type, Key) at each tree level; unkeyed nodes
// match positionally only when sibling counts per type agree, otherwise the
// whole type group pairs as remove + insert rather than guessing.
func diff(prev, next *Snapshot) (*changeSet, error) {
	cs := &changeSet{}
	var oldRoot *Node
	if prev != nil {
		oldRoot = prev.Root
	}
	newRoot := next.Root

	rootPath := rootToken(newRoot)
	// The whole new snapshot must pair unambiguously before anything else
	// happens; inserted subtrees (and the first snapshot, where everything is
	// inserted) never reach the per-level pairing below.
	if err := validateIdentities(newRoot, rootPath); err != nil {
		return nil, err
	}
	if oldRoot == nil {
		cs.inserts = append(cs.inserts, subtreeRef{path: rootPath, node: newRoot})
		return cs, nil
	}
	if oldRoot.Type != newRoot.Type || oldRoot.Key != newRoot.Key {
		cs.removes = append(cs.removes, subtreeRef{path: rootToken(oldRoot), node: oldRoot})
		cs.inserts = append(cs.inserts, subtreeRef{path: rootPath, node: newRoot})
		return cs, nil
	}
	if err := diffNode(oldRoot, newRoot, rootPath, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func rootToken(n *Node) string {
	if n.Key != "" {
		return n.Type + "[" + n.Key + "]"
	}
	return n.Type
}

// diffNode records property changes on a matched pair, then pairs children.
func diffNode(oldN, newN *Node, path string, cs *changeSet) error {
	for _, p := range newN.Props {
		oldV, ok := oldN.Prop(p.ID)
		if !ok {
			// Newly declared property: appears at its value, nothing to
			// interpolate from.
			continue
		}
		if valuesEqual(oldV, p.Value) {
			continue
		}
		cs.updates = append(cs.updates, propChange{
			path: path, node: newN, id: p.ID, from: oldV, to: p.Value,
		})
	}
	return diffChildren(oldN, newN, path, cs)
}

// identity is a sibling-level pairing key for keyed nodes.
type identity struct {
	typ string
	key string
}

func diffChildren(oldN, newN *Node, path string, cs *changeSet) error {
	oldKeyed, err := keyedSiblings(oldN, path)
	if err != nil {
		return err
	}

	// Positional matching for unkeyed nodes only holds when the counts per
	// type agree on both sides.
	oldByType := unkeyedByType(oldN)
	newByType := unkeyedByType(newN)

	matchedOld := make(map[*Node]bool)

	// New children in declaration order: match or insert.
	typeSeen := make(map[string]int)
	for _, child := range newN.Children {
		var token string
		var counterpart *Node
		if child.Key != "" {
			token = nodeToken(child, 0)
			counterpart = oldKeyed[identity{child.Type, child.Key}]
		} else {
			idx := typeSeen[child.Type]
			typeSeen[child.Type]++
			token = nodeToken(child, idx)
			olds := oldByType[child.Type]
			if len(olds) == len(newByType[child.Type]) && idx < len(olds) {
				counterpart = olds[idx]
			}
		}
		childPath := path + "/" + token
		if counterpart == nil {
			cs.inserts = append(cs.inserts, subtreeRef{path: childPath, node: child})
			continue
		}
		matchedOld[counterpart] = true
		if err := diffNode(counterpart, child, childPath, cs); err != nil {
			return err
		}
	}

	// Old children with no counterpart are removed.
	typeSeen = make(map[string]int)
	for _, child := range oldN.Children {
		var token string
		if child.Key != "" {
			token = nodeToken(child, 0)
		} else {
			idx := typeSeen[child.Type]
			typeSeen[child.Type]++
			token = nodeToken(child, idx)
		}
		if matchedOld[child] {
			continue
		}
		cs.removes = append(cs.removes, subtreeRef{path: path + "/" + token, node: child})
	}
	return nil
}

// validateIdentities rejects duplicate keyed siblings anywhere in a subtree,
// computing each node's path with the same tokens the pairing uses.
func validateIdentities(n *Node, path string) error {
	if _, err := keyedSiblings(n, path); err != nil {
		return err
	}
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
		if err := validateIdentities(child, path+"/"+token); err != nil {
			return err
		}
	}
	return nil
}

// keyedSiblings indexes a node's keyed children, failing on a duplicate
// (Type, Key) pair. Ambiguous pairing must not be silently resolved.
func keyedSiblings(n *Node, path string) (map[identity]*Node, error) {
	m := make(map[identity]*Node)
	for _, child := range n.Children {
		if child.Key == "" {
			continue
		}
		id := identity{child.Type, child.Key}
		if _, dup := m[id]; dup {
			return nil, &IdentityCollisionError{Parent: path, Type: child.Type, Key: child.Key}
		}
		m[id] = child
	}
	return m, nil
}

func unkeyedByType(n *Node) map[string][]*Node {
	m := make(map[string][]*Node)
	for _, child := range n.Children {
		if child.Key == "" {
			m[child.Type] = append(m[child.Type], child)
		}
	}
	return m
}
