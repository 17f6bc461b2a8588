package understory

// IsAlive reports whether the id addresses a live node.
func (t *Tree) IsAlive(id NodeId) bool {
	return t.node(id) != nil
}

// Roots returns the current root nodes in insertion order.
func (t *Tree) Roots() []NodeId {
	out := make([]NodeId, len(t.roots))
	copy(out, t.roots)
	return out
}

// ParentOf returns the node's parent. Roots and stale ids report false.
func (t *Tree) ParentOf(id NodeId) (NodeId, bool) {
	n := t.node(id)
	if n == nil || n.parent == (NodeId{}) {
		return NodeId{}, false
	}
	return n.parent, true
}

// ChildrenOf returns the node's children in sibling order. Stale ids
// yield nil.
func (t *Tree) ChildrenOf(id NodeId) []NodeId {
	n := t.node(id)
	if n == nil {
		return nil
	}
	out := make([]NodeId, len(n.children))
	copy(out, n.children)
	return out
}

// Local returns the node's author-facing state. Stale ids report false.
func (t *Tree) Local(id NodeId) (LocalNode, bool) {
	n := t.node(id)
	if n == nil {
		return LocalNode{}, false
	}
	local := n.local
	if local.Clip != nil {
		clip := *local.Clip
		local.Clip = &clip
	}
	return local, true
}

// LocalTransform returns the node's staged local transform. Stale ids
// report false.
func (t *Tree) LocalTransform(id NodeId) (Affine, bool) {
	n := t.node(id)
	if n == nil {
		return Affine{}, false
	}
	return n.local.Transform, true
}

// LocalBounds returns the node's staged local bounds. Stale ids report
// false.
func (t *Tree) LocalBounds(id NodeId) (Rect, bool) {
	n := t.node(id)
	if n == nil {
		return Rect{}, false
	}
	return n.local.Bounds, true
}

// ZIndex returns the node's z index. Stale ids report false.
func (t *Tree) ZIndex(id NodeId) (int32, bool) {
	n := t.node(id)
	if n == nil {
		return 0, false
	}
	return n.local.ZIndex, true
}

// Flags returns the node's flag set. Stale ids report false.
func (t *Tree) Flags(id NodeId) (NodeFlags, bool) {
	n := t.node(id)
	if n == nil {
		return 0, false
	}
	return n.local.Flags, true
}

// WorldTransform returns the node's composed transform as of the most
// recent Commit. Stale ids report false.
func (t *Tree) WorldTransform(id NodeId) (Affine, bool) {
	n := t.node(id)
	if n == nil {
		return Affine{}, false
	}
	return n.worldTransform, true
}

// WorldBounds returns the node's clipped world bounds as of the most
// recent Commit. Stale ids report false.
func (t *Tree) WorldBounds(id NodeId) (Rect, bool) {
	n := t.node(id)
	if n == nil {
		return Rect{}, false
	}
	return n.worldBounds, true
}

// WorldClip returns the node's composed clip rectangle as of the most
// recent Commit. Unclipped nodes and stale ids report false.
func (t *Tree) WorldClip(id NodeId) (Rect, bool) {
	n := t.node(id)
	if n == nil || !n.hasWorldClip {
		return Rect{}, false
	}
	return n.worldClip, true
}

// siblings returns the ordered slice the node lives in: its parent's
// children, or the root list.
func (t *Tree) siblings(parent NodeId) []NodeId {
	if parent == (NodeId{}) {
		return t.roots
	}
	return t.mustNode(parent).children
}

// NextDepthFirst returns the node after id in pre-order over the whole
// forest: first child, else the next sibling of the nearest ancestor
// that has one. Does not wrap; reports false at the end or for a stale
// id.
func (t *Tree) NextDepthFirst(id NodeId) (NodeId, bool) {
	n := t.node(id)
	if n == nil {
		return NodeId{}, false
	}
	if len(n.children) > 0 {
		return n.children[0], true
	}
	for cur, node := id, n; ; {
		sibs := t.siblings(node.parent)
		for i, sib := range sibs {
			if sib == cur && i+1 < len(sibs) {
				return sibs[i+1], true
			}
		}
		if node.parent == (NodeId{}) {
			return NodeId{}, false
		}
		cur = node.parent
		node = t.mustNode(cur)
	}
}

// PrevDepthFirst returns the node before id in pre-order: the deepest
// last descendant of the previous sibling, else the parent. Does not
// wrap; reports false at the start or for a stale id.
func (t *Tree) PrevDepthFirst(id NodeId) (NodeId, bool) {
	n := t.node(id)
	if n == nil {
		return NodeId{}, false
	}
	sibs := t.siblings(n.parent)
	for i, sib := range sibs {
		if sib != id {
			continue
		}
		if i == 0 {
			if n.parent == (NodeId{}) {
				return NodeId{}, false
			}
			return n.parent, true
		}
		cur := sibs[i-1]
		for {
			kids := t.mustNode(cur).children
			if len(kids) == 0 {
				return cur, true
			}
			cur = kids[len(kids)-1]
		}
	}
	panic("understory: tree invariant violated: node missing from its parent's children")
}
