package understory

// HitTestPoint returns the topmost node under the world-space point,
// with its root-to-node path, or false when nothing matches.
//
// Candidates come from the index (so from the most recent Commit),
// filtered by flags. Each candidate is then tested precisely: the point
// is pulled into the node's local space and checked against its local
// bounds and clip, then against every ancestor clip that applies under
// the clip composition policy. Survivors are ranked by the Tree's
// tie-break policy; by default higher z wins, then the deeper node, then
// the newer id.
func (t *Tree) HitTestPoint(p Point, filter QueryFilter) (Hit, bool) {
	var best Hit
	var bestCand HitCandidate
	have := false

	t.index.VisitPoint(p.X, p.Y, func(_ Key, id NodeId) {
		n := t.node(id)
		if n == nil || !filter.Matches(n.local.Flags) {
			return
		}
		path, ok := t.acceptPoint(id, n, p)
		if !ok {
			return
		}
		cand := HitCandidate{Node: id, ZIndex: n.local.ZIndex, Depth: len(path)}
		if !have || t.tieBreak.Better(cand, bestCand) {
			best = Hit{Node: id, Path: path}
			bestCand = cand
			have = true
		}
	})
	return best, have
}

// acceptPoint runs the narrow phase for one candidate: local bounds and
// clip first, then the ancestor clip chain, building the root-to-node
// path along the way.
func (t *Tree) acceptPoint(id NodeId, n *treeNode, p Point) ([]NodeId, bool) {
	lx, ly := n.worldTransform.Invert().Apply(p.X, p.Y)
	if !n.local.Bounds.Contains(lx, ly) {
		return nil, false
	}

	// clipping is turned off once the chain reaches a node that does not
	// inherit: its own ClipNone, or an ancestor whose policy terminated
	// composition.
	clipping := true
	switch n.local.ClipBehavior {
	case ClipNone:
		clipping = false
	case ClipPreferLocal:
		if n.local.Clip != nil {
			if !n.local.Clip.Rect.Contains(lx, ly) {
				return nil, false
			}
			clipping = false
		}
	default: // ClipInherit
		if n.local.Clip != nil && !n.local.Clip.Rect.Contains(lx, ly) {
			return nil, false
		}
	}

	// Walk to the root, testing clips while they still apply and
	// accumulating the path regardless.
	path := []NodeId{id}
	for cur := n.parent; cur != (NodeId{}); {
		a := t.mustNode(cur)
		if clipping {
			switch a.local.ClipBehavior {
			case ClipNone:
				clipping = false
			case ClipPreferLocal:
				if a.local.Clip != nil {
					if !a.clipContains(p) {
						return nil, false
					}
					clipping = false
				}
			default: // ClipInherit
				if a.local.Clip != nil && !a.clipContains(p) {
					return nil, false
				}
			}
		}
		path = append(path, cur)
		cur = a.parent
	}

	// Reverse into root-to-node order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// clipContains tests a world point against the node's local clip
// rectangle, in the node's local space.
func (n *treeNode) clipContains(p Point) bool {
	lx, ly := n.worldTransform.Invert().Apply(p.X, p.Y)
	return n.local.Clip.Rect.Contains(lx, ly)
}

// IntersectRect returns every node whose world bounds overlap r, shared
// edges included, filtered by flags. Broad phase only: no z ordering, no
// tie-breaking, order unspecified.
func (t *Tree) IntersectRect(r Rect, filter QueryFilter) []NodeId {
	var out []NodeId
	t.index.VisitRect(rectToAabb(r), func(_ Key, id NodeId) {
		n := t.node(id)
		if n == nil || !filter.Matches(n.local.Flags) {
			return
		}
		out = append(out, id)
	})
	return out
}

// ContainingPoint returns every node whose world bounds contain the
// point, filtered by flags. Broad phase only; order unspecified.
func (t *Tree) ContainingPoint(p Point, filter QueryFilter) []NodeId {
	var out []NodeId
	t.index.VisitPoint(p.X, p.Y, func(_ Key, id NodeId) {
		n := t.node(id)
		if n == nil || !filter.Matches(n.local.Flags) {
			return
		}
		out = append(out, id)
	})
	return out
}
