package understory

// Tree is a generational arena of nodes with parent/child links, local
// geometry per node, and derived world-space geometry kept in an
// embedded Index for point and rectangle queries.
//
// Mutators only stage intent: setters flip dirty bits and return, and
// nothing derived moves until Commit, which recomputes world transforms,
// clips and bounds top-down, republishes every touched AABB into the
// index, and returns the world rectangles a painter must repaint. Query
// results are meaningful relative to the most recent Commit.
//
// The Tree is single-writer: callers serialize mutation, Commit and
// queries themselves, typically as one batch per frame.
type Tree struct {
	nodes    []treeNode
	gens     []uint32
	free     []uint32
	roots    []NodeId
	index    *Index[float64, NodeId]
	tieBreak TieBreakPolicy
}

type nodeDirty uint8

const (
	dirtyTransform nodeDirty = 1 << iota
	dirtyBounds
	dirtyClip

	dirtyGeometry = dirtyTransform | dirtyBounds | dirtyClip
)

type treeNode struct {
	live     bool
	parent   NodeId // zero NodeId means the node is a root
	children []NodeId
	local    LocalNode
	dirty    nodeDirty

	worldTransform Affine
	worldBounds    Rect
	worldClip      Rect
	hasWorldClip   bool

	key    Key
	hasKey bool
}

// NewTree creates a Tree over a linear-scan index backend with the
// default z, depth, recency hit ordering. Fine for small scenes; larger
// ones should pick a spatial backend via NewTreeWith.
func NewTree() *Tree {
	return NewTreeWith(&FlatVec[float64]{}, nil)
}

// NewTreeWith creates a Tree over the given index backend. A nil
// tieBreak selects the default z, depth, recency ordering.
func NewTreeWith(backend Backend[float64], tieBreak TieBreakPolicy) *Tree {
	if tieBreak == nil {
		tieBreak = TieBreakZDepthRecency()
	}
	return &Tree{
		index:    NewIndex[float64, NodeId](backend),
		tieBreak: tieBreak,
	}
}

// SetTieBreak replaces the hit-test ordering policy. A nil policy
// restores the default.
func (t *Tree) SetTieBreak(policy TieBreakPolicy) {
	if policy == nil {
		policy = TieBreakZDepthRecency()
	}
	t.tieBreak = policy
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return len(t.nodes) - len(t.free)
}

func (t *Tree) node(id NodeId) *treeNode {
	if int(id.Slot) >= len(t.nodes) {
		return nil
	}
	n := &t.nodes[id.Slot]
	if !n.live || t.gens[id.Slot] != id.Gen {
		return nil
	}
	return n
}

// mustNode resolves an id the Tree itself recorded; a miss means the
// arena's links are corrupted.
func (t *Tree) mustNode(id NodeId) *treeNode {
	n := t.node(id)
	if n == nil {
		panic("understory: tree invariant violated: linked node is not alive")
	}
	return n
}

// Insert creates a node described by local under the given parent and
// returns its id. A zero parent inserts a root. Panics if parent is
// neither zero nor alive. The node participates in queries only after
// the next Commit.
func (t *Tree) Insert(parent NodeId, local LocalNode) NodeId {
	if parent != (NodeId{}) && t.node(parent) == nil {
		panic("understory: insert under a node that is not alive")
	}

	var slot uint32
	if n := len(t.free); n > 0 {
		slot = t.free[n-1]
		t.free = t.free[:n-1]
		t.gens[slot]++
	} else {
		slot = uint32(len(t.nodes))
		t.nodes = append(t.nodes, treeNode{})
		t.gens = append(t.gens, 1)
	}
	id := NodeId{Slot: slot, Gen: t.gens[slot]}
	t.nodes[slot] = treeNode{
		live:   true,
		parent: parent,
		local:  local,
		dirty:  dirtyGeometry,
	}

	if parent == (NodeId{}) {
		t.roots = append(t.roots, id)
	} else {
		p := t.mustNode(parent)
		p.children = append(p.children, id)
	}
	return id
}

// Remove destroys the node and its whole subtree. Slots are freed and
// index entries are staged for removal; the damage surfaces at the next
// Commit. A stale id is a no-op.
func (t *Tree) Remove(id NodeId) {
	n := t.node(id)
	if n == nil {
		return
	}
	t.unlink(id, n.parent)

	stack := []NodeId{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := t.mustNode(cur)
		stack = append(stack, node.children...)
		if node.hasKey {
			t.index.Remove(node.key)
		}
		t.nodes[cur.Slot] = treeNode{}
		t.free = append(t.free, cur.Slot)
	}
}

func (t *Tree) unlink(id, parent NodeId) {
	siblings := &t.roots
	if parent != (NodeId{}) {
		siblings = &t.mustNode(parent).children
	}
	for i, sib := range *siblings {
		if sib == id {
			*siblings = append((*siblings)[:i], (*siblings)[i+1:]...)
			return
		}
	}
	panic("understory: tree invariant violated: node missing from its parent's children")
}

// Reparent moves the node (and its subtree) under newParent, appending
// it after newParent's existing children. A zero newParent makes the
// node a root. A stale id is a no-op; panics if newParent is dead or
// inside the node's own subtree.
func (t *Tree) Reparent(id, newParent NodeId) {
	n := t.node(id)
	if n == nil {
		return
	}
	if n.parent == newParent {
		return
	}
	if newParent != (NodeId{}) {
		if t.node(newParent) == nil {
			panic("understory: reparent under a node that is not alive")
		}
		for anc := newParent; anc != (NodeId{}); anc = t.mustNode(anc).parent {
			if anc == id {
				panic("understory: reparent would create a cycle")
			}
		}
	}

	t.unlink(id, n.parent)
	n.parent = newParent
	if newParent == (NodeId{}) {
		t.roots = append(t.roots, id)
	} else {
		p := t.mustNode(newParent)
		p.children = append(p.children, id)
	}
	t.markSubtreeDirty(id)
}

// markSubtreeDirty flags the node and all descendants for full world
// recomputation.
func (t *Tree) markSubtreeDirty(id NodeId) {
	stack := []NodeId{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := t.mustNode(cur)
		node.dirty |= dirtyGeometry
		stack = append(stack, node.children...)
	}
}

// SetLocalTransform stages a new local transform. Stale ids and
// unchanged values are no-ops.
func (t *Tree) SetLocalTransform(id NodeId, m Affine) {
	n := t.node(id)
	if n == nil || n.local.Transform == m {
		return
	}
	n.local.Transform = m
	n.dirty |= dirtyTransform
}

// SetLocalBounds stages new local bounds. Stale ids and unchanged
// values are no-ops.
func (t *Tree) SetLocalBounds(id NodeId, r Rect) {
	n := t.node(id)
	if n == nil || n.local.Bounds == r {
		return
	}
	n.local.Bounds = r
	n.dirty |= dirtyBounds
}

// SetLocalClip stages a new local clip; nil removes it. Stale ids and
// unchanged values are no-ops.
func (t *Tree) SetLocalClip(id NodeId, clip *RoundedRect) {
	n := t.node(id)
	if n == nil {
		return
	}
	if n.local.Clip == nil && clip == nil {
		return
	}
	if n.local.Clip != nil && clip != nil && *n.local.Clip == *clip {
		return
	}
	if clip != nil {
		c := *clip
		clip = &c
	}
	n.local.Clip = clip
	n.dirty |= dirtyClip
}

// SetClipBehavior stages a new clip composition policy. Stale ids and
// unchanged values are no-ops.
func (t *Tree) SetClipBehavior(id NodeId, b ClipBehavior) {
	n := t.node(id)
	if n == nil || n.local.ClipBehavior == b {
		return
	}
	n.local.ClipBehavior = b
	n.dirty |= dirtyClip
}

// SetZIndex sets the node's z index. The change needs no commit: z only
// matters at query time. Stale ids and unchanged values are no-ops.
func (t *Tree) SetZIndex(id NodeId, z int32) {
	n := t.node(id)
	if n == nil || n.local.ZIndex == z {
		return
	}
	n.local.ZIndex = z
}

// SetFlags sets the node's flag set. The change needs no commit: flags
// only matter at query time. Stale ids and unchanged values are no-ops.
func (t *Tree) SetFlags(id NodeId, flags NodeFlags) {
	n := t.node(id)
	if n == nil || n.local.Flags == flags {
		return
	}
	n.local.Flags = flags
}

// localTransform reads the node's transform, treating the zero matrix as
// identity.
func localTransform(n *treeNode) Affine {
	if n.local.Transform.IsZero() {
		return IdentityAffine
	}
	return n.local.Transform
}

type commitFrame struct {
	id         NodeId
	transform  Affine
	clip       Rect
	hasClip    bool
	recomputed bool
}

// Commit recomputes all staged world state top-down and returns the
// damage. Each root's subtree is walked with an explicit stack so deep
// trees cannot exhaust the call stack; a node is recomputed when its own
// geometry is dirty or an ancestor was recomputed this pass. After the
// walk the embedded index commits its batch and the union of its damage
// joins the returned rects.
func (t *Tree) Commit() Damage {
	var damage Damage
	var stack []commitFrame
	for _, root := range t.roots {
		stack = append(stack, commitFrame{id: root, transform: IdentityAffine})
	}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.mustNode(frame.id)

		recompute := frame.recomputed || n.dirty&dirtyGeometry != 0
		if recompute {
			world := frame.transform.Mul(localTransform(n))

			clip := frame.clip
			hasClip := frame.hasClip
			switch n.local.ClipBehavior {
			case ClipNone:
				hasClip = false
			case ClipPreferLocal:
				if n.local.Clip != nil {
					clip = world.TransformRect(n.local.Clip.Rect)
					hasClip = true
				}
			default: // ClipInherit
				if n.local.Clip != nil {
					local := world.TransformRect(n.local.Clip.Rect)
					if hasClip {
						clip = clip.Intersect(local)
					} else {
						clip = local
						hasClip = true
					}
				}
			}

			bounds := world.TransformRect(n.local.Bounds)
			if hasClip {
				bounds = bounds.Intersect(clip)
			}
			if bounds != n.worldBounds {
				damage.addRect(n.worldBounds)
				damage.addRect(bounds)
			}

			n.worldTransform = world
			n.worldBounds = bounds
			n.worldClip = clip
			n.hasWorldClip = hasClip

			if n.hasKey {
				t.index.Update(n.key, rectToAabb(bounds))
			} else {
				n.key = t.index.Insert(rectToAabb(bounds), frame.id)
				n.hasKey = true
			}
		}
		n.dirty = 0

		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, commitFrame{
				id:         n.children[i],
				transform:  n.worldTransform,
				clip:       n.worldClip,
				hasClip:    n.hasWorldClip,
				recomputed: recompute,
			})
		}
	}

	idx := t.index.Commit()
	if !idx.IsEmpty() {
		damage.addRect(aabbToRect(idx.Union()))
	}
	return damage
}
