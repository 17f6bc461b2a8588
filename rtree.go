package understory

import "sort"

// RTree is a dynamic R-tree backend. Insertion descends by least area
// enlargement (smaller area breaks ties), node overflow is resolved with
// the SAH-like split in split.go, and removals recompute and prune bounds
// up the parent chain. Bulk construction (NewRTreeBulk) seeds a balanced
// tree with a sort-tile-recursive pass.
//
// Updates re-place the moved box, so query correctness holds under any
// interleaving of operations even as balance degrades.
type RTree[T Scalar, A Acc, R Arith[T, A]] struct {
	arith     R
	nodes     []rtNode[T]
	root      int
	slotLeaf  map[int]int
	freeNodes []int
	minKids   int
	maxKids   int
}

type rtEntry[T Scalar] struct {
	box Aabb[T]
	// Child node index for internal nodes, slot id for leaves.
	child int
}

type rtNode[T Scalar] struct {
	leaf    bool
	parent  int // -1 for the root
	entries []rtEntry[T]
}

const (
	rtreeMaxEntries = 8
	rtreeMinEntries = 2
)

// RTreeF32 is an R-tree backend over float32 coordinates.
type RTreeF32 = RTree[float32, float64, F32]

// RTreeF64 is an R-tree backend over float64 coordinates.
type RTreeF64 = RTree[float64, float64, F64]

// RTreeI32 is an R-tree backend over int32 coordinates.
type RTreeI32 = RTree[int32, int64, I32]

// NewRTree creates an empty R-tree backend.
func NewRTree[T Scalar, A Acc, R Arith[T, A]]() *RTree[T, A, R] {
	return &RTree[T, A, R]{
		root:     -1,
		slotLeaf: make(map[int]int),
		minKids:  rtreeMinEntries,
		maxKids:  rtreeMaxEntries,
	}
}

// BulkItem is one slot/AABB pair for bulk construction.
type BulkItem[T Scalar] struct {
	Slot int
	Box  Aabb[T]
}

// NewRTreeBulk builds an R-tree from items with a sort-tile-recursive
// pass: items are sorted by x center, cut into ceil-sqrt vertical slices,
// each slice sorted by y center and packed into full leaves.
func NewRTreeBulk[T Scalar, A Acc, R Arith[T, A]](items []BulkItem[T]) *RTree[T, A, R] {
	t := NewRTree[T, A, R]()
	if len(items) == 0 {
		return t
	}

	sorted := make([]BulkItem[T], len(items))
	copy(sorted, items)
	sortBulkByCenter(t.arith, sorted, 0)

	leafCount := (len(sorted) + t.maxKids - 1) / t.maxKids
	slices := isqrtCeil(leafCount)
	perSlice := (len(sorted) + slices - 1) / slices

	var level []int
	for start := 0; start < len(sorted); start += perSlice {
		end := min(start+perSlice, len(sorted))
		slice := sorted[start:end]
		sortBulkByCenter(t.arith, slice, 1)
		for ls := 0; ls < len(slice); ls += t.maxKids {
			le := min(ls+t.maxKids, len(slice))
			n := t.allocNode(true)
			for _, item := range slice[ls:le] {
				t.nodes[n].entries = append(t.nodes[n].entries, rtEntry[T]{box: item.Box, child: item.Slot})
				t.slotLeaf[item.Slot] = n
			}
			level = append(level, n)
		}
	}

	// Pack upper levels the same way until a single root remains.
	for len(level) > 1 {
		var next []int
		for start := 0; start < len(level); start += t.maxKids {
			end := min(start+t.maxKids, len(level))
			p := t.allocNode(false)
			for _, c := range level[start:end] {
				t.nodes[p].entries = append(t.nodes[p].entries, rtEntry[T]{box: t.nodeBounds(c), child: c})
				t.nodes[c].parent = p
			}
			next = append(next, p)
		}
		level = next
	}
	t.root = level[0]
	return t
}

func sortBulkByCenter[T Scalar, A Acc, R Arith[T, A]](ar R, items []BulkItem[T], axis int) {
	if axis == 0 {
		sort.SliceStable(items, func(i, j int) bool {
			return ar.Mid(items[i].Box.MinX, items[i].Box.MaxX) < ar.Mid(items[j].Box.MinX, items[j].Box.MaxX)
		})
	} else {
		sort.SliceStable(items, func(i, j int) bool {
			return ar.Mid(items[i].Box.MinY, items[i].Box.MaxY) < ar.Mid(items[j].Box.MinY, items[j].Box.MaxY)
		})
	}
}

func (t *RTree[T, A, R]) allocNode(leaf bool) int {
	if n := len(t.freeNodes); n > 0 {
		idx := t.freeNodes[n-1]
		t.freeNodes = t.freeNodes[:n-1]
		t.nodes[idx] = rtNode[T]{leaf: leaf, parent: -1}
		return idx
	}
	t.nodes = append(t.nodes, rtNode[T]{leaf: leaf, parent: -1})
	return len(t.nodes) - 1
}

func (t *RTree[T, A, R]) freeNode(n int) {
	t.nodes[n] = rtNode[T]{parent: -1}
	t.freeNodes = append(t.freeNodes, n)
}

// nodeBounds computes the smallest box covering all entries of a node.
func (t *RTree[T, A, R]) nodeBounds(n int) Aabb[T] {
	entries := t.nodes[n].entries
	if len(entries) == 0 {
		panic("understory: rtree invariant violated: bounds of empty node")
	}
	b := entries[0].box
	for _, e := range entries[1:] {
		b = b.Union(e.box)
	}
	return b
}

func (t *RTree[T, A, R]) setChildBox(parent, child int, box Aabb[T]) {
	for i := range t.nodes[parent].entries {
		if t.nodes[parent].entries[i].child == child {
			t.nodes[parent].entries[i].box = box
			return
		}
	}
	panic("understory: rtree invariant violated: child entry missing from parent")
}

func (t *RTree[T, A, R]) removeChildEntry(parent, child int) {
	entries := t.nodes[parent].entries
	for i := range entries {
		if entries[i].child == child {
			entries[i] = entries[len(entries)-1]
			t.nodes[parent].entries = entries[:len(entries)-1]
			return
		}
	}
	panic("understory: rtree invariant violated: child entry missing from parent")
}

// chooseLeaf descends from the root picking the entry whose box needs the
// least enlargement to cover the new box, breaking ties by smaller area.
func (t *RTree[T, A, R]) chooseLeaf(box Aabb[T]) int {
	n := t.root
	for !t.nodes[n].leaf {
		entries := t.nodes[n].entries
		best := 0
		bestDelta := t.enlargement(entries[0].box, box)
		for i := 1; i < len(entries); i++ {
			delta := t.enlargement(entries[i].box, box)
			if delta < bestDelta {
				bestDelta = delta
				best = i
			} else if delta == bestDelta &&
				Area(t.arith, entries[i].box) < Area(t.arith, entries[best].box) {
				best = i
			}
		}
		n = entries[best].child
	}
	return n
}

// enlargement returns how much additional area existing would need to
// cover additional.
func (t *RTree[T, A, R]) enlargement(existing, additional Aabb[T]) A {
	return Area(t.arith, existing.Union(additional)) - Area(t.arith, existing)
}

func (t *RTree[T, A, R]) Insert(slot int, box Aabb[T]) {
	if _, ok := t.slotLeaf[slot]; ok {
		t.Remove(slot)
	}
	if t.root == -1 {
		t.root = t.allocNode(true)
	}

	leaf := t.chooseLeaf(box)
	t.nodes[leaf].entries = append(t.nodes[leaf].entries, rtEntry[T]{box: box, child: slot})
	t.slotLeaf[slot] = leaf

	// Grow covering boxes up the parent chain.
	for n := leaf; t.nodes[n].parent != -1; {
		p := t.nodes[n].parent
		t.setChildBox(p, n, t.nodeBounds(n))
		n = p
	}

	// Split overflowing nodes bottom-up.
	for n := leaf; n != -1 && len(t.nodes[n].entries) > t.maxKids; {
		nn := t.splitNode(n)
		p := t.nodes[n].parent
		if p == -1 {
			root := t.allocNode(false)
			t.nodes[root].entries = []rtEntry[T]{
				{box: t.nodeBounds(n), child: n},
				{box: t.nodeBounds(nn), child: nn},
			}
			t.nodes[n].parent = root
			t.nodes[nn].parent = root
			t.root = root
			break
		}
		t.setChildBox(p, n, t.nodeBounds(n))
		t.nodes[p].entries = append(t.nodes[p].entries, rtEntry[T]{box: t.nodeBounds(nn), child: nn})
		t.nodes[nn].parent = p
		n = p
	}
}

// splitNode divides an overflowing node with the SAH split. The first
// group stays in n, the second moves to a new node whose index is
// returned. Ownership links (child parents, slot→leaf) follow the move.
func (t *RTree[T, A, R]) splitNode(n int) int {
	entries := t.nodes[n].entries
	boxes := make([]Aabb[T], len(entries))
	for i, e := range entries {
		boxes[i] = e.box
	}
	order, k := sahSplit(t.arith, boxes, t.minKids)

	left := make([]rtEntry[T], 0, k)
	right := make([]rtEntry[T], 0, len(entries)-k)
	for _, i := range order[:k] {
		left = append(left, entries[i])
	}
	for _, i := range order[k:] {
		right = append(right, entries[i])
	}

	nn := t.allocNode(t.nodes[n].leaf)
	t.nodes[n].entries = left
	t.nodes[nn].entries = right
	for _, e := range right {
		if t.nodes[nn].leaf {
			t.slotLeaf[e.child] = nn
		} else {
			t.nodes[e.child].parent = nn
		}
	}
	return nn
}

func (t *RTree[T, A, R]) Remove(slot int) {
	leaf, ok := t.slotLeaf[slot]
	if !ok {
		return
	}
	delete(t.slotLeaf, slot)
	entries := t.nodes[leaf].entries
	for i := range entries {
		if entries[i].child == slot {
			entries[i] = entries[len(entries)-1]
			t.nodes[leaf].entries = entries[:len(entries)-1]
			break
		}
	}

	// Shrink covering boxes upward, pruning nodes that became empty.
	for n := leaf; t.nodes[n].parent != -1; {
		p := t.nodes[n].parent
		if len(t.nodes[n].entries) == 0 {
			t.removeChildEntry(p, n)
			t.freeNode(n)
		} else {
			t.setChildBox(p, n, t.nodeBounds(n))
		}
		n = p
	}

	// Collapse a root that lost all but one child, or became empty.
	for t.root != -1 && !t.nodes[t.root].leaf && len(t.nodes[t.root].entries) == 1 {
		child := t.nodes[t.root].entries[0].child
		t.freeNode(t.root)
		t.nodes[child].parent = -1
		t.root = child
	}
	if t.root != -1 && t.nodes[t.root].leaf && len(t.nodes[t.root].entries) == 0 {
		t.freeNode(t.root)
		t.root = -1
	}
}

func (t *RTree[T, A, R]) Update(slot int, box Aabb[T]) {
	if leaf, ok := t.slotLeaf[slot]; ok {
		for i := range t.nodes[leaf].entries {
			e := &t.nodes[leaf].entries[i]
			if e.child == slot {
				if e.box == box {
					return
				}
				break
			}
		}
	}
	// Re-place the box so its position in the hierarchy is re-evaluated.
	t.Remove(slot)
	t.Insert(slot, box)
}

func (t *RTree[T, A, R]) Clear() {
	t.nodes = t.nodes[:0]
	t.freeNodes = t.freeNodes[:0]
	t.root = -1
	t.slotLeaf = make(map[int]int)
}

func (t *RTree[T, A, R]) VisitPoint(x, y T, fn func(slot int)) {
	if t.root == -1 {
		return
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.nodes[n]
		for _, e := range node.entries {
			if !e.box.ContainsPoint(x, y) {
				continue
			}
			if node.leaf {
				fn(e.child)
			} else {
				stack = append(stack, e.child)
			}
		}
	}
}

func (t *RTree[T, A, R]) VisitRect(box Aabb[T], fn func(slot int)) {
	if t.root == -1 {
		return
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.nodes[n]
		for _, e := range node.entries {
			if !e.box.Overlaps(box) {
				continue
			}
			if node.leaf {
				fn(e.child)
			} else {
				stack = append(stack, e.child)
			}
		}
	}
}
