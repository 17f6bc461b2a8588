package understory

import "sort"

// BVH is a bounding volume hierarchy backend: a binary tree whose leaves
// hold up to bvhMaxLeaf boxes. Insertion descends toward the child
// needing the least area enlargement and splits full leaves with the
// same SAH cost the R-tree uses. Unlike the R-tree, updates refit the
// stored box in place and only widen ancestor bounds, so a long run of
// updates loosens the tree without re-placing anything. Removal collapses
// a node whose sibling emptied out.
type BVH[T Scalar, A Acc, R Arith[T, A]] struct {
	arith     R
	nodes     []bvhNode[T]
	root      int
	slotLeaf  map[int]int
	freeNodes []int
}

type bvhNode[T Scalar] struct {
	box    Aabb[T]
	parent int // -1 for the root
	// left/right are -1 for leaves.
	left  int
	right int
	// Slot ids held by a leaf; nil for internal nodes is not
	// distinguishing, left == -1 is.
	slots []int
	boxes []Aabb[T]
}

const bvhMaxLeaf = 8

// BVHF32 is a BVH backend over float32 coordinates.
type BVHF32 = BVH[float32, float64, F32]

// BVHF64 is a BVH backend over float64 coordinates.
type BVHF64 = BVH[float64, float64, F64]

// BVHI32 is a BVH backend over int32 coordinates.
type BVHI32 = BVH[int32, int64, I32]

// NewBVH creates an empty BVH backend.
func NewBVH[T Scalar, A Acc, R Arith[T, A]]() *BVH[T, A, R] {
	return &BVH[T, A, R]{
		root:     -1,
		slotLeaf: make(map[int]int),
	}
}

// NewBVHBulk builds a BVH from items by recursive median partitioning on
// the longer centroid axis, yielding leaves near bvhMaxLeaf boxes each.
func NewBVHBulk[T Scalar, A Acc, R Arith[T, A]](items []BulkItem[T]) *BVH[T, A, R] {
	t := NewBVH[T, A, R]()
	if len(items) == 0 {
		return t
	}
	sorted := make([]BulkItem[T], len(items))
	copy(sorted, items)
	t.root = t.buildSubtree(sorted, -1)
	return t
}

func (t *BVH[T, A, R]) buildSubtree(items []BulkItem[T], parent int) int {
	if len(items) <= bvhMaxLeaf {
		n := t.allocNode()
		node := &t.nodes[n]
		node.parent = parent
		node.box = items[0].Box
		for _, item := range items {
			node.slots = append(node.slots, item.Slot)
			node.boxes = append(node.boxes, item.Box)
			node.box = node.box.Union(item.Box)
			t.slotLeaf[item.Slot] = n
		}
		return n
	}

	// Split at the median of the longer centroid axis.
	b := items[0].Box
	for _, item := range items[1:] {
		b = b.Union(item.Box)
	}
	if b.MaxX-b.MinX >= b.MaxY-b.MinY {
		sort.SliceStable(items, func(i, j int) bool {
			return t.arith.Mid(items[i].Box.MinX, items[i].Box.MaxX) < t.arith.Mid(items[j].Box.MinX, items[j].Box.MaxX)
		})
	} else {
		sort.SliceStable(items, func(i, j int) bool {
			return t.arith.Mid(items[i].Box.MinY, items[i].Box.MaxY) < t.arith.Mid(items[j].Box.MinY, items[j].Box.MaxY)
		})
	}
	mid := len(items) / 2

	n := t.allocNode()
	t.nodes[n].parent = parent
	left := t.buildSubtree(items[:mid], n)
	right := t.buildSubtree(items[mid:], n)
	t.nodes[n].left = left
	t.nodes[n].right = right
	t.nodes[n].box = t.nodes[left].box.Union(t.nodes[right].box)
	return n
}

func (t *BVH[T, A, R]) allocNode() int {
	if n := len(t.freeNodes); n > 0 {
		idx := t.freeNodes[n-1]
		t.freeNodes = t.freeNodes[:n-1]
		t.nodes[idx] = bvhNode[T]{parent: -1, left: -1, right: -1}
		return idx
	}
	t.nodes = append(t.nodes, bvhNode[T]{parent: -1, left: -1, right: -1})
	return len(t.nodes) - 1
}

func (t *BVH[T, A, R]) freeNode(n int) {
	t.nodes[n] = bvhNode[T]{parent: -1, left: -1, right: -1}
	t.freeNodes = append(t.freeNodes, n)
}

func (t *BVH[T, A, R]) isLeaf(n int) bool { return t.nodes[n].left == -1 }

// refitUp widens (never shrinks) bounds from n to the root so the moved
// or inserted box stays covered.
func (t *BVH[T, A, R]) refitUp(n int, box Aabb[T]) {
	for n != -1 {
		node := &t.nodes[n]
		grown := node.box.Union(box)
		if grown == node.box {
			return
		}
		node.box = grown
		n = node.parent
	}
}

// recomputeUp recomputes exact bounds from n to the root. Used on remove,
// where bounds may shrink.
func (t *BVH[T, A, R]) recomputeUp(n int) {
	for n != -1 {
		node := &t.nodes[n]
		if t.isLeaf(n) {
			b := node.boxes[0]
			for _, bb := range node.boxes[1:] {
				b = b.Union(bb)
			}
			node.box = b
		} else {
			node.box = t.nodes[node.left].box.Union(t.nodes[node.right].box)
		}
		n = node.parent
	}
}

func (t *BVH[T, A, R]) Insert(slot int, box Aabb[T]) {
	if _, ok := t.slotLeaf[slot]; ok {
		t.Remove(slot)
	}
	if t.root == -1 {
		t.root = t.allocNode()
		t.nodes[t.root].box = box
	}

	// Descend toward the child needing the least enlargement.
	n := t.root
	for !t.isLeaf(n) {
		node := &t.nodes[n]
		dl := Area(t.arith, t.nodes[node.left].box.Union(box)) - Area(t.arith, t.nodes[node.left].box)
		dr := Area(t.arith, t.nodes[node.right].box.Union(box)) - Area(t.arith, t.nodes[node.right].box)
		if dl < dr || (dl == dr && Area(t.arith, t.nodes[node.left].box) <= Area(t.arith, t.nodes[node.right].box)) {
			n = node.left
		} else {
			n = node.right
		}
	}

	leaf := &t.nodes[n]
	leaf.slots = append(leaf.slots, slot)
	leaf.boxes = append(leaf.boxes, box)
	t.slotLeaf[slot] = n
	t.refitUp(n, box)

	if len(t.nodes[n].slots) > bvhMaxLeaf {
		t.splitLeaf(n)
	}
}

// splitLeaf turns an overflowing leaf into an internal node with two
// fresh leaf children chosen by the SAH split.
func (t *BVH[T, A, R]) splitLeaf(n int) {
	slots := t.nodes[n].slots
	boxes := t.nodes[n].boxes
	order, k := sahSplit(t.arith, boxes, 1)

	left := t.allocNode()
	right := t.allocNode()
	for _, i := range order[:k] {
		t.nodes[left].slots = append(t.nodes[left].slots, slots[i])
		t.nodes[left].boxes = append(t.nodes[left].boxes, boxes[i])
		t.slotLeaf[slots[i]] = left
	}
	for _, i := range order[k:] {
		t.nodes[right].slots = append(t.nodes[right].slots, slots[i])
		t.nodes[right].boxes = append(t.nodes[right].boxes, boxes[i])
		t.slotLeaf[slots[i]] = right
	}
	for _, c := range []int{left, right} {
		node := &t.nodes[c]
		node.parent = n
		node.box = node.boxes[0]
		for _, b := range node.boxes[1:] {
			node.box = node.box.Union(b)
		}
	}

	node := &t.nodes[n]
	node.slots = nil
	node.boxes = nil
	node.left = left
	node.right = right
	node.box = t.nodes[left].box.Union(t.nodes[right].box)
}

func (t *BVH[T, A, R]) Remove(slot int) {
	n, ok := t.slotLeaf[slot]
	if !ok {
		return
	}
	delete(t.slotLeaf, slot)
	node := &t.nodes[n]
	for i := range node.slots {
		if node.slots[i] == slot {
			last := len(node.slots) - 1
			node.slots[i] = node.slots[last]
			node.boxes[i] = node.boxes[last]
			node.slots = node.slots[:last]
			node.boxes = node.boxes[:last]
			break
		}
	}

	if len(node.slots) > 0 {
		t.recomputeUp(n)
		return
	}

	// The leaf emptied: collapse its sibling into the parent slot.
	p := node.parent
	if p == -1 {
		t.freeNode(n)
		t.root = -1
		return
	}
	sib := t.nodes[p].left
	if sib == n {
		sib = t.nodes[p].right
	}
	grand := t.nodes[p].parent
	t.nodes[sib].parent = grand
	if grand == -1 {
		t.root = sib
	} else if t.nodes[grand].left == p {
		t.nodes[grand].left = sib
	} else {
		t.nodes[grand].right = sib
	}
	t.freeNode(n)
	t.freeNode(p)
	if grand != -1 {
		t.recomputeUp(grand)
	}
}

// Update refits the stored box in place and widens ancestors. Bounds are
// not tightened, so queries remain correct while the tree may loosen.
func (t *BVH[T, A, R]) Update(slot int, box Aabb[T]) {
	n, ok := t.slotLeaf[slot]
	if !ok {
		t.Insert(slot, box)
		return
	}
	node := &t.nodes[n]
	for i := range node.slots {
		if node.slots[i] == slot {
			if node.boxes[i] == box {
				return
			}
			node.boxes[i] = box
			break
		}
	}
	t.refitUp(n, box)
}

func (t *BVH[T, A, R]) Clear() {
	t.nodes = t.nodes[:0]
	t.freeNodes = t.freeNodes[:0]
	t.root = -1
	t.slotLeaf = make(map[int]int)
}

func (t *BVH[T, A, R]) VisitPoint(x, y T, fn func(slot int)) {
	if t.root == -1 {
		return
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.nodes[n]
		if !node.box.ContainsPoint(x, y) {
			continue
		}
		if t.isLeaf(n) {
			for i, b := range node.boxes {
				if b.ContainsPoint(x, y) {
					fn(node.slots[i])
				}
			}
		} else {
			stack = append(stack, node.left, node.right)
		}
	}
}

func (t *BVH[T, A, R]) VisitRect(box Aabb[T], fn func(slot int)) {
	if t.root == -1 {
		return
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.nodes[n]
		if !node.box.Overlaps(box) {
			continue
		}
		if t.isLeaf(n) {
			for i, b := range node.boxes {
				if b.Overlaps(box) {
					fn(node.slots[i])
				}
			}
		} else {
			stack = append(stack, node.left, node.right)
		}
	}
}
