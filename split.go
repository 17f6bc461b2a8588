package understory

import "sort"

// sahSplit chooses an axis ordering and split position for a set of boxes
// using the surface-area-heuristic-like cost
//
//	cost(k) = area(bounds(items[0:k]))*k + area(bounds(items[k:n]))*(n-k)
//
// evaluated for every k in O(n) per axis via running prefix/suffix
// bounding boxes, with the minimum taken across both axes. All area math
// goes through the widened accumulator. The returned order holds indices
// into boxes sorted along the winning axis; the split keeps order[:k] in
// the left group and order[k:] in the right.
//
// minPer bounds the smallest group; it is clamped so a valid split always
// exists for n >= 2.
func sahSplit[T Scalar, A Acc](ar Arith[T, A], boxes []Aabb[T], minPer int) (order []int, k int) {
	n := len(boxes)
	if n < 2 {
		panic("understory: sah split needs at least two boxes")
	}
	if minPer < 1 {
		minPer = 1
	}
	for 2*minPer > n {
		minPer--
	}

	centerX := func(b Aabb[T]) T { return ar.Mid(b.MinX, b.MaxX) }
	centerY := func(b Aabb[T]) T { return ar.Mid(b.MinY, b.MaxY) }

	prefix := make([]Aabb[T], n)
	suffix := make([]Aabb[T], n)

	var bestOrder []int
	bestK := -1
	var bestCost A
	haveBest := false

	for axis := 0; axis < 2; axis++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		center := centerX
		if axis == 1 {
			center = centerY
		}
		sort.Slice(idx, func(i, j int) bool {
			return center(boxes[idx[i]]) < center(boxes[idx[j]])
		})

		prefix[0] = boxes[idx[0]]
		for i := 1; i < n; i++ {
			prefix[i] = prefix[i-1].Union(boxes[idx[i]])
		}
		suffix[n-1] = boxes[idx[n-1]]
		for i := n - 2; i >= 0; i-- {
			suffix[i] = suffix[i+1].Union(boxes[idx[i]])
		}

		for split := minPer; split <= n-minPer; split++ {
			cost := Area(ar, prefix[split-1])*ar.AccOf(split) +
				Area(ar, suffix[split])*ar.AccOf(n-split)
			if !haveBest || cost < bestCost {
				bestCost = cost
				bestK = split
				bestOrder = append(bestOrder[:0], idx...)
				haveBest = true
			}
		}
	}
	return bestOrder, bestK
}
