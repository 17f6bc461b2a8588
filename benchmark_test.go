package understory

import (
	"fmt"
	"testing"
)

// setupBenchTree builds a tree with n leaf nodes under one root, laid
// out on a 40-spacing grid, committed and ready to query.
func setupBenchTree(backend Backend[float64], n int) (*Tree, []NodeId) {
	tr := NewTreeWith(backend, nil)
	root := tr.Insert(NodeId{}, visiblePickableNode(RectXYWH(0, 0, 4000, 4000)))
	ids := make([]NodeId, 0, n)
	for i := 0; i < n; i++ {
		x := float64(i%100) * 40
		y := float64(i/100) * 40
		ids = append(ids, tr.Insert(root, visiblePickableNode(RectXYWH(x, y, 32, 32))))
	}
	tr.Commit()
	return tr, ids
}

func benchBackends() map[string]func() Backend[float64] {
	return map[string]func() Backend[float64]{
		"flatvec": func() Backend[float64] { return NewFlatVec[float64]() },
		"grid":    func() Backend[float64] { return NewGrid[float64, F64](64) },
		"rtree":   func() Backend[float64] { return NewRTree[float64, float64, F64]() },
		"bvh":     func() Backend[float64] { return NewBVH[float64, float64, F64]() },
	}
}

// --- Hit testing ---

func BenchmarkHitTest_10000Nodes(b *testing.B) {
	for name, mk := range benchBackends() {
		b.Run(name, func(b *testing.B) {
			tr, _ := setupBenchTree(mk(), 10000)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				p := Point{X: float64(i%4000) + 0.5, Y: float64((i*7)%4000) + 0.5}
				tr.HitTestPoint(p, VisiblePickable())
			}
		})
	}
}

func BenchmarkIntersectRect_10000Nodes(b *testing.B) {
	for name, mk := range benchBackends() {
		b.Run(name, func(b *testing.B) {
			tr, _ := setupBenchTree(mk(), 10000)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				x := float64(i % 3800)
				tr.IntersectRect(NewRect(x, x, x+120, x+120), VisiblePickable())
			}
		})
	}
}

// --- Commit ---

func BenchmarkCommit_1000Moving(b *testing.B) {
	for name, mk := range benchBackends() {
		b.Run(name, func(b *testing.B) {
			tr, ids := setupBenchTree(mk(), 1000)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				d := float64(i%17) + 1
				for _, id := range ids {
					tr.SetLocalTransform(id, TranslateAffine(d, d))
				}
				tr.Commit()
			}
		})
	}
}

func BenchmarkCommit_CleanTree(b *testing.B) {
	tr, _ := setupBenchTree(NewFlatVec[float64](), 10000)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tr.Commit()
	}
}

// --- Raw backend churn ---

func BenchmarkBackendInsertRemove(b *testing.B) {
	for name, mk := range benchBackends() {
		b.Run(name, func(b *testing.B) {
			backend := mk()
			boxes := make([]Aabb[float64], 512)
			for i := range boxes {
				x := float64(i%32) * 20
				y := float64(i/32) * 20
				boxes[i] = NewAabb(x, y, x+16, y+16)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				slot := i % 512
				backend.Insert(slot, boxes[slot])
				if i%2 == 1 {
					backend.Remove(slot)
				}
			}
		})
	}
}

func BenchmarkBulkBuild(b *testing.B) {
	items := gridOfBoxes(100)
	b.Run(fmt.Sprintf("rtree-%d", len(items)), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			NewRTreeBulk[float64, float64, F64](items)
		}
	})
	b.Run(fmt.Sprintf("bvh-%d", len(items)), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			NewBVHBulk[float64, float64, F64](items)
		}
	})
}
