// Package understory is the spatial core of a retained-mode UI scene: a
// hierarchical box tree (transform, bounds, clip, z-order per node) over
// a generic, pluggable 2D AABB index.
//
// It answers "what is under this point?" and "what overlaps this
// rectangle?" deterministically while the scene mutates, and tracks
// coarse damage so a painter knows what to repaint.
//
// # Box tree
//
// Every region is a node in a [Tree]. Mutations are staged: setters mark
// dirty state and return, and a single [Tree.Commit] recomputes world
// transforms, clips and bounds top-down, publishes the AABBs into the
// index, and returns the [Damage] of the batch.
//
//	tree := understory.NewTree()
//	root := tree.Insert(understory.NodeId{}, understory.LocalNode{
//		Bounds: understory.RectXYWH(0, 0, 640, 480),
//		Flags:  understory.FlagVisible | understory.FlagPickable,
//	})
//	button := tree.Insert(root, understory.LocalNode{
//		Bounds: understory.RectXYWH(20, 20, 120, 40),
//		Flags:  understory.FlagVisible | understory.FlagPickable,
//	})
//	_ = button
//	damage := tree.Commit()
//	hit, ok := tree.HitTestPoint(understory.Point{X: 50, Y: 30},
//		understory.VisiblePickable())
//
// Handles ([NodeId], [Key]) are generational: holding one past removal
// is safe and simply reads as not found.
//
// # Index backends
//
// The [Index] runs over any [Backend]: [FlatVec] (linear scan, the
// default), [Grid] (uniform buckets), [RTree] and [BVH] (SAH-split
// hierarchies). All return the same results; pick by scene size and
// mutation pattern via [NewTreeWith].
//
// # Hit testing
//
// [Tree.HitTestPoint] culls by AABB, then tests candidates against local
// bounds and the clip chain, and ranks survivors: higher z wins, then
// the deeper node, then the newer id. The ordering is pluggable via
// [TieBreakPolicy].
//
// Tween helpers ([TweenPosition], [TweenBounds], via [gween]) animate
// staged node values frame by frame.
//
// [gween]: https://github.com/tanema/gween
package understory
