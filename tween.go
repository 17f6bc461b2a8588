package understory

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 staged values on one tree node. Create one
// via the convenience constructors (TweenPosition, TweenBounds) and call
// Update(dt) each frame before Commit; values are staged through the
// node's setters, so they take effect at the next Commit like any other
// mutation. If the target node is removed, the group stops immediately.
//
// There is no global animation manager; callers drive Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(t *Tree, id NodeId, vals [4]float64)
	tree   *Tree
	node   NodeId
	Done   bool
}

// Update advances all tweens by dt seconds and stages the new values on
// the target node. If the node has been removed, Done is set and nothing
// is staged.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if !g.tree.IsAlive(g.node) {
		g.Done = true
		return
	}

	var vals [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(g.tree, g.node, vals)
}

// TweenPosition creates a TweenGroup that animates the translation part
// of the node's local transform to (toX, toY) over the given duration
// using the easing function.
func TweenPosition(tree *Tree, node NodeId, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	local, _ := tree.Local(node)
	m := local.Transform
	if m.IsZero() {
		m = IdentityAffine
	}
	g := &TweenGroup{count: 2, tree: tree, node: node}
	g.tweens[0] = gween.New(float32(m[4]), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(m[5]), float32(toY), duration, fn)
	g.apply = func(t *Tree, id NodeId, vals [4]float64) {
		local, ok := t.Local(id)
		if !ok {
			return
		}
		m := local.Transform
		if m.IsZero() {
			m = IdentityAffine
		}
		m[4], m[5] = vals[0], vals[1]
		t.SetLocalTransform(id, m)
	}
	return g
}

// TweenBounds creates a TweenGroup that animates the node's local bounds
// to the target rectangle over the given duration using the easing
// function.
func TweenBounds(tree *Tree, node NodeId, to Rect, duration float32, fn ease.TweenFunc) *TweenGroup {
	local, _ := tree.Local(node)
	from := local.Bounds
	g := &TweenGroup{count: 4, tree: tree, node: node}
	g.tweens[0] = gween.New(float32(from.X0), float32(to.X0), duration, fn)
	g.tweens[1] = gween.New(float32(from.Y0), float32(to.Y0), duration, fn)
	g.tweens[2] = gween.New(float32(from.X1), float32(to.X1), duration, fn)
	g.tweens[3] = gween.New(float32(from.Y1), float32(to.Y1), duration, fn)
	g.apply = func(t *Tree, id NodeId, vals [4]float64) {
		t.SetLocalBounds(id, Rect{X0: vals[0], Y0: vals[1], X1: vals[2], Y1: vals[3]})
	}
	return g
}
