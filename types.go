package understory

// NodeId addresses a node in a Tree. Ids are generational: after the
// node is removed the id goes stale and reads as not found, even once
// the slot is reused.
type NodeId struct {
	Slot, Gen uint32
}

// Newer reports whether n was issued after o: higher generation wins,
// then higher slot. Only used to order nodes deterministically, never
// for liveness.
func (n NodeId) Newer(o NodeId) bool {
	if n.Gen != o.Gen {
		return n.Gen > o.Gen
	}
	return n.Slot > o.Slot
}

// NodeFlags is a bitset of per-node behavior flags.
type NodeFlags uint8

const (
	// FlagVisible marks the node as drawn; hit tests usually require it.
	FlagVisible NodeFlags = 1 << iota
	// FlagPickable opts the node into hit testing.
	FlagPickable
	// FlagFocusable marks the node as a keyboard focus stop.
	FlagFocusable
)

// Has reports whether every flag in want is set.
func (f NodeFlags) Has(want NodeFlags) bool {
	return f&want == want
}

// ClipBehavior controls how a node's clip composes with its ancestors'.
type ClipBehavior uint8

const (
	// ClipInherit intersects the local clip, if any, with the inherited
	// clip. The zero value.
	ClipInherit ClipBehavior = iota
	// ClipPreferLocal uses the local clip when present and ignores the
	// inherited clip; without a local clip it inherits.
	ClipPreferLocal
	// ClipNone disables clipping for the node: neither its own clip nor
	// any ancestor clip constrains it, and it passes no clip to
	// descendants.
	ClipNone
)

// LocalNode is the author-facing description of one node: geometry in
// the node's own coordinate space plus paint-order and behavior knobs.
// The zero value is a zero-size, unflagged node; a zero Transform is
// read as identity.
type LocalNode struct {
	// Bounds is the node's untransformed rectangle.
	Bounds Rect
	// Transform maps the node's space into its parent's.
	Transform Affine
	// Clip, when non-nil, constrains the node and (subject to
	// ClipBehavior) its descendants. Bounds math uses the clip's
	// rectangle; the corner radius is carried for precise testing.
	Clip *RoundedRect
	// ClipBehavior selects how Clip composes with inherited clips.
	ClipBehavior ClipBehavior
	// ZIndex orders hit-test results; higher wins. Siblings at equal z
	// keep insertion order.
	ZIndex int32
	// Flags holds the node's behavior bits.
	Flags NodeFlags
}

// QueryFilter restricts hit tests and rectangle queries to nodes whose
// flags contain every required bit. The zero filter matches all nodes.
type QueryFilter struct {
	Require NodeFlags
}

// VisiblePickable is the usual pointer-input filter.
func VisiblePickable() QueryFilter {
	return QueryFilter{Require: FlagVisible | FlagPickable}
}

// Matches reports whether a node with the given flags passes the filter.
func (f QueryFilter) Matches(flags NodeFlags) bool {
	return flags.Has(f.Require)
}

// Hit is a resolved hit-test result: the winning node and its
// root-to-node path, inclusive on both ends.
type Hit struct {
	Node NodeId
	Path []NodeId
}

// HitCandidate is one accepted candidate during hit testing, as seen by
// a TieBreakPolicy. Depth is the length of the root-to-node path.
type HitCandidate struct {
	Node   NodeId
	ZIndex int32
	Depth  int
}

// TieBreakPolicy orders accepted hit-test candidates. Better reports
// whether a should win over b; it is only consulted with a != b and must
// induce a strict total order for hit testing to be deterministic.
type TieBreakPolicy interface {
	Better(a, b HitCandidate) bool
}

// zDepthRecency is the default ordering: higher z wins, then the deeper
// node, then the newer id.
type zDepthRecency struct{}

func (zDepthRecency) Better(a, b HitCandidate) bool {
	if a.ZIndex != b.ZIndex {
		return a.ZIndex > b.ZIndex
	}
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.Node.Newer(b.Node)
}

// TieBreakZDepthRecency returns the default hit-test ordering: higher
// z index first, then greater path depth, then the newer NodeId.
func TieBreakZDepthRecency() TieBreakPolicy {
	return zDepthRecency{}
}
