package understory

// Grid is a uniform bucket backend with a fixed cell size. AABBs are
// indexed under every cell they cover; queries touch only the cells
// overlapping the query primitive. A good fit for viewports and UI
// hit-testing where items are roughly uniform in screen space and query
// rectangles are small compared to the world extent.
type Grid[T Scalar, G GridArith[T]] struct {
	arith    G
	cellSize T
	originX  T
	originY  T
	cells    map[cellKey]*gridCell
	slots    []*gridSlot[T]
}

type cellKey struct {
	x, y int32
}

type gridCell struct {
	slots []int
}

type gridSlot[T Scalar] struct {
	box Aabb[T]
	// Cells currently containing this AABB.
	cells []cellKey
}

// GridF32 is a grid backend over float32 coordinates.
type GridF32 = Grid[float32, F32]

// GridF64 is a grid backend over float64 coordinates.
type GridF64 = Grid[float64, F64]

// GridI32 is a grid backend over int32 coordinates.
type GridI32 = Grid[int32, I32]

// NewGrid creates a grid backend with the given cell size and the origin
// at (0, 0). The cell size must be strictly positive.
func NewGrid[T Scalar, G GridArith[T]](cellSize T) *Grid[T, G] {
	var zero T
	return NewGridWithOrigin[T, G](cellSize, zero, zero)
}

// NewGridWithOrigin creates a grid backend with the given cell size and
// origin. The cell size must be strictly positive.
func NewGridWithOrigin[T Scalar, G GridArith[T]](cellSize, originX, originY T) *Grid[T, G] {
	var zero T
	if cellSize <= zero {
		panic("understory: grid cell size must be strictly positive")
	}
	return &Grid[T, G]{
		cellSize: cellSize,
		originX:  originX,
		originY:  originY,
		cells:    make(map[cellKey]*gridCell),
	}
}

func (g *Grid[T, G]) ensure(slot int) {
	for len(g.slots) <= slot {
		g.slots = append(g.slots, nil)
	}
}

func (g *Grid[T, G]) slotEntry(slot int) *gridSlot[T] {
	if slot >= len(g.slots) || g.slots[slot] == nil {
		panic("understory: grid invariant violated: cell references vacant slot")
	}
	return g.slots[slot]
}

func (g *Grid[T, G]) removeFromCells(slot int, cells []cellKey) {
	for _, key := range cells {
		cell := g.cells[key]
		if cell == nil {
			panic("understory: grid invariant violated: missing cell while removing slot")
		}
		pos := -1
		for i, s := range cell.slots {
			if s == slot {
				pos = i
				break
			}
		}
		if pos < 0 {
			panic("understory: grid invariant violated: slot not found in expected cell")
		}
		last := len(cell.slots) - 1
		cell.slots[pos] = cell.slots[last]
		cell.slots = cell.slots[:last]
		if len(cell.slots) == 0 {
			// Dropping empty cells keeps the map compact for sparse grids.
			delete(g.cells, key)
		}
	}
}

func (g *Grid[T, G]) cellRange(min, max, origin T) (int32, int32) {
	c0 := g.arith.CellCoord(min, origin, g.cellSize)
	c1 := g.arith.CellCoord(max, origin, g.cellSize)
	if c0 <= c1 {
		return c0, c1
	}
	return c1, c0
}

func (g *Grid[T, G]) coveredCells(box Aabb[T]) []cellKey {
	ix0, ix1 := g.cellRange(box.MinX, box.MaxX, g.originX)
	iy0, iy1 := g.cellRange(box.MinY, box.MaxY, g.originY)
	out := make([]cellKey, 0, 4)
	for ix := ix0; ; ix++ {
		for iy := iy0; ; iy++ {
			out = append(out, cellKey{ix, iy})
			if iy == iy1 {
				break
			}
		}
		if ix == ix1 {
			break
		}
	}
	return out
}

func (g *Grid[T, G]) Insert(slot int, box Aabb[T]) {
	g.ensure(slot)

	// If the slot was previously used, clean up its old cell memberships.
	if old := g.slots[slot]; old != nil {
		g.slots[slot] = nil
		g.removeFromCells(slot, old.cells)
	}

	cells := g.coveredCells(box)
	for _, key := range cells {
		cell := g.cells[key]
		if cell == nil {
			cell = &gridCell{}
			g.cells[key] = cell
		}
		cell.slots = append(cell.slots, slot)
	}
	g.slots[slot] = &gridSlot[T]{box: box, cells: cells}
}

func (g *Grid[T, G]) Update(slot int, box Aabb[T]) {
	if slot >= len(g.slots) || g.slots[slot] == nil {
		// Unknown slot: treat as an insert.
		g.Insert(slot, box)
		return
	}
	entry := g.slots[slot]
	if entry.box == box {
		return
	}
	g.slots[slot] = nil
	g.removeFromCells(slot, entry.cells)

	cells := g.coveredCells(box)
	for _, key := range cells {
		cell := g.cells[key]
		if cell == nil {
			cell = &gridCell{}
			g.cells[key] = cell
		}
		cell.slots = append(cell.slots, slot)
	}
	entry.box = box
	entry.cells = cells
	g.slots[slot] = entry
}

func (g *Grid[T, G]) Remove(slot int) {
	if slot >= len(g.slots) || g.slots[slot] == nil {
		return
	}
	entry := g.slots[slot]
	g.slots[slot] = nil
	g.removeFromCells(slot, entry.cells)
}

func (g *Grid[T, G]) Clear() {
	g.cells = make(map[cellKey]*gridCell)
	g.slots = g.slots[:0]
}

func (g *Grid[T, G]) VisitPoint(x, y T, fn func(slot int)) {
	key := cellKey{
		x: g.arith.CellCoord(x, g.originX, g.cellSize),
		y: g.arith.CellCoord(y, g.originY, g.cellSize),
	}
	cell := g.cells[key]
	if cell == nil {
		return
	}
	for _, slot := range cell.slots {
		if g.slotEntry(slot).box.ContainsPoint(x, y) {
			fn(slot)
		}
	}
}

func (g *Grid[T, G]) VisitRect(box Aabb[T], fn func(slot int)) {
	ix0, ix1 := g.cellRange(box.MinX, box.MaxX, g.originX)
	iy0, iy1 := g.cellRange(box.MinY, box.MaxY, g.originY)

	// An AABB spanning several cells is indexed under all of them; report
	// each matching slot once.
	seen := make(map[int]struct{})
	for ix := ix0; ; ix++ {
		for iy := iy0; ; iy++ {
			if cell := g.cells[cellKey{ix, iy}]; cell != nil {
				for _, slot := range cell.slots {
					if _, ok := seen[slot]; ok {
						continue
					}
					seen[slot] = struct{}{}
					if g.slotEntry(slot).box.Overlaps(box) {
						fn(slot)
					}
				}
			}
			if iy == iy1 {
				break
			}
		}
		if ix == ix1 {
			break
		}
	}
}
