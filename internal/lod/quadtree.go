// Package lod selects per-region mesh resolution for the ocean surface with a
// quadtree centred on a focus point, stitching edges between resolutions.
package lod

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"ocean/internal/core"
)

// Viewer supplies the horizontal view direction used for culling.
type Viewer interface {
	ViewVector() mgl64.Vec2
}

// Options configures a QuadTree.
type Options struct {
	// GridSize is the side length of the lattice in cells, a power of two.
	GridSize int
	// Focus is the point the mesh is refined around.
	Focus Point
	// Addition widens the refinement margin around the focus, per level.
	Addition int
	// Levels is how many of the finest levels may stay coarse; every level
	// above that is always subdivided.
	Levels int
	// Wireframe emits line lists instead of triangle lists.
	Wireframe bool
}

// QuadTree holds every block of every level; level 0 is the root covering the
// whole grid and level log2(GridSize) holds single cells. Blocks of a level
// are stored row-major so children are found by index arithmetic.
type QuadTree struct {
	opts      Options
	viewer    Viewer
	numLODs   int
	minLOD    int
	levels    [][]*Block
	positions []float32
	active    []*Block
	visible   []*Block
}

// New validates opts, builds all blocks and performs an initial refresh.
func New(opts Options, viewer Viewer) (*QuadTree, error) {
	if err := core.ValidateSize("lod grid size", opts.GridSize); err != nil {
		return nil, err
	}
	if opts.Addition < 0 {
		return nil, &core.ConfigError{Field: "lod addition", Value: opts.Addition, Reason: "must not be negative"}
	}
	if opts.Levels < 0 {
		return nil, &core.ConfigError{Field: "lod levels", Value: opts.Levels, Reason: "must not be negative"}
	}
	n := opts.GridSize
	q := &QuadTree{
		opts:    opts,
		viewer:  viewer,
		numLODs: core.Log2(n),
	}
	q.minLOD = max(q.numLODs-opts.Levels, 0)
	q.buildPositions()
	q.buildLevels()
	q.Refresh()
	return q, nil
}

func (q *QuadTree) buildPositions() {
	n := q.opts.GridSize
	half := n / 2
	q.positions = make([]float32, 0, (n+1)*(n+1)*2)
	for row := 0; row <= n; row++ {
		for col := 0; col <= n; col++ {
			q.positions = append(q.positions, float32(col-half), float32(row-half))
		}
	}
}

func (q *QuadTree) buildLevels() {
	n := q.opts.GridSize
	half := n / 2
	q.levels = make([][]*Block, q.numLODs+1)
	for level := 0; level <= q.numLODs; level++ {
		span := n >> level
		count := 1 << level
		stitch := level > 0 && level < q.numLODs
		blocks := make([]*Block, count*count)
		for row := 0; row < count; row++ {
			for col := 0; col < count; col++ {
				top := row*span - half
				left := col*span - half
				b := &Block{
					Level:     level,
					LevelSize: span,
					Row:       row,
					Col:       col,
					Top:       top,
					Left:      left,
					Bottom:    top + span,
					Right:     left + span,
					Center:    Point{X: float64(left) + float64(span)/2, Y: float64(top) + float64(span)/2},
					stitched:  stitch,
					variants:  buildVariants(n, row, col, span, stitch, q.opts.Wireframe),
				}
				b.Distance = math.Hypot(b.Center.X-q.opts.Focus.X, b.Center.Y-q.opts.Focus.Y)
				blocks[row*count+col] = b
			}
		}
		q.levels[level] = blocks
	}
}

// Refresh re-selects the active blocks around the focus and culls them.
func (q *QuadTree) Refresh() {
	q.active = q.active[:0]
	q.walk(q.Root())
	q.Cull()
}

func (q *QuadTree) walk(b *Block) {
	p := q.opts.Focus
	if b.Contains(p, float64(q.opts.Addition)) || q.IsNeighbor(b, p) || b.Level < q.minLOD {
		if children := q.Children(b); len(children) > 0 {
			for _, c := range children {
				q.walk(c)
			}
			return
		}
	}
	b.side = q.SideBoundary(b, p)
	q.active = append(q.active, b)
}

// Cull keeps the active blocks whose centre lies within 90° of the view vector.
func (q *QuadTree) Cull() {
	q.visible = q.visible[:0]
	view := mgl64.Vec2{0, -1}
	if q.viewer != nil {
		view = q.viewer.ViewVector()
	}
	for _, b := range q.active {
		if IsVisible(b.Center, view) {
			q.visible = append(q.visible, b)
		}
	}
}

// SetFocus moves the refinement point. It takes effect on the next Refresh.
func (q *QuadTree) SetFocus(p Point) { q.opts.Focus = p }

// Focus returns the refinement point.
func (q *QuadTree) Focus() Point { return q.opts.Focus }

// Root returns the level-0 block.
func (q *QuadTree) Root() *Block { return q.levels[0][0] }

// Level returns the blocks of one level in row-major order.
func (q *QuadTree) Level(level int) []*Block { return q.levels[level] }

// NumLODs is log2 of the grid size, the level of single-cell blocks.
func (q *QuadTree) NumLODs() int { return q.numLODs }

// MinLOD is the coarsest level a block may be drawn at.
func (q *QuadTree) MinLOD() int { return q.minLOD }

// GridSize returns the lattice side length in cells.
func (q *QuadTree) GridSize() int { return q.opts.GridSize }

// Active returns the blocks selected by the last refresh.
func (q *QuadTree) Active() []*Block { return q.active }

// Visible returns the active blocks that survived the last cull, in walk order.
func (q *QuadTree) Visible() []*Block { return q.visible }

// Positions returns the shared vertex lattice as interleaved x,y pairs.
func (q *QuadTree) Positions() []float32 { return q.positions }

// Children returns the four blocks one level finer that cover b, or nil for
// single-cell blocks.
func (q *QuadTree) Children(b *Block) []*Block {
	if b.Level >= q.numLODs {
		return nil
	}
	next := q.levels[b.Level+1]
	count := 1 << (b.Level + 1)
	r, c := 2*b.Row, 2*b.Col
	return []*Block{
		next[r*count+c],
		next[r*count+c+1],
		next[(r+1)*count+c],
		next[(r+1)*count+c+1],
	}
}

// PositionAtLevel snaps p down to the lattice of blocks with the given span.
func PositionAtLevel(levelSize int, p Point) Point {
	ls := float64(levelSize)
	return Point{X: math.Floor(p.X/ls) * ls, Y: math.Floor(p.Y/ls) * ls}
}

// IsNeighbor reports whether b lies within one block span, plus the per-level
// margin, of the block containing p.
func (q *QuadTree) IsNeighbor(b *Block, p Point) bool {
	return q.within(b, p, b.LevelSize)
}

// IsSideBoundary is IsNeighbor with the parent level's span.
func (q *QuadTree) IsSideBoundary(b *Block, p Point) bool {
	return q.within(b, p, b.LevelSize<<1)
}

func (q *QuadTree) within(b *Block, p Point, span int) bool {
	pos := PositionAtLevel(b.LevelSize, p)
	limit := float64(span + q.opts.Addition*(q.numLODs-b.Level))
	return math.Abs(float64(b.Top)-pos.Y) <= limit && math.Abs(float64(b.Left)-pos.X) <= limit
}

// SideBoundary picks the edge of b that faces the finer region around p. A
// block in the same row as p stitches its left or right edge, one in the same
// column its top or bottom edge; otherwise the axis with the larger offset
// wins and equal offsets keep the default mesh.
func (q *QuadTree) SideBoundary(b *Block, p Point) Edge {
	if !q.IsSideBoundary(b, p) {
		return EdgeNone
	}
	pos := PositionAtLevel(b.LevelSize, p)
	dLeft := float64(b.Left) - pos.X
	dTop := float64(b.Top) - pos.Y
	horizontal := func() Edge {
		if dLeft > 0 {
			return EdgeLeft
		}
		return EdgeRight
	}
	vertical := func() Edge {
		if dTop > 0 {
			return EdgeTop
		}
		return EdgeBottom
	}
	switch {
	case float64(b.Top) == pos.Y:
		return horizontal()
	case float64(b.Left) == pos.X:
		return vertical()
	case math.Abs(dTop) > math.Abs(dLeft):
		return vertical()
	case math.Abs(dTop) < math.Abs(dLeft):
		return horizontal()
	}
	return EdgeNone
}

// IsVisible reports whether the angle between center and view is at most 90°.
// A zero vector on either side counts as visible.
func IsVisible(center Point, view mgl64.Vec2) bool {
	c := mgl64.Vec2{center.X, center.Y}
	lc, lv := c.Len(), view.Len()
	if lc == 0 || lv == 0 {
		return true
	}
	cos := c.Dot(view) / (lc * lv)
	return math.Acos(mgl64.Clamp(cos, -1, 1)) <= math.Pi/2
}
