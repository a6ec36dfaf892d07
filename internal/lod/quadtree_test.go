package lod

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocean/internal/core"
)

type fixedView mgl64.Vec2

func (v fixedView) ViewVector() mgl64.Vec2 { return mgl64.Vec2(v) }

func newTree(t *testing.T, opts Options) *QuadTree {
	t.Helper()
	q, err := New(opts, fixedView{0, -1})
	require.NoError(t, err)
	return q
}

type cell struct{ x, y int }

// ownerMap assigns every grid cell to the active block covering it and fails
// on overlaps.
func ownerMap(t *testing.T, q *QuadTree) map[cell]*Block {
	t.Helper()
	owners := make(map[cell]*Block)
	for _, b := range q.Active() {
		for y := b.Top; y < b.Bottom; y++ {
			for x := b.Left; x < b.Right; x++ {
				_, taken := owners[cell{x, y}]
				require.False(t, taken, "cell %d,%d covered twice", x, y)
				owners[cell{x, y}] = b
			}
		}
	}
	return owners
}

// edgeCells lists the cells just outside edge e of b.
func edgeCells(b *Block, e Edge) []cell {
	var cells []cell
	for i := 0; i < b.LevelSize; i++ {
		switch e {
		case EdgeTop:
			cells = append(cells, cell{b.Left + i, b.Top - 1})
		case EdgeBottom:
			cells = append(cells, cell{b.Left + i, b.Bottom})
		case EdgeLeft:
			cells = append(cells, cell{b.Left - 1, b.Top + i})
		case EdgeRight:
			cells = append(cells, cell{b.Right, b.Top + i})
		}
	}
	return cells
}

func midpoint(q *QuadTree, b *Block, e Edge) uint32 {
	n := q.GridSize()
	half := n / 2
	row, col := b.Top+half, b.Left+half
	s := b.LevelSize
	switch e {
	case EdgeTop:
		return latticeIndex(n, row, col+s/2)
	case EdgeBottom:
		return latticeIndex(n, row+s, col+s/2)
	case EdgeLeft:
		return latticeIndex(n, row+s/2, col)
	default:
		return latticeIndex(n, row+s/2, col+s)
	}
}

// assertSeamless checks that a block stitches exactly the edge that borders a
// finer block, and that the stitched mesh uses that edge's midpoint.
func assertSeamless(t *testing.T, q *QuadTree) {
	t.Helper()
	owners := ownerMap(t, q)
	n := q.GridSize()
	require.Len(t, owners, n*n, "active blocks must tile the grid")
	for _, b := range q.Active() {
		if b.LevelSize < 2 {
			continue
		}
		for e := EdgeTop; e < edgeCount; e++ {
			finer := false
			for _, c := range edgeCells(b, e) {
				if nb, ok := owners[c]; ok && nb.LevelSize < b.LevelSize {
					finer = true
				}
			}
			stitched := b.Stitched() && b.Side() == e
			assert.Equal(t, finer, stitched, "block level %d at %d,%d edge %s", b.Level, b.Left, b.Top, e)
			if stitched {
				assert.Contains(t, b.Indices(), midpoint(q, b, e))
			}
		}
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	var cfg *core.ConfigError
	_, err := New(Options{GridSize: 100, Levels: 4}, nil)
	require.True(t, errors.As(err, &cfg))
	_, err = New(Options{GridSize: 64, Addition: -1}, nil)
	require.True(t, errors.As(err, &cfg))
	_, err = New(Options{GridSize: 64, Levels: -2}, nil)
	require.True(t, errors.As(err, &cfg))
}

func TestChildrenPartitionParent(t *testing.T) {
	q := newTree(t, Options{GridSize: 32, Levels: 5})
	for level := 0; level < q.NumLODs(); level++ {
		for _, b := range q.Level(level) {
			children := q.Children(b)
			require.Len(t, children, 4)
			area := 0
			for _, c := range children {
				assert.Equal(t, b.Level+1, c.Level)
				assert.GreaterOrEqual(t, c.Top, b.Top)
				assert.GreaterOrEqual(t, c.Left, b.Left)
				assert.LessOrEqual(t, c.Bottom, b.Bottom)
				assert.LessOrEqual(t, c.Right, b.Right)
				area += c.LevelSize * c.LevelSize
			}
			assert.Equal(t, b.LevelSize*b.LevelSize, area)
		}
	}
	assert.Nil(t, q.Children(q.Level(q.NumLODs())[0]))
}

func TestSmallGridSelection(t *testing.T) {
	q := newTree(t, Options{GridSize: 8, Levels: 3})
	assert.Equal(t, 0, q.MinLOD())
	require.Len(t, q.Active(), 43)
	assertSeamless(t, q)

	coarse := map[[2]int]Edge{}
	for _, b := range q.Active() {
		if b.Level == 2 {
			coarse[[2]int{b.Left, b.Top}] = b.Side()
		}
	}
	assert.Equal(t, map[[2]int]Edge{
		{-4, -4}: EdgeNone,
		{-2, -4}: EdgeBottom,
		{0, -4}:  EdgeBottom,
		{2, -4}:  EdgeBottom,
		{-4, -2}: EdgeRight,
		{-4, 0}:  EdgeRight,
		{-4, 2}:  EdgeRight,
	}, coarse)
}

func TestDefaultScenarioRespectsMinLOD(t *testing.T) {
	q := newTree(t, Options{GridSize: 256, Levels: 4})
	assert.Equal(t, 4, q.MinLOD())
	for _, b := range q.Active() {
		assert.GreaterOrEqual(t, b.Level, 4)
	}
	assert.Len(t, q.Active(), 364)
	assertSeamless(t, q)

	q.SetFocus(Point{X: 40, Y: -72})
	q.Refresh()
	assert.Len(t, q.Active(), 364, "active count does not depend on where the focus is")
	assertSeamless(t, q)
}

func TestSeamlessWithMargin(t *testing.T) {
	for _, focus := range []Point{{0, 0}, {3.5, -7.2}} {
		q := newTree(t, Options{GridSize: 128, Levels: 4, Addition: 16, Focus: focus})
		assert.Len(t, q.Active(), 3097)
		assertSeamless(t, q)
	}
	q := newTree(t, Options{GridSize: 64, Levels: 6, Addition: 2, Focus: Point{5, 5}})
	assertSeamless(t, q)
}

func TestVariantsCoverBlock(t *testing.T) {
	q := newTree(t, Options{GridSize: 16, Levels: 4})
	pos := q.Positions()
	require.Len(t, pos, 17*17*2)
	for _, b := range q.Level(2) {
		require.True(t, b.Stitched())
		for e := EdgeNone; e < edgeCount; e++ {
			idx := b.Variant(e)
			area := 0.0
			for i := 0; i < len(idx); i += 3 {
				ax, ay := pos[2*idx[i]], pos[2*idx[i]+1]
				bx, by := pos[2*idx[i+1]], pos[2*idx[i+1]+1]
				cx, cy := pos[2*idx[i+2]], pos[2*idx[i+2]+1]
				cross := float64((bx-ax)*(cy-ay) - (by-ay)*(cx-ax))
				assert.Greater(t, cross, 0.0, "edge %s keeps the winding", e)
				area += cross / 2
			}
			assert.InDelta(t, float64(b.LevelSize*b.LevelSize), area, 1e-9)
		}
		assert.Len(t, b.Variant(EdgeNone), 6)
		assert.Len(t, b.Variant(EdgeLeft), 9)
	}
	assert.False(t, q.Root().Stitched())
	assert.False(t, q.Level(4)[0].Stitched())
}

func TestWireframeEmitsLines(t *testing.T) {
	q := newTree(t, Options{GridSize: 16, Levels: 4, Wireframe: true})
	b := q.Level(1)[0]
	assert.Len(t, b.Variant(EdgeNone), 12)
	assert.Len(t, b.Variant(EdgeTop), 18)
}

func TestVisibility(t *testing.T) {
	view := mgl64.Vec2{0, -1}
	assert.False(t, IsVisible(Point{0, 100}, view))
	assert.True(t, IsVisible(Point{0, -100}, view))
	assert.True(t, IsVisible(Point{100, 0}, view), "perpendicular is on the boundary")
	assert.True(t, IsVisible(Point{}, view))

	q := newTree(t, Options{GridSize: 64, Levels: 6})
	for _, b := range q.Visible() {
		assert.LessOrEqual(t, b.Center.Y, 0.0)
	}
	assert.Less(t, len(q.Visible()), len(q.Active()))

	q.viewer = fixedView{0, 1}
	q.Cull()
	for _, b := range q.Visible() {
		assert.GreaterOrEqual(t, b.Center.Y, 0.0)
	}
}

func TestDistanceFromFocus(t *testing.T) {
	q := newTree(t, Options{GridSize: 8, Levels: 3, Focus: Point{1, 1}})
	b := q.Level(3)[4*8+4]
	assert.Equal(t, 0, b.Top)
	assert.InDelta(t, 0.7071, b.Distance, 1e-4)
}

func TestPositionAtLevel(t *testing.T) {
	assert.Equal(t, Point{X: -16, Y: 32}, PositionAtLevel(16, Point{X: -0.5, Y: 40}))
	assert.Equal(t, Point{X: 0, Y: 0}, PositionAtLevel(4, Point{X: 3.9, Y: 0}))
}
