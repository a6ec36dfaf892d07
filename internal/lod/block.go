package lod

import "fmt"

// Edge names the side of a block that receives a midpoint vertex so it meets a
// finer neighbour without a crack. EdgeNone selects the plain two-triangle mesh.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeTop
	EdgeLeft
	EdgeRight
	EdgeBottom
	edgeCount
)

func (e Edge) String() string {
	switch e {
	case EdgeNone:
		return "none"
	case EdgeTop:
		return "top"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	}
	return fmt.Sprintf("Edge(%d)", int(e))
}

// Point is a position in grid units; Y grows towards the bottom edge.
type Point struct{ X, Y float64 }

// Block is one node of the quadtree: a square of the grid at a given level.
type Block struct {
	Level     int
	LevelSize int
	Row, Col  int
	// Top and Left are the minimum corner; Bottom and Right are exclusive.
	Top, Left, Bottom, Right int
	Center                   Point
	// Distance from the tree's focus when the tree was built.
	Distance float64

	variants [edgeCount][]uint32
	stitched bool
	side     Edge
}

// Indices returns the index buffer selected by the last refresh.
func (b *Block) Indices() []uint32 { return b.variants[b.side] }

// Variant returns the index buffer for a specific edge.
func (b *Block) Variant(e Edge) []uint32 { return b.variants[e] }

// Side reports which edge the last refresh stitched.
func (b *Block) Side() Edge { return b.side }

// Stitched reports whether the block has edge variants distinct from the default mesh.
func (b *Block) Stitched() bool { return b.stitched }

// Contains reports whether p lies inside the block widened by margin on every side.
func (b *Block) Contains(p Point, margin float64) bool {
	return float64(b.Top) <= p.Y+margin &&
		float64(b.Left) <= p.X+margin &&
		float64(b.Bottom) > p.Y-margin &&
		float64(b.Right) > p.X-margin
}
