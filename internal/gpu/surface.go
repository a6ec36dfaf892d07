package gpu

import (
	"math"
	"sync/atomic"
)

// Channels is the number of float32 components stored per texel.
const Channels = 4

var surfaceIDs atomic.Uint64

// Surface is a square RGBA float32 render target. Texels are stored row-major,
// four channels each. The host version increases whenever the host writes to
// the surface so device backends know when to upload it again.
type Surface struct {
	id      uint64
	size    int
	texels  []float32
	version uint64
}

// NewSurface allocates a zeroed size×size surface.
func NewSurface(size int) *Surface {
	return &Surface{
		id:     surfaceIDs.Add(1),
		size:   size,
		texels: make([]float32, size*size*Channels),
	}
}

// ID identifies the surface for device-side resource lookup.
func (s *Surface) ID() uint64 { return s.id }

// Size returns the side length in texels.
func (s *Surface) Size() int { return s.size }

// Version returns the host modification counter.
func (s *Surface) Version() uint64 { return s.version }

// Texels exposes the raw channel data. Callers that write through it must
// call Touch afterwards.
func (s *Surface) Texels() []float32 { return s.texels }

// Touch records a host-side modification.
func (s *Surface) Touch() { s.version++ }

// Texel reads the four channels at column x, row y.
func (s *Surface) Texel(x, y int) [Channels]float32 {
	i := (y*s.size + x) * Channels
	return [Channels]float32{s.texels[i], s.texels[i+1], s.texels[i+2], s.texels[i+3]}
}

// SetTexel writes the four channels at column x, row y.
func (s *Surface) SetTexel(x, y int, v [Channels]float32) {
	i := (y*s.size + x) * Channels
	copy(s.texels[i:i+Channels], v[:])
	s.version++
}

// Complex returns the r,g channels at column x, row y as a complex number.
func (s *Surface) Complex(x, y int) complex128 {
	i := (y*s.size + x) * Channels
	return complex(float64(s.texels[i]), float64(s.texels[i+1]))
}

// CopyFrom replaces the contents with those of src, which must have the same size.
func (s *Surface) CopyFrom(src *Surface) {
	copy(s.texels, src.texels)
	s.version++
}

// TexelIndex converts a normalized texture coordinate into an integer index
// with nearest sampling, clamped to the surface.
func TexelIndex(coord float32, size int) int {
	i := int(math.Floor(float64(coord) * float64(size)))
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}
