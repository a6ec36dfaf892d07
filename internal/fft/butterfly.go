// Package fft runs a radix-2 inverse Fourier transform over device surfaces as
// a sequence of butterfly passes.
package fft

import (
	"math"

	"ocean/internal/core"
	"ocean/internal/gpu"
)

// Butterfly is the work of one output position in a stage: it reads positions
// Src1 and Src2 and writes src1 + Weight·src2.
type Butterfly struct {
	Src1, Src2 int
	Weight     complex128
}

// Stage is the butterfly pattern of one radix-2 level. The same pattern is
// applied to every row (horizontal passes) or column (vertical passes).
type Stage struct {
	Index int
	Row   []Butterfly
}

// BitReverse reverses the lowest numStages bits of x.
func BitReverse(x uint32, numStages int) uint32 {
	if numStages == 0 {
		return 0
	}
	x = ((x & 0xaaaaaaaa) >> 1) | ((x & 0x55555555) << 1)
	x = ((x & 0xcccccccc) >> 2) | ((x & 0x33333333) << 2)
	x = ((x & 0xf0f0f0f0) >> 4) | ((x & 0x0f0f0f0f) << 4)
	x = ((x & 0xff00ff00) >> 8) | ((x & 0x00ff00ff) << 8)
	x = (x >> 16) | (x << 16)
	return x >> (32 - numStages)
}

// Stages precomputes the log2(n) butterfly patterns of an n-point transform.
// Stage 0 reads its inputs in bit-reversed order so the last stage leaves the
// result in natural order.
func Stages(n int) ([]Stage, error) {
	if err := core.ValidateSize("fft size", n); err != nil {
		return nil, err
	}
	numStages := core.Log2(n)
	stages := make([]Stage, numStages)
	for s := 0; s < numStages; s++ {
		row := make([]Butterfly, n)
		stepNext := 1 << (s + 1)
		stepThis := stepNext >> 1
		exponent := 1 << (numStages - s - 1)
		for m := 0; m < stepThis; m++ {
			for l := m; l < n; l += stepNext {
				src1, src2 := l, l+stepThis
				if s == 0 {
					src1 = int(BitReverse(uint32(src1), numStages))
					src2 = int(BitReverse(uint32(src2), numStages))
				}
				row[l] = Butterfly{Src1: src1, Src2: src2, Weight: twiddle(l*exponent, n)}
				row[l+stepThis] = Butterfly{Src1: src1, Src2: src2, Weight: twiddle((l+stepThis)*exponent, n)}
			}
		}
		stages[s] = Stage{Index: s, Row: row}
	}
	return stages, nil
}

// twiddle returns e^{2πi·r/n} for r reduced modulo n.
func twiddle(r, n int) complex128 {
	r %= n
	sin, cos := math.Sincos(2 * math.Pi * float64(r) / float64(n))
	return complex(cos, sin)
}

// Surface encodes the stage as a lookup table: every row repeats the pattern
// with the sources as texel-centre coordinates in r,g and the weight in b,a.
func (s Stage) Surface() *gpu.Surface {
	n := len(s.Row)
	surface := gpu.NewSurface(n)
	texels := surface.Texels()
	for y := 0; y < n; y++ {
		for x, b := range s.Row {
			i := (y*n + x) * gpu.Channels
			texels[i] = (float32(b.Src1) + 0.5) / float32(n)
			texels[i+1] = (float32(b.Src2) + 0.5) / float32(n)
			texels[i+2] = float32(real(b.Weight))
			texels[i+3] = float32(imag(b.Weight))
		}
	}
	surface.Touch()
	return surface
}
