package spectrum

import (
	"ocean/internal/core"
	"ocean/internal/gpu"
)

// Distribution is the static spectrum h0(k), row z and column x at z*Size+x.
type Distribution struct {
	Size       int
	Amplitudes []complex128
}

// At returns the amplitude stored for cell (x, z).
func (d *Distribution) At(x, z int) complex128 {
	return d.Amplitudes[z*d.Size+x]
}

// Surface packs the distribution into a render target: r,g hold the real and
// imaginary parts, b,a are zero.
func (d *Distribution) Surface() *gpu.Surface {
	s := gpu.NewSurface(d.Size)
	texels := s.Texels()
	for i, a := range d.Amplitudes {
		texels[i*gpu.Channels] = float32(real(a))
		texels[i*gpu.Channels+1] = float32(imag(a))
	}
	s.Touch()
	return s
}

// Downsample keeps the size×size lowest frequencies, so a coarser mesh shows
// the same dominant waves as the full one.
func (d *Distribution) Downsample(size int) (*Distribution, error) {
	if err := core.ValidateSize("downsample size", size); err != nil {
		return nil, err
	}
	if size > d.Size {
		return nil, &core.ConfigError{Field: "downsample size", Value: size, Reason: "larger than the distribution"}
	}
	out := &Distribution{Size: size, Amplitudes: make([]complex128, size*size)}
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			ax := core.Alias(x, size)
			az := core.Alias(z, size)
			if ax < 0 {
				ax += d.Size
			}
			if az < 0 {
				az += d.Size
			}
			out.Amplitudes[z*size+x] = d.At(ax, az)
		}
	}
	return out, nil
}
