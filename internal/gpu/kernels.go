package gpu

import (
	"math"

	"ocean/internal/core"
)

// frequencyRow evolves row z of the distribution to the pass time.
// Each cell becomes h0(k)·e^{iωt} + conj(h0(-k))·e^{-iωt} with ω = sqrt(g|k|).
func frequencyRow(p FrequencyPass, z int) {
	n := p.Output.size
	dist := p.Distribution.texels
	out := p.Output.texels
	kz := p.Mod[1] * float64(core.Alias(z, n))
	mirrorRow := (n - z) % n
	for x := 0; x < n; x++ {
		kx := p.Mod[0] * float64(core.Alias(x, n))
		omega := math.Sqrt(p.Gravity * math.Hypot(kx, kz))
		sin, cos := math.Sincos(omega * p.Time)

		i := (z*n + x) * Channels
		m := (mirrorRow*n + (n-x)%n) * Channels
		h0 := complex(float64(dist[i]), float64(dist[i+1]))
		h0MinusConj := complex(float64(dist[m]), -float64(dist[m+1]))
		h := h0*complex(cos, sin) + h0MinusConj*complex(cos, -sin)

		out[i] = float32(real(h))
		out[i+1] = float32(imag(h))
		out[i+2] = 0
		out[i+3] = 0
	}
}

// butterflyRow computes row y of one butterfly stage. Both complex lanes
// (r,g and b,a) are transformed with the same weights.
func butterflyRow(p ButterflyPass, y int) {
	n := p.Output.size
	in := p.Input.texels
	out := p.Output.texels
	table := p.Table.texels
	for x := 0; x < n; x++ {
		var b, a, c int
		if p.Horizontal {
			b = (y*n + x) * Channels
		} else {
			b = (x*n + y) * Channels
		}
		src1 := TexelIndex(table[b], n)
		src2 := TexelIndex(table[b+1], n)
		wr, wi := table[b+2], table[b+3]
		if p.Horizontal {
			a = (y*n + src1) * Channels
			c = (y*n + src2) * Channels
		} else {
			a = (src1*n + x) * Channels
			c = (src2*n + x) * Channels
		}

		o := (y*n + x) * Channels
		out[o] = in[a] + wr*in[c] - wi*in[c+1]
		out[o+1] = in[a+1] + wr*in[c+1] + wi*in[c]
		out[o+2] = in[a+2] + wr*in[c+2] - wi*in[c+3]
		out[o+3] = in[a+3] + wr*in[c+3] + wi*in[c+2]
	}
}
