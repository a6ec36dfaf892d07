package gpu

import (
	"context"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledSurface(n int, seed float32) *Surface {
	s := NewSurface(n)
	for i := range s.Texels() {
		s.Texels()[i] = seed + float32(i%7)*0.25
	}
	s.Touch()
	return s
}

func TestSurfaceTexelRoundTrip(t *testing.T) {
	s := NewSurface(4)
	before := s.Version()
	s.SetTexel(3, 1, [Channels]float32{1, 2, 3, 4})
	assert.Equal(t, [Channels]float32{1, 2, 3, 4}, s.Texel(3, 1))
	assert.Equal(t, complex(1.0, 2.0), s.Complex(3, 1))
	assert.Greater(t, s.Version(), before)
	assert.NotEqual(t, s.ID(), NewSurface(4).ID())
}

func TestTexelIndexNearest(t *testing.T) {
	for i := 0; i < 16; i++ {
		assert.Equal(t, i, TexelIndex((float32(i)+0.5)/16, 16))
	}
	assert.Equal(t, 0, TexelIndex(-0.2, 16))
	assert.Equal(t, 15, TexelIndex(1.5, 16))
}

func TestCPUDeviceRejectsAliasedSurfaces(t *testing.T) {
	dev := NewCPUDevice(2)
	s := NewSurface(4)
	table := NewSurface(4)
	err := dev.Butterfly(context.Background(), ButterflyPass{Input: s, Output: s, Table: table, Horizontal: true})
	assert.ErrorIs(t, err, ErrAliasedTargets)
	assert.ErrorIs(t, dev.Copy(context.Background(), s, s), ErrAliasedTargets)
}

func TestCPUDeviceHonoursCancellation(t *testing.T) {
	dev := NewCPUDevice(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := dev.SimulateFrequency(ctx, FrequencyPass{
		Distribution: filledSurface(8, 1),
		Output:       NewSurface(8),
		Gravity:      9.81,
		Mod:          mgl64.Vec2{1, 1},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFrequencyPassAtTimeZeroIsHermitianSum(t *testing.T) {
	const n = 8
	dev := NewCPUDevice(3)
	dist := filledSurface(n, 0.5)
	out := NewSurface(n)
	require.NoError(t, dev.SimulateFrequency(context.Background(), FrequencyPass{
		Distribution: dist,
		Output:       out,
		Gravity:      9.81,
		Mod:          mgl64.Vec2{2 * math.Pi / 200, 2 * math.Pi / 200},
	}))
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			mirror := dist.Complex((n-x)%n, (n-z)%n)
			want := dist.Complex(x, z) + complex(real(mirror), -imag(mirror))
			got := out.Complex(x, z)
			assert.InDelta(t, real(want), real(got), 1e-5)
			assert.InDelta(t, imag(want), imag(got), 1e-5)
			texel := out.Texel(x, z)
			assert.Zero(t, texel[2])
			assert.Zero(t, texel[3])
		}
	}
}

func TestCPUCopy(t *testing.T) {
	dev := NewCPUDevice(1)
	src := filledSurface(4, 2)
	dst := NewSurface(4)
	require.NoError(t, dev.Copy(context.Background(), dst, src))
	assert.Equal(t, src.Texels(), dst.Texels())
	require.NoError(t, dev.Download(context.Background(), dst))
}
