package frequency

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocean/internal/core"
	"ocean/internal/gpu"
	"ocean/internal/spectrum"
)

func testDistribution(t *testing.T, size int) (*spectrum.Distribution, mgl64.Vec2) {
	t.Helper()
	g, err := spectrum.NewGenerator(spectrum.Params{
		MeshSize:  size,
		WindSpeed: mgl64.Vec2{3, 1},
		Gravity:   9.81,
		Distance:  mgl64.Vec2{40, 40},
		Amplitude: 1,
		MaxL:      0.02,
	})
	require.NoError(t, err)
	return g.Generate(core.NewRNG(5)), g.Mod()
}

func TestRunMatchesClosedForm(t *testing.T) {
	const n, g, at = 16, 9.81, 1.7
	dist, mod := testDistribution(t, n)
	sim, err := New(gpu.NewCPUDevice(2), dist, g, mod)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background(), at))

	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			kx := mod[0] * float64(core.Alias(x, n))
			kz := mod[1] * float64(core.Alias(z, n))
			omega := math.Sqrt(g * math.Hypot(kx, kz))
			h0 := complex128(complex64(dist.At(x, z)))
			h0m := complex128(complex64(dist.At((n-x)%n, (n-z)%n)))
			want := h0*cmplx.Exp(complex(0, omega*at)) + cmplx.Conj(h0m)*cmplx.Exp(complex(0, -omega*at))
			got := sim.Output().Complex(x, z)
			assert.InDelta(t, real(want), real(got), 1e-6, "cell %d,%d", x, z)
			assert.InDelta(t, imag(want), imag(got), 1e-6, "cell %d,%d", x, z)
		}
	}
}

func TestRunProducesHermitianField(t *testing.T) {
	const n = 8
	dist, mod := testDistribution(t, n)
	sim, err := New(gpu.NewCPUDevice(1), dist, 9.81, mod)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background(), 3.25))

	out := sim.Output()
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			a := out.Complex(x, z)
			b := out.Complex((n-x)%n, (n-z)%n)
			assert.InDelta(t, real(a), real(b), 1e-6)
			assert.InDelta(t, imag(a), -imag(b), 1e-6)
		}
	}
}

func TestNewRejectsBadInputs(t *testing.T) {
	dist, mod := testDistribution(t, 8)
	var cfg *core.ConfigError
	_, err := New(gpu.NewCPUDevice(1), dist, 0, mod)
	require.True(t, errors.As(err, &cfg))
	_, err = New(gpu.NewCPUDevice(1), &spectrum.Distribution{Size: 6, Amplitudes: make([]complex128, 36)}, 9.81, mod)
	require.True(t, errors.As(err, &cfg))
}

func TestRunWrapsDeviceFailure(t *testing.T) {
	dist, mod := testDistribution(t, 8)
	sim, err := New(gpu.NewCPUDevice(1), dist, 9.81, mod)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = sim.Run(ctx, 1)
	var ce *core.ComputeError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "frequency", ce.Pass)
	assert.ErrorIs(t, err, context.Canceled)
}
