package spectrum

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"ocean/internal/core"
)

// amplitudeScale converts the user amplitude into spectrum units.
const amplitudeScale = 0.3

// Params describes the sea state used to build the initial spectrum.
type Params struct {
	MeshSize  int
	WindSpeed mgl64.Vec2
	// WindDirection overrides normalize(WindSpeed) when non-zero.
	WindDirection mgl64.Vec2
	Gravity       float64
	// Distance is the world extent covered by one tile along x and z.
	Distance  mgl64.Vec2
	Amplitude float64
	MaxL      float64
}

// Generator produces the static h0(k) distribution for a sea state.
type Generator struct {
	params    Params
	windDir   mgl64.Vec2
	l         float64
	mod       mgl64.Vec2
	amplitude float64
}

// NewGenerator validates p and derives the constants shared by every sample.
func NewGenerator(p Params) (*Generator, error) {
	if err := core.ValidateSize("mesh size", p.MeshSize); err != nil {
		return nil, err
	}
	if p.Distance[0] <= 0 || p.Distance[1] <= 0 {
		return nil, &core.ConfigError{Field: "distance", Value: p.Distance, Reason: "both axes must be positive"}
	}
	if p.Gravity <= 0 {
		return nil, &core.ConfigError{Field: "gravity", Value: p.Gravity, Reason: "must be positive"}
	}
	windDir := p.WindDirection
	if windDir.Len() == 0 {
		windDir = p.WindSpeed
	}
	if windDir.Len() == 0 {
		return nil, &core.ConfigError{Field: "wind speed", Value: p.WindSpeed, Reason: "needs a direction"}
	}
	speed := p.WindSpeed.Len()
	return &Generator{
		params:    p,
		windDir:   windDir.Normalize(),
		l:         speed * speed / p.Gravity,
		mod:       Mod(p.Distance),
		amplitude: p.Amplitude * amplitudeScale / math.Sqrt(p.Distance[0]*p.Distance[1]),
	}, nil
}

// Mod returns the wave-number spacing 2π/distance for each axis.
func Mod(distance mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{2 * math.Pi / distance[0], 2 * math.Pi / distance[1]}
}

// Mod returns the wave-number spacing used by this generator.
func (g *Generator) Mod() mgl64.Vec2 { return g.mod }

// Params returns the validated parameters.
func (g *Generator) Params() Params { return g.params }

// WaveVector returns k for grid cell (x, z).
func (g *Generator) WaveVector(x, z int) mgl64.Vec2 {
	n := g.params.MeshSize
	return mgl64.Vec2{
		g.mod[0] * float64(core.Alias(x, n)),
		g.mod[1] * float64(core.Alias(z, n)),
	}
}

// Generate draws one complex amplitude per cell. Cells are visited row by row
// so a given rng seed always yields the same distribution.
func (g *Generator) Generate(rng *rand.Rand) *Distribution {
	n := g.params.MeshSize
	d := &Distribution{Size: n, Amplitudes: make([]complex128, n*n)}
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			p := g.amplitude * math.Sqrt(0.5*Phillips(g.windDir, g.WaveVector(x, z), g.l, g.params.MaxL))
			re := Gauss(rng) * p
			im := Gauss(rng) * p
			d.Amplitudes[z*n+x] = complex(re, im)
		}
	}
	return d
}
