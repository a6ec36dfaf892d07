package spectrum

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// minUniform keeps the Box–Muller logarithm finite.
const minUniform = 1e-6

// Phillips evaluates the Phillips spectrum for wave vector k, wind direction
// windDir (unit length), largest wave length l and small-wave cutoff maxL.
// It is zero at |k| = 0 and for waves travelling perpendicular to the wind.
func Phillips(windDir, k mgl64.Vec2, l, maxL float64) float64 {
	k2 := k.Dot(k)
	if k2 == 0 {
		return 0
	}
	kLen := math.Sqrt(k2)
	align := k.Mul(1 / kLen).Dot(windDir)
	kl := kLen * l
	return align * align * math.Exp(-k2*maxL*maxL) * math.Exp(-1/(kl*kl)) / (k2 * k2)
}

// Gauss draws a standard normal sample with the Box–Muller transform.
func Gauss(rng *rand.Rand) float64 {
	u1 := rng.Float64()
	u2 := rng.Float64()
	if u1 < minUniform {
		u1 = minUniform
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
