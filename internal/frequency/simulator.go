// Package frequency evolves the static ocean spectrum through time on a
// compute device.
package frequency

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"

	"ocean/internal/core"
	"ocean/internal/gpu"
	"ocean/internal/spectrum"
)

// Simulator owns the uploaded distribution and the time-evolved output surface.
type Simulator struct {
	dev     gpu.Device
	dist    *gpu.Surface
	out     *gpu.Surface
	gravity float64
	mod     mgl64.Vec2
}

// New validates the inputs and allocates the two surfaces the pass needs.
func New(dev gpu.Device, dist *spectrum.Distribution, gravity float64, mod mgl64.Vec2) (*Simulator, error) {
	if err := core.ValidateSize("distribution size", dist.Size); err != nil {
		return nil, err
	}
	if gravity <= 0 {
		return nil, &core.ConfigError{Field: "gravity", Value: gravity, Reason: "must be positive"}
	}
	if mod[0] <= 0 || mod[1] <= 0 {
		return nil, &core.ConfigError{Field: "mod", Value: mod, Reason: "wave-number spacing must be positive"}
	}
	return &Simulator{
		dev:     dev,
		dist:    dist.Surface(),
		out:     gpu.NewSurface(dist.Size),
		gravity: gravity,
		mod:     mod,
	}, nil
}

// Run evolves the spectrum to time t (seconds) in a single device pass.
func (s *Simulator) Run(ctx context.Context, t float64) error {
	err := s.dev.SimulateFrequency(ctx, gpu.FrequencyPass{
		Distribution: s.dist,
		Output:       s.out,
		Time:         t,
		Gravity:      s.gravity,
		Mod:          s.mod,
	})
	if err != nil {
		return &core.ComputeError{Pass: "frequency", Err: err}
	}
	return nil
}

// Output is the surface written by Run.
func (s *Simulator) Output() *gpu.Surface { return s.out }

// Size returns the grid side length.
func (s *Simulator) Size() int { return s.out.Size() }
