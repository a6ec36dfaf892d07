// Package ocean drives one ocean tile per frame: spectrum evolution, inverse
// FFT and the quadtree that decides how the heightfield is meshed.
package ocean

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ocean/internal/camera"
	"ocean/internal/config"
	"ocean/internal/core"
	"ocean/internal/fft"
	"ocean/internal/frequency"
	"ocean/internal/gpu"
	"ocean/internal/lod"
	"ocean/internal/spectrum"
)

const minScale = 0.2

// Settings collects the parameters of every stage.
type Settings struct {
	Spectrum   spectrum.Params
	Downsample int
	LOD        lod.Options
	// MoveThreshold is how far the camera must travel on x or z before the
	// mesh origin follows it.
	MoveThreshold float64
}

// SettingsFrom converts a loaded configuration.
func SettingsFrom(c *config.Config) Settings {
	return Settings{
		Spectrum: spectrum.Params{
			MeshSize:  c.Ocean.MeshSize,
			WindSpeed: mgl64.Vec2{c.Ocean.WindSpeed.X, c.Ocean.WindSpeed.Z},
			Gravity:   c.Ocean.Gravity,
			Distance:  mgl64.Vec2{c.Ocean.Distance.X, c.Ocean.Distance.Z},
			Amplitude: c.Ocean.Amplitude,
			MaxL:      c.Ocean.MaxL,
		},
		Downsample: c.Ocean.Downsample,
		LOD: lod.Options{
			GridSize:  c.LOD.GridSize,
			Addition:  c.LOD.Addition,
			Levels:    c.LOD.Levels,
			Wireframe: c.LOD.Wireframe,
		},
		MoveThreshold: c.LOD.MoveThreshold,
	}
}

// Timings are the durations of the last successful frame.
type Timings struct {
	Frequency time.Duration
	FFT       time.Duration
	Total     time.Duration
}

// Ocean owns the compute pipeline and the LOD tree. It is driven from a single
// goroutine and is not safe for concurrent use.
type Ocean struct {
	dev  gpu.Device
	sim  *frequency.Simulator
	fft  *fft.Engine
	tree *lod.QuadTree
	log  zerolog.Logger

	// heightfield is the last published result; staging receives the next one
	// and the two swap only when a frame completes.
	heightfield *gpu.Surface
	staging     *gpu.Surface

	frame         uint64
	time          float64
	origin        mgl64.Vec3
	scale         float64
	lastPosition  mgl64.Vec3
	moveThreshold float64

	Last Timings
}

// New generates the spectrum with rng and builds every stage on dev. All
// settings are validated before any surface is allocated.
func New(dev gpu.Device, s Settings, viewer lod.Viewer, rng *rand.Rand) (*Ocean, error) {
	gen, err := spectrum.NewGenerator(s.Spectrum)
	if err != nil {
		return nil, err
	}
	size := s.Spectrum.MeshSize
	if s.Downsample != 0 {
		if err := core.ValidateSize("downsample size", s.Downsample); err != nil {
			return nil, err
		}
		size = s.Downsample
	}
	tree, err := lod.New(s.LOD, viewer)
	if err != nil {
		return nil, err
	}

	dist := gen.Generate(rng)
	if size != dist.Size {
		if dist, err = dist.Downsample(size); err != nil {
			return nil, err
		}
	}
	sim, err := frequency.New(dev, dist, s.Spectrum.Gravity, gen.Mod())
	if err != nil {
		return nil, err
	}
	engine, err := fft.New(dev, sim.Output(), size)
	if err != nil {
		return nil, err
	}

	threshold := s.MoveThreshold
	if threshold <= 0 {
		threshold = 1
	}
	o := &Ocean{
		dev:           dev,
		sim:           sim,
		fft:           engine,
		tree:          tree,
		log:           log.With().Str("component", "ocean").Logger(),
		heightfield:   gpu.NewSurface(size),
		staging:       gpu.NewSurface(size),
		scale:         1,
		moveThreshold: threshold,
	}
	o.log.Info().
		Str("device", dev.Name()).
		Int("size", size).
		Int("passes", engine.PassCount()).
		Int("lod_grid", s.LOD.GridSize).
		Int("active_quads", len(tree.Active())).
		Msg("ocean ready")
	return o, nil
}

// Frame advances the surface to time t. On failure the previous heightfield
// stays published and the error, a *core.ComputeError, is returned.
func (o *Ocean) Frame(ctx context.Context, t float64) error {
	start := time.Now()
	if err := o.sim.Run(ctx, t); err != nil {
		return err
	}
	simulated := time.Now()
	if err := o.fft.Run(ctx); err != nil {
		return err
	}
	transformed := time.Now()
	if err := o.dev.Copy(ctx, o.staging, o.fft.Output()); err != nil {
		return &core.ComputeError{Pass: "publish", Err: err}
	}
	if err := o.dev.Download(ctx, o.staging); err != nil {
		return &core.ComputeError{Pass: "publish", Err: err}
	}
	o.heightfield, o.staging = o.staging, o.heightfield
	o.frame++
	o.time = t
	o.Last = Timings{
		Frequency: simulated.Sub(start),
		FFT:       transformed.Sub(simulated),
		Total:     time.Since(start),
	}
	return nil
}

// Observe applies a camera update. A rotated view re-culls the visible quads;
// moving at least the move threshold on x or z makes the mesh follow the
// camera and re-selects the quads.
func (o *Ocean) Observe(ch camera.Change) {
	moved := math.Abs(ch.Position[0]-o.lastPosition[0]) >= o.moveThreshold ||
		math.Abs(ch.Position[2]-o.lastPosition[2]) >= o.moveThreshold
	if moved {
		o.lastPosition = ch.Position
		o.origin = mgl64.Vec3{ch.Position[0], 0, ch.Position[2]}
		o.scale = math.Max(minScale, math.Abs(math.Floor(ch.Position[1])))
		o.tree.Refresh()
		o.log.Debug().
			Float64("x", o.origin[0]).
			Float64("z", o.origin[2]).
			Float64("scale", o.scale).
			Int("active", len(o.tree.Active())).
			Int("visible", len(o.tree.Visible())).
			Msg("lod refreshed")
		return
	}
	if ch.ViewChanged {
		o.tree.Cull()
	}
}

// Heightfield returns the last published surface. Heights are the sum of its
// r and g channels.
func (o *Ocean) Heightfield() *gpu.Surface { return o.heightfield }

// Height returns the height at texel (x, z), wrapping around the tile.
func (o *Ocean) Height(x, z int) float32 {
	n := o.heightfield.Size()
	texel := o.heightfield.Texel(((x%n)+n)%n, ((z%n)+n)%n)
	return texel[0] + texel[1]
}

// HeightRange returns the lowest and highest published height.
func (o *Ocean) HeightRange() (lo, hi float32) {
	texels := o.heightfield.Texels()
	lo, hi = float32(math.Inf(1)), float32(math.Inf(-1))
	for i := 0; i < len(texels); i += gpu.Channels {
		h := texels[i] + texels[i+1]
		lo = min(lo, h)
		hi = max(hi, h)
	}
	return lo, hi
}

// Tree exposes the LOD quadtree.
func (o *Ocean) Tree() *lod.QuadTree { return o.tree }

// VisibleQuads returns the blocks to draw this frame.
func (o *Ocean) VisibleQuads() []*lod.Block { return o.tree.Visible() }

// Origin is the world position the mesh is centred on.
func (o *Ocean) Origin() mgl64.Vec3 { return o.origin }

// Scale is the world size of one mesh cell.
func (o *Ocean) Scale() float64 { return o.scale }

// FrameID counts published frames.
func (o *Ocean) FrameID() uint64 { return o.frame }

// Time is the simulation time of the published frame.
func (o *Ocean) Time() float64 { return o.time }

// Size is the heightfield side length.
func (o *Ocean) Size() int { return o.heightfield.Size() }

// PassCount is the number of FFT passes per frame.
func (o *Ocean) PassCount() int { return o.fft.PassCount() }

// DeviceName names the compute backend.
func (o *Ocean) DeviceName() string { return o.dev.Name() }
