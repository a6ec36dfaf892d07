package gpu

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrAliasedTargets is returned when a pass would read and write the same surface.
var ErrAliasedTargets = errors.New("pass input and output must be distinct surfaces")

// Device executes per-texel passes over surfaces. Every call returns only once
// the pass has completed, so a following pass may safely read its output.
type Device interface {
	Name() string
	SimulateFrequency(ctx context.Context, p FrequencyPass) error
	Butterfly(ctx context.Context, p ButterflyPass) error
	Copy(ctx context.Context, dst, src *Surface) error
	// Download makes device results visible in the surface's host texels.
	Download(ctx context.Context, s *Surface) error
	Close() error
}

// FrequencyPass evolves a static spectrum to time Time.
type FrequencyPass struct {
	Distribution *Surface
	Output       *Surface
	Time         float64
	Gravity      float64
	Mod          mgl64.Vec2
}

func (p FrequencyPass) validate() error {
	if p.Distribution == nil || p.Output == nil {
		return errors.New("frequency pass needs distribution and output surfaces")
	}
	if p.Distribution == p.Output {
		return ErrAliasedTargets
	}
	if p.Distribution.Size() != p.Output.Size() {
		return fmt.Errorf("distribution size %d does not match output size %d", p.Distribution.Size(), p.Output.Size())
	}
	return nil
}

// ButterflyPass runs one radix-2 stage along rows (Horizontal) or columns.
// Table holds per-position source coordinates in r,g and the twiddle in b,a.
type ButterflyPass struct {
	Input      *Surface
	Output     *Surface
	Table      *Surface
	Horizontal bool
}

func (p ButterflyPass) validate() error {
	if p.Input == nil || p.Output == nil || p.Table == nil {
		return errors.New("butterfly pass needs input, output and table surfaces")
	}
	if p.Input == p.Output {
		return ErrAliasedTargets
	}
	n := p.Output.Size()
	if p.Input.Size() != n || p.Table.Size() != n {
		return fmt.Errorf("butterfly surfaces disagree on size (%d, %d, %d)", p.Input.Size(), n, p.Table.Size())
	}
	return nil
}

func validateCopy(dst, src *Surface) error {
	if dst == nil || src == nil {
		return errors.New("copy needs two surfaces")
	}
	if dst == src {
		return ErrAliasedTargets
	}
	if dst.Size() != src.Size() {
		return fmt.Errorf("copy between sizes %d and %d", src.Size(), dst.Size())
	}
	return nil
}
