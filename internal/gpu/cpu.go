package gpu

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// CPUDevice runs passes on goroutines, splitting each surface into row bands.
// A pass returns once every band is written.
type CPUDevice struct {
	workers int
}

// NewCPUDevice creates a device with the given number of row workers. A value
// below one uses GOMAXPROCS.
func NewCPUDevice(workers int) *CPUDevice {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	log.Info().Str("component", "gpu").Int("workers", workers).Msg("using CPU compute device")
	return &CPUDevice{workers: workers}
}

// Name reports the backend and worker count.
func (d *CPUDevice) Name() string {
	return fmt.Sprintf("cpu (%d workers)", d.workers)
}

func (d *CPUDevice) SimulateFrequency(ctx context.Context, p FrequencyPass) error {
	if err := p.validate(); err != nil {
		return err
	}
	return d.forEachRow(ctx, p.Output.size, func(z int) { frequencyRow(p, z) })
}

func (d *CPUDevice) Butterfly(ctx context.Context, p ButterflyPass) error {
	if err := p.validate(); err != nil {
		return err
	}
	return d.forEachRow(ctx, p.Output.size, func(y int) { butterflyRow(p, y) })
}

func (d *CPUDevice) Copy(ctx context.Context, dst, src *Surface) error {
	if err := validateCopy(dst, src); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	copy(dst.texels, src.texels)
	return nil
}

// Download is a no-op: host and device memory are the same.
func (d *CPUDevice) Download(ctx context.Context, _ *Surface) error {
	return ctx.Err()
}

func (d *CPUDevice) Close() error { return nil }

// forEachRow distributes rows [0, rows) over contiguous bands, one per worker.
func (d *CPUDevice) forEachRow(ctx context.Context, rows int, fn func(row int)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bands := d.workers
	if bands > rows {
		bands = rows
	}
	g, gctx := errgroup.WithContext(ctx)
	for band := 0; band < bands; band++ {
		start := band * rows / bands
		end := (band + 1) * rows / bands
		g.Go(func() error {
			for row := start; row < end; row++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				fn(row)
			}
			return nil
		})
	}
	return g.Wait()
}
