package fft

import (
	"context"

	"ocean/internal/core"
	"ocean/internal/gpu"
)

// pass is one scheduled butterfly stage.
type pass struct {
	input, output *gpu.Surface
	table         int
	horizontal    bool
}

// Engine transforms a frequency surface into a heightfield with 2·log2(N)
// device passes: log2(N) along rows, then log2(N) along columns. Intermediate
// results alternate between two arena surfaces; the last pass always writes
// the same output surface.
type Engine struct {
	dev      gpu.Device
	size     int
	input    *gpu.Surface
	output   *gpu.Surface
	arena    [2]*gpu.Surface
	tables   []*gpu.Surface
	schedule []pass
}

// New validates the size and builds the lookup tables and the pass schedule.
// Nothing is allocated when the size is rejected.
func New(dev gpu.Device, input *gpu.Surface, size int) (*Engine, error) {
	if err := core.ValidateSize("fft size", size); err != nil {
		return nil, err
	}
	if input.Size() != size {
		return nil, &core.ConfigError{Field: "fft input", Value: input.Size(), Reason: "does not match the transform size"}
	}
	stages, err := Stages(size)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		dev:    dev,
		size:   size,
		input:  input,
		output: gpu.NewSurface(size),
		tables: make([]*gpu.Surface, len(stages)),
	}
	for i, st := range stages {
		e.tables[i] = st.Surface()
	}
	numStages := len(stages)
	if numStages > 0 {
		e.arena = [2]*gpu.Surface{gpu.NewSurface(size), gpu.NewSurface(size)}
	}
	for i := 0; i < 2*numStages; i++ {
		p := pass{table: i % numStages, horizontal: i < numStages}
		if i == 0 {
			p.input = input
		} else {
			p.input = e.arena[i%2]
		}
		if i == 2*numStages-1 {
			p.output = e.output
		} else {
			p.output = e.arena[(i+1)%2]
		}
		e.schedule = append(e.schedule, p)
	}
	return e, nil
}

// Run executes every pass in order. A failed pass stops the transform and is
// reported as a ComputeError carrying its stage index.
func (e *Engine) Run(ctx context.Context) error {
	if len(e.schedule) == 0 {
		if err := e.dev.Copy(ctx, e.output, e.input); err != nil {
			return &core.ComputeError{Pass: "fft", Err: err}
		}
		return nil
	}
	for i, p := range e.schedule {
		err := e.dev.Butterfly(ctx, gpu.ButterflyPass{
			Input:      p.input,
			Output:     p.output,
			Table:      e.tables[p.table],
			Horizontal: p.horizontal,
		})
		if err != nil {
			return &core.ComputeError{Pass: "fft", Stage: i, Err: err}
		}
	}
	return nil
}

// Output is the surface holding the transform result after Run.
func (e *Engine) Output() *gpu.Surface { return e.output }

// Size returns the transform size.
func (e *Engine) Size() int { return e.size }

// StageCount returns log2(N).
func (e *Engine) StageCount() int { return len(e.tables) }

// PassCount returns the number of butterfly passes Run issues.
func (e *Engine) PassCount() int { return len(e.schedule) }
