package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"ocean/internal/core"
	"ocean/internal/ocean"
	"ocean/internal/stream"
)

// frameRunner advances the ocean once per tick and applies the failure policy
// shared by the window and headless loops.
type frameRunner struct {
	ocean       *ocean.Ocean
	hub         *stream.Hub
	haltOnError bool
	timeScale   float64

	start    time.Time
	failures int
	lastLog  time.Time
}

func newFrameRunner(o *ocean.Ocean, hub *stream.Hub) *frameRunner {
	return &frameRunner{
		ocean:       o,
		hub:         hub,
		haltOnError: *haltOnErrorFlag,
		timeScale:   *timeScaleFlag,
		start:       time.Now(),
	}
}

// simTime returns the simulated time for the current wall-clock instant.
func (r *frameRunner) simTime() float64 {
	return time.Since(r.start).Seconds() * r.timeScale
}

// step runs one frame. A failed compute pass is returned when halting is
// enabled; otherwise the frame is skipped and the last heightfield stays up.
func (r *frameRunner) step(ctx context.Context) error {
	t := r.simTime()
	if err := r.ocean.Frame(ctx, t); err != nil {
		var ce *core.ComputeError
		if errors.As(err, &ce) && !r.haltOnError && !errors.Is(err, context.Canceled) {
			r.failures++
			log.Warn().Err(err).Str("pass", ce.Pass).Int("stage", ce.Stage).Int("failures", r.failures).Msg("frame skipped")
			return nil
		}
		return fmt.Errorf("frame at t=%.3f: %w", t, err)
	}
	if r.hub != nil {
		r.hub.Publish(r.ocean)
	}
	if time.Since(r.lastLog) >= statsLogInterval {
		r.lastLog = time.Now()
		log.Debug().
			Uint64("frame", r.ocean.FrameID()).
			Dur("frequency", r.ocean.Last.Frequency).
			Dur("fft", r.ocean.Last.FFT).
			Dur("total", r.ocean.Last.Total).
			Int("visible_quads", len(r.ocean.VisibleQuads())).
			Msg("frame stats")
	}
	return nil
}
