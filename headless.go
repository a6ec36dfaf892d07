package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// runHeadless drives frames on a ticker until ctx ends or frames have run.
func runHeadless(ctx context.Context, r *frameRunner, frames int) error {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / defaultTPS))
	defer ticker.Stop()
	for n := 0; frames <= 0 || n < frames; n++ {
		select {
		case <-ctx.Done():
			log.Info().Uint64("frames", r.ocean.FrameID()).Msg("headless run interrupted")
			return nil
		case <-ticker.C:
		}
		if err := r.step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
	log.Info().Uint64("frames", r.ocean.FrameID()).Int("skipped", r.failures).Msg("headless run complete")
	return nil
}
