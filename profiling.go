package main

import (
	"os"
	"runtime/pprof"
	"sync"

	"github.com/rs/zerolog/log"
)

const defaultPGOPath = "default.pgo"

// startDefaultPGORecording begins writing CPU profiles to the provided path.
// The returned stop function is safe to call more than once.
func startDefaultPGORecording(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	log.Info().Str("path", path).Msg("recording CPU profile")
	var once sync.Once
	stop := func() {
		once.Do(func() {
			pprof.StopCPUProfile()
			_ = f.Close()
			log.Info().Str("path", path).Msg("CPU profile written")
		})
	}
	return stop, nil
}
