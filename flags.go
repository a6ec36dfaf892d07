package main

import "flag"

// Command-line flags. Anything not covered here comes from the settings file.
var (
	// configPathFlag points at a YAML settings file; defaults apply when empty.
	configPathFlag = flag.String("config", "", "path to a YAML settings file")

	// deviceFlag overrides the compute device chosen in the settings file.
	deviceFlag = flag.String("device", "", "compute device: auto, cpu or opencl")

	// seedFlag overrides the spectrum seed when non-zero.
	seedFlag = flag.Int64("seed", 0, "spectrum seed (0 keeps the configured seed)")

	// headlessFlag runs the frame loop without opening a window.
	headlessFlag = flag.Bool("headless", false, "simulate without a window")

	// framesFlag stops a headless run after this many frames.
	framesFlag = flag.Int("frames", 0, "frames to run in headless mode (0 runs until interrupted)")

	// streamAddrFlag enables the websocket frame stream on this address.
	streamAddrFlag = flag.String("stream-addr", "", "serve heightfield frames over websocket on this address, e.g. :8080")

	// haltOnErrorFlag stops the loop on the first failed compute pass instead
	// of skipping the frame.
	haltOnErrorFlag = flag.Bool("halt-on-error", true, "stop when a compute pass fails")

	// timeScaleFlag speeds up or slows down the wave animation.
	timeScaleFlag = flag.Float64("time-scale", 1.0, "simulated seconds per wall-clock second")

	// showQuadsFlag outlines the visible LOD blocks over the heightfield.
	showQuadsFlag = flag.Bool("show-quads", true, "draw visible LOD blocks")

	// debugFlag enables the FPS and timing overlay.
	debugFlag = flag.Bool("debug", false, "show FPS and pass timing overlay")

	// logLevelFlag sets the zerolog level.
	logLevelFlag = flag.String("log-level", "info", "log level: debug, info, warn, error")

	// recordDefaultPGO triggers a scripted camera orbit to produce default.pgo.
	recordDefaultPGO = flag.Bool("record-default-pgo", false, "orbit the camera for 15s while capturing default.pgo")
)
