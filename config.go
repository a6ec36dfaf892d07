package main

import "time"

// Viewer constants. Ocean and LOD parameters live in the YAML settings file.
const (
	viewSize          = 512
	windowScale       = 2
	defaultTPS        = 60.0
	dragSensitivity   = 0.5
	wheelZoomStep     = 40.0
	panSpeed          = 0.5
	pgoRecordDuration = 15 * time.Second
	statsLogInterval  = 5 * time.Second
	orbitYawSpeed     = 0.6
	orbitPanSpeed     = 0.4
)
