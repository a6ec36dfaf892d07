package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"ocean/internal/gpu"
)

// openDevice returns the requested compute device. "auto" prefers OpenCL and
// falls back to the CPU device when no OpenCL driver is usable.
func openDevice(kind string, workers int) (gpu.Device, error) {
	switch kind {
	case "cpu":
		return gpu.NewCPUDevice(workers), nil
	case "opencl":
		dev, err := gpu.NewOpenCLDevice()
		if err != nil {
			return nil, fmt.Errorf("OpenCL initialization failed: %w", err)
		}
		return dev, nil
	default:
		dev, err := gpu.NewOpenCLDevice()
		if err != nil {
			log.Warn().Err(err).Msg("OpenCL unavailable; using CPU device")
			return gpu.NewCPUDevice(workers), nil
		}
		return dev, nil
	}
}
