// Package config loads the ocean settings file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"ocean/internal/core"
)

type Vec2 struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

type OceanCfg struct {
	MeshSize  int     `yaml:"mesh_size"`
	Gravity   float64 `yaml:"gravity"`
	Amplitude float64 `yaml:"amplitude"`
	MaxL      float64 `yaml:"max_l"`
	WindSpeed Vec2    `yaml:"wind_speed"`
	Distance  Vec2    `yaml:"distance"`
	// Downsample shrinks the spectrum before simulation; 0 keeps MeshSize.
	Downsample int `yaml:"downsample,omitempty"`
}

type LODCfg struct {
	GridSize      int     `yaml:"grid_size"`
	Addition      int     `yaml:"addition"`
	Levels        int     `yaml:"levels"`
	Wireframe     bool    `yaml:"wireframe"`
	MoveThreshold float64 `yaml:"move_threshold"`
}

type CameraCfg struct {
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
	Fov  float64 `yaml:"fov"`
}

type StreamCfg struct {
	Addr string `yaml:"addr"` // e.g. :8080, empty disables streaming
	FPS  int    `yaml:"fps"`
}

type Config struct {
	Device  string `yaml:"device"` // "cpu" | "opencl" | "auto"
	Workers int    `yaml:"workers"`
	Seed    int64  `yaml:"seed"`

	Ocean  OceanCfg  `yaml:"ocean"`
	LOD    LODCfg    `yaml:"lod"`
	Camera CameraCfg `yaml:"camera"`
	Stream StreamCfg `yaml:"stream,omitempty"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Device: "auto",
		Seed:   1,
		Ocean: OceanCfg{
			MeshSize:  256,
			Gravity:   9.81,
			Amplitude: 1,
			MaxL:      0.02,
			WindSpeed: Vec2{X: 3, Z: 1},
			Distance:  Vec2{X: 200, Z: 200},
		},
		LOD: LODCfg{
			GridSize:      128,
			Addition:      16,
			Levels:        4,
			MoveThreshold: 1,
		},
		Camera: CameraCfg{Near: 0.01, Far: 200, Fov: 65},
		Stream: StreamCfg{FPS: 30},
	}
}

// Load reads path over the defaults, so a file only needs the keys it changes.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate rejects settings that no component could be built from.
func (c *Config) Validate() error {
	switch c.Device {
	case "auto", "cpu", "opencl":
	default:
		return &core.ConfigError{Field: "device", Value: c.Device, Reason: "want auto, cpu or opencl"}
	}
	if err := core.ValidateSize("ocean.mesh_size", c.Ocean.MeshSize); err != nil {
		return err
	}
	if c.Ocean.Downsample != 0 {
		if err := core.ValidateSize("ocean.downsample", c.Ocean.Downsample); err != nil {
			return err
		}
		if c.Ocean.Downsample > c.Ocean.MeshSize {
			return &core.ConfigError{Field: "ocean.downsample", Value: c.Ocean.Downsample, Reason: "larger than mesh_size"}
		}
	}
	if c.Ocean.Distance.X <= 0 || c.Ocean.Distance.Z <= 0 {
		return &core.ConfigError{Field: "ocean.distance", Value: c.Ocean.Distance, Reason: "both axes must be positive"}
	}
	if c.Ocean.Gravity <= 0 {
		return &core.ConfigError{Field: "ocean.gravity", Value: c.Ocean.Gravity, Reason: "must be positive"}
	}
	if err := core.ValidateSize("lod.grid_size", c.LOD.GridSize); err != nil {
		return err
	}
	if c.LOD.Addition < 0 || c.LOD.Levels < 0 {
		return &core.ConfigError{Field: "lod", Value: c.LOD, Reason: "addition and levels must not be negative"}
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return &core.ConfigError{Field: "camera", Value: c.Camera, Reason: "need 0 < near < far"}
	}
	return nil
}
