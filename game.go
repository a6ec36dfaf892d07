package main

import (
	"context"
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"ocean/internal/camera"
	"ocean/internal/ocean"
)

// Game is the interactive viewer: it feeds input to the camera, the camera to
// the ocean, and draws the published heightfield with the LOD blocks on top.
type Game struct {
	ocean  *ocean.Ocean
	cam    *camera.State
	runner *frameRunner
	ctx    context.Context

	pixels  []byte
	palette [16]color.RGBA

	dragging    bool
	lastCursorX int
	lastCursorY int
	paused      bool
	showQuads   bool

	autoOrbit          bool
	autoOrbitDeadline  time.Time
	autoOrbitRand      *rand.Rand
	autoOrbitYaw       float64
	autoOrbitPanX      float64
	autoOrbitPanZ      float64
	autoOrbitFrameLeft int
	onAutoOrbitDone    func()
}

// newGame wires the viewer around an ocean that is already built.
func newGame(ctx context.Context, o *ocean.Ocean, cam *camera.State, runner *frameRunner) *Game {
	g := &Game{
		ocean:     o,
		cam:       cam,
		runner:    runner,
		ctx:       ctx,
		pixels:    make([]byte, viewSize*viewSize*4),
		showQuads: *showQuadsFlag,
	}
	for i := range g.palette {
		shade := uint8(80 + i*10)
		g.palette[i] = color.RGBA{uint8(10 + i*8), shade, 255, 255}
	}
	g.ocean.Observe(g.cam.Update())
	return g
}

// Update applies input, propagates camera changes and advances one frame.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.handleViewerControls()

	if g.cameraInput() {
		g.ocean.Observe(g.cam.Update())
	}
	if g.paused {
		return nil
	}
	return g.runner.step(g.ctx)
}
