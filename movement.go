package main

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// cameraInput applies mouse and keyboard input, or the scripted orbit, to the
// camera. It reports whether anything changed.
func (g *Game) cameraInput() bool {
	if g.autoOrbit {
		if time.Now().After(g.autoOrbitDeadline) {
			g.autoOrbit = false
			if g.onAutoOrbitDone != nil {
				g.onAutoOrbitDone()
				g.onAutoOrbitDone = nil
			}
			return false
		}
		return g.autoOrbitStep()
	}
	return g.manualCameraInput()
}

// manualCameraInput handles drag-to-rotate, wheel zoom and arrow-key panning.
func (g *Game) manualCameraInput() bool {
	changed := false
	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging && (x != g.lastCursorX || y != g.lastCursorY) {
			g.cam.Drag(float64(x-g.lastCursorX)*dragSensitivity, float64(y-g.lastCursorY)*dragSensitivity)
			changed = true
		}
		g.dragging = true
	} else {
		g.dragging = false
	}
	g.lastCursorX, g.lastCursorY = x, y

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.cam.Zoom(-wy * wheelZoomStep)
		changed = true
	}

	dx, dz := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dz += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dz -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx -= panSpeed
	}
	if dx != 0 || dz != 0 {
		g.cam.Pan(dx, dz)
		changed = true
	}
	return changed
}

// enableAutoOrbit schedules a scripted camera path for a limited duration.
func (g *Game) enableAutoOrbit(duration time.Duration, done func()) {
	g.autoOrbit = true
	g.autoOrbitDeadline = time.Now().Add(duration)
	if g.autoOrbitRand == nil {
		g.autoOrbitRand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 3))
	}
	g.autoOrbitFrameLeft = 0
	g.onAutoOrbitDone = done
}

// autoOrbitStep yaws and pans the camera, picking a new heading every few
// dozen frames so both culling and refresh paths are exercised.
func (g *Game) autoOrbitStep() bool {
	if g.autoOrbitFrameLeft <= 0 {
		g.randomizeAutoOrbit()
	}
	g.autoOrbitFrameLeft--
	g.cam.Drag(g.autoOrbitYaw, 0)
	g.cam.Pan(g.autoOrbitPanX, g.autoOrbitPanZ)
	return true
}

func (g *Game) randomizeAutoOrbit() {
	angle := g.autoOrbitRand.Float64() * 2 * math.Pi
	g.autoOrbitPanX = math.Cos(angle) * orbitPanSpeed
	g.autoOrbitPanZ = math.Sin(angle) * orbitPanSpeed
	g.autoOrbitYaw = (g.autoOrbitRand.Float64()*2 - 1) * orbitYawSpeed
	g.autoOrbitFrameLeft = 20 + g.autoOrbitRand.IntN(50)
}

// handleViewerControls processes hotkeys that do not move the camera.
func (g *Game) handleViewerControls() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.showQuads = !g.showQuads
	}
}
