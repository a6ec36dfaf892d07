package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"ocean/internal/lod"
)

var (
	stitchColor = color.RGBA{255, 255, 255, 255}
	viewColor   = color.RGBA{255, 40, 40, 255}
)

// Draw renders the heightfield, the visible LOD blocks and optional overlays.
func (g *Game) Draw(screen *ebiten.Image) {
	g.paintHeightfield()
	screen.WritePixels(g.pixels)

	if g.showQuads {
		g.drawQuads(screen)
	}
	g.drawViewVector(screen)

	if *debugFlag {
		last := g.ocean.Last
		status := "running"
		if g.paused {
			status = "paused"
		}
		debugMsg := fmt.Sprintf("FPS: %.1f TPS: %.1f (%s)\nDevice: %s\nFrame %d t=%.2fs\nFrequency: %.2f ms  FFT (%d passes): %.2f ms\nQuads: %d visible / %d active\nOrigin: %.1f, %.1f  scale %.1f",
			ebiten.ActualFPS(), ebiten.ActualTPS(), status,
			g.ocean.DeviceName(),
			g.ocean.FrameID(), g.ocean.Time(),
			last.Frequency.Seconds()*1000, g.ocean.PassCount(), last.FFT.Seconds()*1000,
			len(g.ocean.VisibleQuads()), len(g.ocean.Tree().Active()),
			g.ocean.Origin()[0], g.ocean.Origin()[2], g.ocean.Scale())
		ebitenutil.DebugPrint(screen, debugMsg)
	}
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return viewSize, viewSize }

// paintHeightfield maps heights to a blue ramp, stretching the tile over the view.
func (g *Game) paintHeightfield() {
	lo, hi := g.ocean.HeightRange()
	rng := hi - lo
	if rng <= 0 || math.IsInf(float64(rng), 0) {
		rng = 1
	}
	size := g.ocean.Size()
	for py := 0; py < viewSize; py++ {
		hz := py * size / viewSize
		for px := 0; px < viewSize; px++ {
			v := (g.ocean.Height(px*size/viewSize, hz) - lo) / rng
			base := (py*viewSize + px) * 4
			g.pixels[base] = uint8(20 + v*60)
			g.pixels[base+1] = uint8(60 + v*120)
			g.pixels[base+2] = uint8(120 + v*135)
			g.pixels[base+3] = 255
		}
	}
}

// drawQuads outlines every visible block, colouring by level and marking the
// stitched edge.
func (g *Game) drawQuads(screen *ebiten.Image) {
	tree := g.ocean.Tree()
	n := tree.GridSize()
	scale := float64(viewSize) / float64(n)
	toScreen := func(v int) int { return int(float64(v+n/2) * scale) }
	for _, b := range g.ocean.VisibleQuads() {
		x0, y0 := toScreen(b.Left), toScreen(b.Top)
		x1, y1 := toScreen(b.Right)-1, toScreen(b.Bottom)-1
		clr := g.palette[b.Level%len(g.palette)]
		drawLine(screen, x0, y0, x1, y0, clr)
		drawLine(screen, x1, y0, x1, y1, clr)
		drawLine(screen, x1, y1, x0, y1, clr)
		drawLine(screen, x0, y1, x0, y0, clr)
		if !b.Stitched() {
			continue
		}
		switch b.Side() {
		case lod.EdgeTop:
			drawLine(screen, x0, y0, x1, y0, stitchColor)
		case lod.EdgeBottom:
			drawLine(screen, x0, y1, x1, y1, stitchColor)
		case lod.EdgeLeft:
			drawLine(screen, x0, y0, x0, y1, stitchColor)
		case lod.EdgeRight:
			drawLine(screen, x1, y0, x1, y1, stitchColor)
		}
	}
}

// drawViewVector points from the view centre along the camera's heading.
func (g *Game) drawViewVector(screen *ebiten.Image) {
	v := g.cam.ViewVector()
	c := viewSize / 2
	length := float64(viewSize) / 8
	drawLine(screen, c, c, c+int(v[0]*length), c+int(v[1]*length), viewColor)
}

// drawLine plots a line segment using Bresenham's integer algorithm.
func drawLine(screen *ebiten.Image, x0, y0, x1, y1 int, clr color.Color) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if x0 >= 0 && x0 < viewSize && y0 >= 0 && y0 < viewSize {
			screen.Set(x0, y0, clr)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}
