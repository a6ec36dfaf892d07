// Package camera tracks an orbiting camera and reports what changed on each update.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	maxPitch        = 80
	zoomSensitivity = 0.01
	viewEpsilon     = 1e-6
)

// Change describes the outcome of one Update.
type Change struct {
	// ViewChanged is set when the horizontal view direction rotated.
	ViewChanged bool
	Position    mgl64.Vec3
}

// State is an orbit camera around Target. Angles are in degrees: AngleX
// pitches, AngleY yaws.
type State struct {
	Target   mgl64.Vec3
	Distance float64
	Height   float64
	AngleX   float64
	AngleY   float64

	Near, Far, Fov float64
	Aspect         float64

	position        mgl64.Vec3
	viewVector      mgl64.Vec2
	view            mgl64.Mat4
	projection      mgl64.Mat4
	viewProjection  mgl64.Mat4
	look            mgl64.Mat4
	lookProjection  mgl64.Mat4
	iLookProjection mgl64.Mat4
}

// New returns the default camera one unit above the origin looking along -z.
func New(near, far, fov, aspect float64) *State {
	s := &State{
		Target:   mgl64.Vec3{0, 1, 0},
		Distance: -1,
		Near:     near,
		Far:      far,
		Fov:      fov,
		Aspect:   aspect,
	}
	s.Update()
	return s
}

// Update recomputes every matrix and reports whether the view vector moved.
func (s *State) Update() Change {
	s.projection = mgl64.Perspective(mgl64.DegToRad(s.Fov), s.Aspect, s.Near, s.Far)
	s.view = s.computeView()
	s.viewProjection = s.projection.Mul4(s.view)

	s.look = s.view
	s.look.SetCol(3, mgl64.Vec4{0, 0, 0, 1})
	s.lookProjection = s.projection.Mul4(s.look)
	s.iLookProjection = s.lookProjection.Inv()

	view := mgl64.Rotate2D(-mgl64.DegToRad(s.AngleY)).Mul2x1(mgl64.Vec2{0, -1})
	changed := !view.ApproxEqualThreshold(s.viewVector, viewEpsilon)
	if changed {
		s.viewVector = view
	}
	return Change{ViewChanged: changed, Position: s.position}
}

func (s *State) computeView() mgl64.Mat4 {
	offset := mgl64.Vec3{0, -s.Height, -s.Distance}
	offset = mgl64.Rotate3DX(mgl64.DegToRad(s.AngleX)).Mul3x1(offset)
	offset = mgl64.Rotate3DY(mgl64.DegToRad(s.AngleY)).Mul3x1(offset)
	s.position = s.Target.Add(offset)
	return mgl64.LookAtV(s.position, s.Target, mgl64.Vec3{0, 1, 0})
}

// Drag rotates the camera by a pointer movement in pixels.
func (s *State) Drag(dx, dy float64) {
	s.AngleX = mgl64.Clamp(s.AngleX-dy, -maxPitch, maxPitch)
	s.AngleY -= dx
	if s.AngleY >= 360 {
		s.AngleY = 0
	}
}

// Zoom moves the camera along its orbit radius by a wheel delta.
func (s *State) Zoom(delta float64) {
	s.Distance += delta * zoomSensitivity
}

// Pan shifts the orbit target horizontally.
func (s *State) Pan(dx, dz float64) {
	s.Target = s.Target.Add(mgl64.Vec3{dx, 0, dz})
}

// ViewVector is the horizontal look direction on the x/z plane.
func (s *State) ViewVector() mgl64.Vec2 { return s.viewVector }

// Position is the eye position computed by the last Update.
func (s *State) Position() mgl64.Vec3 { return s.position }

func (s *State) View() mgl64.Mat4           { return s.view }
func (s *State) Projection() mgl64.Mat4     { return s.projection }
func (s *State) ViewProjection() mgl64.Mat4 { return s.viewProjection }

// Look is the view matrix without translation, used for sky-style rendering.
func (s *State) Look() mgl64.Mat4 { return s.look }

// InverseLookProjection maps clip space back to view directions.
func (s *State) InverseLookProjection() mgl64.Mat4 { return s.iLookProjection }
