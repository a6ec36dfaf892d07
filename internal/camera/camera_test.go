package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestDefaultCamera(t *testing.T) {
	c := New(0.01, 200, 65, 16.0/9)
	assert.InDelta(t, 0, c.ViewVector()[0], 1e-12)
	assert.InDelta(t, -1, c.ViewVector()[1], 1e-12)
	assert.True(t, c.Position().ApproxEqual(mgl64.Vec3{0, 1, 1}))

	ch := c.Update()
	assert.False(t, ch.ViewChanged, "nothing moved since construction")
}

func TestYawRotatesViewVector(t *testing.T) {
	c := New(0.01, 200, 65, 1)
	c.Drag(-90, 0)
	ch := c.Update()
	assert.True(t, ch.ViewChanged)
	assert.InDelta(t, -1, c.ViewVector()[0], 1e-9)
	assert.InDelta(t, 0, c.ViewVector()[1], 1e-9)

	c.Zoom(-100)
	ch = c.Update()
	assert.False(t, ch.ViewChanged, "zooming keeps the direction")
	assert.True(t, ch.Position.ApproxEqual(c.Position()))
}

func TestDragClampsPitchAndWrapsYaw(t *testing.T) {
	c := New(0.01, 200, 65, 1)
	c.Drag(0, -500)
	assert.Equal(t, 80.0, c.AngleX)
	c.Drag(0, 500)
	assert.Equal(t, -80.0, c.AngleX)
	c.AngleY = 359
	c.Drag(-2, 0)
	assert.Equal(t, 0.0, c.AngleY)
}

func TestPanMovesTargetAndEye(t *testing.T) {
	c := New(0.01, 200, 65, 1)
	c.Pan(5, -3)
	ch := c.Update()
	assert.True(t, ch.Position.ApproxEqual(mgl64.Vec3{5, 1, -2}))
	assert.False(t, ch.ViewChanged)
}

func TestLookHasNoTranslation(t *testing.T) {
	c := New(0.01, 200, 65, 1)
	c.Pan(10, 10)
	c.Update()
	assert.Equal(t, mgl64.Vec4{0, 0, 0, 1}, c.Look().Col(3))
	id := c.InverseLookProjection().Mul4(c.Projection().Mul4(c.Look()))
	assert.True(t, id.ApproxEqualThreshold(mgl64.Ident4(), 1e-6))
}
