// Package viewer is an interactive Gio viewer for classified boards: pan,
// zoom, fit, flip, and rotation controls over the reconstructed geometry.
package viewer

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// Camera is a viewport onto board geometry. Board coordinates are
// millimeters with Y increasing upward; screen coordinates are pixels with
// Y increasing downward.
type Camera struct {
	// Center position in board coordinates (mm)
	CenterX float64
	CenterY float64

	// Zoom level (pixels per mm)
	Zoom float64

	// Screen dimensions (pixels)
	ScreenWidth  int
	ScreenHeight int

	// View controls
	FlipView bool    // mirrored view (looking at the board from the back)
	Rotation float64 // degrees, kept in 0-360

	// The view rotates and flips around this board point.
	RotationCenterX float64
	RotationCenterY float64
}

// NewCamera creates a camera with default settings.
func NewCamera(screenWidth, screenHeight int) *Camera {
	return &Camera{
		Zoom:         10.0, // 10 pixels per mm
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

// WorldToScreen converts board coordinates (mm) to screen pixels.
func (c *Camera) WorldToScreen(pos geom.Point) (float64, float64) {
	pos = c.applyViewTransform(pos)

	x := (pos.X - c.CenterX) * c.Zoom
	y := (pos.Y - c.CenterY) * c.Zoom

	x += float64(c.ScreenWidth) / 2.0
	y += float64(c.ScreenHeight) / 2.0

	// Board Y grows upward, screen Y grows downward.
	y = float64(c.ScreenHeight) - y

	return x, y
}

// ScreenToWorld converts screen pixels to board coordinates (mm).
func (c *Camera) ScreenToWorld(screenX, screenY float64) geom.Point {
	y := float64(c.ScreenHeight) - screenY

	x := screenX - float64(c.ScreenWidth)/2.0
	y = y - float64(c.ScreenHeight)/2.0

	x /= c.Zoom
	y /= c.Zoom

	x += c.CenterX
	y += c.CenterY

	return c.applyInverseViewTransform(geom.Point{X: x, Y: y})
}

// Pan moves the camera by screen pixel offsets.
func (c *Camera) Pan(deltaX, deltaY float64) {
	c.CenterX -= deltaX / c.Zoom
	c.CenterY += deltaY / c.Zoom
}

// ZoomAt zooms at a screen position, keeping the board point under the
// cursor stationary. factor > 1 zooms in.
func (c *Camera) ZoomAt(screenX, screenY, factor float64) {
	before := c.ScreenToWorld(screenX, screenY)

	c.Zoom *= factor
	if c.Zoom < 0.1 {
		c.Zoom = 0.1
	}
	if c.Zoom > 1000.0 {
		c.Zoom = 1000.0
	}

	after := c.ScreenToWorld(screenX, screenY)

	c.CenterX += before.X - after.X
	c.CenterY += before.Y - after.Y
}

// Fit adjusts the camera so the bounding box fills 90% of the screen.
func (c *Camera) Fit(bbox geom.BoundingBox) {
	width := bbox.Width()
	height := bbox.Height()
	if width <= 0 || height <= 0 {
		return
	}

	center := bbox.Center()
	c.CenterX = center.X
	c.CenterY = center.Y
	c.RotationCenterX = center.X
	c.RotationCenterY = center.Y

	zoomX := float64(c.ScreenWidth) * 0.9 / width
	zoomY := float64(c.ScreenHeight) * 0.9 / height
	if zoomX < zoomY {
		c.Zoom = zoomX
	} else {
		c.Zoom = zoomY
	}
}

// UpdateScreenSize updates the camera when the window is resized.
func (c *Camera) UpdateScreenSize(width, height int) {
	c.ScreenWidth = width
	c.ScreenHeight = height
}

// Flip toggles the mirrored view.
func (c *Camera) Flip() {
	c.FlipView = !c.FlipView
}

// Rotate rotates the view by the given degrees.
func (c *Camera) Rotate(degrees float64) {
	c.Rotation = c.Rotation + degrees
	for c.Rotation >= 360 {
		c.Rotation -= 360
	}
	for c.Rotation < 0 {
		c.Rotation += 360
	}
}

func (c *Camera) applyViewTransform(pos geom.Point) geom.Point {
	x := pos.X - c.RotationCenterX
	y := pos.Y - c.RotationCenterY

	if c.Rotation != 0 {
		rad := c.Rotation * math.Pi / 180.0
		cos, sin := math.Cos(rad), math.Sin(rad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}

	if c.FlipView {
		x = -x
	}

	return geom.Point{X: x + c.RotationCenterX, Y: y + c.RotationCenterY}
}

func (c *Camera) applyInverseViewTransform(pos geom.Point) geom.Point {
	x := pos.X - c.RotationCenterX
	y := pos.Y - c.RotationCenterY

	// Inverse flip first, then inverse rotation.
	if c.FlipView {
		x = -x
	}

	if c.Rotation != 0 {
		rad := -c.Rotation * math.Pi / 180.0
		cos, sin := math.Cos(rad), math.Sin(rad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}

	return geom.Point{X: x + c.RotationCenterX, Y: y + c.RotationCenterY}
}

// VisibleBounds returns the board-coordinate bounding box of the visible
// area, for culling.
func (c *Camera) VisibleBounds() geom.BoundingBox {
	bb := geom.NewBoundingBox()
	bb.Expand(c.ScreenToWorld(0, 0))
	bb.Expand(c.ScreenToWorld(float64(c.ScreenWidth), 0))
	bb.Expand(c.ScreenToWorld(0, float64(c.ScreenHeight)))
	bb.Expand(c.ScreenToWorld(float64(c.ScreenWidth), float64(c.ScreenHeight)))
	return bb
}
