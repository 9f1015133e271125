package render

import "math"

const (
	orbitDamping  = 0.92
	autoRotateVel = 0.003
	idleThreshold = 90 // frames without input before auto-rotate kicks in
	minZoom       = 0.2
	maxZoom       = 6.0
)

// Camera projects world coordinates onto the braille canvas with a damped
// user orbit. When no input has arrived for a while it drifts into a slow
// automatic Y rotation, matching the idle behavior of the visualization.
type Camera struct {
	Dist       float64
	Near       float64
	RotX, RotY float64
	Zoom       float64

	velX, velY float64
	idleFrames int
}

func NewCamera() *Camera {
	return &Camera{Dist: 5, Near: 0.1, Zoom: 1}
}

// Nudge adds orbital velocity from user input; the motion decays over the
// following frames.
func (c *Camera) Nudge(dx, dy float64) {
	c.velY += dx
	c.velX += dy
	c.idleFrames = 0
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(maxZoom, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(minZoom, c.Zoom/1.2) }

// Update advances the orbit by one frame.
func (c *Camera) Update() {
	c.RotX += c.velX
	c.RotY += c.velY
	c.velX *= orbitDamping
	c.velY *= orbitDamping
	c.idleFrames++
	if c.idleFrames > idleThreshold {
		c.RotY += autoRotateVel
	}
}

func (c *Camera) rotate(x, y, z float64) (float64, float64, float64) {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	y, z = y*cx-z*sx, y*sx+z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	x, z = x*cy+z*sy, -x*sy+z*cy
	return x, y, z
}

// Project converts a world point to sub-pixel canvas coordinates.
// Returns x, y, depth and whether the point is in front of the camera.
func (c *Camera) Project(x, y, z float64, sw, sh int) (int, int, float64, bool) {
	x, y, z = c.rotate(x, y, z)
	x, y, z = x*c.Zoom, y*c.Zoom, z*c.Zoom
	if z >= c.Dist-c.Near {
		return 0, 0, 0, false
	}
	persp := c.Dist / (c.Dist - z)
	minDim := math.Min(float64(sw), float64(sh))
	scale := minDim / 3.0
	sx := int(x*persp*scale) + sw/2
	sy := int(-y*persp*scale) + sh/2
	return sx, sy, z, true
}
