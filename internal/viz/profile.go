package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Viewport maps a side view (Z forward to the right, Y up) onto a canvas.
type Viewport struct {
	CenterZ, CenterY float64
	// Scale is canvas pixels per metre.
	Scale float64
}

func (v Viewport) project(c *Canvas, z, y float64) (int, int) {
	px := float64(c.Width) + (z-v.CenterZ)*v.Scale
	py := float64(c.Height*4)/2 - (y-v.CenterY)*v.Scale
	return int(math.Round(px)), int(math.Round(py))
}

// DrawProfile draws the water surface along the vessel's centerline and
// the hull box outline at position.
func DrawProfile(c *Canvas, v Viewport, surface func(mgl64.Vec3) float64, position, halfExtents mgl64.Vec3) {
	c.Clear()
	width := c.Width * 2
	prevX, prevY := -1, 0
	for px := 0; px < width; px += 2 {
		z := v.CenterZ + (float64(px)-float64(c.Width))/v.Scale
		x, y := v.project(c, z, surface(mgl64.Vec3{position.X(), 0, z}))
		if prevX >= 0 {
			c.DrawLine(prevX, prevY, x, y)
		}
		prevX, prevY = x, y
	}

	x0, y0 := v.project(c, position.Z()-halfExtents.Z(), position.Y()+halfExtents.Y())
	x1, y1 := v.project(c, position.Z()+halfExtents.Z(), position.Y()-halfExtents.Y())
	c.DrawRect(x0, y0, x1, y1)
}
