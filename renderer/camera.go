package renderer

import "github.com/go-gl/mathgl/mgl32"

// Camera looks at the unit square of the scene. Position is its lower left
// corner and Zoom the extent of the visible square.
type Camera struct {
	Position mgl32.Vec2
	Zoom     float32
}

func DefaultCamera() Camera {
	return Camera{Zoom: 1}
}

// Matrix maps the visible square onto clip space. The canvas aspect ratio is
// applied to objects by the layout, not here.
func (c Camera) Matrix() mgl32.Mat4 {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return mgl32.Ortho2D(c.Position.X(), c.Position.X()+zoom, c.Position.Y(), c.Position.Y()+zoom)
}
