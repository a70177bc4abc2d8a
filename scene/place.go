package scene

import "github.com/go-gl/mathgl/mgl32"

// PlacePhoto fits a picture of aspect src into a canvas of aspect dst,
// centred, touching two opposite edges.
func PlacePhoto(src, dst float32) Rect {
	if src > dst {
		h := dst / src
		return Rect{Pos: mgl32.Vec2{0, (1 - h) / 2}, Size: mgl32.Vec2{1, h}}
	}
	w := src / dst
	return Rect{Pos: mgl32.Vec2{(1 - w) / 2, 0}, Size: mgl32.Vec2{w, 1}}
}
