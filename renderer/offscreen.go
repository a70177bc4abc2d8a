package renderer

import (
	"fmt"

	"github.com/richinsley/photoframe/graphics"
)

// OffscreenRenderer is the render target of the first pass. The second pass
// samples its colour texture onto the surface.
type OffscreenRenderer struct {
	device graphics.Device
	fb     graphics.Framebuffer
}

func NewOffscreenRenderer(device graphics.Device, width, height int) (*OffscreenRenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid offscreen size %dx%d", width, height)
	}
	fb, err := device.CreateFramebuffer(width, height)
	if err != nil {
		return nil, fmt.Errorf("offscreen fbo %dx%d: %w", width, height, err)
	}
	return &OffscreenRenderer{device: device, fb: fb}, nil
}

// Bind makes the target current and sets the viewport to its full size.
func (or *OffscreenRenderer) Bind() {
	or.device.BindFramebuffer(or.fb.FBO)
	or.device.Viewport(0, 0, or.fb.Width, or.fb.Height)
}

func (or *OffscreenRenderer) Size() (int, int) {
	return or.fb.Width, or.fb.Height
}

func (or *OffscreenRenderer) ColorTexture() uint32 {
	return or.fb.Color
}

// ReadPixels reads the target back, bottom row first.
func (or *OffscreenRenderer) ReadPixels() ([]byte, error) {
	return or.device.ReadPixels(or.fb)
}

func (or *OffscreenRenderer) Destroy() {
	if or.fb.FBO != 0 {
		or.device.DeleteFramebuffer(or.fb)
		or.fb = graphics.Framebuffer{}
	}
}
