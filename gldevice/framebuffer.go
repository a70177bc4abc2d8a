package gldevice

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/photoframe/graphics"
)

// CreateFramebuffer builds an RGBA8 colour texture plus a 24 bit depth
// texture. On an incomplete status every object created here is deleted.
func (d *Device) CreateFramebuffer(width, height int) (graphics.Framebuffer, error) {
	fb := graphics.Framebuffer{Width: width, Height: height}

	gl.GenFramebuffers(1, &fb.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.FBO)

	gl.GenTextures(1, &fb.Color)
	gl.BindTexture(gl.TEXTURE_2D, fb.Color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.Color, 0)

	gl.GenTextures(1, &fb.Depth)
	gl.BindTexture(gl.TEXTURE_2D, fb.Depth)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, int32(width), int32(height), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, fb.Depth, 0)

	drawBuffers := []uint32{gl.COLOR_ATTACHMENT0}
	gl.DrawBuffers(1, &drawBuffers[0])

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		d.DeleteFramebuffer(fb)
		return graphics.Framebuffer{}, &graphics.FramebufferError{Status: status}
	}
	return fb, nil
}

func (d *Device) DeleteFramebuffer(fb graphics.Framebuffer) {
	if fb.FBO != 0 {
		gl.DeleteFramebuffers(1, &fb.FBO)
	}
	if fb.Color != 0 {
		gl.DeleteTextures(1, &fb.Color)
	}
	if fb.Depth != 0 {
		gl.DeleteTextures(1, &fb.Depth)
	}
}

func (d *Device) ReadPixels(fb graphics.Framebuffer) ([]byte, error) {
	pixels := make([]byte, fb.Width*fb.Height*4)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.FBO)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(fb.Width), int32(fb.Height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if e := gl.GetError(); e != gl.NO_ERROR {
		return nil, fmt.Errorf("glReadPixels %dx%d failed: 0x%x", fb.Width, fb.Height, e)
	}
	return pixels, nil
}
