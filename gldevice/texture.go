package gldevice

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/photoframe/graphics"
)

func glFormat(f graphics.TextureFormat) (internal int32, format uint32) {
	switch f {
	case graphics.FormatRGB:
		return gl.RGB8, gl.RGB
	case graphics.FormatR8:
		return gl.R8, gl.RED
	default:
		return gl.RGBA8, gl.RGBA
	}
}

func glFilter(f graphics.Filter) int32 {
	if f == graphics.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func glWrap(w graphics.Wrap) int32 {
	if w == graphics.WrapRepeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

// CreateTexture validates the request against MAX_TEXTURE_SIZE before any GL
// object exists, and deletes the texture again if the upload fails.
func (d *Device) CreateTexture(spec graphics.TextureSpec, data []byte) (uint32, error) {
	if err := graphics.ValidateTexture(spec, len(data), d.info.MaxTextureSize); err != nil {
		return 0, err
	}

	internal, format := glFormat(spec.Format)
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(spec.Width), int32(spec.Height), 0, format, gl.UNSIGNED_BYTE, gl.Ptr(data))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(spec.Filter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(spec.Filter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(spec.Wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(spec.Wrap))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &texture)
		return 0, fmt.Errorf("failed to upload %s texture %dx%d: gl error 0x%x", spec.Format, spec.Width, spec.Height, code)
	}
	return texture, nil
}

func (d *Device) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}
