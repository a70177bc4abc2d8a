package graphics

import (
	"errors"
	"fmt"
)

// ErrInvalidTextureSize is matched by every TextureSizeError.
var ErrInvalidTextureSize = errors.New("invalid texture size")

// ErrUnknownTextureFormat is returned for a TextureFormat without a texel
// size.
var ErrUnknownTextureFormat = errors.New("unknown texture format")

// TextureSizeError reports a texture request the device cannot hold.
type TextureSizeError struct {
	Width, Height int
	Max           int
	DataLen       int
	Needed        int
}

func (e *TextureSizeError) Error() string {
	if e.Needed > e.DataLen {
		return fmt.Sprintf("texture %dx%d needs %d bytes, got %d", e.Width, e.Height, e.Needed, e.DataLen)
	}
	return fmt.Sprintf("texture %dx%d outside device limits (1..%d)", e.Width, e.Height, e.Max)
}

func (e *TextureSizeError) Is(target error) bool {
	return target == ErrInvalidTextureSize
}

// ValidateTexture checks a texture request against the device limit and the
// supplied data. It never touches the GPU.
func ValidateTexture(spec TextureSpec, dataLen, maxSize int) error {
	if spec.Width <= 0 || spec.Height <= 0 || spec.Width > maxSize || spec.Height > maxSize {
		return &TextureSizeError{Width: spec.Width, Height: spec.Height, Max: maxSize, DataLen: dataLen}
	}
	bpp := spec.Format.BytesPerPixel()
	if bpp == 0 {
		return fmt.Errorf("texture %dx%d: %w %d", spec.Width, spec.Height, ErrUnknownTextureFormat, int(spec.Format))
	}
	needed := spec.Width * spec.Height * bpp
	if dataLen < needed {
		return &TextureSizeError{Width: spec.Width, Height: spec.Height, Max: maxSize, DataLen: dataLen, Needed: needed}
	}
	return nil
}

// ShaderError carries the driver's info log for a failed compile or link.
type ShaderError struct {
	Name  string
	Stage string
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("failed to %s shader %q: %s", e.Stage, e.Name, e.Log)
}

// FramebufferError is returned when a render target is incomplete.
type FramebufferError struct {
	Status uint32
}

func (e *FramebufferError) Error() string {
	return fmt.Sprintf("framebuffer is not complete (status 0x%x)", e.Status)
}
