package graphics

import "github.com/go-gl/mathgl/mgl32"

// TextureFormat selects the pixel layout of uploaded texture data.
type TextureFormat int

const (
	FormatRGBA TextureFormat = iota
	FormatRGB
	FormatR8
)

// BytesPerPixel returns the size of one texel in the upload buffer.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA:
		return 4
	case FormatRGB:
		return 3
	case FormatR8:
		return 1
	}
	return 0
}

func (f TextureFormat) String() string {
	switch f {
	case FormatRGBA:
		return "rgba"
	case FormatRGB:
		return "rgb"
	case FormatR8:
		return "r8"
	}
	return "invalid"
}

type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

type Wrap int

const (
	WrapClamp Wrap = iota
	WrapRepeat
)

// TextureSpec describes a 2D texture to allocate.
type TextureSpec struct {
	Width  int
	Height int
	Format TextureFormat
	Filter Filter
	Wrap   Wrap
}

// Primitive is the topology used by DrawArrays.
type Primitive int

const (
	Triangles Primitive = iota
	TriangleStrip
)

// Vertex is the only vertex layout the pipelines consume: attribute 0 is the
// position, attribute 1 the texture coordinate.
type Vertex struct {
	Pos mgl32.Vec2
	Tex mgl32.Vec2
}

// Framebuffer is an off-screen colour + depth render target.
type Framebuffer struct {
	FBO    uint32
	Color  uint32
	Depth  uint32
	Width  int
	Height int
}

// RenderState toggles the fixed-function state the 2D pipelines care about.
type RenderState struct {
	Blend     bool
	DepthTest bool
	CullFace  bool
}

// DeviceInfo reports driver strings and limits.
type DeviceInfo struct {
	Vendor         string
	Renderer       string
	Version        string
	MaxTextureSize int
}

// Device provides the primitive GPU operations. It is created once at
// startup against a current Context and passed to everything that touches
// the GPU. Object names are the driver's names; zero is never a live object.
type Device interface {
	Info() DeviceInfo

	CreateTexture(spec TextureSpec, data []byte) (uint32, error)
	DeleteTexture(id uint32)

	CreateVertexArray(vertices []Vertex) (vao, vbo uint32, err error)
	DeleteVertexArray(vao, vbo uint32)

	CreateProgram(name, vertexSource, fragmentSource string) (uint32, error)
	DeleteProgram(program uint32)
	// UniformLocation returns -1 for unknown or optimised-out uniforms.
	UniformLocation(program uint32, name string) int32

	CreateFramebuffer(width, height int) (Framebuffer, error)
	DeleteFramebuffer(fb Framebuffer)
	BindFramebuffer(fbo uint32)
	// ReadPixels returns the colour attachment as RGBA8 rows, bottom row
	// first.
	ReadPixels(fb Framebuffer) ([]byte, error)

	Viewport(x, y, width, height int)
	Clear(color mgl32.Vec4)
	SetRenderState(state RenderState)

	UseProgram(program uint32)
	UniformMatrix4(location int32, m mgl32.Mat4)
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, v mgl32.Vec2)
	Uniform4f(location int32, v mgl32.Vec4)
	BindTexture(unit int, texture uint32)
	DrawArrays(vao uint32, mode Primitive, count int)
}
