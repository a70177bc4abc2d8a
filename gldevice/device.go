// Package gldevice implements graphics.Device on top of OpenGL 4.1 core /
// OpenGL ES 3 through go-gl.
package gldevice

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/charmbracelet/log"
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/photoframe/graphics"
	"github.com/richinsley/photoframe/translator"
)

var glInitOnce sync.Once

// Device issues GL calls on the thread that owns the current context.
type Device struct {
	logger     *log.Logger
	translator *translator.Translator
	info       graphics.DeviceInfo
	// uniform names as seen by the driver, per program
	uniforms map[uint32]map[string]string
}

// New loads the GL entry points for the current context and queries the
// device limits. A nil translator passes shader sources through unchanged,
// which is only valid on an ES 3 context.
func New(logger *log.Logger, tr *translator.Translator) (*Device, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	d := &Device{
		logger:     logger,
		translator: tr,
		uniforms:   make(map[uint32]map[string]string),
		info: graphics.DeviceInfo{
			Vendor:         gl.GoStr(gl.GetString(gl.VENDOR)),
			Renderer:       gl.GoStr(gl.GetString(gl.RENDERER)),
			Version:        gl.GoStr(gl.GetString(gl.VERSION)),
			MaxTextureSize: int(maxSize),
		},
	}
	logger.Info("OpenGL device", "version", d.info.Version, "vendor", d.info.Vendor,
		"renderer", d.info.Renderer, "max_texture", d.info.MaxTextureSize)
	return d, nil
}

func (d *Device) Info() graphics.DeviceInfo {
	return d.info
}

func (d *Device) CreateVertexArray(vertices []graphics.Vertex) (uint32, uint32, error) {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	stride := int32(unsafe.Sizeof(graphics.Vertex{}))
	var ptr unsafe.Pointer
	if len(vertices) > 0 {
		ptr = gl.Ptr(&vertices[0])
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(stride), ptr, gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(graphics.Vertex{}.Pos))))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(graphics.Vertex{}.Tex))))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &vbo)
		gl.DeleteVertexArrays(1, &vao)
		return 0, 0, fmt.Errorf("failed to create vertex array: gl error 0x%x", code)
	}
	return vao, vbo, nil
}

func (d *Device) DeleteVertexArray(vao, vbo uint32) {
	gl.DeleteBuffers(1, &vbo)
	gl.DeleteVertexArrays(1, &vao)
}

func (d *Device) BindFramebuffer(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) Clear(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) SetRenderState(state graphics.RenderState) {
	toggle(gl.BLEND, state.Blend)
	if state.Blend {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
	toggle(gl.DEPTH_TEST, state.DepthTest)
	toggle(gl.CULL_FACE, state.CullFace)
}

func toggle(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func (d *Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Device) UniformMatrix4(location int32, m mgl32.Mat4) {
	if location < 0 {
		return
	}
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *Device) Uniform1i(location int32, v int32) {
	if location >= 0 {
		gl.Uniform1i(location, v)
	}
}

func (d *Device) Uniform1f(location int32, v float32) {
	if location >= 0 {
		gl.Uniform1f(location, v)
	}
}

func (d *Device) Uniform2f(location int32, v mgl32.Vec2) {
	if location >= 0 {
		gl.Uniform2f(location, v[0], v[1])
	}
}

func (d *Device) Uniform4f(location int32, v mgl32.Vec4) {
	if location >= 0 {
		gl.Uniform4f(location, v[0], v[1], v[2], v[3])
	}
}

func (d *Device) BindTexture(unit int, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (d *Device) DrawArrays(vao uint32, mode graphics.Primitive, count int) {
	gl.BindVertexArray(vao)
	switch mode {
	case graphics.TriangleStrip:
		gl.DrawArrays(gl.TRIANGLE_STRIP, 0, int32(count))
	default:
		gl.DrawArrays(gl.TRIANGLES, 0, int32(count))
	}
}
