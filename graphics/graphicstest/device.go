// Package graphicstest provides a recording graphics.Device for tests that
// exercise GPU resource bookkeeping without a driver.
package graphicstest

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/photoframe/graphics"
)

// Draw is one recorded DrawArrays call with the state bound at that moment.
type Draw struct {
	Program     uint32
	VAO         uint32
	Mode        graphics.Primitive
	Count       int
	Framebuffer uint32
	Textures    [8]uint32
	State       graphics.RenderState
	Uniforms    map[int32]any
}

// Device is a fake graphics.Device. Every create call hands out a fresh name
// and remembers it until the matching delete.
type Device struct {
	MaxTextureSize int

	// FailTextureAfter makes the n-th following CreateTexture call fail with
	// a driver error. Zero disables the failure.
	FailTextureAfter int
	// FailProgram names a program whose creation fails with a ShaderError.
	FailProgram string
	// FailFramebuffer makes CreateFramebuffer report an incomplete target.
	FailFramebuffer bool

	next         uint32
	textures     map[uint32]graphics.TextureSpec
	vertexArrays map[uint32]int
	buffers      map[uint32]bool
	programs     map[uint32]string
	framebuffers map[uint32]graphics.Framebuffer
	uniforms     map[uint32]map[string]int32

	boundFBO     uint32
	program      uint32
	state        graphics.RenderState
	bound        [8]uint32
	pending      map[int32]any
	Draws        []Draw
	Viewports    [][4]int
	Clears       int
	FramebufSize map[uint32][2]int
}

// NewDevice returns a fake with a 4096 texel texture limit.
func NewDevice() *Device {
	return &Device{
		MaxTextureSize: 4096,
		textures:       map[uint32]graphics.TextureSpec{},
		vertexArrays:   map[uint32]int{},
		buffers:        map[uint32]bool{},
		programs:       map[uint32]string{},
		framebuffers:   map[uint32]graphics.Framebuffer{},
		uniforms:       map[uint32]map[string]int32{},
		pending:        map[int32]any{},
		FramebufSize:   map[uint32][2]int{},
	}
}

func (d *Device) name() uint32 {
	d.next++
	return d.next
}

func (d *Device) Info() graphics.DeviceInfo {
	return graphics.DeviceInfo{Vendor: "fake", Renderer: "graphicstest", Version: "0", MaxTextureSize: d.MaxTextureSize}
}

func (d *Device) CreateTexture(spec graphics.TextureSpec, data []byte) (uint32, error) {
	if d.FailTextureAfter > 0 {
		d.FailTextureAfter--
		if d.FailTextureAfter == 0 {
			return 0, fmt.Errorf("fake driver refused texture %dx%d", spec.Width, spec.Height)
		}
	}
	if err := graphics.ValidateTexture(spec, len(data), d.MaxTextureSize); err != nil {
		return 0, err
	}
	id := d.name()
	d.textures[id] = spec
	return id, nil
}

func (d *Device) DeleteTexture(id uint32) {
	if _, ok := d.textures[id]; !ok {
		panic(fmt.Sprintf("graphicstest: delete of unknown texture %d", id))
	}
	delete(d.textures, id)
}

func (d *Device) CreateVertexArray(vertices []graphics.Vertex) (uint32, uint32, error) {
	vao, vbo := d.name(), d.name()
	d.vertexArrays[vao] = len(vertices)
	d.buffers[vbo] = true
	return vao, vbo, nil
}

func (d *Device) DeleteVertexArray(vao, vbo uint32) {
	if _, ok := d.vertexArrays[vao]; !ok {
		panic(fmt.Sprintf("graphicstest: delete of unknown vertex array %d", vao))
	}
	delete(d.vertexArrays, vao)
	delete(d.buffers, vbo)
}

func (d *Device) CreateProgram(name, vs, fs string) (uint32, error) {
	if name == d.FailProgram {
		return 0, &graphics.ShaderError{Name: name, Stage: "link", Log: "fake link failure"}
	}
	id := d.name()
	d.programs[id] = name
	d.uniforms[id] = map[string]int32{}
	return id, nil
}

func (d *Device) DeleteProgram(program uint32) {
	if _, ok := d.programs[program]; !ok {
		panic(fmt.Sprintf("graphicstest: delete of unknown program %d", program))
	}
	delete(d.programs, program)
	delete(d.uniforms, program)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	locs, ok := d.uniforms[program]
	if !ok {
		return -1
	}
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := int32(len(locs))
	locs[name] = loc
	return loc
}

// Location returns the location handed out for a uniform of a named program.
func (d *Device) Location(programName, uniform string) int32 {
	for id, name := range d.programs {
		if name == programName {
			if loc, ok := d.uniforms[id][uniform]; ok {
				return loc
			}
		}
	}
	return -1
}

func (d *Device) CreateFramebuffer(width, height int) (graphics.Framebuffer, error) {
	if d.FailFramebuffer {
		return graphics.Framebuffer{}, &graphics.FramebufferError{Status: 0x8CD6}
	}
	fb := graphics.Framebuffer{FBO: d.name(), Color: d.name(), Depth: d.name(), Width: width, Height: height}
	d.framebuffers[fb.FBO] = fb
	d.FramebufSize[fb.FBO] = [2]int{width, height}
	return fb, nil
}

func (d *Device) DeleteFramebuffer(fb graphics.Framebuffer) {
	if _, ok := d.framebuffers[fb.FBO]; !ok {
		panic(fmt.Sprintf("graphicstest: delete of unknown framebuffer %d", fb.FBO))
	}
	delete(d.framebuffers, fb.FBO)
}

// ReadPixels fills every byte of a row with the row index, so callers can
// check the row order.
func (d *Device) ReadPixels(fb graphics.Framebuffer) ([]byte, error) {
	if _, ok := d.framebuffers[fb.FBO]; !ok {
		return nil, fmt.Errorf("graphicstest: read of unknown framebuffer %d", fb.FBO)
	}
	stride := fb.Width * 4
	pixels := make([]byte, stride*fb.Height)
	for y := 0; y < fb.Height; y++ {
		for i := range stride {
			pixels[y*stride+i] = byte(y)
		}
	}
	return pixels, nil
}

func (d *Device) BindFramebuffer(fbo uint32)                { d.boundFBO = fbo }
func (d *Device) Viewport(x, y, w, h int)                   { d.Viewports = append(d.Viewports, [4]int{x, y, w, h}) }
func (d *Device) Clear(mgl32.Vec4)                          { d.Clears++ }
func (d *Device) SetRenderState(state graphics.RenderState) { d.state = state }
func (d *Device) UseProgram(program uint32)                 { d.program = program; d.pending = map[int32]any{} }
func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4)    { d.pending[loc] = m }
func (d *Device) Uniform1i(loc int32, v int32)              { d.pending[loc] = v }
func (d *Device) Uniform1f(loc int32, v float32)            { d.pending[loc] = v }
func (d *Device) Uniform2f(loc int32, v mgl32.Vec2)         { d.pending[loc] = v }
func (d *Device) Uniform4f(loc int32, v mgl32.Vec4)         { d.pending[loc] = v }
func (d *Device) BindTexture(unit int, texture uint32)      { d.bound[unit] = texture }

func (d *Device) DrawArrays(vao uint32, mode graphics.Primitive, count int) {
	uniforms := make(map[int32]any, len(d.pending))
	for k, v := range d.pending {
		uniforms[k] = v
	}
	d.Draws = append(d.Draws, Draw{
		Program:     d.program,
		VAO:         vao,
		Mode:        mode,
		Count:       count,
		Framebuffer: d.boundFBO,
		Textures:    d.bound,
		State:       d.state,
		Uniforms:    uniforms,
	})
}

// ProgramName returns the name a program was created with.
func (d *Device) ProgramName(program uint32) string {
	return d.programs[program]
}

// LiveTextures returns the names of textures not yet deleted, sorted.
func (d *Device) LiveTextures() []uint32 {
	return sortedKeys(d.textures)
}

// LiveVertexArrays returns the names of vertex arrays not yet deleted.
func (d *Device) LiveVertexArrays() []uint32 {
	return sortedKeys(d.vertexArrays)
}

// LivePrograms returns the number of programs not yet deleted.
func (d *Device) LivePrograms() int {
	return len(d.programs)
}

// LiveFramebuffers returns the number of framebuffers not yet deleted.
func (d *Device) LiveFramebuffers() int {
	return len(d.framebuffers)
}

// TextureSpec returns the spec a live texture was created with.
func (d *Device) TextureSpec(id uint32) (graphics.TextureSpec, bool) {
	spec, ok := d.textures[id]
	return spec, ok
}

// ResetDraws forgets recorded draws and viewports.
func (d *Device) ResetDraws() {
	d.Draws = nil
	d.Viewports = nil
	d.Clears = 0
}

func sortedKeys[V any](m map[uint32]V) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
