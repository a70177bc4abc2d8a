package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/photoframe/graphics"
	"github.com/richinsley/photoframe/shader"
)

// ErrMaterialMismatch is returned when a pipeline is handed a material of a
// kind it cannot sample. The renderer skips such items.
var ErrMaterialMismatch = errors.New("material kind does not match pipeline")

// PipelineKind is the closed set of render pipelines. Values are stable and
// used as pipeline ids in draw lists.
type PipelineKind int

const (
	PipelineFlatColor PipelineKind = iota
	PipelinePlanarTexture
	PipelineChromaVideo
	PipelineSDFText
	PipelineCrossfade

	numPipelines
)

func (k PipelineKind) String() string {
	switch k {
	case PipelineFlatColor:
		return "flat_color"
	case PipelinePlanarTexture:
		return "planar_texture"
	case PipelineChromaVideo:
		return "chroma_video"
	case PipelineSDFText:
		return "sdf_text"
	case PipelineCrossfade:
		return "crossfade"
	}
	return fmt.Sprintf("PipelineKind(%d)", int(k))
}

// Uniforms is the per draw state shared by all pipelines.
type Uniforms struct {
	Model      mgl32.Mat4
	Camera     mgl32.Mat4
	MaterialID int32
	Color      mgl32.Vec4
	Progress   float32
	FromPos    mgl32.Vec2
	FromSize   mgl32.Vec2
	ToPos      mgl32.Vec2
	ToSize     mgl32.Vec2
}

// Pipeline draws one mesh with one material.
type Pipeline interface {
	Kind() PipelineKind
	Render(mesh Mesh, material Material, u *Uniforms) error
	Release()
}

// TransitionPipeline draws one mesh blending two materials.
type TransitionPipeline interface {
	Kind() PipelineKind
	Render(mesh Mesh, from, to Material, u *Uniforms) error
	Release()
}

// program is a linked shader program and its uniform locations.
type program struct {
	device graphics.Device
	name   string
	id     uint32
	loc    map[string]int32
}

func newProgram(device graphics.Device, src shader.Source, uniforms ...string) (*program, error) {
	id, err := device.CreateProgram(src.Name, src.Vertex, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s program: %w", src.Name, err)
	}
	p := &program{device: device, name: src.Name, id: id, loc: make(map[string]int32, len(uniforms))}
	for _, u := range uniforms {
		p.loc[u] = device.UniformLocation(id, u)
	}
	return p, nil
}

func (p *program) location(name string) int32 {
	if l, ok := p.loc[name]; ok {
		return l
	}
	return -1
}

func (p *program) use(state graphics.RenderState) {
	p.device.SetRenderState(state)
	p.device.UseProgram(p.id)
}

func (p *program) setTransforms(u *Uniforms) {
	p.device.UniformMatrix4(p.location("model"), u.Model)
	p.device.UniformMatrix4(p.location("camera"), u.Camera)
	p.device.Uniform1i(p.location("mat_id"), u.MaterialID)
}

func (p *program) bindSampler(name string, unit int, texture uint32) {
	p.device.Uniform1i(p.location(name), int32(unit))
	p.device.BindTexture(unit, texture)
}

func (p *program) Release() {
	if p.id != 0 {
		p.device.DeleteProgram(p.id)
		p.id = 0
	}
}

var objectUniforms = []string{"model", "camera", "mat_id", "color"}

func tint(a, b mgl32.Vec4) mgl32.Vec4 {
	return mgl32.Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

type flatColorPipeline struct{ *program }

func (p *flatColorPipeline) Kind() PipelineKind { return PipelineFlatColor }

func (p *flatColorPipeline) Render(mesh Mesh, m Material, u *Uniforms) error {
	if m.Kind != MaterialColor {
		return ErrMaterialMismatch
	}
	p.use(graphics.RenderState{Blend: m.Color[3]*u.Color[3] < 1})
	p.setTransforms(u)
	p.device.Uniform4f(p.location("color"), tint(m.Color, u.Color))
	p.device.DrawArrays(mesh.VAO, mesh.Mode, mesh.Count)
	return nil
}

type planarTexturePipeline struct{ *program }

func (p *planarTexturePipeline) Kind() PipelineKind { return PipelinePlanarTexture }

func (p *planarTexturePipeline) Render(mesh Mesh, m Material, u *Uniforms) error {
	if m.Kind != MaterialTexture {
		return ErrMaterialMismatch
	}
	p.use(graphics.RenderState{Blend: true})
	p.setTransforms(u)
	p.device.Uniform4f(p.location("color"), u.Color)
	p.bindSampler("txtre", 0, m.Textures[0])
	p.device.DrawArrays(mesh.VAO, mesh.Mode, mesh.Count)
	return nil
}

type chromaVideoPipeline struct{ *program }

func (p *chromaVideoPipeline) Kind() PipelineKind { return PipelineChromaVideo }

func (p *chromaVideoPipeline) Render(mesh Mesh, m Material, u *Uniforms) error {
	if m.Kind != MaterialYUV {
		return ErrMaterialMismatch
	}
	p.use(graphics.RenderState{})
	p.setTransforms(u)
	p.bindSampler("tex_y", 0, m.Textures[0])
	p.bindSampler("tex_cb", 1, m.Textures[1])
	p.bindSampler("tex_cr", 2, m.Textures[2])
	p.device.DrawArrays(mesh.VAO, mesh.Mode, mesh.Count)
	return nil
}

type sdfTextPipeline struct{ *program }

func (p *sdfTextPipeline) Kind() PipelineKind { return PipelineSDFText }

func (p *sdfTextPipeline) Render(mesh Mesh, m Material, u *Uniforms) error {
	if m.Kind != MaterialTexture {
		return ErrMaterialMismatch
	}
	p.use(graphics.RenderState{Blend: true})
	p.setTransforms(u)
	p.device.Uniform4f(p.location("color"), u.Color)
	p.bindSampler("txtre", 0, m.Textures[0])
	p.device.DrawArrays(mesh.VAO, mesh.Mode, mesh.Count)
	return nil
}

type crossfadePipeline struct{ *program }

func (p *crossfadePipeline) Kind() PipelineKind { return PipelineCrossfade }

func (p *crossfadePipeline) Render(mesh Mesh, from, to Material, u *Uniforms) error {
	if from.Kind != MaterialYUV || to.Kind != MaterialYUV {
		return ErrMaterialMismatch
	}
	p.use(graphics.RenderState{})
	p.setTransforms(u)
	p.device.Uniform4f(p.location("color"), u.Color)
	p.device.Uniform1f(p.location("progress"), u.Progress)
	p.device.Uniform2f(p.location("from_pos"), u.FromPos)
	p.device.Uniform2f(p.location("from_size"), u.FromSize)
	p.device.Uniform2f(p.location("to_pos"), u.ToPos)
	p.device.Uniform2f(p.location("to_size"), u.ToSize)
	for i, name := range []string{"from_y", "from_cb", "from_cr"} {
		p.bindSampler(name, i, from.Textures[i])
	}
	for i, name := range []string{"to_y", "to_cb", "to_cr"} {
		p.bindSampler(name, 3+i, to.Textures[i])
	}
	p.device.DrawArrays(mesh.VAO, mesh.Mode, mesh.Count)
	return nil
}

// Registry holds one pipeline per PipelineKind. Object kinds and the
// transition kind live in separate tables so a lookup with the wrong
// capability finds nothing.
type Registry struct {
	objects     [numPipelines]Pipeline
	transitions [numPipelines]TransitionPipeline
}

// NewRegistry compiles every pipeline. A failing program releases the
// programs built before it.
func NewRegistry(device graphics.Device) (*Registry, error) {
	r := &Registry{}
	build := []struct {
		src      shader.Source
		uniforms []string
		install  func(*program)
	}{
		{shader.FlatColor(), objectUniforms, func(p *program) { r.objects[PipelineFlatColor] = &flatColorPipeline{p} }},
		{shader.PlanarTexture(), append(objectUniforms, "txtre"), func(p *program) { r.objects[PipelinePlanarTexture] = &planarTexturePipeline{p} }},
		{shader.ChromaVideo(), append(objectUniforms, "tex_y", "tex_cb", "tex_cr"), func(p *program) { r.objects[PipelineChromaVideo] = &chromaVideoPipeline{p} }},
		{shader.SDFText(), append(objectUniforms, "txtre"), func(p *program) { r.objects[PipelineSDFText] = &sdfTextPipeline{p} }},
		{shader.Crossfade(), append(objectUniforms,
			"progress", "from_pos", "from_size", "to_pos", "to_size",
			"from_y", "from_cb", "from_cr", "to_y", "to_cb", "to_cr"),
			func(p *program) { r.transitions[PipelineCrossfade] = &crossfadePipeline{p} }},
	}
	for _, b := range build {
		p, err := newProgram(device, b.src, b.uniforms...)
		if err != nil {
			r.Release()
			return nil, err
		}
		b.install(p)
	}
	return r, nil
}

// Object returns the pipeline for kind if it draws single materials.
func (r *Registry) Object(kind PipelineKind) (Pipeline, bool) {
	if kind < 0 || kind >= numPipelines || r.objects[kind] == nil {
		return nil, false
	}
	return r.objects[kind], true
}

// Transition returns the pipeline for kind if it blends two materials.
func (r *Registry) Transition(kind PipelineKind) (TransitionPipeline, bool) {
	if kind < 0 || kind >= numPipelines || r.transitions[kind] == nil {
		return nil, false
	}
	return r.transitions[kind], true
}

func (r *Registry) Release() {
	for i, p := range r.objects {
		if p != nil {
			p.Release()
			r.objects[i] = nil
		}
	}
	for i, p := range r.transitions {
		if p != nil {
			p.Release()
			r.transitions[i] = nil
		}
	}
}
