package renderer

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/photoframe/graphics"
)

// MaterialKind tags which fields of a Material are meaningful.
type MaterialKind int

const (
	MaterialColor MaterialKind = iota
	MaterialTexture
	MaterialYUV
)

func (k MaterialKind) String() string {
	switch k {
	case MaterialColor:
		return "color"
	case MaterialTexture:
		return "texture"
	case MaterialYUV:
		return "yuv"
	}
	return fmt.Sprintf("MaterialKind(%d)", int(k))
}

// Material is a solid colour, a single texture or three planar Y/Cb/Cr
// textures. Only Textures[0] is used by MaterialTexture.
type Material struct {
	Kind     MaterialKind
	Color    mgl32.Vec4
	Textures [3]uint32
}

// ColorMaterial needs no GPU object and is never deleted.
func ColorMaterial(c mgl32.Vec4) Material {
	return Material{Kind: MaterialColor, Color: c}
}

// Mesh is an uploaded vertex array. It is immutable once created.
type Mesh struct {
	VAO   uint32
	VBO   uint32
	Count int
	Mode  graphics.Primitive
}

// Object is one textured or coloured mesh placed in the scene.
type Object struct {
	MeshID     int
	PipelineID PipelineKind
	MaterialID int
	Transform  mgl32.Mat4
	Color      mgl32.Vec4
}

// Transition blends two materials over the mesh. The rectangles place each
// material inside the unit canvas.
type Transition struct {
	MeshID     int
	PipelineID PipelineKind
	FromID     int
	ToID       int
	Progress   float32
	FromPos    mgl32.Vec2
	FromSize   mgl32.Vec2
	ToPos      mgl32.Vec2
	ToSize     mgl32.Vec2
}

// DrawList is everything the renderer needs for one frame. Object and
// transition ids index Materials and Meshes.
type DrawList struct {
	Objects     []Object
	Transitions []Transition
	Materials   []Material
	Meshes      []Mesh
}

// Canvas owns the GPU resources of the scene and the current draw list.
type Canvas struct {
	device graphics.Device
	logger *log.Logger
	aspect float32
	camera Camera
	list   DrawList
}

func NewCanvas(device graphics.Device, aspect float32, logger *log.Logger) *Canvas {
	return &Canvas{
		device: device,
		logger: logger,
		aspect: aspect,
		camera: DefaultCamera(),
	}
}

func (c *Canvas) textureSpec(width, height int, format graphics.TextureFormat) graphics.TextureSpec {
	return graphics.TextureSpec{
		Width:  width,
		Height: height,
		Format: format,
		Filter: graphics.FilterLinear,
		Wrap:   graphics.WrapClamp,
	}
}

func (c *Canvas) createTexture(width, height int, format graphics.TextureFormat, data []byte) (uint32, error) {
	spec := c.textureSpec(width, height, format)
	if err := graphics.ValidateTexture(spec, len(data), c.device.Info().MaxTextureSize); err != nil {
		return 0, err
	}
	return c.device.CreateTexture(spec, data)
}

// CreateTexture uploads a single plane texture material.
func (c *Canvas) CreateTexture(width, height int, format graphics.TextureFormat, data []byte) (Material, error) {
	id, err := c.createTexture(width, height, format, data)
	if err != nil {
		return Material{}, fmt.Errorf("failed to create texture: %w", err)
	}
	return Material{Kind: MaterialTexture, Color: mgl32.Vec4{1, 1, 1, 1}, Textures: [3]uint32{id}}, nil
}

// CreateYUVTexture uploads a full size luma plane and two half size chroma
// planes. Either all three textures exist afterwards or none does.
func (c *Canvas) CreateYUVTexture(width, height int, format graphics.TextureFormat, y, u, v []byte) (Material, error) {
	planes := []struct {
		name string
		w, h int
		data []byte
	}{
		{"y", width, height, y},
		{"cb", width / 2, height / 2, u},
		{"cr", width / 2, height / 2, v},
	}

	m := Material{Kind: MaterialYUV, Color: mgl32.Vec4{1, 1, 1, 1}}
	for i, p := range planes {
		id, err := c.createTexture(p.w, p.h, format, p.data)
		if err != nil {
			for _, created := range m.Textures[:i] {
				c.device.DeleteTexture(created)
			}
			return Material{}, fmt.Errorf("failed to create %s plane: %w", p.name, err)
		}
		m.Textures[i] = id
	}
	return m, nil
}

// DeleteMaterial releases the textures behind a material. Colour materials
// own nothing.
func (c *Canvas) DeleteMaterial(m Material) {
	switch m.Kind {
	case MaterialTexture:
		c.device.DeleteTexture(m.Textures[0])
	case MaterialYUV:
		for _, id := range m.Textures {
			c.device.DeleteTexture(id)
		}
	}
}

func (c *Canvas) CreateMesh(vertices []graphics.Vertex, mode graphics.Primitive) (Mesh, error) {
	if len(vertices) == 0 {
		return Mesh{}, fmt.Errorf("failed to create mesh: no vertices")
	}
	vao, vbo, err := c.device.CreateVertexArray(vertices)
	if err != nil {
		return Mesh{}, fmt.Errorf("failed to create mesh: %w", err)
	}
	return Mesh{VAO: vao, VBO: vbo, Count: len(vertices), Mode: mode}, nil
}

func (c *Canvas) DeleteMesh(m Mesh) {
	c.device.DeleteVertexArray(m.VAO, m.VBO)
}

// Update swaps in the next frame's draw list. Resources referenced by the old
// list are not touched.
func (c *Canvas) Update(list DrawList) {
	c.list = list
}

func (c *Canvas) Resize(aspect float32) {
	c.aspect = aspect
}

func (c *Canvas) AspectRatio() float32 {
	return c.aspect
}

func (c *Canvas) Camera() Camera {
	return c.camera
}

func (c *Canvas) DrawList() DrawList {
	return c.list
}

func (c *Canvas) material(id int) (Material, bool) {
	if id < 0 || id >= len(c.list.Materials) {
		return Material{}, false
	}
	return c.list.Materials[id], true
}

func (c *Canvas) mesh(id int) (Mesh, bool) {
	if id < 0 || id >= len(c.list.Meshes) {
		return Mesh{}, false
	}
	return c.list.Meshes[id], true
}
