package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/photoframe/graphics"
	"github.com/richinsley/photoframe/shader"
)

// FrameStats counts what the first pass drew and what it had to skip.
type FrameStats struct {
	Transitions int
	Objects     int
	Skipped     int
}

// Renderer draws a Canvas in two passes: the scene into an off-screen
// target, then the target onto the surface.
type Renderer struct {
	device            graphics.Device
	logger            *log.Logger
	registry          *Registry
	blit              *program
	quad              Mesh
	offscreenRenderer *OffscreenRenderer
	policy            ResizePolicy
	background        mgl32.Vec4
	width             int
	height            int
}

// clip space quad, texture v pointing up like the framebuffer rows
var quadVertices = []graphics.Vertex{
	{Pos: mgl32.Vec2{-1, -1}, Tex: mgl32.Vec2{0, 0}},
	{Pos: mgl32.Vec2{1, -1}, Tex: mgl32.Vec2{1, 0}},
	{Pos: mgl32.Vec2{-1, 1}, Tex: mgl32.Vec2{0, 1}},
	{Pos: mgl32.Vec2{1, 1}, Tex: mgl32.Vec2{1, 1}},
}

func NewRenderer(device graphics.Device, logger *log.Logger, opts RendererOptions) (*Renderer, error) {
	info := device.Info()
	logger.Info("GPU", "vendor", info.Vendor, "renderer", info.Renderer, "version", info.Version, "max_texture", info.MaxTextureSize)

	r := &Renderer{
		device:     device,
		logger:     logger,
		policy:     opts.Resize,
		background: opts.Background,
		width:      opts.Width,
		height:     opts.Height,
	}
	if r.background == (mgl32.Vec4{}) {
		r.background = DefaultBackground
	}

	var err error
	r.registry, err = NewRegistry(device)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipelines: %w", err)
	}

	r.blit, err = newProgram(device, shader.Blit(), "screen")
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}

	vao, vbo, err := device.CreateVertexArray(quadVertices)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to create blit quad: %w", err)
	}
	r.quad = Mesh{VAO: vao, VBO: vbo, Count: len(quadVertices), Mode: graphics.TriangleStrip}

	r.offscreenRenderer, err = NewOffscreenRenderer(device, opts.Width, opts.Height)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to create offscreen renderer: %w", err)
	}
	return r, nil
}

// Render draws one frame of the canvas. Items that reference missing
// resources, or a pipeline of the wrong capability, are skipped.
func (r *Renderer) Render(canvas *Canvas) (FrameStats, error) {
	stats, err := r.renderFirstPass(canvas)
	if err != nil {
		return stats, err
	}
	r.renderSecondPass()
	return stats, nil
}

// Resize records the new surface size. The off-screen target follows it
// only under ResizeReallocate; a failed reallocation keeps the old target.
func (r *Renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	r.width, r.height = width, height
	if r.policy != ResizeReallocate {
		return nil
	}
	if w, h := r.offscreenRenderer.Size(); w == width && h == height {
		return nil
	}
	target, err := NewOffscreenRenderer(r.device, width, height)
	if err != nil {
		return fmt.Errorf("failed to resize offscreen renderer: %w", err)
	}
	r.offscreenRenderer.Destroy()
	r.offscreenRenderer = target
	r.logger.Debug("offscreen target reallocated", "width", width, "height", height)
	return nil
}

// Snapshot reads the off-screen target of the last frame as an image, top
// row first.
func (r *Renderer) Snapshot() (*image.NRGBA, error) {
	pixels, err := r.offscreenRenderer.ReadPixels()
	if err != nil {
		return nil, fmt.Errorf("failed to read offscreen target: %w", err)
	}
	w, h := r.offscreenRenderer.Size()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	stride := w * 4
	for y := 0; y < h; y++ {
		src := pixels[(h-1-y)*stride : (h-y)*stride]
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], src)
	}
	return img, nil
}

// SurfaceSize is the viewport of the second pass.
func (r *Renderer) SurfaceSize() (int, int) {
	return r.width, r.height
}

// TargetSize is the viewport of the first pass.
func (r *Renderer) TargetSize() (int, int) {
	return r.offscreenRenderer.Size()
}

// Close releases programs, the blit quad and the off-screen target. It is
// safe on a partly constructed renderer.
func (r *Renderer) Close() {
	if r.registry != nil {
		r.registry.Release()
		r.registry = nil
	}
	if r.blit != nil {
		r.blit.Release()
		r.blit = nil
	}
	if r.quad.VAO != 0 {
		r.device.DeleteVertexArray(r.quad.VAO, r.quad.VBO)
		r.quad = Mesh{}
	}
	if r.offscreenRenderer != nil {
		r.offscreenRenderer.Destroy()
		r.offscreenRenderer = nil
	}
}

var identity = mgl32.Ident4()

func isSkippable(err error) bool {
	return errors.Is(err, ErrMaterialMismatch)
}
