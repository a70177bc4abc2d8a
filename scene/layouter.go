package scene

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/photoframe/catalogue"
	"github.com/richinsley/photoframe/font"
	"github.com/richinsley/photoframe/graphics"
	"github.com/richinsley/photoframe/renderer"
)

// Layouter owns the mapping from handles to GPU resources and rebuilds the
// canvas draw list from layouts.
type Layouter struct {
	canvas  *renderer.Canvas
	font    *font.Font
	decoder catalogue.Decoder
	logger  *log.Logger

	materials slotTable[renderer.Material]
	meshes    slotTable[renderer.Mesh]

	fontMaterial renderer.Material
	quad         renderer.Mesh
}

// unit quad as a triangle strip, texture v pointing down the image rows
var quadVertices = []graphics.Vertex{
	{Pos: mgl32.Vec2{0, 0}, Tex: mgl32.Vec2{0, 1}},
	{Pos: mgl32.Vec2{1, 0}, Tex: mgl32.Vec2{1, 1}},
	{Pos: mgl32.Vec2{0, 1}, Tex: mgl32.Vec2{0, 0}},
	{Pos: mgl32.Vec2{1, 1}, Tex: mgl32.Vec2{1, 0}},
}

var white = mgl32.Vec4{1, 1, 1, 1}

// NewLayouter uploads the font atlas and the shared quad.
func NewLayouter(canvas *renderer.Canvas, fnt *font.Font, decoder catalogue.Decoder, logger *log.Logger) (*Layouter, error) {
	fontMaterial, err := canvas.CreateTexture(fnt.Width, fnt.Height, graphics.FormatRGBA, fnt.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload font atlas: %w", err)
	}
	quad, err := canvas.CreateMesh(quadVertices, graphics.TriangleStrip)
	if err != nil {
		canvas.DeleteMaterial(fontMaterial)
		return nil, fmt.Errorf("failed to create quad: %w", err)
	}
	return &Layouter{
		canvas:       canvas,
		font:         fnt,
		decoder:      decoder,
		logger:       logger,
		fontMaterial: fontMaterial,
		quad:         quad,
	}, nil
}

// LoadPhoto decodes a photo and uploads it as a YUV material.
func (l *Layouter) LoadPhoto(photo catalogue.Photo) (Handle, error) {
	frame, err := l.decoder.Decode(photo.Path)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to decode photo: %w", err)
	}
	material, err := l.canvas.CreateYUVTexture(frame.Width, frame.Height, graphics.FormatR8, frame.Y, frame.Cb, frame.Cr)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to upload %s: %w", photo.Path, err)
	}
	id := l.materials.insert(material)
	l.logger.Info("loaded photo", "path", photo.Path, "material", id, "width", frame.Width, "height", frame.Height)
	return Handle{MaterialID: &id, AspectRatio: float32(frame.Width) / float32(frame.Height)}, nil
}

// LoadIcon uploads an image as an RGBA material.
func (l *Layouter) LoadIcon(img image.Image) (Handle, error) {
	b := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)

	material, err := l.canvas.CreateTexture(b.Dx(), b.Dy(), graphics.FormatRGBA, rgba.Pix)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to upload icon: %w", err)
	}
	id := l.materials.insert(material)
	return Handle{MaterialID: &id, AspectRatio: float32(b.Dx()) / float32(b.Dy())}, nil
}

// FreeHandle releases whatever the handle still holds. Freeing an empty or
// already freed handle does nothing.
func (l *Layouter) FreeHandle(h Handle) {
	if h.MaterialID != nil {
		if m, ok := l.materials.remove(*h.MaterialID); ok {
			l.canvas.DeleteMaterial(m)
		}
	}
	if h.MeshID != nil {
		if m, ok := l.meshes.remove(*h.MeshID); ok {
			l.canvas.DeleteMesh(m)
		}
	}
}

func (l *Layouter) material(h Handle) (renderer.Material, bool) {
	if h.MaterialID == nil {
		return renderer.Material{}, false
	}
	return l.materials.get(*h.MaterialID)
}

func (l *Layouter) mesh(h Handle) (renderer.Mesh, bool) {
	if h.MeshID == nil {
		return renderer.Mesh{}, false
	}
	return l.meshes.get(*h.MeshID)
}

func withOpacity(c mgl32.Vec4, opacity float32) mgl32.Vec4 {
	return mgl32.Vec4{c[0], c[1], c[2], c[3] * opacity}
}

// UpdateLayout rebuilds the draw list from scratch. Index 0 always holds
// the font material and the unit quad. Items whose handles no longer
// resolve are left out.
func (l *Layouter) UpdateLayout(layout Layout) {
	const fontMaterialID, quadMeshID = 0, 0
	list := renderer.DrawList{
		Materials: []renderer.Material{l.fontMaterial},
		Meshes:    []renderer.Mesh{l.quad},
	}
	addMaterial := func(m renderer.Material) int {
		list.Materials = append(list.Materials, m)
		return len(list.Materials) - 1
	}
	addPicture := func(p Picture) {
		m, ok := l.material(p.Handle)
		if !ok {
			return
		}
		list.Objects = append(list.Objects, renderer.Object{
			MeshID:     quadMeshID,
			PipelineID: renderer.PipelineChromaVideo,
			MaterialID: addMaterial(m),
			Transform:  p.Dst.Transform(),
			Color:      withOpacity(white, p.Opacity),
		})
	}

	for _, item := range layout.Items {
		switch e := item.Element.(type) {
		case Picture:
			addPicture(e)
		case Thumbnail:
			addPicture(e.Picture)
		case Text:
			mesh, ok := l.mesh(e.Handle)
			if !ok {
				continue
			}
			list.Meshes = append(list.Meshes, mesh)
			list.Objects = append(list.Objects, renderer.Object{
				MeshID:     len(list.Meshes) - 1,
				PipelineID: renderer.PipelineSDFText,
				MaterialID: fontMaterialID,
				Transform:  l.textTransform(e.Dst),
				Color:      withOpacity(e.Color, e.Opacity),
			})
		case Icon:
			obj := renderer.Object{MeshID: quadMeshID, Transform: e.Dst.Transform()}
			if m, ok := l.material(e.Handle); ok && m.Kind == renderer.MaterialTexture {
				obj.PipelineID = renderer.PipelinePlanarTexture
				obj.MaterialID = addMaterial(m)
				obj.Color = withOpacity(e.Color, e.Opacity)
			} else {
				obj.PipelineID = renderer.PipelineFlatColor
				obj.MaterialID = addMaterial(renderer.ColorMaterial(e.Color))
				obj.Color = withOpacity(white, e.Opacity)
			}
			list.Objects = append(list.Objects, obj)
		case TransitionElement:
			from, okFrom := l.material(e.From)
			to, okTo := l.material(e.To)
			if !okFrom || !okTo {
				continue
			}
			list.Transitions = append(list.Transitions, renderer.Transition{
				MeshID:     quadMeshID,
				PipelineID: renderer.PipelineCrossfade,
				FromID:     addMaterial(from),
				ToID:       addMaterial(to),
				Progress:   e.Progress,
				FromPos:    e.FromDst.Pos,
				FromSize:   e.FromDst.Size,
				ToPos:      e.ToDst.Pos,
				ToSize:     e.ToDst.Size,
			})
		}
	}
	l.canvas.Update(list)
}

// textTransform scales em units into the canvas, undoing the horizontal
// stretch of a non-square canvas.
func (l *Layouter) textTransform(dst Rect) mgl32.Mat4 {
	aspect := l.canvas.AspectRatio()
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Translate3D(dst.Pos.X(), dst.Pos.Y(), 0).Mul4(mgl32.Scale3D(dst.Size.X()/aspect, dst.Size.Y(), 1))
}

func (l *Layouter) Canvas() *renderer.Canvas {
	return l.canvas
}

func (l *Layouter) AspectRatio() float32 {
	return l.canvas.AspectRatio()
}

func (l *Layouter) Resize(aspect float32) {
	l.canvas.Resize(aspect)
}

// LiveMaterials counts materials loaded through handles, excluding the font.
func (l *Layouter) LiveMaterials() int {
	return l.materials.live()
}

// LiveMeshes counts meshes created through handles, excluding the quad.
func (l *Layouter) LiveMeshes() int {
	return l.meshes.live()
}

// Close releases every resource the layouter still owns and clears the
// draw list.
func (l *Layouter) Close() {
	l.canvas.Update(renderer.DrawList{})
	l.materials.each(func(id int, m renderer.Material) {
		l.canvas.DeleteMaterial(m)
	})
	l.meshes.each(func(id int, m renderer.Mesh) {
		l.canvas.DeleteMesh(m)
	})
	l.materials = slotTable[renderer.Material]{}
	l.meshes = slotTable[renderer.Mesh]{}
	l.canvas.DeleteMaterial(l.fontMaterial)
	l.canvas.DeleteMesh(l.quad)
}
