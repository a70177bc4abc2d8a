package scene

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/photoframe/font"
	"github.com/richinsley/photoframe/graphics"
)

// CreateText builds a single line mesh in em units, baseline at y = 0. Runes
// without a glyph are skipped; a string without glyphs yields an empty
// handle.
func (l *Layouter) CreateText(text string) (Handle, error) {
	var verts []graphics.Vertex
	l.appendLine(&verts, text, mgl32.Vec2{})
	return l.insertText(text, verts)
}

// CreateMultilineText wraps at spaces so no line exceeds maxWidth em, unless
// a single word does. Lines stack upward and the last one sits on the
// baseline.
func (l *Layouter) CreateMultilineText(text string, maxWidth float32) (Handle, error) {
	return l.insertText(text, l.multilineVertices(text, maxWidth))
}

func (l *Layouter) multilineVertices(text string, maxWidth float32) []graphics.Vertex {
	lines := l.wrap(text, maxWidth)
	var verts []graphics.Vertex
	for i, line := range lines {
		pen := mgl32.Vec2{0, float32(len(lines)-1-i) * l.font.LineHeight}
		l.appendLine(&verts, line, pen)
	}
	return verts
}

func (l *Layouter) insertText(text string, verts []graphics.Vertex) (Handle, error) {
	if len(verts) == 0 {
		return Handle{}, nil
	}
	mesh, err := l.canvas.CreateMesh(verts, graphics.Triangles)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to create text mesh: %w", err)
	}
	id := l.meshes.insert(mesh)
	l.logger.Debug("created text", "text", text, "mesh", id, "vertices", len(verts))
	return Handle{MeshID: &id}, nil
}

// Measure returns the advance width of a string in em.
func (l *Layouter) Measure(text string) float32 {
	var w float32
	for _, r := range text {
		if g, ok := l.font.Glyphs[r]; ok {
			w += g.Advance
		}
	}
	return w
}

func (l *Layouter) wrap(text string, maxWidth float32) []string {
	space := l.Measure(" ")
	var lines []string
	var line string
	var width float32
	for _, word := range strings.Fields(text) {
		ww := l.Measure(word)
		if line != "" && width+space+ww > maxWidth {
			lines = append(lines, line)
			line, width = "", 0
		}
		if line == "" {
			line, width = word, ww
		} else {
			line += " " + word
			width += space + ww
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func (l *Layouter) appendLine(verts *[]graphics.Vertex, text string, pen mgl32.Vec2) {
	for _, r := range text {
		g, ok := l.font.Glyphs[r]
		if !ok {
			continue
		}
		*verts = appendGlyph(*verts, g, pen)
		pen[0] += g.Advance
	}
}

// appendGlyph emits two triangles. Atlas bounds have a bottom origin while
// texture rows start at the top, so v is flipped.
func appendGlyph(verts []graphics.Vertex, g font.Glyph, pen mgl32.Vec2) []graphics.Vertex {
	uv := mgl32.Vec2{g.UV[0], 1 - g.UV[3]}
	u, v := g.UV[2]-g.UV[0], g.UV[3]-g.UV[1]
	xy := pen.Add(mgl32.Vec2{g.XY[0], g.XY[1]})
	x, y := g.XY[2]-g.XY[0], g.XY[3]-g.XY[1]

	vertex := func(px, py, tu, tv float32) graphics.Vertex {
		return graphics.Vertex{Pos: xy.Add(mgl32.Vec2{px, py}), Tex: uv.Add(mgl32.Vec2{tu, tv})}
	}
	return append(verts,
		vertex(0, 0, 0, v),
		vertex(x, 0, u, v),
		vertex(0, y, 0, 0),
		vertex(0, y, 0, 0),
		vertex(x, 0, u, v),
		vertex(x, y, u, 0),
	)
}
