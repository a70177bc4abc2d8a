// Package font loads multi-channel signed distance field atlases produced by
// msdf-atlas-gen: an RGBA PNG plus a JSON glyph table.
package font

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrColorFormat is returned for atlas images without an alpha channel.
var ErrColorFormat = errors.New("font atlas must be an RGBA image")

// Glyph positions one rune. UV holds atlas bounds normalised to the texture
// (left, bottom, right, top, bottom origin); XY holds the plane bounds in em
// relative to the pen position.
type Glyph struct {
	UV      [4]float32
	XY      [4]float32
	Advance float32
}

// Font is an uploaded-ready atlas. Data is tightly packed RGBA with Width a
// multiple of four.
type Font struct {
	Width      int
	Height     int
	Data       []byte
	LineHeight float32
	Ascender   float32
	Descender  float32
	Glyphs     map[rune]Glyph
}

type jsonBounds struct {
	Left   float32 `json:"left"`
	Bottom float32 `json:"bottom"`
	Right  float32 `json:"right"`
	Top    float32 `json:"top"`
}

type jsonGlyph struct {
	Unicode     rune        `json:"unicode"`
	Advance     float32     `json:"advance"`
	PlaneBounds *jsonBounds `json:"planeBounds"`
	AtlasBounds *jsonBounds `json:"atlasBounds"`
}

type jsonAtlas struct {
	Metrics struct {
		LineHeight float32 `json:"lineHeight"`
		Ascender   float32 `json:"ascender"`
		Descender  float32 `json:"descender"`
	} `json:"metrics"`
	Glyphs []jsonGlyph `json:"glyphs"`
}

// Load reads <base>.png and <base>.json. Any extension on path is replaced.
func Load(path string) (*Font, error) {
	base := strings.TrimSuffix(path, filepath.Ext(path))

	pngFile, err := os.Open(base + ".png")
	if err != nil {
		return nil, fmt.Errorf("open font atlas: %w", err)
	}
	defer pngFile.Close()

	jsonFile, err := os.Open(base + ".json")
	if err != nil {
		return nil, fmt.Errorf("open font metrics: %w", err)
	}
	defer jsonFile.Close()

	f, err := Parse(pngFile, jsonFile)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", base, err)
	}
	return f, nil
}

// Parse decodes an atlas image and its glyph table.
func Parse(atlas, metrics io.Reader) (*Font, error) {
	img, err := png.Decode(atlas)
	if err != nil {
		return nil, fmt.Errorf("decode atlas: %w", err)
	}
	f := &Font{}
	if f.Width, f.Height, f.Data, err = alignedRGBA(img); err != nil {
		return nil, err
	}

	var table jsonAtlas
	if err := json.NewDecoder(metrics).Decode(&table); err != nil {
		return nil, fmt.Errorf("decode glyph table: %w", err)
	}

	sx, sy := 1/float32(f.Width), 1/float32(f.Height)
	f.LineHeight = table.Metrics.LineHeight
	f.Ascender = table.Metrics.Ascender
	f.Descender = table.Metrics.Descender
	f.Glyphs = make(map[rune]Glyph, len(table.Glyphs))
	for _, g := range table.Glyphs {
		glyph := Glyph{Advance: g.Advance}
		if b := g.AtlasBounds; b != nil {
			glyph.UV = [4]float32{b.Left * sx, b.Bottom * sy, b.Right * sx, b.Top * sy}
		}
		if b := g.PlaneBounds; b != nil {
			glyph.XY = [4]float32{b.Left, b.Bottom, b.Right, b.Top}
		}
		f.Glyphs[g.Unicode] = glyph
	}
	return f, nil
}

// alignedRGBA copies the image into rows padded to a width multiple of four.
func alignedRGBA(img image.Image) (int, int, []byte, error) {
	b := img.Bounds()
	width := (b.Dx() + 3) &^ 3
	dst := image.NewNRGBA(image.Rect(0, 0, width, b.Dy()))

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < b.Dy(); y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(dst.Pix[y*dst.Stride:], row[:b.Dx()*4])
		}
	case *image.RGBA, *image.NRGBA64, *image.RGBA64:
		draw.Draw(dst, image.Rect(0, 0, b.Dx(), b.Dy()), img, b.Min, draw.Src)
	default:
		return 0, 0, nil, ErrColorFormat
	}
	return width, b.Dy(), dst.Pix, nil
}
