package font

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMetrics = `{
  "atlas": {"type": "msdf", "width": 6, "height": 4},
  "metrics": {"emSize": 1, "lineHeight": 1.25, "ascender": 0.9, "descender": -0.2},
  "glyphs": [
    {"unicode": 32, "advance": 0.25},
    {"unicode": 65, "advance": 0.5,
     "planeBounds": {"left": 0.0, "bottom": -0.1, "right": 0.5, "top": 0.7},
     "atlasBounds": {"left": 0, "bottom": 0, "right": 3, "top": 2}}
  ]
}`

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testAtlas(t *testing.T) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	img.Set(5, 3, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	return encodePNG(t, img)
}

func TestParse(t *testing.T) {
	f, err := Parse(bytes.NewReader(testAtlas(t)), strings.NewReader(testMetrics))
	require.NoError(t, err)

	assert.Equal(t, 8, f.Width)
	assert.Equal(t, 4, f.Height)
	assert.Len(t, f.Data, 8*4*4)
	assert.Equal(t, float32(1.25), f.LineHeight)

	// pixel (5,3) lands in the padded row
	off := (3*8 + 5) * 4
	assert.Equal(t, []byte{1, 2, 3, 4}, f.Data[off:off+4])

	a := f.Glyphs['A']
	assert.Equal(t, float32(0.375), a.UV[2])
	assert.Equal(t, float32(0.5), a.UV[3])
	assert.Equal(t, [4]float32{0, -0.1, 0.5, 0.7}, a.XY)
	assert.Equal(t, float32(0.5), a.Advance)

	space := f.Glyphs[' ']
	assert.Equal(t, [4]float32{}, space.XY)
	assert.Equal(t, float32(0.25), space.Advance)
}

func TestParseRejectsGray(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	_, err := Parse(bytes.NewReader(encodePNG(t, gray)), strings.NewReader(testMetrics))
	assert.ErrorIs(t, err, ErrColorFormat)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roboto.png"), testAtlas(t), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roboto.json"), []byte(testMetrics), 0o644))

	f, err := Load(filepath.Join(dir, "roboto.png"))
	require.NoError(t, err)
	assert.Len(t, f.Glyphs, 2)

	_, err = Load(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
