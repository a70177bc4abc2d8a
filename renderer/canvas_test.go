package renderer

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/photoframe/graphics"
	"github.com/richinsley/photoframe/graphics/graphicstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCanvas(t *testing.T) (*Canvas, *graphicstest.Device) {
	t.Helper()
	dev := graphicstest.NewDevice()
	return NewCanvas(dev, 16.0/9.0, log.New(io.Discard)), dev
}

func yuvPlanes(w, h int) (y, u, v []byte) {
	return make([]byte, w*h), make([]byte, w*h/4), make([]byte, w*h/4)
}

func TestCanvasCreateYUVTexture(t *testing.T) {
	c, dev := newTestCanvas(t)
	y, u, v := yuvPlanes(64, 32)

	m, err := c.CreateYUVTexture(64, 32, graphics.FormatR8, y, u, v)
	require.NoError(t, err)
	assert.Equal(t, MaterialYUV, m.Kind)
	assert.Len(t, dev.LiveTextures(), 3)

	spec, ok := dev.TextureSpec(m.Textures[1])
	require.True(t, ok)
	assert.Equal(t, 32, spec.Width)
	assert.Equal(t, 16, spec.Height)

	c.DeleteMaterial(m)
	assert.Empty(t, dev.LiveTextures())
}

func TestCanvasTextureTooLarge(t *testing.T) {
	c, dev := newTestCanvas(t)
	dev.MaxTextureSize = 1024
	y, u, v := yuvPlanes(2048, 16)

	_, err := c.CreateYUVTexture(2048, 16, graphics.FormatR8, y, u, v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, graphics.ErrInvalidTextureSize))

	var sizeErr *graphics.TextureSizeError
	require.True(t, errors.As(err, &sizeErr))
	assert.Equal(t, 2048, sizeErr.Width)
	assert.Empty(t, dev.LiveTextures())
}

func TestCanvasTextureShortData(t *testing.T) {
	c, dev := newTestCanvas(t)
	_, err := c.CreateTexture(8, 8, graphics.FormatRGBA, make([]byte, 8*8*3))
	assert.ErrorIs(t, err, graphics.ErrInvalidTextureSize)
	assert.Empty(t, dev.LiveTextures())

	_, err = c.CreateTexture(0, 8, graphics.FormatRGBA, nil)
	assert.ErrorIs(t, err, graphics.ErrInvalidTextureSize)
}

func TestCanvasYUVPartialFailureRollsBack(t *testing.T) {
	c, dev := newTestCanvas(t)
	dev.FailTextureAfter = 3
	y, u, v := yuvPlanes(32, 32)

	_, err := c.CreateYUVTexture(32, 32, graphics.FormatR8, y, u, v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cr plane")
	assert.Empty(t, dev.LiveTextures())
}

func TestCanvasMeshLifecycle(t *testing.T) {
	c, dev := newTestCanvas(t)
	_, err := c.CreateMesh(nil, graphics.Triangles)
	assert.Error(t, err)

	m, err := c.CreateMesh(make([]graphics.Vertex, 6), graphics.Triangles)
	require.NoError(t, err)
	assert.Equal(t, 6, m.Count)
	assert.Len(t, dev.LiveVertexArrays(), 1)

	c.DeleteMesh(m)
	assert.Empty(t, dev.LiveVertexArrays())
}

func TestCanvasUpdateReplacesDrawList(t *testing.T) {
	c, _ := newTestCanvas(t)
	c.Update(DrawList{Objects: []Object{{MeshID: 1}}, Materials: []Material{ColorMaterial(mgl32.Vec4{1, 0, 0, 1})}})
	assert.Len(t, c.DrawList().Objects, 1)

	c.Update(DrawList{})
	assert.Empty(t, c.DrawList().Objects)
	_, ok := c.material(0)
	assert.False(t, ok)
}

func TestCameraMapsUnitSquareToClipSpace(t *testing.T) {
	m := DefaultCamera().Matrix()
	lo := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	hi := m.Mul4x1(mgl32.Vec4{1, 1, 0, 1})
	assert.InDelta(t, -1, lo.X(), 1e-6)
	assert.InDelta(t, -1, lo.Y(), 1e-6)
	assert.InDelta(t, 1, hi.X(), 1e-6)
	assert.InDelta(t, 1, hi.Y(), 1e-6)
}
