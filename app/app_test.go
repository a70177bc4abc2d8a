package app

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/richinsley/photoframe/catalogue"
	"github.com/richinsley/photoframe/font"
	"github.com/richinsley/photoframe/graphics"
	"github.com/richinsley/photoframe/graphics/graphicstest"
	"github.com/richinsley/photoframe/renderer"
	"github.com/richinsley/photoframe/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frameDecoder struct{}

func (frameDecoder) Decode(path string) (*catalogue.Frame, error) {
	const w, h = 32, 16
	return &catalogue.Frame{
		Width: w, Height: h, MBWidth: 2, MBHeight: 1, ImageWidth: w, ImageHeight: h,
		Y: make([]byte, w*h), Cb: make([]byte, w*h/4), Cr: make([]byte, w*h/4),
	}, nil
}

type fakeContext struct {
	closed   bool
	endFrame int
}

func (c *fakeContext) MakeCurrent()                               {}
func (c *fakeContext) Shutdown()                                  {}
func (c *fakeContext) ShouldClose() bool                          { return c.closed }
func (c *fakeContext) EndFrame()                                  { c.endFrame++ }
func (c *fakeContext) GetFramebufferSize() (int, int)             { return 320, 180 }
func (c *fakeContext) Time() float64                              { return 0 }
func (c *fakeContext) IsGLES() bool                               { return false }
func (c *fakeContext) OnKey(func(key graphics.Key, pressed bool)) {}
func (c *fakeContext) OnResize(func(width, height int))           {}

type testApp struct {
	app     *App
	dev     *graphicstest.Device
	manager *scene.Manager
	input   *Input
}

func newTestApp(t *testing.T, photos int) *testApp {
	t.Helper()
	logger := log.New(io.Discard)
	dev := graphicstest.NewDevice()
	r, err := renderer.NewRenderer(dev, logger, renderer.RendererOptions{Width: 320, Height: 180})
	require.NoError(t, err)

	canvas := renderer.NewCanvas(dev, 16.0/9.0, logger)
	fnt := &font.Font{Width: 4, Height: 4, Data: make([]byte, 64), LineHeight: 1, Glyphs: map[rune]font.Glyph{}}
	layouter, err := scene.NewLayouter(canvas, fnt, frameDecoder{}, logger)
	require.NoError(t, err)

	list := make([]catalogue.Photo, photos)
	for i := range list {
		list[i].Path = fmt.Sprintf("%d.webp", i)
	}
	m := scene.NewManager(layouter, list, scene.ManagerConfig{
		Slideshow: scene.SlideshowConfig{DwellTicks: 100, TransitionTicks: 10},
	}, logger)
	input := &Input{}
	return &testApp{app: New(r, m, input, logger), dev: dev, manager: m, input: input}
}

func TestAppKeysDriveScene(t *testing.T) {
	ta := newTestApp(t, 3)
	ta.input.OnKey(graphics.KeyNext, true)
	ta.input.OnKey(graphics.KeyNext, false)
	require.NoError(t, ta.app.Update(time.Now(), 10*time.Millisecond))
	assert.Equal(t, 1, ta.manager.Scene().Slideshow().Index())

	ta.input.OnKey(graphics.KeyPrevious, true)
	ta.input.OnKey(graphics.KeyPrevious, true)
	require.NoError(t, ta.app.Update(time.Now(), 10*time.Millisecond))
	assert.Equal(t, 2, ta.manager.Scene().Slideshow().Index())

	ta.input.OnKey(graphics.KeyHome, true)
	require.NoError(t, ta.app.Update(time.Now(), 10*time.Millisecond))
	assert.Equal(t, 0, ta.manager.Scene().Slideshow().Index())
	assert.False(t, ta.app.Quit())
}

func TestAppExitKey(t *testing.T) {
	ta := newTestApp(t, 2)
	ta.input.OnKey(graphics.KeyExit, true)
	require.NoError(t, ta.app.Update(time.Now(), 10*time.Millisecond))

	assert.True(t, ta.app.Quit())
	assert.Empty(t, ta.manager.Layout().Items)
	// only the font atlas is left
	assert.Len(t, ta.dev.LiveTextures(), 1)
}

func TestAppReloadsOnCatalogueChange(t *testing.T) {
	ta := newTestApp(t, 3)
	changes := make(chan struct{}, 1)
	rescans := 0
	ta.app.WatchCatalogue(changes, func() ([]catalogue.Photo, error) {
		rescans++
		return []catalogue.Photo{{Path: "new.webp"}}, nil
	})

	require.NoError(t, ta.app.Update(time.Now(), 10*time.Millisecond))
	assert.Zero(t, rescans)

	changes <- struct{}{}
	require.NoError(t, ta.app.Update(time.Now(), 10*time.Millisecond))
	assert.Equal(t, 1, rescans)
	assert.Len(t, ta.manager.Context().Photos, 1)
}

func TestAppRescanErrorKeepsCatalogue(t *testing.T) {
	ta := newTestApp(t, 3)
	changes := make(chan struct{}, 1)
	ta.app.WatchCatalogue(changes, func() ([]catalogue.Photo, error) {
		return nil, errors.New("disk gone")
	})
	changes <- struct{}{}
	require.NoError(t, ta.app.Update(time.Now(), 10*time.Millisecond))
	assert.Len(t, ta.manager.Context().Photos, 3)
	assert.NotNil(t, ta.manager.Scene())
}

func TestAppRenderAndResize(t *testing.T) {
	ta := newTestApp(t, 1)
	require.NoError(t, ta.app.Render(time.Now()))
	assert.Equal(t, 1, ta.app.Frames())
	require.NotEmpty(t, ta.dev.Draws)
	assert.Equal(t, uint32(0), ta.dev.Draws[len(ta.dev.Draws)-1].Framebuffer)

	require.NoError(t, ta.app.Resize(400, 400))
	w, h := ta.app.renderer.SurfaceSize()
	assert.Equal(t, [2]int{400, 400}, [2]int{w, h})
	assert.Equal(t, float32(1), ta.manager.Canvas().AspectRatio())

	require.NoError(t, ta.app.Resize(0, 0))
	assert.Equal(t, float32(1), ta.manager.Canvas().AspectRatio())
}

func TestRunStopsAfterFrames(t *testing.T) {
	ta := newTestApp(t, 2)
	ctx := &fakeContext{}
	require.NoError(t, Run(ctx, ta.app, NewLoop(10*time.Millisecond), newFakeClock(time.Millisecond), 3))
	assert.Equal(t, 3, ta.app.Frames())
	assert.Equal(t, 3, ctx.endFrame)
}

func TestRunStopsOnQuit(t *testing.T) {
	ta := newTestApp(t, 2)
	ctx := &fakeContext{}
	ta.input.OnKey(graphics.KeyExit, true)
	require.NoError(t, Run(ctx, ta.app, NewLoop(10*time.Millisecond), newFakeClock(time.Millisecond), 0))
	assert.Equal(t, 1, ta.app.Frames())
	assert.True(t, ta.app.Quit())
}

func TestRunStopsWhenContextCloses(t *testing.T) {
	ta := newTestApp(t, 2)
	ctx := &fakeContext{closed: true}
	require.NoError(t, Run(ctx, ta.app, NewLoop(10*time.Millisecond), newFakeClock(time.Millisecond), 0))
	assert.Zero(t, ta.app.Frames())
}

func TestAppSnapshot(t *testing.T) {
	ta := newTestApp(t, 1)
	require.NoError(t, ta.app.Render(time.Now()))

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, ta.app.Snapshot(path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 320, 180), img.Bounds())
}
