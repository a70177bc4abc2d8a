package scene

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/richinsley/photoframe/catalogue"
	"github.com/richinsley/photoframe/font"
	"github.com/richinsley/photoframe/graphics/graphicstest"
	"github.com/richinsley/photoframe/locale"
	"github.com/richinsley/photoframe/renderer"
	"github.com/stretchr/testify/require"
)

// fakeDecoder returns a 32x16 frame for every path not listed in fail.
type fakeDecoder struct {
	fail  map[string]bool
	calls int
}

func (d *fakeDecoder) Decode(path string) (*catalogue.Frame, error) {
	d.calls++
	if d.fail[path] {
		return nil, fmt.Errorf("decode %s: %w", path, catalogue.ErrUnsupportedFormat)
	}
	const w, h = 32, 16
	return &catalogue.Frame{
		Width: w, Height: h, MBWidth: 2, MBHeight: 1,
		ImageWidth: w, ImageHeight: h,
		Y:  make([]byte, w*h),
		Cb: make([]byte, w*h/4),
		Cr: make([]byte, w*h/4),
	}, nil
}

func testFont() *font.Font {
	glyph := func(advance float32) font.Glyph {
		return font.Glyph{
			UV:      [4]float32{0, 0, 0.5, 0.5},
			XY:      [4]float32{0, 0, advance, 1},
			Advance: advance,
		}
	}
	return &font.Font{
		Width:      4,
		Height:     4,
		Data:       make([]byte, 4*4*4),
		LineHeight: 1.2,
		Ascender:   0.9,
		Descender:  -0.3,
		Glyphs: map[rune]font.Glyph{
			'a': glyph(0.5),
			'b': glyph(0.5),
			' ': {Advance: 0.25},
		},
	}
}

type fixture struct {
	dev      *graphicstest.Device
	decoder  *fakeDecoder
	layouter *Layouter
	ctx      *Context
	logger   *log.Logger
}

func newFixture(t *testing.T, paths ...string) *fixture {
	t.Helper()
	dev := graphicstest.NewDevice()
	logger := log.New(io.Discard)
	decoder := &fakeDecoder{fail: map[string]bool{}}
	canvas := renderer.NewCanvas(dev, 2, logger)
	l, err := NewLayouter(canvas, testFont(), decoder, logger)
	require.NoError(t, err)

	photos := make([]catalogue.Photo, len(paths))
	for i, p := range paths {
		photos[i] = catalogue.Photo{Path: p, Meta: catalogue.Meta{Title: []string{"ab"}}}
	}
	return &fixture{
		dev:      dev,
		decoder:  decoder,
		layouter: l,
		ctx: &Context{
			Photos: photos,
			Now:    time.Date(2024, time.June, 1, 12, 0, 0, 0, time.Local),
			Locale: locale.US,
		},
		logger: logger,
	}
}

func (f *fixture) slideshow(t *testing.T, cfg SlideshowConfig) *Slideshow {
	t.Helper()
	s, err := NewSlideshow(SelectAll(f.ctx), "All Photos", cfg, f.logger)
	require.NoError(t, err)
	return s
}

// ticks delivers n time ticks and returns the last result.
func (f *fixture) ticks(s *Slideshow, n int) (Layout, bool) {
	var (
		layout Layout
		ok     bool
	)
	for i := 0; i < n; i++ {
		layout, ok = s.Update(TickEvent, f.ctx, f.layouter)
	}
	return layout, ok
}
