package scene

import (
	"testing"

	"github.com/richinsley/photoframe/catalogue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionProgress(t *testing.T) {
	assert.Equal(t, float32(0), TransitionProgress(0, 40))
	assert.Equal(t, float32(0.5), TransitionProgress(20, 40))
	assert.Equal(t, float32(1), TransitionProgress(40, 40))
	assert.Equal(t, float32(1), TransitionProgress(41, 40))
	assert.Equal(t, float32(0), TransitionProgress(-3, 40))
	assert.Equal(t, float32(1), TransitionProgress(0, 0))
}

func TestNewSlideshowDefaults(t *testing.T) {
	f := newFixture(t, "a.webp")
	s := f.slideshow(t, SlideshowConfig{})
	assert.Equal(t, DefaultSlideshowConfig(), s.cfg)

	_, err := NewSlideshow(nil, "empty", SlideshowConfig{}, f.logger)
	assert.ErrorIs(t, err, ErrEmptySlideshow)
}

func TestSlideshowIndexWraps(t *testing.T) {
	f := newFixture(t, "0.webp", "1.webp", "2.webp")
	s := f.slideshow(t, DefaultSlideshowConfig())

	s.index = 2
	assert.Equal(t, 0, s.nextIndex())
	s.index = 0
	assert.Equal(t, 2, s.prevIndex())
	s.index = 1
	assert.Equal(t, 2, s.nextIndex())
	assert.Equal(t, 0, s.prevIndex())
}

func TestSlideshowIdleBeforeEnter(t *testing.T) {
	f := newFixture(t, "0.webp")
	s := f.slideshow(t, DefaultSlideshowConfig())

	layout, ok := f.ticks(s, 500)
	assert.False(t, ok)
	assert.Empty(t, layout.Items)
	assert.Zero(t, f.decoder.calls)
}

func TestSlideshowCycle(t *testing.T) {
	f := newFixture(t, "0.webp", "1.webp", "2.webp")
	s := f.slideshow(t, SlideshowConfig{DwellTicks: 150, TransitionTicks: 40})

	layout, ok := s.Update(EnterEvent, f.ctx, f.layouter)
	require.True(t, ok)
	require.Len(t, layout.Items, 2)
	pic, isPicture := layout.Items[0].Element.(Picture)
	require.True(t, isPicture)
	assert.Equal(t, UnitRect, pic.Dst)
	assert.InDelta(t, 2, pic.Handle.AspectRatio, 1e-6)
	_, isText := layout.Items[1].Element.(Text)
	assert.True(t, isText)
	assert.Equal(t, 1, f.layouter.LiveMaterials())
	assert.Equal(t, 1, f.layouter.LiveMeshes())

	layout, ok = f.ticks(s, 149)
	require.True(t, ok)
	assert.Len(t, layout.Items, 2)
	assert.Equal(t, 0, s.Index())

	layout, ok = f.ticks(s, 1)
	require.True(t, ok)
	require.Len(t, layout.Items, 1)
	tr, isTransition := layout.Items[0].Element.(TransitionElement)
	require.True(t, isTransition)
	assert.Equal(t, float32(0), tr.Progress)
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, 2, f.layouter.LiveMaterials())
	assert.Equal(t, 2, f.layouter.LiveMeshes())

	layout, _ = f.ticks(s, 20)
	tr = layout.Items[0].Element.(TransitionElement)
	assert.Equal(t, float32(0.5), tr.Progress)
	assert.Equal(t, float32(0.5), s.Progress())

	layout, _ = f.ticks(s, 20)
	assert.Len(t, layout.Items, 2)
	assert.Equal(t, stateStatic, s.state)
	assert.Equal(t, 1, f.layouter.LiveMaterials())
	assert.Equal(t, 1, f.layouter.LiveMeshes())
	// font plus one photo
	assert.Len(t, f.dev.LiveTextures(), 4)

	f.ticks(s, 150+40)
	assert.Equal(t, 2, s.Index())
	f.ticks(s, 150)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, stateTransitioning, s.state)
	assert.Equal(t, 2, f.layouter.LiveMaterials())
}

func TestSlideshowPreviousFromStatic(t *testing.T) {
	f := newFixture(t, "0.webp", "1.webp", "2.webp")
	s := f.slideshow(t, SlideshowConfig{DwellTicks: 150, TransitionTicks: 40})
	s.Update(EnterEvent, f.ctx, f.layouter)
	f.ticks(s, 150)
	f.ticks(s, 40)
	require.Equal(t, stateStatic, s.state)
	require.Equal(t, 1, s.Index())
	require.NotNil(t, s.current.photo.MaterialID)
	shown := *s.current.photo.MaterialID

	layout, ok := s.Update(UserInput(UserPrevious), f.ctx, f.layouter)
	require.True(t, ok)
	assert.Equal(t, stateTransitioning, s.state)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 1, s.from.index)
	assert.Equal(t, 0, s.current.index)
	assert.Equal(t, shown, *s.from.photo.MaterialID)
	assert.NotEqual(t, shown, *s.current.photo.MaterialID)
	assert.Equal(t, 2, f.layouter.LiveMaterials())
	assert.Equal(t, 2, f.layouter.LiveMeshes())

	require.Len(t, layout.Items, 1)
	tr := layout.Items[0].Element.(TransitionElement)
	assert.Equal(t, s.from.photo, tr.From)
	assert.Equal(t, s.current.photo, tr.To)
	assert.Equal(t, float32(0), tr.Progress)

	last := s.Progress()
	for i := 0; i < 39; i++ {
		f.ticks(s, 1)
		p := s.Progress()
		assert.GreaterOrEqual(t, p, last)
		assert.LessOrEqual(t, p, float32(1))
		last = p
	}
	f.ticks(s, 1)
	assert.Equal(t, stateStatic, s.state)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 1, f.layouter.LiveMaterials())
	assert.Equal(t, 1, f.layouter.LiveMeshes())
}

func TestSlideshowSinglePhoto(t *testing.T) {
	f := newFixture(t, "0.webp")
	s := f.slideshow(t, SlideshowConfig{DwellTicks: 3, TransitionTicks: 2})
	assert.Equal(t, 0, s.nextIndex())
	assert.Equal(t, 0, s.prevIndex())

	s.Update(EnterEvent, f.ctx, f.layouter)
	for i := 0; i < 50; i++ {
		f.ticks(s, 1)
		s.Update(UserInput(UserNext), f.ctx, f.layouter)
		assert.Equal(t, 0, s.Index())
		assert.Equal(t, 0, s.nextIndex())
		assert.Equal(t, 0, s.prevIndex())
		assert.LessOrEqual(t, f.layouter.LiveMaterials(), 2)
	}
	// auto-advance wraps onto the same photo
	f.ticks(s, 20)
	assert.Equal(t, 0, s.Index())

	s.Update(ExitEvent, f.ctx, f.layouter)
	assert.Zero(t, f.layouter.LiveMaterials())
	assert.Zero(t, f.layouter.LiveMeshes())
	assert.Len(t, f.dev.LiveTextures(), 1)
}

func TestSlideshowInterruptFreesOnce(t *testing.T) {
	f := newFixture(t, "0.webp", "1.webp", "2.webp")
	s := f.slideshow(t, SlideshowConfig{DwellTicks: 150, TransitionTicks: 40})
	s.Update(EnterEvent, f.ctx, f.layouter)
	f.ticks(s, 160)
	require.Equal(t, stateTransitioning, s.state)

	// the fake device panics on a double delete
	layout, ok := s.Update(UserInput(UserNext), f.ctx, f.layouter)
	require.True(t, ok)
	assert.Equal(t, 2, s.Index())
	assert.Equal(t, stateTransitioning, s.state)
	assert.Equal(t, float32(0), layout.Items[0].Element.(TransitionElement).Progress)
	assert.Equal(t, 2, f.layouter.LiveMaterials())
	assert.Equal(t, 2, f.layouter.LiveMeshes())
	assert.Len(t, f.dev.LiveTextures(), 1+2*3)

	s.Update(UserInput(UserPrevious), f.ctx, f.layouter)
	assert.Equal(t, 1, s.Index())
	s.Update(UserInput(UserHome), f.ctx, f.layouter)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 2, f.layouter.LiveMaterials())
}

func TestSlideshowExitFreesEverything(t *testing.T) {
	for _, ev := range []Event{ExitEvent, UserInput(UserExit)} {
		f := newFixture(t, "0.webp", "1.webp")
		s := f.slideshow(t, SlideshowConfig{DwellTicks: 10, TransitionTicks: 10})
		s.Update(EnterEvent, f.ctx, f.layouter)
		f.ticks(s, 12)
		require.Equal(t, stateTransitioning, s.state)

		layout, ok := s.Update(ev, f.ctx, f.layouter)
		assert.True(t, ok)
		assert.Empty(t, layout.Items)
		assert.Equal(t, stateIdle, s.state)
		assert.Zero(t, f.layouter.LiveMaterials())
		assert.Zero(t, f.layouter.LiveMeshes())
		// only the font atlas and the quad remain
		assert.Len(t, f.dev.LiveTextures(), 1)
		assert.Len(t, f.dev.LiveVertexArrays(), 1)

		// exiting twice frees nothing more
		_, ok = s.Update(ExitEvent, f.ctx, f.layouter)
		assert.True(t, ok)
		_, ok = f.ticks(s, 100)
		assert.False(t, ok)
	}
}

func TestSlideshowSkipsFailedPhoto(t *testing.T) {
	f := newFixture(t, "0.webp", "bad.webp", "2.webp")
	f.decoder.fail["bad.webp"] = true
	s := f.slideshow(t, SlideshowConfig{DwellTicks: 150, TransitionTicks: 40})
	s.Update(EnterEvent, f.ctx, f.layouter)

	layout, ok := f.ticks(s, 150)
	require.True(t, ok)
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, stateStatic, s.state)
	assert.Equal(t, 0, s.current.index)
	assert.Len(t, layout.Items, 2)
	assert.Equal(t, 1, f.layouter.LiveMaterials())

	f.ticks(s, 149)
	assert.Equal(t, stateStatic, s.state)
	f.ticks(s, 1)
	assert.Equal(t, 2, s.Index())
	assert.Equal(t, stateTransitioning, s.state)
	assert.Equal(t, 0, s.from.index)
}

func TestSlideshowRetriesFailedFirstPhoto(t *testing.T) {
	f := newFixture(t, "bad.webp", "1.webp")
	f.decoder.fail["bad.webp"] = true
	s := f.slideshow(t, SlideshowConfig{DwellTicks: 5, TransitionTicks: 5})

	_, ok := s.Update(EnterEvent, f.ctx, f.layouter)
	assert.False(t, ok)
	assert.Equal(t, stateIdle, s.state)

	_, ok = f.ticks(s, 4)
	assert.False(t, ok)
	layout, ok := f.ticks(s, 1)
	require.True(t, ok)
	assert.Len(t, layout.Items, 2)
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, stateStatic, s.state)
}

func TestSlideshowTextureTooLarge(t *testing.T) {
	f := newFixture(t, "0.webp")
	f.dev.MaxTextureSize = 16
	s := f.slideshow(t, DefaultSlideshowConfig())

	layout, ok := s.Update(EnterEvent, f.ctx, f.layouter)
	assert.False(t, ok)
	assert.Empty(t, layout.Items)
	assert.Zero(t, f.layouter.LiveMaterials())
	assert.Zero(t, f.layouter.LiveMeshes())
	assert.Len(t, f.dev.LiveTextures(), 1)
	assert.Len(t, f.dev.LiveVertexArrays(), 1)
}

func TestSlideshowCaption(t *testing.T) {
	f := newFixture(t, "0.webp", "1.webp", "2.webp")
	f.ctx.Photos[1].Meta.Title = nil
	f.ctx.Photos[2].Meta.Title = []string{"  "}
	at := f.ctx.Now
	f.ctx.Photos[1].Meta.DateTime = &catalogue.Timestamp{Time: at}
	s := f.slideshow(t, DefaultSlideshowConfig())

	assert.Equal(t, "ab", s.caption(0, f.ctx))
	assert.Equal(t, f.ctx.Locale.FormatLong(at), s.caption(1, f.ctx))
	assert.Equal(t, "All Photos", s.caption(2, f.ctx))
}
