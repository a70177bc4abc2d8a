package scene

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrEmptySlideshow is returned when a slideshow would have no photos.
var ErrEmptySlideshow = errors.New("slideshow has no photos")

type SlideshowConfig struct {
	// ticks a photo stays on screen
	DwellTicks int
	// ticks a crossfade lasts
	TransitionTicks int
	// caption wrap width in em
	CaptionWidth float32
}

func DefaultSlideshowConfig() SlideshowConfig {
	return SlideshowConfig{
		DwellTicks:      150,
		TransitionTicks: 40,
		CaptionWidth:    0.6 / 0.05,
	}
}

var (
	captionRect = Rect{Pos: mgl32.Vec2{0.025, 0.025}, Size: mgl32.Vec2{0.05, 0.05}}
)

const animationTime = 0.5

type slideshowState int

const (
	stateIdle slideshowState = iota
	stateStatic
	stateTransitioning
)

func (s slideshowState) String() string {
	switch s {
	case stateStatic:
		return "static"
	case stateTransitioning:
		return "transitioning"
	}
	return "idle"
}

type photoState struct {
	index int
	photo Handle
	text  Handle
}

// Slideshow cycles through a fixed list of photos, crossfading between
// them. Static shows current; Transitioning fades from into current.
type Slideshow struct {
	photos    []int
	title     string
	cfg       SlideshowConfig
	logger    *log.Logger
	tickCount int
	index     int
	entered   bool

	state    slideshowState
	current  photoState
	from     photoState
	duration int
}

func NewSlideshow(photoIDs []int, title string, cfg SlideshowConfig, logger *log.Logger) (*Slideshow, error) {
	if len(photoIDs) == 0 {
		return nil, fmt.Errorf("%s: %w", title, ErrEmptySlideshow)
	}
	logger.Info("creating slideshow", "title", title, "photos", len(photoIDs))
	def := DefaultSlideshowConfig()
	if cfg.DwellTicks <= 0 {
		cfg.DwellTicks = def.DwellTicks
	}
	if cfg.TransitionTicks <= 0 {
		cfg.TransitionTicks = def.TransitionTicks
	}
	if cfg.CaptionWidth <= 0 {
		cfg.CaptionWidth = def.CaptionWidth
	}
	return &Slideshow{
		photos: append([]int(nil), photoIDs...),
		title:  title,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Update handles one event and returns the new layout, if any.
func (s *Slideshow) Update(ev Event, ctx *Context, l *Layouter) (Layout, bool) {
	switch ev.Kind {
	case EventEnter:
		s.entered = true
		s.startTransition(0, ctx, l)
	case EventExit:
		return s.exit(l)
	case EventTimeTick:
		s.tickCount++
		switch s.state {
		case stateTransitioning:
			if s.tickCount >= s.duration {
				s.finishTransition(l)
			}
		case stateStatic:
			if s.tickCount >= s.cfg.DwellTicks {
				s.startTransition(s.nextIndex(), ctx, l)
			}
		case stateIdle:
			// retry after a failed first load
			if s.entered && s.tickCount >= s.cfg.DwellTicks {
				s.startTransition(s.nextIndex(), ctx, l)
			}
		}
	case EventUser:
		switch ev.User {
		case UserHome:
			s.startTransition(0, ctx, l)
		case UserExit:
			return s.exit(l)
		case UserNext:
			s.startTransition(s.nextIndex(), ctx, l)
		case UserPrevious:
			s.startTransition(s.prevIndex(), ctx, l)
		}
	}
	return s.layout(l)
}

func (s *Slideshow) exit(l *Layouter) (Layout, bool) {
	switch s.state {
	case stateStatic:
		s.freePhoto(l, s.current)
	case stateTransitioning:
		s.freePhoto(l, s.from)
		s.freePhoto(l, s.current)
	}
	s.state = stateIdle
	s.current, s.from = photoState{}, photoState{}
	s.tickCount = 0
	s.entered = false
	return Layout{}, true
}

func (s *Slideshow) freePhoto(l *Layouter, p photoState) {
	l.FreeHandle(p.photo)
	l.FreeHandle(p.text)
}

func (s *Slideshow) startTransition(next int, ctx *Context, l *Layouter) bool {
	s.finishTransition(l)
	s.logger.Info("slideshow: transitioning", "index", next)

	loaded, err := s.load(next, ctx, l)
	if err != nil {
		s.logger.Error("slideshow: skipping photo", "index", next, "err", err)
		s.index = next
		s.tickCount = 0
		return false
	}

	s.tickCount = 0
	s.index = next
	if s.state == stateStatic {
		s.from = s.current
		s.duration = s.cfg.TransitionTicks
		s.state = stateTransitioning
	} else {
		s.state = stateStatic
	}
	s.current = loaded
	return true
}

// load brings in the photo and caption of index; on error nothing stays
// allocated.
func (s *Slideshow) load(index int, ctx *Context, l *Layouter) (photoState, error) {
	id := s.photos[index]
	photo, ok := ctx.FindPhoto(id)
	if !ok {
		return photoState{}, fmt.Errorf("photo %d not in catalogue", id)
	}
	photoHandle, err := l.LoadPhoto(photo)
	if err != nil {
		return photoState{}, err
	}
	textHandle, err := l.CreateMultilineText(s.caption(index, ctx), s.cfg.CaptionWidth)
	if err != nil {
		l.FreeHandle(photoHandle)
		return photoState{}, err
	}
	return photoState{index: index, photo: photoHandle, text: textHandle}, nil
}

// caption prefers the photo title, then its capture date, then the
// slideshow title.
func (s *Slideshow) caption(index int, ctx *Context) string {
	photo, _ := ctx.FindPhoto(s.photos[index])
	if title, ok := photo.Title(); ok {
		return title
	}
	if at, ok := photo.CapturedAt(); ok && ctx.Locale != nil {
		return ctx.Locale.FormatLong(at)
	}
	return s.title
}

func (s *Slideshow) finishTransition(l *Layouter) {
	if s.state != stateTransitioning {
		return
	}
	s.logger.Debug("slideshow: finishing transition", "index", s.current.index)
	s.freePhoto(l, s.from)
	s.from = photoState{}
	s.state = stateStatic
	s.tickCount = 0
}

func (s *Slideshow) layout(l *Layouter) (Layout, bool) {
	switch s.state {
	case stateStatic:
		return s.staticLayout(l), true
	case stateTransitioning:
		return s.transitionLayout(l), true
	}
	return Layout{}, false
}

func (s *Slideshow) staticLayout(l *Layouter) Layout {
	dst := PlacePhoto(s.current.photo.AspectRatio, l.AspectRatio())
	return Layout{Items: []LayoutItem{
		{
			ID:            0,
			Element:       Picture{Dst: dst, Src: UnitRect, Opacity: 1, Handle: s.current.photo},
			AnimationTime: animationTime,
		},
		{
			ID:            1,
			Element:       Text{Dst: captionRect, Color: white, Opacity: 1, Handle: s.current.text},
			AnimationTime: animationTime,
		},
	}}
}

func (s *Slideshow) transitionLayout(l *Layouter) Layout {
	aspect := l.AspectRatio()
	return Layout{Items: []LayoutItem{{
		ID: 0,
		Element: TransitionElement{
			FromDst:  PlacePhoto(s.from.photo.AspectRatio, aspect),
			FromSrc:  UnitRect,
			ToDst:    PlacePhoto(s.current.photo.AspectRatio, aspect),
			ToSrc:    UnitRect,
			From:     s.from.photo,
			To:       s.current.photo,
			Progress: s.Progress(),
		},
		AnimationTime: animationTime,
	}}}
}

// Progress of the running crossfade in [0, 1]; zero when none runs.
func (s *Slideshow) Progress() float32 {
	if s.state != stateTransitioning {
		return 0
	}
	return TransitionProgress(s.tickCount, s.duration)
}

// TransitionProgress is elapsed/duration clamped to [0, 1]; it is exactly 1
// once elapsed reaches duration.
func TransitionProgress(elapsed, duration int) float32 {
	if duration <= 0 || elapsed >= duration {
		return 1
	}
	return math32.Max(float32(elapsed)/float32(duration), 0)
}

func (s *Slideshow) Index() int {
	return s.index
}

func (s *Slideshow) Title() string {
	return s.title
}

func (s *Slideshow) nextIndex() int {
	return (s.index + 1) % len(s.photos)
}

func (s *Slideshow) prevIndex() int {
	return (s.index + len(s.photos) - 1) % len(s.photos)
}
