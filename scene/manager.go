package scene

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/richinsley/photoframe/catalogue"
	"github.com/richinsley/photoframe/locale"
	"github.com/richinsley/photoframe/renderer"
)

// SceneKind is the closed set of scenes the manager can run.
type SceneKind int

const (
	SceneSlideshow SceneKind = iota
)

// Scene is the active scene variant.
type Scene struct {
	Kind      SceneKind
	slideshow *Slideshow
}

func (s *Scene) Update(ev Event, ctx *Context, l *Layouter) (Layout, bool) {
	switch s.Kind {
	case SceneSlideshow:
		return s.slideshow.Update(ev, ctx, l)
	}
	return Layout{}, false
}

// Slideshow returns the slideshow of a SceneSlideshow scene.
func (s *Scene) Slideshow() *Slideshow {
	return s.slideshow
}

// SlideshowMode selects which photos the slideshow shows.
type SlideshowMode int

const (
	ModeAll SlideshowMode = iota
	ModeDaily
)

func ParseSlideshowMode(s string) (SlideshowMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ModeAll, nil
	case "daily":
		return ModeDaily, nil
	}
	return ModeAll, fmt.Errorf("unknown slideshow mode %q", s)
}

func (m SlideshowMode) String() string {
	if m == ModeDaily {
		return "daily"
	}
	return "all"
}

type ManagerConfig struct {
	Mode      SlideshowMode
	Slideshow SlideshowConfig
	Locale    *locale.Locale
	// Now defaults to time.Now.
	Now func() time.Time
}

// Manager owns the context, the active scene, the layouter and the last
// layout the scene produced.
type Manager struct {
	ctx      Context
	scene    *Scene
	layouter *Layouter
	layout   Layout
	cfg      ManagerConfig
	logger   *log.Logger
}

// NewManager builds the scene for photos and enters it. With no usable
// photos the manager runs without a scene.
func NewManager(layouter *Layouter, photos []catalogue.Photo, cfg ManagerConfig, logger *log.Logger) *Manager {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Locale == nil {
		cfg.Locale = locale.US
	}
	m := &Manager{
		ctx: Context{
			Photos: photos,
			Now:    cfg.Now(),
			Locale: cfg.Locale,
		},
		layouter: layouter,
		cfg:      cfg,
		logger:   logger,
	}
	m.scene = m.buildScene()
	m.Update(EnterEvent)
	return m
}

func (m *Manager) buildScene() *Scene {
	var (
		show *Slideshow
		err  error
	)
	switch m.cfg.Mode {
	case ModeDaily:
		show, err = NewDailySlideshow(&m.ctx, m.cfg.Slideshow, m.logger)
	default:
		show, err = NewAllSlideshow(&m.ctx, m.cfg.Slideshow, m.logger)
	}
	if err != nil {
		m.logger.Warn("no scene", "mode", m.cfg.Mode, "err", err)
		return nil
	}
	return &Scene{Kind: SceneSlideshow, slideshow: show}
}

// Update routes one event to the scene. The draw list is rebuilt only when
// the scene emits a layout.
func (m *Manager) Update(ev Event) {
	m.ctx.Now = m.cfg.Now()
	if m.scene == nil {
		return
	}
	if layout, ok := m.scene.Update(ev, &m.ctx, m.layouter); ok {
		m.layout = layout
		m.layouter.UpdateLayout(layout)
	}
}

// ReloadCatalogue leaves the current scene, releasing its resources, and
// enters a fresh one over photos.
func (m *Manager) ReloadCatalogue(photos []catalogue.Photo) {
	m.Update(ExitEvent)
	m.ctx.Photos = photos
	m.scene = m.buildScene()
	m.Update(EnterEvent)
	m.logger.Info("catalogue reloaded", "photos", len(photos))
}

func (m *Manager) SetWeather(w *Weather) {
	m.ctx.Weather = w
	m.Update(SystemNotice(SystemWeatherUpdate))
}

func (m *Manager) Resize(aspect float32) {
	m.layouter.Resize(aspect)
}

func (m *Manager) Canvas() *renderer.Canvas {
	return m.layouter.Canvas()
}

func (m *Manager) Layout() Layout {
	return m.layout
}

func (m *Manager) Scene() *Scene {
	return m.scene
}

func (m *Manager) Context() *Context {
	return &m.ctx
}

// Close exits the scene and releases the layouter.
func (m *Manager) Close() {
	m.Update(ExitEvent)
	m.scene = nil
	m.layouter.Close()
}
