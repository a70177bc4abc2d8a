// Package app drives the photo frame: input, fixed-step updates and
// rendering.
package app

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/richinsley/photoframe/catalogue"
	"github.com/richinsley/photoframe/graphics"
	"github.com/richinsley/photoframe/renderer"
	"github.com/richinsley/photoframe/scene"
)

// App connects the scene manager to the renderer.
type App struct {
	renderer *renderer.Renderer
	manager  *scene.Manager
	input    *Input
	logger   *log.Logger

	changes <-chan struct{}
	rescan  func() ([]catalogue.Photo, error)

	quit    bool
	frames  int
	skipped int
}

func New(r *renderer.Renderer, m *scene.Manager, input *Input, logger *log.Logger) *App {
	return &App{renderer: r, manager: m, input: input, logger: logger}
}

// WatchCatalogue makes every update check changes and, when signalled,
// rescan the catalogue and hand it to the scene manager.
func (a *App) WatchCatalogue(changes <-chan struct{}, rescan func() ([]catalogue.Photo, error)) {
	a.changes = changes
	a.rescan = rescan
}

func userEvent(key graphics.Key) (scene.UserEvent, bool) {
	switch key {
	case graphics.KeyHome:
		return scene.UserHome, true
	case graphics.KeyExit:
		return scene.UserExit, true
	case graphics.KeyNext:
		return scene.UserNext, true
	case graphics.KeyPrevious:
		return scene.UserPrevious, true
	}
	return 0, false
}

// Update runs one fixed step: queued keys, catalogue changes, then a tick.
func (a *App) Update(t time.Time, dt time.Duration) error {
	for _, ev := range a.input.Take() {
		if ev.Kind != KeyDown {
			continue
		}
		u, ok := userEvent(ev.Key)
		if !ok {
			continue
		}
		a.logger.Debug("key", "key", ev.Key)
		a.manager.Update(scene.UserInput(u))
		if u == scene.UserExit {
			a.quit = true
		}
	}
	if a.quit {
		return nil
	}

	select {
	case <-a.changes:
		a.reload()
	default:
	}

	a.manager.Update(scene.TickEvent)
	return nil
}

func (a *App) reload() {
	photos, err := a.rescan()
	if err != nil {
		a.logger.Error("failed to rescan catalogue", "err", err)
		return
	}
	a.manager.ReloadCatalogue(photos)
}

func (a *App) Render(t time.Time) error {
	stats, err := a.renderer.Render(a.manager.Canvas())
	if err != nil {
		return fmt.Errorf("frame %d: %w", a.frames, err)
	}
	if stats.Skipped != a.skipped {
		a.logger.Debug("draw list items skipped", "skipped", stats.Skipped, "frame", a.frames)
		a.skipped = stats.Skipped
	}
	a.frames++
	return nil
}

// Resize follows the surface: the renderer gets the pixel size, the scene
// the aspect ratio.
func (a *App) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		// minimised
		return nil
	}
	if err := a.renderer.Resize(width, height); err != nil {
		return err
	}
	a.manager.Resize(float32(width) / float32(height))
	a.logger.Info("resized", "width", width, "height", height)
	return nil
}

// Snapshot writes the last rendered frame to path as PNG.
func (a *App) Snapshot(path string) error {
	img, err := a.renderer.Snapshot()
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	a.logger.Info("snapshot written", "path", path, "frame", a.frames)
	return nil
}

// Quit reports whether an exit key was pressed.
func (a *App) Quit() bool {
	return a.quit
}

func (a *App) Frames() int {
	return a.frames
}

// Run steps the loop until the context closes, the app quits or maxFrames
// frames were presented (0 means no limit).
func Run(ctx graphics.Context, a *App, loop *Loop, clock Clock, maxFrames int) error {
	for !ctx.ShouldClose() && !a.Quit() {
		if maxFrames > 0 && a.frames >= maxFrames {
			break
		}
		if err := loop.Step(a, clock); err != nil {
			return err
		}
		ctx.EndFrame()
	}
	a.logger.Info("loop finished", "frames", a.frames)
	return nil
}
