package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/richinsley/photoframe/app"
	"github.com/richinsley/photoframe/catalogue"
	"github.com/richinsley/photoframe/font"
	"github.com/richinsley/photoframe/gldevice"
	"github.com/richinsley/photoframe/glfwcontext"
	"github.com/richinsley/photoframe/graphics"
	"github.com/richinsley/photoframe/headless"
	"github.com/richinsley/photoframe/locale"
	"github.com/richinsley/photoframe/options"
	"github.com/richinsley/photoframe/renderer"
	"github.com/richinsley/photoframe/scene"
	"github.com/richinsley/photoframe/translator"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := options.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "photoframe: %v\n", err)
		os.Exit(2)
	}
	if opts.Help {
		fmt.Println("Photo frame")
		flag.PrintDefaults()
		return
	}

	level, _ := log.ParseLevel(opts.LogLevel)
	logger, closeLog, err := app.NewLogger(os.Stderr, opts.LogDir, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "photoframe: %v\n", err)
		os.Exit(1)
	}

	err = run(opts, logger)
	if err != nil {
		logger.Error("photoframe exited", "err", err)
	}
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func chooseLocale(tag string, logger *log.Logger) *locale.Locale {
	var (
		loc *locale.Locale
		err error
	)
	if tag != "" {
		loc, err = locale.ForTag(tag)
	} else {
		loc, err = locale.Detect()
	}
	if err != nil {
		logger.Warn("falling back to default locale", "err", err)
	}
	logger.Info("locale", "locale", loc)
	return loc
}

func openContext(opts *options.Options, logger *log.Logger) (graphics.Context, func(), error) {
	if opts.Headless {
		h, err := headless.NewHeadless(opts.Width, opts.Height, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create headless context: %w", err)
		}
		return h, h.Shutdown, nil
	}

	if err := glfwcontext.InitGraphics(logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	win, err := glfwcontext.New(opts, true, logger)
	if err != nil {
		glfwcontext.TerminateGraphics(logger)
		return nil, nil, fmt.Errorf("failed to create window: %w", err)
	}
	return win, func() {
		win.Shutdown()
		glfwcontext.TerminateGraphics(logger)
	}, nil
}

func run(opts *options.Options, logger *log.Logger) error {
	gctx, shutdown, err := openContext(opts, logger)
	if err != nil {
		return err
	}
	defer shutdown()

	tr, err := translator.New(context.Background(), gctx.IsGLES())
	if err != nil {
		if !gctx.IsGLES() {
			return err
		}
		logger.Warn("shader translator unavailable, using sources as is", "err", err)
		tr = nil
	}
	device, err := gldevice.New(logger, tr)
	if err != nil {
		return err
	}

	policy, err := renderer.ParseResizePolicy(opts.Resize)
	if err != nil {
		return err
	}
	width, height := gctx.GetFramebufferSize()
	r, err := renderer.NewRenderer(device, logger, renderer.RendererOptions{
		Width:  width,
		Height: height,
		Resize: policy,
	})
	if err != nil {
		return err
	}
	defer r.Close()

	fnt, err := font.Load(opts.Font)
	if err != nil {
		return err
	}
	canvas := renderer.NewCanvas(device, float32(width)/float32(height), logger)
	layouter, err := scene.NewLayouter(canvas, fnt, catalogue.NewAutoDecoder(opts.FFmpegPath, logger), logger)
	if err != nil {
		return err
	}

	photos, err := catalogue.Scan(opts.PhotoDir, logger)
	if err != nil {
		return err
	}
	mode, err := scene.ParseSlideshowMode(opts.Mode)
	if err != nil {
		return err
	}
	manager := scene.NewManager(layouter, photos, scene.ManagerConfig{
		Mode:      mode,
		Slideshow: opts.SlideshowConfig(),
		Locale:    chooseLocale(opts.Locale, logger),
	}, logger)
	defer manager.Close()

	input := &app.Input{}
	a := app.New(r, manager, input, logger)
	gctx.OnKey(input.OnKey)
	gctx.OnResize(func(width, height int) {
		if err := a.Resize(width, height); err != nil {
			logger.Error("resize failed", "width", width, "height", height, "err", err)
		}
	})

	if opts.Watch {
		watcher, err := catalogue.NewWatcher(opts.PhotoDir, logger)
		if err != nil {
			return err
		}
		defer watcher.Close()
		a.WatchCatalogue(watcher.Changes(), func() ([]catalogue.Photo, error) {
			return catalogue.Scan(opts.PhotoDir, logger)
		})
	}

	loop := app.NewLoop(opts.TickDuration())
	loop.MaxUpdates = opts.MaxCatchUp
	logger.Info("starting", "photos", len(photos), "mode", mode, "tick", opts.TickDuration())
	if err := app.Run(gctx, a, loop, app.SystemClock{}, opts.Frames); err != nil {
		return err
	}
	if opts.Snapshot != "" {
		return a.Snapshot(opts.Snapshot)
	}
	return nil
}
