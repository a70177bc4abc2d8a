// Package options holds the command line and config file settings.
package options

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/richinsley/photoframe/renderer"
	"github.com/richinsley/photoframe/scene"
	"gopkg.in/yaml.v3"
)

// ErrUnknownConfigFormat is returned for config files that are neither TOML
// nor YAML.
var ErrUnknownConfigFormat = errors.New("unknown config file format")

type Options struct {
	Config string `toml:"-" yaml:"-"`
	Help   bool   `toml:"-" yaml:"-"`

	PhotoDir string `toml:"photo_dir" yaml:"photo_dir"`
	Font     string `toml:"font" yaml:"font"`

	Width      int  `toml:"width" yaml:"width"`
	Height     int  `toml:"height" yaml:"height"`
	Fullscreen bool `toml:"fullscreen" yaml:"fullscreen"`
	Headless   bool `toml:"headless" yaml:"headless"`
	// frames rendered before a headless run stops; 0 runs until exit
	Frames int  `toml:"frames" yaml:"frames"`
	GLES   bool `toml:"gles" yaml:"gles"`
	// PNG written from the last frame when the loop ends
	Snapshot string `toml:"snapshot" yaml:"snapshot"`

	TickMS          int    `toml:"tick_ms" yaml:"tick_ms"`
	DwellTicks      int    `toml:"dwell_ticks" yaml:"dwell_ticks"`
	TransitionTicks int    `toml:"transition_ticks" yaml:"transition_ticks"`
	MaxCatchUp      int    `toml:"max_catch_up" yaml:"max_catch_up"`
	Mode            string `toml:"mode" yaml:"mode"`
	Resize          string `toml:"resize" yaml:"resize"`
	Watch           bool   `toml:"watch" yaml:"watch"`

	Locale     string `toml:"locale" yaml:"locale"`
	LogDir     string `toml:"log_dir" yaml:"log_dir"`
	LogLevel   string `toml:"log_level" yaml:"log_level"`
	FFmpegPath string `toml:"ffmpeg" yaml:"ffmpeg"`
}

func Default() *Options {
	cfg := scene.DefaultSlideshowConfig()
	return &Options{
		PhotoDir:        "assets/photos",
		Font:            "assets/fonts/roboto.png",
		Width:           1280,
		Height:          720,
		TickMS:          10,
		DwellTicks:      cfg.DwellTicks,
		TransitionTicks: cfg.TransitionTicks,
		MaxCatchUp:      4,
		Mode:            "all",
		Resize:          "fixed",
		LogDir:          "log",
		LogLevel:        "info",
	}
}

// Bind registers every option on fs with the receiver's values as defaults.
func (o *Options) Bind(fs *flag.FlagSet) {
	fs.StringVar(&o.Config, "config", o.Config, "Path to a .toml or .yaml config file")
	fs.BoolVar(&o.Help, "help", o.Help, "Show help message")

	fs.StringVar(&o.PhotoDir, "photo-dir", o.PhotoDir, "Directory with photos and their .json sidecars")
	fs.StringVar(&o.Font, "font", o.Font, "Font atlas image; the metrics are read from the .json next to it")

	fs.IntVar(&o.Width, "width", o.Width, "Width of the window or headless surface")
	fs.IntVar(&o.Height, "height", o.Height, "Height of the window or headless surface")
	fs.BoolVar(&o.Fullscreen, "fullscreen", o.Fullscreen, "Open the window fullscreen on the primary monitor")
	fs.BoolVar(&o.Headless, "headless", o.Headless, "Render into an EGL pbuffer without a window")
	fs.IntVar(&o.Frames, "frames", o.Frames, "Frames to render in headless mode (0 = until interrupted)")
	fs.BoolVar(&o.GLES, "gles", o.GLES, "Request an OpenGL ES 3.0 context")
	fs.StringVar(&o.Snapshot, "snapshot", o.Snapshot, "Write the last rendered frame to this PNG file on exit")

	fs.IntVar(&o.TickMS, "tick", o.TickMS, "Update step in milliseconds")
	fs.IntVar(&o.DwellTicks, "dwell", o.DwellTicks, "Ticks a photo stays on screen")
	fs.IntVar(&o.TransitionTicks, "transition", o.TransitionTicks, "Ticks a crossfade lasts")
	fs.IntVar(&o.MaxCatchUp, "max-catch-up", o.MaxCatchUp, "Most updates run before one render")
	fs.StringVar(&o.Mode, "mode", o.Mode, "Slideshow mode: all or daily")
	fs.StringVar(&o.Resize, "resize", o.Resize, "Off-screen target on resize: fixed or reallocate")
	fs.BoolVar(&o.Watch, "watch", o.Watch, "Reload the catalogue when the photo directory changes")

	fs.StringVar(&o.Locale, "locale", o.Locale, "Locale for dates, e.g. en-US or de-DE (default: system)")
	fs.StringVar(&o.LogDir, "log-dir", o.LogDir, "Directory for log files (empty disables the file log)")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&o.FFmpegPath, "ffmpeg", o.FFmpegPath, "Path to ffmpeg for formats without a native decoder")
}

// Parse reads args into the defaults. A -config file is applied on top of
// the defaults and flags given explicitly on the command line win over the
// file.
func Parse(fs *flag.FlagSet, args []string) (*Options, error) {
	o := Default()
	o.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.Help {
		return o, nil
	}

	if o.Config != "" {
		explicit := map[string]string{}
		fs.Visit(func(f *flag.Flag) {
			explicit[f.Name] = f.Value.String()
		})
		path, err := homedir.Expand(o.Config)
		if err != nil {
			return nil, fmt.Errorf("config path: %w", err)
		}
		if err := Load(path, o); err != nil {
			return nil, err
		}
		for name, value := range explicit {
			if err := fs.Set(name, value); err != nil {
				return nil, fmt.Errorf("flag -%s: %w", name, err)
			}
		}
		o.Config = path
	}

	if err := o.expandPaths(); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Load decodes a config file over o. The format follows the extension;
// unknown keys are an error.
func Load(path string, o *Options) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(file)
		dec.DisallowUnknownFields()
		err = dec.Decode(o)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(file)
		dec.KnownFields(true)
		err = dec.Decode(o)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return fmt.Errorf("%s: %w", path, ErrUnknownConfigFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (o *Options) expandPaths() error {
	for _, p := range []*string{&o.PhotoDir, &o.Font, &o.LogDir, &o.FFmpegPath, &o.Snapshot} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks ranges and the enumerated settings.
func (o *Options) Validate() error {
	var errs []error
	if o.Width <= 0 || o.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", o.Width, o.Height))
	}
	if o.TickMS <= 0 {
		errs = append(errs, fmt.Errorf("invalid tick %dms", o.TickMS))
	}
	if o.DwellTicks <= 0 || o.TransitionTicks <= 0 {
		errs = append(errs, fmt.Errorf("invalid dwell/transition %d/%d", o.DwellTicks, o.TransitionTicks))
	}
	if o.MaxCatchUp < 1 {
		errs = append(errs, fmt.Errorf("invalid max catch-up %d", o.MaxCatchUp))
	}
	if o.Frames < 0 {
		errs = append(errs, fmt.Errorf("invalid frame count %d", o.Frames))
	}
	if _, err := scene.ParseSlideshowMode(o.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := renderer.ParseResizePolicy(o.Resize); err != nil {
		errs = append(errs, err)
	}
	if _, err := log.ParseLevel(o.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	return errors.Join(errs...)
}

func (o *Options) TickDuration() time.Duration {
	return time.Duration(o.TickMS) * time.Millisecond
}

func (o *Options) SlideshowConfig() scene.SlideshowConfig {
	cfg := scene.DefaultSlideshowConfig()
	cfg.DwellTicks = o.DwellTicks
	cfg.TransitionTicks = o.TransitionTicks
	return cfg
}
