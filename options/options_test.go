package options

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("photoframe", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseDefaults(t *testing.T) {
	o, err := Parse(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1280, o.Width)
	assert.Equal(t, 720, o.Height)
	assert.Equal(t, 150, o.DwellTicks)
	assert.Equal(t, 40, o.TransitionTicks)
	assert.Equal(t, 10*time.Millisecond, o.TickDuration())
	assert.Equal(t, "fixed", o.Resize)
	assert.Equal(t, "all", o.Mode)
}

func TestParseFlags(t *testing.T) {
	o, err := Parse(newFlagSet(), []string{"-width", "800", "-height", "480", "-mode", "daily", "-headless", "-frames", "3"})
	require.NoError(t, err)
	assert.Equal(t, 800, o.Width)
	assert.Equal(t, 480, o.Height)
	assert.Equal(t, "daily", o.Mode)
	assert.True(t, o.Headless)
	assert.Equal(t, 3, o.Frames)
}

func TestParseTOMLConfig(t *testing.T) {
	path := writeFile(t, "frame.toml", `
photo_dir = "/srv/photos"
width = 1920
height = 1080
dwell_ticks = 300
resize = "reallocate"
watch = true
`)
	o, err := Parse(newFlagSet(), []string{"-config", path, "-height", "1200"})
	require.NoError(t, err)
	assert.Equal(t, "/srv/photos", o.PhotoDir)
	assert.Equal(t, 1920, o.Width)
	// explicit flags win over the file
	assert.Equal(t, 1200, o.Height)
	assert.Equal(t, 300, o.DwellTicks)
	assert.Equal(t, "reallocate", o.Resize)
	assert.True(t, o.Watch)
	// untouched keys keep their defaults
	assert.Equal(t, 40, o.TransitionTicks)
	assert.Equal(t, path, o.Config)

	cfg := o.SlideshowConfig()
	assert.Equal(t, 300, cfg.DwellTicks)
	assert.Equal(t, 40, cfg.TransitionTicks)
}

func TestParseYAMLConfig(t *testing.T) {
	path := writeFile(t, "frame.yml", "mode: daily\nlocale: de-DE\nlog_level: debug\n")
	o, err := Parse(newFlagSet(), []string{"-config", path})
	require.NoError(t, err)
	assert.Equal(t, "daily", o.Mode)
	assert.Equal(t, "de-DE", o.Locale)
	assert.Equal(t, "debug", o.LogLevel)
}

func TestLoadEmptyYAML(t *testing.T) {
	o := Default()
	require.NoError(t, Load(writeFile(t, "empty.yaml", ""), o))
	assert.Equal(t, Default(), o)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	assert.Error(t, Load(writeFile(t, "bad.toml", "colour = 3\n"), Default()))
	assert.Error(t, Load(writeFile(t, "bad.yaml", "colour: 3\n"), Default()))
}

func TestLoadUnknownFormat(t *testing.T) {
	err := Load(writeFile(t, "frame.ini", "width=1"), Default())
	assert.ErrorIs(t, err, ErrUnknownConfigFormat)

	err = Load(filepath.Join(t.TempDir(), "missing.toml"), Default())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)
	o, err := Parse(newFlagSet(), []string{"-photo-dir", "~/photos"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "photos"), o.PhotoDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Options)
	}{
		{"zero width", func(o *Options) { o.Width = 0 }},
		{"zero tick", func(o *Options) { o.TickMS = 0 }},
		{"zero dwell", func(o *Options) { o.DwellTicks = 0 }},
		{"no catch-up", func(o *Options) { o.MaxCatchUp = 0 }},
		{"negative frames", func(o *Options) { o.Frames = -1 }},
		{"bad mode", func(o *Options) { o.Mode = "weekly" }},
		{"bad resize", func(o *Options) { o.Resize = "stretch" }},
		{"bad level", func(o *Options) { o.LogLevel = "loud" }},
	}
	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Default()
			tt.edit(o)
			assert.Error(t, o.Validate())
		})
	}
}

func TestParseHelpSkipsValidation(t *testing.T) {
	o, err := Parse(newFlagSet(), []string{"-help", "-width", "0"})
	require.NoError(t, err)
	assert.True(t, o.Help)
}
