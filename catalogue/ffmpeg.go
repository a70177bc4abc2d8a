package catalogue

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFmpegDecoder shells out to ffmpeg for formats the Go decoders lack
// (HEIF, AVIF, TIFF, camera raw). ffmpeg renders the first frame as PNG on
// stdout, so the configured binary is the only external tool needed.
type FFmpegDecoder struct {
	// Path of the ffmpeg binary; empty resolves "ffmpeg" through PATH.
	Path string
}

func (d *FFmpegDecoder) command(path string, stdout, stderr io.Writer) *ffmpeg.Stream {
	cmd := ffmpeg.Input(path).
		Output("pipe:", ffmpeg.KwArgs{
			"format":   "image2pipe",
			"vcodec":   "png",
			"frames:v": 1,
		}).
		WithOutput(stdout).
		WithErrorOutput(stderr)
	if d.Path != "" {
		cmd = cmd.SetFfmpegPath(d.Path)
	}
	return cmd
}

func (d *FFmpegDecoder) Decode(path string) (*Frame, error) {
	var out, stderr bytes.Buffer
	if err := d.command(path, &out, &stderr).Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg %s: %w: %s", path, err, lastLine(stderr.String()))
	}
	img, err := png.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg %s: %w", path, err)
	}
	return FrameFromImage(img), nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
