package catalogue

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

// ErrUnsupportedFormat is returned for files no decoder accepts.
var ErrUnsupportedFormat = errors.New("unsupported photo format")

// Frame is a decoded photo as full range Y'CbCr 4:2:0 planes. Width and
// Height are whole macroblocks (multiples of 16); the luma plane is
// Width*Height bytes, each chroma plane a quarter of that.
type Frame struct {
	Width    int
	Height   int
	MBWidth  int
	MBHeight int
	// size of the picture inside the padded planes
	ImageWidth  int
	ImageHeight int
	Y           []byte
	Cb          []byte
	Cr          []byte
}

// Decoder turns a photo file into a Frame.
type Decoder interface {
	Decode(path string) (*Frame, error)
}

func macroblocks(n int) int {
	return (n + 15) / 16
}

func newFrame(imageWidth, imageHeight int) *Frame {
	f := &Frame{
		MBWidth:     macroblocks(imageWidth),
		MBHeight:    macroblocks(imageHeight),
		ImageWidth:  imageWidth,
		ImageHeight: imageHeight,
	}
	f.Width, f.Height = f.MBWidth*16, f.MBHeight*16
	f.Y = make([]byte, f.Width*f.Height)
	f.Cb = make([]byte, f.Width*f.Height/4)
	f.Cr = make([]byte, f.Width*f.Height/4)
	return f
}

const headerSize = 262

func readHeader(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	head := make([]byte, headerSize)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return head[:n], nil
}

func sniff(path string) (types.Type, error) {
	head, err := readHeader(path)
	if err != nil {
		return filetype.Unknown, fmt.Errorf("read %s: %w", path, err)
	}
	kind, err := filetype.Match(head)
	if err != nil {
		return filetype.Unknown, fmt.Errorf("sniff %s: %w", path, err)
	}
	return kind, nil
}

// AutoDecoder picks a decoder by file content: formats the Go image
// decoders understand go to Image, everything else that looks like an image
// goes to FFmpeg when one is configured.
type AutoDecoder struct {
	Image  Decoder
	FFmpeg Decoder
	logger *log.Logger
}

func NewAutoDecoder(ffmpegPath string, logger *log.Logger) *AutoDecoder {
	d := &AutoDecoder{Image: ImageDecoder{}, logger: logger}
	if ffmpegPath != "" {
		d.FFmpeg = &FFmpegDecoder{Path: ffmpegPath}
	}
	return d
}

func (d *AutoDecoder) Decode(path string) (*Frame, error) {
	kind, err := sniff(path)
	if err != nil {
		return nil, err
	}
	switch {
	case nativeFormats[kind.Extension]:
		return d.Image.Decode(path)
	case d.FFmpeg != nil && kind.MIME.Type == "image":
		d.logger.Debug("decoding with ffmpeg", "path", path, "type", kind.MIME.Value)
		return d.FFmpeg.Decode(path)
	}
	return nil, fmt.Errorf("%s (%s): %w", path, kind.MIME.Value, ErrUnsupportedFormat)
}
