package catalogue

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/webp"
)

var nativeFormats = map[string]bool{
	"webp": true,
	"jpg":  true,
	"png":  true,
	"gif":  true,
}

// ImageDecoder decodes WebP, JPEG, PNG and GIF in process.
type ImageDecoder struct{}

func (ImageDecoder) Decode(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if _, ok := nativeFormats[formatExtension(format)]; !ok {
		return nil, fmt.Errorf("%s (%s): %w", path, format, ErrUnsupportedFormat)
	}
	return FrameFromImage(img), nil
}

func formatExtension(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

// FrameFromImage converts any image into padded 4:2:0 planes. Lossy WebP
// and most JPEGs already are 4:2:0 and are copied; everything else is
// converted per pixel. Padding repeats the last row and column.
func FrameFromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := newFrame(b.Dx(), b.Dy())
	if ycc, ok := img.(*image.YCbCr); ok && ycc.SubsampleRatio == image.YCbCrSubsampleRatio420 {
		copyYCbCr(f, ycc)
	} else {
		convertRGB(f, img)
	}
	return f
}

func clampIndex(v, n int) int {
	if v >= n {
		return n - 1
	}
	return v
}

func copyYCbCr(f *Frame, src *image.YCbCr) {
	b := src.Rect
	for y := 0; y < f.Height; y++ {
		sy := b.Min.Y + clampIndex(y, f.ImageHeight)
		for x := 0; x < f.Width; x++ {
			sx := b.Min.X + clampIndex(x, f.ImageWidth)
			f.Y[y*f.Width+x] = src.Y[src.YOffset(sx, sy)]
		}
	}
	cw, ch := f.Width/2, f.Height/2
	iw, ih := (f.ImageWidth+1)/2, (f.ImageHeight+1)/2
	for y := 0; y < ch; y++ {
		sy := b.Min.Y + 2*clampIndex(y, ih)
		for x := 0; x < cw; x++ {
			sx := b.Min.X + 2*clampIndex(x, iw)
			off := src.COffset(sx, sy)
			f.Cb[y*cw+x] = src.Cb[off]
			f.Cr[y*cw+x] = src.Cr[off]
		}
	}
}

func convertRGB(f *Frame, img image.Image) {
	b := img.Bounds()
	cw := f.Width / 2
	cb := make([]int, len(f.Cb))
	cr := make([]int, len(f.Cr))
	for y := 0; y < f.Height; y++ {
		sy := b.Min.Y + clampIndex(y, f.ImageHeight)
		for x := 0; x < f.Width; x++ {
			sx := b.Min.X + clampIndex(x, f.ImageWidth)
			c := color.NRGBAModel.Convert(img.At(sx, sy)).(color.NRGBA)
			yy, u, v := color.RGBToYCbCr(c.R, c.G, c.B)
			f.Y[y*f.Width+x] = yy
			ci := (y/2)*cw + x/2
			cb[ci] += int(u)
			cr[ci] += int(v)
		}
	}
	for i := range cb {
		f.Cb[i] = uint8((cb[i] + 2) / 4)
		f.Cr[i] = uint8((cr[i] + 2) / 4)
	}
}
