package img

import (
	"fmt"
	"image"
	"image/gif"  // GIF decoder and encoder
	"image/jpeg" // JPEG decoder and encoder
	"image/png"  // PNG decoder and encoder
	"io"

	ico "github.com/biessek/golang-ico" // ICO decoder and encoder
	"golang.org/x/image/bmp"            // BMP decoder and encoder
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff" // TIFF decoder and encoder
)

// MaxIconSize is the largest width and height an ICO file can hold.
const MaxIconSize = 256

// Encode encodes m to w in the given format. Supported formats are
// png, jpeg (or jpg), gif, bmp, tiff and ico.
func Encode(w io.Writer, m image.Image, format string, options Options) error {
	switch format {
	case "png":
		encoder := &png.Encoder{CompressionLevel: pngLevel(options.Compression)}
		return encoder.Encode(w, m)
	case "jpeg", "jpg":
		q := int(options.Quality)
		if q == 0 {
			q = jpeg.DefaultQuality
		}
		return jpeg.Encode(w, m, &jpeg.Options{Quality: q})
	case "gif":
		numColors := options.NumColors
		if p, ok := m.(*image.Paletted); ok {
			numColors = len(p.Palette)
		}
		if numColors <= 0 || numColors > 256 {
			numColors = 256
		}
		var drawer draw.Drawer = draw.Src
		if options.Dither {
			drawer = draw.FloydSteinberg
		}
		return gif.Encode(w, m, &gif.Options{
			NumColors: numColors,
			Drawer:    drawer,
		})
	case "bmp":
		return bmp.Encode(w, m)
	case "tiff":
		c := tiff.Uncompressed
		if options.TIFFCompression {
			c = tiff.Deflate
		}
		return tiff.Encode(w, m, &tiff.Options{Compression: c})
	case "ico":
		return ico.Encode(w, FitIcon(m))
	}

	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func pngLevel(c ImageCompression) png.CompressionLevel {
	switch c {
	case CompressionFast:
		return png.BestSpeed
	case CompressionBest:
		return png.BestCompression
	case CompressionNone:
		return png.NoCompression
	}
	return png.DefaultCompression
}

// FitIcon shrinks m so it fits in an icon entry of at most
// MaxIconSize pixels per side. Smaller images are returned as is.
func FitIcon(m image.Image) image.Image {
	b := m.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), MaxIconSize, MaxIconSize)
	if w == b.Dx() && h == b.Dy() {
		return m
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Rect, m, b, draw.Over, nil)
	return dst
}
