package img

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"sort"

	_ "golang.org/x/image/webp" // WEBP decoder
)

var (
	// ErrTooBig is returned when an image exceeds the configured
	// pixel limit.
	ErrTooBig = errors.New("image is too big")

	// ErrUnsupportedFormat is returned when encoding to a format
	// that has no encoder.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Image describes the interface of an image manipulation object.
type Image interface {
	Close() error
	Image() image.Image
	Encode(w io.Writer, format string) error
	Format() string
	Width() uint
	Height() uint
	Resize(w, h uint) error
	Scale(sx, sy float64) error
	Fit(w, h uint) error
}

// Loader is an image processor. Decode reads a new image from
// a reader and Wrap turns an already decoded image into an Image
// handled by the same processor.
type Loader struct {
	Decode func(io.Reader, Options) (Image, error)
	Wrap   func(image.Image, Options) Image
}

var loaders = map[string]Loader{}

// AddLoader adds a new image loader to the available loaders.
func AddLoader(name string, l Loader) {
	loaders[name] = l
}

// Loaders returns the names of the registered loaders.
func Loaders() []string {
	res := make([]string, 0, len(loaders))
	for k := range loaders {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// New loads an image using the given loader.
func New(loader string, r io.Reader, options Options) (Image, error) {
	l, ok := loaders[loader]
	if !ok {
		return nil, fmt.Errorf("loader %s not found", loader)
	}

	return l.Decode(r, options)
}

// Wrap returns an Image for the given decoded image, using the
// given loader.
func Wrap(loader string, m image.Image, options Options) (Image, error) {
	l, ok := loaders[loader]
	if !ok {
		return nil, fmt.Errorf("loader %s not found", loader)
	}

	return l.Wrap(m, options), nil
}

// Probe reads the image header from r and returns a reader that
// yields the full image again, with the detected format name.
// It fails with ErrTooBig when the image has more than maxPixels
// pixels. A maxPixels of 0 disables the check.
func Probe(r io.Reader, maxPixels int) (io.Reader, string, error) {
	// We need to grab the format first, hence this two pass thing
	var buf bytes.Buffer
	c, format, err := image.DecodeConfig(io.TeeReader(r, &buf))
	if err != nil {
		return nil, "", err
	}

	if maxPixels > 0 && c.Width*c.Height > maxPixels {
		return nil, "", ErrTooBig
	}

	return io.MultiReader(&buf, r), format, nil
}

// ScaledSize returns the size of a w*h image scaled by sx and sy.
// Each dimension is at least one pixel.
func ScaledSize(w, h int, sx, sy float64) (int, int) {
	nw := int(math.Round(float64(w) * sx))
	nh := int(math.Round(float64(h) * sy))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// CheckScaledSize returns ErrTooBig when a w*h image scaled by sx and sy
// has more than maxPixels pixels. A zero maxPixels disables the check.
func CheckScaledSize(w, h int, sx, sy float64, maxPixels int) error {
	if maxPixels <= 0 {
		return nil
	}
	nw := math.Max(1, math.Round(float64(w)*sx))
	nh := math.Max(1, math.Round(float64(h)*sy))
	if nw*nh > float64(maxPixels) {
		return ErrTooBig
	}
	return nil
}

// FitSize returns the size of a w*h image that fits into mw*mh
// while keeping its aspect ratio. The size is left unchanged when
// the image is already smaller.
func FitSize(w, h, mw, mh int) (int, int) {
	if w <= mw && h <= mh {
		return w, h
	}

	srcAspectRatio := float64(w) / float64(h)
	maxAspectRatio := float64(mw) / float64(mh)

	var nw, nh int
	if srcAspectRatio > maxAspectRatio {
		nw = mw
		nh = int(float64(nw) / srcAspectRatio)
	} else {
		nh = mh
		nw = int(float64(nh) * srcAspectRatio)
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}
