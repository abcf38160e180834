package bild

import (
	"image"
	"io"

	"github.com/anthonynsimon/bild/transform"

	"codeberg.org/picedit/picedit/pkg/img"
)

func init() {
	img.AddLoader("bild", img.Loader{Decode: New, Wrap: Wrap})
}

var filters = map[img.Filter]transform.ResampleFilter{
	img.FilterNearest:    transform.NearestNeighbor,
	img.FilterLinear:     transform.Linear,
	img.FilterCatmullRom: transform.CatmullRom,
	img.FilterLanczos:    transform.Lanczos,
}

// Image is the img.Image implementation using the bild
// transform package.
type Image struct {
	m       image.Image
	format  string
	options img.Options
}

// New returns an Image instance from a reader.
func New(r io.Reader, options img.Options) (img.Image, error) {
	r, format, err := img.Probe(r, options.MaxPixels)
	if err != nil {
		return nil, err
	}

	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	return &Image{
		m:       m,
		format:  format,
		options: options,
	}, nil
}

// Wrap returns an Image instance for an already decoded image.
func Wrap(m image.Image, options img.Options) img.Image {
	return &Image{m: m, options: options}
}

// Image returns the wrapped image instance.
func (im *Image) Image() image.Image {
	return im.m
}

// Close frees the resources used by the image and must be called
// when you're done processing it.
func (im *Image) Close() error {
	im.m = nil
	return nil
}

// Format returns the image format.
func (im *Image) Format() string {
	return im.format
}

// Width returns the image width.
func (im *Image) Width() uint {
	return uint(im.m.Bounds().Dx())
}

// Height returns the image height.
func (im *Image) Height() uint {
	return uint(im.m.Bounds().Dy())
}

// Resize resizes the image to the given width and height.
func (im *Image) Resize(w, h uint) error {
	f, ok := filters[im.options.Filter]
	if !ok {
		f = transform.Linear
	}
	im.m = transform.Resize(im.m, int(w), int(h), f)
	return nil
}

// Scale resizes the image by the given factors. It returns
// img.ErrTooBig when the result exceeds the maximum pixel count.
func (im *Image) Scale(sx, sy float64) error {
	if sx == 1 && sy == 1 {
		return nil
	}
	if err := img.CheckScaledSize(int(im.Width()), int(im.Height()), sx, sy, im.options.MaxPixels); err != nil {
		return err
	}
	w, h := img.ScaledSize(int(im.Width()), int(im.Height()), sx, sy)
	return im.Resize(uint(w), uint(h))
}

// Fit resizes the image keeping the aspect ratio and staying within
// the given width and height.
func (im *Image) Fit(w, h uint) error {
	nw, nh := img.FitSize(int(im.Width()), int(im.Height()), int(w), int(h))
	if nw == int(im.Width()) && nh == int(im.Height()) {
		return nil
	}
	return im.Resize(uint(nw), uint(nh))
}

// Encode encodes the image to an io.Writer. An empty format
// reuses the original one.
func (im *Image) Encode(w io.Writer, format string) error {
	if format == "" {
		format = im.format
	}
	return img.Encode(w, im.m, format, im.options)
}
