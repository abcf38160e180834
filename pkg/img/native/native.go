package native

import (
	"image"
	"io"

	"github.com/disintegration/imaging"

	"codeberg.org/picedit/picedit/pkg/img"
)

func init() {
	img.AddLoader("native", img.Loader{Decode: New, Wrap: Wrap})
}

var filters = map[img.Filter]imaging.ResampleFilter{
	img.FilterNearest:    imaging.NearestNeighbor,
	img.FilterLinear:     imaging.Linear,
	img.FilterCatmullRom: imaging.CatmullRom,
	img.FilterLanczos:    imaging.Lanczos,
}

// Image is an image.
type Image struct {
	m       image.Image
	format  string
	options img.Options
}

// New returns a new Image instance from a reader.
func New(r io.Reader, options img.Options) (img.Image, error) {
	r, format, err := img.Probe(r, options.MaxPixels)
	if err != nil {
		return nil, err
	}

	m, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	return &Image{
		m:       m,
		format:  format,
		options: options,
	}, nil
}

// Wrap returns a new Image instance for an already decoded image.
func Wrap(m image.Image, options img.Options) img.Image {
	return &Image{m: m, options: options}
}

// Close must be called after you're done with your image conversion.
func (im *Image) Close() error {
	im.m = nil
	return nil
}

// Image returns the wrapped image.
func (im *Image) Image() image.Image {
	return im.m
}

// Encode encodes the image to the given format. If format is an
// empty string it will reuse the original format.
func (im *Image) Encode(w io.Writer, format string) error {
	if format == "" {
		format = im.format
	}
	return img.Encode(w, im.m, format, im.options)
}

// Format returns the image format. It's empty for wrapped images.
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
	im.m = imaging.Resize(im.m, int(w), int(h), im.filter())
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

// Fit resizes the image to a given size, only if
// the given width and height are bigger than the current
// image.
func (im *Image) Fit(w, h uint) error {
	if w > im.Width() && h > im.Height() {
		return nil
	}

	im.m = imaging.Fit(im.m, int(w), int(h), im.filter())
	return nil
}

func (im *Image) filter() imaging.ResampleFilter {
	if f, ok := filters[im.options.Filter]; ok {
		return f
	}
	return imaging.Linear
}
