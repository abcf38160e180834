package editor

import (
	"bytes"
	"image"

	"codeberg.org/picedit/picedit/pkg/img"
)

// Codec translates between file content and decoded images.
type Codec interface {
	Decode(data []byte) (image.Image, error)
	Encode(m image.Image, f Format) ([]byte, error)
	Resample(m image.Image, sx, sy float64) (image.Image, error)
}

// ImageCodec is a Codec backed by an img loader.
type ImageCodec struct {
	Loader  string
	Options img.Options
}

// NewImageCodec returns an ImageCodec using the given loader
// ("native" or "bild") and options.
func NewImageCodec(loader string, options img.Options) *ImageCodec {
	return &ImageCodec{Loader: loader, Options: options}
}

// Decode decodes an image.
func (c *ImageCodec) Decode(data []byte) (image.Image, error) {
	im, err := img.New(c.Loader, bytes.NewReader(data), c.Options)
	if err != nil {
		return nil, err
	}
	defer im.Close()
	return im.Image(), nil
}

// Encode encodes an image in the given format.
func (c *ImageCodec) Encode(m image.Image, f Format) ([]byte, error) {
	im, err := img.Wrap(c.Loader, m, c.Options)
	if err != nil {
		return nil, err
	}
	defer im.Close()

	buf := new(bytes.Buffer)
	if err := im.Encode(buf, f.String()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Resample scales an image by sx and sy.
func (c *ImageCodec) Resample(m image.Image, sx, sy float64) (image.Image, error) {
	im, err := img.Wrap(c.Loader, m, c.Options)
	if err != nil {
		return nil, err
	}
	defer im.Close()

	if err := im.Scale(sx, sy); err != nil {
		return nil, err
	}
	return im.Image(), nil
}
