package img

import (
	"fmt"
	"strings"
)

// ImageCompression is the compression level of PNG encoding.
type ImageCompression uint8

const (
	// CompressionDefault uses the encoder's default level.
	CompressionDefault ImageCompression = iota
	// CompressionFast favors speed.
	CompressionFast
	// CompressionBest favors file size.
	CompressionBest
	// CompressionNone disables compression.
	CompressionNone
)

var compressionNames = map[string]ImageCompression{
	"default": CompressionDefault,
	"fast":    CompressionFast,
	"best":    CompressionBest,
	"none":    CompressionNone,
}

// ParseCompression returns the ImageCompression matching a name.
func ParseCompression(s string) (ImageCompression, error) {
	c, ok := compressionNames[strings.ToLower(s)]
	if !ok {
		return CompressionDefault, fmt.Errorf("unknown compression %q", s)
	}
	return c, nil
}

// Filter is a resampling filter name.
type Filter string

// Available resampling filters. Every loader supports them.
const (
	FilterNearest    Filter = "nearest"
	FilterLinear     Filter = "linear"
	FilterCatmullRom Filter = "catmullrom"
	FilterLanczos    Filter = "lanczos"
)

// Options holds the decoding, resampling and encoding options
// of an image.
type Options struct {
	MaxPixels       int
	Filter          Filter
	Quality         uint8
	Compression     ImageCompression
	NumColors       int
	Dither          bool
	TIFFCompression bool
}

// DefaultOptions returns the options used when nothing else
// is configured.
func DefaultOptions() Options {
	return Options{
		MaxPixels:   30000000,
		Filter:      FilterLinear,
		Quality:     90,
		Compression: CompressionDefault,
		NumColors:   256,
		Dither:      true,
	}
}
