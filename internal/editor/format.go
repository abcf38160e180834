package editor

import (
	"strings"
)

// Format is a raster image format.
type Format int

// Supported image formats.
const (
	PNG Format = iota
	JPEG
	GIF
	BMP
	TIFF
	ICO
)

var formatNames = [...]string{"png", "jpeg", "gif", "bmp", "tiff", "ico"}

var formatExtensions = [...]string{"png", "jpg", "gif", "bmp", "tiff", "ico"}

// Formats returns all supported formats, in file filter order.
func Formats() []Format {
	return []Format{PNG, JPEG, GIF, BMP, TIFF, ICO}
}

// String returns the format name, as understood by the image codec.
func (f Format) String() string {
	if f < PNG || f > ICO {
		return "png"
	}
	return formatNames[f]
}

// Extension returns the file extension used for the format,
// without the leading dot.
func (f Format) Extension() string {
	if f < PNG || f > ICO {
		return "png"
	}
	return formatExtensions[f]
}

// LookupFormat returns the format matching a token.
// Both "jpg" and "jpeg" name JPEG. The match is case insensitive.
func LookupFormat(token string) (Format, bool) {
	switch strings.ToLower(token) {
	case "png":
		return PNG, true
	case "jpeg", "jpg":
		return JPEG, true
	case "gif":
		return GIF, true
	case "bmp":
		return BMP, true
	case "tiff":
		return TIFF, true
	case "ico":
		return ICO, true
	}
	return PNG, false
}

// ParseFormat returns the format matching a token, or PNG when
// the token is unknown.
func ParseFormat(token string) Format {
	f, _ := LookupFormat(token)
	return f
}

// InferFormat returns the format named by the text after the last
// dot of filename. It returns fallback when there is no dot or the
// extension is not a known format.
func InferFormat(filename string, fallback Format) Format {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return fallback
	}
	if f, ok := LookupFormat(filename[i+1:]); ok {
		return f
	}
	return fallback
}
