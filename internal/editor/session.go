package editor

import (
	"image"
	"math"
	"path/filepath"
)

const (
	// AppName is the window title when no image is loaded.
	AppName = "PicEdit"

	// InitialZoom is the zoom value set after loading an image.
	InitialZoom = 0.7

	// NeutralSlider is the slider position for a 1.0 scale.
	NeutralSlider = 100

	zoomStep = 0.1
	minZoom  = 0.1
)

// Session is the currently open image and its edit state.
//
// A Session is a value: operations return a new Session and never
// modify the one they receive. Image data is shared between
// copies and never modified in place.
type Session struct {
	sourceBytes  []byte
	decoded      image.Image
	sourcePath   string
	sourceFormat Format
	saveFormat   string
	scaleX       float64
	scaleY       float64
	slider       int
	zoom         float64
}

// NewSession returns an empty session.
func NewSession() Session {
	return Session{
		saveFormat: PNG.String(),
		scaleX:     1,
		scaleY:     1,
		slider:     NeutralSlider,
		zoom:       1,
	}
}

// Loaded returns true when an image is loaded.
func (s Session) Loaded() bool {
	return s.decoded != nil
}

// SaveEnabled returns true when the save operations are available.
func (s Session) SaveEnabled() bool {
	return s.Loaded()
}

// Image returns the displayed image, or nil.
func (s Session) Image() image.Image {
	return s.decoded
}

// SourceBytes returns the raw content of the loaded file.
func (s Session) SourceBytes() []byte {
	return s.sourceBytes
}

// Path returns the path of the loaded file.
func (s Session) Path() string {
	return s.sourcePath
}

// SourceFormat returns the format of the loaded file.
func (s Session) SourceFormat() Format {
	return s.sourceFormat
}

// SaveFormatToken returns the save format as it was selected.
func (s Session) SaveFormatToken() string {
	return s.saveFormat
}

// SaveFormat returns the format used when converting.
func (s Session) SaveFormat() Format {
	return ParseFormat(s.saveFormat)
}

// Scale returns the horizontal and vertical scale.
func (s Session) Scale() (float64, float64) {
	return s.scaleX, s.scaleY
}

// Slider returns the scale slider position.
func (s Session) Slider() int {
	return s.slider
}

// Zoom returns the display magnification.
func (s Session) Zoom() float64 {
	return s.zoom
}

// Title returns the window title.
func (s Session) Title() string {
	if s.sourcePath == "" {
		return AppName
	}
	return AppName + " - " + filepath.Base(s.sourcePath)
}

// withZoom returns a copy of s with the given zoom. A negative
// zoom is ignored.
func (s Session) withZoom(z float64) Session {
	if z < 0 || math.IsNaN(z) {
		return s
	}
	s.zoom = z
	return s
}

// stepZoom adds d to z, rounded to 10 decimals so repeated steps
// stay on the 0.1 grid.
func stepZoom(z, d float64) float64 {
	return math.Round((z+d)*1e10) / 1e10
}

// Snapshot is a read-only view of a Session.
type Snapshot struct {
	Title        string
	Path         string
	SourceFormat Format
	SaveFormat   Format
	Width        int
	Height       int
	ScaleX       float64
	ScaleY       float64
	Slider       int
	Zoom         float64
	SaveEnabled  bool
}

// Snapshot returns a read-only view of the session.
func (s Session) Snapshot() Snapshot {
	res := Snapshot{
		Title:        s.Title(),
		Path:         s.sourcePath,
		SourceFormat: s.sourceFormat,
		SaveFormat:   s.SaveFormat(),
		ScaleX:       s.scaleX,
		ScaleY:       s.scaleY,
		Slider:       s.slider,
		Zoom:         s.zoom,
		SaveEnabled:  s.SaveEnabled(),
	}
	if s.decoded != nil {
		b := s.decoded.Bounds()
		res.Width, res.Height = b.Dx(), b.Dy()
	}
	return res
}
