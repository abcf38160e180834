package configs

import (
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pelletier/go-toml"
)

// Because we don't need viper's mess for just storing configuration from
// a source.
type config struct {
	Main   configMain   `toml:"main"`
	Images configImages `toml:"images"`
	Editor configEditor `toml:"editor"`
}

type configMain struct {
	LogLevel string `toml:"log_level"`
	DevMode  bool   `toml:"dev_mode"`
}

type configImages struct {
	Processor       string `toml:"processor"`
	ResampleFilter  string `toml:"resample_filter"`
	JPEGQuality     int    `toml:"jpeg_quality"`
	PNGCompression  string `toml:"png_compression"`
	GIFColors       int    `toml:"gif_colors"`
	GIFDither       bool   `toml:"gif_dither"`
	TIFFCompression string `toml:"tiff_compression"`
	MaxPixels       int    `toml:"max_pixels"`
}

type configEditor struct {
	DefaultSaveFormat string `toml:"default_save_format"`
	DefaultName       string `toml:"default_name"`
}

func init() {
	// Report errors with the configuration file keys.
	validation.ErrorTag = "toml"
}

// Config holds the configuration data from configuration files
// or flags.
//
// This variable sets some default values that might be overwritten
// by a configuration file.
var Config = config{
	Main: configMain{
		LogLevel: "info",
		DevMode:  false,
	},
	Images: configImages{
		Processor:       "native",
		ResampleFilter:  "linear",
		JPEGQuality:     90,
		PNGCompression:  "default",
		GIFColors:       256,
		GIFDither:       true,
		TIFFCompression: "deflate",
		MaxPixels:       30000000,
	},
	Editor: configEditor{
		DefaultSaveFormat: "png",
		DefaultName:       "Untitled1",
	},
}

// Validate implements validation.Validatable.
func (c config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Main),
		validation.Field(&c.Images),
		validation.Field(&c.Editor),
	)
}

// Validate implements validation.Validatable.
func (c configMain) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.LogLevel, validation.In(
			"panic", "fatal", "error", "warn", "warning", "info", "debug", "trace",
		)),
	)
}

// Validate implements validation.Validatable.
func (c configImages) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Processor, validation.Required, validation.In("native", "bild")),
		validation.Field(&c.ResampleFilter, validation.In("nearest", "linear", "catmullrom", "lanczos")),
		validation.Field(&c.JPEGQuality, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.PNGCompression, validation.In("default", "fast", "best", "none")),
		validation.Field(&c.GIFColors, validation.Required, validation.Min(2), validation.Max(256)),
		validation.Field(&c.TIFFCompression, validation.In("none", "deflate")),
		validation.Field(&c.MaxPixels, validation.Min(0)),
	)
}

// Validate implements validation.Validatable.
func (c configEditor) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DefaultSaveFormat, validation.In("png", "jpg", "jpeg", "gif", "bmp", "tiff", "ico")),
	)
}

// LoadConfiguration loads the configuration file.
func LoadConfiguration(configPath string) error {
	if configPath == "" {
		return nil
	}

	fd, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer fd.Close()

	dec := toml.NewDecoder(fd)
	if err := dec.Decode(&Config); err != nil {
		return err
	}

	return Config.Validate()
}
