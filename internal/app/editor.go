package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"codeberg.org/picedit/picedit/configs"
	"codeberg.org/picedit/picedit/internal/editor"
	"codeberg.org/picedit/picedit/pkg/img"
	_ "codeberg.org/picedit/picedit/pkg/img/bild"   // bild processor
	_ "codeberg.org/picedit/picedit/pkg/img/native" // imaging processor
)

var (
	statusColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed, color.Bold)
)

// imageOptions returns the image processing options from
// the configuration.
func imageOptions() (img.Options, error) {
	c := configs.Config.Images

	compression, err := img.ParseCompression(c.PNGCompression)
	if err != nil {
		return img.Options{}, err
	}

	return img.Options{
		MaxPixels:       c.MaxPixels,
		Filter:          img.Filter(c.ResampleFilter),
		Quality:         uint8(c.JPEGQuality),
		Compression:     compression,
		NumColors:       c.GIFColors,
		Dither:          c.GIFDither,
		TIFFCompression: c.TIFFCompression == "deflate",
	}, nil
}

// newEditor returns an editor using the configured image processor
// and the given file picker.
func newEditor(ctx context.Context, picker editor.FilePicker) (*editor.Editor, error) {
	options, err := imageOptions()
	if err != nil {
		return nil, err
	}

	ed := editor.New(editor.Env{
		Codec:       editor.NewImageCodec(configs.Config.Images.Processor, options),
		Picker:      picker,
		DefaultName: configs.Config.Editor.DefaultName,
	})

	if f := configs.Config.Editor.DefaultSaveFormat; f != "" {
		if err = ed.Do(ctx, editor.SelectSaveFormat{Token: f}); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"processor": configs.Config.Images.Processor,
		"filter":    options.Filter,
	}).Debug("editor ready")
	return ed, nil
}

// closeEditor releases the editor resources. Errors are only logged.
func closeEditor(ed *editor.Editor) {
	if err := ed.Close(); err != nil {
		log.WithError(err).Warn("can't close editor")
	}
}

// run runs actions one after the other and stops at the first error.
func run(ctx context.Context, ed *editor.Editor, actions ...editor.Action) error {
	for _, a := range actions {
		if err := ed.Do(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// formatSnapshot returns a one line description of a session.
func formatSnapshot(s editor.Snapshot) string {
	if !s.SaveEnabled {
		return fmt.Sprintf("%s | no image | save as %s", s.Title, s.SaveFormat)
	}
	return fmt.Sprintf("%s | %dx%d %s | scale %.2fx%.2f (slider %d) | zoom %.1f | save as %s",
		s.Title, s.Width, s.Height, s.SourceFormat,
		s.ScaleX, s.ScaleY, s.Slider, s.Zoom, s.SaveFormat,
	)
}

func printStatus(w io.Writer, s editor.Snapshot) {
	statusColor.Fprintln(w, formatSnapshot(s))
}

func printError(w io.Writer, err error) {
	errorColor.Fprintf(w, "error: %s\n", strings.TrimSpace(err.Error()))
}
