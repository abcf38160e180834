package editor

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"

	"codeberg.org/picedit/picedit/pkg/fileutil"
	"codeberg.org/picedit/picedit/pkg/img"
)

// Env holds the collaborators used by Dispatch.
type Env struct {
	Codec       Codec
	Picker      FilePicker
	DefaultName string
	FileMode    os.FileMode
}

func (env Env) defaultName() string {
	if env.DefaultName == "" {
		return DefaultName
	}
	return env.DefaultName
}

func (env Env) fileMode() os.FileMode {
	if env.FileMode == 0 {
		return 0o644
	}
	return env.FileMode
}

// Action is a user action on a session.
type Action interface {
	Name() string
}

// Load opens an image. When Path is empty, the file is chosen
// with the picker.
type Load struct{ Path string }

// SelectSaveFormat sets the format used by Convert.
type SelectSaveFormat struct{ Token string }

// Convert saves a copy of the displayed image. When Path is empty,
// the destination is chosen with the picker.
type Convert struct{ Path string }

// SaveAs saves a copy of the original file content in its original
// format. When Path is empty, the destination is chosen with the picker.
type SaveAs struct{ Path string }

// Save applies the scale to the image and overwrites the source file.
type Save struct{}

// ZoomIn increases the zoom by one step.
type ZoomIn struct{}

// ZoomOut decreases the zoom by one step, never below 0.1.
type ZoomOut struct{}

// SetZoom sets the zoom. Negative values are ignored.
type SetZoom struct{ Value float64 }

// SetSlider sets both scale axes to Value/100.
type SetSlider struct{ Value int }

// SetScale sets each scale axis.
type SetScale struct{ X, Y float64 }

// Name implements Action.
func (Load) Name() string { return "load" }

// Name implements Action.
func (SelectSaveFormat) Name() string { return "select-save-format" }

// Name implements Action.
func (Convert) Name() string { return "convert" }

// Name implements Action.
func (SaveAs) Name() string { return "save-as" }

// Name implements Action.
func (Save) Name() string { return "save" }

// Name implements Action.
func (ZoomIn) Name() string { return "zoom-in" }

// Name implements Action.
func (ZoomOut) Name() string { return "zoom-out" }

// Name implements Action.
func (SetZoom) Name() string { return "set-zoom" }

// Name implements Action.
func (SetSlider) Name() string { return "set-slider" }

// Name implements Action.
func (SetScale) Name() string { return "set-scale" }

// Dispatch applies an action to a session and returns the resulting
// session. On error, the returned session is s, unchanged.
func Dispatch(ctx context.Context, env Env, s Session, a Action) (Session, error) {
	switch a := a.(type) {
	case Load:
		return load(ctx, env, s, a.Path)
	case SelectSaveFormat:
		s.saveFormat = a.Token
		return s, nil
	case Convert:
		return convert(ctx, env, s, a.Path)
	case SaveAs:
		return saveAs(ctx, env, s, a.Path)
	case Save:
		return save(ctx, env, s)
	case ZoomIn:
		return s.withZoom(stepZoom(s.zoom, zoomStep)), nil
	case ZoomOut:
		if math.RoundToEven(s.zoom*10) <= 1 {
			return s, nil
		}
		return s.withZoom(math.Max(stepZoom(s.zoom, -zoomStep), minZoom)), nil
	case SetZoom:
		return s.withZoom(a.Value), nil
	case SetSlider:
		if a.Value < 0 {
			return s, fmt.Errorf("%w: slider %d", ErrInvalidValue, a.Value)
		}
		s.slider = a.Value
		s.scaleX = float64(a.Value) / 100
		s.scaleY = s.scaleX
		return s, nil
	case SetScale:
		if !(a.X > 0) || !(a.Y > 0) {
			return s, fmt.Errorf("%w: scale %gx%g", ErrInvalidValue, a.X, a.Y)
		}
		s.scaleX, s.scaleY = a.X, a.Y
		return s, nil
	}

	return s, fmt.Errorf("unknown action %T", a)
}

func load(ctx context.Context, env Env, s Session, path string) (Session, error) {
	var err error
	if path == "" {
		if path, err = env.Picker.ChooseOpenPath(ctx, OpenFilter()); err != nil {
			return s, err
		}
	}
	if err = ctx.Err(); err != nil {
		return s, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	m, err := env.Codec.Decode(data)
	if err != nil {
		return s, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	next := s
	next.sourceBytes = data
	next.decoded = m
	next.sourcePath = path
	next.sourceFormat = InferFormat(path, PNG)
	next.zoom = InitialZoom
	return next, nil
}

func convert(ctx context.Context, env Env, s Session, dest string) (Session, error) {
	if !s.Loaded() {
		return s, ErrInvalidState
	}

	var err error
	if dest == "" {
		dest, err = env.Picker.ChooseSavePath(ctx, SaveFilter(s.SaveFormat()), env.defaultName())
		if err != nil {
			return s, err
		}
	}

	f := InferFormat(dest, s.SaveFormat())
	if err = write(ctx, env, dest, s.decoded, f); err != nil {
		return s, err
	}

	s.saveFormat = f.String()
	return s, nil
}

func saveAs(ctx context.Context, env Env, s Session, dest string) (Session, error) {
	if !s.Loaded() {
		return s, ErrInvalidState
	}

	var err error
	if dest == "" {
		dest, err = env.Picker.ChooseSavePath(ctx, SaveFilter(s.sourceFormat), env.defaultName())
		if err != nil {
			return s, err
		}
	}

	m, err := env.Codec.Decode(s.sourceBytes)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return s, write(ctx, env, dest, m, s.sourceFormat)
}

func save(ctx context.Context, env Env, s Session) (Session, error) {
	if !s.Loaded() || s.sourcePath == "" {
		return s, ErrInvalidState
	}

	m, err := env.Codec.Resample(s.decoded, s.scaleX, s.scaleY)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if s.sourceFormat == ICO {
		// Keep the session image the size of the written icon.
		m = img.FitIcon(m)
	}
	data, err := env.Codec.Encode(m, s.sourceFormat)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if err = ctx.Err(); err != nil {
		return s, err
	}
	if err = fileutil.WriteFile(s.sourcePath, data, env.fileMode()); err != nil {
		return s, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	next := s
	next.decoded = m
	next.sourceBytes = data
	next.slider = NeutralSlider
	next.scaleX = 1
	next.scaleY = 1
	return next, nil
}

// write encodes m in format f and writes it to dest.
func write(ctx context.Context, env Env, dest string, m image.Image, f Format) error {
	data, err := env.Codec.Encode(m, f)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = fileutil.WriteFile(dest, data, env.fileMode()); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}
