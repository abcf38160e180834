package editor

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/picedit/picedit/pkg/img"
)

type failingCodec struct {
	Codec
	err error
}

func (c failingCodec) Encode(image.Image, Format) ([]byte, error) {
	return nil, c.err
}

func mustDispatch(t *testing.T, env Env, s Session, actions ...Action) Session {
	t.Helper()
	var err error
	for _, a := range actions {
		s, err = Dispatch(context.Background(), env, s, a)
		require.NoError(t, err, a.Name())
	}
	return s
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	src := writeTestFile(t, filepath.Join(dir, "a.png"), newTestImage(30, 10))
	ctx := context.Background()

	t.Run("path", func(t *testing.T) {
		s, err := Dispatch(ctx, newTestEnv(nil), NewSession(), Load{Path: src})
		require.NoError(t, err)

		data, _ := os.ReadFile(src)
		assert.True(t, s.Loaded())
		assert.True(t, s.SaveEnabled())
		assert.Equal(t, InitialZoom, s.Zoom())
		assert.Equal(t, src, s.Path())
		assert.Equal(t, PNG, s.SourceFormat())
		assert.Equal(t, data, s.SourceBytes())
		assert.Equal(t, 30, s.Image().Bounds().Dx())
	})

	t.Run("picker", func(t *testing.T) {
		p := &fakePicker{open: src}
		s, err := Dispatch(ctx, newTestEnv(p), NewSession(), Load{})
		require.NoError(t, err)
		assert.Equal(t, src, s.Path())
		assert.Equal(t, []Filter{OpenFilter()}, p.filters)
		assert.Len(t, p.filters[0].Formats, 6)
	})

	t.Run("jpeg extension", func(t *testing.T) {
		name := writeTestFile(t, filepath.Join(dir, "photo.JPG"), newTestImage(16, 16))
		s, err := Dispatch(ctx, newTestEnv(nil), NewSession(), Load{Path: name})
		require.NoError(t, err)
		assert.Equal(t, JPEG, s.SourceFormat())
	})

	t.Run("unknown extension", func(t *testing.T) {
		name := writeTestFile(t, filepath.Join(dir, "picture.data"), newTestImage(16, 16))
		s, err := Dispatch(ctx, newTestEnv(nil), NewSession(), Load{Path: name})
		require.NoError(t, err)
		assert.Equal(t, PNG, s.SourceFormat())
	})

	t.Run("zoom is reset", func(t *testing.T) {
		env := newTestEnv(nil)
		s := mustDispatch(t, env, NewSession(), SetZoom{3}, Load{Path: src})
		assert.Equal(t, 0.7, s.Zoom())
	})

	t.Run("errors", func(t *testing.T) {
		bogus := filepath.Join(dir, "bogus.png")
		require.NoError(t, os.WriteFile(bogus, []byte("not an image"), 0o600))

		env := newTestEnv(&fakePicker{err: ErrCancelled})
		before := mustDispatch(t, env, NewSession(), Load{Path: src}, SetSlider{50}, ZoomIn{})

		tests := []struct {
			name   string
			action Action
			err    error
		}{
			{"cancelled", Load{}, ErrCancelled},
			{"missing", Load{Path: filepath.Join(dir, "missing.png")}, ErrDecode},
			{"directory", Load{Path: dir}, ErrDecode},
			{"bogus", Load{Path: bogus}, ErrDecode},
		}

		for _, x := range tests {
			t.Run(x.name, func(t *testing.T) {
				s, err := Dispatch(ctx, env, before, x.action)
				assert.ErrorIs(t, err, x.err)
				assert.Equal(t, before, s)
			})
		}
	})

	t.Run("context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		s, err := Dispatch(cctx, newTestEnv(nil), NewSession(), Load{Path: src})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, s.Loaded())
	})
}

func TestSelectSaveFormat(t *testing.T) {
	env := newTestEnv(nil)

	s := mustDispatch(t, env, NewSession(), SelectSaveFormat{"gif"})
	assert.Equal(t, "gif", s.SaveFormatToken())
	assert.Equal(t, GIF, s.SaveFormat())

	s = mustDispatch(t, env, s, SelectSaveFormat{"Whatever"})
	assert.Equal(t, "Whatever", s.SaveFormatToken())
	assert.Equal(t, PNG, s.SaveFormat())

	s = mustDispatch(t, env, s, SelectSaveFormat{"jpg"})
	assert.Equal(t, JPEG, s.SaveFormat())
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	src := writeTestFile(t, filepath.Join(dir, "photo.JPG"), newTestImage(32, 24))

	t.Run("extension wins", func(t *testing.T) {
		env := newTestEnv(nil)
		s := mustDispatch(t, env, NewSession(), Load{Path: src})
		assert.Equal(t, JPEG, s.SourceFormat())

		s = mustDispatch(t, env, s, SelectSaveFormat{"bmp"})
		dest := filepath.Join(dir, "out.gif")
		s = mustDispatch(t, env, s, Convert{Path: dest})

		m, format := decodeFile(t, dest)
		assert.Equal(t, "gif", format)
		assert.Equal(t, 32, m.Bounds().Dx())
		assert.Equal(t, src, s.Path())
		assert.Equal(t, JPEG, s.SourceFormat())
		assert.Equal(t, GIF, s.SaveFormat())
	})

	t.Run("save format fallback", func(t *testing.T) {
		env := newTestEnv(nil)
		s := mustDispatch(t, env, NewSession(), Load{Path: src}, SelectSaveFormat{"bmp"})

		for _, name := range []string{"noext", "out.tif"} {
			dest := filepath.Join(dir, name)
			s = mustDispatch(t, env, s, Convert{Path: dest})
			_, format := decodeFile(t, dest)
			assert.Equal(t, "bmp", format, name)
		}
		assert.Equal(t, BMP, s.SaveFormat())
	})

	t.Run("picker", func(t *testing.T) {
		dest := filepath.Join(dir, "picked.png")
		p := &fakePicker{save: dest}
		env := newTestEnv(p)
		s := mustDispatch(t, env, NewSession(), Load{Path: src}, SelectSaveFormat{"jpeg"}, Convert{})

		assert.Equal(t, []Filter{SaveFilter(JPEG)}, p.filters)
		assert.Equal(t, []string{DefaultName}, p.names)
		_, format := decodeFile(t, dest)
		assert.Equal(t, "png", format)
		assert.Equal(t, PNG, s.SaveFormat())

		env.DefaultName = "Copy"
		mustDispatch(t, env, s, Convert{})
		assert.Equal(t, []string{DefaultName, "Copy"}, p.names)
	})

	t.Run("displayed image", func(t *testing.T) {
		png := writeTestFile(t, filepath.Join(dir, "b.png"), newTestImage(40, 40))
		env := newTestEnv(nil)
		s := mustDispatch(t, env, NewSession(), Load{Path: png}, SetSlider{50})

		dest := filepath.Join(dir, "unsaved.png")
		mustDispatch(t, env, s, Convert{Path: dest})
		m, _ := decodeFile(t, dest)
		assert.Equal(t, 40, m.Bounds().Dx())

		s = mustDispatch(t, env, s, Save{})
		mustDispatch(t, env, s, Convert{Path: dest})
		m, _ = decodeFile(t, dest)
		assert.Equal(t, 20, m.Bounds().Dx())
	})

	t.Run("errors", func(t *testing.T) {
		env := newTestEnv(&fakePicker{err: ErrCancelled})
		s, err := Dispatch(ctx, env, NewSession(), Convert{Path: filepath.Join(dir, "x.png")})
		assert.Equal(t, ErrInvalidState, err)
		assert.False(t, s.Loaded())

		before := mustDispatch(t, env, NewSession(), Load{Path: src}, SelectSaveFormat{"gif"})

		s, err = Dispatch(ctx, env, before, Convert{})
		assert.ErrorIs(t, err, ErrCancelled)
		assert.Equal(t, before, s)

		s, err = Dispatch(ctx, env, before, Convert{Path: filepath.Join(dir, "nope", "x.png")})
		assert.ErrorIs(t, err, ErrEncode)
		assert.Equal(t, before, s)

		env.Codec = failingCodec{env.Codec, img.ErrUnsupportedFormat}
		dest := filepath.Join(dir, "never.png")
		s, err = Dispatch(ctx, env, before, Convert{Path: dest})
		assert.ErrorIs(t, err, ErrEncode)
		assert.ErrorIs(t, err, img.ErrUnsupportedFormat)
		assert.Equal(t, before, s)
		_, err = os.Stat(dest)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestSaveAs(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	orig := newTestImage(25, 15)
	src := writeTestFile(t, filepath.Join(dir, "a.png"), orig)

	t.Run("round trip", func(t *testing.T) {
		env := newTestEnv(nil)
		s := mustDispatch(t, env, NewSession(), Load{Path: src}, SetSlider{30})

		dest := filepath.Join(dir, "copy.png")
		next := mustDispatch(t, env, s, SaveAs{Path: dest})
		assert.Equal(t, s, next)

		loaded := mustDispatch(t, env, NewSession(), Load{Path: dest})
		assert.Equal(t, toNRGBA(orig).Pix, toNRGBA(loaded.Image()).Pix)
		assert.Equal(t, toNRGBA(s.Image()).Pix, toNRGBA(loaded.Image()).Pix)
	})

	t.Run("original format", func(t *testing.T) {
		env := newTestEnv(&fakePicker{save: filepath.Join(dir, "copy.gif")})
		s := mustDispatch(t, env, NewSession(), Load{Path: src}, SelectSaveFormat{"bmp"}, SaveAs{})
		_, format := decodeFile(t, filepath.Join(dir, "copy.gif"))
		assert.Equal(t, "png", format)
		assert.Equal(t, src, s.Path())
	})

	t.Run("picker filter", func(t *testing.T) {
		jpg := writeTestFile(t, filepath.Join(dir, "b.jpeg"), orig)
		p := &fakePicker{save: filepath.Join(dir, "b-copy.jpg")}
		mustDispatch(t, newTestEnv(p), NewSession(), Load{Path: jpg}, SaveAs{})
		assert.Equal(t, []Filter{SaveFilter(JPEG)}, p.filters)
		_, format := decodeFile(t, filepath.Join(dir, "b-copy.jpg"))
		assert.Equal(t, "jpeg", format)
	})

	t.Run("errors", func(t *testing.T) {
		env := newTestEnv(&fakePicker{err: ErrCancelled})
		_, err := Dispatch(ctx, env, NewSession(), SaveAs{Path: filepath.Join(dir, "x.png")})
		assert.Equal(t, ErrInvalidState, err)

		before := mustDispatch(t, env, NewSession(), Load{Path: src})
		s, err := Dispatch(ctx, env, before, SaveAs{})
		assert.ErrorIs(t, err, ErrCancelled)
		assert.Equal(t, before, s)

		s, err = Dispatch(ctx, env, before, SaveAs{Path: filepath.Join(dir, "missing", "x.png")})
		assert.ErrorIs(t, err, ErrEncode)
		assert.Equal(t, before, s)
	})
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("half size", func(t *testing.T) {
		for _, loader := range img.Loaders() {
			t.Run(loader, func(t *testing.T) {
				dir := t.TempDir()
				src := writeTestFile(t, filepath.Join(dir, "a.png"), newTestImage(40, 30))
				env := newTestEnv(nil)
				env.Codec = NewImageCodec(loader, img.DefaultOptions())

				s := mustDispatch(t, env, NewSession(), Load{Path: src}, SetSlider{50})
				x, y := s.Scale()
				assert.Equal(t, []float64{0.5, 0.5}, []float64{x, y})

				s = mustDispatch(t, env, s, Save{})
				x, y = s.Scale()
				assert.Equal(t, []float64{1, 1}, []float64{x, y})
				assert.Equal(t, 100, s.Slider())
				assert.Equal(t, 20, s.Image().Bounds().Dx())
				assert.Equal(t, 15, s.Image().Bounds().Dy())
				assert.Equal(t, src, s.Path())

				m, format := decodeFile(t, src)
				assert.Equal(t, "png", format)
				assert.Equal(t, 20, m.Bounds().Dx())
				assert.Equal(t, 15, m.Bounds().Dy())

				data, _ := os.ReadFile(src)
				assert.Equal(t, data, s.SourceBytes())
			})
		}
	})

	t.Run("independent axes", func(t *testing.T) {
		dir := t.TempDir()
		src := writeTestFile(t, filepath.Join(dir, "a.jpg"), newTestImage(40, 30))
		env := newTestEnv(nil)

		s := mustDispatch(t, env, NewSession(), Load{Path: src}, SetScale{2, 0.5}, Save{})
		m, format := decodeFile(t, src)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, []int{80, 15}, []int{m.Bounds().Dx(), m.Bounds().Dy()})
		x, y := s.Scale()
		assert.Equal(t, []float64{1, 1}, []float64{x, y})
	})

	t.Run("neutral scale keeps pixels", func(t *testing.T) {
		dir := t.TempDir()
		orig := newTestImage(12, 12)
		src := writeTestFile(t, filepath.Join(dir, "a.png"), orig)
		env := newTestEnv(nil)

		mustDispatch(t, env, NewSession(), Load{Path: src}, Save{})
		m, _ := decodeFile(t, src)
		assert.Equal(t, orig.Pix, toNRGBA(m).Pix)
	})

	t.Run("errors", func(t *testing.T) {
		env := newTestEnv(nil)
		s, err := Dispatch(ctx, env, NewSession(), Save{})
		assert.Equal(t, ErrInvalidState, err)
		assert.Equal(t, NewSession(), s)

		dir := t.TempDir()
		sub := filepath.Join(dir, "sub")
		require.NoError(t, os.Mkdir(sub, 0o750))
		src := writeTestFile(t, filepath.Join(sub, "a.png"), newTestImage(40, 30))
		before := mustDispatch(t, env, NewSession(), Load{Path: src}, SetSlider{50})
		require.NoError(t, os.RemoveAll(sub))

		s, err = Dispatch(ctx, env, before, Save{})
		assert.ErrorIs(t, err, ErrEncode)
		assert.Equal(t, before, s)
		x, y := s.Scale()
		assert.Equal(t, []float64{0.5, 0.5}, []float64{x, y})
		assert.Equal(t, 50, s.Slider())

		env.Codec = failingCodec{env.Codec, errors.New("boom")}
		s, err = Dispatch(ctx, env, before, Save{})
		assert.EqualError(t, err, "cannot encode image: boom")
		assert.Equal(t, before, s)
	})

	t.Run("too big", func(t *testing.T) {
		for _, loader := range img.Loaders() {
			t.Run(loader, func(t *testing.T) {
				dir := t.TempDir()
				src := writeTestFile(t, filepath.Join(dir, "a.png"), newTestImage(20, 20))
				data, err := os.ReadFile(src)
				require.NoError(t, err)

				options := img.DefaultOptions()
				options.MaxPixels = 1000
				env := newTestEnv(nil)
				env.Codec = NewImageCodec(loader, options)

				before := mustDispatch(t, env, NewSession(), Load{Path: src}, SetSlider{1000})
				s, err := Dispatch(ctx, env, before, Save{})
				assert.ErrorIs(t, err, ErrEncode)
				assert.ErrorIs(t, err, img.ErrTooBig)
				assert.Equal(t, before, s)

				after, err := os.ReadFile(src)
				require.NoError(t, err)
				assert.Equal(t, data, after)

				s = mustDispatch(t, env, before, SetSlider{150}, Save{})
				assert.Equal(t, 30, s.Image().Bounds().Dx())
				mustDispatch(t, env, NewSession(), Load{Path: src})
			})
		}
	})

	t.Run("large icon", func(t *testing.T) {
		dir := t.TempDir()
		// PNG content is decoded whatever the extension.
		src := writeTestFile(t, filepath.Join(dir, "big.ico"), newTestImage(300, 100))
		env := newTestEnv(nil)

		s := mustDispatch(t, env, NewSession(), Load{Path: src})
		assert.Equal(t, ICO, s.SourceFormat())

		s = mustDispatch(t, env, s, Save{})
		assert.Equal(t, []int{256, 85}, []int{s.Image().Bounds().Dx(), s.Image().Bounds().Dy()})
		snap := s.Snapshot()
		assert.Equal(t, []int{256, 85}, []int{snap.Width, snap.Height})

		data, err := os.ReadFile(src)
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 0, 1, 0}, data[0:4])
		assert.Equal(t, data, s.SourceBytes())
	})
}

func TestZoom(t *testing.T) {
	env := newTestEnv(nil)

	t.Run("in and out", func(t *testing.T) {
		for _, z := range []float64{0.7, 1, 0.3, 2.5, 0.2, 13.4} {
			s := mustDispatch(t, env, NewSession(), SetZoom{z}, ZoomIn{})
			assert.InDelta(t, z+0.1, s.Zoom(), 1e-9)
			s = mustDispatch(t, env, s, ZoomOut{})
			assert.InDelta(t, z, s.Zoom(), 1e-9)
		}
	})

	t.Run("floor", func(t *testing.T) {
		s := NewSession()
		for i := 0; i < 20; i++ {
			s = mustDispatch(t, env, s, ZoomOut{})
			assert.GreaterOrEqual(t, s.Zoom(), 0.1)
		}
		assert.Equal(t, 0.1, s.Zoom())

		s = mustDispatch(t, env, s, ZoomOut{})
		assert.Equal(t, 0.1, s.Zoom())

		for _, z := range []float64{0.15, 0.18, 0.199999999, 0.25} {
			s = mustDispatch(t, env, NewSession(), SetZoom{z})
			for i := 0; i < 5; i++ {
				s = mustDispatch(t, env, s, ZoomOut{})
				assert.GreaterOrEqual(t, s.Zoom(), 0.1, "zoom out from %v", z)
			}
		}

		s = mustDispatch(t, env, NewSession(), SetZoom{0.15}, ZoomOut{})
		assert.Equal(t, 0.1, s.Zoom())
	})

	t.Run("below floor", func(t *testing.T) {
		s := mustDispatch(t, env, NewSession(), SetZoom{0}, ZoomIn{}, ZoomOut{})
		assert.Equal(t, 0.1, s.Zoom())

		s = mustDispatch(t, env, NewSession(), SetZoom{0.05}, ZoomOut{})
		assert.Equal(t, 0.05, s.Zoom())
	})

	t.Run("zoom in is unconditional", func(t *testing.T) {
		s := NewSession()
		for i := 0; i < 50; i++ {
			s = mustDispatch(t, env, s, ZoomIn{})
		}
		assert.Equal(t, 6.0, s.Zoom())
	})

	t.Run("negative", func(t *testing.T) {
		s := mustDispatch(t, env, NewSession(), SetZoom{1.5}, SetZoom{-0.5})
		assert.Equal(t, 1.5, s.Zoom())
	})

	t.Run("scale is untouched", func(t *testing.T) {
		s := mustDispatch(t, env, NewSession(), SetSlider{40}, ZoomIn{}, ZoomIn{}, ZoomOut{})
		x, y := s.Scale()
		assert.Equal(t, []float64{0.4, 0.4}, []float64{x, y})
	})
}

func TestScale(t *testing.T) {
	env := newTestEnv(nil)

	t.Run("slider", func(t *testing.T) {
		for _, v := range []int{0, 1, 33, 50, 100, 150, 400} {
			s := mustDispatch(t, env, NewSession(), SetScale{3, 4}, SetSlider{v})
			x, y := s.Scale()
			assert.Equal(t, float64(v)/100, x)
			assert.Equal(t, float64(v)/100, y)
			assert.Equal(t, v, s.Slider())
		}
	})

	t.Run("independent", func(t *testing.T) {
		s := mustDispatch(t, env, NewSession(), SetSlider{80}, SetScale{2, 0.5})
		x, y := s.Scale()
		assert.Equal(t, []float64{2, 0.5}, []float64{x, y})
		assert.Equal(t, 80, s.Slider())
	})

	t.Run("invalid", func(t *testing.T) {
		before := mustDispatch(t, env, NewSession(), SetSlider{80})
		for _, a := range []Action{SetSlider{-1}, SetScale{0, 1}, SetScale{1, -2}} {
			s, err := Dispatch(context.Background(), env, before, a)
			assert.ErrorIs(t, err, ErrInvalidValue)
			assert.Equal(t, before, s)
		}
	})
}
