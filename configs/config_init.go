package configs

import (
	"os"
	"text/template"
)

const initialConfiguration = `[main]
log_level = "{{ .Main.LogLevel }}"
dev_mode = {{ .Main.DevMode }}

[images]
# native (imaging) or bild
processor = "{{ .Images.Processor }}"
# nearest, linear, catmullrom or lanczos
resample_filter = "{{ .Images.ResampleFilter }}"
jpeg_quality = {{ .Images.JPEGQuality }}
# default, fast, best or none
png_compression = "{{ .Images.PNGCompression }}"
gif_colors = {{ .Images.GIFColors }}
gif_dither = {{ .Images.GIFDither }}
# none or deflate
tiff_compression = "{{ .Images.TIFFCompression }}"
max_pixels = {{ .Images.MaxPixels }}

[editor]
default_save_format = "{{ .Editor.DefaultSaveFormat }}"
default_name = "{{ .Editor.DefaultName }}"
`

// WriteConfig writes configuration to a file. The file is created
// when it doesn't exist.
func WriteConfig(filename string) error {
	tmpl, err := template.New("cfg").Parse(initialConfiguration)
	if err != nil {
		return err
	}

	fd, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if err = tmpl.Execute(fd, Config); err != nil {
		defer fd.Close()
		return err
	}

	return fd.Close()
}
