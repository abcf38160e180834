package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"codeberg.org/picedit/picedit/internal/editor"
)

func init() {
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Start an interactive editing session",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEdit,
}

const shellHelp = `Commands:
  open [path]       open an image
  format <token>    select the conversion format (png, jpg, gif, bmp, tiff, ico)
  convert [path]    save a copy of the displayed image
  saveas [path]     save a copy of the original image in its format
  save              apply the scale and overwrite the image
  zoomin, +         zoom in
  zoomout, -        zoom out
  zoom <value>      set the zoom
  slider <percent>  set the scale of both axes
  scale <x> <y>     set the scale of each axis
  info              show the current state
  help              show this help
  quit              leave
`

func runEdit(c *cobra.Command, args []string) error {
	return editSession(c.Context(), c.InOrStdin(), c.OutOrStdout(), args)
}

// editSession runs an interactive session reading commands from in.
// The first argument, if any, is opened right away.
func editSession(ctx context.Context, in io.Reader, out io.Writer, args []string) error {
	picker := newPromptPicker(in, out)
	ed, err := newEditor(ctx, picker)
	if err != nil {
		return err
	}
	defer closeEditor(ed)

	sh := &shell{ed: ed, picker: picker, out: out}
	cancel := ed.Subscribe(func(s editor.Snapshot) {
		printStatus(out, s)
	})
	defer cancel()

	if picker.interactive {
		fmt.Fprintln(out, `Type "help" for the list of commands.`)
	}
	if len(args) > 0 {
		sh.do(ctx, editor.Load{Path: args[0]})
	}
	return sh.loop(ctx)
}

// shell reads editor commands from a prompt picker's input, so
// file prompts and commands share the same stream.
type shell struct {
	ed     *editor.Editor
	picker *promptPicker
	out    io.Writer
}

func (sh *shell) loop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if sh.picker.interactive {
			fmt.Fprint(sh.out, "> ")
		}

		line, err := sh.picker.readLine(ctx)
		if line != "" && !sh.exec(ctx, line) {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// exec runs one command line. It returns false when the
// session must end.
func (sh *shell) exec(ctx context.Context, line string) bool {
	cmd, _ := splitCommand(line)
	switch cmd {
	case "quit", "exit":
		return false
	case "help":
		fmt.Fprint(sh.out, shellHelp)
		return true
	case "info":
		printStatus(sh.out, sh.ed.Snapshot())
		return true
	}

	a, err := parseAction(line)
	if err != nil {
		printError(sh.out, err)
		return true
	}
	sh.do(ctx, a)
	return true
}

// do runs an editor action and reports its failure.
func (sh *shell) do(ctx context.Context, a editor.Action) {
	err := sh.ed.Do(ctx, a)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		// The loop stops on its next iteration.
	case errors.Is(err, editor.ErrCancelled):
		fmt.Fprintln(sh.out, "cancelled")
	default:
		printError(sh.out, err)
	}
}

// splitCommand returns the first word of line and the rest of the
// line, with surrounding spaces removed.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

// parseAction returns the editor action of a command line. Paths
// are the rest of the line after the command, taken as is.
func parseAction(line string) (editor.Action, error) {
	cmd, path := splitCommand(line)
	args := strings.Fields(path)

	switch cmd {
	case "open":
		return editor.Load{Path: path}, nil
	case "convert":
		return editor.Convert{Path: path}, nil
	case "saveas":
		return editor.SaveAs{Path: path}, nil
	case "save":
		return editor.Save{}, nil
	case "zoomin", "+":
		return editor.ZoomIn{}, nil
	case "zoomout", "-":
		return editor.ZoomOut{}, nil
	case "format":
		if len(args) != 1 {
			return nil, errors.New("usage: format <token>")
		}
		return editor.SelectSaveFormat{Token: args[0]}, nil
	case "zoom":
		if len(args) != 1 {
			return nil, errors.New("usage: zoom <value>")
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid zoom %q", args[0])
		}
		return editor.SetZoom{Value: v}, nil
	case "slider":
		if len(args) != 1 {
			return nil, errors.New("usage: slider <percent>")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid slider value %q", args[0])
		}
		return editor.SetSlider{Value: v}, nil
	case "scale":
		if len(args) != 2 {
			return nil, errors.New("usage: scale <x> <y>")
		}
		x, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid scale %q", args[0])
		}
		y, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid scale %q", args[1])
		}
		return editor.SetScale{X: x, Y: y}, nil
	}

	return nil, fmt.Errorf(`unknown command %q, type "help" for help`, cmd)
}
