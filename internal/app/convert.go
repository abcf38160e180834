package app

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"codeberg.org/picedit/picedit/internal/editor"
)

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(scaleCmd)
	rootCmd.AddCommand(infoCmd)

	convertCmd.Flags().StringVarP(
		&convertFlags.format, "format", "f",
		"", "Format used when the destination has no known extension",
	)
	convertCmd.Flags().BoolVar(
		&convertFlags.verbatim, "verbatim", false,
		"Save the original content in its original format",
	)
}

var convertFlags struct {
	format   string
	verbatim bool
}

var convertCmd = &cobra.Command{
	Use:   "convert <source> <destination>",
	Short: "Convert an image to the format of the destination",
	Args:  cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		return convertFile(c.Context(), args[0], args[1], convertFlags.format, convertFlags.verbatim)
	},
}

var scaleCmd = &cobra.Command{
	Use:   "scale <file> <percent>",
	Short: "Scale an image in place",
	Args:  cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		a, err := parseAction("slider " + args[1])
		if err != nil {
			return err
		}
		return scaleFile(c.Context(), args[0], a)
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show image information",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		s, err := fileInfo(c.Context(), args[0])
		if err != nil {
			return err
		}
		printStatus(c.OutOrStdout(), s)
		return nil
	},
}

// convertFile loads src and writes it to dst. When verbatim is true,
// the original content is saved in its original format.
func convertFile(ctx context.Context, src, dst, format string, verbatim bool) error {
	ed, err := newEditor(ctx, noPicker{})
	if err != nil {
		return err
	}
	defer closeEditor(ed)

	actions := []editor.Action{editor.Load{Path: src}}
	if format != "" {
		actions = append(actions, editor.SelectSaveFormat{Token: format})
	}
	if verbatim {
		actions = append(actions, editor.SaveAs{Path: dst})
	} else {
		actions = append(actions, editor.Convert{Path: dst})
	}

	if err = run(ctx, ed, actions...); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"src": src,
		"dst": dst,
	}).Info("image converted")
	return nil
}

// scaleFile applies a scale action to an image and overwrites it.
func scaleFile(ctx context.Context, name string, scale editor.Action) error {
	ed, err := newEditor(ctx, noPicker{})
	if err != nil {
		return err
	}
	defer closeEditor(ed)

	if err = run(ctx, ed, editor.Load{Path: name}, scale, editor.Save{}); err != nil {
		return err
	}

	s := ed.Snapshot()
	log.WithFields(log.Fields{
		"path":   name,
		"width":  s.Width,
		"height": s.Height,
	}).Info("image scaled")
	return nil
}

// fileInfo returns a snapshot of a session with the given file loaded.
func fileInfo(ctx context.Context, name string) (editor.Snapshot, error) {
	ed, err := newEditor(ctx, noPicker{})
	if err != nil {
		return editor.Snapshot{}, err
	}
	defer closeEditor(ed)

	if err = ed.Do(ctx, editor.Load{Path: name}); err != nil {
		return editor.Snapshot{}, err
	}
	return ed.Snapshot(), nil
}
