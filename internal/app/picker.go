package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"codeberg.org/picedit/picedit/internal/editor"
)

// promptPicker is a file picker reading paths from a line reader.
//
// An empty answer cancels an open prompt and accepts the proposed
// name of a save prompt. A single "-" cancels both.
type promptPicker struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool

	once  sync.Once
	lines chan inputLine
}

type inputLine struct {
	text string
	err  error
}

func newPromptPicker(in io.Reader, out io.Writer) *promptPicker {
	return &promptPicker{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: isTerminal(in),
	}
}

// isTerminal returns true when r is a terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// scan reads the input in the background so a pending read
// doesn't hold up a cancelled context. The channel is closed
// after the first read error.
func (p *promptPicker) scan() {
	defer close(p.lines)
	for {
		line, err := p.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if errors.Is(err, io.EOF) && line != "" {
			// The last line doesn't need a line ending.
			p.lines <- inputLine{text: line}
			line = ""
		}
		p.lines <- inputLine{text: line, err: err}
		if err != nil {
			return
		}
	}
}

// readLine returns the next trimmed line, or the context error
// when ctx is done first.
func (p *promptPicker) readLine(ctx context.Context) (string, error) {
	p.once.Do(func() {
		p.lines = make(chan inputLine)
		go p.scan()
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

func (p *promptPicker) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.interactive {
		fmt.Fprint(p.out, prompt)
	}

	line, err := p.readLine(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil || line == "-" {
		return "", editor.ErrCancelled
	}
	return line, nil
}

func filterLabel(filter editor.Filter) string {
	exts := make([]string, len(filter.Formats))
	for i, f := range filter.Formats {
		exts[i] = "*." + f.Extension()
	}
	return strings.Join(exts, ";")
}

// ChooseOpenPath implements editor.FilePicker.
func (p *promptPicker) ChooseOpenPath(ctx context.Context, filter editor.Filter) (string, error) {
	path, err := p.ask(ctx, fmt.Sprintf("%s (%s): ", filter.Title, filterLabel(filter)))
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", editor.ErrCancelled
	}
	return path, nil
}

// ChooseSavePath implements editor.FilePicker.
func (p *promptPicker) ChooseSavePath(ctx context.Context, filter editor.Filter, defaultName string) (string, error) {
	proposed := defaultName + "." + filter.Selected.Extension()
	path, err := p.ask(ctx, fmt.Sprintf("%s (%s) [%s]: ", filter.Title, filterLabel(filter), proposed))
	if err != nil {
		return "", err
	}
	if path == "" {
		return proposed, nil
	}
	return path, nil
}

// noPicker is used by non interactive commands. Every prompt
// is cancelled.
type noPicker struct{}

func (noPicker) ChooseOpenPath(context.Context, editor.Filter) (string, error) {
	return "", editor.ErrCancelled
}

func (noPicker) ChooseSavePath(context.Context, editor.Filter, string) (string, error) {
	return "", editor.ErrCancelled
}
