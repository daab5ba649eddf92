// Package opener launches the external program that displays a matched file.
package opener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"findopen/internal/logger"
)

// ErrUnsupported is returned for files whose extension has no opener.
var ErrUnsupported = errors.New("unsupported file type")

// Kind selects which external program handles a file.
type Kind int

const (
	KindUnsupported Kind = iota
	KindImage
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindText:
		return "text"
	default:
		return "unsupported"
	}
}

var supported = map[string]Kind{
	"png":  KindImage,
	"json": KindText,
}

// Extension returns the dot-separated segment right after the first dot of
// the base name: "a.json" gives "json", "a.tar.json" gives "tar" and "a"
// gives "". Only that one segment decides the opener.
func Extension(name string) string {
	parts := strings.Split(filepath.Base(name), ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// KindOf reports how name would be opened.
func KindOf(name string) Kind {
	return supported[Extension(name)]
}

// commandBuilder is replaced in tests.
var commandBuilder = exec.CommandContext

// Options configures an Opener. Zero values use the host platform defaults.
type Options struct {
	ImageOpener []string
	TextEditor  []string

	GOOS     string
	Getenv   func(string) string
	LookPath func(string) (string, error)

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Opener runs the image viewer or text editor for a file.
type Opener struct {
	opts Options
}

func New(opts Options) *Opener {
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Opener{opts: opts}
}

// Command builds the process that opens filePath. It runs in the file's
// directory and receives the bare file name as its last argument.
func (o *Opener) Command(ctx context.Context, filePath string) (*exec.Cmd, error) {
	name := filepath.Base(filePath)
	kind := KindOf(name)

	var base []string
	switch kind {
	case KindImage:
		base = o.opts.ImageOpener
		if len(base) == 0 {
			base = defaultImageCommand(o.opts.GOOS)
		}
	case KindText:
		base = o.opts.TextEditor
		if len(base) == 0 {
			args, ok := detectEditorCommand(o.opts.GOOS, o.opts.Getenv, o.opts.LookPath)
			if !ok {
				return nil, errors.New("no text editor found; set $EDITOR or text_editor in config")
			}
			base = args
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}

	args := make([]string, 0, len(base))
	args = append(args, base[1:]...)
	args = append(args, name)

	cmd := commandBuilder(ctx, base[0], args...)
	cmd.Dir = filepath.Dir(filePath)
	cmd.Stdin = o.opts.Stdin
	cmd.Stdout = o.opts.Stdout
	cmd.Stderr = o.opts.Stderr
	return cmd, nil
}

// Open launches the opener for filePath and waits for the launch command to
// return. GUI launchers return at once; terminal editors block until closed.
func (o *Opener) Open(ctx context.Context, filePath string) error {
	cmd, err := o.Command(ctx, filePath)
	if err != nil {
		return err
	}

	logger.Named("opener").WithFields(logger.Fields{
		"kind": KindOf(filePath),
		"dir":  cmd.Dir,
		"args": strings.Join(cmd.Args, " "),
	}).Debug("launching")

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Args[0], err)
	}
	return nil
}
