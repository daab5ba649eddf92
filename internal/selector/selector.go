// Package selector decides what to open once a search has finished: nothing,
// the only match, or the match the user picks from a numbered list.
package selector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"findopen/internal/logger"
	"findopen/internal/messages"
	"findopen/internal/opener"
	"findopen/internal/search"
)

var (
	ErrNoMatches          = errors.New("no matching files")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C")).
			Italic(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))
)

// Opener opens a single file.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// PickFunc is an interactive chooser used instead of the numeric prompt.
// ok is false when the user backed out.
type PickFunc func(ctx context.Context, title string, matches search.MatchSet) (index int, ok bool, err error)

type Options struct {
	In       io.Reader
	Out      io.Writer
	Opener   Opener
	Messages messages.Catalog
	// Picker replaces the numeric prompt when set.
	Picker PickFunc
}

type Selector struct {
	in     *bufio.Reader
	out    io.Writer
	opener Opener
	msgs   messages.Catalog
	pick   PickFunc
}

func New(opts Options) *Selector {
	return &Selector{
		in:     bufio.NewReader(opts.In),
		out:    opts.Out,
		opener: opts.Opener,
		msgs:   opts.Messages,
		pick:   opts.Picker,
	}
}

// reportedError marks errors whose message the selector already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Reported reports whether err was already shown to the user.
func Reported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// Run opens the only match, or asks which one to open when there are
// several. Every failure has been printed by the time it is returned.
func (s *Selector) Run(ctx context.Context, results search.Results) error {
	matches := results.Matches

	switch len(matches) {
	case 0:
		s.fail(messages.NothingFound)
		if len(results.Suggestions) > 0 {
			s.println(suggestionStyle.Render(s.msgs.Get(messages.Suggestions)))
			for _, suggestion := range results.Suggestions {
				s.println("  " + suggestionStyle.Render(suggestion))
			}
		}
		return &reportedError{ErrNoMatches}

	case 1:
		s.println(statusStyle.Render(s.msgs.Get(messages.FoundOne)))
		s.println(statusStyle.Render(s.msgs.Get(messages.OpeningAutomatically)))
		return s.open(ctx, matches[0])
	}

	title := s.msgs.Get(messages.FoundMany, len(matches))
	s.println(statusStyle.Render(title))

	index, err := s.choose(ctx, title, matches)
	if err != nil {
		return err
	}
	logger.Named("selector").WithField("index", index).Debug("selected")
	return s.open(ctx, matches[index])
}

func (s *Selector) choose(ctx context.Context, title string, matches search.MatchSet) (int, error) {
	if s.pick != nil {
		index, ok, err := s.pick(ctx, title, matches)
		if err != nil {
			return 0, err
		}
		if !ok {
			s.fail(messages.SelectionCancelled)
			return 0, &reportedError{ErrSelectionCancelled}
		}
		return index, nil
	}

	for i, line := range Listing(matches) {
		s.println(fmt.Sprintf("%d: %s", i, line))
	}
	s.println("")
	fmt.Fprint(s.out, promptStyle.Render(s.msgs.Get(messages.Prompt)))

	line, err := s.readLine(ctx)
	if err != nil {
		return 0, err
	}

	index, ok := ParseIndex(line, len(matches))
	if !ok {
		s.fail(messages.InvalidNumber)
		return 0, &reportedError{fmt.Errorf("%w: %q", ErrInvalidSelection, strings.TrimRight(line, "\r\n"))}
	}
	return index, nil
}

// readLine reads one line of input, giving up when ctx is cancelled. The
// pending read is abandoned; the process is about to exit in that case.
func (s *Selector) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := s.in.ReadString('\n')
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil && !errors.Is(r.err, io.EOF) {
			return "", fmt.Errorf("read selection: %w", r.err)
		}
		return r.line, nil
	}
}

func (s *Selector) open(ctx context.Context, match search.Match) error {
	err := s.opener.Open(ctx, match.Path)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, opener.ErrUnsupported):
		s.fail(messages.Unsupported)
	default:
		s.fail(messages.OpenFailed, err)
	}
	return &reportedError{err}
}

// Listing renders each match as its parent directory name joined with the
// file name, in match order.
func Listing(matches search.MatchSet) []string {
	lines := make([]string, len(matches))
	for i, m := range matches {
		lines[i] = filepath.Join(filepath.Base(m.Dir()), m.Name)
	}
	return lines
}

// ParseIndex accepts only the plain decimal form of an index below n, with
// an optional trailing line break.
func ParseIndex(line string, n int) (int, bool) {
	line = strings.TrimRight(line, "\r\n")
	index, err := strconv.Atoi(line)
	if err != nil || strconv.Itoa(index) != line {
		return 0, false
	}
	if index < 0 || index >= n {
		return 0, false
	}
	return index, true
}

func (s *Selector) fail(key messages.Key, args ...any) {
	s.println(errorStyle.Render(s.msgs.Get(key, args...)))
}

func (s *Selector) println(line string) {
	fmt.Fprintln(s.out, line)
}
