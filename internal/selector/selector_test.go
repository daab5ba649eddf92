package selector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findopen/internal/messages"
	"findopen/internal/opener"
	"findopen/internal/search"
)

type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) Open(_ context.Context, path string) error {
	if f.err != nil {
		return f.err
	}
	f.opened = append(f.opened, path)
	return nil
}

type stdinRecorder struct {
	strings.Reader
	reads int
}

func (r *stdinRecorder) Read(p []byte) (int, error) {
	r.reads++
	return r.Reader.Read(p)
}

func newTestSelector(input string, op *fakeOpener) (*Selector, *bytes.Buffer, *stdinRecorder) {
	out := &bytes.Buffer{}
	in := &stdinRecorder{Reader: *strings.NewReader(input)}
	s := New(Options{
		In:       in,
		Out:      out,
		Opener:   op,
		Messages: messages.New(messages.LanguageEnglish),
	})
	return s, out, in
}

func matchesOf(paths ...string) search.Results {
	var set search.MatchSet
	for _, p := range paths {
		p = filepath.FromSlash(p)
		set = append(set, search.Match{Name: filepath.Base(p), Path: p})
	}
	return search.Results{Matches: set}
}

func TestRunNoMatches(t *testing.T) {
	op := &fakeOpener{}
	s, out, in := newTestSelector("", op)

	err := s.Run(context.Background(), search.Results{Suggestions: []string{"confg"}})
	require.ErrorIs(t, err, ErrNoMatches)
	assert.True(t, Reported(err))
	assert.Empty(t, op.opened)
	assert.Zero(t, in.reads)
	assert.Contains(t, out.String(), "Nothing found")
	assert.Contains(t, out.String(), "Did you mean:")
	assert.Contains(t, out.String(), "  confg")
}

func TestRunNoMatchesWithoutSuggestions(t *testing.T) {
	s, out, _ := newTestSelector("", &fakeOpener{})

	err := s.Run(context.Background(), search.Results{})
	require.ErrorIs(t, err, ErrNoMatches)
	assert.NotContains(t, out.String(), "Did you mean")
}

func TestRunSingleMatchOpensWithoutPrompt(t *testing.T) {
	op := &fakeOpener{}
	s, out, in := newTestSelector("1\n", op)

	err := s.Run(context.Background(), matchesOf("/tmp/only.png"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.FromSlash("/tmp/only.png")}, op.opened)
	assert.Zero(t, in.reads, "stdin must not be read for a single match")
	assert.Contains(t, out.String(), "Found 1 file.")
	assert.Contains(t, out.String(), "opening it automatically")
	assert.NotContains(t, out.String(), "Enter the number")
}

func TestRunManyMatchesListing(t *testing.T) {
	op := &fakeOpener{}
	s, out, _ := newTestSelector("1\n", op)

	results := matchesOf("/root/a/x.json", "/root/a/b/x2.json", "/root/c/x3.json")
	require.NoError(t, s.Run(context.Background(), results))

	var listed []string
	for _, line := range strings.Split(out.String(), "\n") {
		for i := range results.Matches {
			if strings.HasPrefix(line, fmt.Sprintf("%d: ", i)) {
				listed = append(listed, line)
			}
		}
	}
	assert.Equal(t, []string{
		"0: " + filepath.Join("a", "x.json"),
		"1: " + filepath.Join("b", "x2.json"),
		"2: " + filepath.Join("c", "x3.json"),
	}, listed)
	assert.Contains(t, out.String(), "Found 3 files.")
	assert.Contains(t, out.String(), "Enter the number of the file to open: ")
	assert.Equal(t, []string{filepath.FromSlash("/root/a/b/x2.json")}, op.opened)
}

func TestRunSelectionWithoutTrailingNewline(t *testing.T) {
	op := &fakeOpener{}
	s, _, _ := newTestSelector("0", op)

	require.NoError(t, s.Run(context.Background(), matchesOf("/r/a.json", "/r/b.json")))
	assert.Equal(t, []string{filepath.FromSlash("/r/a.json")}, op.opened)
}

func TestRunWindowsLineEnding(t *testing.T) {
	op := &fakeOpener{}
	s, _, _ := newTestSelector("1\r\n", op)

	require.NoError(t, s.Run(context.Background(), matchesOf("/r/a.json", "/r/b.json")))
	assert.Equal(t, []string{filepath.FromSlash("/r/b.json")}, op.opened)
}

func TestRunInvalidSelection(t *testing.T) {
	for _, input := range []string{"", "\n", "abc\n", "-1\n", "2\n", "99\n", "01\n", " 1\n", "+1\n", "1.0\n"} {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			op := &fakeOpener{}
			s, out, _ := newTestSelector(input, op)

			err := s.Run(context.Background(), matchesOf("/r/a.json", "/r/b.json"))
			require.ErrorIs(t, err, ErrInvalidSelection)
			assert.True(t, Reported(err))
			assert.Empty(t, op.opened)
			assert.Contains(t, out.String(), "Invalid number")
		})
	}
}

func TestRunUnsupportedIsSameOnBothPaths(t *testing.T) {
	unsupported := fmt.Errorf("%w: notes.txt", opener.ErrUnsupported)

	t.Run("auto open", func(t *testing.T) {
		s, out, _ := newTestSelector("", &fakeOpener{err: unsupported})
		err := s.Run(context.Background(), matchesOf("/r/notes.txt"))
		require.ErrorIs(t, err, opener.ErrUnsupported)
		assert.True(t, Reported(err))
		assert.Contains(t, out.String(), "Unsupported file type.")
	})

	t.Run("prompted", func(t *testing.T) {
		s, out, _ := newTestSelector("0\n", &fakeOpener{err: unsupported})
		err := s.Run(context.Background(), matchesOf("/r/notes.txt", "/r/notes2.txt"))
		require.ErrorIs(t, err, opener.ErrUnsupported)
		assert.True(t, Reported(err))
		assert.Contains(t, out.String(), "Unsupported file type.")
	})
}

func TestRunOpenFailure(t *testing.T) {
	s, out, _ := newTestSelector("", &fakeOpener{err: errors.New("xdg-open: exit status 4")})

	err := s.Run(context.Background(), matchesOf("/r/only.png"))
	require.Error(t, err)
	assert.True(t, Reported(err))
	assert.Contains(t, out.String(), "Could not open the file: xdg-open: exit status 4")
}

func TestRunUsesPicker(t *testing.T) {
	op := &fakeOpener{}
	out := &bytes.Buffer{}
	var gotTitle string
	s := New(Options{
		In:       strings.NewReader(""),
		Out:      out,
		Opener:   op,
		Messages: messages.New(messages.LanguageEnglish),
		Picker: func(_ context.Context, title string, matches search.MatchSet) (int, bool, error) {
			gotTitle = title
			return len(matches) - 1, true, nil
		},
	})

	require.NoError(t, s.Run(context.Background(), matchesOf("/r/a.json", "/r/b.json")))
	assert.Equal(t, "Found 2 files.", gotTitle)
	assert.Equal(t, []string{filepath.FromSlash("/r/b.json")}, op.opened)
	assert.NotContains(t, out.String(), "Enter the number")
}

func TestRunPickerCancelled(t *testing.T) {
	op := &fakeOpener{}
	out := &bytes.Buffer{}
	s := New(Options{
		In:       strings.NewReader(""),
		Out:      out,
		Opener:   op,
		Messages: messages.New(messages.LanguageEnglish),
		Picker: func(context.Context, string, search.MatchSet) (int, bool, error) {
			return 0, false, nil
		},
	})

	err := s.Run(context.Background(), matchesOf("/r/a.json", "/r/b.json"))
	require.ErrorIs(t, err, ErrSelectionCancelled)
	assert.Empty(t, op.opened)
	assert.Contains(t, out.String(), "Cancelled")
}

func TestRunJapaneseMessages(t *testing.T) {
	out := &bytes.Buffer{}
	s := New(Options{
		In:       strings.NewReader("5\n"),
		Out:      out,
		Opener:   &fakeOpener{},
		Messages: messages.New(messages.LanguageJapanese),
	})

	err := s.Run(context.Background(), matchesOf("/r/a.json", "/r/b.json"))
	require.ErrorIs(t, err, ErrInvalidSelection)
	assert.Contains(t, out.String(), "2個のファイルが見つかりました。")
	assert.Contains(t, out.String(), "無効な番号です")
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		line string
		n    int
		want int
		ok   bool
	}{
		{"0", 2, 0, true},
		{"1\n", 2, 1, true},
		{"10\r\n", 11, 10, true},
		{"2", 2, 0, false},
		{"-0", 2, 0, false},
		{"007", 10, 0, false},
		{"", 2, 0, false},
		{"one", 2, 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseIndex(tt.line, tt.n)
		assert.Equal(t, tt.ok, ok, "ParseIndex(%q, %d)", tt.line, tt.n)
		assert.Equal(t, tt.want, got, "ParseIndex(%q, %d)", tt.line, tt.n)
	}
}

func TestRunPromptGivesUpOnCancel(t *testing.T) {
	op := &fakeOpener{}
	in, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	out := &bytes.Buffer{}
	s := New(Options{
		In:       in,
		Out:      out,
		Opener:   op,
		Messages: messages.New(messages.LanguageEnglish),
	})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, matchesOf("/r/a.json", "/r/b.json")) }()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, Reported(err))
		assert.Empty(t, op.opened)
	case <-time.After(5 * time.Second):
		t.Fatal("prompt still waiting for input after cancel")
	}
}

func TestRunOpenInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, out, _ := newTestSelector("", &fakeOpener{err: errors.New("signal: killed")})
	err := s.Run(ctx, matchesOf("/r/only.png"))
	require.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, out.String(), "Could not open the file")
}
