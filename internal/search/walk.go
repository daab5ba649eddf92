package search

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// Walk returns a depth-first sequence of every non-directory path under root.
//
// Within a directory, files are yielded in name order before any
// subdirectory is entered, and subdirectories are then walked in name order.
// The sequence is therefore the same on every platform. Symlinks are
// followed; a link back into a directory that is already being walked is
// skipped. The first stat or listing error is yielded with an empty path and
// ends the sequence. Each range over the returned sequence starts a fresh
// walk.
func Walk(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		info, err := os.Stat(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				yield("", fmt.Errorf("%w: %s", ErrNotExist, root))
				return
			}
			yield("", err)
			return
		}
		if !info.IsDir() {
			yield("", fmt.Errorf("%w: %s", ErrNotDirectory, root))
			return
		}

		w := &walker{yield: yield, active: make(map[string]struct{})}
		w.dir(root)
	}
}

type walker struct {
	yield func(string, error) bool
	// resolved paths of the directories on the current descent
	active map[string]struct{}
}

// dir walks one directory and reports whether the walk should continue.
func (w *walker) dir(path string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		w.yield("", err)
		return false
	}
	if _, ok := w.active[resolved]; ok {
		return true
	}
	w.active[resolved] = struct{}{}
	defer delete(w.active, resolved)

	entries, err := os.ReadDir(path)
	if err != nil {
		w.yield("", err)
		return false
	}

	var subdirs []string
	for _, entry := range entries {
		full := filepath.Join(path, entry.Name())

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(full)
			if err != nil {
				w.yield("", err)
				return false
			}
			isDir = info.IsDir()
		}

		if isDir {
			subdirs = append(subdirs, full)
			continue
		}
		if !w.yield(full, nil) {
			return false
		}
	}

	for _, sub := range subdirs {
		if !w.dir(sub) {
			return false
		}
	}
	return true
}
