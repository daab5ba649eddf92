package search

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyPath is returned by Resolve when no search folder was given.
	ErrEmptyPath = errors.New("search folder path is empty")
	// ErrNotExist is yielded by Walk when the search root is missing.
	ErrNotExist = errors.New("search folder does not exist")
	// ErrNotDirectory is yielded by Walk when the search root is a file.
	ErrNotDirectory = errors.New("search folder is not a directory")
)

// Resolve turns a raw command-line path into a cleaned absolute path.
// Existence is not checked here; Walk reports a missing root.
func Resolve(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyPath
	}
	return filepath.Abs(filepath.Clean(filepath.FromSlash(raw)))
}
