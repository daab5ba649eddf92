package search

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"findopen/internal/logger"
)

const (
	maxSuggestions     = 5
	suggestionDistance = 2
)

// Match is a file whose base name contains the search text.
type Match struct {
	Name string
	Path string
}

// Dir returns the directory that holds the match.
func (m Match) Dir() string {
	return filepath.Dir(m.Path)
}

// MatchSet holds matches in the order the walk discovered them.
type MatchSet []Match

// Results holds everything a single search produced.
type Results struct {
	Text        string
	Root        string
	Matches     MatchSet
	Suggestions []string
	TotalFiles  int
	SearchTime  time.Duration
}

// Matches reports whether fileName contains searchText. The test is literal
// and case-sensitive.
func Matches(fileName, searchText string) bool {
	return strings.Contains(fileName, searchText)
}

// Collector accumulates matches for one search text.
type Collector struct {
	text        string
	matches     MatchSet
	suggestions []string
	seen        map[string]struct{}
	total       int
}

func NewCollector(text string) *Collector {
	return &Collector{
		text: text,
		seen: make(map[string]struct{}),
	}
}

// Add records path as a match when its base name contains the search text.
// Names that miss are kept as suggestions when they are close enough.
func (c *Collector) Add(path string) {
	c.total++
	name := filepath.Base(path)
	if Matches(name, c.text) {
		c.matches = append(c.matches, Match{Name: name, Path: path})
		return
	}
	c.consider(name)
}

func (c *Collector) consider(name string) {
	if len(c.suggestions) >= maxSuggestions {
		return
	}
	stem, _, _ := strings.Cut(name, ".")
	if stem == "" {
		return
	}
	if _, ok := c.seen[stem]; ok {
		return
	}
	distance := levenshtein.DistanceForStrings(
		[]rune(strings.ToLower(stem)),
		[]rune(strings.ToLower(c.text)),
		levenshtein.DefaultOptions,
	)
	if distance > suggestionDistance {
		return
	}
	c.seen[stem] = struct{}{}
	c.suggestions = append(c.suggestions, stem)
}

// Matches returns the collected matches.
func (c *Collector) Matches() MatchSet {
	return slices.Clone(c.matches)
}

// Suggestions returns near-miss name stems. It is empty once anything matched.
func (c *Collector) Suggestions() []string {
	if len(c.matches) > 0 {
		return nil
	}
	return slices.Clone(c.suggestions)
}

// Search walks root and collects every file whose name contains text.
// Any walk error, or cancellation of ctx, aborts the search.
func Search(ctx context.Context, root, text string) (Results, error) {
	log := logger.Named("search")
	startTime := time.Now()

	collector := NewCollector(text)
	for path, err := range Walk(root) {
		if err != nil {
			log.WithError(err).Debug("walk aborted")
			return Results{}, err
		}
		if err := ctx.Err(); err != nil {
			log.WithError(err).Debug("search cancelled")
			return Results{}, err
		}
		collector.Add(path)
	}

	results := Results{
		Text:        text,
		Root:        root,
		Matches:     collector.Matches(),
		Suggestions: collector.Suggestions(),
		TotalFiles:  collector.total,
		SearchTime:  time.Since(startTime),
	}
	log.WithFields(logger.Fields{
		"root":    root,
		"files":   results.TotalFiles,
		"matches": len(results.Matches),
		"elapsed": results.SearchTime,
	}).Debug("search complete")
	return results, nil
}
