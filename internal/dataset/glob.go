package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"chronoline/internal/item"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoFiles is returned when no pattern matched a file.
var ErrNoFiles = errors.New("no dataset files matched")

// Expand resolves glob patterns (with ** support) to a sorted, de-duplicated file list.
// A pattern without glob characters is kept as a literal path.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			matches = []string{filepath.FromSlash(pattern)}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoFiles, patterns)
	}
	sort.Strings(files)
	return files, nil
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// LoadAll reads every file matched by patterns and concatenates their records in file
// order.
func LoadAll(patterns []string) (item.Dataset, []string, error) {
	files, err := Expand(patterns)
	if err != nil {
		return item.Dataset{}, nil, err
	}
	var all item.Dataset
	for _, f := range files {
		ds, err := Load(f)
		if err != nil {
			return item.Dataset{}, nil, err
		}
		all.People = append(all.People, ds.People...)
		all.Points = append(all.Points, ds.Points...)
		all.Periods = append(all.Periods, ds.Periods...)
	}
	return all, files, nil
}
