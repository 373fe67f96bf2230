package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters test files by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the tests whose base name matches pattern.
// Supports patterns like "*_test.crux" or "*string*"; a pattern without
// wildcards matches as a substring.
func (f *Filter) FilterByName(tests []string, pattern string) []string {
	if pattern == "" {
		return tests
	}

	var filtered []string
	for _, test := range tests {
		if matchName(pattern, filepath.Base(test)) {
			filtered = append(filtered, test)
		}
	}
	return filtered
}

// FilterByPaths keeps the tests present in keep, preserving test order
func (f *Filter) FilterByPaths(tests []string, keep []string) []string {
	set := make(map[string]struct{}, len(keep))
	for _, p := range keep {
		set[filepath.Clean(p)] = struct{}{}
	}

	var filtered []string
	for _, test := range tests {
		if _, ok := set[filepath.Clean(test)]; ok {
			filtered = append(filtered, test)
		}
	}
	return filtered
}

func matchName(pattern, name string) bool {
	if !strings.ContainsAny(pattern, "*?[") {
		return strings.Contains(name, pattern)
	}
	// A malformed pattern matches nothing.
	matched, err := filepath.Match(pattern, name)
	return err == nil && matched
}
