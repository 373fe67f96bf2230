package discovery

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()
	all := []string{
		"type_methods/string_split.crux",
		"type_methods/array_push.crux",
		"builtins/string_len.crux",
		"features/closures.crux",
	}

	tests := []struct {
		name     string
		pattern  string
		expected []string
	}{
		{
			name:     "empty pattern returns all",
			pattern:  "",
			expected: all,
		},
		{
			name:     "wildcard suffix",
			pattern:  "*_push.crux",
			expected: []string{"type_methods/array_push.crux"},
		},
		{
			name:     "wildcard substring",
			pattern:  "*string*",
			expected: []string{"type_methods/string_split.crux", "builtins/string_len.crux"},
		},
		{
			name:     "plain substring",
			pattern:  "closure",
			expected: []string{"features/closures.crux"},
		},
		{
			name:     "matches base name only",
			pattern:  "builtins",
			expected: nil,
		},
		{
			name:     "malformed pattern matches nothing",
			pattern:  "[",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterByName(all, tt.pattern)
			if diff := cmp.Diff(tt.expected, result); diff != "" {
				t.Errorf("FilterByName(%q) mismatch (-want +got):\n%s", tt.pattern, diff)
			}
		})
	}
}

func TestFilter_FilterByPaths(t *testing.T) {
	filter := NewFilter()
	all := []string{"features/a.crux", "features/b.crux", "modules/c.crux"}

	got := filter.FilterByPaths(all, []string{"modules/c.crux", "./features/a.crux", "gone.crux"})
	want := []string{"features/a.crux", "modules/c.crux"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterByPaths mismatch (-want +got):\n%s", diff)
	}
}
