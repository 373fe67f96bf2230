package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DiscoveryError reports a suite directory that is missing or cannot be listed
type DiscoveryError struct {
	Dir string
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("test directory %s: %v", e.Dir, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// Scanner lists test files in the suite directories
type Scanner struct{}

// NewScanner creates a new Scanner
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan returns every entry of every directory in dirs, as paths relative to
// root. Directories are not descended into and entries are not filtered.
// All directories are checked before anything is listed, so a bad directory
// fails the scan as a whole.
func (s *Scanner) Scan(root string, dirs []string) ([]string, error) {
	if root == "" {
		root = "."
	}
	root = filepath.Clean(root)

	for _, dir := range dirs {
		info, err := os.Stat(filepath.Join(root, dir))
		if err != nil {
			return nil, &DiscoveryError{Dir: dir, Err: err}
		}
		if !info.IsDir() {
			return nil, &DiscoveryError{Dir: dir, Err: errors.New("not a directory")}
		}
	}

	var testfiles []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(filepath.Join(root, dir))
		if err != nil {
			return nil, &DiscoveryError{Dir: dir, Err: err}
		}
		for _, entry := range entries {
			testfiles = append(testfiles, filepath.Join(dir, entry.Name()))
		}
	}

	return testfiles, nil
}
