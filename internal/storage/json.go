package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cruxtest/internal/ctxlog"
	"cruxtest/internal/domain"
)

// Save writes the run to the configured JSON output file.
func (s *JSONStorage) Save(ctx context.Context, run *domain.SuiteRun) error {
	if err := s.SaveOutput(BuildOutput(run)); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("saved results", "path", s.cfg.GetOutputPath(), "run_id", run.ID)
	return nil
}

// Load reads the last test results from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.TestResultsOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file (e.g. after re-running selected tests).
func (s *JSONStorage) SaveOutput(output *domain.TestResultsOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// FailedPaths returns the set of files that failed in the last stored run.
// A missing results file yields an empty set.
func (s *JSONStorage) FailedPaths() (map[string]struct{}, error) {
	output, err := s.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]struct{}{}, nil
		}
		return nil, err
	}
	failed := make(map[string]struct{})
	for _, rec := range output.Failures() {
		failed[filepath.Clean(rec.FilePath)] = struct{}{}
	}
	return failed, nil
}
