package storage

import (
	"context"
	"errors"
	"time"

	"github.com/acarl005/stripansi"

	"cruxtest/internal/config"
	"cruxtest/internal/domain"
)

// Storage persists a finished suite run
type Storage interface {
	Save(ctx context.Context, run *domain.SuiteRun) error
}

// Multi saves a run to every store, reporting all failures together
type Multi []Storage

// Save implements Storage
func (m Multi) Save(ctx context.Context, run *domain.SuiteRun) error {
	var errs []error
	for _, s := range m {
		if err := s.Save(ctx, run); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// BuildOutput converts a run into the stored document
func BuildOutput(run *domain.SuiteRun) *domain.TestResultsOutput {
	stats := run.Stats()
	output := &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunID:            run.ID,
			Executable:       run.Executable,
			TotalTestFiles:   stats.Total,
			PassedTestFiles:  stats.Passed,
			FailedTestFiles:  stats.Failed,
			SkippedTestFiles: stats.Skipped,
			Duration:         run.Duration.String(),
			DurationSeconds:  run.Duration.Seconds(),
			Workers:          run.Workers,
			Timestamp:        run.StartedAt.Format(time.RFC3339),
		},
		Details: make([]domain.TestRecord, 0, len(run.Results)),
	}
	for _, res := range run.Results {
		output.Details = append(output.Details, RecordFromResult(res))
	}
	return output
}

// RecordFromResult converts a result into its stored form, without terminal colour codes
func RecordFromResult(res domain.TestResult) domain.TestRecord {
	rec := domain.TestRecord{
		FilePath:        res.TestPath,
		Status:          res.Status(),
		ExitCode:        res.ExitCode,
		TimedOut:        res.TimedOut,
		DurationSeconds: res.Duration.Seconds(),
		Output:          stripansi.Strip(res.Output),
	}
	if res.Error != nil {
		rec.Error = res.Error.Error()
	}
	return rec
}
