package domain

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID            string  `json:"run_id"`
	Executable       string  `json:"executable"`
	TotalTestFiles   int     `json:"total_test_files"`
	PassedTestFiles  int     `json:"passed_test_files"`
	FailedTestFiles  int     `json:"failed_test_files"`
	SkippedTestFiles int     `json:"skipped_test_files"`
	Duration         string  `json:"duration"`
	DurationSeconds  float64 `json:"duration_seconds"`
	Workers          int     `json:"workers"`
	Timestamp        string  `json:"timestamp"`
}

// TestRecord is the stored form of a TestResult
type TestRecord struct {
	FilePath        string  `json:"file_path"`
	Status          Status  `json:"status"`
	ExitCode        int     `json:"exit_code"`
	TimedOut        bool    `json:"timed_out,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
	Output          string  `json:"output,omitempty"`
	Error           string  `json:"error,omitempty"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []TestRecord    `json:"details"`
}

// Failures returns the records that failed, in file order
func (o *TestResultsOutput) Failures() []TestRecord {
	var failed []TestRecord
	for _, rec := range o.Details {
		if rec.Status == StatusFailed {
			failed = append(failed, rec)
		}
	}
	return failed
}
