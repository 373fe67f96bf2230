package domain

import "time"

// Status is the outcome of one test file
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// TestResult represents the result of executing a test file
type TestResult struct {
	Index    int           // Position of the file in the discovered test file set
	TestPath string        // Path to the test file that was executed
	ExitCode int           // Exit code of the target executable, -1 if it never ran to completion
	Success  bool          // Whether the test passed
	Skipped  bool          // Never started (fail-fast or cancellation)
	TimedOut bool          // Killed after exceeding the per-file timeout
	Output   string        // Combined stdout and stderr of the child
	Error    error         // Error if execution failed
	Duration time.Duration // Time taken to execute
}

// Status reports the result as passed, failed or skipped
func (r TestResult) Status() Status {
	switch {
	case r.Skipped:
		return StatusSkipped
	case r.Success:
		return StatusPassed
	default:
		return StatusFailed
	}
}

// Failed is true for results that count against the suite verdict
func (r TestResult) Failed() bool {
	return r.Status() == StatusFailed
}

// SkippedResult is the placeholder recorded for a file that was never run
func SkippedResult(index int, testPath string) TestResult {
	return TestResult{
		Index:    index,
		TestPath: testPath,
		ExitCode: -1,
		Skipped:  true,
	}
}
