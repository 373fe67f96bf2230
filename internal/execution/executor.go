package execution

import (
	"context"
	"time"

	"cruxtest/internal/domain"
)

// Executor executes tests and returns one result per test, in test order
type Executor interface {
	Execute(ctx context.Context, tests []string) ([]domain.TestResult, time.Duration, error)
}

// Reporter receives per-file console events. Calls for one file are never
// interleaved with calls for another.
type Reporter interface {
	TestStarted(testPath string)
	TestOutput(output string)
	TestFinished(result domain.TestResult)
}

// Progress tracks completed files in parallel runs
type Progress interface {
	Update(completed, passed, failed int)
	Clear()
	Finish()
}
