// Package suite runs the interpreter over the test file set: discovery,
// execution and aggregation into a single verdict.
package suite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cruxtest/internal/config"
	"cruxtest/internal/ctxlog"
	"cruxtest/internal/discovery"
	"cruxtest/internal/domain"
	"cruxtest/internal/execution"
)

// Runner is the suite runner
type Runner struct {
	config   *config.Config
	scanner  *discovery.Scanner
	filter   *discovery.Filter
	executor execution.Executor
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, scanner *discovery.Scanner, filter *discovery.Filter, executor execution.Executor) *Runner {
	return &Runner{
		config:   cfg,
		scanner:  scanner,
		filter:   filter,
		executor: executor,
	}
}

// Discover builds the test file set from the configured directories and the
// name filter. A bad directory is returned as a RuntimeError wrapping the
// *discovery.DiscoveryError.
func (r *Runner) Discover(ctx context.Context) ([]string, error) {
	tests, err := r.scanner.Scan(r.config.ProjectPath, r.config.Directories)
	if err != nil {
		return nil, NewRuntimeError(err)
	}
	discovered := len(tests)
	tests = r.filter.FilterByName(tests, r.config.Flags.NameFilter)

	ctxlog.FromContext(ctx).Debug("discovered test files",
		"directories", r.config.Directories, "found", discovered, "selected", len(tests))
	return tests, nil
}

// Run executes every test once and, when configured, re-runs the failures a
// second time. The returned run pairs Results[i] with tests[i].
func (r *Runner) Run(ctx context.Context, tests []string) (*domain.SuiteRun, error) {
	run := &domain.SuiteRun{
		ID:         uuid.New().String(),
		Executable: r.config.ExecutablePath(),
		Files:      tests,
		Workers:    r.config.WorkerCount(),
		StartedAt:  time.Now(),
	}

	results, duration, err := r.executor.Execute(ctx, tests)
	if err != nil {
		return nil, NewRuntimeError(fmt.Errorf("execute tests: %w", err))
	}
	if ctx.Err() != nil {
		return nil, NewRuntimeError(fmt.Errorf("interrupted: %w", ctx.Err()))
	}
	if len(results) != len(tests) {
		return nil, NewRuntimeError(fmt.Errorf("executor returned %d results for %d files", len(results), len(tests)))
	}
	run.Results = results
	run.Duration = duration

	if r.config.Flags.RerunFailures {
		if err := r.rerunFailures(ctx, run); err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, NewRuntimeError(fmt.Errorf("interrupted: %w", ctx.Err()))
		}
	}
	return run, nil
}

// rerunFailures runs every failed file once more and keeps the new outcome.
// A file the second pass never started keeps its original failure.
func (r *Runner) rerunFailures(ctx context.Context, run *domain.SuiteRun) error {
	paths := run.FailedPaths()
	if len(paths) == 0 {
		return nil
	}
	indexes := make([]int, 0, len(paths))
	for i, res := range run.Results {
		if res.Failed() {
			indexes = append(indexes, i)
		}
	}

	ctxlog.FromContext(ctx).Info("re-running failed test files", "count", len(paths))
	reruns, duration, err := r.executor.Execute(ctx, paths)
	if err != nil {
		return NewRuntimeError(fmt.Errorf("re-run failed tests: %w", err))
	}
	if len(reruns) != len(paths) {
		return NewRuntimeError(fmt.Errorf("executor returned %d results for %d re-runs", len(reruns), len(paths)))
	}
	for j, res := range reruns {
		if res.Skipped {
			continue
		}
		i := indexes[j]
		res.Index = i
		run.Results[i] = res
	}
	run.Duration += duration
	return nil
}

// Verdict is the aggregated outcome of a run
type Verdict struct {
	Passed   bool
	Failed   int
	Total    int
	ExitCode int
}

// Aggregate inspects every result; any failure fails the suite
func Aggregate(results []domain.TestResult) Verdict {
	v := Verdict{Total: len(results)}
	for _, res := range results {
		if res.Failed() {
			v.Failed++
		}
	}
	v.Passed = v.Failed == 0
	if !v.Passed {
		v.ExitCode = ExitCode(&TestFailureError{Failed: v.Failed, Total: v.Total})
	}
	return v
}

// Err returns nil for a passing verdict and a *TestFailureError otherwise
func (v Verdict) Err() error {
	if v.Passed {
		return nil
	}
	return &TestFailureError{Failed: v.Failed, Total: v.Total}
}
