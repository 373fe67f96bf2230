package execution

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"cruxtest/internal/config"
	"cruxtest/internal/domain"
)

// WorkerPool runs the test file set either sequentially with live output, or
// on a bounded number of workers with each file's output buffered.
type WorkerPool struct {
	config   *config.Config
	runner   *Runner
	reporter Reporter
	progress Progress
	stdout   io.Writer
	stderr   io.Writer
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner *Runner, reporter Reporter) *WorkerPool {
	return &WorkerPool{
		config:   cfg,
		runner:   runner,
		reporter: reporter,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// SetProgress sets the progress bar used by parallel runs
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// SetOutput redirects the children's inherited output in sequential runs
func (wp *WorkerPool) SetOutput(stdout, stderr io.Writer) {
	wp.stdout = stdout
	wp.stderr = stderr
}

// Execute runs every test and returns results indexed like tests.
func (wp *WorkerPool) Execute(ctx context.Context, tests []string) ([]domain.TestResult, time.Duration, error) {
	if len(tests) == 0 {
		return nil, 0, nil
	}
	if wp.config.WorkerCount() == 1 {
		return wp.executeSequential(ctx, tests)
	}
	return wp.executeParallel(ctx, tests)
}

// executeSequential spawns and awaits each child in turn, letting it write
// straight through to the console between its markers.
func (wp *WorkerPool) executeSequential(ctx context.Context, tests []string) ([]domain.TestResult, time.Duration, error) {
	startTime := time.Now()
	results := make([]domain.TestResult, len(tests))
	failFast := wp.config.Flags.FailFast
	seenFailure := false

	for i, testPath := range tests {
		if ctx.Err() != nil || (failFast && seenFailure) {
			results[i] = domain.SkippedResult(i, testPath)
			continue
		}

		wp.reporter.TestStarted(testPath)
		result := wp.runner.Run(ctx, i, testPath, wp.stdout, wp.stderr)
		wp.reporter.TestFinished(result)

		results[i] = result
		if result.Failed() {
			seenFailure = true
		}
	}

	return results, time.Since(startTime), nil
}

type job struct {
	index int
	path  string
}

// executeParallel runs tests on the configured number of workers. Results are
// collected by this goroutine alone, which stores each one at its index and
// prints it as a single block. With fail-fast, no new file is started after
// the first failure; files already running are allowed to finish.
func (wp *WorkerPool) executeParallel(ctx context.Context, tests []string) ([]domain.TestResult, time.Duration, error) {
	feedCtx, stopFeeding := context.WithCancel(ctx)
	defer stopFeeding()

	jobs := make(chan job)
	resultsCh := make(chan domain.TestResult, len(tests))

	go func() {
		defer close(jobs)
		for i, test := range tests {
			select {
			case <-feedCtx.Done():
				return
			case jobs <- job{index: i, path: test}:
			}
		}
	}()

	startTime := time.Now()
	workerCount := wp.config.WorkerCount()
	if workerCount > len(tests) {
		workerCount = len(tests)
	}

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if feedCtx.Err() != nil {
					continue
				}
				resultsCh <- wp.runner.Run(ctx, j.index, j.path, io.Discard, io.Discard)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	results := make([]domain.TestResult, len(tests))
	filled := make([]bool, len(tests))
	var completed, passed, failed int

	for result := range resultsCh {
		results[result.Index] = result
		filled[result.Index] = true

		if wp.progress != nil {
			wp.progress.Clear()
		}
		wp.reporter.TestStarted(result.TestPath)
		wp.reporter.TestOutput(result.Output)
		wp.reporter.TestFinished(result)

		completed++
		if result.Failed() {
			failed++
			if wp.config.Flags.FailFast {
				stopFeeding()
			}
		} else {
			passed++
		}
		if wp.progress != nil {
			wp.progress.Update(completed, passed, failed)
		}
	}
	if wp.progress != nil {
		wp.progress.Finish()
	}

	for i, ok := range filled {
		if !ok {
			results[i] = domain.SkippedResult(i, tests[i])
		}
	}

	return results, time.Since(startTime), nil
}
