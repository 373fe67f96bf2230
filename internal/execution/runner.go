package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"cruxtest/internal/config"
	"cruxtest/internal/ctxlog"
	"cruxtest/internal/domain"
)

// SpawnError reports that the target executable could not be started for a test file
type SpawnError struct {
	TestPath   string
	Executable string
	Err        error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s %s: %v", e.Executable, e.TestPath, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Runner executes the target executable against a single test file
type Runner struct {
	config *config.Config
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg}
}

// Run executes the target for one test file. The child's stdout and stderr are
// copied to the given writers as they are produced and also captured into the
// result. A child that cannot be started yields a failed result carrying a
// *SpawnError rather than an error return.
func (r *Runner) Run(ctx context.Context, index int, testPath string, stdout, stderr io.Writer) domain.TestResult {
	executable := r.config.ExecutablePath()
	logger := ctxlog.FromContext(ctx)

	runCtx := ctx
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	captured := &lockedBuffer{}
	outWriter := io.MultiWriter(stdout, captured)
	errWriter := outWriter
	if stdout != stderr {
		errWriter = io.MultiWriter(stderr, captured)
	}

	cmd := exec.CommandContext(runCtx, executable, testPath)
	cmd.Env = os.Environ()
	cmd.Dir = r.config.ProjectPath
	cmd.Stdout = outWriter
	cmd.Stderr = errWriter
	// Grandchildren can keep the output pipes open after the child is killed.
	cmd.WaitDelay = time.Second

	logger.Debug("spawning test", "executable", executable, "file", testPath)
	start := time.Now()
	err := cmd.Run()

	result := domain.TestResult{
		Index:    index,
		TestPath: testPath,
		Success:  err == nil,
		Output:   captured.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		result.Error = err
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			result.TimedOut = true
			result.Error = fmt.Errorf("timed out after %s: %w", r.config.Timeout, err)
		}
	case errors.Is(err, exec.ErrWaitDelay):
		// Exited 0 but left a descendant holding its output open.
		result.Success = true
		result.ExitCode = 0
	case runCtx.Err() != nil:
		// Cancelled or timed out before the child could report an exit status.
		result.ExitCode = -1
		result.TimedOut = errors.Is(runCtx.Err(), context.DeadlineExceeded)
		result.Error = fmt.Errorf("interrupted: %w", err)
	default:
		result.ExitCode = -1
		result.Error = &SpawnError{TestPath: testPath, Executable: executable, Err: err}
	}

	logger.Debug("test finished", "file", testPath, "exit_code", result.ExitCode, "duration", result.Duration)
	return result
}

// lockedBuffer lets stdout and stderr copiers share one capture buffer
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
