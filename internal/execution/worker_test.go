package execution

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cruxtest/internal/domain"
)

func TestWorkerPool_Sequential(t *testing.T) {
	cfg := newTestConfig(t)
	reporter := &recordingReporter{}
	pool := NewWorkerPool(cfg, NewRunner(cfg), reporter)
	var out bytes.Buffer
	pool.SetOutput(&out, &out)

	tests := []string{"features/a.crux", "features/b_fail.crux", "modules/c.crux"}
	results, _, err := pool.Execute(context.Background(), tests)
	require.NoError(t, err)

	require.Len(t, results, len(tests))
	for i, result := range results {
		assert.Equal(t, i, result.Index)
		assert.Equal(t, tests[i], result.TestPath)
	}
	assert.Equal(t, []domain.Status{domain.StatusPassed, domain.StatusFailed, domain.StatusPassed},
		[]domain.Status{results[0].Status(), results[1].Status(), results[2].Status()})

	want := []string{
		"start features/a.crux", "end features/a.crux",
		"start features/b_fail.crux", "end features/b_fail.crux",
		"start modules/c.crux", "end modules/c.crux",
	}
	if diff := cmp.Diff(want, reporter.events); diff != "" {
		t.Errorf("reporter events mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, out.String(), "ran modules/c.crux")
}

func TestWorkerPool_SequentialFailFast(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Flags.FailFast = true
	reporter := &recordingReporter{}
	pool := NewWorkerPool(cfg, NewRunner(cfg), reporter)
	pool.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})

	tests := []string{"a.crux", "b_fail.crux", "c.crux", "d.crux"}
	results, _, err := pool.Execute(context.Background(), tests)
	require.NoError(t, err)

	require.Len(t, results, 4)
	assert.Equal(t, domain.StatusPassed, results[0].Status())
	assert.Equal(t, domain.StatusFailed, results[1].Status())
	assert.Equal(t, domain.StatusSkipped, results[2].Status())
	assert.Equal(t, domain.StatusSkipped, results[3].Status())
	assert.Equal(t, "d.crux", results[3].TestPath)
	assert.Len(t, reporter.events, 4, "skipped files get no markers")
}

func TestWorkerPool_Parallel(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Workers = 4
	reporter := &recordingReporter{}
	progress := &countingProgress{}
	pool := NewWorkerPool(cfg, NewRunner(cfg), reporter)
	pool.SetProgress(progress)

	var tests []string
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("features/t%02d.crux", i)
		if i%5 == 0 {
			name = fmt.Sprintf("features/t%02d_fail.crux", i)
		}
		tests = append(tests, name)
	}

	results, _, err := pool.Execute(context.Background(), tests)
	require.NoError(t, err)

	require.Len(t, results, len(tests))
	for i, result := range results {
		assert.Equal(t, tests[i], result.TestPath, "result %d is paired with its file", i)
		assert.Equal(t, i%5 == 0, result.Failed())
		assert.Equal(t, "ran "+tests[i]+"\n", result.Output, "output is buffered per file")
	}

	// Each file's markers are emitted back to back.
	require.Len(t, reporter.events, 2*len(tests))
	for i := 0; i < len(reporter.events); i += 2 {
		assert.Equal(t, reporter.events[i][len("start "):], reporter.events[i+1][len("end "):])
	}
	assert.Equal(t, len(tests), progress.updates)
	assert.True(t, progress.finished)
}

func TestWorkerPool_ParallelFailFast(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Workers = 2
	cfg.Flags.FailFast = true
	pool := NewWorkerPool(cfg, NewRunner(cfg), &recordingReporter{})

	tests := []string{"a_fail.crux"}
	for i := 0; i < 20; i++ {
		tests = append(tests, fmt.Sprintf("t%02d_wait.crux", i))
	}

	results, _, err := pool.Execute(context.Background(), tests)
	require.NoError(t, err)

	require.Len(t, results, len(tests))
	assert.True(t, results[0].Failed())
	skipped := 0
	for i, result := range results {
		assert.Equal(t, tests[i], result.TestPath)
		if result.Skipped {
			skipped++
		}
	}
	assert.Greater(t, skipped, 0, "fail-fast stops feeding new files")
}

func TestWorkerPool_Cancelled(t *testing.T) {
	cfg := newTestConfig(t)
	pool := NewWorkerPool(cfg, NewRunner(cfg), &recordingReporter{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, _, err := pool.Execute(ctx, []string{"a.crux", "b.crux"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.True(t, result.Skipped)
	}
}

func TestWorkerPool_Empty(t *testing.T) {
	cfg := newTestConfig(t)
	pool := NewWorkerPool(cfg, NewRunner(cfg), &recordingReporter{})

	results, duration, err := pool.Execute(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, duration)
}
