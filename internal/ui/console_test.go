package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cruxtest/internal/domain"
)

func TestConsole_Markers(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)

	console.TestStarted("features/a.crux")
	console.TestOutput("hello")
	console.TestFinished(domain.TestResult{TestPath: "features/a.crux", Success: true, Duration: 12 * time.Millisecond})

	assert.Equal(t,
		"==== Running features/a.crux ====\nhello\n==== Finished features/a.crux [PASS] (12ms)\n",
		buf.String())
}

func TestConsole_Summary(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)

	console.Summary(true)
	assert.Equal(t, "✓ All Tests Ran Successfully\n", buf.String())

	buf.Reset()
	console.Summary(false)
	assert.Equal(t, "✗ Some Tests Failed\n", buf.String())
}

func TestResultLabel(t *testing.T) {
	tests := []struct {
		name   string
		result domain.TestResult
		want   string
	}{
		{name: "skipped", result: domain.SkippedResult(0, "a"), want: "[SKIP]"},
		{name: "failed", result: domain.TestResult{ExitCode: 70, Duration: time.Second}, want: "[FAIL] exit code 70 (1s)"},
		{name: "timed out", result: domain.TestResult{ExitCode: -1, TimedOut: true, Duration: 2 * time.Second}, want: "[TIMEOUT] (2s)"},
		{name: "spawn error", result: domain.TestResult{ExitCode: -1, Error: errors.New("no such file")}, want: "[ERROR] no such file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resultLabel(tt.result))
		})
	}
}
