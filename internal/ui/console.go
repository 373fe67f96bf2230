package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"cruxtest/internal/domain"
)

const (
	// SuccessSummary is printed when every test file exited 0
	SuccessSummary = "All Tests Ran Successfully"
	// FailureSummary is printed when at least one test file failed
	FailureSummary = "Some Tests Failed"
)

// Console prints the per-file markers and the final verdict
type Console struct {
	out io.Writer
}

// NewConsole creates a Console writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// TestStarted prints the start marker for a file
func (c *Console) TestStarted(testPath string) {
	fmt.Fprintln(c.out, color.CyanString("==== Running %s ====", testPath))
}

// TestOutput prints a child's buffered output
func (c *Console) TestOutput(output string) {
	if output == "" {
		return
	}
	fmt.Fprint(c.out, output)
	if !strings.HasSuffix(output, "\n") {
		fmt.Fprintln(c.out)
	}
}

// TestFinished prints the end marker for a file with its outcome
func (c *Console) TestFinished(result domain.TestResult) {
	fmt.Fprintf(c.out, "%s %s\n",
		color.CyanString("==== Finished %s", result.TestPath),
		resultLabel(result))
}

// Summary prints the one-line suite verdict
func (c *Console) Summary(passed bool) {
	if passed {
		fmt.Fprintln(c.out, color.GreenString("✓ %s", SuccessSummary))
		return
	}
	fmt.Fprintln(c.out, color.RedString("✗ %s", FailureSummary))
}

func resultLabel(result domain.TestResult) string {
	duration := result.Duration.Round(time.Millisecond)
	switch {
	case result.Skipped:
		return color.YellowString("[SKIP]")
	case result.Success:
		return color.GreenString("[PASS] (%s)", duration)
	case result.TimedOut:
		return color.RedString("[TIMEOUT] (%s)", duration)
	case result.ExitCode == -1 && result.Error != nil:
		return color.RedString("[ERROR] %v", result.Error)
	default:
		return color.RedString("[FAIL] exit code %d (%s)", result.ExitCode, duration)
	}
}
