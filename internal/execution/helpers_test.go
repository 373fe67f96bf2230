package execution

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"cruxtest/internal/config"
	"cruxtest/internal/domain"
)

// fakeInterpreter fails any file whose name contains "fail", hangs on "slow",
// pauses briefly on "wait" and echoes everything else.
const fakeInterpreter = `#!/bin/sh
case "$1" in
  *slow*) exec sleep 5 ;;
  *wait*) sleep 0.1 ;;
  *fail*) echo "error in $1" >&2; exit 3 ;;
esac
echo "ran $1"
exit 0
`

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	dir := t.TempDir()
	exe := filepath.Join(dir, "crux")
	require.NoError(t, os.WriteFile(exe, []byte(fakeInterpreter), 0755))

	cfg := config.New()
	cfg.ProjectPath = dir
	cfg.Executable = exe
	return cfg
}

type recordingReporter struct {
	mu      sync.Mutex
	events  []string
	results []domain.TestResult
}

func (r *recordingReporter) TestStarted(testPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "start "+testPath)
}

func (r *recordingReporter) TestOutput(output string) {}

func (r *recordingReporter) TestFinished(result domain.TestResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "end "+result.TestPath)
	r.results = append(r.results, result)
}

type countingProgress struct {
	updates  int
	finished bool
}

func (p *countingProgress) Update(completed, passed, failed int) { p.updates++ }
func (p *countingProgress) Clear()                               {}
func (p *countingProgress) Finish()                              { p.finished = true }
