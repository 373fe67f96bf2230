package domain

import "time"

// SuiteRun is one pass of the target executable over the test file set.
// Results[i] always belongs to Files[i].
type SuiteRun struct {
	ID         string
	Executable string
	Files      []string
	Results    []TestResult
	Workers    int
	StartedAt  time.Time
	Duration   time.Duration
}

// Stats counts results by status
type Stats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// Stats tallies the run's results
func (r *SuiteRun) Stats() Stats {
	s := Stats{Total: len(r.Results)}
	for _, res := range r.Results {
		switch res.Status() {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// FailedPaths returns the paths of failed results in file order
func (r *SuiteRun) FailedPaths() []string {
	var paths []string
	for _, res := range r.Results {
		if res.Failed() {
			paths = append(paths, res.TestPath)
		}
	}
	return paths
}
