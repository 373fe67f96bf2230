// Package exitcodes defines the process exit codes of cruxtest.
//
//   - Success (0): every test file exited 0
//   - TestFailure (1): at least one test file failed
//   - RuntimeErr (2): the suite could not run, e.g. a missing test directory or bad configuration
package exitcodes

const (
	Success     = 0
	TestFailure = 1
	RuntimeErr  = 2
)
