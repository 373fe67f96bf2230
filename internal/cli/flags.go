package cli

import (
	"time"

	"github.com/spf13/pflag"

	"cruxtest/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	ProjectPath   string
	ConfigFile    string
	Executable    string
	Directories   []string
	Workers       int
	WorkersSet    bool
	Timeout       time.Duration
	TimeoutSet    bool
	NameFilter    string
	ResultsDSN    string
	FailFast      bool
	OnlyFailed    bool
	RerunFailures bool
	Stats         bool
	Progress      bool
	Verbose       bool
}

// BindCommon registers the flags shared by every command
func (f *Flags) BindCommon(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ProjectPath, "project", "p", config.DefaultProjectPath, "Directory containing the test directories")
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "Path to a cruxtest.yaml config file (default: <project>/"+config.DefaultConfigFile+")")
	fs.StringVarP(&f.Executable, "executable", "e", "", "Interpreter to run each test file with (default "+config.DefaultExecutable+")")
	fs.StringSliceVarP(&f.Directories, "dir", "d", nil, "Test directory to scan, repeatable (default type_methods,builtins,features,modules)")
	fs.StringVarP(&f.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g. '*string*')")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "Enable debug logging on stderr")
}

// BindRun registers the flags of the run command
func (f *Flags) BindRun(fs *pflag.FlagSet) {
	fs.IntVarP(&f.Workers, "workers", "w", 0, "Number of test files to run at once (default 1, sequential)")
	fs.DurationVarP(&f.Timeout, "timeout", "t", 0, "Kill a test file after this long (0 disables)")
	fs.StringVar(&f.ResultsDSN, "results-dsn", "", "MySQL DSN to record run history in, e.g. user:pass@tcp(host:3306)/cruxtest")
	fs.BoolVar(&f.FailFast, "fail-fast", false, "Stop starting test files after the first failure")
	fs.BoolVar(&f.OnlyFailed, "failed", false, "Run only test files that failed in the last run")
	fs.BoolVar(&f.RerunFailures, "rerun-failures", false, "After running all tests, rerun the failed ones once")
	fs.BoolVar(&f.Stats, "stats", false, "Print a statistics table after the run")
	fs.BoolVar(&f.Progress, "progress", false, "Show a progress bar when running with more than one worker")
}

// MarkChanged records which value flags were given explicitly on the command line
func (f *Flags) MarkChanged(fs *pflag.FlagSet) {
	f.WorkersSet = fs.Changed("workers")
	f.TimeoutSet = fs.Changed("timeout")
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ProjectPath:   f.ProjectPath,
		ConfigFile:    f.ConfigFile,
		Executable:    f.Executable,
		Directories:   f.Directories,
		Workers:       f.Workers,
		WorkersSet:    f.WorkersSet,
		Timeout:       f.Timeout,
		TimeoutSet:    f.TimeoutSet,
		NameFilter:    f.NameFilter,
		ResultsDSN:    f.ResultsDSN,
		FailFast:      f.FailFast,
		OnlyFailed:    f.OnlyFailed,
		RerunFailures: f.RerunFailures,
		Stats:         f.Stats,
		Progress:      f.Progress,
		Verbose:       f.Verbose,
	}
}
