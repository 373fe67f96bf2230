package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cruxtest/internal/config"
	"cruxtest/internal/ctxlog"
	"cruxtest/internal/discovery"
	"cruxtest/internal/domain"
	"cruxtest/internal/execution"
	"cruxtest/internal/storage"
	"cruxtest/internal/suite"
	"cruxtest/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	suite     *suite.Runner
	filter    *discovery.Filter
	executor  *execution.WorkerPool
	storage   *storage.JSONStorage
	console   *ui.Console
	formatter *ui.Formatter
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	suiteRunner *suite.Runner,
	filter *discovery.Filter,
	executor *execution.WorkerPool,
	st *storage.JSONStorage,
	console *ui.Console,
	formatter *ui.Formatter,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		suite:     suiteRunner,
		filter:    filter,
		executor:  executor,
		storage:   st,
		console:   console,
		formatter: formatter,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := ctxlog.FromContext(ctx)

	// Discover tests
	tests, err := rc.suite.Discover(ctx)
	if err != nil {
		return err
	}

	// Only the files that failed last time
	if rc.config.Flags.OnlyFailed {
		failed, err := rc.storage.FailedPaths()
		if err != nil {
			return suite.NewRuntimeError(fmt.Errorf("load previous failures: %w", err))
		}
		keep := make([]string, 0, len(failed))
		for path := range failed {
			keep = append(keep, path)
		}
		tests = rc.filter.FilterByPaths(tests, keep)
	}

	if len(tests) == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	// Progress bar only makes sense when output is buffered
	if rc.config.WorkerCount() > 1 && rc.config.Flags.Progress {
		rc.executor.SetProgress(ui.NewProgressBar(len(tests), os.Stderr))
	}

	// Execute tests
	run, err := rc.suite.Run(ctx, tests)
	if err != nil {
		return err
	}
	verdict := suite.Aggregate(run.Results)

	// Save results
	if err := rc.save(cmd, run); err != nil {
		logger.Warn("failed to save test results", "error", err)
	}

	if rc.config.Flags.Stats {
		rc.formatter.PrintStats(run)
	}

	rc.console.Summary(verdict.Passed)
	return verdict.Err()
}

func (rc *RunCommand) save(cmd *cobra.Command, run *domain.SuiteRun) error {
	sinks := storage.Multi{rc.storage}

	if dsn := rc.config.ResultsDSN; dsn != "" {
		db, err := storage.NewMySQLStorage(dsn)
		if err != nil {
			return err
		}
		defer db.Close()
		sinks = append(sinks, db)
	}

	return sinks.Save(cmd.Context(), run)
}
