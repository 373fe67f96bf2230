package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cruxtest/internal/cli"
	"cruxtest/internal/config"
	"cruxtest/internal/ctxlog"
	"cruxtest/internal/discovery"
	"cruxtest/internal/execution"
	"cruxtest/internal/storage"
	"cruxtest/internal/suite"
	"cruxtest/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	config   *config.Config
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands with dependencies. The config is filled in
// from flags in each command's PreRunE, so dependencies keep the pointer and
// read it at execution time.
func NewCommands(cfg *config.Config) *Commands {
	// Initialize dependencies
	scanner := discovery.NewScanner()
	filter := discovery.NewFilter()
	console := ui.NewConsole(os.Stdout)
	runner := execution.NewRunner(cfg)
	executor := execution.NewWorkerPool(cfg, runner, console)
	suiteRunner := suite.NewRunner(cfg, scanner, filter, executor)
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(os.Stdout)
	viewer := ui.NewFailureViewer(jsonStorage, runner, os.Stdout)

	return &Commands{
		config:   cfg,
		Run:      NewRunCommand(cfg, suiteRunner, filter, executor, jsonStorage, console, formatter),
		List:     NewListCommand(cfg, suiteRunner, jsonStorage, formatter),
		Failures: NewFailuresCommand(cfg, jsonStorage, viewer),
	}
}

// Register registers all commands with cobra. Running the root command on its
// own is the same as "run".
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	prepare := func(cmd *cobra.Command, args []string) error {
		return c.prepare(cmd, flags)
	}

	flags.BindCommon(rootCmd.PersistentFlags())

	// Root runs the suite
	rootCmd.RunE = c.Run.Execute
	rootCmd.PreRunE = prepare
	rootCmd.Args = cobra.NoArgs
	flags.BindRun(rootCmd.Flags())

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the interpreter over every test file",
		Long:    "Discover test files in the suite directories and run the interpreter once per file, failing if any file exits non-zero",
		Args:    cobra.NoArgs,
		RunE:    c.Run.Execute,
		PreRunE: prepare,
	}
	flags.BindRun(runCmd.Flags())
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered test files",
		Long:    "Scan the suite directories and list the test files without running them; files that failed last run are marked [F]",
		Args:    cobra.NoArgs,
		RunE:    c.List.Execute,
		PreRunE: prepare,
	}
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:     "failures",
		Short:   "View failed test files interactively",
		Long:    "Display the failed test files from the last run with their output in an interactive viewer",
		Args:    cobra.NoArgs,
		RunE:    c.Failures.Execute,
		PreRunE: prepare,
	}
	rootCmd.AddCommand(failuresCmd)
}

// prepare loads the configuration for the invoked command and attaches its logger
func (c *Commands) prepare(cmd *cobra.Command, flags *cli.Flags) error {
	flags.MarkChanged(cmd.Flags())
	loaded, err := config.Load(flags.ToConfigFlags())
	if err != nil {
		return suite.NewRuntimeError(fmt.Errorf("load config: %w", err))
	}
	*c.config = *loaded

	logger := ctxlog.New(os.Stderr, flags.Verbose)
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
	logger.Debug("configuration loaded",
		"project", loaded.ProjectPath,
		"executable", loaded.ExecutablePath(),
		"directories", loaded.Directories,
		"workers", loaded.WorkerCount(),
		"timeout", loaded.Timeout)
	return nil
}
