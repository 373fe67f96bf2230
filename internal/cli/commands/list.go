package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cruxtest/internal/config"
	"cruxtest/internal/ctxlog"
	"cruxtest/internal/storage"
	"cruxtest/internal/suite"
	"cruxtest/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	suite     *suite.Runner
	storage   *storage.JSONStorage
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	suiteRunner *suite.Runner,
	st *storage.JSONStorage,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		suite:     suiteRunner,
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	tests, err := lc.suite.Discover(cmd.Context())
	if err != nil {
		return err
	}

	if len(tests) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	failed, err := lc.storage.FailedPaths()
	if err != nil {
		ctxlog.FromContext(cmd.Context()).Warn("could not read previous results", "error", err)
		failed = nil
	}

	lc.formatter.PrintTestList(tests, failed)
	return nil
}
