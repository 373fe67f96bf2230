package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cruxtest/internal/config"
	"cruxtest/internal/storage"
	"cruxtest/internal/suite"
	"cruxtest/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	config  *config.Config
	storage *storage.JSONStorage
	viewer  ui.Viewer
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(cfg *config.Config, st *storage.JSONStorage, viewer ui.Viewer) *FailuresCommand {
	return &FailuresCommand{
		config:  cfg,
		storage: st,
		viewer:  viewer,
	}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	results, err := fc.storage.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			color.Yellow("No results found at %s, run the tests first", fc.config.GetOutputPath())
			return nil
		}
		return suite.NewRuntimeError(fmt.Errorf("load results: %w", err))
	}

	if err := fc.viewer.View(cmd.Context(), results); err != nil {
		return suite.NewRuntimeError(fmt.Errorf("failure viewer: %w", err))
	}
	return nil
}
