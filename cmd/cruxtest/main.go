package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cruxtest/internal/cli"
	"cruxtest/internal/cli/commands"
	"cruxtest/internal/config"
	"cruxtest/internal/suite"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "cruxtest",
		Short: "Crux interpreter test suite runner",
		Long: `Runs the crux interpreter once per file in the test suite directories
(type_methods, builtins, features, modules) and fails if any file exits non-zero.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !suite.IsTestFailureError(err) {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
	}
	stop()
	os.Exit(suite.ExitCode(err))
}
