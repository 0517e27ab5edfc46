// Package cli implements the task command-line front-end.
//
// Commands parse their arguments, open the app for one invocation, call a
// single operation and print the result. Everything else lives in app and
// the pkg/ stores.
//
// Usage:
//
//	task context                         - Show the current context
//	task context add <name>              - Create a context
//	task context list                    - List contexts
//	task context set <name>              - Select the current context
//	task add <task> <description>        - Create a task
//	task step <task> <description>       - Append a progress step
//	task solve <task> <description>      - Mark a task as solved
//	task show <task>                     - Show a task's full history
//	task list [--solved|-s] [--all|-a]   - List tasks in the current context
//	task watch                           - Re-print the listing on every change
//	task mcp                             - Serve the operations as MCP tools on stdio
//	task config init [--backend name]    - Write a settings file with the defaults
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ternarybob/task/internal/app"
	"github.com/ternarybob/task/internal/config"
)

// Version information
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// PrintVersion returns the version line.
func PrintVersion() string {
	return fmt.Sprintf("task v%s (commit: %s, built on: %s)", Version, Commit, Date)
}

type rootOptions struct {
	root string
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "task",
		Short: "task - personal task tracking by context",
		Long: `task tracks work as tasks grouped into contexts.

Each task keeps its history as steps: the ADD note written on creation,
numbered progress steps, and a final SOLVE note.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.root, "root", config.DefaultRoot(),
		"root directory holding config and contexts (env "+config.RootEnv+")")

	cmd.AddCommand(newContextCommand(opts))
	cmd.AddCommand(newAddCommand(opts))
	cmd.AddCommand(newStepCommand(opts))
	cmd.AddCommand(newSolveCommand(opts))
	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newWatchCommand(opts))
	cmd.AddCommand(newMCPCommand(opts))
	cmd.AddCommand(newConfigCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// Execute runs the command line and returns the process exit code.
// Expected conditions are printed as guidance, other failures as errors.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, app.Describe(err))
		return 1
	}
	return 0
}

// withApp opens the app for one invocation, runs fn and persists the
// current-context pointer afterwards.
func withApp(opts *rootOptions, fn func(a *app.App) error) error {
	a, err := app.Open(opts.root, app.Options{ConsoleLogging: true})
	if err != nil {
		return err
	}

	runErr := fn(a)
	if err := a.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func joinDescription(args []string) string {
	return strings.Join(args, " ")
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), PrintVersion())
		},
	}
}
