package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/task/internal/app"
	"github.com/ternarybob/task/pkg/task"
)

func newAddCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task> <description>",
		Short: "Create a task in the current context",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				if err := a.AddTask(args[0], joinDescription(args[1:])); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "task %q created\n", args[0])
				return nil
			})
		},
	}
}

func newStepCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "step <task> <description>",
		Short: "Append a progress step to a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				desc := joinDescription(args[1:])
				label, err := a.AppendStep(args[0], desc)
				if err != nil {
					return err
				}
				step := task.Step{Label: label, Description: desc}
				fmt.Fprintln(cmd.OutOrStdout(), task.Render(step, task.ColumnWidth([]task.Label{label})))
				return nil
			})
		},
	}
}

func newSolveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "solve <task> <description>",
		Short: "Mark a task as solved",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				if err := a.SolveTask(args[0], joinDescription(args[1:])); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "task %q solved\n", args[0])
				return nil
			})
		},
	}
}

func newShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task>",
		Short: "Show the full history of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				steps, err := a.ShowTask(args[0])
				if err != nil {
					return err
				}
				return task.RenderHistory(cmd.OutOrStdout(), steps)
			})
		},
	}
}

type listOptions struct {
	solved bool
	all    bool
}

// filter maps the flags onto a task filter; --all wins over --solved.
func (o listOptions) filter() task.Filter {
	switch {
	case o.all:
		return task.FilterAll
	case o.solved:
		return task.FilterSolved
	default:
		return task.FilterUnsolved
	}
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var lo listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in the current context",
		Long: `Lists unsolved tasks by default, showing each task's ADD step and its
latest progress step (or its SOLVE step once solved).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				summaries, err := a.ListTasks(lo.filter())
				if err != nil {
					return err
				}
				return task.RenderListing(cmd.OutOrStdout(), summaries)
			})
		},
	}

	cmd.Flags().BoolVarP(&lo.solved, "solved", "s", false, "list solved tasks only")
	cmd.Flags().BoolVarP(&lo.all, "all", "a", false, "list every task (overrides --solved)")

	return cmd
}
