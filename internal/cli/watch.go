package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternarybob/task/internal/app"
	"github.com/ternarybob/task/internal/watch"
	"github.com/ternarybob/task/pkg/task"
)

func newWatchCommand(opts *rootOptions) *cobra.Command {
	var (
		lo       listOptions
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the task listing again whenever the current context changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withApp(opts, func(a *app.App) error {
				return runWatch(ctx, cmd, a, lo.filter(), debounce)
			})
		},
	}

	cmd.Flags().BoolVarP(&lo.solved, "solved", "s", false, "list solved tasks only")
	cmd.Flags().BoolVarP(&lo.all, "all", "a", false, "list every task (overrides --solved)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-printing")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, a *app.App, filter task.Filter, debounce time.Duration) error {
	name, err := a.ActiveContext()
	if err != nil {
		return err
	}

	w, err := watch.New(a.Contexts.Path(name), debounce)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	render := func() {
		summaries, err := a.ListTasks(filter)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), app.Describe(err))
			return
		}
		fmt.Fprintf(out, "=== %s (%s)\n", name, time.Now().Format("15:04:05"))
		task.RenderListing(out, summaries)
	}

	render()
	return w.Run(ctx, render)
}
