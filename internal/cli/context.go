package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/task/internal/app"
)

func newContextCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Show, create, list and select contexts",
		Long:  `Without a subcommand, prints the current context.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				name, err := a.CurrentContext()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				if err := a.AddContext(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "context %q created\n", args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List contexts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				names, err := a.ListContexts()
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <name>",
		Short: "Select the current context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				if err := a.SetContext(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "current context is now %q\n", args[0])
				return nil
			})
		},
	})

	return cmd
}
