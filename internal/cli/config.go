package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/task/internal/config"
	"github.com/ternarybob/task/internal/fileutil"
	"github.com/ternarybob/task/pkg/task"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tool settings",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	cmd.AddCommand(newConfigInitCommand(opts))
	return cmd
}

func newConfigInitCommand(opts *rootOptions) *cobra.Command {
	var (
		backend string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the defaults",
		Long: `Writes config/settings.yaml under the root with the default settings.
The storage backend applies to tasks created afterwards; existing tasks keep
their encoding.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := task.LookupBackend(backend); err != nil {
				return err
			}

			cfg := config.DefaultConfig(opts.root)
			if fileutil.Exists(cfg.SettingsPath()) && !force {
				return fmt.Errorf("settings file %s already exists (use --force to overwrite)", cfg.SettingsPath())
			}

			cfg.Storage.Backend = backend
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "settings written to %s\n", cfg.SettingsPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "dir",
		fmt.Sprintf("storage backend for new tasks %v", task.BackendNames()))
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing settings file")

	return cmd
}
