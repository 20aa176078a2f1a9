package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/fsops"
	"github.com/quantmind-br/gamescan/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command group
func NewConfigCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(newConfigShowCmd(cfg))
	cmd.AddCommand(newConfigInitCmd(cfg, log, afero.NewOsFs(), filepath.Join(config.Dir(), "config.toml")))

	return cmd
}

func newConfigShowCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := cfg.TOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigInitCmd(cfg *config.Config, log *zerolog.Logger, fs afero.Fs, target string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if fsops.Exists(fs, target) && !force {
				ui.PrintWarning("%s already exists, use --force to overwrite it", target)
				return withExitCode(core.ExitInvalidArgs, fmt.Errorf("config file exists: %s", target))
			}

			data, err := cfg.TOML()
			if err != nil {
				return err
			}
			if err := fsops.EnsureDir(fs, filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := afero.WriteFile(fs, target, data, 0o644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			log.Info().Str("path", target).Msg("config file written")
			ui.PrintSuccess("Wrote %s", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}
