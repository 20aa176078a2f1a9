package cmd

import (
	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gamescan",
		Short: "Find, catalogue and launch installed games",
		Long: `gamescan inspects game folders, picks the executable that starts each game,
recognizes the authoring engine and keeps a local library with play time.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			ui.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
			ui.InitColors(cfg.Logging.Color)
		},
	}

	cmd.AddCommand(NewScanCmd(cfg, log))
	cmd.AddCommand(NewDetectCmd(cfg, log))
	cmd.AddCommand(NewListCmd(cfg, log))
	cmd.AddCommand(NewInfoCmd(cfg, log))
	cmd.AddCommand(NewLaunchCmd(cfg, log))
	cmd.AddCommand(NewSessionsCmd(cfg, log))
	cmd.AddCommand(NewRemoveCmd(cfg, log))
	cmd.AddCommand(NewCoverCmd(cfg, log))
	cmd.AddCommand(NewShortcutCmd(cfg, log))
	cmd.AddCommand(NewDoctorCmd(cfg, log))
	cmd.AddCommand(NewConfigCmd(cfg, log))
	cmd.AddCommand(NewCompletionCmd(cfg, log))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}
