package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantmind-br/gamescan/internal/cmd"
	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/logging"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	log := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		LogFile: cfg.Paths.LogFile,
		NoColor: cfg.Logging.Color == "never",
	})

	rootCmd := cmd.NewRootCmd(cfg, log, version)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Debug().Err(err).Msg("command failed")
		return cmd.ExitCode(err)
	}
	return 0
}

// loadConfig reads GAMESCAN_CONFIG when set, the default locations otherwise
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("GAMESCAN_CONFIG"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
