package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"notes-auth/config"
	"notes-auth/internal/adapter/gateway"
	"notes-auth/internal/infrastructure/storage"
	"notes-auth/internal/usecase"
	"notes-auth/utils/logger"
	otelutil "notes-auth/utils/otel"
)

// app holds the wired dependencies shared by every subcommand. It is
// populated once in the root command's PersistentPreRunE.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *storage.FileStore
	gateway    *gateway.APIGateway
	controller *usecase.Controller
	shutdown   func(context.Context) error
}

// NewRootCmd creates the root command for the notes-auth CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "notes-auth",
		Short:         "Authentication client for the notes backend",
		Long:          "notes-auth signs in to the notes backend with email passcodes or Google, persists the session across runs, and exposes the note API once authenticated.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.shutdown != nil {
				_ = a.shutdown(cmd.Context())
			}
		},
	}

	cmd.AddCommand(NewSignupCmd(a))
	cmd.AddCommand(NewSigninCmd(a))
	cmd.AddCommand(NewGoogleCmd(a))
	cmd.AddCommand(NewLogoutCmd(a))
	cmd.AddCommand(NewWhoamiCmd(a))
	cmd.AddCommand(NewNotesCmd(a))
	cmd.AddCommand(NewHealthCmd(a))

	return cmd
}

// init wires configuration, telemetry, storage, the backend gateway and the
// auth controller, then restores any persisted session before the
// subcommand runs.
func (a *app) init(ctx context.Context) error {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	otelCfg := otelutil.ConfigFromEnv()
	shutdown, err := otelutil.InitProvider(ctx, otelCfg)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	a.shutdown = shutdown

	a.logger = logger.Init(otelCfg.Enabled)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	persistentDir, ephemeralDir, err := storageDirs()
	if err != nil {
		return fmt.Errorf("resolve storage dirs: %w", err)
	}
	a.store = storage.NewFileStore(persistentDir, ephemeralDir, a.logger)

	a.gateway = gateway.NewAPIGateway(cfg.APIBaseURL, cfg.HTTPTimeout, a.store, a.logger)
	a.controller = usecase.NewController(a.gateway, a.store, newTerminalNotifier(), a.logger,
		usecase.WithResendInterval(cfg.OTPResendInterval))

	start := time.Now()
	a.controller.Bootstrap(logger.WithFlow(ctx, "bootstrap"))
	logger.GlobalContext.LogDuration(logger.WithFlow(ctx, "bootstrap"), "restore_session", time.Since(start).Milliseconds())

	return nil
}

// storageDirs resolves the two retention tiers: the persistent tier lives
// under the user config dir and survives reboots, the ephemeral tier lives
// under the temp dir and is wiped with it.
func storageDirs() (persistent, ephemeral string, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", "", err
	}
	persistent = filepath.Join(configDir, "notes-auth")
	ephemeral = filepath.Join(os.TempDir(), "notes-auth-session")
	return persistent, ephemeral, nil
}
