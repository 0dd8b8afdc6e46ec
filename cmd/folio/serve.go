package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folioworks/folio/internal/bootstrap"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func runServe(ctx context.Context, addr string) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.HTTP.Addr = addr
	}
	logger := bootstrap.InitLogger(cfg.LogLevel)

	storage, err := bootstrap.OpenStorage(ctx, bootstrap.StorageDeps{Storage: cfg.Storage, Logger: logger})
	if err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		return err
	}
	defer func() {
		if closeErr := storage.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close storage: %w", closeErr))
		}
	}()

	verifier := bootstrap.BuildTokenVerifier(ctx, bootstrap.TokenVerifierConfig{Token: cfg.Token, Logger: logger})

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:   &cfg,
		KV:       storage.KV,
		Verifier: verifier,
		Logger:   logger,
	})
	if err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		return err
	}

	if runErr := bootstrap.RunServicesWithShutdown(&bootstrap.ServiceOrchestrationConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	}); runErr != nil {
		logger.ErrorContext(ctx, "fatal error", "error", runErr)
		return runErr
	}
	return nil
}
