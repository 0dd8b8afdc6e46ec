package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/folioworks/folio/config"
	"github.com/folioworks/folio/internal/bootstrap"
	"github.com/folioworks/folio/internal/migrate"
)

const defaultMigrationTimeout = 5 * time.Minute

func newMigrateCmd() *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema for the token record store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}
			return runMigrate(cmd.Context(), cmd.OutOrStdout(), cfg, status)
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "list migrations without applying them")
	return cmd
}

func runMigrate(ctx context.Context, out io.Writer, cfg config.AppConfig, status bool) (err error) {
	if cfg.Storage.Driver != config.StoragePostgres {
		return fmt.Errorf("migrate requires STORAGE_DRIVER=postgres, got %q", cfg.Storage.Driver)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := bootstrap.InitLogger(cfg.LogLevel)

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{DBConfig: cfg.Storage.Postgres, Logger: logger})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close database: %w", closeErr))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, defaultMigrationTimeout)
	defer cancel()

	if !status {
		return bootstrap.RunMigrations(ctx, db, logger)
	}

	list, err := migrate.List(ctx, db)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	return printMigrations(out, list)
}

func printMigrations(out io.Writer, list []migrate.Status) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "VERSION\tAPPLIED"); err != nil {
		return err
	}
	for _, m := range list {
		state := "no"
		if m.Applied {
			state = "yes"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", m.Version, state); err != nil {
			return err
		}
	}
	return tw.Flush()
}
