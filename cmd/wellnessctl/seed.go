package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgo/wellness/api/internal/config"
	"github.com/forgo/wellness/api/internal/database"
	"github.com/forgo/wellness/api/internal/repository"
	"github.com/forgo/wellness/api/internal/service"
)

type seedOptions struct {
	file    string
	dryRun  bool
	timeout time.Duration
}

func newSeedCmd() *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load lifestyles and activities into the database",
		Long: `Seed upserts the activity catalog into SurrealDB. Without --file the
built-in catalog is used. Connection settings come from the same DB_*
environment variables as the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "catalog YAML file (default: built-in catalog)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "validate the catalog without writing it")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "overall deadline for the seed")
	return cmd
}

func loadCatalog(path string) (*service.Catalog, error) {
	if path == "" {
		return service.DefaultCatalog()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	return service.LoadCatalog(f)
}

func runSeed(cmd *cobra.Command, opts *seedOptions) error {
	catalog, err := loadCatalog(opts.file)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if opts.dryRun {
		fmt.Fprintf(out, "catalog ok: %d lifestyles, %d activities\n",
			len(catalog.Lifestyles), len(catalog.Activities))
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
		Secure:    cfg.Database.Secure,

		ConnectTimeout: cfg.Database.ConnectTimeout,
	})
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := database.ApplySchema(ctx, db); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	seeder := service.NewSeederService(repository.NewActivityRepository(db))
	result, err := seeder.Seed(ctx, catalog)
	if err != nil {
		return err
	}

	slog.Debug("catalog seeded", slog.Int64("duration_ms", result.Duration))
	fmt.Fprintf(out, "seeded %d lifestyles, %d activities\n", result.Lifestyles, result.Created)
	return nil
}
