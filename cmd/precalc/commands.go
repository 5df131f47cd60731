package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ous-demographics/internal/app"
	"github.com/ous-demographics/internal/config"
	"github.com/ous-demographics/internal/pkg/logger"
	"github.com/ous-demographics/internal/repository/file"
	"github.com/ous-demographics/internal/repository/objectstore"
	"github.com/ous-demographics/internal/repository/postgres"
)

const (
	targetPostgres = "postgres"
	targetMinio    = "minio"
)

func setup(envFile string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadFrom(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "ous-precalc"})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func baselineCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "baseline",
		Short: "Calculate survey-wide totals and store them for percent metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(*envFile)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := app.New(cfg, log, app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signalContext()
			defer cancel()

			start := time.Now()
			result, err := a.BaselineUC.Precalculate(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "dataset %s: %d respondents, %g people, %d metrics (%s)\n",
				a.BaselineUC.DatasetVersion(), result.Stats.Respondents, result.Stats.People,
				len(result.Metrics), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

func importCmd(envFile *string) *cobra.Command {
	var (
		source  string
		targets []string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load survey shapes from a GeoJSON file into PostGIS and/or object storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(*envFile)
			if err != nil {
				return err
			}
			defer log.Sync()

			if source == "" {
				source = cfg.Survey.FilePath
			}

			ctx, cancel := signalContext()
			defer cancel()

			records, err := file.NewSurveyRepository(source, log).LoadAll(ctx)
			if err != nil {
				return err
			}

			for _, target := range targets {
				switch target {
				case targetPostgres:
					db, err := postgres.New(&cfg.Database, log)
					if err != nil {
						return err
					}
					n, err := postgres.NewSurveyRepository(db, nil, log).Import(ctx, records)
					db.Close()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "postgres: imported %d shapes\n", n)

				case targetMinio:
					client, err := objectstore.NewClient(&cfg.Storage, log)
					if err != nil {
						return err
					}
					if err := client.EnsureBucket(ctx); err != nil {
						return err
					}
					if err := objectstore.NewSurveyRepository(client, cfg.Survey.ObjectKey, log).Publish(ctx, records); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "minio: published %d shapes to %s/%s\n",
						len(records), client.Bucket(), cfg.Survey.ObjectKey)

				default:
					return fmt.Errorf("unknown import target %q", target)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "file", "f", "", "survey GeoJSON file (default SURVEY_FILE_PATH)")
	cmd.Flags().StringSliceVarP(&targets, "to", "t", []string{targetPostgres}, "import targets: postgres, minio")
	return cmd
}
