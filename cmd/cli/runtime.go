package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophprofile/internal/client/cli"
	"github.com/dmitrijs2005/gophprofile/internal/client/client"
	"github.com/dmitrijs2005/gophprofile/internal/client/config"
	"github.com/dmitrijs2005/gophprofile/internal/client/fallback"
	"github.com/dmitrijs2005/gophprofile/internal/client/records"
	"github.com/dmitrijs2005/gophprofile/internal/client/services"
	"github.com/dmitrijs2005/gophprofile/internal/filex"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

// logOutput is where diagnostics go; user-facing output uses the command's
// writer.
var logOutput io.Writer = os.Stderr

type runtime struct {
	cfg      *config.Config
	log      logging.Logger
	db       *sql.DB
	registry *prometheus.Registry
	app      *cli.App
}

// setup resolves the configuration from fs and builds the client.
func setup(ctx context.Context, fs *pflag.FlagSet, in io.Reader, out io.Writer) (*runtime, error) {
	envFile, _ := fs.GetString(config.FlagEnvFile)
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}

	jsonPath, _ := fs.GetString(config.FlagConfig)
	cfg, err := config.Load(ctx, nil, jsonPath)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyFlags(cfg, fs); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogFormat, cfg.LogLevel, logOutput)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, log: log, registry: prometheus.NewRegistry()}

	var store records.Store
	if cfg.DatabasePath == config.MemoryDatabase {
		store = records.NewMemoryStore()
	} else {
		if _, err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
			return nil, err
		}
		rt.db, err = records.OpenDatabase(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open local database: %w", err)
		}
		store = records.NewSQLiteStore(rt.db)
	}

	metrics := fallback.NewMetrics(rt.registry)
	api := client.NewHTTPClient(cfg.AccountAPIURL, cfg.CommonAPIURL, cfg.RequestTimeout, log)

	rt.app = cli.NewApp(cli.Services{
		Auth:         services.NewAuthService(api, store, log, metrics),
		Registration: services.NewRegistrationService(api, store, log),
		Directory:    services.NewDirectoryService(api, log, metrics),
		Profile:      services.NewProfileService(api, store, log, metrics),
	}, log, in, out)

	log.Debug(ctx, "client ready", "account_api", cfg.AccountAPIURL, "database", cfg.DatabasePath)
	return rt, nil
}

// Close writes the metrics file when one is configured and closes the
// local database.
func (r *runtime) Close(ctx context.Context) error {
	var errs []error
	if r.cfg.MetricsFile != "" {
		if _, err := filex.EnsureParentDir(r.cfg.MetricsFile); err != nil {
			errs = append(errs, err)
		} else if err := prometheus.WriteToTextfile(r.cfg.MetricsFile, r.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		} else {
			r.log.Debug(ctx, "metrics written", "path", r.cfg.MetricsFile)
		}
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close local database: %w", err))
		}
	}
	return errors.Join(errs...)
}
