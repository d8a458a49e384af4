package cli

import (
	"fmt"
	"os"

	"github.com/asteroid-belt/swatch/internal/adapter"
	"github.com/asteroid-belt/swatch/internal/adapter/apps"
	"github.com/asteroid-belt/swatch/internal/config"
	"github.com/asteroid-belt/swatch/internal/db"
	"github.com/asteroid-belt/swatch/internal/engine"
	"github.com/asteroid-belt/swatch/internal/link"
	swlog "github.com/asteroid-belt/swatch/internal/log"
	"github.com/asteroid-belt/swatch/internal/migration"
	"github.com/asteroid-belt/swatch/internal/state"
	"github.com/asteroid-belt/swatch/internal/system"
	"github.com/asteroid-belt/swatch/internal/theme"
	"github.com/asteroid-belt/swatch/internal/wallpaper"
)

// app bundles what the commands share. Commands build one per run.
type app struct {
	cfg      *config.Config
	paths    config.Paths
	db       *db.DB
	logger   *swlog.Logger
	themes   *theme.Store
	registry *adapter.Registry
	engine   *engine.Orchestrator
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	paths := config.GetPaths(cfg)

	logger, err := swlog.Open(cfg.LogFile(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		_ = database.Close()
		_ = logger.Close()
		return nil, fmt.Errorf("determine home directory: %w", err)
	}

	var store state.Store = database
	if cfg.StateBackend == config.BackendJSON {
		store = state.NewJSONStore(paths.StateFile)
	} else {
		res, err := migration.ImportJSONState(database, paths.StateFile)
		if err != nil {
			logger.Warn("import json state", "err", err)
		}
		for _, e := range res.Errors {
			logger.Warn("import json state", "err", e)
		}
		if res.Imported {
			logger.Info("imported json state", "from", res.Renamed)
		}
	}

	runner := system.ExecRunner{}
	themes := theme.NewStore(cfg.Themes.BundledDir, cfg.Themes.CustomDir)
	registry := apps.DefaultRegistry(apps.Dirs{
		Home:       home,
		ConfigHome: cfg.ConfigHome,
	})

	orch, err := engine.New(engine.Config{
		Themes:   themes,
		Registry: registry,
		Wallpaper: wallpaper.New(runner, wallpaper.Options{
			BinaryOverride: cfg.Wallpaper.Binary,
			ResourcesDir:   cfg.Wallpaper.ResourcesDir,
		}),
		Linker:        link.NewManager(),
		State:         store,
		History:       database,
		Telemetry:     telemetryClient,
		Runner:        runner,
		Logger:        logger.Logger,
		DataDir:       cfg.BaseDir,
		Workers:       cfg.Workers,
		AutoWallpaper: cfg.Wallpaper.Auto,
	})
	if err != nil {
		_ = database.Close()
		_ = logger.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		paths:    paths,
		db:       database,
		logger:   logger,
		themes:   themes,
		registry: registry,
		engine:   orch,
	}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
	_ = a.logger.Close()
}
