package cli

import (
	"fmt"

	"go.uber.org/zap"

	"reviewhub/internal/cache"
	"reviewhub/internal/config"
	"reviewhub/internal/logging"
	"reviewhub/internal/review"
	"reviewhub/internal/store"
	"reviewhub/internal/usage"
)

// app bundles the wired pipeline for one command invocation.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	db     *store.DB
	engine *review.Engine
	cache  *cache.Cache
	usage  *usage.Ring
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// newApp loads config and wires the full engine. withModel controls whether
// the external reviewer is attached; rule-only commands leave it off.
func newApp(overrides map[string]string, withModel bool) (*app, error) {
	cfg, err := config.Load(flagConfig, overrides)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging.Format, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.CreateSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	respCache, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		db.Close()
		return nil, err
	}

	ring := usage.NewRing(cfg.Usage.Capacity)
	builder := review.NewRuleSetBuilder(db, logger)

	var model *review.ModelReviewer
	if withModel {
		model = review.NewModelReviewer(review.ModelOptions{
			Provider:      cfg.Model.Provider,
			Model:         cfg.Model.Model,
			Endpoint:      cfg.Model.Endpoint,
			Timeout:       cfg.Model.Timeout(),
			Bypass:        cfg.Model.Bypass,
			RedactSecrets: cfg.Privacy.RedactSecrets,
			RedactPaths:   cfg.Privacy.RedactPaths,
		}, respCache, logger)
	}

	engine := review.NewEngine(builder, model, db, ring, logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		engine: engine,
		cache:  respCache,
		usage:  ring,
	}, nil
}
