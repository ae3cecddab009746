package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hpungsan/mealfind/internal/config"
	"github.com/hpungsan/mealfind/internal/db"
	"github.com/hpungsan/mealfind/internal/favorites"
	"github.com/hpungsan/mealfind/internal/logger"
	"github.com/hpungsan/mealfind/internal/mcp"
	"github.com/hpungsan/mealfind/internal/mealdb"
	"github.com/hpungsan/mealfind/internal/resolve"
	"github.com/hpungsan/mealfind/internal/web"
)

// app holds the wired dependencies shared by the CLI, MCP, and web modes.
type app struct {
	baseDir  string
	cfg      *config.Config
	log      logger.Logger
	db       *sql.DB
	client   *mealdb.Client
	resolver *resolve.Resolver
	favs     *favorites.List
}

// newApp opens the database under baseDir, loads favorites, and builds the
// API client and resolver from cfg.
func newApp(ctx context.Context, baseDir string, cfg *config.Config, log logger.Logger) (*app, error) {
	database, err := db.Init(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	db.ConfigurePool(database, cfg)

	favs, err := favorites.Load(ctx, db.NewFavoritesStore(database), log)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	client := mealdb.NewClient(cfg.APIBaseURL,
		mealdb.WithTimeout(cfg.HTTPTimeout()),
		mealdb.WithRateLimit(cfg.RequestsPerSecond),
		mealdb.WithLogger(log),
	)

	resolver := resolve.New(client,
		resolve.WithLogger(log),
		resolve.WithEnrichLimit(cfg.EnrichLimit),
		resolve.WithMaxConcurrentLookups(cfg.MaxConcurrentLookups),
		resolve.WithStrictEnrichment(cfg.StrictEnrichment),
	)

	return &app{
		baseDir:  baseDir,
		cfg:      cfg,
		log:      log,
		db:       database,
		client:   client,
		resolver: resolver,
		favs:     favs,
	}, nil
}

// Close releases the database.
func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) mcpHandlers() *mcp.Handlers {
	return mcp.NewHandlers(a.resolver, a.client, a.favs, a.log)
}

func (a *app) webServices() web.Services {
	return web.Services{
		Resolver:  a.resolver,
		Source:    a.client,
		Favorites: a.favs,
		Log:       a.log,
	}
}
