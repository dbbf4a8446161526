// Package app wires the data core together: config, database, entity
// stores and caches. The router it exposes is a thin consumer surface;
// the real handler layer lives outside this module.
package app

import (
	"context"
	"fmt"

	"github.com/inkwell-cms/core/internal/cache"
	"github.com/inkwell-cms/core/internal/config"
	"github.com/inkwell-cms/core/internal/database"
	"github.com/inkwell-cms/core/internal/docstore"
	"github.com/inkwell-cms/core/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App bundles the constructed stores and caches. Caches are plain fields
// here, injected into consumers; nothing in this module is a global.
type App struct {
	cfg *config.AppConfig
	log *zap.Logger
	db  *gorm.DB

	WebLogs     *store.WebLogStore
	Posts       *store.PostStore
	Pages       *store.PageStore
	Categories  *store.CategoryStore
	Users       *store.UserStore
	TagMaps     *store.TagMapStore
	Themes      *store.ThemeStore
	ThemeAssets *store.ThemeAssetStore
	Uploads     *store.UploadStore

	Registry      *cache.Registry
	PageList      *cache.PageList
	CategoryCache *cache.Categories
	Templates     *cache.Templates
	AssetNames    *cache.ThemeAssets
}

// New loads configuration, connects and migrates the store, constructs
// every entity store and cache, and primes the registry and asset index.
func New(logger *zap.Logger, configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, err
	}

	codec := docstore.JSONSerializer{}
	a := &App{
		cfg:         cfg,
		log:         logger,
		db:          db,
		WebLogs:     store.NewWebLogStore(db, codec, logger),
		Posts:       store.NewPostStore(db, codec),
		Pages:       store.NewPageStore(db, codec),
		Categories:  store.NewCategoryStore(db, codec),
		Users:       store.NewUserStore(db, codec),
		TagMaps:     store.NewTagMapStore(db, codec),
		Themes:      store.NewThemeStore(db, codec),
		ThemeAssets: store.NewThemeAssetStore(db),
		Uploads:     store.NewUploadStore(db),
	}
	a.Registry = cache.NewRegistry(a.WebLogs, logger)
	a.PageList = cache.NewPageList(a.Pages)
	a.CategoryCache = cache.NewCategories(a.Categories)
	a.Templates = cache.NewTemplates(a.Themes)
	a.AssetNames = cache.NewThemeAssets(a.ThemeAssets, a.Themes)

	ctx := context.Background()
	if err := a.Registry.Fill(ctx); err != nil {
		return nil, fmt.Errorf("fill web log registry: %w", err)
	}
	if err := a.AssetNames.Fill(ctx); err != nil {
		return nil, fmt.Errorf("fill theme asset index: %w", err)
	}
	return a, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Shutdown closes the database handle.
func (a *App) Shutdown() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
