package database

import (
	"fmt"

	"github.com/inkwell-cms/core/internal/config"
	"github.com/inkwell-cms/core/internal/docstore"
	"github.com/inkwell-cms/core/internal/models"
	"github.com/inkwell-cms/core/internal/store"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured backing store and optionally runs
// auto-migration.
func Connect(cfg *config.AppConfig, autoMigrate bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsDev() {
		logLevel = logger.Info
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:               cfg.Database.DSN,
			DefaultStringSize: 191,
		})
	default:
		dialector = sqlite.Open(cfg.Database.Path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if autoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return db, nil
}

// Migrate creates the document tables, the side tables, and the blob
// tables.
func Migrate(db *gorm.DB) error {
	for _, table := range store.DocumentTables() {
		if err := db.Table(table).AutoMigrate(&docstore.Row{}); err != nil {
			return err
		}
	}
	return db.AutoMigrate(
		&models.PostRevisionRow{},
		&models.PostPermalinkRow{},
		&models.PostCategoryRow{},
		&models.PostTagRow{},
		&models.PostMetaRow{},
		&models.PageRevisionRow{},
		&models.PagePermalinkRow{},
		&models.PageMetaRow{},
		&models.Upload{},
		&models.ThemeAsset{},
	)
}
