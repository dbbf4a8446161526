package store

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/inkwell-cms/core/internal/docstore"
	"github.com/inkwell-cms/core/internal/models"
	"gorm.io/gorm"
)

// ThemeStore persists themes. Themes are shared across web logs, so their
// document rows are scoped by their own id rather than a tenant's.
type ThemeStore struct {
	db   *gorm.DB
	docs *docstore.Repository[models.Theme]
}

func NewThemeStore(db *gorm.DB, codec docstore.Serializer) *ThemeStore {
	return &ThemeStore{db: db, docs: docstore.NewRepository[models.Theme](db, themeTable, codec)}
}

// All returns every theme ordered by id, template text stripped for
// listing.
func (s *ThemeStore) All(ctx context.Context) ([]*models.Theme, error) {
	themes, err := s.docs.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range themes {
		for i := range t.Templates {
			t.Templates[i].Text = ""
		}
	}
	sort.SliceStable(themes, func(i, j int) bool {
		return strings.ToLower(themes[i].ID) < strings.ToLower(themes[j].ID)
	})
	return themes, nil
}

// FindByID returns the full theme, or (nil, nil).
func (s *ThemeStore) FindByID(ctx context.Context, id string) (*models.Theme, error) {
	return s.docs.FindByID(ctx, id, id)
}

// FindByIDWithoutText returns the theme with template text stripped, or
// (nil, nil).
func (s *ThemeStore) FindByIDWithoutText(ctx context.Context, id string) (*models.Theme, error) {
	theme, err := s.FindByID(ctx, id)
	if err != nil || theme == nil {
		return theme, err
	}
	for i := range theme.Templates {
		theme.Templates[i].Text = ""
	}
	return theme, nil
}

// Exists reports whether a theme with the id exists.
func (s *ThemeStore) Exists(ctx context.Context, id string) (bool, error) {
	return s.docs.Exists(ctx, id, id)
}

// Save inserts the theme or replaces an existing one with the same id.
func (s *ThemeStore) Save(ctx context.Context, theme *models.Theme) error {
	exists, err := s.docs.Exists(ctx, theme.ID, theme.ID)
	if err != nil {
		return err
	}
	if exists {
		_, err = s.docs.Replace(ctx, theme.ID, theme.ID, theme)
		return err
	}
	return s.docs.Insert(ctx, theme.ID, theme.ID, theme)
}

// Delete removes the theme and its assets, reporting false when no theme
// matched.
func (s *ThemeStore) Delete(ctx context.Context, id string) (bool, error) {
	exists, err := s.docs.Exists(ctx, id, id)
	if err != nil || !exists {
		return false, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("theme_id = ?", id).Delete(&models.ThemeAsset{}).Error; err != nil {
			return err
		}
		return s.docs.WithTx(tx).Delete(ctx, id, id)
	})
	return err == nil, err
}

// ThemeAssetStore persists theme asset blobs.
type ThemeAssetStore struct {
	db *gorm.DB
}

func NewThemeAssetStore(db *gorm.DB) *ThemeAssetStore {
	return &ThemeAssetStore{db: db}
}

// All returns every asset's metadata, payloads omitted.
func (s *ThemeAssetStore) All(ctx context.Context) ([]*models.ThemeAsset, error) {
	var assets []*models.ThemeAsset
	err := s.db.WithContext(ctx).
		Select("theme_id", "path", "updated_on").Find(&assets).Error
	return assets, err
}

// FindByTheme returns the theme's asset metadata, payloads omitted.
func (s *ThemeAssetStore) FindByTheme(ctx context.Context, themeID string) ([]*models.ThemeAsset, error) {
	var assets []*models.ThemeAsset
	err := s.db.WithContext(ctx).
		Select("theme_id", "path", "updated_on").
		Where("theme_id = ?", themeID).Find(&assets).Error
	return assets, err
}

// FindByThemeWithData returns the theme's assets with payloads.
func (s *ThemeAssetStore) FindByThemeWithData(ctx context.Context, themeID string) ([]*models.ThemeAsset, error) {
	var assets []*models.ThemeAsset
	err := s.db.WithContext(ctx).Where("theme_id = ?", themeID).Find(&assets).Error
	return assets, err
}

// FindByPath returns one asset with its payload, or (nil, nil).
func (s *ThemeAssetStore) FindByPath(ctx context.Context, themeID, path string) (*models.ThemeAsset, error) {
	var asset models.ThemeAsset
	err := s.db.WithContext(ctx).
		Where("theme_id = ? AND path = ?", themeID, path).Take(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// Save upserts the asset in two phases: the row is written with an empty
// payload, then the bytes are streamed into it in chunks, keeping large
// assets out of any single statement.
func (s *ThemeAssetStore) Save(ctx context.Context, asset *models.ThemeAsset) error {
	payload := asset.Data
	placeholder := models.ThemeAsset{
		ThemeID:   asset.ThemeID,
		Path:      asset.Path,
		UpdatedOn: asset.UpdatedOn.UTC(),
		Data:      []byte{},
	}
	err := s.db.WithContext(ctx).
		Where("theme_id = ? AND path = ?", asset.ThemeID, asset.Path).
		Delete(&models.ThemeAsset{}).Error
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&placeholder).Error; err != nil {
		return err
	}
	return docstore.AppendBlob(ctx, s.db, models.ThemeAsset{}.TableName(), "data",
		"theme_id = ? AND path = ?", []any{asset.ThemeID, asset.Path}, payload)
}

// DeleteByTheme removes every asset the theme owns.
func (s *ThemeAssetStore) DeleteByTheme(ctx context.Context, themeID string) error {
	return s.db.WithContext(ctx).Where("theme_id = ?", themeID).Delete(&models.ThemeAsset{}).Error
}
