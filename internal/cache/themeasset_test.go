package cache_test

import (
	"context"
	"testing"

	"github.com/inkwell-cms/core/internal/cache"
	"github.com/inkwell-cms/core/internal/models"
	"github.com/inkwell-cms/core/internal/store"
	"github.com/inkwell-cms/core/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveAsset(t *testing.T, assets *store.ThemeAssetStore, themeID, path string) {
	t.Helper()
	require.NoError(t, assets.Save(context.Background(), &models.ThemeAsset{
		ThemeID:   themeID,
		Path:      path,
		UpdatedOn: day(1),
		Data:      []byte("asset bytes"),
	}))
}

func TestThemeAssetsFillAndHas(t *testing.T) {
	db := tester.NewDB(t)
	assets := store.NewThemeAssetStore(db)
	ac := cache.NewThemeAssets(assets, store.NewThemeStore(db, nil))
	ctx := context.Background()

	saveAsset(t, assets, "default", "style.css")
	saveAsset(t, assets, "default", "logo.png")
	saveAsset(t, assets, "other", "style.css")

	require.NoError(t, ac.Fill(ctx))

	paths, err := ac.Get("default")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"style.css", "logo.png"}, paths)

	assert.True(t, ac.Has("default", "style.css"))
	assert.False(t, ac.Has("default", "missing.css"))
	assert.True(t, ac.Has("other", "style.css"))
	assert.False(t, ac.Has("ghost", "style.css"))
}

func TestThemeAssetsFillIndexesAssetlessTheme(t *testing.T) {
	db := tester.NewDB(t)
	assets := store.NewThemeAssetStore(db)
	themes := store.NewThemeStore(db, nil)
	ac := cache.NewThemeAssets(assets, themes)
	ctx := context.Background()

	seedTheme(t, themes, "bare")
	require.NoError(t, ac.Fill(ctx))

	paths, err := ac.Get("bare")
	require.NoError(t, err)
	assert.Empty(t, paths)
	assert.False(t, ac.Has("bare", "style.css"))
}

func TestThemeAssetsNotFilled(t *testing.T) {
	db := tester.NewDB(t)
	ac := cache.NewThemeAssets(store.NewThemeAssetStore(db), store.NewThemeStore(db, nil))

	_, err := ac.Get("default")
	assert.ErrorIs(t, err, cache.ErrNotFilled)
}

func TestThemeAssetsUpdateAndRemove(t *testing.T) {
	db := tester.NewDB(t)
	assets := store.NewThemeAssetStore(db)
	ac := cache.NewThemeAssets(assets, store.NewThemeStore(db, nil))
	ctx := context.Background()

	saveAsset(t, assets, "default", "style.css")
	require.NoError(t, ac.Update(ctx, "default"))
	assert.True(t, ac.Has("default", "style.css"))

	// New assets show only after the next Update.
	saveAsset(t, assets, "default", "logo.png")
	assert.False(t, ac.Has("default", "logo.png"))

	require.NoError(t, ac.Update(ctx, "default"))
	assert.True(t, ac.Has("default", "logo.png"))

	ac.Remove("default")
	_, err := ac.Get("default")
	assert.ErrorIs(t, err, cache.ErrNotFilled)
}
