package cache

import (
	"context"
	"sync"

	"github.com/inkwell-cms/core/internal/store"
)

// ThemeAssets caches the asset paths of each theme, not the bytes, so
// existence checks skip the store entirely.
type ThemeAssets struct {
	entries sync.Map // theme id -> []string of asset paths
	assets  *store.ThemeAssetStore
	themes  *store.ThemeStore
}

func NewThemeAssets(assets *store.ThemeAssetStore, themes *store.ThemeStore) *ThemeAssets {
	return &ThemeAssets{assets: assets, themes: themes}
}

// Fill loads the asset index for every theme at once, for process start.
// Every known theme gets an entry, so a theme without assets reads as an
// empty index rather than never-filled.
func (c *ThemeAssets) Fill(ctx context.Context) error {
	byTheme := make(map[string][]string)
	themes, err := c.themes.All(ctx)
	if err != nil {
		return err
	}
	for _, t := range themes {
		byTheme[t.ID] = []string{}
	}

	all, err := c.assets.All(ctx)
	if err != nil {
		return err
	}
	for _, a := range all {
		byTheme[a.ThemeID] = append(byTheme[a.ThemeID], a.Path)
	}
	for themeID, paths := range byTheme {
		c.entries.Store(themeID, paths)
	}
	return nil
}

// Get returns the theme's cached asset paths, or ErrNotFilled.
func (c *ThemeAssets) Get(themeID string) ([]string, error) {
	v, ok := c.entries.Load(themeID)
	if !ok {
		return nil, ErrNotFilled
	}
	return v.([]string), nil
}

// Has reports whether the theme has an asset at the path, consulting only
// the cache.
func (c *ThemeAssets) Has(themeID, path string) bool {
	paths, err := c.Get(themeID)
	if err != nil {
		return false
	}
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}

// Update recomputes the theme's asset index from the store.
func (c *ThemeAssets) Update(ctx context.Context, themeID string) error {
	assets, err := c.assets.FindByTheme(ctx, themeID)
	if err != nil {
		return err
	}
	paths := make([]string, len(assets))
	for i, a := range assets {
		paths[i] = a.Path
	}
	c.entries.Store(themeID, paths)
	return nil
}

// Remove evicts a deleted theme's entry.
func (c *ThemeAssets) Remove(themeID string) {
	c.entries.Delete(themeID)
}
