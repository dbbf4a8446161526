package cache

import (
	"context"
	"sync"

	"github.com/inkwell-cms/core/internal/models"
	"github.com/inkwell-cms/core/internal/store"
)

// Categories caches each web log's materialized category hierarchy.
// Refreshed explicitly after any category or post-category mutation.
type Categories struct {
	entries sync.Map // web log id -> []*models.DisplayCategory
	cats    *store.CategoryStore
}

func NewCategories(cats *store.CategoryStore) *Categories {
	return &Categories{cats: cats}
}

// Get returns the cached hierarchy, or ErrNotFilled when Update has never
// run for this web log.
func (c *Categories) Get(webLogID string) ([]*models.DisplayCategory, error) {
	v, ok := c.entries.Load(webLogID)
	if !ok {
		return nil, ErrNotFilled
	}
	return v.([]*models.DisplayCategory), nil
}

// Exists reports whether the web log has a cached entry.
func (c *Categories) Exists(webLogID string) bool {
	_, ok := c.entries.Load(webLogID)
	return ok
}

// Update rematerializes the hierarchy from the store and replaces the
// cached entry.
func (c *Categories) Update(ctx context.Context, webLogID string) error {
	display, err := c.cats.FindAllForView(ctx, webLogID)
	if err != nil {
		return err
	}
	c.entries.Store(webLogID, display)
	return nil
}

// Remove evicts a deleted web log's entry.
func (c *Categories) Remove(webLogID string) {
	c.entries.Delete(webLogID)
}
