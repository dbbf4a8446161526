package cache

import (
	"context"
	"sync"

	"github.com/inkwell-cms/core/internal/models"
	"github.com/inkwell-cms/core/internal/store"
)

// PageList caches each web log's listed navigation pages, body text
// stripped. Refreshed explicitly when a page's listed flag or visibility
// changes.
type PageList struct {
	entries sync.Map // web log id -> []*models.Page
	pages   *store.PageStore
}

func NewPageList(pages *store.PageStore) *PageList {
	return &PageList{pages: pages}
}

// Get returns the cached listed pages, or ErrNotFilled when Update has
// never run for this web log.
func (c *PageList) Get(webLogID string) ([]*models.Page, error) {
	v, ok := c.entries.Load(webLogID)
	if !ok {
		return nil, ErrNotFilled
	}
	return v.([]*models.Page), nil
}

// Exists reports whether the web log has a cached entry.
func (c *PageList) Exists(webLogID string) bool {
	_, ok := c.entries.Load(webLogID)
	return ok
}

// Update recomputes the listed-page set from the store and replaces the
// cached entry.
func (c *PageList) Update(ctx context.Context, webLogID string) error {
	pages, err := c.pages.FindListed(ctx, webLogID)
	if err != nil {
		return err
	}
	c.entries.Store(webLogID, pages)
	return nil
}

// Remove evicts a deleted web log's entry.
func (c *PageList) Remove(webLogID string) {
	c.entries.Delete(webLogID)
}
