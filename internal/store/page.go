package store

import (
	"context"

	"github.com/inkwell-cms/core/internal/docstore"
	"github.com/inkwell-cms/core/internal/markdown"
	"github.com/inkwell-cms/core/internal/models"
	"github.com/inkwell-cms/core/internal/relsync"
	"gorm.io/gorm"
)

// PageStore persists pages: the serialized document plus revision,
// prior-permalink and metadata side tables.
type PageStore struct {
	db   *gorm.DB
	docs *docstore.Repository[models.Page]
}

func NewPageStore(db *gorm.DB, codec docstore.Serializer) *PageStore {
	return &PageStore{db: db, docs: docstore.NewRepository[models.Page](db, pageTable, codec)}
}

func (s *PageStore) attach(ctx context.Context, page *models.Page) error {
	var revs []models.PageRevisionRow
	err := s.db.WithContext(ctx).
		Where("page_id = ?", page.ID).Order("as_of DESC").Find(&revs).Error
	if err != nil {
		return err
	}
	page.Revisions = make([]models.Revision, len(revs))
	for i, r := range revs {
		page.Revisions[i] = models.Revision{AsOf: r.AsOf, Text: r.Text}
	}

	var links []models.PagePermalinkRow
	if err := s.db.WithContext(ctx).Where("page_id = ?", page.ID).Find(&links).Error; err != nil {
		return err
	}
	page.PriorPermalinks = make([]string, len(links))
	for i, l := range links {
		page.PriorPermalinks[i] = l.Permalink
	}

	var meta []models.PageMetaRow
	if err := s.db.WithContext(ctx).Where("page_id = ?", page.ID).Order("name ASC").Find(&meta).Error; err != nil {
		return err
	}
	page.Meta = make([]models.MetaItem, len(meta))
	for i, m := range meta {
		page.Meta[i] = models.MetaItem{Name: m.Name, Value: m.Value}
	}
	return nil
}

// FindByID returns the full page, side collections included.
func (s *PageStore) FindByID(ctx context.Context, webLogID, id string) (*models.Page, error) {
	page, err := s.docs.FindByID(ctx, webLogID, id)
	if err != nil || page == nil {
		return page, err
	}
	return page, s.attach(ctx, page)
}

// FindByPermalink matches a page's current permalink and returns the full
// page.
func (s *PageStore) FindByPermalink(ctx context.Context, webLogID, permalink string) (*models.Page, error) {
	page, err := s.docs.First(ctx, webLogID, docstore.DataEquals(permalink, "permalink"))
	if err != nil || page == nil {
		return page, err
	}
	return page, s.attach(ctx, page)
}

// FindCurrentPermalink resolves a page's prior permalink to its current
// one, or "" when nothing matches.
func (s *PageStore) FindCurrentPermalink(ctx context.Context, webLogID, permalink string) (string, error) {
	sub := s.db.Model(&models.PagePermalinkRow{}).
		Select("page_id").Where("permalink = ?", permalink)
	page, err := s.docs.First(ctx, webLogID, func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)", sub)
	})
	if err != nil || page == nil {
		return "", err
	}
	return page.Permalink, nil
}

// FindListed returns the web log's navigation pages, body text omitted,
// ordered by title. This is the page-list cache's fill query.
func (s *PageStore) FindListed(ctx context.Context, webLogID string) ([]*models.Page, error) {
	return s.docs.Find(ctx, webLogID,
		docstore.DataEquals(true, "isInPageList"),
		docstore.WithoutDataFields("text"),
		docstore.OrderByData("title", false))
}

// FindPageOfPages returns a page of pages for the admin list, body text
// omitted, ordered by title.
func (s *PageStore) FindPageOfPages(ctx context.Context, webLogID string, page, perPage int) ([]*models.Page, error) {
	return s.docs.Find(ctx, webLogID,
		docstore.WithoutDataFields("text"),
		docstore.OrderByData("title", false),
		docstore.Window(page, perPage))
}

// FindFullByWebLog returns every page the web log owns, side collections
// included.
func (s *PageStore) FindFullByWebLog(ctx context.Context, webLogID string) ([]*models.Page, error) {
	pages, err := s.docs.Find(ctx, webLogID)
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		if err := s.attach(ctx, p); err != nil {
			return nil, err
		}
	}
	return pages, nil
}

// CountAll counts the web log's pages.
func (s *PageStore) CountAll(ctx context.Context, webLogID string) (int64, error) {
	return s.docs.Count(ctx, webLogID)
}

// CountListed counts the pages shown in site navigation.
func (s *PageStore) CountListed(ctx context.Context, webLogID string) (int64, error) {
	return s.docs.Count(ctx, webLogID, docstore.DataEquals(true, "isInPageList"))
}

// HasAnyByAuthor reports whether the user authored any page.
func (s *PageStore) HasAnyByAuthor(ctx context.Context, webLogID, userID string) (bool, error) {
	n, err := s.docs.Count(ctx, webLogID, docstore.DataEquals(userID, "authorId"))
	return n > 0, err
}

// Add stores a new page and its side collections. An empty id is
// generated; an empty text is derived by rendering the newest revision's
// source.
func (s *PageStore) Add(ctx context.Context, page *models.Page) error {
	if page.ID == "" {
		page.ID = models.NewID()
	}
	normalizePageTimes(page)
	if err := derivePageText(page); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.docs.WithTx(tx).Insert(ctx, page.WebLogID, page.ID, page); err != nil {
			return err
		}
		return s.syncSideTables(tx, page, nil, nil, nil)
	})
}

// Update replaces the page document and reconciles its side collections in
// one transaction, reporting false when the page does not exist.
func (s *PageStore) Update(ctx context.Context, page *models.Page) (bool, error) {
	normalizePageTimes(page)
	if err := derivePageText(page); err != nil {
		return false, err
	}
	found := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.docs.WithTx(tx).Replace(ctx, page.WebLogID, page.ID, page)
		if err != nil || !ok {
			return err
		}
		found = true

		oldRevs, oldLinks, oldMeta, err := s.loadSideState(tx, page.ID)
		if err != nil {
			return err
		}
		return s.syncSideTables(tx, page, oldRevs, oldLinks, oldMeta)
	})
	return found, err
}

// UpdatePriorPermalinks replaces only the prior-permalink set, reporting
// false when the page does not exist.
func (s *PageStore) UpdatePriorPermalinks(ctx context.Context, webLogID, id string, permalinks []string) (bool, error) {
	exists, err := s.docs.Exists(ctx, webLogID, id)
	if err != nil || !exists {
		return false, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old []models.PagePermalinkRow
		if err := tx.Where("page_id = ?", id).Find(&old).Error; err != nil {
			return err
		}
		oldLinks := make([]string, len(old))
		for i, l := range old {
			oldLinks[i] = l.Permalink
		}
		plan := relsync.Diff(oldLinks, permalinks, func(p string) string { return p })
		return relsync.Apply(plan,
			func(p string) error {
				return tx.Where("page_id = ? AND permalink = ?", id, p).Delete(&models.PagePermalinkRow{}).Error
			},
			func(p string) error {
				return tx.Create(&models.PagePermalinkRow{PageID: id, Permalink: p}).Error
			})
	})
	return err == nil, err
}

// Delete removes the page and its side rows, reporting false when no page
// matched.
func (s *PageStore) Delete(ctx context.Context, webLogID, id string) (bool, error) {
	exists, err := s.docs.Exists(ctx, webLogID, id)
	if err != nil || !exists {
		return false, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deletePageSideRows(tx, id); err != nil {
			return err
		}
		return s.docs.WithTx(tx).Delete(ctx, webLogID, id)
	})
	return err == nil, err
}

// Restore replaces any existing copies of the given pages.
func (s *PageStore) Restore(ctx context.Context, pages []*models.Page) error {
	for _, page := range pages {
		if _, err := s.Delete(ctx, page.WebLogID, page.ID); err != nil {
			return err
		}
		if err := s.Add(ctx, page); err != nil {
			return err
		}
	}
	return nil
}

func (s *PageStore) loadSideState(tx *gorm.DB, pageID string) (revs []models.Revision, links []string, meta []models.MetaItem, err error) {
	var revRows []models.PageRevisionRow
	if err = tx.Where("page_id = ?", pageID).Find(&revRows).Error; err != nil {
		return
	}
	revs = make([]models.Revision, len(revRows))
	for i, r := range revRows {
		revs[i] = models.Revision{AsOf: r.AsOf, Text: r.Text}
	}

	var linkRows []models.PagePermalinkRow
	if err = tx.Where("page_id = ?", pageID).Find(&linkRows).Error; err != nil {
		return
	}
	for _, l := range linkRows {
		links = append(links, l.Permalink)
	}

	var metaRows []models.PageMetaRow
	if err = tx.Where("page_id = ?", pageID).Find(&metaRows).Error; err != nil {
		return
	}
	for _, m := range metaRows {
		meta = append(meta, models.MetaItem{Name: m.Name, Value: m.Value})
	}
	return
}

func (s *PageStore) syncSideTables(tx *gorm.DB, page *models.Page, oldRevs []models.Revision, oldLinks []string, oldMeta []models.MetaItem) error {
	id := page.ID

	revPlan := relsync.Diff(oldRevs, page.Revisions, func(r models.Revision) int64 { return r.AsOf.UnixMilli() })
	if err := relsync.Apply(revPlan,
		func(r models.Revision) error {
			return tx.Where("page_id = ? AND as_of = ?", id, r.AsOf).Delete(&models.PageRevisionRow{}).Error
		},
		func(r models.Revision) error {
			return tx.Create(&models.PageRevisionRow{PageID: id, AsOf: r.AsOf, Text: r.Text}).Error
		}); err != nil {
		return err
	}

	linkPlan := relsync.Diff(oldLinks, page.PriorPermalinks, func(p string) string { return p })
	if err := relsync.Apply(linkPlan,
		func(p string) error {
			return tx.Where("page_id = ? AND permalink = ?", id, p).Delete(&models.PagePermalinkRow{}).Error
		},
		func(p string) error {
			return tx.Create(&models.PagePermalinkRow{PageID: id, Permalink: p}).Error
		}); err != nil {
		return err
	}

	// Metadata pairs key by name and value together: renaming either side
	// replaces the row.
	type metaKey struct{ Name, Value string }
	metaPlan := relsync.Diff(oldMeta, page.Meta, func(m models.MetaItem) metaKey { return metaKey{m.Name, m.Value} })
	return relsync.Apply(metaPlan,
		func(m models.MetaItem) error {
			return tx.Where("page_id = ? AND name = ? AND value = ?", id, m.Name, m.Value).Delete(&models.PageMetaRow{}).Error
		},
		func(m models.MetaItem) error {
			return tx.Create(&models.PageMetaRow{PageID: id, Name: m.Name, Value: m.Value}).Error
		})
}

func deletePageSideRows(tx *gorm.DB, pageID string) error {
	if err := tx.Where("page_id = ?", pageID).Delete(&models.PageRevisionRow{}).Error; err != nil {
		return err
	}
	if err := tx.Where("page_id = ?", pageID).Delete(&models.PagePermalinkRow{}).Error; err != nil {
		return err
	}
	return tx.Where("page_id = ?", pageID).Delete(&models.PageMetaRow{}).Error
}

func derivePageText(page *models.Page) error {
	if page.Text != "" || len(page.Revisions) == 0 {
		return nil
	}
	newest := page.Revisions[0]
	for _, r := range page.Revisions[1:] {
		if r.AsOf.After(newest.AsOf) {
			newest = r
		}
	}
	text, err := markdown.RenderItemText(newest.Text)
	if err != nil {
		return err
	}
	page.Text = text
	return nil
}

func normalizePageTimes(page *models.Page) {
	page.PublishedOn = page.PublishedOn.UTC()
	page.UpdatedOn = page.UpdatedOn.UTC()
	for i := range page.Revisions {
		page.Revisions[i].AsOf = page.Revisions[i].AsOf.UTC()
	}
}
