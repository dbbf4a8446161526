package store

import (
	"context"

	"github.com/inkwell-cms/core/internal/docstore"
	"github.com/inkwell-cms/core/internal/markdown"
	"github.com/inkwell-cms/core/internal/models"
	"github.com/inkwell-cms/core/internal/relsync"
	"gorm.io/gorm"
)

// PostStore persists posts: the serialized document plus revision,
// prior-permalink, category-assignment and tag side tables.
type PostStore struct {
	db   *gorm.DB
	docs *docstore.Repository[models.Post]
}

func NewPostStore(db *gorm.DB, codec docstore.Serializer) *PostStore {
	return &PostStore{db: db, docs: docstore.NewRepository[models.Post](db, postTable, codec)}
}

func publishedOnly() docstore.Scope {
	return docstore.DataEquals(string(models.Published), "status")
}

// attach loads the side collections for a full read. Revisions come back
// newest first.
func (s *PostStore) attach(ctx context.Context, post *models.Post) error {
	var revs []models.PostRevisionRow
	err := s.db.WithContext(ctx).
		Where("post_id = ?", post.ID).Order("as_of DESC").Find(&revs).Error
	if err != nil {
		return err
	}
	post.Revisions = make([]models.Revision, len(revs))
	for i, r := range revs {
		post.Revisions[i] = models.Revision{AsOf: r.AsOf, Text: r.Text}
	}

	var links []models.PostPermalinkRow
	if err := s.db.WithContext(ctx).Where("post_id = ?", post.ID).Find(&links).Error; err != nil {
		return err
	}
	post.PriorPermalinks = make([]string, len(links))
	for i, l := range links {
		post.PriorPermalinks[i] = l.Permalink
	}

	var meta []models.PostMetaRow
	if err := s.db.WithContext(ctx).Where("post_id = ?", post.ID).Order("name ASC").Find(&meta).Error; err != nil {
		return err
	}
	post.Meta = make([]models.MetaItem, len(meta))
	for i, m := range meta {
		post.Meta[i] = models.MetaItem{Name: m.Name, Value: m.Value}
	}
	return nil
}

// FindByID returns the full post, side collections included.
func (s *PostStore) FindByID(ctx context.Context, webLogID, id string) (*models.Post, error) {
	post, err := s.docs.FindByID(ctx, webLogID, id)
	if err != nil || post == nil {
		return post, err
	}
	return post, s.attach(ctx, post)
}

// FindByPermalink matches a post's current permalink and returns the full
// post.
func (s *PostStore) FindByPermalink(ctx context.Context, webLogID, permalink string) (*models.Post, error) {
	post, err := s.docs.First(ctx, webLogID, docstore.DataEquals(permalink, "permalink"))
	if err != nil || post == nil {
		return post, err
	}
	return post, s.attach(ctx, post)
}

// FindCurrentPermalink matches permalink against the historical permalink
// set and returns the owning post's current permalink, so a renamed post
// can redirect. Returns "" when no prior permalink matches.
func (s *PostStore) FindCurrentPermalink(ctx context.Context, webLogID, permalink string) (string, error) {
	sub := s.db.Model(&models.PostPermalinkRow{}).
		Select("post_id").Where("permalink = ?", permalink)
	post, err := s.docs.First(ctx, webLogID, func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)", sub)
	})
	if err != nil || post == nil {
		return "", err
	}
	return post.Permalink, nil
}

// FindFullByWebLog returns every post the web log owns, side collections
// included.
func (s *PostStore) FindFullByWebLog(ctx context.Context, webLogID string) ([]*models.Post, error) {
	posts, err := s.docs.Find(ctx, webLogID)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		if err := s.attach(ctx, p); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// FindPageOfPosts returns a page of posts for the admin list: every
// status, newest updates first, body text omitted.
func (s *PostStore) FindPageOfPosts(ctx context.Context, webLogID string, page, perPage int) ([]*models.Post, error) {
	return s.docs.Find(ctx, webLogID,
		docstore.WithoutDataFields("text"),
		docstore.OrderByData("updatedOn", true),
		docstore.Window(page, perPage))
}

// FindPageOfPublishedPosts returns a page of published posts, newest
// first, body text omitted.
func (s *PostStore) FindPageOfPublishedPosts(ctx context.Context, webLogID string, page, perPage int) ([]*models.Post, error) {
	return s.docs.Find(ctx, webLogID,
		publishedOnly(),
		docstore.WithoutDataFields("text"),
		docstore.OrderByData("publishedOn", true),
		docstore.Window(page, perPage))
}

// FindPageOfCategorizedPosts returns published posts assigned to any of
// the given category ids. Callers pass a category together with its
// descendants to include child-category posts.
func (s *PostStore) FindPageOfCategorizedPosts(ctx context.Context, webLogID string, categoryIDs []string, page, perPage int) ([]*models.Post, error) {
	sub := s.db.Model(&models.PostCategoryRow{}).
		Select("post_id").Where("category_id IN ?", categoryIDs)
	return s.docs.Find(ctx, webLogID,
		publishedOnly(),
		func(db *gorm.DB) *gorm.DB { return db.Where("id IN (?)", sub) },
		docstore.WithoutDataFields("text"),
		docstore.OrderByData("publishedOn", true),
		docstore.Window(page, perPage))
}

// FindPageOfTaggedPosts returns published posts carrying the tag.
func (s *PostStore) FindPageOfTaggedPosts(ctx context.Context, webLogID, tag string, page, perPage int) ([]*models.Post, error) {
	sub := s.db.Model(&models.PostTagRow{}).
		Select("post_id").Where("tag = ?", tag)
	return s.docs.Find(ctx, webLogID,
		publishedOnly(),
		func(db *gorm.DB) *gorm.DB { return db.Where("id IN (?)", sub) },
		docstore.WithoutDataFields("text"),
		docstore.OrderByData("publishedOn", true),
		docstore.Window(page, perPage))
}

// CountByStatus counts the web log's posts in the given status.
func (s *PostStore) CountByStatus(ctx context.Context, webLogID string, status models.PostStatus) (int64, error) {
	return s.docs.Count(ctx, webLogID, docstore.DataEquals(string(status), "status"))
}

// HasAnyByAuthor reports whether the user authored any post.
func (s *PostStore) HasAnyByAuthor(ctx context.Context, webLogID, userID string) (bool, error) {
	n, err := s.docs.Count(ctx, webLogID, docstore.DataEquals(userID, "authorId"))
	return n > 0, err
}

// Add stores a new post and its side collections. An empty id is
// generated; an empty text is derived by rendering the newest revision's
// source.
func (s *PostStore) Add(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = models.NewID()
	}
	normalizePostTimes(post)
	if err := derivePostText(post); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.docs.WithTx(tx).Insert(ctx, post.WebLogID, post.ID, post); err != nil {
			return err
		}
		return s.syncSideTables(tx, post, nil, nil, nil, nil, nil)
	})
}

// Update replaces the post document and reconciles its side collections in
// one transaction. It reports false when the post does not exist for this
// web log.
func (s *PostStore) Update(ctx context.Context, post *models.Post) (bool, error) {
	normalizePostTimes(post)
	if err := derivePostText(post); err != nil {
		return false, err
	}
	found := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.docs.WithTx(tx).Replace(ctx, post.WebLogID, post.ID, post)
		if err != nil || !ok {
			return err
		}
		found = true

		oldRevs, oldLinks, oldCats, oldTags, oldMeta, err := s.loadSideState(tx, post.ID)
		if err != nil {
			return err
		}
		return s.syncSideTables(tx, post, oldRevs, oldLinks, oldCats, oldTags, oldMeta)
	})
	return found, err
}

// UpdatePriorPermalinks replaces only the prior-permalink set, reporting
// false when the post does not exist.
func (s *PostStore) UpdatePriorPermalinks(ctx context.Context, webLogID, id string, permalinks []string) (bool, error) {
	exists, err := s.docs.Exists(ctx, webLogID, id)
	if err != nil || !exists {
		return false, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old []models.PostPermalinkRow
		if err := tx.Where("post_id = ?", id).Find(&old).Error; err != nil {
			return err
		}
		oldLinks := make([]string, len(old))
		for i, l := range old {
			oldLinks[i] = l.Permalink
		}
		plan := relsync.Diff(oldLinks, permalinks, func(p string) string { return p })
		return relsync.Apply(plan,
			func(p string) error {
				return tx.Where("post_id = ? AND permalink = ?", id, p).Delete(&models.PostPermalinkRow{}).Error
			},
			func(p string) error {
				return tx.Create(&models.PostPermalinkRow{PostID: id, Permalink: p}).Error
			})
	})
	return err == nil, err
}

// Delete removes the post and every side row it owns, reporting false when
// no post matched.
func (s *PostStore) Delete(ctx context.Context, webLogID, id string) (bool, error) {
	exists, err := s.docs.Exists(ctx, webLogID, id)
	if err != nil || !exists {
		return false, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deletePostSideRows(tx, id); err != nil {
			return err
		}
		return s.docs.WithTx(tx).Delete(ctx, webLogID, id)
	})
	return err == nil, err
}

// Restore replaces any existing copies of the given posts, used when
// loading a web log from a backup.
func (s *PostStore) Restore(ctx context.Context, posts []*models.Post) error {
	for _, post := range posts {
		if _, err := s.Delete(ctx, post.WebLogID, post.ID); err != nil {
			return err
		}
		if err := s.Add(ctx, post); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostStore) loadSideState(tx *gorm.DB, postID string) (revs []models.Revision, links, cats, tags []string, meta []models.MetaItem, err error) {
	var revRows []models.PostRevisionRow
	if err = tx.Where("post_id = ?", postID).Find(&revRows).Error; err != nil {
		return
	}
	revs = make([]models.Revision, len(revRows))
	for i, r := range revRows {
		revs[i] = models.Revision{AsOf: r.AsOf, Text: r.Text}
	}

	var linkRows []models.PostPermalinkRow
	if err = tx.Where("post_id = ?", postID).Find(&linkRows).Error; err != nil {
		return
	}
	for _, l := range linkRows {
		links = append(links, l.Permalink)
	}

	var catRows []models.PostCategoryRow
	if err = tx.Where("post_id = ?", postID).Find(&catRows).Error; err != nil {
		return
	}
	for _, c := range catRows {
		cats = append(cats, c.CategoryID)
	}

	var tagRows []models.PostTagRow
	if err = tx.Where("post_id = ?", postID).Find(&tagRows).Error; err != nil {
		return
	}
	for _, t := range tagRows {
		tags = append(tags, t.Tag)
	}

	var metaRows []models.PostMetaRow
	if err = tx.Where("post_id = ?", postID).Find(&metaRows).Error; err != nil {
		return
	}
	for _, m := range metaRows {
		meta = append(meta, models.MetaItem{Name: m.Name, Value: m.Value})
	}
	return
}

// syncSideTables reconciles every side collection against the desired
// state carried on the post. Revisions diff by timestamp alone: a revision
// whose text changed under an unchanged timestamp is treated as the same
// item and not rewritten.
func (s *PostStore) syncSideTables(tx *gorm.DB, post *models.Post, oldRevs []models.Revision, oldLinks, oldCats, oldTags []string, oldMeta []models.MetaItem) error {
	id := post.ID

	revPlan := relsync.Diff(oldRevs, post.Revisions, func(r models.Revision) int64 { return r.AsOf.UnixMilli() })
	if err := relsync.Apply(revPlan,
		func(r models.Revision) error {
			return tx.Where("post_id = ? AND as_of = ?", id, r.AsOf).Delete(&models.PostRevisionRow{}).Error
		},
		func(r models.Revision) error {
			return tx.Create(&models.PostRevisionRow{PostID: id, AsOf: r.AsOf, Text: r.Text}).Error
		}); err != nil {
		return err
	}

	linkPlan := relsync.Diff(oldLinks, post.PriorPermalinks, func(p string) string { return p })
	if err := relsync.Apply(linkPlan,
		func(p string) error {
			return tx.Where("post_id = ? AND permalink = ?", id, p).Delete(&models.PostPermalinkRow{}).Error
		},
		func(p string) error {
			return tx.Create(&models.PostPermalinkRow{PostID: id, Permalink: p}).Error
		}); err != nil {
		return err
	}

	catPlan := relsync.Diff(oldCats, post.CategoryIDs, func(c string) string { return c })
	if err := relsync.Apply(catPlan,
		func(c string) error {
			return tx.Where("post_id = ? AND category_id = ?", id, c).Delete(&models.PostCategoryRow{}).Error
		},
		func(c string) error {
			return tx.Create(&models.PostCategoryRow{PostID: id, CategoryID: c}).Error
		}); err != nil {
		return err
	}

	tagPlan := relsync.Diff(oldTags, post.Tags, func(t string) string { return t })
	if err := relsync.Apply(tagPlan,
		func(t string) error {
			return tx.Where("post_id = ? AND tag = ?", id, t).Delete(&models.PostTagRow{}).Error
		},
		func(t string) error {
			return tx.Create(&models.PostTagRow{PostID: id, Tag: t}).Error
		}); err != nil {
		return err
	}

	// Metadata pairs key by name and value together: renaming either side
	// replaces the row.
	type metaKey struct{ Name, Value string }
	metaPlan := relsync.Diff(oldMeta, post.Meta, func(m models.MetaItem) metaKey { return metaKey{m.Name, m.Value} })
	return relsync.Apply(metaPlan,
		func(m models.MetaItem) error {
			return tx.Where("post_id = ? AND name = ? AND value = ?", id, m.Name, m.Value).Delete(&models.PostMetaRow{}).Error
		},
		func(m models.MetaItem) error {
			return tx.Create(&models.PostMetaRow{PostID: id, Name: m.Name, Value: m.Value}).Error
		})
}

func deletePostSideRows(tx *gorm.DB, postID string) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostRevisionRow{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostPermalinkRow{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostCategoryRow{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostTagRow{}).Error; err != nil {
		return err
	}
	return tx.Where("post_id = ?", postID).Delete(&models.PostMetaRow{}).Error
}

// derivePostText renders the newest revision's source into the stored
// HTML when the caller did not supply it.
func derivePostText(post *models.Post) error {
	if post.Text != "" || len(post.Revisions) == 0 {
		return nil
	}
	newest := post.Revisions[0]
	for _, r := range post.Revisions[1:] {
		if r.AsOf.After(newest.AsOf) {
			newest = r
		}
	}
	text, err := markdown.RenderItemText(newest.Text)
	if err != nil {
		return err
	}
	post.Text = text
	return nil
}

// Stored timestamps are normalized to UTC so the RFC 3339 strings in the
// document order correctly under JSON_EXTRACT.
func normalizePostTimes(post *models.Post) {
	if post.PublishedOn != nil {
		t := post.PublishedOn.UTC()
		post.PublishedOn = &t
	}
	post.UpdatedOn = post.UpdatedOn.UTC()
	for i := range post.Revisions {
		post.Revisions[i].AsOf = post.Revisions[i].AsOf.UTC()
	}
}
