package store

import (
	"context"
	"sort"
	"strings"

	"github.com/inkwell-cms/core/internal/docstore"
	"github.com/inkwell-cms/core/internal/models"
	"gorm.io/gorm"
)

// CategoryStore persists categories and materializes the category
// hierarchy with aggregate published-post counts.
type CategoryStore struct {
	db   *gorm.DB
	docs *docstore.Repository[models.Category]
}

func NewCategoryStore(db *gorm.DB, codec docstore.Serializer) *CategoryStore {
	return &CategoryStore{db: db, docs: docstore.NewRepository[models.Category](db, categoryTable, codec)}
}

// FindByID returns the category, or (nil, nil).
func (s *CategoryStore) FindByID(ctx context.Context, webLogID, id string) (*models.Category, error) {
	return s.docs.FindByID(ctx, webLogID, id)
}

// FindBySlug returns the category with the given slug, or (nil, nil).
func (s *CategoryStore) FindBySlug(ctx context.Context, webLogID, slug string) (*models.Category, error) {
	return s.docs.First(ctx, webLogID, docstore.DataEquals(slug, "slug"))
}

// FindByWebLog returns the web log's categories sorted case-insensitively
// by name.
func (s *CategoryStore) FindByWebLog(ctx context.Context, webLogID string) ([]*models.Category, error) {
	cats, err := s.docs.Find(ctx, webLogID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(cats, func(i, j int) bool {
		return strings.ToLower(cats[i].Name) < strings.ToLower(cats[j].Name)
	})
	return cats, nil
}

// CountAll counts the web log's categories.
func (s *CategoryStore) CountAll(ctx context.Context, webLogID string) (int64, error) {
	return s.docs.Count(ctx, webLogID)
}

// CountTopLevel counts categories without a parent.
func (s *CategoryStore) CountTopLevel(ctx context.Context, webLogID string) (int64, error) {
	cats, err := s.docs.Find(ctx, webLogID)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, c := range cats {
		if c.ParentID == nil {
			n++
		}
	}
	return n, nil
}

// FindAllForView materializes the ordered category forest with ancestor
// name chains and aggregate post counts. A category's count includes every
// distinct published post assigned to it or to any of its descendants.
func (s *CategoryStore) FindAllForView(ctx context.Context, webLogID string) ([]*models.DisplayCategory, error) {
	cats, err := s.docs.Find(ctx, webLogID)
	if err != nil {
		return nil, err
	}
	display, groups, err := materializeForest(cats)
	if err != nil {
		return nil, err
	}
	if len(display) == 0 {
		return display, nil
	}

	publishedIDs, err := docstore.NewRepository[models.Post](s.db, postTable, nil).
		FindIDs(ctx, webLogID, publishedOnly())
	if err != nil {
		return nil, err
	}
	published := make(map[string]struct{}, len(publishedIDs))
	for _, id := range publishedIDs {
		published[id] = struct{}{}
	}

	var assignments []models.PostCategoryRow
	if err := s.db.WithContext(ctx).Find(&assignments).Error; err != nil {
		return nil, err
	}
	postsByCat := make(map[string]map[string]struct{})
	for _, a := range assignments {
		if _, ok := published[a.PostID]; !ok {
			continue
		}
		if postsByCat[a.CategoryID] == nil {
			postsByCat[a.CategoryID] = make(map[string]struct{})
		}
		postsByCat[a.CategoryID][a.PostID] = struct{}{}
	}

	for _, d := range display {
		distinct := make(map[string]struct{})
		for _, catID := range groups[d.ID] {
			for postID := range postsByCat[catID] {
				distinct[postID] = struct{}{}
			}
		}
		d.PostCount = len(distinct)
	}
	return display, nil
}

// Add stores a new category, generating an id when none is set.
func (s *CategoryStore) Add(ctx context.Context, cat *models.Category) error {
	if cat.ID == "" {
		cat.ID = models.NewID()
	}
	return s.docs.Insert(ctx, cat.WebLogID, cat.ID, cat)
}

// Update replaces the category document, reporting false when it does not
// exist for this web log.
func (s *CategoryStore) Update(ctx context.Context, cat *models.Category) (bool, error) {
	return s.docs.Replace(ctx, cat.WebLogID, cat.ID, cat)
}

// Delete removes the category. Child categories are reassigned to the
// deleted category's parent, and post assignments pointing at it are
// dropped, all in one transaction. Reports false when no category matched.
func (s *CategoryStore) Delete(ctx context.Context, webLogID, id string) (bool, error) {
	cat, err := s.docs.FindByID(ctx, webLogID, id)
	if err != nil || cat == nil {
		return false, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		docs := s.docs.WithTx(tx)
		children, err := docs.Find(ctx, webLogID, docstore.DataEquals(id, "parentId"))
		if err != nil {
			return err
		}
		for _, child := range children {
			child.ParentID = cat.ParentID
			if _, err := docs.Replace(ctx, webLogID, child.ID, child); err != nil {
				return err
			}
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.PostCategoryRow{}).Error; err != nil {
			return err
		}
		return docs.Delete(ctx, webLogID, id)
	})
	return err == nil, err
}
