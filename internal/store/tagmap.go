package store

import (
	"context"
	"sort"
	"strings"

	"github.com/inkwell-cms/core/internal/docstore"
	"github.com/inkwell-cms/core/internal/models"
	"gorm.io/gorm"
)

// TagMapStore persists tag-to-URL-value mappings.
type TagMapStore struct {
	db   *gorm.DB
	docs *docstore.Repository[models.TagMap]
}

func NewTagMapStore(db *gorm.DB, codec docstore.Serializer) *TagMapStore {
	return &TagMapStore{db: db, docs: docstore.NewRepository[models.TagMap](db, tagMapTable, codec)}
}

// FindByID returns the mapping, or (nil, nil).
func (s *TagMapStore) FindByID(ctx context.Context, webLogID, id string) (*models.TagMap, error) {
	return s.docs.FindByID(ctx, webLogID, id)
}

// FindByURLValue returns the mapping whose URL value matches, or
// (nil, nil).
func (s *TagMapStore) FindByURLValue(ctx context.Context, webLogID, urlValue string) (*models.TagMap, error) {
	return s.docs.First(ctx, webLogID, docstore.DataEquals(urlValue, "urlValue"))
}

// FindByWebLog returns the web log's mappings ordered by tag.
func (s *TagMapStore) FindByWebLog(ctx context.Context, webLogID string) ([]*models.TagMap, error) {
	maps, err := s.docs.Find(ctx, webLogID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(maps, func(i, j int) bool {
		return strings.ToLower(maps[i].Tag) < strings.ToLower(maps[j].Tag)
	})
	return maps, nil
}

// FindMappingForTags returns the mappings covering any of the given tags.
func (s *TagMapStore) FindMappingForTags(ctx context.Context, webLogID string, tags []string) ([]*models.TagMap, error) {
	all, err := s.FindByWebLog(ctx, webLogID)
	if err != nil {
		return nil, err
	}
	want := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		want[t] = struct{}{}
	}
	var matched []*models.TagMap
	for _, m := range all {
		if _, ok := want[m.Tag]; ok {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// Save inserts the mapping or replaces an existing one with the same id.
func (s *TagMapStore) Save(ctx context.Context, tagMap *models.TagMap) error {
	if tagMap.ID == "" {
		tagMap.ID = models.NewID()
	}
	exists, err := s.docs.Exists(ctx, tagMap.WebLogID, tagMap.ID)
	if err != nil {
		return err
	}
	if exists {
		_, err = s.docs.Replace(ctx, tagMap.WebLogID, tagMap.ID, tagMap)
		return err
	}
	return s.docs.Insert(ctx, tagMap.WebLogID, tagMap.ID, tagMap)
}

// Delete removes the mapping, reporting false when none matched.
func (s *TagMapStore) Delete(ctx context.Context, webLogID, id string) (bool, error) {
	exists, err := s.docs.Exists(ctx, webLogID, id)
	if err != nil || !exists {
		return false, err
	}
	if err := s.docs.Delete(ctx, webLogID, id); err != nil {
		return false, err
	}
	return true, nil
}
