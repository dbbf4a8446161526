package store_test

import (
	"context"
	"testing"

	"github.com/inkwell-cms/core/internal/models"
	"github.com/inkwell-cms/core/internal/store"
	"github.com/inkwell-cms/core/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagMapSaveAndLookup(t *testing.T) {
	db := tester.NewDB(t)
	seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")
	tagMaps := store.NewTagMapStore(db, nil)
	ctx := context.Background()

	require.NoError(t, tagMaps.Save(ctx, &models.TagMap{
		ID: "tm1", WebLogID: "log-a", Tag: "C#", URLValue: "c-sharp",
	}))

	out, err := tagMaps.FindByURLValue(ctx, "log-a", "c-sharp")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "C#", out.Tag)

	// Save with an existing id replaces the mapping.
	require.NoError(t, tagMaps.Save(ctx, &models.TagMap{
		ID: "tm1", WebLogID: "log-a", Tag: "C#", URLValue: "csharp",
	}))

	out, err = tagMaps.FindByID(ctx, "log-a", "tm1")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "csharp", out.URLValue)

	out, err = tagMaps.FindByURLValue(ctx, "log-a", "c-sharp")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestTagMapFindMappingForTags(t *testing.T) {
	db := tester.NewDB(t)
	seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")
	tagMaps := store.NewTagMapStore(db, nil)
	ctx := context.Background()

	require.NoError(t, tagMaps.Save(ctx, &models.TagMap{ID: "tm1", WebLogID: "log-a", Tag: "C#", URLValue: "c-sharp"}))
	require.NoError(t, tagMaps.Save(ctx, &models.TagMap{ID: "tm2", WebLogID: "log-a", Tag: "F#", URLValue: "f-sharp"}))
	require.NoError(t, tagMaps.Save(ctx, &models.TagMap{ID: "tm3", WebLogID: "log-a", Tag: "go", URLValue: "golang"}))

	matched, err := tagMaps.FindMappingForTags(ctx, "log-a", []string{"C#", "go", "unmapped"})
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "C#", matched[0].Tag)
	assert.Equal(t, "go", matched[1].Tag)
}

func TestTagMapListOrderedByTag(t *testing.T) {
	db := tester.NewDB(t)
	seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")
	tagMaps := store.NewTagMapStore(db, nil)
	ctx := context.Background()

	require.NoError(t, tagMaps.Save(ctx, &models.TagMap{ID: "tm1", WebLogID: "log-a", Tag: "zig", URLValue: "zig"}))
	require.NoError(t, tagMaps.Save(ctx, &models.TagMap{ID: "tm2", WebLogID: "log-a", Tag: "Ada", URLValue: "ada"}))

	all, err := tagMaps.FindByWebLog(ctx, "log-a")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ada", all[0].Tag)
	assert.Equal(t, "zig", all[1].Tag)
}

func TestTagMapDelete(t *testing.T) {
	db := tester.NewDB(t)
	seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")
	tagMaps := store.NewTagMapStore(db, nil)
	ctx := context.Background()

	require.NoError(t, tagMaps.Save(ctx, &models.TagMap{ID: "tm1", WebLogID: "log-a", Tag: "go", URLValue: "golang"}))

	ok, err := tagMaps.Delete(ctx, "log-a", "tm1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tagMaps.Delete(ctx, "log-a", "tm1")
	require.NoError(t, err)
	assert.False(t, ok)
}
