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

func TestCategoriesNotFilled(t *testing.T) {
	db := tester.NewDB(t)
	cc := cache.NewCategories(store.NewCategoryStore(db, nil))

	_, err := cc.Get("log-a")
	assert.ErrorIs(t, err, cache.ErrNotFilled)
}

func TestCategoriesUpdateAndGet(t *testing.T) {
	db := tester.NewDB(t)
	seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")
	cats := store.NewCategoryStore(db, nil)
	posts := store.NewPostStore(db, nil)
	cc := cache.NewCategories(cats)
	ctx := context.Background()

	tech := &models.Category{ID: "tech", WebLogID: "log-a", Name: "Tech", Slug: "tech"}
	require.NoError(t, cats.Add(ctx, tech))
	require.NoError(t, cats.Add(ctx, &models.Category{
		ID: "rust", WebLogID: "log-a", Name: "Rust", Slug: "rust", ParentID: &tech.ID,
	}))

	published := day(1)
	require.NoError(t, posts.Add(ctx, &models.Post{
		ID:          "p1",
		WebLogID:    "log-a",
		AuthorID:    "author-1",
		Status:      models.Published,
		Title:       "Hello",
		Permalink:   "/hello.html",
		PublishedOn: &published,
		UpdatedOn:   published,
		Text:        "<p>hi</p>",
		CategoryIDs: []string{"rust"},
	}))

	require.NoError(t, cc.Update(ctx, "log-a"))

	display, err := cc.Get("log-a")
	require.NoError(t, err)
	require.Len(t, display, 2)
	assert.Equal(t, "Tech", display[0].Name)
	assert.Equal(t, 1, display[0].PostCount)
	assert.Equal(t, "Rust", display[1].Name)
	assert.Equal(t, 1, display[1].PostCount)

	// A category added after the fill shows only on the next Update.
	require.NoError(t, cats.Add(ctx, &models.Category{
		ID: "life", WebLogID: "log-a", Name: "Life", Slug: "life",
	}))
	display, err = cc.Get("log-a")
	require.NoError(t, err)
	assert.Len(t, display, 2)

	require.NoError(t, cc.Update(ctx, "log-a"))
	display, err = cc.Get("log-a")
	require.NoError(t, err)
	assert.Len(t, display, 3)
}

func TestCategoriesUpdateSurfacesCycleError(t *testing.T) {
	db := tester.NewDB(t)
	seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")
	cats := store.NewCategoryStore(db, nil)
	cc := cache.NewCategories(cats)
	ctx := context.Background()

	b := "b"
	require.NoError(t, cats.Add(ctx, &models.Category{ID: "a", WebLogID: "log-a", Name: "A", Slug: "a", ParentID: &b}))
	a := "a"
	require.NoError(t, cats.Add(ctx, &models.Category{ID: "b", WebLogID: "log-a", Name: "B", Slug: "b", ParentID: &a}))

	err := cc.Update(ctx, "log-a")
	assert.ErrorIs(t, err, store.ErrCategoryCycle)

	// The failed update leaves no entry behind.
	_, err = cc.Get("log-a")
	assert.ErrorIs(t, err, cache.ErrNotFilled)
}
