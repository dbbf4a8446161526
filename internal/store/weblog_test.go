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

func TestWebLogAddAndFind(t *testing.T) {
	db := tester.NewDB(t)
	webLogs := store.NewWebLogStore(db, nil, nil)
	ctx := context.Background()

	seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")
	seedWebLog(t, db, "log-b", "Log B", "http://b.example.com")

	out, err := webLogs.FindByID(ctx, "log-a")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Log A", out.Name)

	all, err := webLogs.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestWebLogUpdateSettings(t *testing.T) {
	db := tester.NewDB(t)
	webLogs := store.NewWebLogStore(db, nil, nil)
	ctx := context.Background()

	webLog := seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")
	webLog.Name = "Renamed"
	webLog.PostsPerPage = 5

	ok, err := webLogs.UpdateSettings(ctx, webLog)
	require.NoError(t, err)
	require.True(t, ok)

	out, err := webLogs.FindByID(ctx, "log-a")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Renamed", out.Name)
	assert.Equal(t, 5, out.PostsPerPage)
}

func TestWebLogUpdateRSSOptions(t *testing.T) {
	db := tester.NewDB(t)
	webLogs := store.NewWebLogStore(db, nil, nil)
	ctx := context.Background()

	seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")

	items := 20
	ok, err := webLogs.UpdateRSSOptions(ctx, "log-a", models.RSSOptions{
		IsFeedEnabled: true,
		FeedName:      "feed.xml",
		ItemsInFeed:   &items,
	})
	require.NoError(t, err)
	require.True(t, ok)

	out, err := webLogs.FindByID(ctx, "log-a")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, out.RSS.IsFeedEnabled)
	assert.Equal(t, "feed.xml", out.RSS.FeedName)
	require.NotNil(t, out.RSS.ItemsInFeed)
	assert.Equal(t, 20, *out.RSS.ItemsInFeed)

	ok, err = webLogs.UpdateRSSOptions(ctx, "ghost", models.RSSOptions{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWebLogUpdateRedirectRules(t *testing.T) {
	db := tester.NewDB(t)
	webLogs := store.NewWebLogStore(db, nil, nil)
	ctx := context.Background()

	seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")

	rules := []models.RedirectRule{
		{From: "/old", To: "/new"},
		{From: "^/posts/(\\d+)$", To: "/archive/$1", IsRegex: true},
	}
	ok, err := webLogs.UpdateRedirectRules(ctx, "log-a", rules)
	require.NoError(t, err)
	require.True(t, ok)

	out, err := webLogs.FindByID(ctx, "log-a")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, rules, out.Redirects)
}

func TestWebLogDeleteCascades(t *testing.T) {
	db := tester.NewDB(t)
	webLogs := store.NewWebLogStore(db, nil, nil)
	posts := store.NewPostStore(db, nil)
	pages := store.NewPageStore(db, nil)
	cats := store.NewCategoryStore(db, nil)
	users := store.NewUserStore(db, nil)
	tagMaps := store.NewTagMapStore(db, nil)
	uploads := store.NewUploadStore(db)
	ctx := context.Background()

	seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")
	seedWebLog(t, db, "log-b", "Log B", "http://b.example.com")

	post := makePost("log-a", "p1", models.Published, "/p1.html", day(1))
	post.CategoryIDs = []string{"tech"}
	post.Tags = []string{"go"}
	post.PriorPermalinks = []string{"/old.html"}
	post.Revisions = []models.Revision{{AsOf: day(1), Text: "v1"}}
	post.Meta = []models.MetaItem{{Name: "series", Value: "storage"}}
	require.NoError(t, posts.Add(ctx, post))

	page := makePage("log-a", "pg1", "/about.html", true)
	page.Meta = []models.MetaItem{{Name: "subtitle", Value: "x"}}
	require.NoError(t, pages.Add(ctx, page))

	require.NoError(t, cats.Add(ctx, makeCategory("log-a", "tech", "Tech", nil)))
	require.NoError(t, users.Add(ctx, makeUser(t, "log-a", "u1", "pat@example.com")))
	require.NoError(t, tagMaps.Save(ctx, &models.TagMap{ID: "tm1", WebLogID: "log-a", Tag: "go", URLValue: "golang"}))
	require.NoError(t, uploads.Add(ctx, &models.Upload{
		ID: "up1", WebLogID: "log-a", Path: "2024/cat.png", UpdatedOn: day(1), Data: []byte("png bytes"),
	}))

	// Content on the other web log must survive the cascade.
	require.NoError(t, posts.Add(ctx, makePost("log-b", "p2", models.Published, "/p2.html", day(2))))

	ok, err := webLogs.Delete(ctx, "log-a")
	require.NoError(t, err)
	require.True(t, ok)

	out, err := webLogs.FindByID(ctx, "log-a")
	require.NoError(t, err)
	assert.Nil(t, out)

	assert.Zero(t, countRows(t, db, &models.PostRevisionRow{}, "post_id = ?", "p1"))
	assert.Zero(t, countRows(t, db, &models.PostPermalinkRow{}, "post_id = ?", "p1"))
	assert.Zero(t, countRows(t, db, &models.PostCategoryRow{}, "post_id = ?", "p1"))
	assert.Zero(t, countRows(t, db, &models.PostTagRow{}, "post_id = ?", "p1"))
	assert.Zero(t, countRows(t, db, &models.PostMetaRow{}, "post_id = ?", "p1"))
	assert.Zero(t, countRows(t, db, &models.PageMetaRow{}, "page_id = ?", "pg1"))
	assert.Zero(t, countRows(t, db, &models.Upload{}, "web_log_id = ?", "log-a"))

	gone, err := posts.FindByID(ctx, "log-a", "p1")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := posts.FindByID(ctx, "log-b", "p2")
	require.NoError(t, err)
	assert.NotNil(t, kept)

	ok, err = webLogs.Delete(ctx, "log-a")
	require.NoError(t, err)
	assert.False(t, ok)
}
