package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/inkwell-cms/core/internal/models"
	"github.com/inkwell-cms/core/internal/store"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// day returns a fixed, distinct UTC timestamp for ordering assertions.
func day(n int) time.Time {
	return time.Date(2024, time.March, n, 12, 0, 0, 0, time.UTC)
}

func seedWebLog(t *testing.T, db *gorm.DB, id, name, urlBase string) *models.WebLog {
	t.Helper()
	webLog := &models.WebLog{
		ID:           id,
		Name:         name,
		DefaultPage:  "posts",
		PostsPerPage: 10,
		ThemeID:      "default",
		URLBase:      urlBase,
		TimeZone:     "Etc/UTC",
		Uploads:      models.UploadToDatabase,
	}
	require.NoError(t, store.NewWebLogStore(db, nil, nil).Add(context.Background(), webLog))
	return webLog
}

func makePost(webLogID, id string, status models.PostStatus, permalink string, publishedOn time.Time) *models.Post {
	post := &models.Post{
		ID:        id,
		WebLogID:  webLogID,
		AuthorID:  "author-1",
		Status:    status,
		Title:     "Post " + id,
		Permalink: permalink,
		UpdatedOn: publishedOn,
		Text:      "<p>rendered body of " + id + "</p>",
	}
	if status == models.Published {
		p := publishedOn
		post.PublishedOn = &p
	}
	return post
}

func makePage(webLogID, id, permalink string, listed bool) *models.Page {
	return &models.Page{
		ID:           id,
		WebLogID:     webLogID,
		AuthorID:     "author-1",
		Title:        "Page " + id,
		Permalink:    permalink,
		PublishedOn:  day(1),
		UpdatedOn:    day(1),
		IsInPageList: listed,
		Text:         "<p>page body</p>",
	}
}

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
