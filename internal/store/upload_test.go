package store_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/inkwell-cms/core/internal/models"
	"github.com/inkwell-cms/core/internal/store"
	"github.com/inkwell-cms/core/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadRoundTrip(t *testing.T) {
	db := tester.NewDB(t)
	seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")
	uploads := store.NewUploadStore(db)
	ctx := context.Background()

	// Larger than one append chunk, so the payload travels in several
	// statements.
	payload := bytes.Repeat([]byte("0123456789abcdef"), 40*1024)

	require.NoError(t, uploads.Add(ctx, &models.Upload{
		ID:        "up1",
		WebLogID:  "log-a",
		Path:      "2024/03/cat.png",
		UpdatedOn: day(1),
		Data:      payload,
	}))

	out, err := uploads.FindByPath(ctx, "log-a", "2024/03/cat.png")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, payload, out.Data)

	out, err = uploads.FindByPath(ctx, "log-a", "nope.png")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestUploadListOmitsPayload(t *testing.T) {
	db := tester.NewDB(t)
	seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")
	uploads := store.NewUploadStore(db)
	ctx := context.Background()

	require.NoError(t, uploads.Add(ctx, &models.Upload{
		ID: "up1", WebLogID: "log-a", Path: "b.png", UpdatedOn: day(1), Data: []byte("bbbb"),
	}))
	require.NoError(t, uploads.Add(ctx, &models.Upload{
		ID: "up2", WebLogID: "log-a", Path: "a.png", UpdatedOn: day(2), Data: []byte("aaaa"),
	}))

	list, err := uploads.FindByWebLog(ctx, "log-a")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a.png", list[0].Path)
	assert.Equal(t, "b.png", list[1].Path)
	assert.Empty(t, list[0].Data)
	assert.Empty(t, list[1].Data)

	full, err := uploads.FindByWebLogWithData(ctx, "log-a")
	require.NoError(t, err)
	require.Len(t, full, 2)
	assert.Equal(t, []byte("aaaa"), full[0].Data)
}

func TestUploadTenantIsolation(t *testing.T) {
	db := tester.NewDB(t)
	seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")
	seedWebLog(t, db, "log-b", "Log B", "http://b.example.com")
	uploads := store.NewUploadStore(db)
	ctx := context.Background()

	require.NoError(t, uploads.Add(ctx, &models.Upload{
		ID: "up1", WebLogID: "log-a", Path: "cat.png", UpdatedOn: day(1), Data: []byte("x"),
	}))

	out, err := uploads.FindByPath(ctx, "log-b", "cat.png")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestUploadDelete(t *testing.T) {
	db := tester.NewDB(t)
	seedWebLog(t, db, "log-a", "Log A", "http://a.example.com")
	uploads := store.NewUploadStore(db)
	ctx := context.Background()

	require.NoError(t, uploads.Add(ctx, &models.Upload{
		ID: "up1", WebLogID: "log-a", Path: "cat.png", UpdatedOn: day(1), Data: []byte("x"),
	}))

	ok, err := uploads.Delete(ctx, "log-a", "up1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uploads.Delete(ctx, "log-a", "up1")
	require.NoError(t, err)
	assert.False(t, ok)
}
