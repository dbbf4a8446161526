package cache_test

import (
	"context"
	"strings"
	"testing"

	"github.com/inkwell-cms/core/internal/cache"
	"github.com/inkwell-cms/core/internal/models"
	"github.com/inkwell-cms/core/internal/store"
	"github.com/inkwell-cms/core/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTheme(t *testing.T, themes *store.ThemeStore, id string, templates ...models.ThemeTemplate) {
	t.Helper()
	require.NoError(t, themes.Save(context.Background(), &models.Theme{
		ID:        id,
		Name:      "Theme " + id,
		Version:   "1.0",
		Templates: templates,
	}))
}

func TestTemplatesGetParsesOnMiss(t *testing.T) {
	db := tester.NewDB(t)
	themes := store.NewThemeStore(db, nil)
	tc := cache.NewTemplates(themes)
	ctx := context.Background()

	seedTheme(t, themes, "default",
		models.ThemeTemplate{Name: "single-post", Text: "<h1>{{ .Title }}</h1>"})

	require.False(t, tc.Has("default", "single-post"))

	tpl, err := tc.Get(ctx, "default", "single-post")
	require.NoError(t, err)
	require.NotNil(t, tpl)
	assert.True(t, tc.Has("default", "single-post"))

	var out strings.Builder
	require.NoError(t, tpl.Execute(&out, struct{ Title string }{"Hello"}))
	assert.Equal(t, "<h1>Hello</h1>", out.String())
}

func TestTemplatesResolveNestedIncludes(t *testing.T) {
	db := tester.NewDB(t)
	themes := store.NewThemeStore(db, nil)
	tc := cache.NewTemplates(themes)
	ctx := context.Background()

	seedTheme(t, themes, "default",
		models.ThemeTemplate{Name: "layout", Text: `<body>{% include "header" %}<main>{{ .Body }}</main></body>`},
		models.ThemeTemplate{Name: "header", Text: `<header>{% include "logo" %} site</header>`},
		models.ThemeTemplate{Name: "logo", Text: `<img src="logo.png">`})

	tpl, err := tc.Get(ctx, "default", "layout")
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, tpl.Execute(&out, struct{ Body string }{"content"}))
	assert.Equal(t, `<body><header><img src="logo.png"> site</header><main>content</main></body>`, out.String())
}

func TestTemplatesUnknownIncludeFails(t *testing.T) {
	db := tester.NewDB(t)
	themes := store.NewThemeStore(db, nil)
	tc := cache.NewTemplates(themes)
	ctx := context.Background()

	seedTheme(t, themes, "default",
		models.ThemeTemplate{Name: "layout", Text: `{% include "missing" %}`})

	_, err := tc.Get(ctx, "default", "layout")
	assert.ErrorIs(t, err, cache.ErrIncludeNotFound)
	assert.False(t, tc.Has("default", "layout"))
}

func TestTemplatesMissingThemeOrName(t *testing.T) {
	db := tester.NewDB(t)
	themes := store.NewThemeStore(db, nil)
	tc := cache.NewTemplates(themes)
	ctx := context.Background()

	_, err := tc.Get(ctx, "ghost", "layout")
	assert.ErrorIs(t, err, cache.ErrTemplateNotFound)

	seedTheme(t, themes, "default",
		models.ThemeTemplate{Name: "layout", Text: "<p>x</p>"})

	_, err = tc.Get(ctx, "default", "nope")
	assert.ErrorIs(t, err, cache.ErrTemplateNotFound)
}

func TestTemplatesInvalidate(t *testing.T) {
	db := tester.NewDB(t)
	themes := store.NewThemeStore(db, nil)
	tc := cache.NewTemplates(themes)
	ctx := context.Background()

	seedTheme(t, themes, "default",
		models.ThemeTemplate{Name: "layout", Text: "<p>a</p>"},
		models.ThemeTemplate{Name: "single-post", Text: "<p>b</p>"})
	seedTheme(t, themes, "other",
		models.ThemeTemplate{Name: "layout", Text: "<p>c</p>"})

	_, err := tc.Get(ctx, "default", "layout")
	require.NoError(t, err)
	_, err = tc.Get(ctx, "default", "single-post")
	require.NoError(t, err)
	_, err = tc.Get(ctx, "other", "layout")
	require.NoError(t, err)

	// Only the invalidated theme's entries drop.
	tc.Invalidate("default")
	assert.False(t, tc.Has("default", "layout"))
	assert.False(t, tc.Has("default", "single-post"))
	assert.True(t, tc.Has("other", "layout"))
}
