package cache

import (
	"context"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"sync"

	"github.com/inkwell-cms/core/internal/models"
	"github.com/inkwell-cms/core/internal/store"
)

// includePattern matches an include directive in template text:
// {% include "name" %}.
var includePattern = regexp.MustCompile(`\{%\s*include\s+"([^"]+)"\s*%\}`)

// Templates caches parsed theme templates keyed by theme id and template
// name. On a miss the theme is loaded, include directives are resolved by
// textual substitution, and the result is parsed and cached. A theme's
// entries are invalidated en masse when its templates change.
type Templates struct {
	entries sync.Map // "themeID/name" -> *template.Template
	themes  *store.ThemeStore
}

func NewTemplates(themes *store.ThemeStore) *Templates {
	return &Templates{themes: themes}
}

func templateKey(themeID, name string) string { return themeID + "/" + name }

// Get returns the parsed template, filling the entry on a miss. Two
// concurrent misses may both parse; the results are equivalent and the
// second simply overwrites the first.
func (c *Templates) Get(ctx context.Context, themeID, name string) (*template.Template, error) {
	if v, ok := c.entries.Load(templateKey(themeID, name)); ok {
		return v.(*template.Template), nil
	}

	theme, err := c.themes.FindByID(ctx, themeID)
	if err != nil {
		return nil, err
	}
	if theme == nil {
		return nil, fmt.Errorf("theme %s: %w", themeID, ErrTemplateNotFound)
	}
	src := theme.Template(name)
	if src == nil {
		return nil, fmt.Errorf("theme %s template %s: %w", themeID, name, ErrTemplateNotFound)
	}

	text, err := resolveIncludes(theme, src.Text)
	if err != nil {
		return nil, err
	}
	tpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse theme %s template %s: %w", themeID, name, err)
	}
	c.entries.Store(templateKey(themeID, name), tpl)
	return tpl, nil
}

// Has reports whether the template is already parsed and cached.
func (c *Templates) Has(themeID, name string) bool {
	_, ok := c.entries.Load(templateKey(themeID, name))
	return ok
}

// Invalidate drops every cached template for the theme.
func (c *Templates) Invalidate(themeID string) {
	prefix := themeID + "/"
	c.entries.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.entries.Delete(key)
		}
		return true
	})
}

// resolveIncludes substitutes include directives with the named template's
// text, rescanning until none remain so nested includes resolve. The
// substitution is purely textual and carries no cycle check: a template
// pair that includes each other never stabilizes.
func resolveIncludes(theme *models.Theme, text string) (string, error) {
	for {
		match := includePattern.FindStringSubmatchIndex(text)
		if match == nil {
			return text, nil
		}
		name := text[match[2]:match[3]]
		included := theme.Template(name)
		if included == nil {
			return "", fmt.Errorf("theme %s template %s: %w", theme.ID, name, ErrIncludeNotFound)
		}
		text = text[:match[0]] + included.Text + text[match[1]:]
	}
}
