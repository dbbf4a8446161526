package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inkwell-cms/core/internal/models"
)

// materializeForest turns a web log's flat category list into display
// categories ordered depth-first, alphabetical among siblings, each
// carrying its full ancestor name chain. The second result maps every
// category id to the ids of itself and all its descendants, for aggregate
// post counting.
//
// A parent chain that loops back on itself is a configuration error: the
// walk keeps a visited set and fails fast with ErrCategoryCycle instead of
// recursing forever.
func materializeForest(cats []*models.Category) ([]*models.DisplayCategory, map[string][]string, error) {
	byID := make(map[string]*models.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	ordered := make([]*models.Category, len(cats))
	copy(ordered, cats)
	sort.SliceStable(ordered, func(i, j int) bool {
		return strings.ToLower(ordered[i].Name) < strings.ToLower(ordered[j].Name)
	})

	children := make(map[string][]*models.Category)
	var roots []*models.Category
	for _, c := range ordered {
		// A parent id pointing at a deleted category leaves the child a root.
		if c.ParentID != nil && byID[*c.ParentID] != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		} else {
			roots = append(roots, c)
		}
	}

	ancestors := func(c *models.Category) ([]string, error) {
		var names []string
		visited := map[string]struct{}{c.ID: {}}
		for cur := c; cur.ParentID != nil; {
			parent := byID[*cur.ParentID]
			if parent == nil {
				break
			}
			if _, seen := visited[parent.ID]; seen {
				return nil, fmt.Errorf("category %s: %w", c.ID, ErrCategoryCycle)
			}
			visited[parent.ID] = struct{}{}
			names = append([]string{parent.Name}, names...)
			cur = parent
		}
		return names, nil
	}

	var display []*models.DisplayCategory
	groups := make(map[string][]string, len(cats))

	var walk func(c *models.Category) ([]string, error)
	walk = func(c *models.Category) ([]string, error) {
		chain, err := ancestors(c)
		if err != nil {
			return nil, err
		}
		display = append(display, &models.DisplayCategory{
			ID:          c.ID,
			Slug:        c.Slug,
			Name:        c.Name,
			Description: c.Description,
			ParentNames: chain,
		})

		group := []string{c.ID}
		for _, child := range children[c.ID] {
			sub, err := walk(child)
			if err != nil {
				return nil, err
			}
			group = append(group, sub...)
		}
		groups[c.ID] = group
		return group, nil
	}

	for _, root := range roots {
		if _, err := walk(root); err != nil {
			return nil, nil, err
		}
	}

	// Categories unreachable from any root are part of a cycle (each one
	// names a live parent, so none can be a root).
	if len(display) != len(cats) {
		return nil, nil, ErrCategoryCycle
	}
	return display, groups, nil
}
