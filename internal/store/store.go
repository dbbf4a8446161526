// Package store implements the entity stores of the data core. Each store
// composes the generic document repository with the side-collection
// reconciler and entity-specific queries. Reads return (nil, nil) for
// not-found; mutations that touch a document and its side collections run
// inside one transaction.
package store

import "errors"

// Document table names.
const (
	webLogTable   = "web_logs"
	postTable     = "posts"
	pageTable     = "pages"
	categoryTable = "categories"
	userTable     = "users"
	tagMapTable   = "tag_maps"
	themeTable    = "themes"
)

var (
	// ErrUserInUse is returned when deleting a user who still authors
	// posts or pages.
	ErrUserInUse = errors.New("user is the author of posts or pages and cannot be deleted")

	// ErrCategoryCycle is returned when a category's parent chain loops
	// back on itself; the hierarchy cannot be materialized until the
	// configuration is fixed.
	ErrCategoryCycle = errors.New("category parent chain contains a cycle")
)

// DocumentTables lists every table holding serialized documents, in
// migration order.
func DocumentTables() []string {
	return []string{webLogTable, postTable, pageTable, categoryTable, userTable, tagMapTable, themeTable}
}
