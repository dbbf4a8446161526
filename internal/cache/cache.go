// Package cache holds the in-process read-through caches that shield
// request handling from repeated store round trips. Caches are plain
// constructed objects wired in at startup; there are no package-level
// singletons. The maps are safe for concurrent use, but check-then-fill
// sequences are not mutually exclusive: two concurrent misses may both
// compute the same fill. Fills are idempotent and produce equivalent
// data, so the duplicate work is tolerated.
//
// A cached value is authoritative only until the next mutation; stores do
// not invalidate implicitly, callers invoke Update after a successful
// save or delete.
package cache

import "errors"

var (
	// ErrNotFilled is returned by Get when the key has never been filled.
	ErrNotFilled = errors.New("cache entry has not been filled")

	// ErrTemplateNotFound is returned when a theme has no template of the
	// requested name.
	ErrTemplateNotFound = errors.New("theme template not found")

	// ErrIncludeNotFound is returned when a template includes a name the
	// theme does not define.
	ErrIncludeNotFound = errors.New("included template not found")
)
