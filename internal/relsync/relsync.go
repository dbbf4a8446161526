// Package relsync synchronizes a side collection (revisions, prior
// permalinks, category/tag assignments, metadata pairs) with a desired new
// state, writing only the differences.
package relsync

// Plan is the set of writes needed to bring a side collection from its
// previously known state to the desired state. An empty plan means the
// collection is already in sync and no statement runs.
type Plan[T any] struct {
	ToDelete []T
	ToAdd    []T
}

// Empty reports whether the plan performs zero writes.
func (p Plan[T]) Empty() bool { return len(p.ToDelete) == 0 && len(p.ToAdd) == 0 }

// Diff compares old and next by the caller-supplied key. Items present in
// both states are untouched, so reapplying the same pair yields an empty
// plan. Two items sharing a key are the same item for diffing purposes
// even when their other fields differ; revision diffs rely on this, keying
// by timestamp alone.
func Diff[T any, K comparable](old, next []T, key func(T) K) Plan[T] {
	oldKeys := make(map[K]struct{}, len(old))
	for _, item := range old {
		oldKeys[key(item)] = struct{}{}
	}
	nextKeys := make(map[K]struct{}, len(next))
	for _, item := range next {
		nextKeys[key(item)] = struct{}{}
	}

	var plan Plan[T]
	for _, item := range old {
		if _, ok := nextKeys[key(item)]; !ok {
			plan.ToDelete = append(plan.ToDelete, item)
		}
	}
	for _, item := range next {
		if _, ok := oldKeys[key(item)]; !ok {
			plan.ToAdd = append(plan.ToAdd, item)
		}
	}
	return plan
}

// Apply runs all deletes, then all additions, each as an independent
// statement. Callers scope del and add by the parent id; running Apply
// inside the parent's save transaction keeps the document and its side
// collections consistent.
func Apply[T any](p Plan[T], del func(T) error, add func(T) error) error {
	for _, item := range p.ToDelete {
		if err := del(item); err != nil {
			return err
		}
	}
	for _, item := range p.ToAdd {
		if err := add(item); err != nil {
			return err
		}
	}
	return nil
}
