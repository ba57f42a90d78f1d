package repository

import (
	"context"
	"slices"
)

// Records is the in-memory, ordered copy of one collection. It is loaded
// once and every mutation writes the whole collection back. A failed write
// restores the previous in-memory state.
//
// Records is not safe for concurrent use; callers serialize access.
type Records[T Record] struct {
	coll  *Collection[T]
	items []T
}

func NewRecords[T Record](coll *Collection[T]) *Records[T] {
	return &Records[T]{coll: coll, items: []T{}}
}

// Load replaces the in-memory copy with the stored collection.
func (r *Records[T]) Load(ctx context.Context) error {
	items, err := r.coll.Load(ctx)
	if err != nil {
		return err
	}
	r.items = items
	return nil
}

// List returns a copy of the collection in stored order.
func (r *Records[T]) List() []T {
	return slices.Clone(r.items)
}

func (r *Records[T]) Get(id int64) (T, bool) {
	if i := r.index(id); i >= 0 {
		return r.items[i], true
	}
	var zero T
	return zero, false
}

// Create assigns the next identity, builds the record with it and appends it.
func (r *Records[T]) Create(ctx context.Context, build func(id int64) T) (T, error) {
	rec := build(NextID(r.items))

	if r.index(rec.RecordID()) >= 0 {
		var zero T
		return zero, ErrDuplicateID
	}

	prev := r.items
	r.items = append(slices.Clone(prev), rec)
	if err := r.coll.Save(ctx, r.items); err != nil {
		r.items = prev
		var zero T
		return zero, err
	}

	return rec, nil
}

// Replace overwrites the record with the same identity, keeping its position.
func (r *Records[T]) Replace(ctx context.Context, rec T) error {
	i := r.index(rec.RecordID())
	if i < 0 {
		return ErrRecordNotFound
	}

	prev := r.items
	r.items = slices.Clone(prev)
	r.items[i] = rec
	if err := r.coll.Save(ctx, r.items); err != nil {
		r.items = prev
		return err
	}

	return nil
}

// Delete filters the record out of the collection.
func (r *Records[T]) Delete(ctx context.Context, id int64) error {
	if r.index(id) < 0 {
		return ErrRecordNotFound
	}

	prev := r.items
	r.items = slices.DeleteFunc(slices.Clone(prev), func(item T) bool {
		return item.RecordID() == id
	})
	if err := r.coll.Save(ctx, r.items); err != nil {
		r.items = prev
		return err
	}

	return nil
}

func (r *Records[T]) index(id int64) int {
	return slices.IndexFunc(r.items, func(item T) bool {
		return item.RecordID() == id
	})
}
