package gateway

import (
	"context"
	"fmt"
)

// Table is the typed view of one collection.
type Table[T any] interface {
	Name() string
	Select(ctx context.Context, orders ...Order) ([]T, error)
	Single(ctx context.Context) (*T, error)
	Insert(ctx context.Context, row *T) error
	Update(ctx context.Context, id int64, patch Patch) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type table[T any] struct {
	name string
	raw  RawTable
}

// From binds the named collection of b to the row type T.
func From[T any](b Backend, name string) Table[T] {
	return &table[T]{name: name, raw: b.Table(name)}
}

func (t *table[T]) Name() string { return t.name }

func (t *table[T]) Select(ctx context.Context, orders ...Order) ([]T, error) {
	var rows []T
	if err := t.raw.Select(ctx, &rows, orders...); err != nil {
		return nil, fmt.Errorf("select %s: %w", t.name, err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

func (t *table[T]) Single(ctx context.Context) (*T, error) {
	row := new(T)
	if err := t.raw.Single(ctx, row); err != nil {
		return nil, fmt.Errorf("select single %s: %w", t.name, err)
	}
	return row, nil
}

func (t *table[T]) Insert(ctx context.Context, row *T) error {
	if err := t.raw.Insert(ctx, row); err != nil {
		return fmt.Errorf("insert %s: %w", t.name, err)
	}
	return nil
}

func (t *table[T]) Update(ctx context.Context, id int64, patch Patch) error {
	if err := t.raw.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("update %s %d: %w", t.name, id, err)
	}
	return nil
}

func (t *table[T]) Delete(ctx context.Context, id int64) error {
	if err := t.raw.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", t.name, id, err)
	}
	return nil
}

func (t *table[T]) Count(ctx context.Context) (int64, error) {
	n, err := t.raw.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", t.name, err)
	}
	return n, nil
}
