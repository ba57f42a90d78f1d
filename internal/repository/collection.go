package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"bank-records-api/internal/kvstore"
)

// Collection keys in the key/value store
const (
	KeyCustomers            = "customers"
	KeyAccounts             = "accounts"
	KeyATMCards             = "atmCards"
	KeyTransactions         = "transactions"
	KeyReversedTransactions = "reversedTransactions"
)

// Collection reads and writes one named sequence of records as a JSON array.
// It performs no validation; whatever the caller hands to Save is stored.
type Collection[T any] struct {
	store kvstore.Store
	key   string
}

func NewCollection[T any](store kvstore.Store, key string) *Collection[T] {
	return &Collection[T]{store: store, key: key}
}

func (c *Collection[T]) Key() string { return c.key }

// Load returns the stored collection, or an empty one when the key is absent.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.key, err)
	}

	items := []T{}
	if !ok || raw == "" {
		return items, nil
	}

	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}

	return items, nil
}

// Save replaces the stored collection with items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}

	if err := c.store.Set(ctx, c.key, string(raw)); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.key, err)
	}

	return nil
}
