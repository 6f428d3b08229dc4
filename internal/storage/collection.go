package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/models"
)

// Collection is a typed list of records persisted as one JSON array under key.
// Every mutation reads the whole list, changes it and writes it back. When mu
// is nil concurrent mutations may lose updates.
type Collection[T models.Record] struct {
	kv  KV
	key string
	mu  *sync.Mutex
}

func newCollection[T models.Record](kv KV, key string, mu *sync.Mutex) *Collection[T] {
	return &Collection[T]{kv: kv, key: key, mu: mu}
}

// Key returns the storage key of the collection.
func (c *Collection[T]) Key() string {
	return c.key
}

func (c *Collection[T]) lock() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.Lock()
	return c.mu.Unlock
}

// GetAll returns the stored list. A missing or undecodable payload reads as
// an empty list.
func (c *Collection[T]) GetAll() ([]T, error) {
	data, err := c.kv.Get(c.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", c.key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("Discarding corrupt collection payload", "collection", c.key, "error", err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// SaveAll overwrites the stored list.
func (c *Collection[T]) SaveAll(items []T) error {
	unlock := c.lock()
	defer unlock()
	return c.save(items)
}

func (c *Collection[T]) save(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	if err := c.kv.Put(c.key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.key, err)
	}
	return nil
}

// Mutate runs a read-modify-write cycle. fn returns the new list and whether it
// changed; unchanged lists are not written back.
func (c *Collection[T]) Mutate(fn func([]T) ([]T, bool, error)) (bool, error) {
	unlock := c.lock()
	defer unlock()

	items, err := c.GetAll()
	if err != nil {
		return false, err
	}
	next, changed, err := fn(items)
	if err != nil || !changed {
		return false, err
	}
	if err := c.save(next); err != nil {
		return false, err
	}
	return true, nil
}

// Add inserts item at the front of the list.
func (c *Collection[T]) Add(item T) error {
	_, err := c.Mutate(func(items []T) ([]T, bool, error) {
		return append([]T{item}, items...), true, nil
	})
	return err
}

// Update replaces the record with the same id. It reports false when no
// record matched.
func (c *Collection[T]) Update(item T) (bool, error) {
	return c.Mutate(func(items []T) ([]T, bool, error) {
		for i := range items {
			if items[i].GetID() == item.GetID() {
				items[i] = item
				return items, true, nil
			}
		}
		return items, false, nil
	})
}

// Delete removes every record with the given id.
func (c *Collection[T]) Delete(id string) (bool, error) {
	return c.Mutate(func(items []T) ([]T, bool, error) {
		kept := items[:0]
		for _, item := range items {
			if item.GetID() != id {
				kept = append(kept, item)
			}
		}
		return kept, len(kept) != len(items), nil
	})
}

// Find returns the first record with the given id.
func (c *Collection[T]) Find(id string) (T, bool, error) {
	var zero T
	items, err := c.GetAll()
	if err != nil {
		return zero, false, err
	}
	for _, item := range items {
		if item.GetID() == id {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Filter returns the records matching pred, preserving stored order.
func (c *Collection[T]) Filter(pred func(T) bool) ([]T, error) {
	items, err := c.GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out, nil
}
