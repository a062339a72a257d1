// Package jsonfile persists each collection as a single JSON file that is
// rewritten whole on every mutation. A mutex per collection serializes the
// read-modify-write, which keeps id assignment and updates race-free within
// the process; durability is exactly one synchronous file overwrite.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is the JSON-file backed implementation of the storage facade.
type Store struct {
	users      *collection[userRecord]
	categories *collection[categoryRecord]
	events     *collection[eventRecord]
}

// Open prepares the data directory, creating empty collection files on
// first use.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	store := &Store{
		users:      newCollection[userRecord](filepath.Join(dir, "users.json")),
		categories: newCollection[categoryRecord](filepath.Join(dir, "categories.json")),
		events:     newCollection[eventRecord](filepath.Join(dir, "events.json")),
	}

	if err := store.users.ensure(); err != nil {
		return nil, err
	}
	if err := store.categories.ensure(); err != nil {
		return nil, err
	}
	if err := store.events.ensure(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error { return nil }

// collection owns one JSON file. All access goes through view/update so the
// whole read-decode-mutate-encode-write cycle happens under the lock.
type collection[T any] struct {
	mu   sync.Mutex
	path string
}

func newCollection[T any](path string) *collection[T] {
	return &collection[T]{path: path}
}

func (c *collection[T]) ensure() error {
	if _, err := os.Stat(c.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", c.path, err)
	}
	return c.write([]T{})
}

func (c *collection[T]) view(fn func(items []T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read()
	if err != nil {
		return err
	}
	return fn(items)
}

func (c *collection[T]) update(fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read()
	if err != nil {
		return err
	}
	updated, err := fn(items)
	if err != nil {
		return err
	}
	return c.write(updated)
}

func (c *collection[T]) read() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.path, err)
	}
	return items, nil
}

func (c *collection[T]) write(items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.path, err)
	}
	return nil
}
