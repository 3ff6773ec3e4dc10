package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic CRUD operations for any domain type.
//
// Key layout under the entity prefix:
//
//	<prefix><id>                 primary document
//	<prefix>idx:<name>:<value>   unique secondary index, value -> id
//	<prefix>own:<owner>:<id>     per-owner membership index
type Entity[T any] struct {
	store   *Store
	prefix  string
	indexes []uniqueIndex[T]
	ownerFn func(*T) string
}

// uniqueIndex defines a unique secondary index on an entity.
type uniqueIndex[T any] struct {
	name            string
	keyGen          func(*T) string
	lookupTransform func(string) string // Optional transformation for lookups
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{
		store:  s,
		prefix: prefix,
	}
}

// WithUniqueIndex adds a unique secondary index. keyGen derives the index
// value from an entity; lookupTransform (optional) is applied to search
// values so lookups match normalized stored keys.
func (e *Entity[T]) WithUniqueIndex(name string, keyGen func(*T) string, lookupTransform func(string) string) *Entity[T] {
	e.indexes = append(e.indexes, uniqueIndex[T]{
		name:            name,
		keyGen:          keyGen,
		lookupTransform: lookupTransform,
	})
	return e
}

// WithOwner registers the owner extractor, enabling ListOwned and DeleteOwned.
func (e *Entity[T]) WithOwner(ownerFn func(*T) string) *Entity[T] {
	e.ownerFn = ownerFn
	return e
}

func (e *Entity[T]) indexKey(name, value string) []byte {
	return []byte(e.prefix + "idx:" + name + ":" + value)
}

func (e *Entity[T]) ownerKey(owner, id string) []byte {
	return []byte(e.prefix + "own:" + owner + ":" + id)
}

// isIndexKey reports whether a raw key under prefix is a secondary-index row.
func isIndexKey(prefix, key string) bool {
	remainder := strings.TrimPrefix(key, prefix)
	return strings.HasPrefix(remainder, "idx:") || strings.HasPrefix(remainder, "own:")
}

// Create creates a new entity with the given ID.
// Returns ErrAlreadyExists if the ID or a unique index value is taken.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}

		// Check for index conflicts before writing anything.
		for _, idx := range e.indexes {
			idxKey := e.indexKey(idx.name, idx.keyGen(entity))
			_, err := txn.Get(idxKey)
			if err == nil {
				return fmt.Errorf("index %s conflict: %w", idx.name, ErrAlreadyExists)
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("failed to check index key: %w", err)
			}
		}

		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		for _, idx := range e.indexes {
			if err := txn.Set(e.indexKey(idx.name, idx.keyGen(entity)), []byte(id)); err != nil {
				return fmt.Errorf("failed to set index key: %w", err)
			}
		}

		if e.ownerFn != nil {
			if err := txn.Set(e.ownerKey(e.ownerFn(entity), id), []byte{}); err != nil {
				return fmt.Errorf("failed to set owner key: %w", err)
			}
		}

		return nil
	})
}

// Get retrieves an entity by ID.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := e.prefix + id
	var entity T

	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return &entity, nil
}

// GetByIndex retrieves an entity through a unique secondary index.
// The index's lookup transform, if any, is applied to value first.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transformedValue := value
	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookupTransform != nil {
			transformedValue = idx.lookupTransform(value)
			break
		}
	}

	var id string
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(e.indexKey(indexName, transformedValue))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return e.Get(ctx, id)
}

// Update updates an existing entity, rewriting its index rows.
// Returns ErrNotFound if the entity does not exist, ErrAlreadyExists if a
// changed unique index value collides with another entity.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		var oldEntity T
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get existing key: %w", err)
		}

		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &oldEntity)
		})
		if err != nil {
			return fmt.Errorf("failed to unmarshal old entity: %w", err)
		}

		for _, idx := range e.indexes {
			oldVal := idx.keyGen(&oldEntity)
			newVal := idx.keyGen(entity)
			if oldVal == newVal {
				continue
			}

			_, err := txn.Get(e.indexKey(idx.name, newVal))
			if err == nil {
				return fmt.Errorf("index %s conflict: %w", idx.name, ErrAlreadyExists)
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("failed to check index key: %w", err)
			}

			if err := txn.Delete(e.indexKey(idx.name, oldVal)); err != nil {
				return fmt.Errorf("failed to delete old index key: %w", err)
			}
		}

		if e.ownerFn != nil {
			oldOwner := e.ownerFn(&oldEntity)
			newOwner := e.ownerFn(entity)
			if oldOwner != newOwner {
				if err := txn.Delete(e.ownerKey(oldOwner, id)); err != nil {
					return fmt.Errorf("failed to delete old owner key: %w", err)
				}
				if err := txn.Set(e.ownerKey(newOwner, id), []byte{}); err != nil {
					return fmt.Errorf("failed to set owner key: %w", err)
				}
			}
		}

		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		for _, idx := range e.indexes {
			if err := txn.Set(e.indexKey(idx.name, idx.keyGen(entity)), []byte(id)); err != nil {
				return fmt.Errorf("failed to set index key: %w", err)
			}
		}

		return nil
	})
}

// Put writes an entity regardless of prior existence (upsert).
func (e *Entity[T]) Put(ctx context.Context, id string, entity *T) error {
	err := e.Update(ctx, id, entity)
	if errors.Is(err, ErrNotFound) {
		return e.Create(ctx, id, entity)
	}
	return err
}

// Delete deletes an entity by ID along with its index rows.
// Idempotent: deleting a missing entity is not an error.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	return e.store.db.Update(func(txn *badger.Txn) error {
		var entity T
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entity)
		})
		if err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}

		for _, idx := range e.indexes {
			if err := txn.Delete(e.indexKey(idx.name, idx.keyGen(&entity))); err != nil {
				return fmt.Errorf("failed to delete index key: %w", err)
			}
		}

		if e.ownerFn != nil {
			if err := txn.Delete(e.ownerKey(e.ownerFn(&entity), id)); err != nil {
				return fmt.Errorf("failed to delete owner key: %w", err)
			}
		}

		if err := txn.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}

		return nil
	})
}

// ListOwned returns all entities belonging to an owner, in storage order.
// Callers sort and trim; the store does not impose an ordering.
func (e *Entity[T]) ListOwned(ctx context.Context, owner string) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.ownerFn == nil {
		return nil, fmt.Errorf("entity %s has no owner index", e.prefix)
	}

	ids, err := e.ownedIDs(owner)
	if err != nil {
		return nil, err
	}

	entities := make([]*T, 0, len(ids))
	for _, id := range ids {
		entity, err := e.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue // Deleted between index scan and fetch
			}
			return nil, err
		}
		entities = append(entities, entity)
	}

	return entities, nil
}

// DeleteOwned removes every entity belonging to an owner and returns the count.
func (e *Entity[T]) DeleteOwned(ctx context.Context, owner string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if e.ownerFn == nil {
		return 0, fmt.Errorf("entity %s has no owner index", e.prefix)
	}

	ids, err := e.ownedIDs(owner)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, id := range ids {
		if err := e.Delete(ctx, id); err != nil {
			return deleted, err
		}
		deleted++
	}

	return deleted, nil
}

// ownedIDs scans the owner index and extracts the member IDs.
func (e *Entity[T]) ownedIDs(owner string) ([]string, error) {
	scanPrefix := e.prefix + "own:" + owner + ":"
	prefix := []byte(scanPrefix)
	var ids []string

	err := e.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false // We only need keys

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, scanPrefix))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan owner index: %w", err)
	}

	return ids, nil
}
