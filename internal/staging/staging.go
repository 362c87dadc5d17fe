// Package staging is the key/value area holding in-progress carts and the
// order ledger. Every value is a whole serialized list; callers never patch.
package staging

import (
	"context"
	"encoding/json"
	"fmt"

	"pharmacy-pos/internal/models"
)

// Batch is a set of writes applied all-or-nothing.
type Batch struct {
	Set    map[string][]byte
	Delete []string
}

// NewBatch creates an empty batch
func NewBatch() *Batch {
	return &Batch{Set: map[string][]byte{}}
}

// Put stages v, JSON encoded, under key
func (b *Batch) Put(key string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	b.Set[key] = payload
	return nil
}

// Remove stages the deletion of key
func (b *Batch) Remove(key string) {
	b.Delete = append(b.Delete, key)
}

// Backend stores staging entries
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Apply(ctx context.Context, batch *Batch) error
}

// entryStore is implemented by store.Store and redisclient.Client
type entryStore interface {
	GetEntry(ctx context.Context, key string) ([]byte, bool, error)
	ApplyEntries(ctx context.Context, set map[string][]byte, del []string) error
}

type entryBackend struct {
	name    string
	entries entryStore
}

// NewStoreBackend keeps entries in the SQL store's staging table
func NewStoreBackend(entries entryStore) Backend {
	return &entryBackend{name: "sql", entries: entries}
}

// NewRedisBackend keeps entries in Redis
func NewRedisBackend(entries entryStore) Backend {
	return &entryBackend{name: "redis", entries: entries}
}

func (b *entryBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, ok, err := b.entries.GetEntry(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s read %s: %v", models.ErrPersistence, b.name, key, err)
	}
	return payload, ok, nil
}

func (b *entryBackend) Apply(ctx context.Context, batch *Batch) error {
	if err := b.entries.ApplyEntries(ctx, batch.Set, batch.Delete); err != nil {
		return fmt.Errorf("%w: %s: %v", models.ErrPersistence, b.name, err)
	}
	return nil
}

// LoadList decodes a JSON array stored under key into out. A missing key or a
// payload that is not an array leaves out empty and reports malformed=true only
// for the latter. Backend errors are returned.
func LoadList[T any](ctx context.Context, b Backend, key string) (out []T, malformed bool, err error) {
	payload, ok, err := b.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	out = []T{}
	if !ok {
		return out, false, nil
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return []T{}, true, nil
	}
	if out == nil {
		out = []T{}
	}
	return out, false, nil
}
