package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetEntry reads a staging payload. The bool is false when the key is absent.
func (s *Store) GetEntry(ctx context.Context, key string) ([]byte, bool, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, s.db.Rebind(
		"SELECT payload FROM staging_entries WHERE entry_key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(payload), true, nil
}

// ApplyEntries upserts and deletes staging entries in one transaction
func (s *Store) ApplyEntries(ctx context.Context, set map[string][]byte, del []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	upsert := tx.Rebind(`
		INSERT INTO staging_entries (entry_key, payload) VALUES (?, ?)
		ON CONFLICT (entry_key) DO UPDATE SET payload = excluded.payload`)
	for key, payload := range set {
		if _, err := tx.ExecContext(ctx, upsert, key, string(payload)); err != nil {
			return fmt.Errorf("failed to write entry %s: %w", key, err)
		}
	}

	remove := tx.Rebind("DELETE FROM staging_entries WHERE entry_key = ?")
	for _, key := range del {
		if _, err := tx.ExecContext(ctx, remove, key); err != nil {
			return fmt.Errorf("failed to delete entry %s: %w", key, err)
		}
	}

	return tx.Commit()
}
