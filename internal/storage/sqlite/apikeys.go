// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// APIKey is one row of the api_keys table. Keys are created by the HTTP
// management layer; the internal auth server only reads them.
type APIKey struct {
	ID        string    `db:"id"`
	Key       string    `db:"key"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// GetAPIKeyByKey looks up an API key by exact key match. Returns nil without
// error when the key does not exist.
func (s *Store) GetAPIKeyByKey(ctx context.Context, key string) (*APIKey, error) {
	var apiKey APIKey
	err := s.db.GetContext(ctx, &apiKey, `SELECT id, key, name, created_at FROM api_keys WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}
	return &apiKey, nil
}

// CreateAPIKey stores a new key under a fresh id.
func (s *Store) CreateAPIKey(ctx context.Context, key, name string) (*APIKey, error) {
	apiKey := &APIKey{
		ID:        uuid.NewString(),
		Key:       key,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO api_keys (id, key, name, created_at) VALUES (?, ?, ?, ?)`,
		apiKey.ID, apiKey.Key, apiKey.Name, apiKey.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create api key: %w", err)
	}
	return apiKey, nil
}

// ListAPIKeys returns all keys, newest first.
func (s *Store) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	var keys []APIKey
	err := s.db.SelectContext(ctx, &keys, `SELECT id, key, name, created_at FROM api_keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return keys, nil
}

// DeleteAPIKey removes a key by id. Deleting a missing key is not an error.
func (s *Store) DeleteAPIKey(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete api key: %w", err)
	}
	return nil
}
