// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package auth

import (
	"context"
	"sync"
	"time"
)

// MockRevocationStore is an in-memory RevocationStore for testing.
type MockRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]string
	Err     error // returned from every call when set
}

func NewMockRevocationStore() *MockRevocationStore {
	return &MockRevocationStore{
		revoked: make(map[string]string),
	}
}

func (m *MockRevocationStore) Revoke(ctx context.Context, token, userID string, expiresAt time.Time) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[token] = userID
	return nil
}

func (m *MockRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[token]
	return ok, nil
}
