// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store for testing.
type MockStore struct {
	mu   sync.Mutex
	byID map[string]*User
	Err  error // returned from every call when set
}

func NewMockStore() *MockStore {
	return &MockStore{
		byID: make(map[string]*User),
	}
}

func (m *MockStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockStore) FindByID(ctx context.Context, id string) (*User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (m *MockStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := m.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

func (m *MockStore) Create(ctx context.Context, user *User) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	copied := *user
	m.byID[user.ID] = &copied
	return user.ID, nil
}
