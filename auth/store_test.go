// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRevocationStoreInterface(t *testing.T) {
	var store RevocationStore = NewMockRevocationStore()
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "some-token")
	assert.NoError(t, err)
	assert.False(t, revoked)

	err = store.Revoke(ctx, "some-token", "user-1", time.Now().Add(time.Hour))
	assert.NoError(t, err)

	revoked, err = store.IsRevoked(ctx, "some-token")
	assert.NoError(t, err)
	assert.True(t, revoked)
}

func TestTieredRevocationStore(t *testing.T) {
	ctx := context.Background()

	t.Run("RevokeWritesBoth", func(t *testing.T) {
		fast := NewMockRevocationStore()
		durable := NewMockRevocationStore()
		store := NewTieredRevocationStore(fast, durable)

		err := store.Revoke(ctx, "some-token", "user-1", time.Now().Add(time.Hour))
		assert.NoError(t, err)

		revoked, _ := fast.IsRevoked(ctx, "some-token")
		assert.True(t, revoked)
		revoked, _ = durable.IsRevoked(ctx, "some-token")
		assert.True(t, revoked)
	})

	t.Run("DurableFailureFailsRevoke", func(t *testing.T) {
		fast := NewMockRevocationStore()
		durable := NewMockRevocationStore()
		durable.Err = errors.New("db down")
		store := NewTieredRevocationStore(fast, durable)

		err := store.Revoke(ctx, "some-token", "user-1", time.Now().Add(time.Hour))
		assert.Error(t, err)
	})

	t.Run("DurableHitWarmsFastStore", func(t *testing.T) {
		fast := NewMockRevocationStore()
		durable := NewMockRevocationStore()
		store := NewTieredRevocationStore(fast, durable)

		// Record exists only in the durable store
		assert.NoError(t, durable.Revoke(ctx, "pg-only", "user-1", time.Now().Add(time.Hour)))

		revoked, err := store.IsRevoked(ctx, "pg-only")
		assert.NoError(t, err)
		assert.True(t, revoked)

		revoked, _ = fast.IsRevoked(ctx, "pg-only")
		assert.True(t, revoked, "positive hit should be cached in the fast store")
	})

	t.Run("FastErrorFallsBackToDurable", func(t *testing.T) {
		fast := NewMockRevocationStore()
		fast.Err = errors.New("redis down")
		durable := NewMockRevocationStore()
		store := NewTieredRevocationStore(fast, durable)

		assert.NoError(t, durable.Revoke(ctx, "some-token", "user-1", time.Now().Add(time.Hour)))

		revoked, err := store.IsRevoked(ctx, "some-token")
		assert.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("BothMissIsNotRevoked", func(t *testing.T) {
		store := NewTieredRevocationStore(NewMockRevocationStore(), NewMockRevocationStore())

		revoked, err := store.IsRevoked(ctx, "live-token")
		assert.NoError(t, err)
		assert.False(t, revoked)
	})
}
