// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package auth

import (
	"context"
	"time"
)

// TieredRevocationStore layers a fast store (Redis) over a durable one
// (Postgres). Revoke writes both synchronously; the durable write must
// succeed for the revocation to count. IsRevoked checks the fast store
// first and falls back to the durable one, caching positive hits back into
// the fast store. Negative results are never cached, so there is no window
// in which a revoked token could be admitted.
type TieredRevocationStore struct {
	fast    RevocationStore
	durable RevocationStore
}

func NewTieredRevocationStore(fast, durable RevocationStore) *TieredRevocationStore {
	return &TieredRevocationStore{fast: fast, durable: durable}
}

func (s *TieredRevocationStore) Revoke(ctx context.Context, token, userID string, expiresAt time.Time) error {
	if err := s.durable.Revoke(ctx, token, userID, expiresAt); err != nil {
		return err
	}
	// Fast-store failures are tolerable: the durable record already holds.
	_ = s.fast.Revoke(ctx, token, userID, expiresAt)
	return nil
}

func (s *TieredRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	revoked, err := s.fast.IsRevoked(ctx, token)
	if err == nil && revoked {
		return true, nil
	}

	revoked, err = s.durable.IsRevoked(ctx, token)
	if err != nil {
		return false, err
	}
	if revoked {
		// Re-warm the fast store; expiry is unknown here, so give the cached
		// record a bounded lifetime rather than none.
		_ = s.fast.Revoke(ctx, token, "", time.Now().Add(time.Hour))
	}
	return revoked, nil
}
