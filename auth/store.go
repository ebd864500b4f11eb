// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

// Package auth holds the token revocation blacklist. A revoked token stays
// cryptographically valid until its natural expiry; the blacklist is what
// makes logout effective before then.
package auth

import (
	"context"
	"time"
)

// RevocationStore is the durable set of revoked tokens. Revoke is idempotent:
// recording the same token twice is not an error and leaves the store in the
// same state as recording it once.
type RevocationStore interface {
	Revoke(ctx context.Context, token, userID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
