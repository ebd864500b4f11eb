// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

// Package token issues and verifies the signed bearer tokens that carry a
// user's identity. Tokens are compact JWTs signed with HS256; the signing
// secret is injected at construction so tests can substitute a fixed one.
package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/oklog/ulid/v2"
)

var (
	// ErrTokenExpired is returned when the token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for malformed tokens and signature mismatches.
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims holds the verified contents of a token.
type Claims struct {
	UserID  string
	Email   string
	TokenID string
	Expiry  time.Time
}

type extraClaims struct {
	Email string `json:"email,omitempty"`
}

// Codec signs and verifies bearer tokens with a process-wide symmetric secret.
type Codec struct {
	secret []byte
	signer jose.Signer
	ttl    time.Duration
}

// NewCodec builds a codec signing with HS256 over the given secret. Issued
// tokens are valid for ttl from the moment of issuance.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret must not be empty")
	}
	key := []byte(secret)
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %v", err)
	}
	return &Codec{
		secret: key,
		signer: signer,
		ttl:    ttl,
	}, nil
}

// NewTokenID returns a ULID usable as a jti claim.
func NewTokenID(timestamp time.Time) string {
	id, _ := ulid.New(ulid.Timestamp(timestamp), rand.Reader)
	return id.String()
}

// TTL returns the validity window applied to issued tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed token for the given user. The token carries the
// user ID as subject, the email as a private claim, and expires TTL from now.
func (c *Codec) Issue(userID, email string) (string, error) {
	now := time.Now()

	claims := jwt.Claims{
		Subject:  userID,
		ID:       NewTokenID(now),
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(c.ttl)),
	}

	raw, err := jwt.Signed(c.signer).Claims(claims).Claims(extraClaims{Email: email}).CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return raw, nil
}

// Verify checks the signature and expiry of a raw token and returns its
// claims. Signature comparison is done inside go-jose's HMAC validation,
// which is constant time. Any parse, signature, or claim failure rejects
// the token; there is no partial success.
func (c *Codec) Verify(raw string) (*Claims, error) {
	parsed, err := jwt.ParseSigned(raw)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	var claims jwt.Claims
	var extra extraClaims
	if err := parsed.Claims(c.secret, &claims, &extra); err != nil {
		return nil, ErrTokenInvalid
	}

	if err := claims.ValidateWithLeeway(jwt.Expected{Time: time.Now()}, 0); err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	out := &Claims{
		UserID:  claims.Subject,
		Email:   extra.Email,
		TokenID: claims.ID,
	}
	if claims.Expiry != nil {
		out.Expiry = claims.Expiry.Time()
	}
	return out, nil
}
