// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

// Package session orchestrates registration, login, logout, and profile
// lookups over the account repository, the token codec, and the revocation
// blacklist. It owns the error taxonomy the HTTP layer maps to status codes.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VA7DBI/userauthAPI/auth"
	"github.com/VA7DBI/userauthAPI/token"
	"github.com/VA7DBI/userauthAPI/users"
)

var (
	// ErrEmailExists is returned by Register when the email is already taken.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password, so
	// login failures never reveal whether an account exists.
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	// ErrUserNotFound is returned by profile lookups for unknown IDs.
	ErrUserNotFound = errors.New("user not found")
)

// Credentials is the result of a successful registration or login: the
// account's identity and a freshly issued bearer token. No server-side
// session state exists beyond what the account repository stores.
type Credentials struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// Authority composes the account repository, token codec, and revocation
// store. All methods are safe for concurrent use.
type Authority struct {
	users   users.Store
	codec   *token.Codec
	revoked auth.RevocationStore
}

func NewAuthority(store users.Store, codec *token.Codec, revoked auth.RevocationStore) *Authority {
	return &Authority{
		users:   store,
		codec:   codec,
		revoked: revoked,
	}
}

// Register creates a new account and issues its first token. Fails with
// ErrEmailExists when an account with the same email is already stored.
func (a *Authority) Register(ctx context.Context, email, password, username string) (*Credentials, error) {
	exists, err := a.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("email lookup failed: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %w", err)
	}

	userID, err := a.users.Create(ctx, &users.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("account creation failed: %w", err)
	}

	raw, err := a.codec.Issue(userID, email)
	if err != nil {
		return nil, fmt.Errorf("token issuance failed: %w", err)
	}

	return &Credentials{UserID: userID, Token: raw}, nil
}

// Login verifies the password against the stored hash and issues a fresh
// token. Unknown email and wrong password return the identical
// ErrInvalidCredentials.
func (a *Authority) Login(ctx context.Context, email, password string) (*Credentials, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("email lookup failed: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !users.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	raw, err := a.codec.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("token issuance failed: %w", err)
	}

	return &Credentials{UserID: user.ID, Token: raw}, nil
}

// Logout records the token in the revocation blacklist. The record inherits
// the expiry embedded in the token claims; if the claims cannot be read the
// record is kept for a full validity window instead, never shorter. Repeated
// logouts with the same token succeed per the store's idempotence.
func (a *Authority) Logout(ctx context.Context, rawToken, userID string) error {
	expiresAt := time.Now().Add(a.codec.TTL())
	if claims, err := a.codec.Verify(rawToken); err == nil && !claims.Expiry.IsZero() {
		expiresAt = claims.Expiry
	}

	if err := a.revoked.Revoke(ctx, rawToken, userID, expiresAt); err != nil {
		return fmt.Errorf("failed to record revocation: %w", err)
	}
	return nil
}

// GetProfile returns the credential-free view of the caller's own account.
func (a *Authority) GetProfile(ctx context.Context, userID string) (*users.Profile, error) {
	return a.lookupProfile(ctx, userID)
}

// GetUserByID returns any account's profile. There is deliberately no
// ownership check: any authenticated caller may view any profile.
func (a *Authority) GetUserByID(ctx context.Context, targetID string) (*users.Profile, error) {
	return a.lookupProfile(ctx, targetID)
}

func (a *Authority) lookupProfile(ctx context.Context, id string) (*users.Profile, error) {
	user, err := a.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	profile := user.Profile()
	return &profile, nil
}
