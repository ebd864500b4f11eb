// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VA7DBI/userauthAPI/auth"
	"github.com/VA7DBI/userauthAPI/token"
	"github.com/VA7DBI/userauthAPI/users"
	"github.com/stretchr/testify/assert"
)

func setupAuthority(t *testing.T) (*Authority, *users.MockStore, *auth.MockRevocationStore) {
	codec, err := token.NewCodec("unit-test-signing-secret", time.Hour)
	assert.NoError(t, err)

	store := users.NewMockStore()
	revoked := auth.NewMockRevocationStore()
	return NewAuthority(store, codec, revoked), store, revoked
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		authority, store, _ := setupAuthority(t)

		creds, err := authority.Register(ctx, "a@x.com", "secret1", "alice")
		assert.NoError(t, err)
		assert.NotEmpty(t, creds.UserID)
		assert.NotEmpty(t, creds.Token)

		// The account is durably stored with a hashed password
		u, err := store.FindByEmail(ctx, "a@x.com")
		assert.NoError(t, err)
		assert.NotNil(t, u)
		assert.Equal(t, "alice", u.Username)
		assert.NotEqual(t, "secret1", u.PasswordHash)
		assert.True(t, users.CheckPassword("secret1", u.PasswordHash))
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		authority, _, _ := setupAuthority(t)

		_, err := authority.Register(ctx, "a@x.com", "secret1", "alice")
		assert.NoError(t, err)

		_, err = authority.Register(ctx, "a@x.com", "other", "bob")
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		authority, store, _ := setupAuthority(t)
		store.Err = errors.New("db down")

		_, err := authority.Register(ctx, "a@x.com", "secret1", "alice")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmailExists)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		authority, _, _ := setupAuthority(t)

		registered, err := authority.Register(ctx, "a@x.com", "secret1", "alice")
		assert.NoError(t, err)

		creds, err := authority.Login(ctx, "a@x.com", "secret1")
		assert.NoError(t, err)
		assert.Equal(t, registered.UserID, creds.UserID)
		assert.NotEmpty(t, creds.Token)
	})

	t.Run("NoEnumeration", func(t *testing.T) {
		authority, _, _ := setupAuthority(t)

		_, err := authority.Register(ctx, "a@x.com", "secret1", "alice")
		assert.NoError(t, err)

		// Unknown email and wrong password must be indistinguishable
		_, unknownErr := authority.Login(ctx, "nobody@x.com", "secret1")
		_, wrongPwErr := authority.Login(ctx, "a@x.com", "wrong-password")

		assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
		assert.ErrorIs(t, wrongPwErr, ErrInvalidCredentials)
		assert.Equal(t, unknownErr.Error(), wrongPwErr.Error())
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("RevokesToken", func(t *testing.T) {
		authority, _, revoked := setupAuthority(t)

		creds, err := authority.Register(ctx, "a@x.com", "secret1", "alice")
		assert.NoError(t, err)

		err = authority.Logout(ctx, creds.Token, creds.UserID)
		assert.NoError(t, err)

		isRevoked, err := revoked.IsRevoked(ctx, creds.Token)
		assert.NoError(t, err)
		assert.True(t, isRevoked)
	})

	t.Run("Idempotent", func(t *testing.T) {
		authority, _, revoked := setupAuthority(t)

		creds, err := authority.Register(ctx, "a@x.com", "secret1", "alice")
		assert.NoError(t, err)

		assert.NoError(t, authority.Logout(ctx, creds.Token, creds.UserID))
		assert.NoError(t, authority.Logout(ctx, creds.Token, creds.UserID))

		isRevoked, _ := revoked.IsRevoked(ctx, creds.Token)
		assert.True(t, isRevoked)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		authority, _, revoked := setupAuthority(t)
		revoked.Err = errors.New("store down")

		err := authority.Logout(ctx, "some-token", "user-1")
		assert.Error(t, err)
	})
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()

	t.Run("GetProfile", func(t *testing.T) {
		authority, _, _ := setupAuthority(t)

		creds, err := authority.Register(ctx, "a@x.com", "secret1", "alice")
		assert.NoError(t, err)

		profile, err := authority.GetProfile(ctx, creds.UserID)
		assert.NoError(t, err)
		assert.Equal(t, creds.UserID, profile.ID)
		assert.Equal(t, "a@x.com", profile.Email)
		assert.Equal(t, "alice", profile.Username)
	})

	t.Run("GetUserByIDAllowsAnyCaller", func(t *testing.T) {
		authority, _, _ := setupAuthority(t)

		alice, err := authority.Register(ctx, "a@x.com", "secret1", "alice")
		assert.NoError(t, err)
		_, err = authority.Register(ctx, "b@x.com", "secret2", "bob")
		assert.NoError(t, err)

		// Bob's session can read Alice's profile by ID
		profile, err := authority.GetUserByID(ctx, alice.UserID)
		assert.NoError(t, err)
		assert.Equal(t, "alice", profile.Username)
	})

	t.Run("NotFound", func(t *testing.T) {
		authority, _, _ := setupAuthority(t)

		_, err := authority.GetProfile(ctx, "missing-id")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
