// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VA7DBI/userauthAPI/auth"
	"github.com/VA7DBI/userauthAPI/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupGateTest(t *testing.T) (*gin.Engine, *token.Codec, *auth.MockRevocationStore) {
	gin.SetMode(gin.TestMode)

	codec, err := token.NewCodec("unit-test-signing-secret", time.Hour)
	assert.NoError(t, err)

	revoked := auth.NewMockRevocationStore()
	gate := NewTokenAuth(codec, revoked)

	r := gin.New()
	r.GET("/protected", gate.Handler(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString(ContextUserID)})
	})

	return r, codec, revoked
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenAuth(t *testing.T) {
	t.Run("MissingHeader", func(t *testing.T) {
		r, _, _ := setupGateTest(t)
		w := doRequest(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		r, codec, _ := setupGateTest(t)
		raw, err := codec.Issue("user-1", "a@x.com")
		assert.NoError(t, err)

		// No "Bearer " prefix
		w := doRequest(r, raw)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = doRequest(r, "Basic "+raw)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		r, _, _ := setupGateTest(t)

		other, err := token.NewCodec("some-other-secret", time.Hour)
		assert.NoError(t, err)
		raw, err := other.Issue("user-1", "a@x.com")
		assert.NoError(t, err)

		w := doRequest(r, "Bearer "+raw)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ValidToken", func(t *testing.T) {
		r, codec, _ := setupGateTest(t)
		raw, err := codec.Issue("user-1", "a@x.com")
		assert.NoError(t, err)

		w := doRequest(r, "Bearer "+raw)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-1")
	})

	t.Run("RevokedToken", func(t *testing.T) {
		r, codec, revoked := setupGateTest(t)
		raw, err := codec.Issue("user-1", "a@x.com")
		assert.NoError(t, err)

		// Admitted while live
		w := doRequest(r, "Bearer "+raw)
		assert.Equal(t, http.StatusOK, w.Code)

		// Rejected after revocation, although the signature is still valid
		err = revoked.Revoke(context.Background(), raw, "user-1", time.Now().Add(time.Hour))
		assert.NoError(t, err)

		w = doRequest(r, "Bearer "+raw)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "revoked")
	})

	t.Run("StoreUnavailable", func(t *testing.T) {
		r, codec, revoked := setupGateTest(t)
		revoked.Err = errors.New("store down")

		raw, err := codec.Issue("user-1", "a@x.com")
		assert.NoError(t, err)

		w := doRequest(r, "Bearer "+raw)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
