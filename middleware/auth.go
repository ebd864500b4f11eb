// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/VA7DBI/userauthAPI/auth"
	"github.com/VA7DBI/userauthAPI/metrics"
	"github.com/VA7DBI/userauthAPI/token"
	"github.com/gin-gonic/gin"
)

// Context keys set on admitted requests.
const (
	ContextUserID = "userID"
	ContextToken  = "accessToken"
)

const bearerPrefix = "Bearer "

// TokenAuth is the per-request gate: it extracts the bearer token, verifies
// signature and expiry, then checks the revocation blacklist. The blacklist
// lookup happens only after the cryptographic checks pass, so store load is
// never spent on tokens that fail on signature or expiry alone.
type TokenAuth struct {
	codec   *token.Codec
	revoked auth.RevocationStore
}

func NewTokenAuth(codec *token.Codec, revoked auth.RevocationStore) *TokenAuth {
	return &TokenAuth{
		codec:   codec,
		revoked: revoked,
	}
}

// Handler returns the gin middleware handler function. On success the
// verified user ID and the raw token are attached to the request context.
func (m *TokenAuth) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			metrics.TokenChecks.WithLabelValues("missing").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing or invalid!"})
			c.Abort()
			return
		}

		claims, err := m.codec.Verify(raw)
		if err != nil {
			if errors.Is(err, token.ErrTokenExpired) {
				metrics.TokenChecks.WithLabelValues("expired").Inc()
			} else {
				metrics.TokenChecks.WithLabelValues("invalid").Inc()
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token!"})
			c.Abort()
			return
		}

		revoked, err := m.revoked.IsRevoked(c.Request.Context(), raw)
		if err != nil {
			metrics.TokenChecks.WithLabelValues("store_error").Inc()
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Authorization temporarily unavailable"})
			c.Abort()
			return
		}
		if revoked {
			metrics.TokenChecks.WithLabelValues("revoked").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked!"})
			c.Abort()
			return
		}

		metrics.TokenChecks.WithLabelValues("ok").Inc()
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextToken, raw)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}
	return authHeader[len(bearerPrefix):]
}
