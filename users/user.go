// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

// Package users is the account repository: durable storage of registered
// accounts and the password hashing applied to their credentials.
package users

import "time"

// User is a stored account record. PasswordHash never leaves this package's
// consumers except through the Profile projection, which omits it.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Avatar       string
	CreatedAt    time.Time
}

// Profile is the externally visible view of a user.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile returns the credential-free projection of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}
