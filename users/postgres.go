// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package users

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/VA7DBI/userauthAPI/config"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

const (
	findByEmailSQL = `SELECT id, email, username, password_hash, avatar, created_at
		FROM users WHERE email = $1`
	findByIDSQL = `SELECT id, email, username, password_hash, avatar, created_at
		FROM users WHERE id = $1`
	existsByEmailSQL = `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	insertUserSQL    = `INSERT INTO users (id, email, username, password_hash, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
)

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(cfg *config.Config) (*PostgresStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("postgres connection failed: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping failed: %v", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, findByEmailSQL, email)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, findByIDSQL, id)
}

func (s *PostgresStore) findOne(ctx context.Context, query, arg string) (*User, error) {
	var user User
	var avatar sql.NullString
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash, &avatar, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.Avatar = avatar.String
	return &user, nil
}

func (s *PostgresStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, existsByEmailSQL, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create stores a new account and returns its generated ID. The caller is
// expected to have hashed the password already.
func (s *PostgresStore) Create(ctx context.Context, user *User) (string, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	var avatar sql.NullString
	if user.Avatar != "" {
		avatar = sql.NullString{String: user.Avatar, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, insertUserSQL,
		user.ID, user.Email, user.Username, user.PasswordHash, avatar, user.CreatedAt,
	)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
