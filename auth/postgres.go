// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package auth

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/VA7DBI/userauthAPI/config"
	_ "github.com/lib/pq"
)

const (
	insertRevocationSQL = `INSERT INTO token_blacklist (token, user_id, revoked_at, expires_at)
		VALUES ($1, $2, now(), $3) ON CONFLICT (token) DO NOTHING`
	lookupRevocationSQL = `SELECT EXISTS(SELECT 1 FROM token_blacklist WHERE token = $1)`
	sweepRevocationSQL  = `DELETE FROM token_blacklist WHERE expires_at < now()`
)

// PostgresRevocationStore implements RevocationStore on PostgreSQL. Records
// are keyed by the raw token; ON CONFLICT DO NOTHING makes revocation
// idempotent. Expired records are removed by the sweeper.
type PostgresRevocationStore struct {
	db *sql.DB
}

func NewPostgresRevocationStore(cfg *config.Config) (*PostgresRevocationStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Blacklist.Postgres.Host,
		cfg.Blacklist.Postgres.Port,
		cfg.Blacklist.Postgres.User,
		cfg.Blacklist.Postgres.Password,
		cfg.Blacklist.Postgres.DBName,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("postgres connection failed: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping failed: %v", err)
	}

	return &PostgresRevocationStore{db: db}, nil
}

func (s *PostgresRevocationStore) Revoke(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, insertRevocationSQL, token, userID, expiresAt)
	return err
}

func (s *PostgresRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx, lookupRevocationSQL, token).Scan(&revoked)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return revoked, nil
}

// StartSweeper launches a background loop that deletes revocation records
// whose token has passed its natural expiry. A token past expiry is already
// rejected by signature verification, so removing its record is safe. The
// returned function stops the loop.
func (s *PostgresRevocationStore) StartSweeper(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				if n, err := s.sweep(context.Background()); err != nil {
					log.Printf("blacklist sweep failed: %v", err)
				} else if n > 0 {
					log.Printf("blacklist sweep removed %d expired records", n)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()
	return func() { close(done) }
}

func (s *PostgresRevocationStore) sweep(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, sweepRevocationSQL)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PostgresRevocationStore) Close() error {
	return s.db.Close()
}
