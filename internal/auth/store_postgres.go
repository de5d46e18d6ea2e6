// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onelinkhq/onelink/internal/platform/apperr"
	"github.com/onelinkhq/onelink/internal/platform/database/schema"
	"github.com/onelinkhq/onelink/internal/platform/dberr"
)

// PostgresUserRepository implements the [UserRepository] interface using pgx.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] values so no pgx detail leaks upward.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user and its password hash in one transaction.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User, passwordHash string) error {
	const insertUser = `
		INSERT INTO users (id, username, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	const insertPassword = `
		INSERT INTO passwords (user_id, hash)
		VALUES ($1, $2)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, insertUser,
		user.ID, user.Username, user.Email, user.CreatedAt, user.UpdatedAt,
	); err != nil {
		return dberr.Wrap(err, "Username or email is already taken")
	}

	if _, err := tx.Exec(ctx, insertPassword, user.ID, passwordHash); err != nil {
		return fmt.Errorf("postgres_user_repo_create_password_failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres_user_repo_commit_failed: %w", err)
	}

	return nil
}

// FindByID retrieves a user record by primary key.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.findBy(ctx, schema.Users.ID, id)
}

// FindByEmail retrieves a user record by their unique email address.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.findBy(ctx, schema.Users.Email, email)
}

// FindByUsername retrieves a user record by their unique username.
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return repository.findBy(ctx, schema.Users.Username, username)
}

// findBy is the shared single-row lookup. The column name comes from the
// schema definition, never from user input.
func (repository *PostgresUserRepository) findBy(ctx context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT id, username, email, created_at, updated_at
		FROM users
		WHERE %s = $1`, column)

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, value).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	return user, nil
}

// FindPasswordHash retrieves the bcrypt hash owned by the given user.
func (repository *PostgresUserRepository) FindPasswordHash(ctx context.Context, userID string) (string, error) {
	const query = `
		SELECT hash
		FROM passwords
		WHERE user_id = $1`

	var hash string
	err := repository.pool.QueryRow(ctx, query, userID).Scan(&hash)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound("Password")
		}
		return "", fmt.Errorf("postgres_user_repo_find_password_failed: %w", err)
	}

	return hash, nil
}
