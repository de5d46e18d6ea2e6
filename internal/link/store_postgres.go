// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package link

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onelinkhq/onelink/internal/platform/apperr"
)

// PostgresLinkRepository implements [LinkRepository] using pgx.
type PostgresLinkRepository struct {
	pool *pgxpool.Pool
}

// NewLinkRepository creates a new PostgreSQL implementation of the LinkRepository.
func NewLinkRepository(pool *pgxpool.Pool) *PostgresLinkRepository {
	return &PostgresLinkRepository{pool: pool}
}

// Create persists a new link row.
func (repository *PostgresLinkRepository) Create(ctx context.Context, link *Link) error {
	const query = `
		INSERT INTO links (id, url, title, published, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(ctx, query,
		link.ID,
		link.URL,
		link.Title,
		link.Published,
		link.UserID,
		link.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_link_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID retrieves a link by primary key.
func (repository *PostgresLinkRepository) FindByID(ctx context.Context, id string) (*Link, error) {
	const query = `
		SELECT id, url, title, published, user_id, created_at
		FROM links
		WHERE id = $1`

	link := &Link{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&link.ID,
		&link.URL,
		&link.Title,
		&link.Published,
		&link.UserID,
		&link.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Link")
		}
		return nil, fmt.Errorf("postgres_link_repo_find_failed: %w", err)
	}

	return link, nil
}

// ListByUser returns every link owned by userID in insertion order.
func (repository *PostgresLinkRepository) ListByUser(ctx context.Context, userID string) ([]Link, error) {
	const query = `
		SELECT id, url, title, published, user_id, created_at
		FROM links
		WHERE user_id = $1
		ORDER BY id`

	return repository.list(ctx, query, userID)
}

// ListPublished returns only the published links owned by userID.
func (repository *PostgresLinkRepository) ListPublished(ctx context.Context, userID string) ([]Link, error) {
	const query = `
		SELECT id, url, title, published, user_id, created_at
		FROM links
		WHERE user_id = $1 AND published = TRUE
		ORDER BY id`

	return repository.list(ctx, query, userID)
}

// list executes a multi-row link query and scans the result set.
func (repository *PostgresLinkRepository) list(ctx context.Context, query, userID string) ([]Link, error) {
	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_link_repo_list_failed: %w", err)
	}
	defer rows.Close()

	links := []Link{}
	for rows.Next() {
		var link Link
		if err := rows.Scan(
			&link.ID,
			&link.URL,
			&link.Title,
			&link.Published,
			&link.UserID,
			&link.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_link_repo_scan_failed: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_link_repo_rows_failed: %w", err)
	}

	return links, nil
}

// Delete removes a link row. Deleting an already-absent id is not an error.
func (repository *PostgresLinkRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM links WHERE id = $1`

	if _, err := repository.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("postgres_link_repo_delete_failed: %w", err)
	}

	return nil
}

// SetPublished sets the published flag to an explicit value.
func (repository *PostgresLinkRepository) SetPublished(ctx context.Context, id string, published bool) error {
	const query = `UPDATE links SET published = $2 WHERE id = $1`

	if _, err := repository.pool.Exec(ctx, query, id, published); err != nil {
		return fmt.Errorf("postgres_link_repo_set_published_failed: %w", err)
	}

	return nil
}
