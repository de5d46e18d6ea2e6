// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package auth

import (
	"context"
)

// UserRepository defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently.
//
// # Implementations
//
// The canonical implementation is PostgreSQL (store_postgres.go). Tests use
// an in-memory fake.
type UserRepository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	//
	// Returns [apperr.NotFound] if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername returns the account with the given username.
	//
	// Returns [apperr.NotFound] if the username is available.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindPasswordHash returns the bcrypt hash owned by the given user.
	//
	// Returns [apperr.NotFound] if the user or its password row is missing.
	FindPasswordHash(ctx context.Context, userID string) (string, error)

	// Create persists a brand-new user account together with its password
	// hash. Both rows are written inside one transaction: a User without a
	// Password must never be observable.
	//
	// Returns [apperr.Conflict] if a unique constraint (email/username) fails.
	Create(ctx context.Context, user *User, passwordHash string) error
}
