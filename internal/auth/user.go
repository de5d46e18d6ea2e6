// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

// Package auth owns the user/password entities, credential verification, and
// the registration + login route handlers.
//
// # Architecture
//
// Entities here represent the "Truth" of the system. They have no
// dependencies on outer layers (databases, HTTP, cookies); storage contracts
// live in store.go and the PostgreSQL implementation in store_postgres.go.
package auth

import (
	"time"
)

// User represents a registered Onelink member.
//
// # Rules
//   - Username is unique and doubles as the public profile URL slug.
//   - Email is unique.
//   - The password hash is never part of this struct: callers that need it
//     go through [UserRepository.FindPasswordHash], so a User can always be
//     serialized safely.
//   - Username and email are immutable after registration (no edit flows).
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
