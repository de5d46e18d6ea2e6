// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

// Package link owns the Link entity and everything a member does with it:
// creating, listing, deleting, and toggling the published flag, plus the
// public profile page that renders the published subset.
package link

import (
	"time"
)

// Link is one entry on a member's public page.
//
// # Rules
//   - URL must be an absolute http/https (or chrome) URI.
//   - Title is non-empty, minimum 5 characters.
//   - Published gates visibility on the public profile; new links start
//     unpublished.
//   - No ordering field: presentation order is insertion order.
type Link struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Published bool      `json:"published"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
