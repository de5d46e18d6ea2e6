// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package link

import (
	"context"
)

// LinkRepository defines the data access contract for links.
//
// # Authorization
//
// Deliberately absent here: Delete and SetPublished operate on a bare link
// id. Ownership is enforced one layer up ([Service]), keeping the storage
// contract a faithful mirror of the table.
type LinkRepository interface {
	// Create persists a new link.
	Create(ctx context.Context, link *Link) error

	// FindByID returns the link with the given id.
	//
	// Returns [apperr.NotFound] if it does not exist.
	FindByID(ctx context.Context, id string) (*Link, error)

	// ListByUser returns every link owned by userID, any publish state.
	ListByUser(ctx context.Context, userID string) ([]Link, error)

	// ListPublished returns only the published links owned by userID.
	ListPublished(ctx context.Context, userID string) ([]Link, error)

	// Delete removes the link with the given id.
	Delete(ctx context.Context, id string) error

	// SetPublished sets the published flag to the given value. This is an
	// explicit set, not a flip: the caller supplies the desired target state
	// from the submitted form control.
	SetPublished(ctx context.Context, id string, published bool) error
}
