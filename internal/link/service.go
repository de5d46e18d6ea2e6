// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package link

import (
	"context"

	"github.com/onelinkhq/onelink/internal/platform/apperr"
	"github.com/onelinkhq/onelink/pkg/uuidv7"
)

// Service implements the link management use cases.
//
// # Authorization
//
// Early versions deleted and toggled links by bare id, trusting the form.
// The ownership check now lives here: mutating operations take the
// requesting user's id and refuse to touch links owned by anyone else.
type Service struct {
	linkRepository LinkRepository
}

// NewService constructs a new [Service] with its storage dependency.
func NewService(linkRepo LinkRepository) *Service {
	return &Service{linkRepository: linkRepo}
}

// Create persists a new link for userID. New links start unpublished.
func (service *Service) Create(ctx context.Context, url, title, userID string) (*Link, error) {
	link := &Link{
		ID:     uuidv7.New(),
		URL:    url,
		Title:  title,
		UserID: userID,
	}

	if err := service.linkRepository.Create(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

// ListByUser returns every link owned by userID, any publish state.
func (service *Service) ListByUser(ctx context.Context, userID string) ([]Link, error) {
	return service.linkRepository.ListByUser(ctx, userID)
}

// ListPublished returns the published links of userID for the public profile.
func (service *Service) ListPublished(ctx context.Context, userID string) ([]Link, error) {
	return service.linkRepository.ListPublished(ctx, userID)
}

// DeleteOwned removes a link after verifying it belongs to userID.
func (service *Service) DeleteOwned(ctx context.Context, linkID, userID string) error {
	if err := service.requireOwner(ctx, linkID, userID); err != nil {
		return err
	}
	return service.linkRepository.Delete(ctx, linkID)
}

// SetPublishedOwned sets the published flag to an explicit target state
// after verifying the link belongs to userID.
//
// Despite the "toggle" form control it serves, this is a set: the client
// always submits the desired state, so replaying a request is idempotent.
func (service *Service) SetPublishedOwned(ctx context.Context, linkID, userID string, published bool) error {
	if err := service.requireOwner(ctx, linkID, userID); err != nil {
		return err
	}
	return service.linkRepository.SetPublished(ctx, linkID, published)
}

// requireOwner loads the link and verifies ownership.
func (service *Service) requireOwner(ctx context.Context, linkID, userID string) error {
	link, err := service.linkRepository.FindByID(ctx, linkID)
	if err != nil {
		return err
	}
	if link.UserID != userID {
		return apperr.Forbidden("You do not own this link")
	}
	return nil
}
