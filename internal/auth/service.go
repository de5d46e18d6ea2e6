// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/onelinkhq/onelink/internal/platform/apperr"
	"github.com/onelinkhq/onelink/internal/platform/sec"
	"github.com/onelinkhq/onelink/pkg/uuidv7"
)

// Taken-messages surfaced by the existence checks. They are form-ready
// strings, mirroring the pure validators' contract.
const (
	emailTakenMessage    = "Email is already taken"
	usernameTakenMessage = "Username is already taken"
)

// Service implements the user lifecycle use cases: registration, credential
// verification, and the existence checks backing signup validation.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing or
// verification logic must be reviewed carefully.
type Service struct {
	userRepository UserRepository
}

// NewService constructs a new [Service] with its storage dependency.
func NewService(userRepo UserRepository) *Service {
	return &Service{userRepository: userRepo}
}

// GetUserByID returns the user's public fields.
//
// Returns [apperr.NotFound] when the id does not resolve; session callers
// treat that as a dangling session and sign out.
func (service *Service) GetUserByID(ctx context.Context, id string) (*User, error) {
	return service.userRepository.FindByID(ctx, id)
}

// GetUserByUsername returns the user owning the given username.
//
// Returns [apperr.NotFound] when no such user exists; the public profile
// route surfaces that as its 404.
func (service *Service) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return service.userRepository.FindByUsername(ctx, username)
}

// VerifyCredentials checks a username/password pair.
//
// # Security
//
// Returns (nil, nil) both when the username does not exist and when the
// password is wrong. Callers map either case to the same generic
// "Invalid username or password" so usernames cannot be enumerated.
func (service *Service) VerifyCredentials(ctx context.Context, username, password string) (*User, error) {
	user, err := service.userRepository.FindByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("auth_service_verify_lookup_failed: %w", err)
	}

	hash, err := service.userRepository.FindPasswordHash(ctx, user.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("auth_service_verify_hash_failed: %w", err)
	}

	if !sec.CheckPasswordHash(password, hash) {
		return nil, nil
	}

	return user, nil
}

// CreateUser validates nothing: by the time it runs, the handler has already
// applied the field validators and existence checks. It hashes the password
// and persists User + Password atomically.
func (service *Service) CreateUser(ctx context.Context, email, username, password string) (*User, error) {
	hashedPassword, err := sec.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:       uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		Username: username,
		Email:    email,
	}

	if err := service.userRepository.Create(ctx, user, hashedPassword); err != nil {
		return nil, err
	}

	return user, nil
}

// EmailTaken is the asynchronous existence check behind signup validation.
//
// Returns the form-ready "taken" message when a user already owns the email,
// or "" when it is free. It never excludes the caller's own record: skipping
// the check for an unchanged value is the route handler's responsibility.
func (service *Service) EmailTaken(ctx context.Context, email string) (string, error) {
	_, err := service.userRepository.FindByEmail(ctx, email)
	return takenResult(err, emailTakenMessage)
}

// UsernameTaken reports whether a username is already registered.
// Same contract as [Service.EmailTaken].
func (service *Service) UsernameTaken(ctx context.Context, username string) (string, error) {
	_, err := service.userRepository.FindByUsername(ctx, username)
	return takenResult(err, usernameTakenMessage)
}

// takenResult folds a lookup result into the existence-check contract:
// found → taken message, not-found → free, anything else → storage error.
func takenResult(lookupErr error, takenMessage string) (string, error) {
	if lookupErr == nil {
		return takenMessage, nil
	}
	if isNotFound(lookupErr) {
		return "", nil
	}
	return "", lookupErr
}

// isNotFound reports whether err is an [apperr.AppError] with 404 status.
func isNotFound(err error) bool {
	ae := apperr.As(err)
	return ae != nil && ae.HTTPStatus == http.StatusNotFound
}
