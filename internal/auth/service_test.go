// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onelinkhq/onelink/internal/auth"
	"github.com/onelinkhq/onelink/internal/platform/apperr"
)

// fakeUserRepository is an in-memory [auth.UserRepository] keyed the same
// three ways as the real table's indexes.
type fakeUserRepository struct {
	users  map[string]*auth.User // by id
	hashes map[string]string     // by user id
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users:  map[string]*auth.User{},
		hashes: map[string]string{},
	}
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindPasswordHash(_ context.Context, userID string) (string, error) {
	if hash, ok := f.hashes[userID]; ok {
		return hash, nil
	}
	return "", apperr.NotFound("Password")
}

func (f *fakeUserRepository) Create(_ context.Context, user *auth.User, passwordHash string) error {
	for _, existing := range f.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return apperr.Conflict("Username or email is already taken")
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	f.hashes[user.ID] = passwordHash
	return nil
}

/*
TestService_CreateUser verifies registration: the returned user carries a
generated id and the stored hash is never the raw password.
*/
func TestService_CreateUser(t *testing.T) {
	repo := newFakeUserRepository()
	service := auth.NewService(repo)

	user, err := service.CreateUser(context.Background(), "test@example.com", "remixer", "secret1")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "remixer", user.Username)
	assert.Equal(t, "test@example.com", user.Email)

	hash, err := repo.FindPasswordHash(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
}

/*
TestService_CreateUser_Duplicate verifies that a second registration with
the same identity surfaces the storage conflict.
*/
func TestService_CreateUser_Duplicate(t *testing.T) {
	repo := newFakeUserRepository()
	service := auth.NewService(repo)

	_, err := service.CreateUser(context.Background(), "test@example.com", "remixer", "secret1")
	require.NoError(t, err)

	_, err = service.CreateUser(context.Background(), "test@example.com", "someoneelse", "secret1")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestService_VerifyCredentials covers the three outcomes: success, wrong
password, and unknown username. The two failure modes are indistinguishable
to the caller.
*/
func TestService_VerifyCredentials(t *testing.T) {
	repo := newFakeUserRepository()
	service := auth.NewService(repo)

	created, err := service.CreateUser(context.Background(), "test@example.com", "remixer", "secret1")
	require.NoError(t, err)

	// 1. Correct credentials
	user, err := service.VerifyCredentials(context.Background(), "remixer", "secret1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)

	// 2. Wrong password: nil user, nil error
	user, err = service.VerifyCredentials(context.Background(), "remixer", "wrong-password")
	require.NoError(t, err)
	assert.Nil(t, user)

	// 3. Unknown username: same shape as wrong password
	user, err = service.VerifyCredentials(context.Background(), "nobody", "secret1")
	require.NoError(t, err)
	assert.Nil(t, user)
}

/*
TestService_TakenChecks verifies the existence checks behind signup
validation: taken identities yield the form-ready message, free ones yield "".
*/
func TestService_TakenChecks(t *testing.T) {
	repo := newFakeUserRepository()
	service := auth.NewService(repo)

	_, err := service.CreateUser(context.Background(), "test@example.com", "remixer", "secret1")
	require.NoError(t, err)

	message, err := service.EmailTaken(context.Background(), "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Email is already taken", message)

	message, err = service.EmailTaken(context.Background(), "free@example.com")
	require.NoError(t, err)
	assert.Empty(t, message)

	message, err = service.UsernameTaken(context.Background(), "remixer")
	require.NoError(t, err)
	assert.Equal(t, "Username is already taken", message)

	message, err = service.UsernameTaken(context.Background(), "freename")
	require.NoError(t, err)
	assert.Empty(t, message)
}

/*
TestService_GetUserByUsername verifies the public profile lookup and its
not-found contract.
*/
func TestService_GetUserByUsername(t *testing.T) {
	repo := newFakeUserRepository()
	service := auth.NewService(repo)

	created, err := service.CreateUser(context.Background(), "test@example.com", "remixer", "secret1")
	require.NoError(t, err)

	user, err := service.GetUserByUsername(context.Background(), "remixer")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = service.GetUserByUsername(context.Background(), "nobody")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}
