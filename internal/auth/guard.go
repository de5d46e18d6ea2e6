// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package auth

import (
	"net/http"
	"net/url"

	"github.com/onelinkhq/onelink/internal/platform/respond"
	"github.com/onelinkhq/onelink/internal/session"
)

// Guard turns the auth session into an authentication requirement for
// protected routes.
//
// # Self-Healing
//
// A session whose user id no longer resolves to an existing user (deleted
// account, wiped database) is signed out on the spot before the caller is
// bounced to the login page. The originally requested path travels along as
// ?redirectTo= so login can return the user where they were headed.
type Guard struct {
	sessions *session.AuthStore
	users    *Service
}

// NewGuard constructs a [Guard].
func NewGuard(sessions *session.AuthStore, users *Service) *Guard {
	return &Guard{sessions: sessions, users: users}
}

// CurrentUser resolves the request's session to a user, or nil for
// anonymous/dangling sessions. It never writes to the response.
func (guard *Guard) CurrentUser(request *http.Request) (*User, *session.Auth, error) {
	sess := guard.sessions.Load(request)

	userID, err := sess.UserID(request.Context())
	if err != nil {
		return nil, sess, err
	}
	if userID == "" {
		return nil, sess, nil
	}

	user, err := guard.users.GetUserByID(request.Context(), userID)
	if err != nil {
		if isNotFound(err) {
			// Dangling id: the referenced user is gone. Clear the server-side
			// entry so the stale session stops resolving.
			if signOutErr := sess.SignOut(request.Context()); signOutErr != nil {
				return nil, sess, signOutErr
			}
			return nil, sess, nil
		}
		return nil, sess, err
	}

	return user, sess, nil
}

// RequireUser resolves the session or redirects to the login entry point.
//
// When it returns ok=false the response has already been written (redirect
// or error) and the handler must return immediately.
func (guard *Guard) RequireUser(writer http.ResponseWriter, request *http.Request) (*User, *session.Auth, bool) {
	user, sess, err := guard.CurrentUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return nil, nil, false
	}

	if user == nil {
		sess.Commit(writer)
		location := "/login?redirectTo=" + url.QueryEscape(request.URL.Path)
		http.Redirect(writer, request, location, http.StatusSeeOther)
		return nil, nil, false
	}

	return user, sess, true
}
