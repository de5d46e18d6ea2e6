// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/onelinkhq/onelink/internal/platform/constants"
	"github.com/onelinkhq/onelink/pkg/uuidv7"
)

// Commander is the narrow slice of the Redis API the auth session uses.
// *redis.Client satisfies it; tests substitute an in-memory fake.
type Commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthStore constructs request-scoped [*Auth] sessions.
//
// The cookie carries only a signed, opaque session id; the authoritative
// session attribute (the user id) lives in Redis under
// [constants.RedisPrefixSession] + sid with a TTL.
type AuthStore struct {
	codec *codec
	rdb   Commander
}

// NewAuthStore wires the auth session layer.
func NewAuthStore(rdb Commander, secret string, secure bool) *AuthStore {
	return &AuthStore{
		codec: newCodec(constants.AuthSessionCookieName, secret, secure),
		rdb:   rdb,
	}
}

// Load constructs the request's auth session from its Cookie header.
//
// A missing, tampered, or expired cookie yields an Anonymous session;
// loading never fails.
func (store *AuthStore) Load(request *http.Request) *Auth {
	sid := store.codec.read(request)
	return &Auth{
		store:      store,
		sid:        sid,
		initialSID: sid,
	}
}

// Auth is the per-request authentication session.
//
// # States
//
// Anonymous (no sid, or the sid no longer resolves in Redis) or
// Authenticated (sid resolves to a user id). Resolution does NOT verify the
// user row still exists; callers combining UserID with a user lookup must
// treat a dangling id as Anonymous and call SignOut.
type Auth struct {
	store *AuthStore

	sid        string
	initialSID string

	// pending is the outgoing cookie computed by Create/Destroy.
	// nil means no cookie mutation happened this request.
	pending *http.Cookie
}

// key returns the Redis key for a session id.
func (store *AuthStore) key(sid string) string {
	return constants.RedisPrefixSession + sid
}

// UserID resolves the session to the carried user id.
//
// Returns "" for Anonymous sessions. Redis connectivity problems are
// returned as errors and must not be conflated with "not signed in".
func (a *Auth) UserID(ctx context.Context) (string, error) {
	if a.sid == "" {
		return "", nil
	}

	userID, err := a.store.rdb.Get(ctx, a.store.key(a.sid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("session: resolve failed: %w", err)
	}

	return userID, nil
}

// Create establishes the Authenticated state for userID.
//
// A fresh session id is always issued (never reusing the incoming one, so a
// pre-login cookie cannot be fixated). With remember set, both the Redis
// entry and the cookie live for seven days; otherwise the cookie is
// session-lifetime and the Redis entry carries a bounded TTL.
func (a *Auth) Create(ctx context.Context, userID string, remember bool) error {
	sid := uuidv7.New()

	ttl := constants.AnonymousSessionTTL
	cookieMaxAge := 0 // session-lifetime cookie
	if remember {
		ttl = constants.RememberedSessionMaxAge
		cookieMaxAge = int(constants.RememberedSessionMaxAge.Seconds())
	}

	if err := a.store.rdb.Set(ctx, a.store.key(sid), userID, ttl).Err(); err != nil {
		return fmt.Errorf("session: create failed: %w", err)
	}

	// Drop the server-side entry of any previous session id.
	if a.sid != "" && a.sid != sid {
		_ = a.store.rdb.Del(ctx, a.store.key(a.sid)).Err()
	}

	a.sid = sid
	a.pending = a.store.codec.cookie(sid, cookieMaxAge)
	return nil
}

// SignOut clears the user id attribute only: the Redis entry is deleted but
// the cookie survives. Used for self-healing when the carried user id no
// longer resolves to an existing user.
func (a *Auth) SignOut(ctx context.Context) error {
	if a.sid == "" {
		return nil
	}
	if err := a.store.rdb.Del(ctx, a.store.key(a.sid)).Err(); err != nil {
		return fmt.Errorf("session: sign-out failed: %w", err)
	}
	return nil
}

// Destroy invalidates the session entirely: the Redis entry is deleted and
// the cookie is expired. Used for full logout.
func (a *Auth) Destroy(ctx context.Context) error {
	if err := a.SignOut(ctx); err != nil {
		return err
	}
	a.sid = ""
	a.pending = a.store.codec.cookie("", -1)
	return nil
}

// Commit writes the coalesced Set-Cookie header, if any.
//
// Multiple mutations within one request collapse to the final state, and no
// header is emitted when the outgoing session id matches the one the request
// arrived with.
func (a *Auth) Commit(writer http.ResponseWriter) {
	if a.pending == nil {
		return
	}
	if a.sid == a.initialSID {
		return
	}
	http.SetCookie(writer, a.pending)
}
