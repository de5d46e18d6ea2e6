// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package session

import (
	"encoding/json"
	"net/http"

	"github.com/onelinkhq/onelink/internal/platform/constants"
)

// Field-scoped error keys of the join-info session. These are the only three
// keys FlashError accepts; anything else is a programming mistake.
const (
	ErrorKeyEmail    = "error-email"
	ErrorKeyYourname = "error-yourname"
	ErrorKeyForm     = "error-form"
)

// Internal bag keys.
const (
	joinKeyEmail    = "email"
	joinKeyYourname = "yourname"

	// flashPrefix marks values that survive exactly one read.
	flashPrefix = "__flash__"
)

// JoinStore constructs request-scoped [*Join] sessions.
//
// Unlike the auth session, the join-info bag lives entirely inside the
// signed cookie: registration state must survive redirects and an
// out-of-band email click without any database write.
type JoinStore struct {
	codec *codec
}

// NewJoinStore wires the join-info session layer.
func NewJoinStore(secret string, secure bool) *JoinStore {
	return &JoinStore{
		codec: newCodec(constants.JoinSessionCookieName, secret, secure),
	}
}

// Load constructs the request's join-info session from its Cookie header.
// A missing or tampered cookie yields an empty bag; loading never fails.
func (store *JoinStore) Load(request *http.Request) *Join {
	join := &Join{
		store: store,
		data:  map[string]string{},
	}

	payload := store.codec.read(request)
	if payload != "" {
		// A bag that fails to unmarshal is treated as empty: the signup
		// flow restarts rather than crashing.
		_ = json.Unmarshal([]byte(payload), &join.data)
	}

	join.initial = join.serialize()
	return join
}

// Join is the per-request signup-flow session: a small bag of pending email,
// pending chosen name, and up to three flashed field errors.
type Join struct {
	store *JoinStore

	data      map[string]string
	initial   string
	destroyed bool
}

// serialize produces the canonical payload used both for the cookie body and
// for change detection. json.Marshal sorts map keys, so equal bags always
// serialize identically.
func (j *Join) serialize() string {
	if len(j.data) == 0 {
		return ""
	}
	raw, _ := json.Marshal(j.data)
	return string(raw)
}

// # Fields

// Email returns the pending signup email, or "".
func (j *Join) Email() string { return j.data[joinKeyEmail] }

// SetEmail stores the pending signup email.
func (j *Join) SetEmail(email string) { j.data[joinKeyEmail] = email }

// Yourname returns the pending chosen username, or "".
func (j *Join) Yourname() string { return j.data[joinKeyYourname] }

// SetYourname stores the pending chosen username.
func (j *Join) SetYourname(yourname string) { j.data[joinKeyYourname] = yourname }

// # Flash Errors

// Error returns the flashed error for one of the three fixed keys and
// consumes it: the value is dropped from the bag at the next commit.
func (j *Join) Error(key string) string {
	flashKey := flashPrefix + key
	value, ok := j.data[flashKey]
	if !ok {
		return ""
	}
	delete(j.data, flashKey)
	return value
}

// FlashError stores a field-scoped error for exactly one subsequent read.
func (j *Join) FlashError(key, message string) {
	j.data[flashPrefix+key] = message
}

// # Lifecycle

// Clean removes every field and error from the bag.
func (j *Join) Clean() {
	j.data = map[string]string{}
}

// CleanErrors removes only the flashed errors, keeping email and yourname.
func (j *Join) CleanErrors() {
	for _, key := range []string{ErrorKeyEmail, ErrorKeyYourname, ErrorKeyForm} {
		delete(j.data, flashPrefix+key)
	}
}

// Destroy discards the session entirely; the next commit expires the cookie.
func (j *Join) Destroy() {
	j.data = map[string]string{}
	j.destroyed = true
}

// # Output

// Commit writes the coalesced Set-Cookie header, if any.
//
// The header is emitted only when the committed content differs from what
// was read in, so re-reading an unchanged bag costs no header at all.
func (j *Join) Commit(writer http.ResponseWriter) {
	if j.destroyed {
		if j.initial != "" {
			http.SetCookie(writer, j.store.codec.cookie("", -1))
		}
		return
	}

	current := j.serialize()
	if current == j.initial {
		return
	}

	if current == "" {
		http.SetCookie(writer, j.store.codec.cookie("", -1))
		return
	}

	http.SetCookie(writer, j.store.codec.cookie(current, 0))
}
