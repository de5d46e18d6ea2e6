// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

/*
Package session implements the two cookie-backed sessions of Onelink.

The auth session maps a signed cookie-held session id to a user id stored in
Redis. The join-info session is a signed cookie-held bag carrying the
transient signup state (pending email, chosen name, flashed field errors).

# Commit-if-changed

Both sessions snapshot the serialized cookie value they were loaded from.
A Set-Cookie header is emitted only when the outgoing serialized state
differs from that snapshot, so multiple mutations within one request
coalesce into a single header and a no-op request emits none.

# Threading

Sessions are request-scoped objects constructed from the incoming Cookie
header and threaded explicitly through handlers. They are never process-wide
singletons and are not safe for concurrent use.
*/
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// ErrInvalidCookie is returned when a cookie value fails signature
// verification or is structurally malformed. Callers treat this the same as
// an absent cookie.
var ErrInvalidCookie = errors.New("session: invalid cookie value")

// codec signs and verifies opaque cookie values with HMAC-SHA256.
//
// Wire form: base64url(payload) + "." + base64url(hmac).
type codec struct {
	name   string
	secret []byte
	secure bool
}

func newCodec(name, secret string, secure bool) *codec {
	return &codec{name: name, secret: []byte(secret), secure: secure}
}

// encode signs the payload and returns the cookie wire value.
func (c *codec) encode(payload string) string {
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return body + "." + c.sign(body)
}

// decode verifies the signature and returns the original payload.
func (c *codec) decode(value string) (string, error) {
	body, signature, found := strings.Cut(value, ".")
	if !found {
		return "", ErrInvalidCookie
	}

	expected := c.sign(body)
	if subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) != 1 {
		return "", ErrInvalidCookie
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return "", ErrInvalidCookie
	}

	return string(payload), nil
}

func (c *codec) sign(body string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// read returns the verified payload of this codec's cookie on the request,
// or "" when the cookie is absent or tampered with.
func (c *codec) read(request *http.Request) string {
	cookie, err := request.Cookie(c.name)
	if err != nil {
		return ""
	}
	payload, err := c.decode(cookie.Value)
	if err != nil {
		return ""
	}
	return payload
}

// cookie builds the outgoing cookie with the shared attribute set:
// HttpOnly, SameSite=Lax, Path=/, Secure outside development.
//
// maxAge semantics follow net/http: 0 means a session-lifetime cookie,
// negative means delete immediately.
func (c *codec) cookie(payload string, maxAge int) *http.Cookie {
	value := ""
	if maxAge >= 0 {
		value = c.encode(payload)
	}
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure,
		MaxAge:   maxAge,
	}
}
