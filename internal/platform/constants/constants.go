// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Sessions: Cookie names, lifetimes, and Redis key prefixes.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "onelink-web"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Sessions

const (
	// AuthSessionCookieName is the cookie carrying the signed auth session id.
	AuthSessionCookieName = "_session"

	// JoinSessionCookieName is the cookie carrying the signed join-info bag.
	JoinSessionCookieName = "__join_session"

	// SessionCookiePath scopes both session cookies to the whole site.
	SessionCookiePath = "/"

	// RememberedSessionMaxAge is the cookie/Redis lifetime when "remember me" is checked.
	RememberedSessionMaxAge = 7 * 24 * time.Hour

	// AnonymousSessionTTL bounds the server-side entry of a non-remembered
	// session. The cookie itself is session-lifetime; the Redis entry still
	// needs an expiry so abandoned sessions do not accumulate keys forever.
	AnonymousSessionTTL = 24 * time.Hour
)

// # Signup Tokens

const (
	// JoinTokenType is the required "type" field of a decrypted signup token.
	JoinTokenType = "join"

	// JoinTokenQueryParam is the query parameter carrying the emailed token.
	JoinTokenQueryParam = "token"
)

// # HTTP Headers

const (
	HeaderXRequestID     = "X-Request-ID"
	HeaderXForwardedHost = "X-Forwarded-Host"
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderXRealIP        = "X-Real-IP"
	HeaderSetCookie      = "Set-Cookie"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession = "auth:session:"
)
