// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and the form
decoding patterns shared by all route actions, ensuring consistent error
handling and type safety.
*/
package requestutil

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/onelinkhq/onelink/internal/platform/apperr"
	"github.com/onelinkhq/onelink/internal/platform/constants"
)

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Form parses the request body as a standard form submission and returns the
value of a single control. Parsing is idempotent: net/http caches the parsed
form on the request.
*/
func Form(request *http.Request, name string) string {
	_ = request.ParseForm()
	return request.PostFormValue(name)
}

/*
RequireForm returns the value of a form control that a well-behaved client
always submits. A missing control means the handler was reached with a
malformed request shape.

Returns:
  - string: The submitted value
  - error: apperr.Internal — treated as a programmer error, fatal to the request
*/
func RequireForm(request *http.Request, name string) (string, error) {
	_ = request.ParseForm()
	if !request.PostForm.Has(name) {
		return "", apperr.Internal(fmt.Errorf("request: missing required form field %q", name))
	}
	return request.PostForm.Get(name), nil
}

/*
SafeRedirect sanitizes a client-supplied redirect target.

Only site-relative paths are allowed; anything else (absolute URLs,
protocol-relative "//host" tricks, empty values) falls back to the default.
This prevents open-redirect attacks on the post-login return path.
*/
func SafeRedirect(to, fallback string) string {
	if to == "" || !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") {
		return fallback
	}
	return to
}

/*
DomainURL reconstructs the externally reachable origin of the request.

It prefers the X-Forwarded-Host header (reverse proxy) and falls back to the
Host header. Development hosts get the http scheme; everything else https.
*/
func DomainURL(request *http.Request) string {
	host := request.Header.Get(constants.HeaderXForwardedHost)
	if host == "" {
		host = request.Host
	}

	scheme := "https"
	for _, devHost := range []string{"localhost", "127.0.0.1", "192.168."} {
		if strings.HasPrefix(host, devHost) {
			scheme = "http"
			break
		}
	}

	return scheme + "://" + host
}
