// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package requestutil_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	requestutil "github.com/onelinkhq/onelink/internal/platform/request"
)

/*
TestSafeRedirect verifies that only site-relative paths survive; everything
else falls back, closing the open-redirect hole on the post-login path.
*/
func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		name string
		to   string
		want string
	}{
		{"relative_path", "/admin/links", "/admin/links"},
		{"root", "/", "/"},
		{"empty_falls_back", "", "/fallback"},
		{"absolute_url_rejected", "https://evil.example.com", "/fallback"},
		{"protocol_relative_rejected", "//evil.example.com", "/fallback"},
		{"bare_word_rejected", "admin", "/fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, requestutil.SafeRedirect(tt.to, "/fallback"))
		})
	}
}

/*
TestDomainURL verifies origin reconstruction: forwarded host wins, and
development hosts get plain http.
*/
func TestDomainURL(t *testing.T) {
	tests := []struct {
		name          string
		host          string
		forwardedHost string
		want          string
	}{
		{"production_host", "onelink.dev", "", "https://onelink.dev"},
		{"forwarded_host_wins", "internal:8080", "onelink.dev", "https://onelink.dev"},
		{"localhost_is_http", "localhost:8080", "", "http://localhost:8080"},
		{"loopback_is_http", "127.0.0.1:8080", "", "http://127.0.0.1:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/", nil)
			request.Host = tt.host
			if tt.forwardedHost != "" {
				request.Header.Set("X-Forwarded-Host", tt.forwardedHost)
			}
			assert.Equal(t, tt.want, requestutil.DomainURL(request))
		})
	}
}

/*
TestRequireForm verifies the present/absent contract: empty submitted values
are valid, missing controls are a malformed request shape.
*/
func TestRequireForm(t *testing.T) {
	body := strings.NewReader("yourname=&email=test%40example.com")
	request := httptest.NewRequest("POST", "/", body)
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// Present with a value
	value, err := requestutil.RequireForm(request, "email")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", value)

	// Present but empty: still valid
	value, err = requestutil.RequireForm(request, "yourname")
	require.NoError(t, err)
	assert.Empty(t, value)

	// Absent: programmer error
	_, err = requestutil.RequireForm(request, "password")
	assert.Error(t, err)
}
