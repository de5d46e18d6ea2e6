// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

// Package validate provides the pure field validators shared by all route
// actions.
//
// # Contract
//
// Each validator takes a raw string (already type-checked non-empty presence
// by the caller) and returns "" when valid, or a short human-readable error
// string ready to render next to the form control.
//
// Existence checks against the user table are side-effecting reads and live
// in the auth service, not here.
package validate

import "regexp"

var (
	// emailRegex is deliberately permissive: non-space @ non-space . non-space.
	// Real deliverability is proven by the verification email, not the regex.
	emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

	// urlRegex accepts absolute http/https URLs plus chrome:// for extension links.
	urlRegex = regexp.MustCompile(`^(https?|chrome)://[^\s$.?#].[^\s]*$`)
)

// Username validates a chosen username. Minimum 4 characters.
func Username(username string) string {
	if len(username) < 4 {
		return "Username is too short"
	}
	return ""
}

// Password validates a plain-text password. Minimum 6 characters.
func Password(password string) string {
	if len(password) < 6 {
		return "Password is too short"
	}
	return ""
}

// ConfirmPassword validates the confirmation field.
//
// It delegates to [Password] first so a too-short confirmation reports the
// length problem before the mismatch.
func ConfirmPassword(password, confirm string) string {
	if msg := Password(confirm); msg != "" {
		return msg
	}
	if password != confirm {
		return "Passwords does not match"
	}
	return ""
}

// Email validates the permissive email shape.
func Email(email string) string {
	if !emailRegex.MatchString(email) {
		return "Enter a valid email"
	}
	return ""
}

// URL validates an absolute http/https (or chrome) URI.
func URL(url string) string {
	if !urlRegex.MatchString(url) {
		return "Invalid url"
	}
	return ""
}

// Title validates a link title. Minimum 5 characters.
func Title(title string) string {
	if len(title) < 5 {
		return "Title is too short"
	}
	return ""
}
