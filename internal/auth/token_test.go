// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onelinkhq/onelink/internal/auth"
	"github.com/onelinkhq/onelink/internal/platform/sec"
)

/*
TestJoinToken_RoundTrip verifies that the emailed verification token carries
the email and pending name intact through encryption.
*/
func TestJoinToken_RoundTrip(t *testing.T) {
	cipher, err := sec.NewCipher("test-encryption-secret")
	require.NoError(t, err)

	token, err := auth.EncryptJoinToken(cipher, "test@example.com", "remixer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	email, yourname, err := auth.DecryptJoinToken(cipher, token)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", email)
	assert.Equal(t, "remixer", yourname)
}

/*
TestJoinToken_RoundTrip_WithoutYourname verifies that a token built before
the user picked a name still round-trips.
*/
func TestJoinToken_RoundTrip_WithoutYourname(t *testing.T) {
	cipher, err := sec.NewCipher("test-encryption-secret")
	require.NoError(t, err)

	token, err := auth.EncryptJoinToken(cipher, "test@example.com", "")
	require.NoError(t, err)

	email, yourname, err := auth.DecryptJoinToken(cipher, token)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", email)
	assert.Empty(t, yourname)
}

/*
TestJoinToken_Invalid checks that any unusable token maps to
ErrInvalidJoinToken so the signup flow restarts instead of crashing.
*/
func TestJoinToken_Invalid(t *testing.T) {
	cipher, err := sec.NewCipher("test-encryption-secret")
	require.NoError(t, err)

	// Not even the wire format
	_, _, err = auth.DecryptJoinToken(cipher, "garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidJoinToken)

	// Valid cipher output, but the plaintext is not JSON
	notJSON, err := cipher.Encrypt("this is not json")
	require.NoError(t, err)
	_, _, err = auth.DecryptJoinToken(cipher, notJSON)
	assert.ErrorIs(t, err, auth.ErrInvalidJoinToken)

	// Valid JSON, wrong envelope type
	wrongType, err := cipher.Encrypt(`{"type":"reset","payload":{"email":"a@b.co"}}`)
	require.NoError(t, err)
	_, _, err = auth.DecryptJoinToken(cipher, wrongType)
	assert.ErrorIs(t, err, auth.ErrInvalidJoinToken)

	// Right type, missing email
	missingEmail, err := cipher.Encrypt(`{"type":"join","payload":{}}`)
	require.NoError(t, err)
	_, _, err = auth.DecryptJoinToken(cipher, missingEmail)
	assert.ErrorIs(t, err, auth.ErrInvalidJoinToken)

	// Token issued under a different secret decrypts to noise
	otherCipher, err := sec.NewCipher("another-secret")
	require.NoError(t, err)
	foreign, err := auth.EncryptJoinToken(otherCipher, "test@example.com", "")
	require.NoError(t, err)
	_, _, err = auth.DecryptJoinToken(cipher, foreign)
	assert.ErrorIs(t, err, auth.ErrInvalidJoinToken)
}
