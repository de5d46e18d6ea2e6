// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package auth

import (
	"encoding/json"
	"errors"

	"github.com/onelinkhq/onelink/internal/platform/constants"
	"github.com/onelinkhq/onelink/internal/platform/sec"
)

// ErrInvalidJoinToken covers every way an emailed token can be unusable:
// decryption failure, bad JSON, wrong type, missing payload email. Handlers
// map it to a clean restart of the signup flow, never a crash.
var ErrInvalidJoinToken = errors.New("auth: invalid join token")

// joinToken is the JSON envelope carried by the emailed verification link.
//
// Wire form: the envelope is marshalled, AES-256-CTR encrypted, and
// hex-encoded as iv:ciphertext by [sec.Cipher].
type joinToken struct {
	Type    string      `json:"type"`
	Payload joinPayload `json:"payload"`
}

type joinPayload struct {
	Email    string `json:"email"`
	Yourname string `json:"yourname,omitempty"`
}

// EncryptJoinToken builds the opaque token embedded in the verification URL.
func EncryptJoinToken(cipher *sec.Cipher, email, yourname string) (string, error) {
	envelope := joinToken{
		Type:    constants.JoinTokenType,
		Payload: joinPayload{Email: email, Yourname: yourname},
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}

	return cipher.Encrypt(string(raw))
}

// DecryptJoinToken reverses [EncryptJoinToken] and validates the envelope
// shape: type must be "join" and the payload must carry an email.
func DecryptJoinToken(cipher *sec.Cipher, token string) (email, yourname string, err error) {
	plaintext, err := cipher.Decrypt(token)
	if err != nil {
		return "", "", ErrInvalidJoinToken
	}

	var envelope joinToken
	if err := json.Unmarshal([]byte(plaintext), &envelope); err != nil {
		return "", "", ErrInvalidJoinToken
	}

	if envelope.Type != constants.JoinTokenType || envelope.Payload.Email == "" {
		return "", "", ErrInvalidJoinToken
	}

	return envelope.Payload.Email, envelope.Payload.Yourname, nil
}
