// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package sec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// AES-256-CTR parameters for the emailed signup token.
const (
	ivLength  = aes.BlockSize
	keyLength = 32

	// scrypt key derivation parameters.
	scryptN = 16384
	scryptR = 8
	scryptP = 1
	keySalt = "salt"
)

// ErrMalformedToken is returned when ciphertext input is not in the
// expected "hex(iv):hex(ciphertext)" wire form.
var ErrMalformedToken = errors.New("sec: malformed token")

// Cipher encrypts and decrypts short string payloads with AES-256-CTR.
//
// # Wire Format
//
// Output is hex(iv) + ":" + hex(ciphertext). A fresh random IV is drawn per
// encryption, so encrypting the same plaintext twice yields different blobs.
//
// # Usage
//
// The only consumer is the signup flow: the emailed verification link carries
// an encrypted JSON envelope that round-trips back through /signup.
type Cipher struct {
	key []byte
}

// NewCipher derives a 32-byte AES key from the configured secret using scrypt.
func NewCipher(secret string) (*Cipher, error) {
	key, err := scrypt.Key([]byte(secret), []byte(keySalt), scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return nil, fmt.Errorf("sec: key derivation failed: %w", err)
	}
	return &Cipher{key: key}, nil
}

// Encrypt encrypts a plaintext string into the hex iv:ciphertext wire form.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("sec: iv generation failed: %w", err)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("sec: cipher init failed: %w", err)
	}

	ciphertext := make([]byte, len(plaintext))
	cipher.NewCTR(block, iv).XORKeyStream(ciphertext, []byte(plaintext))

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses [Cipher.Encrypt].
//
// Malformed input (missing ":" separator, odd hex, wrong IV size) returns
// [ErrMalformedToken] rather than garbage output.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	ivPart, cipherPart, found := strings.Cut(encoded, ":")
	if !found || ivPart == "" || cipherPart == "" {
		return "", ErrMalformedToken
	}

	iv, err := hex.DecodeString(ivPart)
	if err != nil || len(iv) != ivLength {
		return "", ErrMalformedToken
	}

	ciphertext, err := hex.DecodeString(cipherPart)
	if err != nil {
		return "", ErrMalformedToken
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("sec: cipher init failed: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCTR(block, iv).XORKeyStream(plaintext, ciphertext)

	return string(plaintext), nil
}
