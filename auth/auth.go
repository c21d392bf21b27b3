// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidToken    = errors.New("invalid user token")
	ErrMissingIdentity = errors.New("missing user identity")
)

// Request headers
const (
	HeaderAdminKey  = "X-Admin-Key"
	HeaderUserID    = "X-User-ID"
	HeaderUsername  = "X-Username"
	HeaderUserToken = "X-User-Token"
)

// OperatorSubject is the admin key subject allowed to start cycles.
const OperatorSubject = "operator"

// Identity is the caller as resolved by the identity provider.
type Identity struct {
	UserID      string
	DisplayName string
}

func sign(salt, message string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(message))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// GenerateAdminKey creates an HMAC-based admin key for a subject: the
// operator, or a single prompt id.
// This is deterministic and verifiable
func GenerateAdminKey(subject, salt string) string {
	return sign(salt, subject)
}

// ValidateAdminKey checks if the provided admin key is valid for the subject
func ValidateAdminKey(subject, adminKey, salt string) error {
	expected := GenerateAdminKey(subject, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateUserToken binds a user id to the identity provider's secret.
// The "user:" prefix keeps tokens distinct from admin keys under one salt.
func GenerateUserToken(userID, salt string) string {
	return sign(salt, "user:"+userID)
}

// ValidateUserToken checks a user token against the user id
func ValidateUserToken(userID, token, salt string) error {
	expected := GenerateUserToken(userID, salt)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidToken
	}
	return nil
}

// IdentityFromRequest resolves the caller from the identity headers.
// The display name falls back to the user id.
func IdentityFromRequest(r *http.Request, salt string) (Identity, error) {
	userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
	token := r.Header.Get(HeaderUserToken)
	if userID == "" || token == "" {
		return Identity{}, ErrMissingIdentity
	}
	if err := ValidateUserToken(userID, token, salt); err != nil {
		return Identity{}, err
	}

	name := strings.TrimSpace(r.Header.Get(HeaderUsername))
	if name == "" {
		name = userID
	}
	return Identity{UserID: userID, DisplayName: name}, nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
