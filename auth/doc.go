// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin keys and the header-based identity provider.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	operatorKey := auth.GenerateAdminKey(auth.OperatorSubject, salt)
	promptKey := auth.GenerateAdminKey(promptID, salt)
	err := auth.ValidateAdminKey(promptID, key, salt)

The operator key starts cycles. Each started cycle also returns a key
scoped to its prompt id, which can close that cycle. Keys are URL-safe
base64 without padding and are never stored.

# User Identity

Identity resolution is an external concern; this package accepts an
identity asserted by a trusted front end through three headers:

	X-User-ID     stable user id
	X-Username    display name (defaults to the user id)
	X-User-Token  GenerateUserToken(userID, salt)

	id, err := auth.IdentityFromRequest(r, salt)

A missing header yields ErrMissingIdentity; a bad token ErrInvalidToken.

# IP Hashing

For privacy-preserving rate limit logging:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
