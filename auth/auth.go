// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidRunID    = errors.New("invalid run id")
)

// NewRunID returns a random (version 4) UUID for a stored run
func NewRunID() string {
	return uuid.NewString()
}

// ValidateRunID rejects anything that is not a UUID before it reaches the database.
// Only the lowercase hyphenated form NewRunID produces is accepted; uuid.Parse
// also takes braced, urn and uppercase spellings that can never match a row.
func ValidateRunID(runID string) error {
	id, err := uuid.Parse(runID)
	if err != nil || id.String() != runID {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return nil
}

// GenerateAdminKey creates an HMAC-based admin key for a run
// This is deterministic and verifiable, so the key is never stored
func GenerateAdminKey(runID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(runID))
	sum := h.Sum(nil)
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the run
func ValidateAdminKey(runID, adminKey, salt string) error {
	expected := GenerateAdminKey(runID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// HashInputs returns the hex SHA-256 of the JSON encoding of v.
// encoding/json writes map keys in sorted order, so equal inputs hash equally
// regardless of how their maps were built.
func HashInputs(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode inputs: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
