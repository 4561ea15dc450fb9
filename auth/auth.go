// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidJudgeKey = errors.New("invalid judge key")

// GenerateJudgeKey creates an HMAC-based access key for a judge.
// Deterministic: the same email and salt always produce the same key, so
// keys can be handed out at check-in and validated without storing them.
func GenerateJudgeKey(email, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(strings.ToLower(email)))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateJudgeKey checks if the provided key is valid for the judge
func ValidateJudgeKey(email, key, salt string) error {
	expected := GenerateJudgeKey(email, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidJudgeKey
	}
	return nil
}
