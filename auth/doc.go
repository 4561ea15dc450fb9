// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides judge key generation and validation.

# Judge Keys

Judge keys use HMAC-SHA256 to create deterministic, verifiable keys:

	key := auth.GenerateJudgeKey(email, salt)
	err := auth.ValidateJudgeKey(email, key, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same email and salt always produce the same key. This allows validation
without storing the key in the database: organizers generate keys at judge
check-in and the server re-derives them per request.

Emails are lower-cased before hashing so key validation is case-insensitive
in the address.

Session management, password auth, and OAuth are external collaborators and
deliberately absent here.
*/
package auth
