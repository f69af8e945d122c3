// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides run identifiers, admin keys, and input digests.

# Run IDs

Stored runs are identified by random UUIDs:

	runID := auth.NewRunID()
	err := auth.ValidateRunID(r.PathValue("id"))

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(runID, salt)
	err := auth.ValidateAdminKey(runID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same run ID and salt always produce the same key, so validation needs no
database lookup. Deleting a run requires its admin key in X-Admin-Key.

# Input Digests

HashInputs fingerprints the inputs of a run:

	hash, err := auth.HashInputs(req)

Two runs over identical candidates, ballots, profiles and parameters share a
digest, which makes reruns easy to spot in the run list.

# Security Notes

  - Admin key comparison uses hmac.Equal (constant time)
  - Salts come from ADMIN_KEY_SALT and must stay secret
*/
package auth
