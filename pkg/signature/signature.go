// Package signature verifies HMAC signatures on n8n callback bodies.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Policy decides whether callback signatures are enforced.
//
// The two states are constructed explicitly (Enforced vs Disabled) so the
// permissive development path is a visible choice at wiring time, not a
// nil-check buried in a handler.
type Policy struct {
	secret []byte
}

// Enforced returns a policy that requires a valid signature on every callback.
func Enforced(secret string) Policy {
	return Policy{secret: []byte(secret)}
}

// Disabled returns a policy that accepts callbacks without verification.
func Disabled() Policy {
	return Policy{}
}

// Enabled reports whether signatures are enforced.
func (p Policy) Enabled() bool {
	return len(p.secret) > 0
}

// Verify checks a hex-encoded HMAC-SHA256 signature against the exact raw
// body bytes. Any decode failure or mismatch returns false; Verify never
// returns an error for malformed input.
func (p Policy) Verify(body []byte, provided string) bool {
	if !p.Enabled() {
		return false
	}
	decoded, err := hex.DecodeString(provided)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, p.secret)
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}

// Compute returns the hex-encoded HMAC-SHA256 of body under secret.
// Senders use the same construction over the exact request body bytes.
func Compute(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
