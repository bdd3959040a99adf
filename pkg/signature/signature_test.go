package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		body   string
	}{
		{"simple", "topsecret", `{"job_id":"job-1","status":"success"}`},
		{"empty body", "topsecret", ""},
		{"binary-ish body", "k", "\x00\x01\x02\xff"},
		{"long secret", "a-very-long-signing-secret-value-0123456789", `{"outputs":{"value":42}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := Enforced(tt.secret)
			sig := Compute([]byte(tt.secret), []byte(tt.body))
			assert.True(t, policy.Verify([]byte(tt.body), sig))
		})
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	policy := Enforced("topsecret")
	body := []byte(`{"job_id":"job-1","status":"success"}`)
	sig := Compute([]byte("topsecret"), body)

	tampered := make([]byte, len(body))
	copy(tampered, body)
	tampered[0] ^= 0x01

	assert.False(t, policy.Verify(tampered, sig))
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	policy := Enforced("topsecret")
	body := []byte(`{"job_id":"job-1"}`)
	sig := Compute([]byte("topsecret"), body)

	// Flip one hex digit.
	mutated := []byte(sig)
	if mutated[0] == '0' {
		mutated[0] = '1'
	} else {
		mutated[0] = '0'
	}

	assert.False(t, policy.Verify(body, string(mutated)))
}

func TestVerifyRejectsUndecodableSignature(t *testing.T) {
	policy := Enforced("topsecret")
	body := []byte(`{}`)

	for _, provided := range []string{"not-hex", "zz", "deadbeef ", ""} {
		assert.False(t, policy.Verify(body, provided), "signature %q should not verify", provided)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	body := []byte(`{"job_id":"job-1"}`)
	sig := Compute([]byte("secret-a"), body)

	assert.False(t, Enforced("secret-b").Verify(body, sig))
}

func TestDisabledPolicy(t *testing.T) {
	policy := Disabled()
	assert.False(t, policy.Enabled())
	// A disabled policy never verifies; callers must not reach Verify.
	assert.False(t, policy.Verify([]byte("body"), "deadbeef"))
}

func TestEnforcedPolicyEnabled(t *testing.T) {
	assert.True(t, Enforced("s").Enabled())
	assert.False(t, Enforced("").Enabled())
}
