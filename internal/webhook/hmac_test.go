package webhook

import (
	"strings"
	"testing"
)

func TestVerifySignatureValid(t *testing.T) {
	secret := "test-secret"
	body := []byte(`{"message_id":"m1","from":"+1111","to":"+2222","ts":"2024-01-01T00:00:00Z"}`)

	sig := ComputeSignature(body, secret)
	if err := VerifySignature(body, sig, secret); err != nil {
		t.Errorf("valid plain hex signature rejected: %v", err)
	}

	if err := VerifySignature(body, "sha256="+sig, secret); err != nil {
		t.Errorf("valid sha256= signature rejected: %v", err)
	}
}

func TestVerifySignatureRejections(t *testing.T) {
	secret := "test-secret"
	body := []byte(`{"event":"delivery"}`)
	good := ComputeSignature(body, secret)

	tests := []struct {
		name      string
		body      []byte
		signature string
		secret    string
	}{
		{"empty signature", body, "", secret},
		{"wrong signature", body, strings.Repeat("0", 64), secret},
		{"truncated signature", body, good[:32], secret},
		{"non-hex signature", body, "not-valid-hex!", secret},
		{"wrong secret", body, good, "other-secret"},
		{"tampered body", []byte(`{"event":"tampered"}`), good, secret},
		{"empty secret", body, good, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(tt.body, tt.signature, tt.secret)
			if err == nil {
				t.Fatal("expected verification failure")
			}
			// Errors must stay generic.
			if strings.Contains(err.Error(), tt.secret) || strings.Contains(err.Error(), tt.signature) {
				t.Errorf("error leaks input details: %v", err)
			}
		})
	}
}

func TestDigestStable(t *testing.T) {
	a := Digest([]byte("payload"))
	b := Digest([]byte("payload"))
	c := Digest([]byte("payload2"))

	if a != b {
		t.Error("digest not deterministic")
	}
	if a == c {
		t.Error("distinct payloads share a digest")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
}
