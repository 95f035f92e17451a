package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"
)

// VerifySignature verifies an HMAC-SHA256 signature against the raw request
// body.
//
// This function uses constant-time comparison (crypto/subtle) to prevent
// timing attacks on signature guessing. It is a pure function of its inputs:
// a missing, empty, or malformed signature is a mismatch, never a panic.
//
// Supported formats:
//   - "<hex>" (plain hex)
//   - "sha256=<hex>" (GitHub style)
//
// Returns nil if the signature is valid, error otherwise.
// All errors are generic to prevent information leakage.
func VerifySignature(body []byte, signature, secret string) error {
	if secret == "" {
		return fmt.Errorf("signature verification failed")
	}

	if signature == "" {
		return fmt.Errorf("signature verification failed")
	}

	// Compute HMAC-SHA256 of request body
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expectedMAC := mac.Sum(nil)

	actualMAC, err := parseSignature(signature)
	if err != nil {
		// Generic error - don't leak format details
		return fmt.Errorf("signature verification failed")
	}

	// Constant-time comparison to prevent timing attacks
	if subtle.ConstantTimeCompare(expectedMAC, actualMAC) != 1 {
		return fmt.Errorf("signature verification failed")
	}

	return nil
}

// parseSignature extracts and decodes the HMAC signature from its header form.
func parseSignature(signature string) ([]byte, error) {
	if strings.HasPrefix(signature, "sha256=") {
		hexSig := strings.TrimPrefix(signature, "sha256=")
		return hex.DecodeString(hexSig)
	}
	return hex.DecodeString(signature)
}

// ComputeSignature computes the hex-encoded HMAC-SHA256 signature for a body.
// Used by tests and sender tooling.
func ComputeSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Digest returns the hex blake3 digest of a raw delivery body. Stored with
// the message so conflicting redeliveries of the same message_id can be
// spotted and logged without ever mutating the stored row.
func Digest(body []byte) string {
	sum := blake3.Sum256(body)
	return hex.EncodeToString(sum[:])
}
