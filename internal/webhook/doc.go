// Package webhook implements HMAC-SHA256 verification of inbound webhook
// deliveries and the raw-payload digest used for redelivery comparison.
//
// # Security Model
//
// - HMAC-SHA256 signatures verified using crypto/subtle (constant-time comparison)
// - Signature computed over the raw request body, never reparsed JSON
// - No signature details leaked in error responses (always a generic 401)
// - The shared secret is loaded from the environment, never hardcoded
//
// # Signature Formats
//
// The X-Signature header carries the hex-encoded HMAC. Both the plain hex
// form and the "sha256=<hex>" prefixed form are accepted; the prefixed form
// is a strict superset that cannot weaken the check.
package webhook
