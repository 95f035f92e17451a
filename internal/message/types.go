package message

import (
	"errors"
	"fmt"
)

// Message is the persisted entity. A row is created exactly once, at first
// successful ingestion of its message_id, and never updated or deleted.
type Message struct {
	MessageID  string  `json:"message_id"`
	FromMsisdn string  `json:"from"`
	ToMsisdn   string  `json:"to"`
	TS         string  `json:"ts"`
	Text       *string `json:"text"`

	// PayloadHash is the blake3 digest of the raw delivery body, recorded at
	// insert and used to spot conflicting redeliveries. Never exposed.
	PayloadHash string `json:"-"`

	// CreatedAt is server-assigned at insert time (RFC3339 UTC).
	CreatedAt string `json:"-"`
}

// ValidationError kinds.
const (
	KindMalformedJSON = "malformed_json"
	KindMissingField  = "missing_field"
	KindInvalidFormat = "invalid_format"
	KindTooLong       = "too_long"
)

// ValidationError is the tagged rejection returned by ParsePayload. It is a
// value, not control flow: callers branch on Kind rather than unwrapping.
type ValidationError struct {
	Kind   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Outcome classifies an insert attempt.
type Outcome struct {
	// Created is true when a new row was stored, false for an idempotent
	// duplicate (which is a successful no-op, not an error).
	Created bool

	// PayloadChanged is true when a duplicate delivery carried a different
	// raw body than the stored row. The stored row is never mutated.
	PayloadChanged bool
}

// Result returns the outcome label used for logging and metrics.
func (o Outcome) Result() string {
	if o.Created {
		return "created"
	}
	return "duplicate"
}

// Query holds the conjunctive filters and pagination for listing.
type Query struct {
	Limit  int
	Offset int

	// From matches from_msisdn exactly.
	From string
	// Since keeps messages with ts >= Since (string comparison, ts is opaque).
	Since string
	// Contains is a substring match on text.
	Contains string
}

// SenderCount is one entry of the per-sender aggregate.
type SenderCount struct {
	From  string `json:"from"`
	Count int64  `json:"count"`
}

// Stats is the aggregate snapshot, computed fresh on each call.
type Stats struct {
	TotalMessages  int64         `json:"total_messages"`
	SendersCount   int64         `json:"senders_count"`
	PerSender      []SenderCount `json:"messages_per_sender"`
	FirstMessageTS *string       `json:"first_message_ts"`
	LastMessageTS  *string       `json:"last_message_ts"`
}

// ErrStoreUnavailable is returned by store operations when the backing
// database could not be opened at startup (degraded mode). Readiness surfaces
// this as 503; the process keeps running.
var ErrStoreUnavailable = errors.New("message store unavailable")
