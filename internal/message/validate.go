package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// MaxTextLength is the maximum accepted length of the optional text field.
const MaxTextLength = 4096

// msisdnPattern is the E.164-like check: a leading + followed by digits.
// Deliberately simplified; full E.164 validation is out of scope.
var msisdnPattern = regexp.MustCompile(`^\+\d+$`)

// rawPayload mirrors the wire shape. Pointer fields distinguish absent keys
// from present-but-empty values.
type rawPayload struct {
	MessageID *string `json:"message_id"`
	From      *string `json:"from"`
	To        *string `json:"to"`
	TS        *string `json:"ts"`
	Text      *string `json:"text"`
}

// ParsePayload parses and validates a raw webhook body into a candidate
// Message. It is pure: no side effects, never panics on malformed input.
// The returned Message carries no PayloadHash or CreatedAt; those are
// assigned at ingestion and insert time respectively.
func ParsePayload(raw []byte) (*Message, *ValidationError) {
	var p rawPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{
				Kind:   KindInvalidFormat,
				Field:  typeErr.Field,
				Reason: fmt.Sprintf("expected %s", typeErr.Type),
			}
		}
		return nil, &ValidationError{Kind: KindMalformedJSON, Reason: "body is not valid JSON"}
	}

	if p.MessageID == nil || *p.MessageID == "" {
		return nil, missing("message_id")
	}
	if p.From == nil {
		return nil, missing("from")
	}
	if p.To == nil {
		return nil, missing("to")
	}
	if p.TS == nil {
		return nil, missing("ts")
	}

	if !msisdnPattern.MatchString(*p.From) {
		return nil, badFormat("from")
	}
	if !msisdnPattern.MatchString(*p.To) {
		return nil, badFormat("to")
	}

	if p.Text != nil && len([]rune(*p.Text)) > MaxTextLength {
		return nil, &ValidationError{
			Kind:   KindTooLong,
			Field:  "text",
			Reason: fmt.Sprintf("text exceeds %d characters", MaxTextLength),
		}
	}

	return &Message{
		MessageID:  *p.MessageID,
		FromMsisdn: *p.From,
		ToMsisdn:   *p.To,
		TS:         *p.TS,
		Text:       p.Text,
	}, nil
}

func missing(field string) *ValidationError {
	return &ValidationError{Kind: KindMissingField, Field: field, Reason: "field is required"}
}

func badFormat(field string) *ValidationError {
	return &ValidationError{Kind: KindInvalidFormat, Field: field, Reason: "must match ^\\+\\d+$ (e.g. +123456)"}
}
