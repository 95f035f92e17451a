package message

import (
	"strings"
	"testing"
)

func TestParsePayloadValid(t *testing.T) {
	raw := []byte(`{"message_id":"m1","from":"+1111","to":"+2222","ts":"2024-01-01T00:00:00Z","text":"hi"}`)

	m, verr := ParsePayload(raw)
	if verr != nil {
		t.Fatalf("ParsePayload: %v", verr)
	}
	if m.MessageID != "m1" {
		t.Errorf("MessageID = %q, want m1", m.MessageID)
	}
	if m.FromMsisdn != "+1111" || m.ToMsisdn != "+2222" {
		t.Errorf("msisdns = %q/%q", m.FromMsisdn, m.ToMsisdn)
	}
	if m.TS != "2024-01-01T00:00:00Z" {
		t.Errorf("TS = %q", m.TS)
	}
	if m.Text == nil || *m.Text != "hi" {
		t.Errorf("Text = %v, want hi", m.Text)
	}
}

func TestParsePayloadTextOptional(t *testing.T) {
	raw := []byte(`{"message_id":"m1","from":"+1111","to":"+2222","ts":"2024-01-01T00:00:00Z"}`)

	m, verr := ParsePayload(raw)
	if verr != nil {
		t.Fatalf("ParsePayload: %v", verr)
	}
	if m.Text != nil {
		t.Errorf("Text = %v, want nil", m.Text)
	}
}

func TestParsePayloadRejections(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantKind  string
		wantField string
	}{
		{"malformed json", `{not json`, KindMalformedJSON, ""},
		{"missing message_id", `{"from":"+1","to":"+2","ts":"t"}`, KindMissingField, "message_id"},
		{"empty message_id", `{"message_id":"","from":"+1","to":"+2","ts":"t"}`, KindMissingField, "message_id"},
		{"missing from", `{"message_id":"m1","to":"+2","ts":"t"}`, KindMissingField, "from"},
		{"missing to", `{"message_id":"m1","from":"+1","ts":"t"}`, KindMissingField, "to"},
		{"missing ts", `{"message_id":"m1","from":"+1","to":"+2"}`, KindMissingField, "ts"},
		{"from without plus", `{"message_id":"m1","from":"1111","to":"+2","ts":"t"}`, KindInvalidFormat, "from"},
		{"from with letters", `{"message_id":"m1","from":"+12ab","to":"+2","ts":"t"}`, KindInvalidFormat, "from"},
		{"to bare plus", `{"message_id":"m1","from":"+1","to":"+","ts":"t"}`, KindInvalidFormat, "to"},
		{"to with spaces", `{"message_id":"m1","from":"+1","to":"+2 3","ts":"t"}`, KindInvalidFormat, "to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, verr := ParsePayload([]byte(tt.raw))
			if m != nil {
				t.Fatalf("expected rejection, got message %+v", m)
			}
			if verr == nil {
				t.Fatal("expected ValidationError")
			}
			if verr.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", verr.Kind, tt.wantKind)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestParsePayloadTextTooLong(t *testing.T) {
	long := strings.Repeat("x", MaxTextLength+1)
	raw := []byte(`{"message_id":"m1","from":"+1","to":"+2","ts":"t","text":"` + long + `"}`)

	_, verr := ParsePayload(raw)
	if verr == nil || verr.Kind != KindTooLong {
		t.Fatalf("verr = %v, want kind %s", verr, KindTooLong)
	}

	// Exactly at the limit is accepted.
	ok := strings.Repeat("x", MaxTextLength)
	raw = []byte(`{"message_id":"m1","from":"+1","to":"+2","ts":"t","text":"` + ok + `"}`)
	if _, verr := ParsePayload(raw); verr != nil {
		t.Fatalf("text at limit rejected: %v", verr)
	}
}

func TestParsePayloadWrongType(t *testing.T) {
	raw := []byte(`{"message_id":"m1","from":"+1","to":"+2","ts":1234}`)

	_, verr := ParsePayload(raw)
	if verr == nil {
		t.Fatal("expected ValidationError for non-string ts")
	}
	if verr.Kind != KindInvalidFormat {
		t.Errorf("Kind = %q, want %q", verr.Kind, KindInvalidFormat)
	}
}
