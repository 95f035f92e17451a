package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenBootstrapsMessagesTable(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "inlet.db")
	db, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	var name string
	if err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='messages';").Scan(&name); err != nil {
		t.Fatalf("messages table missing: %v", err)
	}

	for _, idx := range []string{"messages_ts_message_id_idx", "messages_from_msisdn_idx"} {
		var n string
		if err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?;", idx).Scan(&n); err != nil {
			t.Fatalf("index %q missing: %v", idx, err)
		}
	}
}

func TestOpenEmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "inlet.db")
	db1, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	_ = db1.Close()

	db2, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	_ = db2.Close()
}
