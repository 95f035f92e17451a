package message

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Store provides idempotent insert, filtered listing, and aggregate stats on
// the messages table. It holds no cross-request state: each operation runs as
// an independent statement sequence and duplicate detection relies solely on
// the primary-key constraint enforced by SQLite.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database. db may be nil when the startup open
// failed; every operation then reports ErrStoreUnavailable until the process
// is restarted with a reachable store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) available() error {
	if s == nil || s.db == nil {
		return ErrStoreUnavailable
	}
	return nil
}

// Insert persists m with a server-assigned created_at. A primary-key
// collision on message_id is a duplicate outcome, never an error and never a
// mutation of the stored row.
func (s *Store) Insert(ctx context.Context, m *Message) (Outcome, error) {
	if err := s.available(); err != nil {
		return Outcome{}, err
	}
	if m.MessageID == "" {
		return Outcome{}, fmt.Errorf("message_id is empty")
	}

	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	// INSERT OR IGNORE makes the PK constraint the sole synchronization
	// primitive: concurrent deliveries of the same id race safely inside the
	// storage engine.
	res, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO messages(message_id, from_msisdn, to_msisdn, ts, text, payload_hash, created_at)
VALUES(?, ?, ?, ?, ?, ?, ?);
`, m.MessageID, m.FromMsisdn, m.ToMsisdn, m.TS, m.Text, m.PayloadHash, createdAt)
	if err != nil {
		return Outcome{}, fmt.Errorf("insert message: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return Outcome{}, fmt.Errorf("insert message: rows affected: %w", err)
	}
	if n > 0 {
		m.CreatedAt = createdAt
		return Outcome{Created: true}, nil
	}

	out := Outcome{Created: false}
	if m.PayloadHash != "" {
		var stored string
		err := s.db.QueryRowContext(ctx,
			`SELECT payload_hash FROM messages WHERE message_id = ?;`, m.MessageID,
		).Scan(&stored)
		if err == nil && stored != "" && stored != m.PayloadHash {
			out.PayloadChanged = true
		}
	}
	return out, nil
}

// List returns messages matching all supplied filters, ordered by
// (ts, message_id) ascending, plus the total match count computed before
// pagination.
func (s *Store) List(ctx context.Context, q Query) ([]Message, int, error) {
	if err := s.available(); err != nil {
		return nil, 0, err
	}

	var (
		conds []string
		args  []any
	)
	if q.From != "" {
		conds = append(conds, "from_msisdn = ?")
		args = append(args, q.From)
	}
	if q.Since != "" {
		conds = append(conds, "ts >= ?")
		args = append(args, q.Since)
	}
	if q.Contains != "" {
		conds = append(conds, "text LIKE ?")
		args = append(args, "%"+q.Contains+"%")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	query := `SELECT message_id, from_msisdn, to_msisdn, ts, text, payload_hash, created_at
FROM messages` + where + ` ORDER BY ts ASC, message_id ASC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]Message, 0, q.Limit)
	for rows.Next() {
		var (
			m    Message
			text sql.NullString
		)
		if err := rows.Scan(&m.MessageID, &m.FromMsisdn, &m.ToMsisdn, &m.TS, &text, &m.PayloadHash, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan message: %w", err)
		}
		if text.Valid {
			m.Text = &text.String
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate messages: %w", err)
	}
	return msgs, total, nil
}

// Stats computes the aggregate snapshot fresh on each call: totals, distinct
// senders, top senders by count (at most 10), and the ts range.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	if err := s.available(); err != nil {
		return nil, err
	}

	st := &Stats{PerSender: []SenderCount{}}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages;`).Scan(&st.TotalMessages); err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT from_msisdn) FROM messages;`).Scan(&st.SendersCount); err != nil {
		return nil, fmt.Errorf("count senders: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT from_msisdn, COUNT(*) AS count
FROM messages
GROUP BY from_msisdn
ORDER BY count DESC
LIMIT 10;
`)
	if err != nil {
		return nil, fmt.Errorf("top senders: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sc SenderCount
		if err := rows.Scan(&sc.From, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan sender: %w", err)
		}
		st.PerSender = append(st.PerSender, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate senders: %w", err)
	}

	var first, last sql.NullString
	if err := s.db.QueryRowContext(ctx, `SELECT MIN(ts), MAX(ts) FROM messages;`).Scan(&first, &last); err != nil {
		return nil, fmt.Errorf("ts range: %w", err)
	}
	if first.Valid {
		st.FirstMessageTS = &first.String
	}
	if last.Valid {
		st.LastMessageTS = &last.String
	}

	return st, nil
}

// Ping reports whether the store can serve traffic: the database answers and
// the messages table exists. Used by the readiness endpoint.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.available(); err != nil {
		return err
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping store: %w", err)
	}
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name='messages';`,
	).Scan(&name)
	if err != nil {
		return fmt.Errorf("messages table missing: %w", err)
	}
	return nil
}
