package internal

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// Store provides durable access to conversation metadata and the
// checkpoint log. All writes commit synchronously before returning.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store on top of an opened, migrated database
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// UpsertName inserts or overwrites the display name for a conversation.
// The creation timestamp is set on first insert and preserved on
// overwrite, so repeated calls with the same arguments are idempotent.
func (s *Store) UpsertName(ctx context.Context, threadID, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (thread_id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(thread_id) DO UPDATE SET name = excluded.name`,
		threadID, name, formatTime(time.Now()))
	if err != nil {
		return &StorageError{Op: "exec", Err: err}
	}
	return nil
}

// GetName returns the display name for a conversation. A conversation that
// was never named yields ok=false, not an error.
func (s *Store) GetName(ctx context.Context, threadID string) (string, bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM conversations WHERE thread_id = ?", threadID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Op: "query", Err: err}
	}
	return name, true, nil
}

// AppendSnapshot records the full ordered message sequence of a
// conversation as a new checkpoint. The log is append-only: earlier
// snapshots are kept, and the latest one defines current state. The write
// is a single row, so a turn is never partially applied.
func (s *Store) AppendSnapshot(ctx context.Context, threadID string, messages []Message) error {
	if messages == nil {
		messages = []Message{}
	}
	payload, err := json.Marshal(messages)
	if err != nil {
		return &StorageError{Op: "exec", Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO checkpoints (thread_id, created_at, messages) VALUES (?, ?, ?)",
		threadID, formatTime(time.Now()), string(payload))
	if err != nil {
		return &StorageError{Op: "exec", Err: err}
	}
	return nil
}

// Turns returns the message sequence from the latest checkpoint of a
// conversation, or an empty slice when the conversation has no checkpoint
// yet. An unknown identifier is not an error.
func (s *Store) Turns(ctx context.Context, threadID string) ([]Message, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT messages FROM checkpoints
		WHERE thread_id = ?
		ORDER BY id DESC LIMIT 1`, threadID).Scan(&payload)
	if err == sql.ErrNoRows {
		return []Message{}, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}

	var messages []Message
	if err := json.Unmarshal([]byte(payload), &messages); err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}
	return messages, nil
}

// Delete removes a conversation's metadata and all of its checkpoints in
// one transaction, so a concurrent registry read never observes a partial
// deletion. Deleting an unknown identifier is a no-op.
func (s *Store) Delete(ctx context.Context, threadID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "exec", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM conversations WHERE thread_id = ?", threadID); err != nil {
		return &StorageError{Op: "exec", Err: err}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM checkpoints WHERE thread_id = ?", threadID); err != nil {
		return &StorageError{Op: "exec", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "exec", Err: err}
	}

	log.Debug().Str("thread_id", threadID).Msg("conversation deleted")
	return nil
}

// ListThreads returns a summary for every conversation present in the
// checkpoint log, joined with its display name when one exists. Results
// are ordered by last activity, most recent first, keyed on the monotonic
// checkpoint id rather than the timestamp text; CreatedAt and UpdatedAt
// are carried so callers can impose a different order.
func (s *Store) ListThreads(ctx context.Context) ([]Thread, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cp.thread_id, cp.messages, b.first_at, b.last_at, n.name
		FROM checkpoints cp
		JOIN (
			SELECT thread_id,
			       MAX(id) AS max_id,
			       MIN(created_at) AS first_at,
			       MAX(created_at) AS last_at
			FROM checkpoints
			GROUP BY thread_id
		) b ON cp.id = b.max_id
		LEFT JOIN conversations n ON n.thread_id = cp.thread_id
		ORDER BY b.max_id DESC`)
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}
	defer rows.Close()

	var threads []Thread
	for rows.Next() {
		var thread Thread
		var payload, firstAt, lastAt string
		var name sql.NullString
		if err := rows.Scan(&thread.ID, &payload, &firstAt, &lastAt, &name); err != nil {
			return nil, &StorageError{Op: "query", Err: err}
		}
		if name.Valid {
			thread.Name = name.String
		}

		var messages []Message
		if err := json.Unmarshal([]byte(payload), &messages); err != nil {
			log.Warn().Err(err).Str("thread_id", thread.ID).Msg("skipping thread with malformed checkpoint")
			continue
		}
		thread.MessageCount = len(messages)
		thread.CreatedAt = parseTime(firstAt)
		thread.UpdatedAt = parseTime(lastAt)

		threads = append(threads, thread)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}

	return threads, nil
}

// Load assembles a full Conversation (name plus latest messages) for
// display or export. The zero-value name is kept when the conversation was
// never named.
func (s *Store) Load(ctx context.Context, threadID string) (*Conversation, error) {
	messages, err := s.Turns(ctx, threadID)
	if err != nil {
		return nil, err
	}
	conv := &Conversation{ID: threadID, Messages: messages}

	var name, createdAt string
	err = s.db.QueryRowContext(ctx,
		"SELECT name, created_at FROM conversations WHERE thread_id = ?", threadID).
		Scan(&name, &createdAt)
	if err == nil {
		conv.Name = name
		conv.CreatedAt = parseTime(createdAt)
	} else if err != sql.ErrNoRows {
		return nil, &StorageError{Op: "query", Err: err}
	}

	return conv, nil
}
