package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vrom/vrom/internal/command"
)

// Record is one stored command.
type Record struct {
	ID      string
	Topic   string
	FrameID string
	Payload string
	SentAt  time.Time
}

// Repo stores published commands. It satisfies command.Recorder.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Record(ctx context.Context, e command.Entry) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	sentAt := e.SentAt
	if sentAt.IsZero() {
		sentAt = Now()
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO commands(id, topic, frame_id, payload, sent_at) VALUES (?, ?, ?, ?, ?);
	`, uuid.NewString(), e.Topic, e.FrameID, string(payload), sentAt.UTC())
	return err
}

// Recent returns up to limit commands, newest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, topic, frame_id, payload, sent_at FROM commands
	ORDER BY sent_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Topic, &rec.FrameID, &rec.Payload, &rec.SentAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
