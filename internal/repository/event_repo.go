package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"blog/internal/models"

	"github.com/google/uuid"
)

// sqliteTimestampLayout is the TIMESTAMP text form stored in post_events.
const sqliteTimestampLayout = "2006-01-02 15:04:05"

const insertEventSQL = `
		INSERT INTO post_events (id, occurred_at, type, post_id, actor_id, message, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

type EventSQLite struct {
	db querier
}

func NewEventSQLite(db querier) *EventSQLite { return &EventSQLite{db: db} }

var _ EventRepo = (*EventSQLite)(nil)

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *EventSQLite) Append(ctx context.Context, e models.PostEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	e.OccurredAt = utcNowIfZero(e.OccurredAt)

	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.OccurredAt.Format(sqliteTimestampLayout),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.PostID,
		e.ActorID,
		e.Description,
		metaPtr,
	)
	if err != nil {
		return fmt.Errorf("append %s event for post %d: %w", e.Type, e.PostID, err)
	}
	return nil
}

// List returns events within [From, To] (inclusive), of Type and for PostID
// when set, oldest first. Events of the same second keep insertion order.
func (r *EventSQLite) List(ctx context.Context, f EventFilter) ([]models.PostEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !f.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, f.From.UTC().Format(sqliteTimestampLayout))
	}
	if !f.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, f.To.UTC().Format(sqliteTimestampLayout))
	}
	if typ := strings.ToUpper(strings.TrimSpace(f.Type)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}
	if f.PostID > 0 {
		conds = append(conds, "post_id = ?")
		args = append(args, f.PostID)
	}

	q := `SELECT id, occurred_at, type, post_id, actor_id, message, meta FROM post_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC, rowid ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list post events: %w", err)
	}
	defer rows.Close()

	out := make([]models.PostEvent, 0, 64)
	for rows.Next() {
		var ev models.PostEvent
		var metaStr sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.PostID, &ev.ActorID, &ev.Description, &metaStr); err != nil {
			return nil, fmt.Errorf("scan post event: %w", err)
		}
		ev.OccurredAt = ev.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
