package store

import (
	"context"

	"github.com/google/uuid"

	"court-booking-api/internal/model"
)

func (s *Store) InsertLog(ctx context.Context, user, action string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO logs (id, user_name, action) VALUES ($1,$2,$3)`,
		uuid.New().String(), user, action,
	)
	return err
}

func (s *Store) ListLogs(ctx context.Context) ([]model.LogEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_name, action, created_at FROM logs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LogEntry
	for rows.Next() {
		var l model.LogEntry
		if err := rows.Scan(&l.ID, &l.User, &l.Action, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
