package storage

import (
	"context"
	"time"
)

// ModAction is one executed moderation command: who did what to whom,
// why, and for how long (durations in seconds, zero when not
// applicable).
type ModAction struct {
	ID              int64
	GuildID         string
	UserID          string
	ModeratorID     string
	Action          string
	Reason          string
	DurationSeconds int64
	CreatedAt       time.Time
}

func (s *Store) AddModAction(ctx context.Context, action ModAction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mod_actions (guild_id, user_id, moderator_id, action, reason, duration_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, action.GuildID, action.UserID, action.ModeratorID, action.Action, action.Reason, action.DurationSeconds, action.CreatedAt.Unix())
	return err
}

func (s *Store) ListModActions(ctx context.Context, guildID string, limit int) ([]ModAction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, guild_id, user_id, moderator_id, action, reason, duration_seconds, created_at
		FROM mod_actions
		WHERE guild_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []ModAction
	for rows.Next() {
		var action ModAction
		var created int64
		if err := rows.Scan(&action.ID, &action.GuildID, &action.UserID, &action.ModeratorID,
			&action.Action, &action.Reason, &action.DurationSeconds, &created); err != nil {
			return nil, err
		}
		action.CreatedAt = time.Unix(created, 0)
		actions = append(actions, action)
	}
	return actions, rows.Err()
}

// CountModActions returns per-action totals since the given time across
// all guilds, used by the dashboard stats endpoint.
func (s *Store) CountModActions(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT action, COUNT(*)
		FROM mod_actions
		WHERE created_at >= ?
		GROUP BY action
	`, since.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, err
		}
		counts[action] = count
	}
	return counts, rows.Err()
}

func (s *Store) CleanupModActions(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result, err := s.db.ExecContext(ctx, `DELETE FROM mod_actions WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, err
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}
