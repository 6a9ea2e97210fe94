// Package modlog records executed moderation actions: to the store, to
// the structured log, and optionally to a per-guild log channel through
// an injected notifier.
package modlog

import (
	"context"
	"time"

	"steward/internal/storage"

	"go.uber.org/zap"
)

type Logger struct {
	store  *storage.Store
	logger *zap.Logger
	notify func(context.Context, storage.ModAction)
}

func NewLogger(store *storage.Store, logger *zap.Logger) *Logger {
	return &Logger{store: store, logger: logger}
}

// SetNotifier installs the channel-posting callback. The bot wires this
// after it owns a session; modlog itself never talks to Discord.
func (l *Logger) SetNotifier(notify func(context.Context, storage.ModAction)) {
	l.notify = notify
}

func (l *Logger) Record(ctx context.Context, guildID, userID, moderatorID, action, reason string, duration time.Duration) {
	entry := storage.ModAction{
		GuildID:         guildID,
		UserID:          userID,
		ModeratorID:     moderatorID,
		Action:          action,
		Reason:          reason,
		DurationSeconds: int64(duration / time.Second),
		CreatedAt:       time.Now(),
	}
	if l.store != nil {
		if err := l.store.AddModAction(ctx, entry); err != nil {
			l.logger.Warn("mod action persist failed", zap.Error(err))
		}
	}
	if l.notify != nil {
		l.notify(ctx, entry)
	}
	l.logger.Info("mod action",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.String("moderator_id", moderatorID),
		zap.String("action", action),
		zap.String("reason", reason),
		zap.Duration("duration", duration),
	)
}
