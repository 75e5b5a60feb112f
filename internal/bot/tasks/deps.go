// Package tasks implements the scheduled maintenance tasks of the gift bot.
package tasks

import (
	"context"
	"log/slog"
)

// MaintenanceStore is the store operation used by the SQL maintenance task.
type MaintenanceStore interface {
	RunSQLMaintenance(ctx context.Context) error
}

// SessionSweeper drops expired dialogue sessions.
type SessionSweeper interface {
	DeleteExpired() (before, after int)
}

// TaskDeps contains the dependencies of scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Store    MaintenanceStore
	Sessions SessionSweeper
}
