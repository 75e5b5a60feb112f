package tasks

import "context"

// newSessionSweepTask creates the task that drops expired dialogue sessions.
func newSessionSweepTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "session_sweep")

	return func(ctx context.Context) error {
		before, after := deps.Sessions.DeleteExpired()
		log.InfoContext(ctx, "Expired sessions swept", "removed", before-after, "remaining", after)
		return nil
	}
}
