package tasks

import (
	"context"
	"strconv"
)

// ScheduledTaskFunc is the signature every scheduled task implements. The
// context comes from the scheduler and should be respected for shutdown.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the map of task functions keyed by the names
// used in the scheduler configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		"oura_daily_pull":    newOuraDailyPullTask(deps),
		"checklist_reminder": newChecklistReminderTask(deps),
		"sql_maintenance":    newSQLMaintenanceTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}

// notifyChatID returns the chat recorded by /start, or 0 when the bot has
// never been started in a chat.
func notifyChatID(ctx context.Context, deps TaskDeps) int64 {
	raw, err := deps.Store.GetSetting(ctx, "chat_id")
	if err != nil || raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		deps.Logger.WarnContext(ctx, "Stored chat_id is not numeric", "chat_id", raw)
		return 0
	}
	return id
}
