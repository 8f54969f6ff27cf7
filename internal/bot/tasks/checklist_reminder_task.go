package tasks

import (
	"context"
	"fmt"
	"time"
)

// newChecklistReminderTask creates the evening reminder that nudges the
// user to fill in the daily checklist. Skipped when the day's checklist is
// already saved.
func newChecklistReminderTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "checklist_reminder")

	return func(ctx context.Context) error {
		chatID := notifyChatID(ctx, deps)
		if chatID == 0 {
			log.InfoContext(ctx, "No chat registered, skipping reminder")
			return nil
		}

		today := time.Now().In(deps.Config.Scheduler.Location()).Format(time.DateOnly)

		entry, err := deps.Store.GetChecklist(ctx, today)
		if err != nil {
			log.WarnContext(ctx, "Failed to check for an existing checklist, reminding anyway", "date", today, "error", err)
		} else if entry != nil {
			log.InfoContext(ctx, "Checklist already filled in, skipping reminder", "date", today)
			return nil
		}

		notify(ctx, deps, chatID, fmt.Sprintf(
			"Time to log your daily checklist for %s.\nTap /checklist to start.", today))
		log.InfoContext(ctx, "Checklist reminder sent", "date", today)
		return nil
	}
}
