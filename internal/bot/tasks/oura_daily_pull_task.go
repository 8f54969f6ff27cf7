package tasks

import (
	"context"
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"
)

// newOuraDailyPullTask creates the scheduled task that fetches yesterday's
// biometrics and reports the headline numbers to the user's chat.
func newOuraDailyPullTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "oura_daily_pull")

	return func(ctx context.Context) error {
		loc := deps.Config.Scheduler.Location()
		yesterday := time.Now().In(loc).AddDate(0, 0, -1).Format(time.DateOnly)
		chatID := notifyChatID(ctx, deps)

		data, err := deps.Oura.FetchAndStore(ctx, yesterday)
		if err != nil {
			log.ErrorContext(ctx, "Daily Oura pull failed", "date", yesterday, "error", err)
			if chatID != 0 {
				notify(ctx, deps, chatID, fmt.Sprintf("Oura daily pull failed: %v", err))
			}
			return fmt.Errorf("daily oura pull for %s failed: %w", yesterday, err)
		}

		log.InfoContext(ctx, "Daily Oura pull complete", "date", yesterday)
		if chatID != 0 {
			hr := "N/A"
			if data.LowestHeartRate.Valid {
				hr = fmt.Sprintf("%d", data.LowestHeartRate.Int64)
			}
			hrv := "N/A"
			if data.AverageHRV.Valid {
				hrv = fmt.Sprintf("%d", data.AverageHRV.Int64)
			}
			notify(ctx, deps, chatID, fmt.Sprintf("Oura daily pull (%s): HR %s, HRV %s", yesterday, hr, hrv))
		}
		return nil
	}
}

func notify(ctx context.Context, deps TaskDeps, chatID int64, text string) {
	if _, err := deps.Bot.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send task notification", "chat_id", chatID, "error", err)
	}
}
