package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
)

// logMeal records the current local time as the day's last meal. Triggered
// by the bare "l" message.
func logMeal(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64) {
	log := deps.Logger.With("handler", "meal")

	now := time.Now().In(deps.location())
	day := now.Format(time.DateOnly)
	timeStr := now.Format("15:04")

	if err := deps.Store.UpsertLastMealTime(ctx, day, timeStr); err != nil {
		log.ErrorContext(ctx, "Failed to log meal time", "chat_id", chatID, "day", day, "error", err)
		sendError(ctx, b, log, chatID, err)
		return
	}

	log.InfoContext(ctx, "Meal time logged", "chat_id", chatID, "day", day, "time", timeStr)
	sendText(ctx, b, log, chatID, fmt.Sprintf("Last meal logged at %s", timeStr))
}
