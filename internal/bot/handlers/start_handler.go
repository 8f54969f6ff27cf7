package handlers

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const welcomeText = `Health tracker active.

Commands:
/checklist - daily RHR factors checklist
/analyze [days] - fetch Oura + analyze (default 30 days)
/analyze_week - fetch Oura + analyze last 7 days
/analyze_all - fetch Oura + analyze all data
/oura [date] - pull one day of Oura data
/backfill START END - pull a date range of Oura data
/date YYYY-MM-DD - tag the next voice note with a date
/yesterday - tag the next voice note as yesterday
/status - see data counts
/cancel - abort the checklist
/help - show this message

Send 'l' to log last meal time.
Send a voice note to log your day.`

// NewStartHandler returns a handler for the /start command. It remembers
// the chat ID so scheduled jobs know where to deliver notifications.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if err := h.deps.Store.SetSetting(ctx, "chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		log.ErrorContext(ctx, "Failed to store chat ID", "chat_id", chatID, "error", err)
	}

	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID)
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: welcomeText}); err != nil {
		log.ErrorContext(ctx, "Failed to send welcome message", "chat_id", chatID, "error", err)
	}
}
