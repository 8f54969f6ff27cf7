package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const helpText = `Send a voice note about your day and I'll transcribe and store it.
Send 'l' to log last meal time.

/checklist - daily RHR factors checklist
/analyze [days] - fetch Oura + analyze (default 30 days)
/analyze_week - fetch Oura + analyze last 7 days
/analyze_all - fetch Oura + analyze all data
/oura [date] - pull one day of Oura data
/backfill START END - pull a date range of Oura data
/date YYYY-MM-DD - tag the next voice note with a date
/yesterday - tag the next voice note as yesterday
/status - see how much data you have
/cancel - abort the checklist`

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return helpHandler{deps}.Handle
}

type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "help")
	if update.Message == nil {
		return
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   helpText,
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send help message", "chat_id", update.Message.Chat.ID, "error", err)
	}
}
