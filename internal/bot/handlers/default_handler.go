package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewDefaultHandler returns the catch-all handler for non-command updates.
// It routes voice notes to transcription, the bare "l" message to the meal
// log, and other text into the active checklist session.
func NewDefaultHandler(deps HandlerDeps) bot.HandlerFunc {
	voice := voiceHandler{deps}
	cl := checklistHandler{deps}

	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		chatID := update.Message.Chat.ID

		if update.Message.Voice != nil {
			voice.Handle(ctx, b, update)
			return
		}

		text := update.Message.Text
		if text == "" {
			return
		}
		if text == "l" || text == "L" {
			logMeal(ctx, b, deps, chatID)
			return
		}
		if cl.HandleText(ctx, b, chatID, text) {
			return
		}

		deps.Logger.DebugContext(ctx, "Ignoring unhandled message", "chat_id", chatID)
	}
}
