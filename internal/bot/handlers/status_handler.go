package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStatusHandler returns a handler for the /status command.
func NewStatusHandler(deps HandlerDeps) bot.HandlerFunc {
	return statusHandler{deps}.Handle
}

type statusHandler struct {
	deps HandlerDeps
}

func (h statusHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "status")
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	stats, err := h.deps.Store.GetStats(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load stats", "error", err)
		sendError(ctx, b, h.deps.Logger, chatID, err)
		return
	}

	lines := []string{
		"Status:",
		fmt.Sprintf("  Voice notes: %d", stats.TranscriptCount),
		fmt.Sprintf("  Oura days: %d", stats.OuraCount),
		fmt.Sprintf("  Checklists: %d", stats.ChecklistCount),
		fmt.Sprintf("  Last voice note: %s", nullOr(stats.LastTranscriptDate, "none")),
		fmt.Sprintf("  Last Oura data: %s", nullOr(stats.LastOuraDate, "none")),
		fmt.Sprintf("  Last analysis: %s", nullOr(stats.LastAnalysisAt, "never")),
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   strings.Join(lines, "\n"),
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send status message", "chat_id", chatID, "error", err)
	}
}

func nullOr(v sql.NullString, fallback string) string {
	if !v.Valid || v.String == "" {
		return fallback
	}
	return v.String
}
