package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
)

// maxMessageLen stays below Telegram's 4096-character message limit with
// headroom for formatting.
const maxMessageLen = 4000

func sendText(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
	}
}

func sendError(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, err error) {
	sendText(ctx, b, log, chatID, fmt.Sprintf("Error: %v", err))
}

// sendLong sends text in chunks that fit a single Telegram message each.
func sendLong(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	for _, chunk := range splitMessage(text, maxMessageLen) {
		sendText(ctx, b, log, chatID, chunk)
	}
}

func nullFloatFromInt(v int) sql.NullFloat64 {
	if v == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: float64(v), Valid: true}
}

func nullStringValue(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

// splitMessage splits text at paragraph boundaries where possible, then at
// line breaks, then hard at the limit.
func splitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for text != "" {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}
		splitAt := strings.LastIndex(text[:maxLen], "\n\n")
		if splitAt <= 0 {
			splitAt = strings.LastIndex(text[:maxLen], "\n")
		}
		if splitAt <= 0 {
			splitAt = maxLen
		}
		chunks = append(chunks, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], "\n")
	}
	return chunks
}
