package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewDateHandler returns a handler for /date, which pins the date the next
// voice note is attributed to.
func NewDateHandler(deps HandlerDeps) bot.HandlerFunc {
	return dateHandler{deps}.HandleDate
}

// NewYesterdayHandler returns a handler for /yesterday, a shortcut that
// pins the next voice note to the previous day.
func NewYesterdayHandler(deps HandlerDeps) bot.HandlerFunc {
	return dateHandler{deps}.HandleYesterday
}

type dateHandler struct {
	deps HandlerDeps
}

func (h dateHandler) HandleDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	arg := commandArg(update.Message.Text)
	if arg == "" {
		sendText(ctx, b, h.deps.Logger, chatID, "Usage: /date YYYY-MM-DD")
		return
	}
	if _, err := time.Parse(time.DateOnly, arg); err != nil {
		sendText(ctx, b, h.deps.Logger, chatID, fmt.Sprintf("%q is not a valid date, expected YYYY-MM-DD.", arg))
		return
	}

	h.pin(ctx, b, chatID, arg)
}

func (h dateHandler) HandleYesterday(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.pin(ctx, b, update.Message.Chat.ID, h.deps.yesterday())
}

func (h dateHandler) pin(ctx context.Context, b *bot.Bot, chatID int64, day string) {
	h.deps.Sessions.PinDate(chatID, day)
	h.deps.Logger.InfoContext(ctx, "Pinned voice note date", "chat_id", chatID, "day", day)
	sendText(ctx, b, h.deps.Logger, chatID,
		fmt.Sprintf("Next voice note will be saved under %s. Record it now.", day))
}

// commandArg returns the first argument after the command word, or "".
func commandArg(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// commandArgs returns all arguments after the command word.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}
