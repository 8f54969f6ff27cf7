package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/healthbot/internal/checklist"
)

// CallbackPrefix marks checklist inline button callbacks.
const CallbackPrefix = "cl:"

// NewChecklistHandler returns a handler for the /checklist command.
func NewChecklistHandler(deps HandlerDeps) bot.HandlerFunc {
	return checklistHandler{deps}.HandleCommand
}

// NewChecklistCallbackHandler returns a handler for checklist button taps.
func NewChecklistCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return checklistHandler{deps}.HandleCallback
}

// NewCancelHandler returns a handler for the /cancel command.
func NewCancelHandler(deps HandlerDeps) bot.HandlerFunc {
	return checklistHandler{deps}.HandleCancel
}

type checklistHandler struct {
	deps HandlerDeps
}

func (h checklistHandler) HandleCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "checklist")
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	day, err := h.targetDay(update.Message.Text)
	if err != nil {
		h.sendText(ctx, b, chatID, err.Error())
		return
	}

	session, reply := h.deps.Engine.Start(day)
	h.deps.Sessions.SetChecklist(chatID, session)

	log.InfoContext(ctx, "Checklist started", "chat_id", chatID, "day", session.Day)
	h.send(ctx, b, chatID, reply)
}

// targetDay resolves the optional /checklist date argument, defaulting to
// the current local day.
func (h checklistHandler) targetDay(text string) (string, error) {
	arg := commandArg(text)
	if arg == "" {
		return h.deps.today(), nil
	}
	if _, err := time.Parse(time.DateOnly, arg); err != nil {
		return "", fmt.Errorf("%q is not a valid date, expected YYYY-MM-DD.", arg)
	}
	return arg, nil
}

func (h checklistHandler) HandleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "checklist_callback")
	cq := update.CallbackQuery
	if cq == nil {
		return
	}

	// Always acknowledge the tap so the client stops its spinner.
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID}); err != nil {
		log.WarnContext(ctx, "Failed to answer callback query", "error", err)
	}

	if cq.Message.Message == nil {
		log.WarnContext(ctx, "Callback without an accessible message", "callback_id", cq.ID)
		return
	}
	chatID := cq.Message.Message.Chat.ID

	session := h.deps.Sessions.Checklist(chatID)
	if session == nil {
		h.sendText(ctx, b, chatID, "No checklist in progress. Tap /checklist to start.")
		return
	}

	token := strings.TrimPrefix(cq.Data, CallbackPrefix)
	h.advance(ctx, b, chatID, session, checklist.ChoiceInput(token))
}

// HandleText feeds a free-text message into the chat's active session. It
// reports whether the message was consumed.
func (h checklistHandler) HandleText(ctx context.Context, b *bot.Bot, chatID int64, text string) bool {
	session := h.deps.Sessions.Checklist(chatID)
	if session == nil {
		return false
	}
	h.advance(ctx, b, chatID, session, checklist.TextInput(text))
	return true
}

func (h checklistHandler) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	session := h.deps.Sessions.Checklist(chatID)
	if session == nil {
		h.sendText(ctx, b, chatID, "Nothing to cancel.")
		return
	}

	reply := h.deps.Engine.Cancel(session)
	h.deps.Sessions.ClearChecklist(chatID)
	h.send(ctx, b, chatID, reply)
}

func (h checklistHandler) advance(ctx context.Context, b *bot.Bot, chatID int64, session *checklist.Session, in checklist.Input) {
	log := h.deps.Logger.With("handler", "checklist")

	reply, done, err := h.deps.Engine.Advance(ctx, session, in)
	if err != nil {
		log.ErrorContext(ctx, "Checklist advance failed", "chat_id", chatID, "day", session.Day, "error", err)
		h.sendText(ctx, b, chatID, "Couldn't save the checklist. Your answers are kept, try again.")
		return
	}
	if done {
		h.deps.Sessions.ClearChecklist(chatID)
	}
	h.send(ctx, b, chatID, reply)
}

// send renders a checklist reply, attaching the choice rows as an inline
// keyboard.
func (h checklistHandler) send(ctx context.Context, b *bot.Bot, chatID int64, reply checklist.Reply) {
	params := &bot.SendMessageParams{ChatID: chatID, Text: reply.Text}
	if len(reply.Options) > 0 {
		params.ReplyMarkup = optionKeyboard(reply.Options)
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send checklist message", "chat_id", chatID, "error", err)
	}
}

func (h checklistHandler) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
	}
}

func optionKeyboard(rows [][]checklist.Option) *models.InlineKeyboardMarkup {
	keyboard := make([][]models.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, opt := range row {
			buttons = append(buttons, models.InlineKeyboardButton{
				Text:         opt.Label,
				CallbackData: CallbackPrefix + opt.Token,
			})
		}
		keyboard = append(keyboard, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}
