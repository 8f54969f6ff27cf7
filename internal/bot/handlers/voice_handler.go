package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/healthbot/internal/database"
)

// NewVoiceHandler returns a handler that transcribes voice notes and stores
// the text under the pinned date, or today when none is pinned.
func NewVoiceHandler(deps HandlerDeps) bot.HandlerFunc {
	return voiceHandler{deps}.Handle
}

type voiceHandler struct {
	deps HandlerDeps
}

func (h voiceHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "voice")
	if update.Message == nil || update.Message.Voice == nil {
		return
	}
	chatID := update.Message.Chat.ID
	voice := update.Message.Voice

	sendText(ctx, b, log, chatID, "Transcribing...")

	audio, err := h.download(ctx, b, voice.FileID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to download voice note", "chat_id", chatID, "error", err)
		sendError(ctx, b, log, chatID, err)
		return
	}
	defer audio.Close()

	text, err := h.deps.Transcriber.Transcribe(ctx, audio, "voice.ogg")
	if err != nil {
		log.ErrorContext(ctx, "Transcription failed", "chat_id", chatID, "error", err)
		sendText(ctx, b, log, chatID, fmt.Sprintf("Error transcribing: %v", err))
		return
	}

	day := h.deps.Sessions.TakePinnedDate(chatID)
	if day == "" {
		day = h.deps.today()
	}

	transcript := &database.Transcript{
		Date:      day,
		RawText:   text,
		DurationS: nullFloatFromInt(voice.Duration),
		FileID:    nullStringValue(voice.FileID),
	}
	if err := h.deps.Store.SaveTranscript(ctx, transcript); err != nil {
		log.ErrorContext(ctx, "Failed to save transcript", "chat_id", chatID, "day", day, "error", err)
		sendError(ctx, b, log, chatID, err)
		return
	}

	log.InfoContext(ctx, "Voice note saved", "chat_id", chatID, "day", day, "duration_s", voice.Duration)
	sendText(ctx, b, log, chatID, fmt.Sprintf("Saved for %s (%ds, %d words):\n\n%s",
		day, voice.Duration, len(strings.Fields(text)), preview(text, 500)))
}

// download fetches the voice note bytes from the Telegram file API.
func (h voiceHandler) download(ctx context.Context, b *bot.Bot, fileID string) (io.ReadCloser, error) {
	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve voice file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.FileDownloadLink(file), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download voice file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("voice file download returned %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func preview(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
