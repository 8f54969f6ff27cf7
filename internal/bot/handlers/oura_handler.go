package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/healthbot/internal/database"
)

// NewOuraPullHandler returns a handler for /oura, which fetches one day of
// biometrics (yesterday by default).
func NewOuraPullHandler(deps HandlerDeps) bot.HandlerFunc {
	return ouraHandler{deps}.HandlePull
}

// NewBackfillHandler returns a handler for /backfill START END.
func NewBackfillHandler(deps HandlerDeps) bot.HandlerFunc {
	return ouraHandler{deps}.HandleBackfill
}

type ouraHandler struct {
	deps HandlerDeps
}

func (h ouraHandler) HandlePull(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "oura_pull")
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	day := commandArg(update.Message.Text)
	if day == "" {
		day = h.deps.yesterday()
	} else if _, err := time.Parse(time.DateOnly, day); err != nil {
		sendText(ctx, b, log, chatID, fmt.Sprintf("%q is not a valid date, expected YYYY-MM-DD.", day))
		return
	}

	sendText(ctx, b, log, chatID, fmt.Sprintf("Fetching Oura data for %s...", day))

	data, err := h.deps.Oura.FetchAndStore(ctx, day)
	if err != nil {
		log.ErrorContext(ctx, "Oura pull failed", "day", day, "error", err)
		sendError(ctx, b, log, chatID, err)
		return
	}

	sendText(ctx, b, log, chatID, pullSummary(data))
}

func (h ouraHandler) HandleBackfill(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "backfill")
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) < 2 {
		sendText(ctx, b, log, chatID, "Usage: /backfill YYYY-MM-DD YYYY-MM-DD")
		return
	}
	start, end := args[0], args[1]

	sendText(ctx, b, log, chatID, fmt.Sprintf("Backfilling Oura data from %s to %s...", start, end))

	count, err := h.deps.Oura.Backfill(ctx, start, end)
	if err != nil {
		log.ErrorContext(ctx, "Backfill failed", "start", start, "end", end, "error", err)
		sendError(ctx, b, log, chatID, err)
		return
	}

	sendText(ctx, b, log, chatID, fmt.Sprintf("Done. Stored %d days of data.", count))
}

// pullSummary renders the headline numbers from a freshly stored day.
func pullSummary(d *database.OuraDay) string {
	hr := "N/A"
	if d.LowestHeartRate.Valid {
		hr = fmt.Sprintf("%d", d.LowestHeartRate.Int64)
	}
	hrv := "N/A"
	if d.AverageHRV.Valid {
		hrv = fmt.Sprintf("%d", d.AverageHRV.Int64)
	}
	return fmt.Sprintf("Stored: Resting HR %s bpm, HRV %s ms", hr, hrv)
}
