package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	defaultAnalysisDays = 30
	weekAnalysisDays    = 7

	// The ring API serves roughly a year of history; longer analysis
	// windows still use whatever is already stored locally.
	maxOuraFetchDays = 365
)

// NewAnalyzeHandler returns a handler for /analyze [days].
func NewAnalyzeHandler(deps HandlerDeps) bot.HandlerFunc {
	h := analyzeHandler{deps}
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		daysBack := defaultAnalysisDays
		if arg := commandArg(update.Message.Text); arg != "" {
			n, err := strconv.Atoi(arg)
			if err != nil || n <= 0 {
				sendText(ctx, b, deps.Logger, update.Message.Chat.ID, "Usage: /analyze [days]")
				return
			}
			daysBack = n
		}
		h.run(ctx, b, update.Message.Chat.ID, daysBack)
	}
}

// NewAnalyzeWeekHandler returns a handler for /analyze_week.
func NewAnalyzeWeekHandler(deps HandlerDeps) bot.HandlerFunc {
	h := analyzeHandler{deps}
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		h.run(ctx, b, update.Message.Chat.ID, weekAnalysisDays)
	}
}

// NewAnalyzeAllHandler returns a handler for /analyze_all, which covers
// everything back to the earliest stored data point.
func NewAnalyzeAllHandler(deps HandlerDeps) bot.HandlerFunc {
	h := analyzeHandler{deps}
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "analyze_all")
		if update.Message == nil {
			return
		}
		chatID := update.Message.Chat.ID

		daysBack := maxOuraFetchDays
		stats, err := deps.Store.GetStats(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Failed to load stats for analyze_all", "error", err)
		} else if stats.EarliestDate.Valid {
			earliest, err := time.Parse(time.DateOnly, stats.EarliestDate.String)
			if err == nil {
				daysBack = int(time.Now().In(deps.location()).Sub(earliest).Hours()/24) + 1
			}
		}

		h.run(ctx, b, chatID, daysBack)
	}
}

type analyzeHandler struct {
	deps HandlerDeps
}

// run refreshes biometrics over the window, then produces and delivers the
// report. A failed Oura refresh degrades to analyzing the stored data.
func (h analyzeHandler) run(ctx context.Context, b *bot.Bot, chatID int64, daysBack int) {
	log := h.deps.Logger.With("handler", "analyze")

	fetchDays := daysBack
	if fetchDays > maxOuraFetchDays {
		fetchDays = maxOuraFetchDays
	}
	now := time.Now().In(h.deps.location())
	end := now.Format(time.DateOnly)
	start := now.AddDate(0, 0, -fetchDays).Format(time.DateOnly)

	sendText(ctx, b, log, chatID, fmt.Sprintf("Fetching Oura data for %d days...", fetchDays))

	count, err := h.deps.Oura.Backfill(ctx, start, end)
	if err != nil {
		log.WarnContext(ctx, "Oura refresh failed before analysis", "error", err)
		sendText(ctx, b, log, chatID, fmt.Sprintf("Oura fetch failed (%v), analyzing with existing data...", err))
	} else {
		sendText(ctx, b, log, chatID, fmt.Sprintf("Oura: %d days fetched. Running analysis...", count))
	}

	result, err := h.deps.Analyzer.Run(ctx, daysBack)
	if err != nil {
		log.ErrorContext(ctx, "Analysis failed", "days_back", daysBack, "error", err)
		sendText(ctx, b, log, chatID, fmt.Sprintf("Error running analysis: %v", err))
		return
	}

	sendLong(ctx, b, log, chatID, result)
}
