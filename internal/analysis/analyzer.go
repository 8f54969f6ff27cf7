// Package analysis runs the LLM correlation report over the collected
// health data.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edgard/healthbot/internal/database"
	"github.com/edgard/healthbot/internal/gemini"
)

// noDataMessage is returned when the reporting window holds nothing to
// analyze.
const noDataMessage = "No data found for this period. Send some voice notes and pull Oura data first."

// Analyzer assembles the analysis prompt, runs it through the model, and
// records the result.
type Analyzer struct {
	store     database.Store
	client    gemini.Client
	modelName string
	loc       *time.Location
	logger    *slog.Logger
}

// NewAnalyzer creates an analyzer. loc fixes the local day boundary used to
// compute the reporting window.
func NewAnalyzer(store database.Store, client gemini.Client, modelName string, loc *time.Location, logger *slog.Logger) *Analyzer {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		store:     store,
		client:    client,
		modelName: modelName,
		loc:       loc,
		logger:    logger.With("component", "analysis"),
	}
}

// Run analyzes the last daysBack days ending today and returns the report
// text. The prompt and response are persisted for later inspection.
func (a *Analyzer) Run(ctx context.Context, daysBack int) (string, error) {
	if daysBack <= 0 {
		return "", fmt.Errorf("days back must be positive, got %d", daysBack)
	}

	now := time.Now().In(a.loc)
	end := now.Format(time.DateOnly)
	start := now.AddDate(0, 0, -daysBack).Format(time.DateOnly)

	transcripts, err := a.store.ListTranscripts(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("failed to load transcripts: %w", err)
	}
	ouraDays, err := a.store.ListOuraDays(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("failed to load oura data: %w", err)
	}
	checklists, err := a.store.ListChecklists(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("failed to load checklists: %w", err)
	}

	if len(transcripts) == 0 && len(ouraDays) == 0 && len(checklists) == 0 {
		return noDataMessage, nil
	}

	prompt := BuildPrompt(transcripts, ouraDays, checklists, daysBack)

	result, err := a.client.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("analysis generation failed: %w", err)
	}

	if err := a.store.SaveAnalysis(ctx, &database.Analysis{
		DaysBack: daysBack,
		Prompt:   prompt,
		Response: result,
		Model:    a.modelName,
	}); err != nil {
		// A failed audit write must not suppress the finished report.
		a.logger.ErrorContext(ctx, "Failed to persist analysis", "error", err)
	}

	a.logger.InfoContext(ctx, "Analysis complete",
		"days_back", daysBack,
		"transcripts", len(transcripts),
		"oura_days", len(ouraDays),
		"checklists", len(checklists))
	return result, nil
}
