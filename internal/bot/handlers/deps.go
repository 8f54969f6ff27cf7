package handlers

import (
	"log/slog"
	"time"

	"github.com/edgard/healthbot/internal/analysis"
	"github.com/edgard/healthbot/internal/checklist"
	"github.com/edgard/healthbot/internal/config"
	"github.com/edgard/healthbot/internal/database"
	"github.com/edgard/healthbot/internal/oura"
	"github.com/edgard/healthbot/internal/transcribe"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger      *slog.Logger
	Config      *config.Config
	Store       database.Store
	Engine      *checklist.Engine
	Sessions    *Sessions
	Oura        *oura.Client
	Transcriber transcribe.Transcriber
	Analyzer    *analysis.Analyzer
}

// location returns the time zone used for "today" calculations.
func (d HandlerDeps) location() *time.Location {
	return d.Config.Scheduler.Location()
}

// today returns the current local calendar date.
func (d HandlerDeps) today() string {
	return time.Now().In(d.location()).Format(time.DateOnly)
}

// yesterday returns the previous local calendar date.
func (d HandlerDeps) yesterday() string {
	return time.Now().In(d.location()).AddDate(0, 0, -1).Format(time.DateOnly)
}
