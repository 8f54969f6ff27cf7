// Package tasks implements the scheduled background jobs: the daily Oura
// pull, the evening checklist reminder, and database maintenance.
package tasks

import (
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/healthbot/internal/config"
	"github.com/edgard/healthbot/internal/database"
	"github.com/edgard/healthbot/internal/oura"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
	Oura   *oura.Client
	Bot    *tgbot.Bot
}
