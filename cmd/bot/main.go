// Package main contains the entrypoint for the healthbot Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/healthbot/internal/analysis"
	"github.com/edgard/healthbot/internal/bot"
	"github.com/edgard/healthbot/internal/bot/handlers"
	"github.com/edgard/healthbot/internal/bot/tasks"
	"github.com/edgard/healthbot/internal/checklist"
	"github.com/edgard/healthbot/internal/config"
	"github.com/edgard/healthbot/internal/database"
	"github.com/edgard/healthbot/internal/gemini"
	"github.com/edgard/healthbot/internal/logger"
	"github.com/edgard/healthbot/internal/oura"
	"github.com/edgard/healthbot/internal/telegram"
	"github.com/edgard/healthbot/internal/transcribe"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires all components together, starts the bot, and returns an exit
// code after shutdown.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	loc := cfg.Scheduler.Location()
	ouraClient := oura.NewClient(cfg.Oura, store, log)
	transcriber := transcribe.NewClient(cfg.OpenAI, log)
	analyzer := analysis.NewAnalyzer(store, gemClient, cfg.Gemini.ModelName, loc, log)

	checklistStore := handlers.NewChecklistStore(store)
	engine := checklist.NewEngine(checklistStore, checklistStore, log)

	hDeps := handlers.HandlerDeps{
		Logger:      log,
		Config:      cfg,
		Store:       store,
		Engine:      engine,
		Sessions:    handlers.NewSessions(),
		Oura:        ouraClient,
		Transcriber: transcriber,
		Analyzer:    analyzer,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log), handlers.AllowedUserOnly(hDeps)),
		tgbot.WithDefaultHandler(handlers.NewDefaultHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	tDeps := tasks.TaskDeps{
		Logger: log,
		Config: cfg,
		Store:  store,
		Oura:   ouraClient,
		Bot:    tg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, db, store, tg, sched)

	log.Info("Starting bot")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully")
	time.Sleep(time.Second)
	return 0
}
