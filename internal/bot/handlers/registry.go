package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a handler with its registration metadata.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all bot handlers,
// keyed by a human-readable name for logging.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	command := func(pattern string, handler tgbot.HandlerFunc) RegisteredHandler {
		return RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Handler:     handler,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
		}
	}

	handlers["/start"] = command("start", NewStartHandler(deps))
	handlers["/help"] = command("help", NewHelpHandler(deps))
	handlers["/status"] = command("status", NewStatusHandler(deps))
	handlers["/date"] = command("date", NewDateHandler(deps))
	handlers["/yesterday"] = command("yesterday", NewYesterdayHandler(deps))
	handlers["/checklist"] = command("checklist", NewChecklistHandler(deps))
	handlers["/cancel"] = command("cancel", NewCancelHandler(deps))
	handlers["/oura"] = command("oura", NewOuraPullHandler(deps))
	handlers["/backfill"] = command("backfill", NewBackfillHandler(deps))
	handlers["/analyze"] = command("analyze", NewAnalyzeHandler(deps))
	handlers["/analyze_week"] = command("analyze_week", NewAnalyzeWeekHandler(deps))
	handlers["/analyze_all"] = command("analyze_all", NewAnalyzeAllHandler(deps))

	handlers["checklist_buttons"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     CallbackPrefix,
		Handler:     NewChecklistCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return handlers
}
