// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AllowedUserOnly creates a middleware that drops updates from anyone but
// the configured user. A zero allowed_user_id disables the check, for
// single-tenant deployments behind other controls.
func AllowedUserOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			allowedID := deps.Config.Telegram.AllowedUserID
			if allowedID == 0 {
				next(ctx, b, update)
				return
			}

			var userID int64
			switch {
			case update.Message != nil && update.Message.From != nil:
				userID = update.Message.From.ID
			case update.CallbackQuery != nil:
				userID = update.CallbackQuery.From.ID
			default:
				next(ctx, b, update)
				return
			}

			if userID != allowedID {
				deps.Logger.WarnContext(ctx, "Dropping update from unauthorized user", "user_id", userID)
				return
			}
			next(ctx, b, update)
		}
	}
}
