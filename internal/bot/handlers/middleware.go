// Package handlers contains the Telegram update handlers, their
// registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AnswerCallbackQuery acknowledges every callback query before the wrapped
// handler runs, so the button spinner stops even when the reply is slow.
func AnswerCallbackQuery(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.CallbackQuery != nil {
				_, err := bot.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
					CallbackQueryID: update.CallbackQuery.ID,
				})
				if err != nil {
					deps.Logger.With("middleware", "AnswerCallbackQuery").WarnContext(ctx,
						"Failed to answer callback query", "error", err, "callback_query_id", update.CallbackQuery.ID)
				}
			}

			next(ctx, bot, update)
		}
	}
}
