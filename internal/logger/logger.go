// Package logger provides structured logging for the gift bot.
// It builds the slog logger and the Telegram update logging middleware.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewLogger creates a slog Logger writing to stdout with the given level.
// Unknown levels fall back to info.
func NewLogger(levelStr string, jsonOutput bool) *slog.Logger {
	return newLogger(os.Stdout, levelStr, jsonOutput)
}

func newLogger(w io.Writer, levelStr string, jsonOutput bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(levelStr)}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Middleware logs every incoming update with its chat, type and handling time.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()
			entry := log.With(updateAttrs(update)...)

			entry.DebugContext(ctx, "Processing update")
			next(ctx, b, update)
			entry.InfoContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

func updateAttrs(update *models.Update) []any {
	attrs := []any{"update_id", update.ID}

	switch {
	case update.Message != nil:
		attrs = append(attrs,
			"update_type", "message",
			"chat_id", update.Message.Chat.ID,
			"message_id", update.Message.ID,
			"text_preview", truncate(update.Message.Text, 50),
		)
		if update.Message.From != nil {
			attrs = append(attrs, "user_id", update.Message.From.ID)
		}
	case update.CallbackQuery != nil:
		attrs = append(attrs,
			"update_type", "callback_query",
			"callback_query_id", update.CallbackQuery.ID,
			"user_id", update.CallbackQuery.From.ID,
			"data", update.CallbackQuery.Data,
		)
		if msg := update.CallbackQuery.Message.Message; msg != nil {
			attrs = append(attrs, "chat_id", msg.Chat.ID)
		} else if inaccessible := update.CallbackQuery.Message.InaccessibleMessage; inaccessible != nil {
			attrs = append(attrs, "chat_id", inaccessible.Chat.ID)
		}
	default:
		attrs = append(attrs, "update_type", "other")
	}
	return attrs
}

func truncate(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return "..."
	}
	return string(r[:maxRunes-3]) + "..."
}
