package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "Прив...", truncate("Привет, мир", 7))
	assert.Equal(t, "...", truncate("abcdef", 2))
}

func TestMiddleware_LogsMessageUpdate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newLogger(&buf, "debug", false)

	called := false
	handler := Middleware(log)(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		called = true
	})

	handler(context.Background(), nil, &models.Update{
		ID: 7,
		Message: &models.Message{
			ID:   3,
			Chat: models.Chat{ID: 42},
			From: &models.User{ID: 99},
			Text: "/start",
		},
	})

	assert.True(t, called)
	out := buf.String()
	assert.Contains(t, out, "update_type=message")
	assert.Contains(t, out, "chat_id=42")
	assert.Contains(t, out, "user_id=99")
	assert.Equal(t, 2, strings.Count(out, "update_id=7"))
}

func TestMiddleware_LogsCallbackUpdate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newLogger(&buf, "info", true)

	handler := Middleware(log)(func(context.Context, *bot.Bot, *models.Update) {})
	handler(context.Background(), nil, &models.Update{
		ID: 8,
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb-1",
			From: models.User{ID: 5},
			Data: "form:Мама",
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{Chat: models.Chat{ID: 77}},
			},
		},
	})

	out := buf.String()
	assert.Contains(t, out, `"update_type":"callback_query"`)
	assert.Contains(t, out, `"chat_id":77`)
	assert.Contains(t, out, `"data":"form:Мама"`)
}
