package telegram

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"

	"github.com/edgard/giftbot/internal/config"
)

func TestApplyMiddlewareOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	mw := func(name string) bot.Middleware {
		return func(next bot.HandlerFunc) bot.HandlerFunc {
			return func(ctx context.Context, b *bot.Bot, u *models.Update) {
				calls = append(calls, name)
				next(ctx, b, u)
			}
		}
	}

	h := applyMiddleware(func(context.Context, *bot.Bot, *models.Update) {
		calls = append(calls, "handler")
	}, []bot.Middleware{mw("outer"), mw("inner")})
	h(context.Background(), nil, &models.Update{})

	assert.Equal(t, []string{"outer", "inner", "handler"}, calls)
}

func TestBotCommands(t *testing.T) {
	t.Parallel()

	got := botCommands(config.DefaultCommands)
	assert.Len(t, got, len(config.DefaultCommands))
	assert.Equal(t, models.BotCommand{Command: "start", Description: "Начать новый опрос"}, got[0])
}

func TestNewTelegramBot_EmptyToken(t *testing.T) {
	t.Parallel()

	_, err := NewTelegramBot("", nil)
	assert.Error(t, err)
}

func TestTokenPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12345678...", tokenPrefix("12345678:secret"))
	assert.Equal(t, "...", tokenPrefix("short"))
}
