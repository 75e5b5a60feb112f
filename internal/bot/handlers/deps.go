package handlers

import (
	"context"
	"log/slog"

	"github.com/edgard/giftbot/internal/config"
	"github.com/edgard/giftbot/internal/dialogue"
)

// Dialogue answers chat events.
type Dialogue interface {
	Handle(ctx context.Context, ev dialogue.Event) (*dialogue.Response, error)
}

// HandlerDeps provides dependencies for Telegram update handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Dialogue Dialogue
}
