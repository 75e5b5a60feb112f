package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents an update handler with its match rule and middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllHandlers returns the explicitly registered handlers. Text
// messages, commands included, go through the default handler instead, see
// NewUpdateHandler.
func RegisterAllHandlers(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["callback_query"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "",
		Handler:     NewUpdateHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
		Middleware:  []tgbot.Middleware{AnswerCallbackQuery(deps)},
	}

	return handlers
}
