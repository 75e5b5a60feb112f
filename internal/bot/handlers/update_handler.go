package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/giftbot/internal/dialogue"
)

// maxMessageRunes is Telegram's limit on message text length.
const maxMessageRunes = 4096

// NewUpdateHandler returns the handler that feeds messages and callback
// queries to the dialogue engine and sends back its response.
func NewUpdateHandler(deps HandlerDeps) bot.HandlerFunc {
	return updateHandler{deps}.Handle
}

type updateHandler struct {
	deps HandlerDeps
}

func (h updateHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "update")

	ev, ok := eventFromUpdate(update)
	if !ok {
		log.DebugContext(ctx, "Ignoring update without text or callback data", "update_id", update.ID)
		return
	}

	if ev.WantsIdeas() {
		_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: ev.ChatID, Action: models.ChatActionTyping})
	}

	resp, err := h.deps.Dialogue.Handle(ctx, ev)
	if err != nil {
		log.ErrorContext(ctx, "Dialogue failed to handle event", "error", err, "chat_id", ev.ChatID)
		h.send(ctx, b, ev.ChatID, h.deps.Config.Messages.GeneralError, nil)
		return
	}
	if resp == nil {
		return
	}

	markup := renderKeyboard(resp.Keyboard, h.deps.Config.Messages)
	chunks := splitText(resp.Text, maxMessageRunes)
	for i, chunk := range chunks {
		var chunkMarkup models.ReplyMarkup
		if i == len(chunks)-1 {
			chunkMarkup = markup
		}
		if !h.send(ctx, b, resp.ChatID, chunk, chunkMarkup) {
			return
		}
	}
}

func (h updateHandler) send(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) bool {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
		return false
	}
	return true
}

// eventFromUpdate extracts the chat and the text or callback payload.
func eventFromUpdate(update *models.Update) (dialogue.Event, bool) {
	switch {
	case update.Message != nil:
		if update.Message.Text == "" {
			return dialogue.Event{}, false
		}
		return dialogue.Event{ChatID: update.Message.Chat.ID, Text: update.Message.Text}, true

	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		if cq.Data == "" {
			return dialogue.Event{}, false
		}
		// Private chats share the user's id.
		chatID := cq.From.ID
		if cq.Message.Message != nil {
			chatID = cq.Message.Message.Chat.ID
		} else if cq.Message.InaccessibleMessage != nil {
			chatID = cq.Message.InaccessibleMessage.Chat.ID
		}
		return dialogue.Event{ChatID: chatID, Callback: cq.Data}, true

	default:
		return dialogue.Event{}, false
	}
}

// splitText cuts text into chunks of at most limit runes, preferring to
// break after a newline in the second half of a chunk.
func splitText(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > limit {
		cut := limit
		for i := limit - 1; i >= limit/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
