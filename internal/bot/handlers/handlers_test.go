package handlers

import (
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/giftbot/internal/config"
	"github.com/edgard/giftbot/internal/dialogue"
)

func TestRenderKeyboard_MainMenu(t *testing.T) {
	t.Parallel()

	markup := renderKeyboard(dialogue.Keyboard{Kind: dialogue.KeyboardMainMenu}, config.DefaultMessages)
	reply, ok := markup.(*models.ReplyKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, reply.Keyboard, 1)

	var labels []string
	for _, b := range reply.Keyboard[0] {
		labels = append(labels, b.Text)
	}
	assert.Equal(t, []string{config.DefaultMessages.ButtonHelp, config.DefaultMessages.ButtonForms, config.DefaultMessages.ButtonCreate}, labels)
	assert.True(t, reply.ResizeKeyboard)
}

func TestRenderKeyboard_None(t *testing.T) {
	t.Parallel()

	assert.Nil(t, renderKeyboard(dialogue.Keyboard{}, config.DefaultMessages))
}

func inlinePayloads(t *testing.T, markup models.ReplyMarkup) [][]string {
	t.Helper()

	kb, ok := markup.(*models.InlineKeyboardMarkup)
	require.True(t, ok, "expected inline keyboard, got %T", markup)

	var rows [][]string
	for _, row := range kb.InlineKeyboard {
		var payloads []string
		for _, b := range row {
			payloads = append(payloads, b.CallbackData)
		}
		rows = append(rows, payloads)
	}
	return rows
}

func TestRenderKeyboard_Inline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kb   dialogue.Keyboard
		want [][]string
	}{
		{
			name: "form list",
			kb:   dialogue.Keyboard{Kind: dialogue.KeyboardFormList, FormNames: []string{"Мама", "Папа"}},
			want: [][]string{{"form:Мама"}, {"form:Папа"}},
		},
		{
			name: "form actions",
			kb:   dialogue.Keyboard{Kind: dialogue.KeyboardFormActions, FormName: "Мама"},
			want: [][]string{{"edit:Мама", "delete:Мама"}, {"idea:Мама"}, {"forms:list"}},
		},
		{
			name: "edit menu",
			kb:   dialogue.Keyboard{Kind: dialogue.KeyboardEditMenu, FormName: "Мама"},
			want: [][]string{
				{"editfield:Мама:relation", "editfield:Мама:occasion", "editfield:Мама:age"},
				{"editfield:Мама:hobbies", "editfield:Мама:budget"},
				{"form:Мама"},
			},
		},
		{
			name: "confirm delete",
			kb:   dialogue.Keyboard{Kind: dialogue.KeyboardConfirmDelete, FormName: "Мама"},
			want: [][]string{{"deleteok:Мама", "form:Мама"}},
		},
		{
			name: "back to list",
			kb:   dialogue.Keyboard{Kind: dialogue.KeyboardBackToList},
			want: [][]string{{"forms:list"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := inlinePayloads(t, renderKeyboard(tt.kb, config.DefaultMessages))
			assert.Equal(t, tt.want, got)

			for _, row := range got {
				for _, payload := range row {
					_, ok := dialogue.ParseCallback(payload)
					assert.True(t, ok, "payload %q must round-trip", payload)
				}
			}
		})
	}
}

func TestEventFromUpdate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		update *models.Update
		want   dialogue.Event
		ok     bool
	}{
		{
			name:   "text message",
			update: &models.Update{Message: &models.Message{Chat: models.Chat{ID: 10}, Text: "/start"}},
			want:   dialogue.Event{ChatID: 10, Text: "/start"},
			ok:     true,
		},
		{
			name:   "message without text",
			update: &models.Update{Message: &models.Message{Chat: models.Chat{ID: 10}}},
		},
		{
			name: "callback with message",
			update: &models.Update{CallbackQuery: &models.CallbackQuery{
				From:    models.User{ID: 5},
				Data:    "form:Мама",
				Message: models.MaybeInaccessibleMessage{Message: &models.Message{Chat: models.Chat{ID: 20}}},
			}},
			want: dialogue.Event{ChatID: 20, Callback: "form:Мама"},
			ok:   true,
		},
		{
			name: "callback with inaccessible message",
			update: &models.Update{CallbackQuery: &models.CallbackQuery{
				From:    models.User{ID: 5},
				Data:    "forms:list",
				Message: models.MaybeInaccessibleMessage{InaccessibleMessage: &models.InaccessibleMessage{Chat: models.Chat{ID: 30}}},
			}},
			want: dialogue.Event{ChatID: 30, Callback: "forms:list"},
			ok:   true,
		},
		{
			name: "callback without message falls back to user",
			update: &models.Update{CallbackQuery: &models.CallbackQuery{
				From: models.User{ID: 5},
				Data: "forms:list",
			}},
			want: dialogue.Event{ChatID: 5, Callback: "forms:list"},
			ok:   true,
		},
		{
			name:   "other update",
			update: &models.Update{EditedMessage: &models.Message{Text: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := eventFromUpdate(tt.update)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"short"}, splitText("short", 10))

	chunks := splitText(strings.Repeat("я", 25), 10)
	assert.Equal(t, []string{strings.Repeat("я", 10), strings.Repeat("я", 10), strings.Repeat("я", 5)}, chunks)

	chunks = splitText("line one\nline two\nend", 12)
	assert.Equal(t, []string{"line one\n", "line two\nend"}, chunks)

	long := strings.Repeat("x", maxMessageRunes+1)
	chunks = splitText(long, maxMessageRunes)
	require.Len(t, chunks, 2)
	assert.Equal(t, long, strings.Join(chunks, ""))
}
