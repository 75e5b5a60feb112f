package handlers

import (
	"github.com/go-telegram/bot/models"

	"github.com/edgard/giftbot/internal/config"
	"github.com/edgard/giftbot/internal/dialogue"
)

const (
	labelEdit          = "✏️ Отредактировать"
	labelDelete        = "🗑 Удалить"
	labelIdea          = "🎁 Сгенерировать идею"
	labelBack          = "⬅️ Назад"
	labelConfirmDelete = "Да, удалить"
	labelCancel        = "Отмена"
	labelToList        = "📋 К анкетам"

	editButtonsPerRow = 3
)

// renderKeyboard turns a keyboard descriptor into Telegram markup. The main
// menu is a reply keyboard; every other kind is an inline keyboard.
func renderKeyboard(kb dialogue.Keyboard, msgs config.MessagesConfig) models.ReplyMarkup {
	switch kb.Kind {
	case dialogue.KeyboardMainMenu:
		return &models.ReplyKeyboardMarkup{
			Keyboard: [][]models.KeyboardButton{{
				{Text: msgs.ButtonHelp},
				{Text: msgs.ButtonForms},
				{Text: msgs.ButtonCreate},
			}},
			ResizeKeyboard: true,
		}

	case dialogue.KeyboardFormList:
		rows := make([][]models.InlineKeyboardButton, 0, len(kb.FormNames))
		for _, name := range kb.FormNames {
			rows = append(rows, []models.InlineKeyboardButton{
				button(name, dialogue.Callback{Kind: dialogue.CallbackFormOpen, FormName: name}),
			})
		}
		return inline(rows...)

	case dialogue.KeyboardFormActions:
		return inline(
			[]models.InlineKeyboardButton{
				button(labelEdit, dialogue.Callback{Kind: dialogue.CallbackEditSelect, FormName: kb.FormName}),
				button(labelDelete, dialogue.Callback{Kind: dialogue.CallbackDeleteAsk, FormName: kb.FormName}),
			},
			[]models.InlineKeyboardButton{
				button(labelIdea, dialogue.Callback{Kind: dialogue.CallbackIdeaRequest, FormName: kb.FormName}),
			},
			[]models.InlineKeyboardButton{
				button(labelToList, dialogue.Callback{Kind: dialogue.CallbackListForms}),
			},
		)

	case dialogue.KeyboardEditMenu:
		var rows [][]models.InlineKeyboardButton
		var row []models.InlineKeyboardButton
		for _, field := range dialogue.EditableFields {
			row = append(row, button(dialogue.FieldLabel(field),
				dialogue.Callback{Kind: dialogue.CallbackEditField, FormName: kb.FormName, Field: field}))
			if len(row) == editButtonsPerRow {
				rows = append(rows, row)
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
		rows = append(rows, []models.InlineKeyboardButton{
			button(labelBack, dialogue.Callback{Kind: dialogue.CallbackFormOpen, FormName: kb.FormName}),
		})
		return inline(rows...)

	case dialogue.KeyboardConfirmDelete:
		return inline([]models.InlineKeyboardButton{
			button(labelConfirmDelete, dialogue.Callback{Kind: dialogue.CallbackDeleteConfirm, FormName: kb.FormName}),
			button(labelCancel, dialogue.Callback{Kind: dialogue.CallbackFormOpen, FormName: kb.FormName}),
		})

	case dialogue.KeyboardBackToList:
		return inline([]models.InlineKeyboardButton{
			button(labelToList, dialogue.Callback{Kind: dialogue.CallbackListForms}),
		})

	default:
		return nil
	}
}

func button(text string, cb dialogue.Callback) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, CallbackData: cb.Encode()}
}

func inline(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
