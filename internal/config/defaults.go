package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultDBPath = "forms.db"

	DefaultSessionTTL = 24 * time.Hour

	DefaultAIProvider          = ProviderOpenRouter
	DefaultOpenRouterBaseURL   = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel     = "openai/gpt-4o-mini"
	DefaultGeminiModel         = "gemini-2.0-flash"
	DefaultAITemperature       = 0.9
	DefaultAITimeout           = 60 * time.Second
	DefaultAIReferer           = "https://github.com/edgard/giftbot"
	DefaultAITitle             = "Gift Idea Bot"
	DefaultAISystemInstruction = "Ты помощник, предлагающий креативные идеи подарков. Форматируй красиво и с эмодзи 🎁."

	DefaultSQLMaintenanceSchedule = "0 0 4 * * *"
	DefaultSessionSweepSchedule   = "0 */10 * * * *"
)

// Supported idea providers.
const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// Scheduled task names, shared between the config and the task registry.
const (
	TaskSQLMaintenance = "sql_maintenance"
	TaskSessionSweep   = "session_sweep"
)

// DefaultMessages holds the Russian texts of the original bot.
var DefaultMessages = MessagesConfig{
	Start: "👋 Привет! Я помогу подобрать подарок.\n✏️ Как назовём анкету? Например: Мама.",
	Help: "📖 Команды:\n" +
		"📔 Создать анкету (/createform) — начать новый опрос\n" +
		"📋 Мои анкеты (/forms) — открыть список анкет\n" +
		"/summary — текущие ответы\n" +
		"/ideas — идеи подарков по заполненной анкете\n" +
		"/reset — начать заново\n" +
		"ℹ️ Помощь (/help) — показать это сообщение",
	Reset:      "🔄 Анкета сброшена.\n✏️ Как назовём новую анкету?",
	NamePrompt: "✏️ Введите имя новой анкеты.",

	NameTooLong: "Имя анкеты слишком длинное, попробуйте короче.",

	AskWho:       "Кому предназначен подарок?",
	AskOccasion:  "Повод?",
	AskAge:       "Возраст?",
	AskInterests: "Интересы?",
	AskBudget:    "Бюджет?",

	InvalidAge:    "Введите число для возраста.",
	InvalidBudget: "Введите число для бюджета.",
	Saved:         "✅ Анкета %s сохранена!\nИспользуйте /forms для просмотра.",

	SummaryEmpty:  "Анкета пуста. Наберите /start, чтобы начать.",
	SummaryHeader: "Анкета:",

	FormsEmpty:   "У вас пока нет анкет. Создайте новую через 📔 Создать анкету.",
	FormsHeader:  "📋 Выберите анкету для работы:",
	FormNotFound: "Анкета не найдена.",

	EditMenu:          "✏️ Что хотите изменить в анкете %s?",
	EditPrompt:        "Введите новое значение поля: %s",
	EditInvalidAge:    "Возраст должен быть числом.",
	EditInvalidBudget: "Бюджет должен быть числом.",
	EditDone:          "✅ Обновлено!",

	DeleteConfirm: "⚠️ Удалить анкету %s?",
	Deleted:       "🗑 Анкета %s удалена.",

	IdeaHeader:    "🎁 Идея подарка для %s:\n",
	IdeaFailed:    "❌ Не удалось получить идею. Попробуйте позже.",
	IdeasNotReady: "Сначала заполните анкету до конца. Наберите /start, чтобы начать.",

	Unknown:      "Не понимаю. Используйте /help.",
	GeneralError: "⚠️ Что-то пошло не так. Попробуйте позже.",

	ButtonHelp:   "ℹ️ Помощь",
	ButtonForms:  "📋 Мои анкеты",
	ButtonCreate: "📔 Создать анкету",
}

// DefaultCommands are published to Telegram with SetMyCommands.
var DefaultCommands = []CommandConfig{
	{Command: "start", Description: "Начать новый опрос"},
	{Command: "createform", Description: "Создать анкету"},
	{Command: "forms", Description: "Мои анкеты"},
	{Command: "summary", Description: "Текущие ответы"},
	{Command: "ideas", Description: "Идеи подарков"},
	{Command: "reset", Description: "Начать заново"},
	{Command: "help", Description: "Помощь"},
}
