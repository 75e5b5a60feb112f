// Package config provides configuration loading, validation, and defaults
// for the gift bot. Values come from an optional YAML file, a .env file and
// BOT_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrConfiguration wraps every error returned by LoadConfig.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration for all components.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	AI        AIConfig        `mapstructure:"ai"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Commands  []CommandConfig `mapstructure:"commands" validate:"dive"`
}

// LoggerConfig controls slog output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot credentials.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// AIConfig configures the idea generator. An empty APIKey disables idea
// generation without affecting the survey.
type AIConfig struct {
	Provider          string        `mapstructure:"provider"           validate:"oneof=gemini openrouter"`
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	BaseURL           string        `mapstructure:"base_url"           validate:"omitempty,url"`
	Temperature       float32       `mapstructure:"temperature"        validate:"min=0,max=2"`
	Timeout           time.Duration `mapstructure:"timeout"            validate:"min=1s,max=10m"`
	SystemInstruction string        `mapstructure:"system_instruction" validate:"required"`
	Referer           string        `mapstructure:"referer"`
	Title             string        `mapstructure:"title"`
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SessionConfig controls the in-memory dialogue sessions.
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"min=1m"`
}

// SchedulerConfig lists scheduled tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a task and sets its cron schedule (with seconds).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// CommandConfig describes a command shown in the Telegram command menu.
type CommandConfig struct {
	Command     string `mapstructure:"command"     validate:"required"`
	Description string `mapstructure:"description" validate:"required"`
}

// MessagesConfig holds every user-facing text. Fields ending in a format verb
// are passed through fmt.Sprintf with the form or field name.
type MessagesConfig struct {
	Start      string `mapstructure:"start"       validate:"required"`
	Help       string `mapstructure:"help"        validate:"required"`
	Reset      string `mapstructure:"reset"       validate:"required"`
	NamePrompt string `mapstructure:"name_prompt" validate:"required"`

	NameTooLong string `mapstructure:"name_too_long" validate:"required"`

	AskWho       string `mapstructure:"ask_who"       validate:"required"`
	AskOccasion  string `mapstructure:"ask_occasion"  validate:"required"`
	AskAge       string `mapstructure:"ask_age"       validate:"required"`
	AskInterests string `mapstructure:"ask_interests" validate:"required"`
	AskBudget    string `mapstructure:"ask_budget"    validate:"required"`

	InvalidAge    string `mapstructure:"invalid_age"    validate:"required"`
	InvalidBudget string `mapstructure:"invalid_budget" validate:"required"`
	Saved         string `mapstructure:"saved"          validate:"required"`

	SummaryEmpty  string `mapstructure:"summary_empty"  validate:"required"`
	SummaryHeader string `mapstructure:"summary_header" validate:"required"`

	FormsEmpty   string `mapstructure:"forms_empty"    validate:"required"`
	FormsHeader  string `mapstructure:"forms_header"   validate:"required"`
	FormNotFound string `mapstructure:"form_not_found" validate:"required"`

	EditMenu          string `mapstructure:"edit_menu"           validate:"required"`
	EditPrompt        string `mapstructure:"edit_prompt"         validate:"required"`
	EditInvalidAge    string `mapstructure:"edit_invalid_age"    validate:"required"`
	EditInvalidBudget string `mapstructure:"edit_invalid_budget" validate:"required"`
	EditDone          string `mapstructure:"edit_done"           validate:"required"`

	DeleteConfirm string `mapstructure:"delete_confirm" validate:"required"`
	Deleted       string `mapstructure:"deleted"        validate:"required"`

	IdeaHeader    string `mapstructure:"idea_header"     validate:"required"`
	IdeaFailed    string `mapstructure:"idea_failed"     validate:"required"`
	IdeasNotReady string `mapstructure:"ideas_not_ready" validate:"required"`

	Unknown      string `mapstructure:"unknown"       validate:"required"`
	GeneralError string `mapstructure:"general_error" validate:"required"`

	ButtonHelp   string `mapstructure:"button_help"   validate:"required"`
	ButtonForms  string `mapstructure:"button_forms"  validate:"required"`
	ButtonCreate string `mapstructure:"button_create" validate:"required"`
}

// LoadConfig reads configuration from the given YAML path (optional),
// a .env file in the working directory (optional) and BOT_* environment
// variables, then validates the result.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets have no default, so viper only sees them through explicit bindings.
	// Provider-specific key variables are read in applyProviderDefaults.
	if err := v.BindEnv("telegram.token", "BOT_TELEGRAM_TOKEN", "TOKEN_BOT"); err != nil {
		return nil, fmt.Errorf("%w: bind telegram token: %w", ErrConfiguration, err)
	}
	if err := v.BindEnv("ai.api_key", "BOT_AI_API_KEY"); err != nil {
		return nil, fmt.Errorf("%w: bind ai api key: %w", ErrConfiguration, err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: read %s: %w", ErrConfiguration, path, err)
			}
			slog.Info("Configuration file not found, using defaults and environment", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrConfiguration, err)
	}
	applyProviderDefaults(&cfg.AI)
	if len(cfg.Commands) == 0 {
		cfg.Commands = append([]CommandConfig(nil), DefaultCommands...)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return cfg, nil
}

// providerKeyEnv names the unprefixed API key variable of each provider.
// It is used only when ai.api_key is not set.
var providerKeyEnv = map[string]string{
	ProviderGemini:     "GEMINI_API_KEY",
	ProviderOpenRouter: "OPENROUTER_API_KEY",
}

// applyProviderDefaults fills the API key, model and endpoint values that
// depend on the selected provider.
func applyProviderDefaults(ai *AIConfig) {
	if ai.APIKey == "" {
		if name, ok := providerKeyEnv[ai.Provider]; ok {
			ai.APIKey = os.Getenv(name)
		}
	}

	switch ai.Provider {
	case ProviderGemini:
		if ai.Model == "" {
			ai.Model = DefaultGeminiModel
		}
	case ProviderOpenRouter:
		if ai.Model == "" {
			ai.Model = DefaultOpenRouterModel
		}
		if ai.BaseURL == "" {
			ai.BaseURL = DefaultOpenRouterBaseURL
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", DefaultLogJSON)

	v.SetDefault("ai.provider", DefaultAIProvider)
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.temperature", DefaultAITemperature)
	v.SetDefault("ai.timeout", DefaultAITimeout)
	v.SetDefault("ai.system_instruction", DefaultAISystemInstruction)
	v.SetDefault("ai.referer", DefaultAIReferer)
	v.SetDefault("ai.title", DefaultAITitle)

	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("session.ttl", DefaultSessionTTL)

	v.SetDefault("scheduler.tasks."+TaskSQLMaintenance+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskSQLMaintenance+".schedule", DefaultSQLMaintenanceSchedule)
	v.SetDefault("scheduler.tasks."+TaskSessionSweep+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskSessionSweep+".schedule", DefaultSessionSweepSchedule)

	m := DefaultMessages
	v.SetDefault("messages.start", m.Start)
	v.SetDefault("messages.help", m.Help)
	v.SetDefault("messages.reset", m.Reset)
	v.SetDefault("messages.name_prompt", m.NamePrompt)
	v.SetDefault("messages.name_too_long", m.NameTooLong)
	v.SetDefault("messages.ask_who", m.AskWho)
	v.SetDefault("messages.ask_occasion", m.AskOccasion)
	v.SetDefault("messages.ask_age", m.AskAge)
	v.SetDefault("messages.ask_interests", m.AskInterests)
	v.SetDefault("messages.ask_budget", m.AskBudget)
	v.SetDefault("messages.invalid_age", m.InvalidAge)
	v.SetDefault("messages.invalid_budget", m.InvalidBudget)
	v.SetDefault("messages.saved", m.Saved)
	v.SetDefault("messages.summary_empty", m.SummaryEmpty)
	v.SetDefault("messages.summary_header", m.SummaryHeader)
	v.SetDefault("messages.forms_empty", m.FormsEmpty)
	v.SetDefault("messages.forms_header", m.FormsHeader)
	v.SetDefault("messages.form_not_found", m.FormNotFound)
	v.SetDefault("messages.edit_menu", m.EditMenu)
	v.SetDefault("messages.edit_prompt", m.EditPrompt)
	v.SetDefault("messages.edit_invalid_age", m.EditInvalidAge)
	v.SetDefault("messages.edit_invalid_budget", m.EditInvalidBudget)
	v.SetDefault("messages.edit_done", m.EditDone)
	v.SetDefault("messages.delete_confirm", m.DeleteConfirm)
	v.SetDefault("messages.deleted", m.Deleted)
	v.SetDefault("messages.idea_header", m.IdeaHeader)
	v.SetDefault("messages.idea_failed", m.IdeaFailed)
	v.SetDefault("messages.ideas_not_ready", m.IdeasNotReady)
	v.SetDefault("messages.unknown", m.Unknown)
	v.SetDefault("messages.general_error", m.GeneralError)
	v.SetDefault("messages.button_help", m.ButtonHelp)
	v.SetDefault("messages.button_forms", m.ButtonForms)
	v.SetDefault("messages.button_create", m.ButtonCreate)
}
