package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/jmoiron/sqlx"
)

// ErrInvalidForm is returned when a form is missing its key fields.
var ErrInvalidForm = errors.New("invalid form")

const (
	maxBusyRetries = 3
	busyRetryDelay = 50 * time.Millisecond
)

// Store defines the persistence operations for saved forms.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertForm inserts a form or replaces the one with the same (chat, name).
	UpsertForm(ctx context.Context, form *Form) error

	// GetForm returns the named form of a chat. Returns nil, nil if not found.
	GetForm(ctx context.Context, chatID int64, name string) (*Form, error)

	// ListFormNames returns the form names of a chat in creation order.
	ListFormNames(ctx context.Context, chatID int64) ([]string, error)

	// DeleteForm removes the named form. Deleting a missing form is not an error.
	DeleteForm(ctx context.Context, chatID int64, name string) error

	// RunSQLMaintenance optimizes and vacuums the database.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db       *sqlx.DB
	validate *validator.Validate
	logger   *slog.Logger
}

// NewStore creates a Store backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:       db,
		validate: newFormValidator(),
		logger:   logger.With("component", "store"),
	}
}

func newFormValidator() *validator.Validate {
	v := validator.New()
	// Registering a built-in func under a fresh tag cannot fail.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) UpsertForm(ctx context.Context, form *Form) error {
	if form == nil {
		return fmt.Errorf("%w: nil form", ErrInvalidForm)
	}
	if err := s.validate.Struct(form); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}

	now := time.Now().UTC()
	if form.CreatedAt.IsZero() {
		form.CreatedAt = now
	}
	form.UpdatedAt = now

	// created_at is kept from the first insert so list order stays stable.
	query := `
		INSERT INTO forms (chat_id, name, relation, occasion, age, hobbies, budget, created_at, updated_at)
		VALUES (:chat_id, :name, :relation, :occasion, :age, :hobbies, :budget, :created_at, :updated_at)
		ON CONFLICT(chat_id, name) DO UPDATE SET
			relation = excluded.relation,
			occasion = excluded.occasion,
			age = excluded.age,
			hobbies = excluded.hobbies,
			budget = excluded.budget,
			updated_at = excluded.updated_at`

	err := withBusyRetry(ctx, func() error {
		_, execErr := s.db.NamedExecContext(ctx, query, form)
		return execErr
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to upsert form", "chat_id", form.ChatID, "name", form.Name, "error", err)
		return fmt.Errorf("failed to upsert form: %w", err)
	}

	s.logger.DebugContext(ctx, "Form saved", "chat_id", form.ChatID, "name", form.Name)
	return nil
}

func (s *sqlxStore) GetForm(ctx context.Context, chatID int64, name string) (*Form, error) {
	var form Form
	query := `
		SELECT chat_id, name, relation, occasion, age, hobbies, budget, created_at, updated_at
		FROM forms
		WHERE chat_id = ? AND name = ?`

	err := withBusyRetry(ctx, func() error {
		return s.db.GetContext(ctx, &form, query, chatID, name)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "Failed to get form", "chat_id", chatID, "name", name, "error", err)
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	return &form, nil
}

func (s *sqlxStore) ListFormNames(ctx context.Context, chatID int64) ([]string, error) {
	var names []string
	query := `SELECT name FROM forms WHERE chat_id = ? ORDER BY created_at, name`

	err := withBusyRetry(ctx, func() error {
		names = names[:0]
		return s.db.SelectContext(ctx, &names, query, chatID)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list forms", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	return names, nil
}

func (s *sqlxStore) DeleteForm(ctx context.Context, chatID int64, name string) error {
	var affected int64
	err := withBusyRetry(ctx, func() error {
		res, execErr := s.db.ExecContext(ctx, `DELETE FROM forms WHERE chat_id = ? AND name = ?`, chatID, name)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete form", "chat_id", chatID, "name", name, "error", err)
		return fmt.Errorf("failed to delete form: %w", err)
	}

	s.logger.DebugContext(ctx, "Form deleted", "chat_id", chatID, "name", name, "rows_affected", affected)
	return nil
}

// RunSQLMaintenance runs PRAGMA optimize followed by VACUUM.
// VACUUM cannot run inside a transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context done before starting maintenance", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance")
	startTime := time.Now()

	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
		s.logger.ErrorContext(ctx, "Failed to run PRAGMA optimize", "error", err)
		return fmt.Errorf("failed to optimize database: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Failed to run VACUUM", "error", err)
		return fmt.Errorf("failed to vacuum database: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed", "duration", time.Since(startTime))
	return nil
}

// withBusyRetry retries fn while SQLite reports lock contention.
func withBusyRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= maxBusyRetries; attempt++ {
		err = fn()
		if !isSQLiteConflictError(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(busyRetryDelay * time.Duration(attempt+1)):
		}
	}
	return err
}

func isSQLiteConflictError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
