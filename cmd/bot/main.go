// Package main contains the entrypoint for the gift bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/giftbot/internal/bot"
	"github.com/edgard/giftbot/internal/bot/handlers"
	"github.com/edgard/giftbot/internal/bot/tasks"
	"github.com/edgard/giftbot/internal/config"
	"github.com/edgard/giftbot/internal/database"
	"github.com/edgard/giftbot/internal/dialogue"
	"github.com/edgard/giftbot/internal/ideas"
	"github.com/edgard/giftbot/internal/logger"
	"github.com/edgard/giftbot/internal/session"
	"github.com/edgard/giftbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires config, logger, database, sessions, idea generator, dialogue
// engine, Telegram bot and scheduler, then blocks until shutdown.
// It returns the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)
	if err := store.Ping(ctx); err != nil {
		log.Error("Database is not reachable", "path", cfg.Database.Path, "error", err)
		return 1
	}

	generator, err := ideas.NewGenerator(ctx, cfg.AI, log)
	if err != nil {
		log.Error("Failed to initialize idea generator", "provider", cfg.AI.Provider, "error", err)
		return 1
	}

	sessions := session.NewStore(cfg.Session.TTL)
	engine := dialogue.NewEngine(dialogue.Options{
		Messages:  cfg.Messages,
		Forms:     store,
		Ideas:     generator,
		Sessions:  sessions,
		AITimeout: cfg.AI.Timeout,
		Logger:    log,
	})

	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Dialogue: engine,
	}
	tDeps := tasks.TaskDeps{
		Logger:   log,
		Store:    store,
		Sessions: sessions,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewUpdateHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllHandlers(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}
	if err := telegram.SetCommands(ctx, tg, cfg.Commands); err != nil {
		log.Warn("Failed to publish bot commands", "error", err)
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
