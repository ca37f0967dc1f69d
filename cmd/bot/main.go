package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/bot"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/config"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/dialog"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/checkout"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/ledger"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/pricing"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/refdata"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/infra/db"
	httpx "github.com/Tunterissimo/avanturist-dog-sales-bot/internal/infra/http"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/infra/logger"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/infra/sheets"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func runMigrations(dsn string, log *slog.Logger) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error("bad timezone, falling back to UTC", "tz", cfg.App.Timezone, "err", err)
		loc = time.UTC
	}

	if err := runMigrations(cfg.Postgres.DSN, log); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	sheetsClient, err := sheets.New(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID)
	if err != nil {
		log.Error("sheets client failed", "err", err)
		return
	}

	loader := refdata.NewLoader(sheetsClient, refdata.SheetNames{
		Channels:          cfg.Sheets.Channels,
		Payments:          cfg.Sheets.Payments,
		ExpenseCategories: cfg.Sheets.ExpenseCategories,
		Reference:         cfg.Sheets.Reference,
	}, log)
	refCache := refdata.NewCache(loader, time.Duration(cfg.Cache.TTLSeconds)*time.Second)

	resolver := pricing.NewResolver(sheetsClient, cfg.Sheets.Prices, log)
	book := ledger.NewBook(sheetsClient, cfg.Sheets.Sales, cfg.Sheets.Expenses, loc, log)
	statesRepo := dialog.NewRepo(pool)
	checkoutSvc := checkout.New(resolver, book, statesRepo, loc, log)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("telegram authorized", "bot", api.Self.UserName)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	tgBot := bot.New(api, log, statesRepo, refCache, checkoutSvc, book, cfg.Telegram.AdminChatID, loc)
	go func() {
		if err := tgBot.Run(ctx, 30); err != nil && ctx.Err() == nil {
			log.Error("bot stopped", "err", err)
		}
	}()
	log.Info("bot started")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
