package bot

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/dialog"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/checkout"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/ledger"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/refdata"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	states    *dialog.Repo
	ref       *refdata.Cache
	checkout  *checkout.Service
	book      *ledger.Book
	adminChat int64
	loc       *time.Location
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, statesRepo *dialog.Repo,
	ref *refdata.Cache, checkoutSvc *checkout.Service, book *ledger.Book,
	adminChatID int64, loc *time.Location) *Bot {

	return &Bot{
		api: api, log: log, states: statesRepo,
		ref: ref, checkout: checkoutSvc, book: book,
		adminChat: adminChatID, loc: loc,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd)
			}
		}
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	b.handleCallback(ctx, upd.CallbackQuery)
}
