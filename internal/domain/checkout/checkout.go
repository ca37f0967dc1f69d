package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/dialog"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/ledger"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/pricing"
)

// ErrAppendFailed — цена посчитана, но строка продажи не записалась.
// Черновик не трогается: повторный ввод количества повторяет запись.
var ErrAppendFailed = errors.New("запись продажи не удалась")

type Resolver interface {
	Resolve(ctx context.Context, q pricing.Query) (pricing.Quote, error)
}

type Book interface {
	AppendSale(ctx context.Context, row ledger.SaleRow) error
}

type Drafts interface {
	Reset(ctx context.Context, userID int64) error
}

// Service завершает продажу: цена, итог, строка в книге, сброс черновика.
type Service struct {
	prices Resolver
	book   Book
	drafts Drafts
	loc    *time.Location
	log    *slog.Logger
	now    func() time.Time
}

func New(prices Resolver, book Book, drafts Drafts, loc *time.Location, log *slog.Logger) *Service {
	return &Service{prices: prices, book: book, drafts: drafts, loc: loc, log: log, now: time.Now}
}

// Result — итог завершённой продажи. PriceMiss — позиции нет в прайсе,
// записана нулевая цена.
type Result struct {
	Row       ledger.SaleRow
	PriceMiss bool
}

// Finalize считает цену в момент записи (прайс мог смениться с начала
// анкеты), добавляет строку продажи и удаляет черновик. При любой ошибке
// черновик остаётся нетронутым.
func (s *Service) Finalize(ctx context.Context, d *dialog.Draft, qty int) (Result, error) {
	quote, err := s.prices.Resolve(ctx, pricing.Query{
		ProductType: deref(d.ProductType),
		Width:       deref(d.Width),
		Size:        deref(d.Size),
		Length:      deref(d.Length),
		ColorType:   deref(d.ColorType),
		Color:       deref(d.Color),
	})
	if err != nil {
		return Result{}, err
	}
	if quote.Tier == pricing.TierNotFound {
		s.log.Warn("цена не найдена, пишем ноль",
			"product_type", deref(d.ProductType), "color", deref(d.Color))
	}

	row := ledger.SaleRow{
		Channel:       deref(d.Channel),
		ProductType:   deref(d.ProductType),
		Width:         deref(d.Width),
		Size:          deref(d.Size),
		Length:        deref(d.Length),
		ColorType:     deref(d.ColorType),
		Color:         deref(d.Color),
		Quantity:      qty,
		UnitPrice:     quote.Price,
		Total:         float64(qty) * quote.Price,
		PaymentMethod: deref(d.PaymentMethod),
		Date:          s.now().In(s.loc),
	}

	if err := s.book.AppendSale(ctx, row); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrAppendFailed, err)
	}

	// строка уже записана — ошибку сброса не возвращаем, только логируем
	if err := s.drafts.Reset(ctx, d.UserID); err != nil {
		s.log.Warn("сброс черновика не удался", "err", err, "user_id", d.UserID)
	}
	return Result{Row: row, PriceMiss: quote.Tier == pricing.TierNotFound}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
