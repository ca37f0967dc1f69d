package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB — срез pgxpool.Pool, достаточный для хранилища диалогов.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repo struct {
	db DB
}

func NewRepo(db DB) *Repo { return &Repo{db: db} }

// Get читает состояние диалога; строки нет — диалог в покое. Любая другая
// ошибка чтения возвращается вызывающему: «черновика нет» и «база недоступна»
// — разные ситуации, живой черновик при сбое остаётся в базе нетронутым.
func (r *Repo) Get(ctx context.Context, userID int64) (*Draft, error) {
	row := r.db.QueryRow(ctx, `
		SELECT state, channel, product_type, width, size, length,
		       color_type, color, payment_method, payload, created_at
		FROM dialog_states WHERE user_id = $1
	`, userID)

	d := NewDraft(userID)
	var state string
	var raw []byte
	err := row.Scan(&state, &d.Channel, &d.ProductType, &d.Width, &d.Size,
		&d.Length, &d.ColorType, &d.Color, &d.PaymentMethod, &raw, &d.CreatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return d, nil
	case err != nil:
		return nil, fmt.Errorf("dialog: чтение состояния: %w", err)
	}
	d.State = State(state)
	var p Payload
	_ = json.Unmarshal(raw, &p)
	if p == nil {
		p = Payload{}
	}
	d.Payload = p
	return d, nil
}

// Save записывает диалог целиком (upsert по user_id).
func (r *Repo) Save(ctx context.Context, d *Draft) error {
	raw, _ := json.Marshal(d.Payload)
	_, err := r.db.Exec(ctx, `
		INSERT INTO dialog_states (user_id, state, channel, product_type, width,
			size, length, color_type, color, payment_method, payload, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
		ON CONFLICT (user_id) DO UPDATE SET
			state=$2, channel=$3, product_type=$4, width=$5, size=$6, length=$7,
			color_type=$8, color=$9, payment_method=$10, payload=$11, updated_at=now()
	`, d.UserID, string(d.State), d.Channel, d.ProductType, d.Width, d.Size,
		d.Length, d.ColorType, d.Color, d.PaymentMethod, raw, d.CreatedAt)
	return err
}

// Reset удаляет диалог: заказ завершён или отменён.
func (r *Repo) Reset(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM dialog_states WHERE user_id = $1`, userID)
	return err
}
