package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sgbet/f1-betting-service/internal/betting-service/core"
)

// Bets implementa a persistência de apostas em Postgres.
// O id sequencial vem do BIGSERIAL da tabela.
type Bets struct{ db *sql.DB }

func NewBets(db *sql.DB) *Bets { return &Bets{db: db} }

func (p *Bets) Create(ctx context.Context, b core.Bet) (int64, error) {
	var id int64
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO bets (user_id, event_id, driver_id, amount, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		b.UserID, b.EventID, b.DriverID, b.Amount.String(), string(b.Status),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (p *Bets) Get(ctx context.Context, betID int64) (core.Bet, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, user_id, event_id, driver_id, amount, status, created_at
		FROM bets WHERE id=$1`, betID)

	b, err := scanBet(row)
	if err == sql.ErrNoRows {
		return core.Bet{}, fmt.Errorf("bet %d: %w", betID, core.ErrBetNotFound)
	}
	return b, err
}

func (p *Bets) FindByEvent(ctx context.Context, eventID int) ([]core.Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, event_id, driver_id, amount, status, created_at
		FROM bets WHERE event_id=$1 ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Bet
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus troca o status; id desconhecido não afeta nenhuma linha (no-op).
func (p *Bets) UpdateStatus(ctx context.Context, betID int64, status core.BetStatus) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE bets SET status=$1, updated_at=NOW() WHERE id=$2`, string(status), betID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBet(row rowScanner) (core.Bet, error) {
	var b core.Bet
	var amount, status string
	if err := row.Scan(&b.ID, &b.UserID, &b.EventID, &b.DriverID, &amount, &status, &b.CreatedAt); err != nil {
		return core.Bet{}, err
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Bet{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	b.Amount = dec
	b.Status = core.BetStatus(status)
	return b, nil
}
