package postgres

import (
	"context"
	"database/sql"

	"github.com/sgbet/f1-betting-service/internal/betting-service/core"
)

// Outcomes guarda o resumo de liquidação, um por evento.
type Outcomes struct{ db *sql.DB }

func NewOutcomes(db *sql.DB) *Outcomes { return &Outcomes{db: db} }

func (p *Outcomes) Save(ctx context.Context, o core.EventOutcome) error {
	// a liquidação já barra reprocessamento; o ON CONFLICT é só a última linha
	// de defesa do unique
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO event_outcomes (event_id, winner_driver_id, bets_won, bets_lost, settled_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (event_id) DO NOTHING`,
		o.EventID, o.WinnerDriverID, o.BetsWon, o.BetsLost, o.SettledAt)
	return err
}

func (p *Outcomes) Get(ctx context.Context, eventID int) (core.EventOutcome, bool, error) {
	var o core.EventOutcome
	err := p.db.QueryRowContext(ctx, `
		SELECT event_id, winner_driver_id, bets_won, bets_lost, settled_at
		FROM event_outcomes WHERE event_id=$1`, eventID,
	).Scan(&o.EventID, &o.WinnerDriverID, &o.BetsWon, &o.BetsLost, &o.SettledAt)
	if err == sql.ErrNoRows {
		return core.EventOutcome{}, false, nil
	}
	if err != nil {
		return core.EventOutcome{}, false, err
	}
	return o, true, nil
}
