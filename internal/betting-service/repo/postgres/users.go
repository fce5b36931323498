package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sgbet/f1-betting-service/internal/betting-service/core"
)

// Users implementa operações de conta em banco Postgres.
// Débito e crédito travam a linha da conta (FOR UPDATE), então mutações
// concorrentes do mesmo usuário são serializadas pelo banco.
type Users struct{ db *sql.DB }

func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

// GetOrCreate retorna a conta do usuário, criando com o saldo inicial se não
// existir. Usa transação para não criar duas contas sob corrida.
func (p *Users) GetOrCreate(ctx context.Context, userID string, initialBalance decimal.Decimal) (core.User, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return core.User{}, err
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE user_id=$1`, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO accounts(user_id, balance) VALUES($1,$2) ON CONFLICT (user_id) DO NOTHING`,
			userID, initialBalance.String()); err != nil {
			return core.User{}, err
		}
		if err = tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE user_id=$1`, userID).Scan(&raw); err != nil {
			return core.User{}, err
		}
	} else if err != nil {
		return core.User{}, err
	}

	if err = tx.Commit(); err != nil {
		return core.User{}, err
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return core.User{}, fmt.Errorf("parse balance %q: %w", raw, err)
	}
	return core.User{UserID: userID, Balance: balance}, nil
}

func (p *Users) Get(ctx context.Context, userID string) (core.User, error) {
	var raw string
	err := p.db.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE user_id=$1`, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return core.User{}, fmt.Errorf("user %s: %w", userID, core.ErrUserNotFound)
	}
	if err != nil {
		return core.User{}, err
	}
	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return core.User{}, fmt.Errorf("parse balance %q: %w", raw, err)
	}
	return core.User{UserID: userID, Balance: balance}, nil
}

// Debit subtrai do saldo com a checagem de suficiência dentro da mesma
// transação que a escrita; registra a operação no account_ledger.
func (p *Users) Debit(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	return p.apply(ctx, userID, amount, "DEBIT")
}

// Credit soma ao saldo e registra no account_ledger.
func (p *Users) Credit(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	return p.apply(ctx, userID, amount, "CREDIT")
}

func (p *Users) apply(ctx context.Context, userID string, amount decimal.Decimal, op string) (decimal.Decimal, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE user_id=$1 FOR UPDATE`, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return decimal.Zero, fmt.Errorf("user %s: %w", userID, core.ErrUserNotFound)
	}
	if err != nil {
		return decimal.Zero, err
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse balance %q: %w", raw, err)
	}

	var newBalance decimal.Decimal
	if op == "DEBIT" {
		if balance.LessThan(amount) {
			return decimal.Zero, fmt.Errorf("user %s: %w", userID, core.ErrInsufficientBalance)
		}
		newBalance = balance.Sub(amount)
	} else {
		newBalance = balance.Add(amount)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE accounts SET balance=$1, version=version+1, updated_at=NOW() WHERE user_id=$2`,
		newBalance.String(), userID); err != nil {
		return decimal.Zero, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO account_ledger(id, user_id, operation_type, amount) VALUES($1,$2,$3,$4)`,
		uuid.NewString(), userID, op, amount.String()); err != nil {
		return decimal.Zero, err
	}

	if err = tx.Commit(); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}
