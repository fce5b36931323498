package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sgbet/f1-betting-service/internal/betting-service/core"
)

// UserRepo define as operações de conta usadas pelo ledger.
// A implementação é responsável por serializar mutações da mesma conta e por
// rejeitar débito sem saldo dentro do mesmo passo atômico da escrita.
type UserRepo interface {
	GetOrCreate(ctx context.Context, userID string, initialBalance decimal.Decimal) (core.User, error)
	Get(ctx context.Context, userID string) (core.User, error)
	Debit(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
	Credit(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
}

// Service é o dono dos saldos de usuário.
type Service struct {
	log            *zap.Logger
	repo           UserRepo
	initialBalance decimal.Decimal
}

func New(log *zap.Logger, repo UserRepo, initialBalance decimal.Decimal) *Service {
	return &Service{log: log, repo: repo, initialBalance: initialBalance}
}

// GetOrCreate devolve a conta, criando com o saldo inicial configurado na
// primeira referência. Nunca falha por conta inexistente.
func (s *Service) GetOrCreate(ctx context.Context, userID string) (core.User, error) {
	return s.repo.GetOrCreate(ctx, userID, s.initialBalance)
}

func (s *Service) Get(ctx context.Context, userID string) (core.User, error) {
	return s.repo.Get(ctx, userID)
}

// Debit retorna core.ErrInsufficientBalance quando o saldo não cobre o valor
// e core.ErrUserNotFound para conta inexistente.
func (s *Service) Debit(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	newBalance, err := s.repo.Debit(ctx, userID, amount)
	if err != nil {
		return decimal.Zero, err
	}

	s.log.Debug("account debited",
		zap.String("userId", userID),
		zap.String("amount", amount.String()),
		zap.String("balance", newBalance.String()),
	)
	return newBalance, nil
}

func (s *Service) Credit(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	newBalance, err := s.repo.Credit(ctx, userID, amount)
	if err != nil {
		return decimal.Zero, err
	}

	s.log.Debug("account credited",
		zap.String("userId", userID),
		zap.String("amount", amount.String()),
		zap.String("balance", newBalance.String()),
	)
	return newBalance, nil
}
