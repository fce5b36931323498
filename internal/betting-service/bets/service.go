package bets

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sgbet/f1-betting-service/internal/betting-service/core"
	"github.com/sgbet/f1-betting-service/internal/betting-service/metrics"
	contracts "github.com/sgbet/f1-betting-service/pkg/contracts/events"
)

// EventBook é o que o book de apostas precisa saber sobre eventos.
type EventBook interface {
	Get(ctx context.Context, eventID int) (core.Event, bool, error)
}

// Wallet são as operações de conta usadas na colocação de aposta.
type Wallet interface {
	GetOrCreate(ctx context.Context, userID string) (core.User, error)
	Debit(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
	Credit(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
}

// BetRepo é o contrato de persistência de apostas.
type BetRepo interface {
	Create(ctx context.Context, bet core.Bet) (int64, error)
	Get(ctx context.Context, betID int64) (core.Bet, error)
	FindByEvent(ctx context.Context, eventID int) ([]core.Bet, error)
	UpdateStatus(ctx context.Context, betID int64, status core.BetStatus) error
}

// Publisher emite o evento bet_placed; pode ser nil quando Kafka está
// desabilitado.
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e contracts.BetPlaced) error
}

// Service valida e registra apostas (o "wager book").
type Service struct {
	log    *zap.Logger
	events EventBook
	wallet Wallet
	repo   BetRepo
	publ   Publisher
}

func New(log *zap.Logger, events EventBook, wallet Wallet, repo BetRepo, publ Publisher) *Service {
	return &Service{log: log, events: events, wallet: wallet, repo: repo, publ: publ}
}

// Place valida o evento e o piloto, debita a conta e grava a aposta PLACED.
// Falha de validação aborta antes de qualquer efeito colateral; o débito só
// acontece depois que evento e piloto foram confirmados.
func (s *Service) Place(ctx context.Context, userID string, eventID, driverID int, amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, fmt.Errorf("%s: %w", amount, core.ErrInvalidAmount)
	}

	event, found, err := s.events.Get(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("event %d: %w", eventID, core.ErrEventNotFound)
	}

	if !hasDriver(event, driverID) {
		return 0, fmt.Errorf("driver %d in event %d: %w", driverID, eventID, core.ErrDriverNotFound)
	}

	if _, err := s.wallet.GetOrCreate(ctx, userID); err != nil {
		return 0, err
	}
	if _, err := s.wallet.Debit(ctx, userID, amount); err != nil {
		return 0, err
	}

	betID, err := s.repo.Create(ctx, core.Bet{
		UserID:    userID,
		EventID:   eventID,
		DriverID:  driverID,
		Amount:    amount,
		Status:    core.BetStatusPlaced,
		CreatedAt: time.Now(),
	})
	if err != nil {
		// estorna o débito: a aposta não foi gravada
		if _, cerr := s.wallet.Credit(ctx, userID, amount); cerr != nil {
			s.log.Error("refund after failed bet persist",
				zap.String("userId", userID), zap.Error(cerr))
		}
		return 0, fmt.Errorf("persist bet: %w", err)
	}

	metrics.BetsPlaced.Inc()
	s.log.Info("bet placed",
		zap.Int64("betId", betID),
		zap.String("userId", userID),
		zap.Int("eventId", eventID),
		zap.Int("driverId", driverID),
		zap.String("amount", amount.String()),
	)

	if s.publ != nil {
		_ = s.publ.PublishBetPlaced(ctx, contracts.BetPlaced{
			BetID:    betID,
			UserID:   userID,
			EventID:  eventID,
			DriverID: driverID,
			Amount:   amount.String(),
		})
	}

	return betID, nil
}

func (s *Service) Get(ctx context.Context, betID int64) (core.Bet, error) {
	return s.repo.Get(ctx, betID)
}

func (s *Service) FindByEvent(ctx context.Context, eventID int) ([]core.Bet, error) {
	return s.repo.FindByEvent(ctx, eventID)
}

// MarkWon / MarkLost são as transições terminais; id desconhecido é no-op.
func (s *Service) MarkWon(ctx context.Context, betID int64) error {
	return s.repo.UpdateStatus(ctx, betID, core.BetStatusWon)
}

func (s *Service) MarkLost(ctx context.Context, betID int64) error {
	return s.repo.UpdateStatus(ctx, betID, core.BetStatusLost)
}

func hasDriver(event core.Event, driverID int) bool {
	for _, d := range event.Drivers {
		if d.DriverID == driverID {
			return true
		}
	}
	return false
}
