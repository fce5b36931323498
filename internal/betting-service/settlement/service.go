package settlement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sgbet/f1-betting-service/internal/betting-service/core"
	"github.com/sgbet/f1-betting-service/internal/betting-service/metrics"
	contracts "github.com/sgbet/f1-betting-service/pkg/contracts/events"
)

// WinnerSource resolve o piloto vencedor de um evento, com a odd de pagamento.
type WinnerSource interface {
	Winner(ctx context.Context, eventID int) (core.Driver, bool, error)
}

// BetBook são as operações do book usadas na liquidação.
type BetBook interface {
	FindByEvent(ctx context.Context, eventID int) ([]core.Bet, error)
	MarkWon(ctx context.Context, betID int64) error
	MarkLost(ctx context.Context, betID int64) error
}

// Wallet credita os ganhos dos vencedores.
type Wallet interface {
	Credit(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
}

// OutcomeRepo persiste o resumo da liquidação, um por evento.
type OutcomeRepo interface {
	Save(ctx context.Context, o core.EventOutcome) error
	Get(ctx context.Context, eventID int) (core.EventOutcome, bool, error)
}

// Publisher emite o evento event_settled; pode ser nil.
type Publisher interface {
	PublishEventSettled(ctx context.Context, e contracts.EventSettled) error
}

// Service liquida eventos: marca apostas como WON/LOST e paga os vencedores.
type Service struct {
	log      *zap.Logger
	events   WinnerSource
	bets     BetBook
	wallet   Wallet
	outcomes OutcomeRepo
	publ     Publisher

	// um mutex por evento; duas liquidações concorrentes do mesmo evento não
	// podem pagar a mesma aposta duas vezes
	mu         sync.Mutex
	eventLocks map[int]*sync.Mutex
}

func New(log *zap.Logger, events WinnerSource, bets BetBook, wallet Wallet, outcomes OutcomeRepo, publ Publisher) *Service {
	return &Service{
		log:        log,
		events:     events,
		bets:       bets,
		wallet:     wallet,
		outcomes:   outcomes,
		publ:       publ,
		eventLocks: make(map[int]*sync.Mutex),
	}
}

// Settle liquida todas as apostas de um evento e persiste o outcome.
// Vencedores recebem stake × odd do vencedor, resolvida na liquidação.
// Evento já liquidado retorna core.ErrEventAlreadySettled.
func (s *Service) Settle(ctx context.Context, eventID int) (core.EventOutcome, error) {
	lock := s.lockFor(eventID)
	lock.Lock()
	defer lock.Unlock()

	if _, settled, err := s.outcomes.Get(ctx, eventID); err != nil {
		return core.EventOutcome{}, err
	} else if settled {
		return core.EventOutcome{}, fmt.Errorf("event %d: %w", eventID, core.ErrEventAlreadySettled)
	}

	winner, found, err := s.events.Winner(ctx, eventID)
	if err != nil {
		return core.EventOutcome{}, err
	}
	if !found {
		return core.EventOutcome{}, fmt.Errorf("event %d: %w", eventID, core.ErrNoWinner)
	}

	bets, err := s.bets.FindByEvent(ctx, eventID)
	if err != nil {
		return core.EventOutcome{}, err
	}

	oddsFactor := decimal.NewFromInt(int64(winner.Odds))
	won, lost := 0, 0
	for _, bet := range bets {
		// aposta já terminal veio de uma tentativa anterior interrompida antes
		// de persistir o outcome; entra no resumo mas não é paga de novo
		if bet.Status != core.BetStatusPlaced {
			if bet.Status == core.BetStatusWon {
				won++
			} else {
				lost++
			}
			continue
		}
		if bet.DriverID == winner.DriverID {
			if err := s.bets.MarkWon(ctx, bet.ID); err != nil {
				return core.EventOutcome{}, fmt.Errorf("mark bet %d won: %w", bet.ID, err)
			}
			earnings := bet.Amount.Mul(oddsFactor)
			if _, err := s.wallet.Credit(ctx, bet.UserID, earnings); err != nil {
				return core.EventOutcome{}, fmt.Errorf("credit winner of bet %d: %w", bet.ID, err)
			}
			metrics.BetsSettled.WithLabelValues("won").Inc()
			won++
		} else {
			if err := s.bets.MarkLost(ctx, bet.ID); err != nil {
				return core.EventOutcome{}, fmt.Errorf("mark bet %d lost: %w", bet.ID, err)
			}
			metrics.BetsSettled.WithLabelValues("lost").Inc()
			lost++
		}
	}

	outcome := core.EventOutcome{
		EventID:        eventID,
		WinnerDriverID: winner.DriverID,
		BetsWon:        won,
		BetsLost:       lost,
		SettledAt:      time.Now(),
	}
	if err := s.outcomes.Save(ctx, outcome); err != nil {
		return core.EventOutcome{}, fmt.Errorf("persist outcome: %w", err)
	}

	metrics.EventsSettled.Inc()
	s.log.Info("event settled",
		zap.Int("eventId", eventID),
		zap.Int("winnerDriverId", winner.DriverID),
		zap.Int("betsWon", won),
		zap.Int("betsLost", lost),
	)

	if s.publ != nil {
		_ = s.publ.PublishEventSettled(ctx, contracts.EventSettled{
			EventID:        outcome.EventID,
			WinnerDriverID: outcome.WinnerDriverID,
			BetsWon:        outcome.BetsWon,
			BetsLost:       outcome.BetsLost,
			Ts:             outcome.SettledAt,
		})
	}

	// com o outcome persistido o flag é a barreira contra nova liquidação;
	// o mutex deste evento não é mais necessário
	s.dropLock(eventID)

	return outcome, nil
}

func (s *Service) lockFor(eventID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.eventLocks[eventID]
	if !ok {
		l = &sync.Mutex{}
		s.eventLocks[eventID] = l
	}
	return l
}

func (s *Service) dropLock(eventID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.eventLocks, eventID)
}
