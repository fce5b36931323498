package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sgbet/f1-betting-service/internal/betting-service/core"
)

// BetStore guarda apostas por id com índice secundário por evento.
// Ids são sequenciais, vêm de um contador atômico único e nunca são reusados.
type BetStore struct {
	seq atomic.Int64

	mu      sync.RWMutex
	bets    map[int64]core.Bet
	byEvent map[int][]int64
}

func NewBetStore() *BetStore {
	return &BetStore{
		bets:    make(map[int64]core.Bet),
		byEvent: make(map[int][]int64),
	}
}

func (s *BetStore) Create(_ context.Context, bet core.Bet) (int64, error) {
	id := s.seq.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()

	bet.ID = id
	if bet.CreatedAt.IsZero() {
		bet.CreatedAt = time.Now()
	}
	s.bets[id] = bet
	s.byEvent[bet.EventID] = append(s.byEvent[bet.EventID], id)
	return id, nil
}

func (s *BetStore) Get(_ context.Context, betID int64) (core.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bets[betID]
	if !ok {
		return core.Bet{}, fmt.Errorf("bet %d: %w", betID, core.ErrBetNotFound)
	}
	return b, nil
}

func (s *BetStore) FindByEvent(_ context.Context, eventID int) ([]core.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byEvent[eventID]
	out := make([]core.Bet, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.bets[id])
	}
	return out, nil
}

// UpdateStatus troca o status da aposta; id desconhecido é no-op.
func (s *BetStore) UpdateStatus(_ context.Context, betID int64, status core.BetStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bets[betID]
	if !ok {
		return nil
	}
	b.Status = status
	s.bets[betID] = b
	return nil
}
