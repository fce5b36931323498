package memory

import (
	"context"
	"sync"

	"github.com/sgbet/f1-betting-service/internal/betting-service/core"
)

// OutcomeStore guarda um outcome por evento.
type OutcomeStore struct {
	mu       sync.RWMutex
	outcomes map[int]core.EventOutcome
}

func NewOutcomeStore() *OutcomeStore {
	return &OutcomeStore{outcomes: make(map[int]core.EventOutcome)}
}

func (s *OutcomeStore) Save(_ context.Context, o core.EventOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[o.EventID] = o
	return nil
}

func (s *OutcomeStore) Get(_ context.Context, eventID int) (core.EventOutcome, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.outcomes[eventID]
	return o, ok, nil
}
