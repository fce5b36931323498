package memory

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sgbet/f1-betting-service/internal/betting-service/core"
)

const userShards = 16

// UserStore guarda contas em um mapa particionado por shard.
// Toda mutação de saldo roda dentro do lock do shard dono da conta, o que
// serializa débito/crédito concorrentes no mesmo usuário.
type UserStore struct {
	shards [userShards]*userShard
}

type userShard struct {
	mu    sync.Mutex
	users map[string]core.User
}

func NewUserStore() *UserStore {
	s := &UserStore{}
	for i := range s.shards {
		s.shards[i] = &userShard{users: make(map[string]core.User)}
	}
	return s
}

func (s *UserStore) shard(userID string) *userShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return s.shards[h.Sum32()%userShards]
}

func (s *UserStore) GetOrCreate(_ context.Context, userID string, initialBalance decimal.Decimal) (core.User, error) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if u, ok := sh.users[userID]; ok {
		return u, nil
	}

	u := core.User{UserID: userID, Balance: initialBalance}
	sh.users[userID] = u
	return u, nil
}

func (s *UserStore) Get(_ context.Context, userID string) (core.User, error) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	u, ok := sh.users[userID]
	if !ok {
		return core.User{}, fmt.Errorf("user %s: %w", userID, core.ErrUserNotFound)
	}
	return u, nil
}

// Debit subtrai do saldo. A checagem de saldo suficiente acontece no mesmo
// passo atômico que a escrita; não existe janela check-then-act.
func (s *UserStore) Debit(_ context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	u, ok := sh.users[userID]
	if !ok {
		return decimal.Zero, fmt.Errorf("user %s: %w", userID, core.ErrUserNotFound)
	}
	if u.Balance.LessThan(amount) {
		return decimal.Zero, fmt.Errorf("user %s: %w", userID, core.ErrInsufficientBalance)
	}

	u.Balance = u.Balance.Sub(amount)
	sh.users[userID] = u
	return u.Balance, nil
}

func (s *UserStore) Credit(_ context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	u, ok := sh.users[userID]
	if !ok {
		return decimal.Zero, fmt.Errorf("user %s: %w", userID, core.ErrUserNotFound)
	}

	u.Balance = u.Balance.Add(amount)
	sh.users[userID] = u
	return u.Balance, nil
}
