package settlement

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sgbet/f1-betting-service/internal/betting-service/bets"
	"github.com/sgbet/f1-betting-service/internal/betting-service/core"
	"github.com/sgbet/f1-betting-service/internal/betting-service/ledger"
	"github.com/sgbet/f1-betting-service/internal/betting-service/repo/memory"
	contracts "github.com/sgbet/f1-betting-service/pkg/contracts/events"
)

type fakeWinnerSource struct {
	winners map[int]core.Driver
	err     error
}

func (f *fakeWinnerSource) Winner(_ context.Context, eventID int) (core.Driver, bool, error) {
	if f.err != nil {
		return core.Driver{}, false, f.err
	}
	d, ok := f.winners[eventID]
	return d, ok, nil
}

type fakeEventBook struct{ events map[int]core.Event }

func (f *fakeEventBook) Get(_ context.Context, eventID int) (core.Event, bool, error) {
	ev, ok := f.events[eventID]
	return ev, ok, nil
}

type capturingPublisher struct {
	mu      sync.Mutex
	settled []contracts.EventSettled
}

func (p *capturingPublisher) PublishEventSettled(_ context.Context, e contracts.EventSettled) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settled = append(p.settled, e)
	return nil
}

type fixture struct {
	settle  *Service
	book    *bets.Service
	wallet  *ledger.Service
	winners *fakeWinnerSource
	publ    *capturingPublisher
}

// o cenário padrão tem o evento 1 com os pilotos 33 e 44, odd do vencedor 2
func newFixture() *fixture {
	wallet := ledger.New(zap.NewNop(), memory.NewUserStore(), decimal.NewFromInt(100))
	eb := &fakeEventBook{events: map[int]core.Event{
		1: {EventID: 1, Drivers: []core.Driver{{DriverID: 33}, {DriverID: 44}}},
	}}
	book := bets.New(zap.NewNop(), eb, wallet, memory.NewBetStore(), nil)
	winners := &fakeWinnerSource{winners: map[int]core.Driver{}}
	publ := &capturingPublisher{}
	settle := New(zap.NewNop(), winners, book, wallet, memory.NewOutcomeStore(), publ)
	return &fixture{settle: settle, book: book, wallet: wallet, winners: winners, publ: publ}
}

// cenário de referência: U1 aposta 10 no 33 (odd 2x), U2 aposta 10 no 44;
// vencedor 33 => U1 vai a 110, U2 fica em 90
func TestSettleReferenceScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	w1, err := f.book.Place(ctx, "U1", 1, 33, decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("place U1: %v", err)
	}
	w2, err := f.book.Place(ctx, "U2", 1, 44, decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("place U2: %v", err)
	}

	f.winners.winners[1] = core.Driver{DriverID: 33, FullName: "Max VERSTAPPEN", Odds: 2}

	outcome, err := f.settle.Settle(ctx, 1)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	if outcome.EventID != 1 || outcome.WinnerDriverID != 33 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if outcome.BetsWon != 1 || outcome.BetsLost != 1 {
		t.Fatalf("counts = %d/%d, want 1/1", outcome.BetsWon, outcome.BetsLost)
	}

	u1, _ := f.wallet.Get(ctx, "U1")
	if !u1.Balance.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("U1 balance = %s, want 110", u1.Balance)
	}
	u2, _ := f.wallet.Get(ctx, "U2")
	if !u2.Balance.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("U2 balance = %s, want 90", u2.Balance)
	}

	b1, _ := f.book.Get(ctx, w1)
	if b1.Status != core.BetStatusWon {
		t.Fatalf("W1 status = %s, want WON", b1.Status)
	}
	b2, _ := f.book.Get(ctx, w2)
	if b2.Status != core.BetStatusLost {
		t.Fatalf("W2 status = %s, want LOST", b2.Status)
	}

	if len(f.publ.settled) != 1 || f.publ.settled[0].EventID != 1 {
		t.Fatalf("event_settled not published: %+v", f.publ.settled)
	}
}

func TestSettleAllBetsTerminal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i, user := range []string{"U1", "U2", "U3", "U4"} {
		driver := 33
		if i%2 == 1 {
			driver = 44
		}
		if _, err := f.book.Place(ctx, user, 1, driver, decimal.NewFromInt(5)); err != nil {
			t.Fatalf("place %s: %v", user, err)
		}
	}

	f.winners.winners[1] = core.Driver{DriverID: 44, Odds: 3}
	outcome, err := f.settle.Settle(ctx, 1)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	all, _ := f.book.FindByEvent(ctx, 1)
	if outcome.BetsWon+outcome.BetsLost != len(all) {
		t.Fatalf("counts %d+%d != %d bets", outcome.BetsWon, outcome.BetsLost, len(all))
	}
	for _, b := range all {
		if b.Status != core.BetStatusWon && b.Status != core.BetStatusLost {
			t.Fatalf("bet %d not terminal: %s", b.ID, b.Status)
		}
	}
}

func TestSettleZeroBets(t *testing.T) {
	f := newFixture()
	f.winners.winners[1] = core.Driver{DriverID: 33, Odds: 2}

	outcome, err := f.settle.Settle(context.Background(), 1)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if outcome.BetsWon != 0 || outcome.BetsLost != 0 {
		t.Fatalf("counts = %d/%d, want 0/0", outcome.BetsWon, outcome.BetsLost)
	}
}

func TestSettleNoWinnerYet(t *testing.T) {
	f := newFixture()
	_, err := f.settle.Settle(context.Background(), 1)
	if !errors.Is(err, core.ErrNoWinner) {
		t.Fatalf("expected ErrNoWinner, got %v", err)
	}
}

func TestSettleTwiceRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.book.Place(ctx, "U1", 1, 33, decimal.NewFromInt(10)); err != nil {
		t.Fatalf("place: %v", err)
	}
	f.winners.winners[1] = core.Driver{DriverID: 33, Odds: 2}

	if _, err := f.settle.Settle(ctx, 1); err != nil {
		t.Fatalf("first settle: %v", err)
	}
	_, err := f.settle.Settle(ctx, 1)
	if !errors.Is(err, core.ErrEventAlreadySettled) {
		t.Fatalf("expected ErrEventAlreadySettled, got %v", err)
	}

	// o pagamento não pode ter sido repetido
	u1, _ := f.wallet.Get(ctx, "U1")
	if !u1.Balance.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("U1 balance = %s, want 110 (no double credit)", u1.Balance)
	}
}

func TestConcurrentSettleCreditsOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.book.Place(ctx, "U1", 1, 33, decimal.NewFromInt(10)); err != nil {
		t.Fatalf("place: %v", err)
	}
	f.winners.winners[1] = core.Driver{DriverID: 33, Odds: 2}

	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.settle.Settle(ctx, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, core.ErrEventAlreadySettled) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d settlements succeeded, want exactly 1", succeeded)
	}

	u1, _ := f.wallet.Get(ctx, "U1")
	if !u1.Balance.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("U1 balance = %s, want 110", u1.Balance)
	}
}

func TestSettleProviderErrorPropagates(t *testing.T) {
	f := newFixture()
	f.winners.err = errors.New("upstream down")

	_, err := f.settle.Settle(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}
}

// flakyOutcomeStore falha os primeiros Saves para simular o banco caindo no
// meio da liquidação
type flakyOutcomeStore struct {
	*memory.OutcomeStore
	saveFailures int
}

func (s *flakyOutcomeStore) Save(ctx context.Context, o core.EventOutcome) error {
	if s.saveFailures > 0 {
		s.saveFailures--
		return errors.New("storage offline")
	}
	return s.OutcomeStore.Save(ctx, o)
}

// se o outcome não foi persistido, a reexecução precisa completar a liquidação
// sem pagar de novo as apostas que já tinham virado WON
func TestSettleRetryAfterFailedPersistDoesNotPayTwice(t *testing.T) {
	ctx := context.Background()
	wallet := ledger.New(zap.NewNop(), memory.NewUserStore(), decimal.NewFromInt(100))
	eb := &fakeEventBook{events: map[int]core.Event{
		1: {EventID: 1, Drivers: []core.Driver{{DriverID: 33}, {DriverID: 44}}},
	}}
	book := bets.New(zap.NewNop(), eb, wallet, memory.NewBetStore(), nil)
	winners := &fakeWinnerSource{winners: map[int]core.Driver{
		1: {DriverID: 33, Odds: 2},
	}}
	outcomes := &flakyOutcomeStore{OutcomeStore: memory.NewOutcomeStore(), saveFailures: 1}
	settle := New(zap.NewNop(), winners, book, wallet, outcomes, nil)

	if _, err := book.Place(ctx, "U1", 1, 33, decimal.NewFromInt(10)); err != nil {
		t.Fatalf("place U1: %v", err)
	}
	if _, err := book.Place(ctx, "U2", 1, 44, decimal.NewFromInt(10)); err != nil {
		t.Fatalf("place U2: %v", err)
	}

	// primeira tentativa credita U1 e falha ao persistir o outcome
	if _, err := settle.Settle(ctx, 1); err == nil {
		t.Fatal("first settle should fail on persist")
	}
	u1, _ := wallet.Get(ctx, "U1")
	if !u1.Balance.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("U1 balance after failed settle = %s, want 110", u1.Balance)
	}

	outcome, err := settle.Settle(ctx, 1)
	if err != nil {
		t.Fatalf("retry settle: %v", err)
	}
	if outcome.BetsWon != 1 || outcome.BetsLost != 1 {
		t.Fatalf("counts = %d/%d, want 1/1", outcome.BetsWon, outcome.BetsLost)
	}

	u1, _ = wallet.Get(ctx, "U1")
	if !u1.Balance.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("U1 balance = %s, want 110 (winner credited once)", u1.Balance)
	}
	u2, _ := wallet.Get(ctx, "U2")
	if !u2.Balance.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("U2 balance = %s, want 90", u2.Balance)
	}
}

func TestSettleReleasesEventLock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.book.Place(ctx, "U1", 1, 33, decimal.NewFromInt(10)); err != nil {
		t.Fatalf("place: %v", err)
	}
	f.winners.winners[1] = core.Driver{DriverID: 33, Odds: 2}

	if _, err := f.settle.Settle(ctx, 1); err != nil {
		t.Fatalf("settle: %v", err)
	}

	f.settle.mu.Lock()
	_, held := f.settle.eventLocks[1]
	f.settle.mu.Unlock()
	if held {
		t.Fatal("event lock not released after settlement")
	}
}
