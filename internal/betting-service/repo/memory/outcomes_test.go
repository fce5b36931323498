package memory

import (
	"context"
	"testing"

	"github.com/sgbet/f1-betting-service/internal/betting-service/core"
)

func TestOutcomeSaveAndGet(t *testing.T) {
	s := NewOutcomeStore()
	ctx := context.Background()

	if _, ok, _ := s.Get(ctx, 1); ok {
		t.Fatal("expected no outcome before save")
	}

	o := core.EventOutcome{EventID: 1, WinnerDriverID: 33, BetsWon: 1, BetsLost: 2}
	if err := s.Save(ctx, o); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := s.Get(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.WinnerDriverID != 33 || got.BetsWon != 1 || got.BetsLost != 2 {
		t.Fatalf("unexpected outcome %+v", got)
	}
}
