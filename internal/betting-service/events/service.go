package events

import (
	"context"
	"fmt"

	"github.com/sgbet/f1-betting-service/internal/betting-service/core"
	"github.com/sgbet/f1-betting-service/internal/betting-service/odds"
	"github.com/sgbet/f1-betting-service/internal/f1data"
)

// Service expõe eventos do provedor F1 enriquecidos com as odds de cada
// piloto. É a única porta de entrada do resto do serviço para dados de
// evento/piloto/vencedor.
type Service struct {
	provider f1data.Provider
}

func New(provider f1data.Provider) *Service {
	return &Service{provider: provider}
}

// List retorna os eventos que batem com o filtro, cada um com o mercado de
// pilotos resolvido.
func (s *Service) List(ctx context.Context, f f1data.Filter) ([]core.Event, error) {
	sessions, err := s.provider.FindEvents(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]core.Event, 0, len(sessions))
	for _, session := range sessions {
		drivers, err := s.driversWithOdds(ctx, session.EventID)
		if err != nil {
			return nil, err
		}
		out = append(out, toEvent(session, drivers))
	}
	return out, nil
}

// Get retorna um evento com pilotos e odds; found=false quando o provedor não
// conhece o id.
func (s *Service) Get(ctx context.Context, eventID int) (core.Event, bool, error) {
	session, found, err := s.provider.FindEventByID(ctx, eventID)
	if err != nil {
		return core.Event{}, false, fmt.Errorf("get event %d: %w", eventID, err)
	}
	if !found {
		return core.Event{}, false, nil
	}

	drivers, err := s.driversWithOdds(ctx, eventID)
	if err != nil {
		return core.Event{}, false, err
	}
	return toEvent(session, drivers), true, nil
}

// Winner resolve o piloto vencedor do evento, com a odd usada no pagamento.
// found=false enquanto o provedor não publicar o resultado.
func (s *Service) Winner(ctx context.Context, eventID int) (core.Driver, bool, error) {
	winnerID, found, err := s.provider.WinnerByEvent(ctx, eventID)
	if err != nil {
		return core.Driver{}, false, fmt.Errorf("winner of event %d: %w", eventID, err)
	}
	if !found {
		return core.Driver{}, false, nil
	}

	drivers, err := s.driversWithOdds(ctx, eventID)
	if err != nil {
		return core.Driver{}, false, err
	}
	for _, d := range drivers {
		if d.DriverID == winnerID {
			return d, true, nil
		}
	}

	// resultado publicado com piloto fora da lista da sessão; a odd continua
	// determinística, só fica sem nome
	return core.Driver{
		DriverID: winnerID,
		Odds:     odds.Multiplier(eventID, winnerID),
	}, true, nil
}

func (s *Service) driversWithOdds(ctx context.Context, eventID int) ([]core.Driver, error) {
	drivers, err := s.provider.DriversByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("drivers of event %d: %w", eventID, err)
	}

	out := make([]core.Driver, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, core.Driver{
			DriverID: d.DriverID,
			FullName: d.FullName,
			Odds:     odds.Multiplier(eventID, d.DriverID),
		})
	}
	return out, nil
}

func toEvent(s f1data.Session, drivers []core.Driver) core.Event {
	return core.Event{
		EventID:     s.EventID,
		Name:        s.Name,
		SessionType: s.SessionType,
		Country:     s.Country,
		StartsAt:    s.StartsAt,
		Drivers:     drivers,
	}
}
