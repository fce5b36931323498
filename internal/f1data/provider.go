package f1data

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable indica falha de upstream (timeout, resposta inválida,
// status não-2xx). Sempre embrulhado com detalhe, nunca engolido.
var ErrUnavailable = errors.New("f1 data provider unavailable")

// Filter restringe a busca de sessões. Campos zerados são ignorados.
type Filter struct {
	SessionType string
	Year        int
	Country     string
}

// Session é uma sessão de corrida como vem do provedor, sem odds.
type Session struct {
	EventID     int
	Name        string
	SessionType string
	Country     string
	StartsAt    time.Time
}

// Driver é um piloto como vem do provedor.
type Driver struct {
	DriverID int
	FullName string
}

// Provider abstrai a fonte de dados de eventos, pilotos e vencedores.
// A implementação de produção fala com a API OpenF1; o decorator Cached
// adiciona cache Redis por cima de qualquer Provider.
type Provider interface {
	FindEvents(ctx context.Context, f Filter) ([]Session, error)
	FindEventByID(ctx context.Context, eventID int) (Session, bool, error)
	DriversByEvent(ctx context.Context, eventID int) ([]Driver, error)
	WinnerByEvent(ctx context.Context, eventID int) (driverID int, found bool, err error)
}
