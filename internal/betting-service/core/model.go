package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// BetStatus é o ciclo de vida de uma aposta: PLACED -> WON | LOST (terminal).
type BetStatus string

const (
	BetStatusPlaced BetStatus = "PLACED"
	BetStatusWon    BetStatus = "WON"
	BetStatusLost   BetStatus = "LOST"
)

// User é a conta de um usuário com seu saldo.
// Criada sob demanda na primeira referência, nunca removida.
type User struct {
	UserID  string
	Balance decimal.Decimal
}

// Driver é um piloto participante de um evento, com a odd resolvida.
type Driver struct {
	DriverID int
	FullName string
	Odds     int // multiplicador de pagamento: 2, 3 ou 4
}

// Event é uma sessão de corrida com seus pilotos.
type Event struct {
	EventID     int
	Name        string
	SessionType string
	Country     string
	StartsAt    time.Time
	Drivers     []Driver
}

// Bet é uma aposta de um usuário em um piloto para um evento.
// O id é sequencial, atribuído pelo repositório na criação.
type Bet struct {
	ID        int64
	UserID    string
	EventID   int
	DriverID  int
	Amount    decimal.Decimal
	Status    BetStatus
	CreatedAt time.Time
}

// EventOutcome resume a liquidação de um evento: um outcome por evento.
type EventOutcome struct {
	EventID        int
	WinnerDriverID int
	BetsWon        int
	BetsLost       int
	SettledAt      time.Time
}
