package events

import "time"

// Evento publicado no tópico "event_settled" após a liquidação de um evento.
type EventSettled struct {
	EventID        int       `json:"event_id"`
	WinnerDriverID int       `json:"winner_driver_id"`
	BetsWon        int       `json:"bets_won"`
	BetsLost       int       `json:"bets_lost"`
	Ts             time.Time `json:"ts"`
}
