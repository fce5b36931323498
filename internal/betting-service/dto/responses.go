package dto

import "time"

type PlaceBetResponse struct {
	BetID int64 `json:"betId"`
}

type BetStatusResponse struct {
	BetID    int64  `json:"betId"`
	UserID   string `json:"userId"`
	EventID  int    `json:"eventId"`
	DriverID int    `json:"driverId"`
	Amount   string `json:"amount"`
	Status   string `json:"status"`
}

type WalletResponse struct {
	UserID  string `json:"userId"`
	Balance string `json:"balance"`
}

type DriverResponse struct {
	DriverID int    `json:"driverId"`
	FullName string `json:"fullName"`
	Odds     int    `json:"odds"`
}

type EventResponse struct {
	EventID     int              `json:"eventId"`
	Name        string           `json:"name"`
	SessionType string           `json:"sessionType"`
	Country     string           `json:"country"`
	StartsAt    time.Time        `json:"startsAt"`
	Drivers     []DriverResponse `json:"drivers"`
}

type OutcomeResponse struct {
	EventID        int `json:"eventId"`
	WinnerDriverID int `json:"winnerDriverId"`
	BetsWon        int `json:"betsWon"`
	BetsLost       int `json:"betsLost"`
}

// ErrorResponse é o corpo padrão de erro da API.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}
