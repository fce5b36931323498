package dto

import "github.com/shopspring/decimal"

type PlaceBetRequest struct {
	UserID   string          `json:"userId"`
	EventID  int             `json:"eventId"`
	DriverID int             `json:"driverId"`
	Amount   decimal.Decimal `json:"amount"`
}

type DepositRequest struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}
