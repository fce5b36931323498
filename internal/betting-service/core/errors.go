package core

import "errors"

// Erros de domínio expostos à camada HTTP.
// Sempre embrulhados com contexto via fmt.Errorf("...: %w", err);
// a borda resolve o status com errors.Is.
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrDriverNotFound      = errors.New("driver not found in event")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoWinner            = errors.New("no winner determined for event")
	ErrEventAlreadySettled = errors.New("event already settled")
	ErrInvalidAmount       = errors.New("amount must be a positive value")
	ErrUserNotFound        = errors.New("user not found")
	ErrBetNotFound         = errors.New("bet not found")
)
