package topics

const (
	// Bets
	BetPlaced = "bet_placed"

	// Liquidação
	EventSettled = "event_settled"
)
