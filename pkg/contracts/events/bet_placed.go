package events

// Evento publicado no tópico "bet_placed" após o débito e a gravação da aposta.
type BetPlaced struct {
	BetID    int64  `json:"bet_id"`
	UserID   string `json:"user_id"`
	EventID  int    `json:"event_id"`
	DriverID int    `json:"driver_id"`
	Amount   string `json:"amount"` // decimal serializado como string
	TsUnixMs int64  `json:"ts_unix_ms"`
}
