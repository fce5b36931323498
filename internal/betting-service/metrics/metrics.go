package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores de negócio expostos em /metrics.
var (
	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betting_bets_placed_total",
		Help: "Total de apostas aceitas",
	})

	BetsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betting_bets_settled_total",
		Help: "Total de apostas liquidadas por resultado",
	}, []string{"result"}) // "won" | "lost"

	EventsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betting_events_settled_total",
		Help: "Total de eventos liquidados",
	})
)
