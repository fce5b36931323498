package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sgbet/f1-betting-service/internal/shared/config"
	"github.com/sgbet/f1-betting-service/internal/shared/logger"
)

// Simulador da API OpenF1 para desenvolvimento local: expõe /sessions,
// /drivers e /session_result com o mesmo formato de resposta da API real.

type simSession struct {
	SessionKey  int    `json:"session_key"`
	SessionName string `json:"session_name"`
	SessionType string `json:"session_type"`
	CountryName string `json:"country_name"`
	DateStart   string `json:"date_start"`
	Year        int    `json:"year"`
}

type simDriver struct {
	DriverNumber int    `json:"driver_number"`
	FullName     string `json:"full_name"`
}

var (
	// Catálogo fixo de sessões simuladas
	sessionCatalog = []simSession{
		{SessionKey: 9001, SessionName: "Grande Prêmio da Itália", SessionType: "Race", CountryName: "Italy", DateStart: "2024-09-01T13:00:00Z", Year: 2024},
		{SessionKey: 9002, SessionName: "Grande Prêmio de São Paulo", SessionType: "Race", CountryName: "Brazil", DateStart: "2024-11-03T17:00:00Z", Year: 2024},
		{SessionKey: 9003, SessionName: "Grande Prêmio de Mônaco", SessionType: "Race", CountryName: "Monaco", DateStart: "2025-05-25T13:00:00Z", Year: 2025},
	}

	driverCatalog = map[int][]simDriver{
		9001: {
			{DriverNumber: 1, FullName: "Max VERSTAPPEN"},
			{DriverNumber: 16, FullName: "Charles LECLERC"},
			{DriverNumber: 44, FullName: "Lewis HAMILTON"},
			{DriverNumber: 81, FullName: "Oscar PIASTRI"},
		},
		9002: {
			{DriverNumber: 1, FullName: "Max VERSTAPPEN"},
			{DriverNumber: 4, FullName: "Lando NORRIS"},
			{DriverNumber: 31, FullName: "Esteban OCON"},
			{DriverNumber: 63, FullName: "George RUSSELL"},
		},
		9003: {
			{DriverNumber: 1, FullName: "Max VERSTAPPEN"},
			{DriverNumber: 4, FullName: "Lando NORRIS"},
			{DriverNumber: 16, FullName: "Charles LECLERC"},
			{DriverNumber: 44, FullName: "Lewis HAMILTON"},
		},
	}

	// Vencedores das sessões já encerradas; sessão ausente ainda não tem
	// resultado publicado e retorna lista vazia
	resultCatalog = map[int]int{
		9001: 16,
		9002: 1,
	}

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "openf1_sim_requests_total",
		Help: "Total de requisições atendidas pelo simulador",
	}, []string{"path"})
)

type server struct {
	log *zap.Logger
}

func newServer(log *zap.Logger) *server { return &server{log: log} }

// sessionsHandler filtra o catálogo por session_key, session_type, year e
// country_name, como a API real
func (s *server) sessionsHandler(w http.ResponseWriter, r *http.Request) {
	httpRequests.WithLabelValues("/sessions").Inc()
	q := r.URL.Query()

	out := make([]simSession, 0, len(sessionCatalog))
	for _, sess := range sessionCatalog {
		if v := q.Get("session_key"); v != "" {
			key, err := strconv.Atoi(v)
			if err != nil || sess.SessionKey != key {
				continue
			}
		}
		if v := q.Get("session_type"); v != "" && sess.SessionType != v {
			continue
		}
		if v := q.Get("country_name"); v != "" && sess.CountryName != v {
			continue
		}
		if v := q.Get("year"); v != "" {
			year, err := strconv.Atoi(v)
			if err != nil || sess.Year != year {
				continue
			}
		}
		out = append(out, sess)
	}
	writeList(w, out)
}

func (s *server) driversHandler(w http.ResponseWriter, r *http.Request) {
	httpRequests.WithLabelValues("/drivers").Inc()

	key, err := strconv.Atoi(r.URL.Query().Get("session_key"))
	if err != nil {
		http.Error(w, "session_key required", http.StatusBadRequest)
		return
	}
	drivers := driverCatalog[key]
	if drivers == nil {
		drivers = []simDriver{}
	}
	writeList(w, drivers)
}

// sessionResultHandler responde o pódio da sessão; só a posição 1 existe no
// simulador, que é o que o serviço de apostas consulta
func (s *server) sessionResultHandler(w http.ResponseWriter, r *http.Request) {
	httpRequests.WithLabelValues("/session_result").Inc()
	q := r.URL.Query()

	key, err := strconv.Atoi(q.Get("session_key"))
	if err != nil {
		http.Error(w, "session_key required", http.StatusBadRequest)
		return
	}
	if pos := q.Get("position"); pos != "" && pos != "1" {
		writeList(w, []simDriver{})
		return
	}

	winner, ok := resultCatalog[key]
	if !ok {
		writeList(w, []simDriver{})
		return
	}
	for _, d := range driverCatalog[key] {
		if d.DriverNumber == winner {
			writeList(w, []simDriver{d})
			return
		}
	}
	writeList(w, []simDriver{{DriverNumber: winner}})
}

func writeList(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(httpRequests)

	s := newServer(log)

	// ==== MUX PÚBLICO: os três endpoints consultados pelo betting-service
	appMux := http.NewServeMux()
	appMux.HandleFunc("/sessions", s.sessionsHandler)
	appMux.HandleFunc("/drivers", s.driversHandler)
	appMux.HandleFunc("/session_result", s.sessionResultHandler)

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsMux.Handle("/metrics", promhttp.Handler())

	go func() {
		metricsAddr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("openf1 simulator (metrics) running",
			zap.String("addr", metricsAddr),
			zap.String("paths", "/healthz,/metrics"),
		)
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			log.Fatal("metrics server error", zap.Error(err))
		}
	}()

	publicAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("openf1 simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("paths", "/sessions,/drivers,/session_result"),
	)
	if err := http.ListenAndServe(publicAddr, appMux); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}
