package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sgbet/f1-betting-service/internal/betting-service/bets"
	"github.com/sgbet/f1-betting-service/internal/betting-service/core"
	"github.com/sgbet/f1-betting-service/internal/betting-service/dto"
	evsvc "github.com/sgbet/f1-betting-service/internal/betting-service/events"
	"github.com/sgbet/f1-betting-service/internal/betting-service/ledger"
	"github.com/sgbet/f1-betting-service/internal/betting-service/settlement"
	"github.com/sgbet/f1-betting-service/internal/f1data"
)

// Server expõe a API REST do serviço de apostas.
type Server struct {
	log    *zap.Logger
	events *evsvc.Service
	bets   *bets.Service
	wallet *ledger.Service
	settle *settlement.Service
}

func NewServer(log *zap.Logger, events *evsvc.Service, b *bets.Service, wallet *ledger.Service, settle *settlement.Service) *Server {
	return &Server{log: log, events: events, bets: b, wallet: wallet, settle: settle}
}

// Router retorna o roteador HTTP com os endpoints REST.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/events", s.listEvents)                // Lista eventos com odds por piloto
	r.Post("/v1/events/{id}/outcome", s.settleEvent) // Liquida um evento
	r.Post("/v1/bets", s.placeBet)                   // Coloca uma aposta
	r.Get("/v1/bets/{id}", s.getBet)                 // Consulta uma aposta
	r.Get("/v1/wallet", s.getWallet)                 // Saldo do usuário (cria se não existir)
	r.Post("/v1/wallet/deposit", s.deposit)          // Depósito
	return r
}

// listEvents aceita os filtros sessionType, year e country via query string.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := f1data.Filter{
		SessionType: q.Get("sessionType"),
		Country:     q.Get("country"),
	}
	if y := q.Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		filter.Year = year
	}

	events, err := s.events.List(r.Context(), filter)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	out := make([]dto.EventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, toEventResponse(ev))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	if req.UserID == "" || req.EventID == 0 || req.DriverID == 0 {
		s.writeError(w, http.StatusBadRequest, "userId, eventId and driverId are required")
		return
	}

	betID, err := s.bets.Place(r.Context(), req.UserID, req.EventID, req.DriverID, req.Amount)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.PlaceBetResponse{BetID: betID})
}

func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "betId must be an integer")
		return
	}

	bet, err := s.bets.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BetStatusResponse{
		BetID:    bet.ID,
		UserID:   bet.UserID,
		EventID:  bet.EventID,
		DriverID: bet.DriverID,
		Amount:   bet.Amount.String(),
		Status:   string(bet.Status),
	})
}

// getWallet retorna (ou cria) a conta e o saldo do usuário.
func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "userId required")
		return
	}

	u, err := s.wallet.GetOrCreate(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.WalletResponse{UserID: u.UserID, Balance: u.Balance.String()})
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	if req.UserID == "" {
		s.writeError(w, http.StatusBadRequest, "userId required")
		return
	}
	if !req.Amount.IsPositive() {
		s.writeError(w, http.StatusBadRequest, core.ErrInvalidAmount.Error())
		return
	}

	if _, err := s.wallet.GetOrCreate(r.Context(), req.UserID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	balance, err := s.wallet.Credit(r.Context(), req.UserID, req.Amount)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.WalletResponse{UserID: req.UserID, Balance: balance.String()})
}

func (s *Server) settleEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "eventId must be an integer")
		return
	}

	outcome, err := s.settle.Settle(r.Context(), eventID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OutcomeResponse{
		EventID:        outcome.EventID,
		WinnerDriverID: outcome.WinnerDriverID,
		BetsWon:        outcome.BetsWon,
		BetsLost:       outcome.BetsLost,
	})
}

// writeDomainError traduz os erros de domínio para status HTTP.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrEventNotFound),
		errors.Is(err, core.ErrDriverNotFound),
		errors.Is(err, core.ErrNoWinner),
		errors.Is(err, core.ErrBetNotFound),
		errors.Is(err, core.ErrUserNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInsufficientBalance),
		errors.Is(err, core.ErrEventAlreadySettled):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrInvalidAmount):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, f1data.ErrUnavailable):
		s.log.Error("upstream provider failure", zap.Error(err))
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.log.Error("unexpected error", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
	})
}

// writeJSON serializa a resposta em JSON e define o status HTTP.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func toEventResponse(ev core.Event) dto.EventResponse {
	drivers := make([]dto.DriverResponse, 0, len(ev.Drivers))
	for _, d := range ev.Drivers {
		drivers = append(drivers, dto.DriverResponse{
			DriverID: d.DriverID,
			FullName: d.FullName,
			Odds:     d.Odds,
		})
	}
	return dto.EventResponse{
		EventID:     ev.EventID,
		Name:        ev.Name,
		SessionType: ev.SessionType,
		Country:     ev.Country,
		StartsAt:    ev.StartsAt,
		Drivers:     drivers,
	}
}
