package openf1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sgbet/f1-betting-service/internal/f1data"
)

// Client consome a API pública OpenF1 (sessions, drivers, session_result).
// Cada sessão OpenF1 é um evento apostável; o session_key é o id do evento.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	log     *zap.Logger
}

func New(baseURL string, log *zap.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
		log:     log,
	}
}

// formato de sessão da OpenF1
type openF1Session struct {
	SessionKey  int    `json:"session_key"`
	SessionName string `json:"session_name"`
	SessionType string `json:"session_type"`
	CountryName string `json:"country_name"`
	DateStart   string `json:"date_start"`
	Year        int    `json:"year"`
}

// formato de piloto da OpenF1 (também usado em session_result)
type openF1Driver struct {
	DriverNumber int    `json:"driver_number"`
	FullName     string `json:"full_name"`
}

func (c *Client) FindEvents(ctx context.Context, f f1data.Filter) ([]f1data.Session, error) {
	q := url.Values{}
	if f.SessionType != "" {
		q.Set("session_type", f.SessionType)
	}
	if f.Year != 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}
	if f.Country != "" {
		q.Set("country_name", f.Country)
	}

	var sessions []openF1Session
	if err := c.get(ctx, "sessions", q, &sessions); err != nil {
		return nil, err
	}
	return toSessionList(sessions), nil
}

func (c *Client) FindEventByID(ctx context.Context, eventID int) (f1data.Session, bool, error) {
	q := url.Values{}
	q.Set("session_key", strconv.Itoa(eventID))

	var sessions []openF1Session
	if err := c.get(ctx, "sessions", q, &sessions); err != nil {
		return f1data.Session{}, false, err
	}
	if len(sessions) == 0 {
		return f1data.Session{}, false, nil
	}
	return toSession(sessions[0]), true, nil
}

func (c *Client) DriversByEvent(ctx context.Context, eventID int) ([]f1data.Driver, error) {
	q := url.Values{}
	q.Set("session_key", strconv.Itoa(eventID))

	var drivers []openF1Driver
	if err := c.get(ctx, "drivers", q, &drivers); err != nil {
		return nil, err
	}

	out := make([]f1data.Driver, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, f1data.Driver{DriverID: d.DriverNumber, FullName: d.FullName})
	}
	return out, nil
}

// WinnerByEvent consulta o resultado da sessão filtrando pela posição 1.
// Lista vazia significa que o vencedor ainda não foi publicado (found=false).
func (c *Client) WinnerByEvent(ctx context.Context, eventID int) (int, bool, error) {
	q := url.Values{}
	q.Set("session_key", strconv.Itoa(eventID))
	q.Set("position", "1")

	var result []openF1Driver
	if err := c.get(ctx, "session_result", q, &result); err != nil {
		return 0, false, err
	}
	if len(result) == 0 {
		return 0, false, nil
	}
	return result[0].DriverNumber, true, nil
}

// get executa um GET e decodifica a lista JSON da resposta.
// Qualquer falha de transporte, status ou parse vira f1data.ErrUnavailable.
func (c *Client) get(ctx context.Context, path string, q url.Values, dst any) error {
	u := c.BaseURL + "/" + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	c.log.Debug("openf1 request", zap.String("url", u))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", f1data.ErrUnavailable, err)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Warn("openf1 request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %v", f1data.ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		c.log.Warn("openf1 bad status", zap.String("path", path), zap.Int("status", res.StatusCode))
		return fmt.Errorf("%w: http %d on %s", f1data.ErrUnavailable, res.StatusCode, path)
	}

	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", f1data.ErrUnavailable, path, err)
	}
	return nil
}

func toSessionList(in []openF1Session) []f1data.Session {
	out := make([]f1data.Session, 0, len(in))
	for _, s := range in {
		out = append(out, toSession(s))
	}
	return out
}

func toSession(s openF1Session) f1data.Session {
	// date_start vem como RFC3339; data inválida fica zerada em vez de
	// derrubar a listagem inteira
	startsAt, _ := time.Parse(time.RFC3339, s.DateStart)
	return f1data.Session{
		EventID:     s.SessionKey,
		Name:        s.SessionName,
		SessionType: s.SessionType,
		Country:     s.CountryName,
		StartsAt:    startsAt,
	}
}
