package f1data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cached decora um Provider com cache Redis de leitura.
// Sessões e pilotos mudam raramente; o TTL curto evita martelar a OpenF1 a
// cada aposta sem segurar dado velho por muito tempo. O vencedor não é
// cacheado: listas vazias virariam negativo preso até o TTL expirar.
type Cached struct {
	next Provider
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCached(next Provider, rdb *redis.Client, ttl time.Duration) *Cached {
	return &Cached{next: next, rdb: rdb, ttl: ttl}
}

func keySession(eventID int) string { return fmt.Sprintf("f1:session:%d", eventID) }
func keyDrivers(eventID int) string { return fmt.Sprintf("f1:drivers:%d", eventID) }

func (c *Cached) FindEvents(ctx context.Context, f Filter) ([]Session, error) {
	// listagens filtradas não são cacheadas: a cardinalidade de filtros não
	// compensa as chaves
	return c.next.FindEvents(ctx, f)
}

func (c *Cached) FindEventByID(ctx context.Context, eventID int) (Session, bool, error) {
	var s Session
	if ok := c.cacheGet(ctx, keySession(eventID), &s); ok {
		return s, true, nil
	}

	s, found, err := c.next.FindEventByID(ctx, eventID)
	if err != nil || !found {
		return s, found, err
	}

	c.cacheSet(ctx, keySession(eventID), s)
	return s, true, nil
}

func (c *Cached) DriversByEvent(ctx context.Context, eventID int) ([]Driver, error) {
	var ds []Driver
	if ok := c.cacheGet(ctx, keyDrivers(eventID), &ds); ok {
		return ds, nil
	}

	ds, err := c.next.DriversByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(ds) > 0 {
		c.cacheSet(ctx, keyDrivers(eventID), ds)
	}
	return ds, nil
}

func (c *Cached) WinnerByEvent(ctx context.Context, eventID int) (int, bool, error) {
	return c.next.WinnerByEvent(ctx, eventID)
}

// cacheGet tenta desserializar a chave; falha de cache nunca vira erro de
// negócio, só cache miss
func (c *Cached) cacheGet(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func (c *Cached) cacheSet(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
}
