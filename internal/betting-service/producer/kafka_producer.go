package producer

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	skafka "github.com/sgbet/f1-betting-service/internal/shared/kafka"
	contracts "github.com/sgbet/f1-betting-service/pkg/contracts/events"
)

// KafkaPublisher emite os eventos de domínio nos tópicos bet_placed e
// event_settled. Publicação é best effort: quem chama decide se ignora o erro.
type KafkaPublisher struct {
	placed  *skafka.Writer
	settled *skafka.Writer
}

func NewKafkaPublisher(placed, settled *skafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{placed: placed, settled: settled}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e contracts.BetPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return skafka.WriteJSON(ctx, p.placed, strconv.FormatInt(e.BetID, 10), b)
}

func (p *KafkaPublisher) PublishEventSettled(ctx context.Context, e contracts.EventSettled) error {
	if e.Ts.IsZero() {
		e.Ts = time.Now()
	}
	b, _ := json.Marshal(e)
	return skafka.WriteJSON(ctx, p.settled, strconv.Itoa(e.EventID), b)
}
