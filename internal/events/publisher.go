package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/ThevergeOn/reservation-app/internal/model"
	"github.com/ThevergeOn/reservation-app/pkg/circuit_breaker"
	"github.com/ThevergeOn/reservation-app/pkg/clock"
	"go.uber.org/zap"
)

const Topic = "reservation-events"

type Type string

const (
	TypeCreated Type = "reservation.created"
	TypeUpdated Type = "reservation.updated"
	TypeDeleted Type = "reservation.deleted"
)

// Event is the lifecycle record published after a committed mutation, so
// read-side caches can invalidate. Delivery is best effort: the engine's
// state is already durable when an event is emitted.
type Event struct {
	Type        Type              `json:"type"`
	Reservation model.Reservation `json:"reservation"`
	OccurredAt  time.Time         `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	cb       circuit_breaker.CircuitBreaker
	clk      clock.Clock
	log      *zap.Logger
}

func NewPublisher(producer sarama.SyncProducer, clk clock.Clock, log *zap.Logger) Publisher {
	const (
		recordLength     = 20
		timeout          = 30 * time.Second
		percentile       = 0.5
		recoveryRequests = 3
	)
	return &kafkaPublisher{
		producer: producer,
		cb:       circuit_breaker.New(recordLength, timeout, percentile, recoveryRequests),
		clk:      clk,
		log:      log.Named("events"),
	}
}

func (p *kafkaPublisher) Publish(_ context.Context, ev Event) {
	ev.OccurredAt = p.clk.Now()
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("marshal event", zap.Error(err))
		return
	}
	if err := p.cb.Call(func() error {
		msg := &sarama.ProducerMessage{
			Topic: Topic,
			Key:   sarama.StringEncoder(ev.Reservation.ID),
			Value: sarama.ByteEncoder(data),
		}
		_, _, err := p.producer.SendMessage(msg)
		return err
	}); err != nil {
		p.log.Warn("publish event",
			zap.String("type", string(ev.Type)),
			zap.String("id", ev.Reservation.ID),
			zap.Error(err))
	}
}

type noopPublisher struct{}

// NewNoopPublisher is used when no brokers are configured.
func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, Event) {}
