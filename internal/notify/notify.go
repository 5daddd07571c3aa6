// Package notify delivers best-effort, per-seller real-time events over Redis
// pub/sub. Delivery failures never affect the operation that produced them.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	EventVentaPublicoCreada = "venta_publico.creada"
	EventCargaActualizada   = "carga.actualizada"
	EventCargaProcesada     = "carga.procesada"
)

// Event is the JSON message published on a seller channel.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	At   time.Time   `json:"at"`
}

// Channel is the pub/sub topic of one seller.
func Channel(sellerID uuid.UUID) string { return "seller:" + sellerID.String() }

type Publisher interface {
	Publish(ctx context.Context, sellerID uuid.UUID, eventType string, data interface{}) error
}

type RedisPublisher struct{ rdb *redis.Client }

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher { return &RedisPublisher{rdb: rdb} }

func (p *RedisPublisher) Publish(ctx context.Context, sellerID uuid.UUID, eventType string, data interface{}) error {
	msg, err := json.Marshal(Event{Type: eventType, Data: data, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, Channel(sellerID), msg).Err()
}

// Subscribe opens a subscription to the seller's channel. Callers must Close it.
func (p *RedisPublisher) Subscribe(ctx context.Context, sellerID uuid.UUID) *redis.PubSub {
	return p.rdb.Subscribe(ctx, Channel(sellerID))
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, uuid.UUID, string, interface{}) error { return nil }
