package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	BookingCancelled     = "booking.cancelled"
	BookingReviewed      = "booking.reviewed"
)

// BookingEvent is published after the transaction that produced it commits.
type BookingEvent struct {
	Type          string    `json:"event"`
	BookingID     string    `json:"booking_id"`
	ClientID      string    `json:"client_id"`
	ExpertID      string    `json:"expert_id"`
	Status        string    `json:"status,omitempty"`
	Rating        *int      `json:"rating,omitempty"`
	AverageRating *float64  `json:"average_rating,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, evt BookingEvent) error
	Close() error
}

type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(ctx context.Context, url, channel string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisPublisher{rdb: rdb, channel: channel}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, evt BookingEvent) error {
	payload, err := Encode(evt)
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

// Encode is the wire format of a booking event.
func Encode(evt BookingEvent) ([]byte, error) {
	if evt.Type == "" {
		return nil, fmt.Errorf("booking event without type")
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", evt.Type, err)
	}
	return payload, nil
}

// NopPublisher drops every event. Used when no Redis URL is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, BookingEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
