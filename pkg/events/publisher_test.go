package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestEncode(t *testing.T) {
	rating := 8
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	payload, err := Encode(BookingEvent{
		Type:       BookingReviewed,
		BookingID:  "b-1",
		ClientID:   "c-1",
		ExpertID:   "e-1",
		Rating:     &rating,
		OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["event"] != BookingReviewed || decoded["booking_id"] != "b-1" {
		t.Errorf("payload = %s", payload)
	}
	if decoded["rating"] != float64(8) {
		t.Errorf("rating = %v", decoded["rating"])
	}
	if _, ok := decoded["status"]; ok {
		t.Error("empty status should be omitted")
	}
}

func TestEncodeRequiresType(t *testing.T) {
	if _, err := Encode(BookingEvent{BookingID: "b-1"}); err == nil {
		t.Error("event without type should fail")
	}
}

func TestEncodeStampsTime(t *testing.T) {
	payload, err := Encode(BookingEvent{Type: BookingCreated})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded BookingEvent
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.OccurredAt.IsZero() {
		t.Error("occurred_at should default to now")
	}
}

func TestNewRedisPublisherRejectsBadURL(t *testing.T) {
	if _, err := NewRedisPublisher(context.Background(), "://nope", "ch"); err == nil {
		t.Error("bad url should fail")
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.Publish(context.Background(), BookingEvent{Type: BookingCreated}); err != nil {
		t.Errorf("Publish: %v", err)
	}
}
