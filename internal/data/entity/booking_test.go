package entity

import (
	"encoding/json"
	"testing"
)

func TestParseBookingStatus(t *testing.T) {
	for _, s := range BookingStatuses() {
		got, err := ParseBookingStatus(s.String())
		if err != nil || got != s {
			t.Errorf("ParseBookingStatus(%q) = %v, %v", s.String(), got, err)
		}
	}

	for _, bad := range []string{"", "pending", "Done", "Cancelled"} {
		if _, err := ParseBookingStatus(bad); err == nil {
			t.Errorf("ParseBookingStatus(%q) should fail", bad)
		}
	}
}

func TestBookingStatusJSON(t *testing.T) {
	var payload struct {
		Status BookingStatus `json:"status"`
	}

	if err := json.Unmarshal([]byte(`{"status":"Accepted"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Status != BookingStatusAccepted {
		t.Errorf("status = %s", payload.Status)
	}

	if err := json.Unmarshal([]byte(`{"status":"Archived"}`), &payload); err == nil {
		t.Error("unknown status should not decode")
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"status":"Accepted"}` {
		t.Errorf("marshal = %s", out)
	}

	if _, err := json.Marshal(struct{ S BookingStatus }{}); err == nil {
		t.Error("zero status should not encode")
	}
}

func TestBookingStatusSQL(t *testing.T) {
	v, err := BookingStatusFinished.Value()
	if err != nil || v != "Finished" {
		t.Fatalf("Value() = %v, %v", v, err)
	}
	if _, err := BookingStatus(0).Value(); err == nil {
		t.Error("zero status should not be stored")
	}

	var s BookingStatus
	if err := s.Scan([]byte("Canceled")); err != nil || s != BookingStatusCanceled {
		t.Errorf("Scan([]byte) = %v, %v", s, err)
	}
	if err := s.Scan("Pending"); err != nil || s != BookingStatusPending {
		t.Errorf("Scan(string) = %v, %v", s, err)
	}
	if err := s.Scan(int64(1)); err == nil {
		t.Error("Scan(int64) should fail")
	}
	if err := s.Scan("Unknown"); err == nil {
		t.Error("Scan of unknown name should fail")
	}
}

func TestBookingIsReviewed(t *testing.T) {
	b := &Booking{Status: BookingStatusFinished}
	if b.IsReviewed() {
		t.Error("fresh booking reported as reviewed")
	}
	rating := 7
	b.Rating = &rating
	if !b.IsReviewed() {
		t.Error("rated booking not reported as reviewed")
	}
}
