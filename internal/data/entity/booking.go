package entity

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus is a closed set. The zero value is not a valid status, so a
// booking that was never assigned one is caught by Valid.
type BookingStatus uint8

const (
	BookingStatusPending BookingStatus = iota + 1
	BookingStatusAccepted
	BookingStatusCanceled
	BookingStatusFinished
)

var bookingStatusNames = map[BookingStatus]string{
	BookingStatusPending:  "Pending",
	BookingStatusAccepted: "Accepted",
	BookingStatusCanceled: "Canceled",
	BookingStatusFinished: "Finished",
}

// BookingStatuses returns every status in declaration order.
func BookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusAccepted,
		BookingStatusCanceled,
		BookingStatusFinished,
	}
}

func ParseBookingStatus(v string) (BookingStatus, error) {
	for status, name := range bookingStatusNames {
		if name == v {
			return status, nil
		}
	}
	return 0, fmt.Errorf("invalid booking status %q", v)
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingStatusNames[s]
	return ok
}

func (s BookingStatus) String() string {
	if name, ok := bookingStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("BookingStatus(%d)", uint8(s))
}

func (s BookingStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid booking status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *BookingStatus) UnmarshalText(b []byte) error {
	status, err := ParseBookingStatus(string(b))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

func (s BookingStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid booking status %d", uint8(s))
	}
	return s.String(), nil
}

func (s *BookingStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into BookingStatus", src)
	}
}

type Booking struct {
	ID            uuid.UUID     `db:"id"`
	ClientID      uuid.UUID     `db:"client_id"`
	ExpertID      uuid.UUID     `db:"expert_id"` // Expert record id, not the expert's user id
	Description   string        `db:"description"`
	Status        BookingStatus `db:"status"`
	RequestedAt   time.Time     `db:"requested_at"`
	Rating        *int          `db:"rating"`
	ReviewComment *string       `db:"review_comment"`
}

func (b *Booking) IsReviewed() bool {
	return b.Rating != nil
}

// BookingParticipantView is a booking joined with the display data of both
// parties, as returned by the participant listing query.
type BookingParticipantView struct {
	Booking
	ExpertUserID uuid.UUID `db:"expert_user_id"`
	ExpertName   string    `db:"expert_name"`
	ExpertBio    *string   `db:"expert_bio"`
	ClientName   string    `db:"client_name"`
	ClientBio    *string   `db:"client_bio"`
}

// ExpertReview is a rated booking with the reviewing client's name.
type ExpertReview struct {
	BookingID     uuid.UUID `db:"booking_id"`
	ClientID      uuid.UUID `db:"client_id"`
	ClientName    *string   `db:"client_name"`
	Rating        int       `db:"rating"`
	ReviewComment *string   `db:"review_comment"`
	RequestedAt   time.Time `db:"requested_at"`
}
