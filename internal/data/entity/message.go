package entity

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID        uuid.UUID `db:"id"`
	BookingID uuid.UUID `db:"booking_id"`
	SenderID  uuid.UUID `db:"sender_id"`
	Content   string    `db:"content"`
	SentAt    time.Time `db:"sent_at"`
}
