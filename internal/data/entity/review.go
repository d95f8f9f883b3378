package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseSimple
	UserID     uuid.UUID `db:"user_id"`
	PropertyID uuid.UUID `db:"property_id"`
	BookingID  uuid.UUID `db:"booking_id"`
	Rating     int       `db:"rating"` // 1-5
	Comment    *string   `db:"comment"`
}
