package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base is for rows that are soft-deleted: users, properties and bookings.
type Base struct {
	ID        uuid.UUID  `db:"id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

// BaseNoDelete is for mutable rows that are never deleted (coupons are
// deactivated, bank details are overwritten).
type BaseNoDelete struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// BaseSimple is for append-only rows: sessions, OTPs, reviews and audit logs.
type BaseSimple struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}
