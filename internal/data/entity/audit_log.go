package entity

import (
	"encoding/json"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditBookingCreated   AuditAction = "booking.created"
	AuditBookingConfirmed AuditAction = "booking.confirmed"
	AuditBookingCancelled AuditAction = "booking.cancelled"
	AuditBookingExpired   AuditAction = "booking.expired"
	AuditRefundIssued     AuditAction = "booking.refund_issued"
)

// BookingAuditLog rows are append-only.
type BookingAuditLog struct {
	BaseSimple
	BookingID uuid.UUID       `db:"booking_id"`
	ActorID   *uuid.UUID      `db:"actor_id"` // nil for system jobs
	Action    AuditAction     `db:"action"`
	Reason    *string         `db:"reason"`
	Metadata  json.RawMessage `db:"metadata"`
}
