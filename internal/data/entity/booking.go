package entity

import (
	"time"

	"picnify/internal/pricing"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
)

// Cancellable reports whether a booking in this status may still be cancelled.
func (s BookingStatus) Cancellable() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type CancellationType string

const (
	CancellationChangeOfPlans    CancellationType = "change_of_plans"
	CancellationWeather          CancellationType = "weather"
	CancellationEmergency        CancellationType = "emergency"
	CancellationDuplicateBooking CancellationType = "duplicate_booking"
	CancellationPropertyIssue    CancellationType = "property_issue"
	CancellationOther            CancellationType = "other"
)

type Booking struct {
	Base
	BookingCode      string                `db:"booking_code"`
	PropertyID       uuid.UUID             `db:"property_id"`
	UserID           uuid.UUID             `db:"user_id"`   // guest the booking is for
	BookedBy         uuid.UUID             `db:"booked_by"` // customer or agent who placed it
	CheckInDate      time.Time             `db:"check_in_date"`
	CheckOutDate     time.Time             `db:"check_out_date"`
	Adults           int                   `db:"adults"`
	Children         int                   `db:"children"`
	Infants          int                   `db:"infants"`
	Subtotal         int64                 `db:"subtotal"`
	DiscountAmount   int64                 `db:"discount_amount"`
	CouponCode       *string               `db:"coupon_code"`
	TotalAmount      int64                 `db:"total_amount"`
	Status           BookingStatus         `db:"status"`
	PaymentStatus    pricing.PaymentStatus `db:"payment_status"`
	PaymentReference *string               `db:"payment_reference"`
	Cancellation     *BookingCancellation  `db:"-"`
}

// BookingCancellation is the applied outcome of a cancellation quote.
type BookingCancellation struct {
	Type            CancellationType `db:"cancellation_type"`
	Reason          string           `db:"cancellation_reason"`
	CancelledAt     time.Time        `db:"cancelled_at"`
	CancelledBy     uuid.UUID        `db:"cancelled_by"`
	FeePercentage   int              `db:"cancellation_fee_percentage"`
	FeeAmount       int64            `db:"cancellation_fee"`
	RefundAmount    int64            `db:"refund_amount"`
	RefundReference *string          `db:"refund_reference"`
	PolicyMessage   string           `db:"cancellation_policy"`
}
