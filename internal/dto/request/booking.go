package request

import "time"

type CreateBookingRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
	// Agents must name the customer they book for; customers leave it empty.
	CustomerID   *string    `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	CheckInDate  time.Time  `json:"check_in_date" validate:"required"`
	CheckOutDate *time.Time `json:"check_out_date,omitempty"`
	Adults       int        `json:"adults" validate:"required,min=1,max=100"`
	ChildAges    []int      `json:"child_ages,omitempty" validate:"omitempty,max=100,dive,min=0,max=17"`
	CouponCode   *string    `json:"coupon_code,omitempty" validate:"omitempty,alphanum,max=30"`
}

type ConfirmPaymentRequest struct {
	PaymentReference string `json:"payment_reference" validate:"required,max=100"`
	Amount           int64  `json:"amount" validate:"min=0"`
}

type CancelBookingRequest struct {
	CancellationType string `json:"cancellation_type" validate:"required,oneof=change_of_plans weather emergency duplicate_booking property_issue other"`
	Reason           string `json:"reason" validate:"required,min=1,max=1000"`
}
