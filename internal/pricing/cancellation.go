// Package pricing holds the pure money calculations of a booking: the
// cancellation policy, coupon discounts and guest pricing. Amounts are int64
// minor units (paise). Nothing here reads the clock or touches storage.
package pricing

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrCouponNotApplicable = errors.New("coupon not applicable")
)

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusCompleted         PaymentStatus = "completed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

const (
	freeCancellationWindow = 48 * time.Hour
	reducedFeeWindow       = 24 * time.Hour
)

const (
	MessageFreeCancellation = "Free cancellation."
	MessageQuarterFee       = "25% cancellation fee."
	MessageHalfFee          = "50% cancellation fee."
	MessageNoRefund         = "No refund (past check-in date)."
)

// CancellationQuote is the not-yet-applied outcome of cancelling a booking.
type CancellationQuote struct {
	TotalAmount       int64   `json:"total_amount"`
	FeePercentage     int     `json:"fee_percentage"`
	FeeAmount         int64   `json:"fee_amount"`
	RefundAmount      int64   `json:"refund_amount"`
	PolicyMessage     string  `json:"policy_message"`
	HoursUntilCheckIn float64 `json:"hours_until_check_in"`
}

// FeeTier maps the time left before check-in to a fee percentage and label.
// Boundaries belong to the stricter tier: exactly 48h is 25%, exactly 24h is
// 50%, and zero or less is 100%.
func FeeTier(untilCheckIn time.Duration) (int, string) {
	switch {
	case untilCheckIn > freeCancellationWindow:
		return 0, MessageFreeCancellation
	case untilCheckIn > reducedFeeWindow:
		return 25, MessageQuarterFee
	case untilCheckIn > 0:
		return 50, MessageHalfFee
	default:
		return 100, MessageNoRefund
	}
}

// Quote computes the cancellation fee and refund for a booking.
func Quote(checkIn time.Time, totalAmount int64, now time.Time) (CancellationQuote, error) {
	if totalAmount < 0 {
		return CancellationQuote{}, fmt.Errorf("%w: total amount %d is negative", ErrInvalidArgument, totalAmount)
	}

	until := checkIn.Sub(now)
	pct, message := FeeTier(until)

	fee := percentOf(totalAmount, pct)

	return CancellationQuote{
		TotalAmount:       totalAmount,
		FeePercentage:     pct,
		FeeAmount:         fee,
		RefundAmount:      totalAmount - fee,
		PolicyMessage:     message,
		HoursUntilCheckIn: until.Hours(),
	}, nil
}

// ResultingPaymentStatus is the payment label a booking carries once the
// quote is applied.
func ResultingPaymentStatus(q CancellationQuote) PaymentStatus {
	switch {
	case q.FeeAmount == q.TotalAmount:
		return PaymentStatusCompleted
	case q.FeeAmount == 0:
		return PaymentStatusRefunded
	default:
		return PaymentStatusPartiallyRefunded
	}
}

// percentOf truncates toward zero; callers only pass non-negative amounts
// and pct in [0, 100]. Splitting on 100 keeps every intermediate within
// amount, so it cannot overflow.
func percentOf(amount int64, pct int) int64 {
	p := int64(pct)
	return amount/100*p + amount%100*p/100
}
