package pricing

import (
	"errors"
	"math"
	"testing"
	"time"
)

var checkIn = time.Date(2026, 11, 20, 10, 0, 0, 0, time.UTC)

func TestQuoteScenarios(t *testing.T) {
	tests := []struct {
		name        string
		before      time.Duration
		wantPct     int
		wantFee     int64
		wantRefund  int64
		wantMessage string
		wantStatus  PaymentStatus
	}{
		{
			name:        "72 hours before check-in is free",
			before:      72 * time.Hour,
			wantPct:     0,
			wantFee:     0,
			wantRefund:  1000,
			wantMessage: "Free cancellation.",
			wantStatus:  PaymentStatusRefunded,
		},
		{
			name:        "36 hours before check-in costs a quarter",
			before:      36 * time.Hour,
			wantPct:     25,
			wantFee:     250,
			wantRefund:  750,
			wantMessage: "25% cancellation fee.",
			wantStatus:  PaymentStatusPartiallyRefunded,
		},
		{
			name:        "10 hours before check-in costs half",
			before:      10 * time.Hour,
			wantPct:     50,
			wantFee:     500,
			wantRefund:  500,
			wantMessage: "50% cancellation fee.",
			wantStatus:  PaymentStatusPartiallyRefunded,
		},
		{
			name:        "2 hours after check-in refunds nothing",
			before:      -2 * time.Hour,
			wantPct:     100,
			wantFee:     1000,
			wantRefund:  0,
			wantMessage: "No refund (past check-in date).",
			wantStatus:  PaymentStatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Quote(checkIn, 1000, checkIn.Add(-tt.before))
			if err != nil {
				t.Fatalf("Quote returned error: %v", err)
			}
			if q.FeePercentage != tt.wantPct {
				t.Fatalf("expected fee percentage %d, got %d", tt.wantPct, q.FeePercentage)
			}
			if q.FeeAmount != tt.wantFee || q.RefundAmount != tt.wantRefund {
				t.Fatalf("expected fee=%d refund=%d, got fee=%d refund=%d", tt.wantFee, tt.wantRefund, q.FeeAmount, q.RefundAmount)
			}
			if q.PolicyMessage != tt.wantMessage {
				t.Fatalf("expected message %q, got %q", tt.wantMessage, q.PolicyMessage)
			}
			if got := ResultingPaymentStatus(q); got != tt.wantStatus {
				t.Fatalf("expected payment status %s, got %s", tt.wantStatus, got)
			}
		})
	}
}

func TestQuoteBoundariesBelongToStricterTier(t *testing.T) {
	tests := []struct {
		before  time.Duration
		wantPct int
	}{
		{before: 48*time.Hour + time.Nanosecond, wantPct: 0},
		{before: 48 * time.Hour, wantPct: 25},
		{before: 24*time.Hour + time.Nanosecond, wantPct: 25},
		{before: 24 * time.Hour, wantPct: 50},
		{before: time.Nanosecond, wantPct: 50},
		{before: 0, wantPct: 100},
	}

	for _, tt := range tests {
		t.Run(tt.before.String(), func(t *testing.T) {
			q, err := Quote(checkIn, 1000, checkIn.Add(-tt.before))
			if err != nil {
				t.Fatalf("Quote returned error: %v", err)
			}
			if q.FeePercentage != tt.wantPct {
				t.Fatalf("expected %d%% at %s before check-in, got %d%%", tt.wantPct, tt.before, q.FeePercentage)
			}
		})
	}
}

func TestQuoteFeePlusRefundEqualsTotal(t *testing.T) {
	amounts := []int64{0, 1, 3, 99, 101, 12345, 999999, 7_500_050, 100_000_000_000_000_000, math.MaxInt64}
	offsets := []time.Duration{100 * time.Hour, 47 * time.Hour, 23 * time.Hour, -time.Hour}

	for _, amount := range amounts {
		for _, off := range offsets {
			q, err := Quote(checkIn, amount, checkIn.Add(-off))
			if err != nil {
				t.Fatalf("Quote(%d) returned error: %v", amount, err)
			}
			if q.FeeAmount+q.RefundAmount != amount {
				t.Fatalf("fee %d + refund %d != total %d", q.FeeAmount, q.RefundAmount, amount)
			}
			if q.FeeAmount < 0 || q.FeeAmount > amount {
				t.Fatalf("fee %d outside [0, %d]", q.FeeAmount, amount)
			}
		}
	}
}

func TestQuoteLargeAmountSameDay(t *testing.T) {
	const total int64 = 100_000_000_000_000_000
	q, err := Quote(checkIn, total, checkIn.Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if q.FeeAmount != total/2 || q.RefundAmount != total/2 {
		t.Fatalf("expected an even split of %d, got fee %d refund %d", total, q.FeeAmount, q.RefundAmount)
	}
}

func TestQuoteFeeIsMonotonic(t *testing.T) {
	prev := -1
	for h := 120; h >= -24; h-- {
		q, err := Quote(checkIn, 5000, checkIn.Add(-time.Duration(h)*time.Hour))
		if err != nil {
			t.Fatalf("Quote returned error: %v", err)
		}
		if q.FeePercentage < prev {
			t.Fatalf("fee percentage dropped from %d to %d at %dh", prev, q.FeePercentage, h)
		}
		prev = q.FeePercentage
	}
}

func TestQuoteIsIdempotent(t *testing.T) {
	now := checkIn.Add(-30 * time.Hour)
	first, err := Quote(checkIn, 4321, now)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	second, err := Quote(checkIn, 4321, now)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical quotes, got %+v and %+v", first, second)
	}
}

func TestQuoteRejectsNegativeTotal(t *testing.T) {
	_, err := Quote(checkIn, -1, checkIn.Add(-72*time.Hour))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestResultingPaymentStatusZeroTotalIsCompleted(t *testing.T) {
	q, err := Quote(checkIn, 0, checkIn.Add(-72*time.Hour))
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if got := ResultingPaymentStatus(q); got != PaymentStatusCompleted {
		t.Fatalf("expected completed for a zero total, got %s", got)
	}
}
