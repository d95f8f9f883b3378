package pricing

import (
	"errors"
	"testing"
	"time"
)

func TestCouponDiscount(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		coupon  CouponTerms
		amount  int64
		want    int64
		wantErr error
	}{
		{
			name:   "percentage without cap",
			coupon: CouponTerms{Code: "PICNIC10", DiscountType: DiscountPercentage, DiscountValue: 10, IsActive: true},
			amount: 250000,
			want:   25000,
		},
		{
			name:   "percentage capped by max discount",
			coupon: CouponTerms{Code: "BIG50", DiscountType: DiscountPercentage, DiscountValue: 50, MaxDiscount: 50000, IsActive: true},
			amount: 400000,
			want:   50000,
		},
		{
			name:   "fixed discount",
			coupon: CouponTerms{Code: "FLAT500", DiscountType: DiscountFixed, DiscountValue: 50000, IsActive: true},
			amount: 120000,
			want:   50000,
		},
		{
			name:   "fixed discount never exceeds order",
			coupon: CouponTerms{Code: "FLAT500", DiscountType: DiscountFixed, DiscountValue: 50000, IsActive: true},
			amount: 30000,
			want:   30000,
		},
		{
			name:    "inactive coupon",
			coupon:  CouponTerms{Code: "OLD", DiscountType: DiscountFixed, DiscountValue: 100, IsActive: false},
			amount:  1000,
			wantErr: ErrCouponNotApplicable,
		},
		{
			name:    "expired coupon",
			coupon:  CouponTerms{Code: "SUMMER", DiscountType: DiscountFixed, DiscountValue: 100, IsActive: true, ValidUntil: now.Add(-time.Hour)},
			amount:  1000,
			wantErr: ErrCouponNotApplicable,
		},
		{
			name:    "not yet valid",
			coupon:  CouponTerms{Code: "DIWALI", DiscountType: DiscountFixed, DiscountValue: 100, IsActive: true, ValidFrom: now.Add(time.Hour)},
			amount:  1000,
			wantErr: ErrCouponNotApplicable,
		},
		{
			name:    "below minimum order",
			coupon:  CouponTerms{Code: "MIN", DiscountType: DiscountFixed, DiscountValue: 100, IsActive: true, MinOrderAmount: 5000},
			amount:  4999,
			wantErr: ErrCouponNotApplicable,
		},
		{
			name:    "negative order amount",
			coupon:  CouponTerms{Code: "X", DiscountType: DiscountFixed, DiscountValue: 100, IsActive: true},
			amount:  -1,
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "unknown discount type",
			coupon:  CouponTerms{Code: "X", DiscountType: "bogo", DiscountValue: 100, IsActive: true},
			amount:  1000,
			wantErr: ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CouponDiscount(tt.coupon, tt.amount, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected discount %d, got %d", tt.want, got)
			}
		})
	}
}
