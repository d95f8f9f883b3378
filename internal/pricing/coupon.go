package pricing

import (
	"fmt"
	"time"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// CouponTerms is the part of a coupon that affects the discount.
type CouponTerms struct {
	Code           string
	DiscountType   DiscountType
	DiscountValue  int64 // percent for percentage coupons, paise for fixed ones
	MaxDiscount    int64 // 0 means uncapped
	MinOrderAmount int64
	ValidFrom      time.Time
	ValidUntil     time.Time
	IsActive       bool
}

// CouponDiscount returns the discount a coupon grants on orderAmount.
// The discount never exceeds the order amount.
func CouponDiscount(c CouponTerms, orderAmount int64, now time.Time) (int64, error) {
	if orderAmount < 0 {
		return 0, fmt.Errorf("%w: order amount %d is negative", ErrInvalidArgument, orderAmount)
	}
	if !c.IsActive {
		return 0, fmt.Errorf("%w: coupon %s is inactive", ErrCouponNotApplicable, c.Code)
	}
	if !c.ValidFrom.IsZero() && now.Before(c.ValidFrom) {
		return 0, fmt.Errorf("%w: coupon %s is not valid yet", ErrCouponNotApplicable, c.Code)
	}
	if !c.ValidUntil.IsZero() && now.After(c.ValidUntil) {
		return 0, fmt.Errorf("%w: coupon %s has expired", ErrCouponNotApplicable, c.Code)
	}
	if orderAmount < c.MinOrderAmount {
		return 0, fmt.Errorf("%w: coupon %s needs a minimum order of %d", ErrCouponNotApplicable, c.Code, c.MinOrderAmount)
	}

	var discount int64
	switch c.DiscountType {
	case DiscountPercentage:
		if c.DiscountValue < 0 || c.DiscountValue > 100 {
			return 0, fmt.Errorf("%w: percentage %d out of range", ErrInvalidArgument, c.DiscountValue)
		}
		discount = percentOf(orderAmount, int(c.DiscountValue))
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
	case DiscountFixed:
		if c.DiscountValue < 0 {
			return 0, fmt.Errorf("%w: fixed discount %d is negative", ErrInvalidArgument, c.DiscountValue)
		}
		discount = c.DiscountValue
	default:
		return 0, fmt.Errorf("%w: unknown discount type %q", ErrInvalidArgument, c.DiscountType)
	}

	if discount > orderAmount {
		discount = orderAmount
	}

	return discount, nil
}
