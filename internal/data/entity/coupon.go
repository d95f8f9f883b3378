package entity

import (
	"time"

	"picnify/internal/pricing"
)

type Coupon struct {
	BaseNoDelete
	Code           string               `db:"code"`
	Description    *string              `db:"description"`
	DiscountType   pricing.DiscountType `db:"discount_type"`
	DiscountValue  int64                `db:"discount_value"`
	MaxDiscount    int64                `db:"max_discount"`
	MinOrderAmount int64                `db:"min_order_amount"`
	ValidFrom      *time.Time           `db:"valid_from"`
	ValidUntil     *time.Time           `db:"valid_until"`
	UsageLimit     *int                 `db:"usage_limit"`
	UsedCount      int                  `db:"used_count"`
	IsActive       bool                 `db:"is_active"`
}

// Terms projects the coupon onto the fields the discount calculation needs.
func (c *Coupon) Terms() pricing.CouponTerms {
	t := pricing.CouponTerms{
		Code:           c.Code,
		DiscountType:   c.DiscountType,
		DiscountValue:  c.DiscountValue,
		MaxDiscount:    c.MaxDiscount,
		MinOrderAmount: c.MinOrderAmount,
		IsActive:       c.IsActive,
	}
	if c.ValidFrom != nil {
		t.ValidFrom = *c.ValidFrom
	}
	if c.ValidUntil != nil {
		t.ValidUntil = *c.ValidUntil
	}
	return t
}

func (c *Coupon) Exhausted() bool {
	return c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit
}
