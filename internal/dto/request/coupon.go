package request

import "time"

type CreateCouponRequest struct {
	Code           string     `json:"code" validate:"required,alphanum,min=3,max=30"`
	Description    *string    `json:"description,omitempty" validate:"omitempty,max=300"`
	DiscountType   string     `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue  int64      `json:"discount_value" validate:"required,min=1"`
	MaxDiscount    int64      `json:"max_discount" validate:"min=0"`
	MinOrderAmount int64      `json:"min_order_amount" validate:"min=0"`
	ValidFrom      *time.Time `json:"valid_from,omitempty"`
	ValidUntil     *time.Time `json:"valid_until,omitempty"`
	UsageLimit     *int       `json:"usage_limit,omitempty" validate:"omitempty,min=1"`
}

type PreviewCouponRequest struct {
	Code   string `json:"code" validate:"required"`
	Amount int64  `json:"amount" validate:"min=0"`
}
