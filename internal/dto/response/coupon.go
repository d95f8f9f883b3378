package response

import (
	"time"

	"picnify/internal/data/entity"
	"picnify/internal/pricing"
	"picnify/pkg/utils"
)

type CouponResponse struct {
	ID             string               `json:"id"`
	Code           string               `json:"code"`
	Description    *string              `json:"description,omitempty"`
	DiscountType   pricing.DiscountType `json:"discount_type"`
	DiscountValue  int64                `json:"discount_value"`
	MaxDiscount    int64                `json:"max_discount"`
	MinOrderAmount int64                `json:"min_order_amount"`
	ValidFrom      *time.Time           `json:"valid_from,omitempty"`
	ValidUntil     *time.Time           `json:"valid_until,omitempty"`
	UsageLimit     *int                 `json:"usage_limit,omitempty"`
	UsedCount      int                  `json:"used_count"`
	IsActive       bool                 `json:"is_active"`
	CreatedAt      time.Time            `json:"created_at"`
}

type CouponPreviewResponse struct {
	Code           string `json:"code"`
	OrderAmount    int64  `json:"order_amount"`
	DiscountAmount int64  `json:"discount_amount"`
	FinalAmount    int64  `json:"final_amount"`
	DiscountLabel  string `json:"discount_label"`
	FinalLabel     string `json:"final_label"`
}

func CouponToResponse(c *entity.Coupon) CouponResponse {
	return CouponResponse{
		ID:             c.ID.String(),
		Code:           c.Code,
		Description:    c.Description,
		DiscountType:   c.DiscountType,
		DiscountValue:  c.DiscountValue,
		MaxDiscount:    c.MaxDiscount,
		MinOrderAmount: c.MinOrderAmount,
		ValidFrom:      c.ValidFrom,
		ValidUntil:     c.ValidUntil,
		UsageLimit:     c.UsageLimit,
		UsedCount:      c.UsedCount,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
	}
}

func NewCouponPreview(code string, amount, discount int64) CouponPreviewResponse {
	return CouponPreviewResponse{
		Code:           code,
		OrderAmount:    amount,
		DiscountAmount: discount,
		FinalAmount:    amount - discount,
		DiscountLabel:  utils.FormatINR(discount),
		FinalLabel:     utils.FormatINR(amount - discount),
	}
}
