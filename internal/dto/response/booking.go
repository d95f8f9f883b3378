package response

import (
	"encoding/json"
	"time"

	"picnify/internal/data/entity"
	"picnify/internal/pricing"
	"picnify/pkg/utils"
)

type BookingResponse struct {
	ID               string                `json:"id"`
	BookingCode      string                `json:"booking_code"`
	PropertyID       string                `json:"property_id"`
	PropertyTitle    string                `json:"property_title,omitempty"`
	UserID           string                `json:"user_id"`
	BookedBy         string                `json:"booked_by"`
	CheckInDate      time.Time             `json:"check_in_date"`
	CheckOutDate     time.Time             `json:"check_out_date"`
	Adults           int                   `json:"adults"`
	Children         int                   `json:"children"`
	Infants          int                   `json:"infants"`
	Subtotal         int64                 `json:"subtotal"`
	DiscountAmount   int64                 `json:"discount_amount"`
	CouponCode       *string               `json:"coupon_code,omitempty"`
	TotalAmount      int64                 `json:"total_amount"`
	TotalLabel       string                `json:"total_label"`
	Status           entity.BookingStatus  `json:"status"`
	PaymentStatus    pricing.PaymentStatus `json:"payment_status"`
	PaymentReference *string               `json:"payment_reference,omitempty"`
	Cancellation     *CancellationResponse `json:"cancellation,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

type CancellationResponse struct {
	Type            entity.CancellationType `json:"cancellation_type"`
	Reason          string                  `json:"reason"`
	CancelledAt     time.Time               `json:"cancelled_at"`
	CancelledBy     string                  `json:"cancelled_by"`
	FeePercentage   int                     `json:"fee_percentage"`
	FeeAmount       int64                   `json:"fee_amount"`
	RefundAmount    int64                   `json:"refund_amount"`
	FeeLabel        string                  `json:"fee_label"`
	RefundLabel     string                  `json:"refund_label"`
	RefundReference *string                 `json:"refund_reference,omitempty"`
	PolicyMessage   string                  `json:"policy_message"`
}

// CancellationQuoteResponse is what a caller sees before confirming.
type CancellationQuoteResponse struct {
	BookingID              string                `json:"booking_id"`
	BookingCode            string                `json:"booking_code"`
	TotalAmount            int64                 `json:"total_amount"`
	FeePercentage          int                   `json:"fee_percentage"`
	FeeAmount              int64                 `json:"fee_amount"`
	RefundAmount           int64                 `json:"refund_amount"`
	TotalLabel             string                `json:"total_label"`
	FeeLabel               string                `json:"fee_label"`
	RefundLabel            string                `json:"refund_label"`
	PolicyMessage          string                `json:"policy_message"`
	HoursUntilCheckIn      float64               `json:"hours_until_check_in"`
	ResultingPaymentStatus pricing.PaymentStatus `json:"resulting_payment_status"`
	QuotedAt               time.Time             `json:"quoted_at"`
}

type AuditLogResponse struct {
	ID        string             `json:"id"`
	Action    entity.AuditAction `json:"action"`
	ActorID   *string            `json:"actor_id,omitempty"`
	Reason    *string            `json:"reason,omitempty"`
	Metadata  json.RawMessage    `json:"metadata,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

func BookingToResponse(b *entity.Booking, propertyTitle string) BookingResponse {
	resp := BookingResponse{
		ID:               b.ID.String(),
		BookingCode:      b.BookingCode,
		PropertyID:       b.PropertyID.String(),
		PropertyTitle:    propertyTitle,
		UserID:           b.UserID.String(),
		BookedBy:         b.BookedBy.String(),
		CheckInDate:      b.CheckInDate,
		CheckOutDate:     b.CheckOutDate,
		Adults:           b.Adults,
		Children:         b.Children,
		Infants:          b.Infants,
		Subtotal:         b.Subtotal,
		DiscountAmount:   b.DiscountAmount,
		CouponCode:       b.CouponCode,
		TotalAmount:      b.TotalAmount,
		TotalLabel:       utils.FormatINR(b.TotalAmount),
		Status:           b.Status,
		PaymentStatus:    b.PaymentStatus,
		PaymentReference: b.PaymentReference,
		CreatedAt:        b.CreatedAt,
	}

	if c := b.Cancellation; c != nil {
		resp.Cancellation = &CancellationResponse{
			Type:            c.Type,
			Reason:          c.Reason,
			CancelledAt:     c.CancelledAt,
			CancelledBy:     c.CancelledBy.String(),
			FeePercentage:   c.FeePercentage,
			FeeAmount:       c.FeeAmount,
			RefundAmount:    c.RefundAmount,
			FeeLabel:        utils.FormatINR(c.FeeAmount),
			RefundLabel:     utils.FormatINR(c.RefundAmount),
			RefundReference: c.RefundReference,
			PolicyMessage:   c.PolicyMessage,
		}
	}

	return resp
}

func QuoteToResponse(b *entity.Booking, q pricing.CancellationQuote, quotedAt time.Time) CancellationQuoteResponse {
	return CancellationQuoteResponse{
		BookingID:              b.ID.String(),
		BookingCode:            b.BookingCode,
		TotalAmount:            q.TotalAmount,
		FeePercentage:          q.FeePercentage,
		FeeAmount:              q.FeeAmount,
		RefundAmount:           q.RefundAmount,
		TotalLabel:             utils.FormatINR(q.TotalAmount),
		FeeLabel:               utils.FormatINR(q.FeeAmount),
		RefundLabel:            utils.FormatINR(q.RefundAmount),
		PolicyMessage:          q.PolicyMessage,
		HoursUntilCheckIn:      q.HoursUntilCheckIn,
		ResultingPaymentStatus: pricing.ResultingPaymentStatus(q),
		QuotedAt:               quotedAt,
	}
}

func AuditLogToResponse(a *entity.BookingAuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:        a.ID.String(),
		Action:    a.Action,
		Reason:    a.Reason,
		Metadata:  a.Metadata,
		CreatedAt: a.CreatedAt,
	}
	if a.ActorID != nil {
		id := a.ActorID.String()
		resp.ActorID = &id
	}
	return resp
}
