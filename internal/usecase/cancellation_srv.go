package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"picnify/internal/data/entity"
	"picnify/internal/data/repository"
	"picnify/internal/dto/request"
	"picnify/internal/dto/response"
	"picnify/internal/pricing"
	"picnify/pkg/events"
	"picnify/pkg/gateway"
	"picnify/pkg/mailer"
	"picnify/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// cancellationMetadata is the fee breakdown stored on the booking.cancelled
// audit row.
type cancellationMetadata struct {
	CancellationType  entity.CancellationType `json:"cancellation_type"`
	PreviousStatus    entity.BookingStatus    `json:"previous_status"`
	TotalAmount       int64                   `json:"total_amount"`
	FeePercentage     int                     `json:"fee_percentage"`
	FeeAmount         int64                   `json:"fee_amount"`
	RefundAmount      int64                   `json:"refund_amount"`
	PaymentStatus     pricing.PaymentStatus   `json:"payment_status"`
	PolicyMessage     string                  `json:"policy_message"`
	HoursUntilCheckIn float64                 `json:"hours_until_check_in"`
}

// QuoteCancellation prices a cancellation at the current time without
// applying it.
func (s *bookingService) QuoteCancellation(ctx context.Context, actor utils.Actor, bookingID string) (*response.CancellationQuoteResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if _, err := s.authorize(ctx, actor, booking); err != nil {
		return nil, err
	}

	if !booking.Status.Cancellable() {
		return nil, fmt.Errorf("%w: booking is already %s", ErrConflict, booking.Status)
	}

	now := s.now()
	quote, err := pricing.Quote(booking.CheckInDate, booking.TotalAmount, now)
	if err != nil {
		return nil, mapPricingError(err)
	}

	resp := response.QuoteToResponse(booking, quote, now)
	return &resp, nil
}

// CancelBooking applies the cancellation policy to a booking. The status
// change and its audit row commit together; events, refunds and mail run
// afterwards and never undo the cancellation.
func (s *bookingService) CancelBooking(ctx context.Context, actor utils.Actor, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	// 1. Validate input before touching the booking
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validate(req); err != nil {
		s.log.Warn("Cancel booking validation failed", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, err
	}

	// 2. Load and authorize
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	property, err := s.authorize(ctx, actor, booking)
	if err != nil {
		return nil, err
	}

	if !booking.Status.Cancellable() {
		return nil, fmt.Errorf("%w: booking is already %s", ErrConflict, booking.Status)
	}

	// 3. Quote
	now := s.now()
	quote, err := pricing.Quote(booking.CheckInDate, booking.TotalAmount, now)
	if err != nil {
		return nil, mapPricingError(err)
	}
	paymentStatus := pricing.ResultingPaymentStatus(quote)

	cancellation := &entity.BookingCancellation{
		Type:          entity.CancellationType(req.CancellationType),
		Reason:        req.Reason,
		CancelledAt:   now,
		CancelledBy:   actor.UserID,
		FeePercentage: quote.FeePercentage,
		FeeAmount:     quote.FeeAmount,
		RefundAmount:  quote.RefundAmount,
		PolicyMessage: quote.PolicyMessage,
	}

	audit := s.newAudit(booking.ID, &actor.UserID, entity.AuditBookingCancelled, &req.Reason, cancellationMetadata{
		CancellationType:  cancellation.Type,
		PreviousStatus:    booking.Status,
		TotalAmount:       quote.TotalAmount,
		FeePercentage:     quote.FeePercentage,
		FeeAmount:         quote.FeeAmount,
		RefundAmount:      quote.RefundAmount,
		PaymentStatus:     paymentStatus,
		PolicyMessage:     quote.PolicyMessage,
		HoursUntilCheckIn: quote.HoursUntilCheckIn,
	})

	// 4. Apply
	if err := s.repo.Booking.Cancel(ctx, booking.ID, cancellation, paymentStatus, audit); err != nil {
		if errors.Is(err, repository.ErrBookingStateChanged) {
			s.log.Info("Cancellation lost a race",
				zap.String("booking_id", bookingID),
				zap.String("actor_id", actor.UserID.String()),
			)
			return nil, fmt.Errorf("%w: booking was cancelled or changed by another request", ErrConflict)
		}
		s.log.Error("Failed to cancel booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	booking.Status = entity.BookingStatusCancelled
	booking.PaymentStatus = paymentStatus
	booking.Cancellation = cancellation
	booking.UpdatedAt = now

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("booking_code", booking.BookingCode),
		zap.String("actor_id", actor.UserID.String()),
		zap.String("cancellation_type", req.CancellationType),
		zap.Int("fee_percentage", quote.FeePercentage),
		zap.Int64("fee_amount", quote.FeeAmount),
		zap.Int64("refund_amount", quote.RefundAmount),
	)

	// 5. Post-commit effects
	s.publish(ctx, events.RoutingBookingCancelled, booking, &actor.UserID, &quote)
	s.issueRefund(ctx, booking, actor.UserID)
	s.sendCancellationMail(ctx, booking, quote)
	s.metrics.BookingCancelled(quote.FeePercentage, quote.RefundAmount)

	resp := response.BookingToResponse(booking, property.Title)
	return &resp, nil
}

func (s *bookingService) GetAuditTrail(ctx context.Context, actor utils.Actor, bookingID string) ([]response.AuditLogResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if _, err := s.authorize(ctx, actor, booking); err != nil {
		return nil, err
	}

	logs, err := s.repo.AuditLog.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("get audit trail: %w", err)
	}

	items := make([]response.AuditLogResponse, len(logs))
	for i, l := range logs {
		items[i] = response.AuditLogToResponse(l)
	}
	return items, nil
}

// issueRefund sends the refund to the gateway when the booking was paid
// online and something is owed back.
func (s *bookingService) issueRefund(ctx context.Context, booking *entity.Booking, actorID uuid.UUID) {
	c := booking.Cancellation
	if c.RefundAmount <= 0 || booking.PaymentReference == nil {
		return
	}

	refundID, err := s.refunder.Refund(ctx, *booking.PaymentReference, c.RefundAmount, map[string]string{
		"booking_code": booking.BookingCode,
		"reason":       string(c.Type),
	})
	if err != nil {
		if errors.Is(err, gateway.ErrRefundUnavailable) {
			s.log.Info("Refund left for manual settlement",
				zap.String("booking_id", booking.ID.String()),
				zap.Int64("refund_amount", c.RefundAmount),
			)
			return
		}
		s.log.Error("Refund failed",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.Int64("refund_amount", c.RefundAmount),
		)
		s.metrics.SideEffectFailed("refund")
		return
	}

	audit := s.newAudit(booking.ID, &actorID, entity.AuditRefundIssued, nil, map[string]any{
		"refund_reference": refundID,
		"refund_amount":    c.RefundAmount,
	})
	if err := s.repo.Booking.SetRefundReference(ctx, booking.ID, refundID, audit); err != nil {
		s.log.Error("Failed to record refund reference",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("refund_reference", refundID),
		)
		s.metrics.SideEffectFailed("refund_record")
		return
	}

	c.RefundReference = &refundID
}

func (s *bookingService) sendCancellationMail(ctx context.Context, booking *entity.Booking, quote pricing.CancellationQuote) {
	user, err := s.repo.User.FindByID(ctx, booking.UserID)
	if err != nil || user == nil {
		s.log.Warn("Cancellation mail skipped: customer not found",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		s.metrics.SideEffectFailed("mail")
		return
	}

	body, err := mailer.RenderCancellation(mailer.CancellationMail{
		Name:          user.FullName,
		BookingCode:   booking.BookingCode,
		Total:         utils.FormatINR(quote.TotalAmount),
		Fee:           utils.FormatINR(quote.FeeAmount),
		Refund:        utils.FormatINR(quote.RefundAmount),
		FeePercentage: quote.FeePercentage,
		PolicyMessage: quote.PolicyMessage,
	})
	if err == nil {
		err = s.mailer.Send(ctx, user.Email, "Booking "+booking.BookingCode+" cancelled", body)
	}
	if err != nil {
		s.log.Warn("Failed to send cancellation mail",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		s.metrics.SideEffectFailed("mail")
	}
}
