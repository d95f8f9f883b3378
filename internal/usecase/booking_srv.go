package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"picnify/internal/data/entity"
	"picnify/internal/data/repository"
	"picnify/internal/dto/request"
	"picnify/internal/dto/response"
	"picnify/internal/pricing"
	"picnify/pkg/events"
	"picnify/pkg/gateway"
	"picnify/pkg/mailer"
	"picnify/pkg/metrics"
	"picnify/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, actor utils.Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	ConfirmPayment(ctx context.Context, actor utils.Actor, bookingID string, req *request.ConfirmPaymentRequest) (*response.BookingResponse, error)

	GetMyBookings(ctx context.Context, actor utils.Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetPropertyBookings(ctx context.Context, actor utils.Actor, propertyID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByID(ctx context.Context, actor utils.Actor, bookingID string) (*response.BookingResponse, error)

	// Cancellation
	QuoteCancellation(ctx context.Context, actor utils.Actor, bookingID string) (*response.CancellationQuoteResponse, error)
	CancelBooking(ctx context.Context, actor utils.Actor, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error)
	GetAuditTrail(ctx context.Context, actor utils.Actor, bookingID string) ([]response.AuditLogResponse, error)

	// ExpireStaleBookings moves pending bookings whose check-in has passed to
	// expired and returns how many were expired.
	ExpireStaleBookings(ctx context.Context) (int, error)
}

// defaultStayLength applies when a booking omits its check-out date.
const defaultStayLength = 24 * time.Hour

type bookingService struct {
	repo      *repository.Repository // groups booking, property, coupon, user and audit repos
	publisher events.Publisher
	refunder  gateway.Refunder
	mailer    mailer.Mailer
	metrics   *metrics.Metrics
	now       func() time.Time
	log       *zap.Logger
}

func NewBookingService(repo *repository.Repository, deps Deps, log *zap.Logger) BookingService {
	return &bookingService{
		repo:      repo,
		publisher: deps.Publisher,
		refunder:  deps.Refunder,
		mailer:    deps.Mailer,
		metrics:   deps.Metrics,
		now:       deps.Now,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor utils.Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// 1. Validate request
	if req.CouponCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.CouponCode))
		req.CouponCode = &code
		if code == "" {
			req.CouponCode = nil
		}
	}
	if err := validate(req); err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Resolve who the booking is for
	guestID, err := s.resolveGuest(ctx, actor, req.CustomerID)
	if err != nil {
		return nil, err
	}

	// 3. Property must exist and be listed
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property ID %q", ErrInvalidArgument, req.PropertyID)
	}
	property, err := s.repo.Property.FindByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}
	if property == nil || !property.IsActive {
		return nil, fmt.Errorf("%w: property not found", ErrNotFound)
	}

	// 4. Dates
	now := s.now()
	if !req.CheckInDate.After(now) {
		return nil, fmt.Errorf("%w: check-in date must be in the future", ErrInvalidArgument)
	}
	checkOut := req.CheckInDate.Add(defaultStayLength)
	if req.CheckOutDate != nil {
		if !req.CheckOutDate.After(req.CheckInDate) {
			return nil, fmt.Errorf("%w: check-out must be after check-in", ErrInvalidArgument)
		}
		checkOut = *req.CheckOutDate
	}

	// 5. Guests and price
	guests, err := pricing.PriceGuests(pricing.GuestRates{
		AdultRate: property.AdultRate,
		ChildRate: property.ChildRate,
	}, req.Adults, req.ChildAges)
	if err != nil {
		return nil, mapPricingError(err)
	}
	if guests.Guests() > property.MaxGuests {
		return nil, fmt.Errorf("%w: %d guests exceed the property limit of %d",
			ErrInvalidArgument, guests.Guests(), property.MaxGuests)
	}

	// 6. Coupon
	var discount int64
	if req.CouponCode != nil {
		discount, err = s.couponDiscount(ctx, *req.CouponCode, guests.Total, now)
		if err != nil {
			return nil, err
		}
	}

	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingCode:    utils.GenerateBookingCode(now),
		PropertyID:     property.ID,
		UserID:         guestID,
		BookedBy:       actor.UserID,
		CheckInDate:    req.CheckInDate,
		CheckOutDate:   checkOut,
		Adults:         guests.Adults,
		Children:       guests.Children,
		Infants:        guests.Infants,
		Subtotal:       guests.Total,
		DiscountAmount: discount,
		CouponCode:     req.CouponCode,
		TotalAmount:    guests.Total - discount,
		Status:         entity.BookingStatusPending,
		PaymentStatus:  pricing.PaymentStatusPending,
	}

	audit := s.newAudit(booking.ID, &actor.UserID, entity.AuditBookingCreated, nil, map[string]any{
		"subtotal":        booking.Subtotal,
		"discount_amount": booking.DiscountAmount,
		"total_amount":    booking.TotalAmount,
		"coupon_code":     booking.CouponCode,
		"guests":          guests,
	})

	// 7. Save booking, coupon redemption and audit row together
	if err := s.repo.Booking.Create(ctx, booking, audit); err != nil {
		if errors.Is(err, repository.ErrCouponExhausted) {
			return nil, fmt.Errorf("%w: coupon %s usage limit reached", ErrConflict, *req.CouponCode)
		}
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("actor_id", actor.UserID.String()),
			zap.String("property_id", req.PropertyID),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.String("booked_by", actor.UserID.String()),
		zap.Int("guests", guests.Guests()),
		zap.Int64("total_amount", booking.TotalAmount),
	)

	s.publish(ctx, events.RoutingBookingCreated, booking, &actor.UserID, nil)
	s.metrics.BookingCreated()

	resp := response.BookingToResponse(booking, property.Title)
	return &resp, nil
}

// ConfirmPayment records a captured gateway payment against a pending booking.
func (s *bookingService) ConfirmPayment(ctx context.Context, actor utils.Actor, bookingID string, req *request.ConfirmPaymentRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.BookedBy != actor.UserID && booking.UserID != actor.UserID && actor.Role != string(entity.RoleAdmin) {
		return nil, fmt.Errorf("%w: not your booking", ErrForbidden)
	}

	if booking.Status != entity.BookingStatusPending {
		return nil, fmt.Errorf("%w: booking is %s, cannot confirm payment", ErrConflict, booking.Status)
	}

	if req.Amount != booking.TotalAmount {
		return nil, fmt.Errorf("%w: payment amount %s does not match booking total %s",
			ErrInvalidArgument, utils.FormatINR(req.Amount), utils.FormatINR(booking.TotalAmount))
	}

	reference := strings.TrimSpace(req.PaymentReference)
	audit := s.newAudit(booking.ID, &actor.UserID, entity.AuditBookingConfirmed, nil, map[string]any{
		"payment_reference": reference,
		"amount":            req.Amount,
	})

	if err := s.repo.Booking.Confirm(ctx, booking.ID, reference, audit); err != nil {
		if errors.Is(err, repository.ErrBookingStateChanged) {
			return nil, fmt.Errorf("%w: booking changed while confirming payment", ErrConflict)
		}
		s.log.Error("Failed to confirm booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("confirm booking: %w", err)
	}

	booking.Status = entity.BookingStatusConfirmed
	booking.PaymentStatus = pricing.PaymentStatusCompleted
	booking.PaymentReference = &reference
	booking.UpdatedAt = s.now()

	s.log.Info("Payment confirmed",
		zap.String("booking_id", bookingID),
		zap.String("payment_reference", reference),
		zap.Int64("amount", req.Amount),
	)

	s.publish(ctx, events.RoutingBookingConfirmed, booking, &actor.UserID, nil)

	resp := response.BookingToResponse(booking, s.propertyTitle(ctx, booking.PropertyID))
	return &resp, nil
}

func (s *bookingService) GetMyBookings(ctx context.Context, actor utils.Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	req.Normalize()

	bookings, err := s.repo.Booking.FindByParticipant(ctx, actor.UserID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("user_id", actor.UserID.String()),
			zap.Int("page", req.Page),
		)
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByParticipant(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	return response.NewPaginatedResponse(s.toResponses(ctx, bookings), req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetPropertyBookings(ctx context.Context, actor utils.Actor, propertyID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	req.Normalize()

	id, err := uuid.Parse(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property ID %q", ErrInvalidArgument, propertyID)
	}

	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: property not found", ErrNotFound)
	}
	if property.OwnerID != actor.UserID && actor.Role != string(entity.RoleAdmin) {
		return nil, fmt.Errorf("%w: not your property", ErrForbidden)
	}

	bookings, err := s.repo.Booking.FindByPropertyID(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get property bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByPropertyID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count property bookings: %w", err)
	}

	items := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = response.BookingToResponse(b, property.Title)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, actor utils.Actor, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	property, err := s.authorize(ctx, actor, booking)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking, property.Title)
	return &resp, nil
}

func (s *bookingService) ExpireStaleBookings(ctx context.Context) (int, error) {
	expired, err := s.repo.Booking.ExpireStale(ctx, s.now())
	if err != nil {
		s.log.Error("Failed to expire stale bookings", zap.Error(err))
		return 0, fmt.Errorf("expire stale bookings: %w", err)
	}

	for _, booking := range expired {
		s.publish(ctx, events.RoutingBookingExpired, booking, nil, nil)
	}
	s.metrics.BookingsExpiredBy(len(expired))

	if len(expired) > 0 {
		s.log.Info("Stale bookings expired", zap.Int("count", len(expired)))
	}
	return len(expired), nil
}

// ==================== HELPER METHODS ====================

// resolveGuest returns the customer a booking is placed for. Customers book
// for themselves; agents must name an existing customer.
func (s *bookingService) resolveGuest(ctx context.Context, actor utils.Actor, customerID *string) (uuid.UUID, error) {
	switch entity.UserRole(actor.Role) {
	case entity.RoleCustomer:
		if customerID != nil && *customerID != actor.UserID.String() {
			return uuid.Nil, fmt.Errorf("%w: customers can only book for themselves", ErrForbidden)
		}
		return actor.UserID, nil

	case entity.RoleAgent:
		if customerID == nil {
			return uuid.Nil, &ValidationError{Fields: map[string]string{
				"customer_id": "This field is required when booking as an agent",
			}}
		}
		id, err := uuid.Parse(*customerID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: invalid customer ID", ErrInvalidArgument)
		}
		customer, err := s.repo.User.FindByID(ctx, id)
		if err != nil {
			return uuid.Nil, fmt.Errorf("find customer: %w", err)
		}
		if customer == nil || customer.Role != entity.RoleCustomer || !customer.IsActive {
			return uuid.Nil, fmt.Errorf("%w: customer not found", ErrNotFound)
		}
		return customer.ID, nil

	default:
		return uuid.Nil, fmt.Errorf("%w: only customers and agents can book", ErrForbidden)
	}
}

func (s *bookingService) couponDiscount(ctx context.Context, code string, amount int64, now time.Time) (int64, error) {
	coupon, err := s.repo.Coupon.FindByCode(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("find coupon: %w", err)
	}
	if coupon == nil {
		return 0, fmt.Errorf("%w: coupon %s not found", ErrInvalidArgument, code)
	}
	if coupon.Exhausted() {
		return 0, fmt.Errorf("%w: coupon %s usage limit reached", ErrConflict, code)
	}

	discount, err := pricing.CouponDiscount(coupon.Terms(), amount, now)
	if err != nil {
		return 0, mapPricingError(err)
	}
	return discount, nil
}

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %q", ErrInvalidArgument, bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking not found", ErrNotFound)
	}
	return booking, nil
}

// authorize allows the booked customer, the booking agent, the property owner
// and admins. It returns the booking's property.
func (s *bookingService) authorize(ctx context.Context, actor utils.Actor, booking *entity.Booking) (*entity.Property, error) {
	property, err := s.repo.Property.FindByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}
	if property == nil {
		// soft-deleted listings still own their bookings
		property = &entity.Property{Base: entity.Base{ID: booking.PropertyID}}
	}

	switch {
	case actor.Role == string(entity.RoleAdmin):
	case booking.UserID == actor.UserID:
	case booking.BookedBy == actor.UserID:
	case property.OwnerID == actor.UserID:
	default:
		s.log.Warn("Booking access denied",
			zap.String("booking_id", booking.ID.String()),
			zap.String("actor_id", actor.UserID.String()),
			zap.String("role", actor.Role),
		)
		return nil, fmt.Errorf("%w: not allowed to access this booking", ErrForbidden)
	}

	return property, nil
}

func (s *bookingService) toResponses(ctx context.Context, bookings []*entity.Booking) []response.BookingResponse {
	titles := make(map[uuid.UUID]string)
	items := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		title, ok := titles[b.PropertyID]
		if !ok {
			title = s.propertyTitle(ctx, b.PropertyID)
			titles[b.PropertyID] = title
		}
		items[i] = response.BookingToResponse(b, title)
	}
	return items
}

func (s *bookingService) propertyTitle(ctx context.Context, id uuid.UUID) string {
	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil || property == nil {
		return ""
	}
	return property.Title
}

func (s *bookingService) newAudit(bookingID uuid.UUID, actorID *uuid.UUID, action entity.AuditAction, reason *string, metadata any) *entity.BookingAuditLog {
	raw, err := json.Marshal(metadata)
	if err != nil {
		s.log.Warn("Failed to encode audit metadata", zap.Error(err), zap.String("action", string(action)))
		raw = nil
	}

	return &entity.BookingAuditLog{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.now(),
		},
		BookingID: bookingID,
		ActorID:   actorID,
		Action:    action,
		Reason:    reason,
		Metadata:  raw,
	}
}

// publish is best-effort: the booking change is already committed.
func (s *bookingService) publish(ctx context.Context, routingKey string, b *entity.Booking, actorID *uuid.UUID, q *pricing.CancellationQuote) {
	event := events.BookingEvent{
		EventID:       uuid.New(),
		Type:          routingKey,
		BookingID:     b.ID,
		BookingCode:   b.BookingCode,
		PropertyID:    b.PropertyID,
		UserID:        b.UserID,
		ActorID:       actorID,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		TotalAmount:   b.TotalAmount,
		OccurredAt:    s.now(),
	}
	if q != nil {
		event.FeeAmount = q.FeeAmount
		event.RefundAmount = q.RefundAmount
	}

	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("routing_key", routingKey),
			zap.String("booking_id", b.ID.String()),
		)
		s.metrics.SideEffectFailed("publish")
	}
}
