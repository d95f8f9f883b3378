package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"picnify/internal/data/entity"
	"picnify/internal/data/repository"
	"picnify/internal/dto/request"
	"picnify/internal/pricing"
	"picnify/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type bookingFixture struct {
	svc       BookingService
	bookings  *fakeBookingRepo
	coupons   *fakeCouponRepo
	publisher *fakePublisher
	property  *entity.Property
	customer  utils.Actor
	agent     utils.Actor
	owner     utils.Actor
}

// newBookingFixture lists an active property at 800 rupees per adult and
// 400 per child for up to six guests.
func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	customerID, agentID, ownerID := uuid.New(), uuid.New(), uuid.New()
	property := &entity.Property{
		Base:      entity.Base{ID: uuid.New()},
		OwnerID:   ownerID,
		Title:     "Mango Orchard Farmstay",
		AdultRate: 80000,
		ChildRate: 40000,
		MaxGuests: 6,
		IsActive:  true,
	}
	limit := 1

	f := &bookingFixture{
		bookings: &fakeBookingRepo{bookings: map[uuid.UUID]*entity.Booking{}},
		coupons: &fakeCouponRepo{coupons: map[string]*entity.Coupon{
			"SAVE10": {Code: "SAVE10", DiscountType: pricing.DiscountPercentage, DiscountValue: 10, IsActive: true},
			"USEDUP": {Code: "USEDUP", DiscountType: pricing.DiscountFixed, DiscountValue: 500, IsActive: true, UsageLimit: &limit, UsedCount: 1},
		}},
		publisher: &fakePublisher{},
		property:  property,
		customer:  utils.Actor{UserID: customerID, Role: string(entity.RoleCustomer)},
		agent:     utils.Actor{UserID: agentID, Role: string(entity.RoleAgent)},
		owner:     utils.Actor{UserID: ownerID, Role: string(entity.RoleOwner)},
	}

	repo := &repository.Repository{
		Booking:  f.bookings,
		Property: &fakePropertyRepo{property: property},
		Coupon:   f.coupons,
		User: &fakeUserRepo{user: &entity.User{
			Base:     entity.Base{ID: customerID},
			FullName: "Ravi Menon",
			Role:     entity.RoleCustomer,
			IsActive: true,
		}},
	}
	f.svc = NewBookingService(repo, Deps{
		Publisher: f.publisher,
		Refunder:  &fakeRefunder{},
		Mailer:    &fakeMailer{},
		Now:       func() time.Time { return fixedNow },
	}, zap.NewNop())
	return f
}

func (f *bookingFixture) request() *request.CreateBookingRequest {
	checkOut := fixedNow.Add(96 * time.Hour)
	return &request.CreateBookingRequest{
		PropertyID:   f.property.ID.String(),
		CheckInDate:  fixedNow.Add(72 * time.Hour),
		CheckOutDate: &checkOut,
		Adults:       2,
	}
}

func strPtr(s string) *string { return &s }

func TestCreateBookingPricesGuests(t *testing.T) {
	f := newBookingFixture(t)
	req := f.request()
	req.ChildAges = []int{3, 8, 15}

	resp, err := f.svc.CreateBooking(context.Background(), f.customer, req)
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	// 3 adults (15 bills as adult), 1 child, 1 free infant
	if resp.Adults != 3 || resp.Children != 1 || resp.Infants != 1 {
		t.Errorf("got %d/%d/%d adults/children/infants, want 3/1/1", resp.Adults, resp.Children, resp.Infants)
	}
	if resp.Subtotal != 280000 || resp.TotalAmount != 280000 {
		t.Errorf("subtotal %d total %d, want 280000", resp.Subtotal, resp.TotalAmount)
	}
	if resp.Status != entity.BookingStatusPending || resp.PaymentStatus != pricing.PaymentStatusPending {
		t.Errorf("status %s/%s, want pending/pending", resp.Status, resp.PaymentStatus)
	}
	if resp.PropertyTitle != f.property.Title {
		t.Errorf("property title = %q", resp.PropertyTitle)
	}

	created := f.bookings.created
	if created == nil {
		t.Fatal("booking was not saved")
	}
	if created.UserID != f.customer.UserID || created.BookedBy != f.customer.UserID {
		t.Errorf("customer booking saved for %s by %s", created.UserID, created.BookedBy)
	}
	if f.bookings.createAudit == nil || f.bookings.createAudit.Action != entity.AuditBookingCreated {
		t.Errorf("expected booking.created audit row, got %+v", f.bookings.createAudit)
	}
	if len(f.publisher.keys) != 1 || f.publisher.keys[0] != "booking.created" {
		t.Errorf("published %v, want [booking.created]", f.publisher.keys)
	}
}

func TestCreateBookingDefaultsCheckOutToNextDay(t *testing.T) {
	f := newBookingFixture(t)
	req := &request.CreateBookingRequest{
		PropertyID:  f.property.ID.String(),
		CheckInDate: fixedNow.Add(72 * time.Hour),
		Adults:      2,
	}

	if _, err := f.svc.CreateBooking(context.Background(), f.customer, req); err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	created := f.bookings.created
	if created == nil {
		t.Fatal("booking was not saved")
	}
	if !created.CheckOutDate.After(created.CheckInDate) {
		t.Fatalf("check-out %s is not after check-in %s", created.CheckOutDate, created.CheckInDate)
	}
	if want := req.CheckInDate.Add(24 * time.Hour); !created.CheckOutDate.Equal(want) {
		t.Errorf("check-out = %s, want %s", created.CheckOutDate, want)
	}
}

func TestCreateBookingAppliesCoupon(t *testing.T) {
	f := newBookingFixture(t)
	req := f.request()
	req.CouponCode = strPtr("  save10 ")

	resp, err := f.svc.CreateBooking(context.Background(), f.customer, req)
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}
	if resp.Subtotal != 160000 || resp.DiscountAmount != 16000 || resp.TotalAmount != 144000 {
		t.Errorf("got subtotal %d discount %d total %d, want 160000 16000 144000",
			resp.Subtotal, resp.DiscountAmount, resp.TotalAmount)
	}
	if f.bookings.created.CouponCode == nil || *f.bookings.created.CouponCode != "SAVE10" {
		t.Errorf("coupon code saved as %v, want SAVE10", f.bookings.created.CouponCode)
	}
}

func TestCreateBookingAgentBooksForCustomer(t *testing.T) {
	f := newBookingFixture(t)
	req := f.request()
	req.CustomerID = strPtr(f.customer.UserID.String())

	if _, err := f.svc.CreateBooking(context.Background(), f.agent, req); err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	created := f.bookings.created
	if created.UserID != f.customer.UserID {
		t.Errorf("booking is for %s, want customer %s", created.UserID, f.customer.UserID)
	}
	if created.BookedBy != f.agent.UserID {
		t.Errorf("booked by %s, want agent %s", created.BookedBy, f.agent.UserID)
	}
}

func TestCreateBookingErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *bookingFixture, req *request.CreateBookingRequest) utils.Actor
		wantErr error
	}{
		{
			name: "check-out equals check-in",
			setup: func(f *bookingFixture, req *request.CreateBookingRequest) utils.Actor {
				same := req.CheckInDate
				req.CheckOutDate = &same
				return f.customer
			},
			wantErr: ErrInvalidArgument,
		},
		{
			name: "check-out before check-in",
			setup: func(f *bookingFixture, req *request.CreateBookingRequest) utils.Actor {
				earlier := req.CheckInDate.Add(-time.Hour)
				req.CheckOutDate = &earlier
				return f.customer
			},
			wantErr: ErrInvalidArgument,
		},
		{
			name: "check-in already passed",
			setup: func(f *bookingFixture, req *request.CreateBookingRequest) utils.Actor {
				req.CheckInDate = fixedNow.Add(-time.Minute)
				return f.customer
			},
			wantErr: ErrInvalidArgument,
		},
		{
			name: "over capacity counting infants",
			setup: func(f *bookingFixture, req *request.CreateBookingRequest) utils.Actor {
				req.Adults = 5
				req.ChildAges = []int{1, 2}
				return f.customer
			},
			wantErr: ErrInvalidArgument,
		},
		{
			name: "unknown coupon",
			setup: func(f *bookingFixture, req *request.CreateBookingRequest) utils.Actor {
				req.CouponCode = strPtr("NOPE")
				return f.customer
			},
			wantErr: ErrInvalidArgument,
		},
		{
			name: "coupon usage limit reached",
			setup: func(f *bookingFixture, req *request.CreateBookingRequest) utils.Actor {
				req.CouponCode = strPtr("USEDUP")
				return f.customer
			},
			wantErr: ErrConflict,
		},
		{
			name: "coupon redeemed by a concurrent booking",
			setup: func(f *bookingFixture, req *request.CreateBookingRequest) utils.Actor {
				req.CouponCode = strPtr("SAVE10")
				f.bookings.createErr = repository.ErrCouponExhausted
				return f.customer
			},
			wantErr: ErrConflict,
		},
		{
			name: "inactive property",
			setup: func(f *bookingFixture, req *request.CreateBookingRequest) utils.Actor {
				f.property.IsActive = false
				return f.customer
			},
			wantErr: ErrNotFound,
		},
		{
			name: "agent without customer",
			setup: func(f *bookingFixture, req *request.CreateBookingRequest) utils.Actor {
				return f.agent
			},
			wantErr: ErrValidation,
		},
		{
			name: "agent names unknown customer",
			setup: func(f *bookingFixture, req *request.CreateBookingRequest) utils.Actor {
				req.CustomerID = strPtr(uuid.NewString())
				return f.agent
			},
			wantErr: ErrNotFound,
		},
		{
			name: "customer books for someone else",
			setup: func(f *bookingFixture, req *request.CreateBookingRequest) utils.Actor {
				req.CustomerID = strPtr(uuid.NewString())
				return f.customer
			},
			wantErr: ErrForbidden,
		},
		{
			name: "owner cannot book",
			setup: func(f *bookingFixture, req *request.CreateBookingRequest) utils.Actor {
				return f.owner
			},
			wantErr: ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			req := f.request()
			actor := tt.setup(f, req)

			_, err := f.svc.CreateBooking(context.Background(), actor, req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if f.bookings.created != nil {
				t.Error("booking was saved despite the error")
			}
			if len(f.publisher.keys) != 0 {
				t.Errorf("published %v for a failed booking", f.publisher.keys)
			}
		})
	}
}

func (f *bookingFixture) pendingBooking() *entity.Booking {
	b := &entity.Booking{
		Base:          entity.Base{ID: uuid.New()},
		BookingCode:   "PCN-PEND01",
		PropertyID:    f.property.ID,
		UserID:        f.customer.UserID,
		BookedBy:      f.customer.UserID,
		CheckInDate:   fixedNow.Add(72 * time.Hour),
		CheckOutDate:  fixedNow.Add(96 * time.Hour),
		Adults:        2,
		Subtotal:      160000,
		TotalAmount:   160000,
		Status:        entity.BookingStatusPending,
		PaymentStatus: pricing.PaymentStatusPending,
	}
	f.bookings.bookings[b.ID] = b
	return b
}

func TestConfirmPayment(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.pendingBooking()

	req := &request.ConfirmPaymentRequest{PaymentReference: " pay_Nx81 ", Amount: 160000}
	resp, err := f.svc.ConfirmPayment(context.Background(), f.customer, booking.ID.String(), req)
	if err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}

	if resp.Status != entity.BookingStatusConfirmed || resp.PaymentStatus != pricing.PaymentStatusCompleted {
		t.Errorf("status %s/%s, want confirmed/completed", resp.Status, resp.PaymentStatus)
	}
	if f.bookings.confirmRef != "pay_Nx81" {
		t.Errorf("payment reference = %q, want trimmed", f.bookings.confirmRef)
	}
	if len(f.publisher.keys) != 1 || f.publisher.keys[0] != "booking.confirmed" {
		t.Errorf("published %v, want [booking.confirmed]", f.publisher.keys)
	}
}

func TestConfirmPaymentErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *bookingFixture, b *entity.Booking) (utils.Actor, *request.ConfirmPaymentRequest)
		wantErr error
	}{
		{
			name: "amount mismatch",
			setup: func(f *bookingFixture, b *entity.Booking) (utils.Actor, *request.ConfirmPaymentRequest) {
				return f.customer, &request.ConfirmPaymentRequest{PaymentReference: "pay_1", Amount: 159999}
			},
			wantErr: ErrInvalidArgument,
		},
		{
			name: "already confirmed",
			setup: func(f *bookingFixture, b *entity.Booking) (utils.Actor, *request.ConfirmPaymentRequest) {
				b.Status = entity.BookingStatusConfirmed
				return f.customer, &request.ConfirmPaymentRequest{PaymentReference: "pay_1", Amount: 160000}
			},
			wantErr: ErrConflict,
		},
		{
			name: "cancelled while paying",
			setup: func(f *bookingFixture, b *entity.Booking) (utils.Actor, *request.ConfirmPaymentRequest) {
				f.bookings.confirmErr = repository.ErrBookingStateChanged
				return f.customer, &request.ConfirmPaymentRequest{PaymentReference: "pay_1", Amount: 160000}
			},
			wantErr: ErrConflict,
		},
		{
			name: "someone else's booking",
			setup: func(f *bookingFixture, b *entity.Booking) (utils.Actor, *request.ConfirmPaymentRequest) {
				return f.agent, &request.ConfirmPaymentRequest{PaymentReference: "pay_1", Amount: 160000}
			},
			wantErr: ErrForbidden,
		},
		{
			name: "missing reference",
			setup: func(f *bookingFixture, b *entity.Booking) (utils.Actor, *request.ConfirmPaymentRequest) {
				return f.customer, &request.ConfirmPaymentRequest{Amount: 160000}
			},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			booking := f.pendingBooking()
			actor, req := tt.setup(f, booking)

			_, err := f.svc.ConfirmPayment(context.Background(), actor, booking.ID.String(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if f.bookings.confirmRef != "" || len(f.publisher.keys) != 0 {
				t.Error("payment recorded for a rejected confirmation")
			}
		})
	}
}

func TestExpireStaleBookingsUsesServiceClock(t *testing.T) {
	f := newBookingFixture(t)
	f.bookings.expired = []*entity.Booking{f.pendingBooking(), f.pendingBooking()}

	n, err := f.svc.ExpireStaleBookings(context.Background())
	if err != nil {
		t.Fatalf("ExpireStaleBookings() error = %v", err)
	}
	if n != 2 {
		t.Errorf("expired %d, want 2", n)
	}
	if !f.bookings.expiredAt.Equal(fixedNow) {
		t.Errorf("repository stamped %s, want %s", f.bookings.expiredAt, fixedNow)
	}
	if len(f.publisher.keys) != 2 || f.publisher.keys[0] != "booking.expired" {
		t.Errorf("published %v, want two booking.expired", f.publisher.keys)
	}
}
