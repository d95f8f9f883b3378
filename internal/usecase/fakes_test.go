package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"picnify/internal/data/entity"
	"picnify/internal/data/repository"
	"picnify/internal/pricing"

	"github.com/google/uuid"
)

// Unimplemented methods panic through the embedded nil interface.

type fakeBookingRepo struct {
	repository.BookingRepository
	bookings    map[uuid.UUID]*entity.Booking
	findCalls   int
	createErr   error
	created     *entity.Booking
	createAudit *entity.BookingAuditLog
	confirmErr  error
	confirmRef  string
	cancelErr   error
	cancelled   *entity.BookingCancellation
	cancelAudit *entity.BookingAuditLog
	status      pricing.PaymentStatus
	refundRef   string
	refundAudit *entity.BookingAuditLog
	expired     []*entity.Booking
	expiredAt   time.Time
}

func (f *fakeBookingRepo) Create(_ context.Context, b *entity.Booking, audit *entity.BookingAuditLog) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *b
	f.created = &copied
	f.createAudit = audit
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.findCalls++
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) Confirm(_ context.Context, id uuid.UUID, reference string, _ *entity.BookingAuditLog) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	b := f.bookings[id]
	if b.Status != entity.BookingStatusPending {
		return repository.ErrBookingStateChanged
	}
	b.Status = entity.BookingStatusConfirmed
	f.confirmRef = reference
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id uuid.UUID, c *entity.BookingCancellation, status pricing.PaymentStatus, audit *entity.BookingAuditLog) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	b := f.bookings[id]
	if !b.Status.Cancellable() {
		return repository.ErrBookingStateChanged
	}
	b.Status = entity.BookingStatusCancelled
	f.cancelled = c
	f.status = status
	f.cancelAudit = audit
	return nil
}

func (f *fakeBookingRepo) SetRefundReference(_ context.Context, _ uuid.UUID, reference string, audit *entity.BookingAuditLog) error {
	f.refundRef = reference
	f.refundAudit = audit
	return nil
}

func (f *fakeBookingRepo) ExpireStale(_ context.Context, now time.Time) ([]*entity.Booking, error) {
	f.expiredAt = now
	return f.expired, nil
}

type fakePropertyRepo struct {
	repository.PropertyRepository
	property *entity.Property
	rating   *float64
}

func (f *fakePropertyRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Property, error) {
	if f.property == nil || f.property.ID != id {
		return nil, nil
	}
	return f.property, nil
}

func (f *fakePropertyRepo) UpdateRating(_ context.Context, _ uuid.UUID, rating float64) error {
	f.rating = &rating
	return nil
}

type fakeUserRepo struct {
	repository.UserRepository
	user     *entity.User
	updated  *entity.User
	verified uuid.UUID
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, nil
	}
	return f.user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if f.user == nil || f.user.Email != email {
		return nil, nil
	}
	return f.user, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	copied := *user
	f.updated = &copied
	return nil
}

func (f *fakeUserRepo) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	f.verified = id
	return nil
}

// fakeOTPRepo keeps every issued code; FindValidOTP ignores expiry so the
// service's own expiry check is exercised.
type fakeOTPRepo struct {
	repository.OTPRepository
	otps        []*entity.OTP
	invalidated int
}

func (f *fakeOTPRepo) Create(_ context.Context, otp *entity.OTP) error {
	f.otps = append(f.otps, otp)
	return nil
}

func (f *fakeOTPRepo) InvalidatePending(_ context.Context, email string, otpType entity.OTPType) error {
	for _, o := range f.otps {
		if o.Email == email && o.OTPType == otpType && !o.IsUsed {
			o.IsUsed = true
			f.invalidated++
		}
	}
	return nil
}

func (f *fakeOTPRepo) FindValidOTP(_ context.Context, email, code string, otpType entity.OTPType) (*entity.OTP, error) {
	for _, o := range f.otps {
		if o.Email == email && o.OTPCode == code && o.OTPType == otpType && !o.IsUsed {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOTPRepo) MarkAsUsed(_ context.Context, id uuid.UUID) error {
	for _, o := range f.otps {
		if o.ID == id && !o.IsUsed {
			o.IsUsed = true
			return nil
		}
	}
	return errors.New("otp already used")
}

type fakeSessionRepo struct {
	repository.SessionRepository
	revokedFor uuid.UUID
}

func (f *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	f.revokedFor = userID
	return nil
}

type fakeReviewRepo struct {
	repository.ReviewRepository
	byBooking map[uuid.UUID]*entity.Review
	created   *entity.Review
	average   float64
}

func (f *fakeReviewRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Review, error) {
	return f.byBooking[bookingID], nil
}

func (f *fakeReviewRepo) Create(_ context.Context, review *entity.Review) error {
	f.created = review
	return nil
}

func (f *fakeReviewRepo) GetPropertyReviewStats(_ context.Context, _ uuid.UUID) (float64, int64, error) {
	return f.average, 1, nil
}

type fakeCouponRepo struct {
	repository.CouponRepository
	coupons map[string]*entity.Coupon
}

func (f *fakeCouponRepo) FindByCode(_ context.Context, code string) (*entity.Coupon, error) {
	return f.coupons[strings.ToUpper(code)], nil
}

type fakePublisher struct {
	err  error
	keys []string
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, _ any) error {
	f.keys = append(f.keys, routingKey)
	return f.err
}

func (f *fakePublisher) Close() {}

type fakeRefunder struct {
	err    error
	amount int64
}

func (f *fakeRefunder) Refund(_ context.Context, _ string, amount int64, _ map[string]string) (string, error) {
	f.amount = amount
	if f.err != nil {
		return "", f.err
	}
	return "rfnd_123", nil
}

type fakeMailer struct {
	err  error
	sent []string
}

func (f *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	f.sent = append(f.sent, to)
	return f.err
}
