package repository

import (
	"errors"

	"picnify/pkg/database"

	"go.uber.org/zap"
)

var (
	// ErrBookingStateChanged means a guarded status update matched no row
	// because another request moved the booking first.
	ErrBookingStateChanged = errors.New("booking status changed concurrently")
	ErrCouponExhausted     = errors.New("coupon usage limit reached")
)

type Repository struct {
	User       UserRepository
	Session    SessionRepository
	OTP        OTPRepository
	BankDetail BankDetailRepository
	Property   PropertyRepository
	Coupon     CouponRepository
	Booking    BookingRepository
	AuditLog   AuditLogRepository
	Review     ReviewRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:       NewUserRepository(db, log),
		Session:    NewSessionRepository(db, log),
		OTP:        NewOTPRepository(db, log),
		BankDetail: NewBankDetailRepository(db, log),
		Property:   NewPropertyRepository(db, log),
		Coupon:     NewCouponRepository(db, log),
		Booking:    NewBookingRepository(db, log),
		AuditLog:   NewAuditLogRepository(db, log),
		Review:     NewReviewRepository(db, log),
	}
}
