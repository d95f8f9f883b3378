package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"picnify/internal/data/entity"
	"picnify/internal/pricing"
	"picnify/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// Create inserts the booking and its audit row, redeeming the coupon in
	// the same transaction when one is applied.
	Create(ctx context.Context, booking *entity.Booking, audit *entity.BookingAuditLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByParticipant(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByParticipant(ctx context.Context, userID uuid.UUID) (int64, error)
	FindByPropertyID(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByPropertyID(ctx context.Context, propertyID uuid.UUID) (int64, error)

	// State transitions. Each runs in one transaction with its audit row and
	// returns ErrBookingStateChanged if the booking left the expected status.
	Confirm(ctx context.Context, id uuid.UUID, paymentReference string, audit *entity.BookingAuditLog) error
	Cancel(ctx context.Context, id uuid.UUID, c *entity.BookingCancellation, status pricing.PaymentStatus, audit *entity.BookingAuditLog) error
	SetRefundReference(ctx context.Context, id uuid.UUID, reference string, audit *entity.BookingAuditLog) error
	ExpireStale(ctx context.Context, now time.Time) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, booking_code, property_id, user_id, booked_by,
		       check_in_date, check_out_date, adults, children, infants,
		       subtotal, discount_amount, coupon_code, total_amount,
		       status, payment_status, payment_reference,
		       cancellation_type, cancellation_reason, cancelled_at, cancelled_by,
		       cancellation_fee_percentage, cancellation_fee, refund_amount,
		       refund_reference, cancellation_policy,
		       created_at, updated_at, deleted_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var (
		b           entity.Booking
		cType       *string
		cReason     *string
		cAt         *time.Time
		cBy         *uuid.UUID
		cPct        *int
		cFee        *int64
		cRefund     *int64
		cRefundRef  *string
		cPolicyText *string
	)

	err := row.Scan(
		&b.ID,
		&b.BookingCode,
		&b.PropertyID,
		&b.UserID,
		&b.BookedBy,
		&b.CheckInDate,
		&b.CheckOutDate,
		&b.Adults,
		&b.Children,
		&b.Infants,
		&b.Subtotal,
		&b.DiscountAmount,
		&b.CouponCode,
		&b.TotalAmount,
		&b.Status,
		&b.PaymentStatus,
		&b.PaymentReference,
		&cType,
		&cReason,
		&cAt,
		&cBy,
		&cPct,
		&cFee,
		&cRefund,
		&cRefundRef,
		&cPolicyText,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if cAt != nil {
		c := &entity.BookingCancellation{
			CancelledAt:     *cAt,
			RefundReference: cRefundRef,
		}
		if cType != nil {
			c.Type = entity.CancellationType(*cType)
		}
		if cReason != nil {
			c.Reason = *cReason
		}
		if cBy != nil {
			c.CancelledBy = *cBy
		}
		if cPct != nil {
			c.FeePercentage = *cPct
		}
		if cFee != nil {
			c.FeeAmount = *cFee
		}
		if cRefund != nil {
			c.RefundAmount = *cRefund
		}
		if cPolicyText != nil {
			c.PolicyMessage = *cPolicyText
		}
		b.Cancellation = c
	}

	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking, audit *entity.BookingAuditLog) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking: %w", err)
	}
	defer tx.Rollback(ctx)

	if booking.CouponCode != nil {
		result, err := tx.Exec(ctx, `
			UPDATE coupons
			SET used_count = used_count + 1, updated_at = NOW()
			WHERE code = $1
			  AND is_active = true
			  AND (usage_limit IS NULL OR used_count < usage_limit)
		`, *booking.CouponCode)
		if err != nil {
			r.log.Error("Failed to redeem coupon",
				zap.Error(err),
				zap.String("coupon_code", *booking.CouponCode),
			)
			return fmt.Errorf("redeem coupon %s: %w", *booking.CouponCode, err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("redeem coupon %s: %w", *booking.CouponCode, ErrCouponExhausted)
		}
	}

	query := `
		INSERT INTO bookings (id, booking_code, property_id, user_id, booked_by,
		                      check_in_date, check_out_date, adults, children, infants,
		                      subtotal, discount_amount, coupon_code, total_amount,
		                      status, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err = tx.Exec(ctx, query,
		booking.ID,
		booking.BookingCode,
		booking.PropertyID,
		booking.UserID,
		booking.BookedBy,
		booking.CheckInDate,
		booking.CheckOutDate,
		booking.Adults,
		booking.Children,
		booking.Infants,
		booking.Subtotal,
		booking.DiscountAmount,
		booking.CouponCode,
		booking.TotalAmount,
		booking.Status,
		booking.PaymentStatus,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_code", booking.BookingCode),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingCode, err)
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create booking %s: %w", booking.BookingCode, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND deleted_at IS NULL`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) list(ctx context.Context, where string, args ...any) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE deleted_at IS NULL AND ` + where

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

// FindByParticipant lists bookings the user is the guest on or placed as agent.
func (r *bookingRepository) FindByParticipant(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	return r.list(ctx,
		`(user_id = $1 OR booked_by = $1) ORDER BY check_in_date DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
}

func (r *bookingRepository) CountByParticipant(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE deleted_at IS NULL AND (user_id = $1 OR booked_by = $1)`,
		userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by participant",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings of user %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindByPropertyID(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	return r.list(ctx,
		`property_id = $1 ORDER BY check_in_date DESC LIMIT $2 OFFSET $3`,
		propertyID, limit, offset)
}

func (r *bookingRepository) CountByPropertyID(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE deleted_at IS NULL AND property_id = $1`,
		propertyID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by property",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return 0, fmt.Errorf("count bookings of property %s: %w", propertyID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) Confirm(ctx context.Context, id uuid.UUID, paymentReference string, audit *entity.BookingAuditLog) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin confirm booking: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = $2, payment_status = $3, payment_reference = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5 AND deleted_at IS NULL
	`, id, entity.BookingStatusConfirmed, pricing.PaymentStatusCompleted, paymentReference, entity.BookingStatusPending)
	if err != nil {
		r.log.Error("Failed to confirm booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("confirm booking %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("confirm booking %s: %w", id.String(), ErrBookingStateChanged)
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit confirm booking %s: %w", id.String(), err)
	}

	return nil
}

// Cancel applies a cancellation quote. The status guard in the UPDATE makes
// the transition happen at most once however many requests race for it.
func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID, c *entity.BookingCancellation, status pricing.PaymentStatus, audit *entity.BookingAuditLog) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cancel booking: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE bookings
		SET status = $2,
		    cancellation_type = $3,
		    cancellation_reason = $4,
		    cancelled_at = $5,
		    cancelled_by = $6,
		    cancellation_fee_percentage = $7,
		    cancellation_fee = $8,
		    refund_amount = $9,
		    cancellation_policy = $10,
		    payment_status = $11,
		    updated_at = $5
		WHERE id = $1
		  AND status IN ('pending', 'confirmed')
		  AND deleted_at IS NULL
	`

	result, err := tx.Exec(ctx, query,
		id,
		entity.BookingStatusCancelled,
		c.Type,
		c.Reason,
		c.CancelledAt,
		c.CancelledBy,
		c.FeePercentage,
		c.FeeAmount,
		c.RefundAmount,
		c.PolicyMessage,
		status,
	)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("cancel booking %s: %w", id.String(), ErrBookingStateChanged)
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cancel booking %s: %w", id.String(), err)
	}

	return nil
}

func (r *bookingRepository) SetRefundReference(ctx context.Context, id uuid.UUID, reference string, audit *entity.BookingAuditLog) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set refund reference: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE bookings
		SET refund_reference = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3 AND refund_reference IS NULL
	`, id, reference, entity.BookingStatusCancelled)
	if err != nil {
		r.log.Error("Failed to set refund reference",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("set refund reference on %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("set refund reference on %s: %w", id.String(), ErrBookingStateChanged)
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ExpireStale moves pending bookings whose check-in is at or before now
// to expired and writes one audit row per booking, all stamped with now.
func (r *bookingRepository) ExpireStale(ctx context.Context, now time.Time) ([]*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin expire bookings: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		UPDATE bookings
		SET status = $1, updated_at = $3
		WHERE status = $2 AND check_in_date <= $3 AND deleted_at IS NULL
		RETURNING id, booking_code, property_id, user_id, booked_by, check_in_date, total_amount
	`, entity.BookingStatusExpired, entity.BookingStatusPending, now)
	if err != nil {
		r.log.Error("Failed to expire bookings", zap.Error(err))
		return nil, fmt.Errorf("expire bookings: %w", err)
	}

	var expired []*entity.Booking
	for rows.Next() {
		b := entity.Booking{Status: entity.BookingStatusExpired}
		if err := rows.Scan(&b.ID, &b.BookingCode, &b.PropertyID, &b.UserID, &b.BookedBy, &b.CheckInDate, &b.TotalAmount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan expired booking: %w", err)
		}
		expired = append(expired, &b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired bookings: %w", err)
	}

	for _, b := range expired {
		audit := &entity.BookingAuditLog{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			BookingID:  b.ID,
			Action:     entity.AuditBookingExpired,
		}
		if err := insertAudit(ctx, tx, audit); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit expire bookings: %w", err)
	}

	return expired, nil
}
