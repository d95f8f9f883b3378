package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"picnify/internal/data/entity"
	"picnify/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *entity.Coupon) error
	FindByCode(ctx context.Context, code string) (*entity.Coupon, error)
	FindAll(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Coupon, error)
	CountAll(ctx context.Context, activeOnly bool) (int64, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type couponRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCouponRepository(db database.PgxIface, log *zap.Logger) CouponRepository {
	return &couponRepository{
		db:  db,
		log: log.With(zap.String("repository", "coupon")),
	}
}

const couponColumns = `id, code, description, discount_type, discount_value, max_discount,
		       min_order_amount, valid_from, valid_until, usage_limit, used_count,
		       is_active, created_at, updated_at`

func scanCoupon(row pgx.Row) (*entity.Coupon, error) {
	var c entity.Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Description,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MaxDiscount,
		&c.MinOrderAmount,
		&c.ValidFrom,
		&c.ValidUntil,
		&c.UsageLimit,
		&c.UsedCount,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *couponRepository) Create(ctx context.Context, coupon *entity.Coupon) error {
	query := `
		INSERT INTO coupons (id, code, description, discount_type, discount_value, max_discount,
		                     min_order_amount, valid_from, valid_until, usage_limit, used_count,
		                     is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		coupon.ID,
		coupon.Code,
		coupon.Description,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.MaxDiscount,
		coupon.MinOrderAmount,
		coupon.ValidFrom,
		coupon.ValidUntil,
		coupon.UsageLimit,
		coupon.UsedCount,
		coupon.IsActive,
		coupon.CreatedAt,
		coupon.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create coupon",
			zap.Error(err),
			zap.String("code", coupon.Code),
		)
		return fmt.Errorf("create coupon %s: %w", coupon.Code, err)
	}

	return nil
}

// FindByCode matches codes case-insensitively; codes are stored upper case.
func (r *couponRepository) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	coupon, err := scanCoupon(r.db.QueryRow(ctx, query, strings.ToUpper(code)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find coupon by code",
			zap.Error(err),
			zap.String("code", code),
		)
		return nil, fmt.Errorf("find coupon %s: %w", code, err)
	}

	return coupon, nil
}

func (r *couponRepository) FindAll(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list coupons", zap.Error(err))
		return nil, fmt.Errorf("find all coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*entity.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			r.log.Error("Failed to scan coupon row", zap.Error(err))
			return nil, fmt.Errorf("scan coupon row: %w", err)
		}
		coupons = append(coupons, coupon)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}

	return coupons, nil
}

func (r *couponRepository) CountAll(ctx context.Context, activeOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM coupons`
	if activeOnly {
		query += ` WHERE is_active = true`
	}

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count coupons", zap.Error(err))
		return 0, fmt.Errorf("count coupons: %w", err)
	}

	return count, nil
}

func (r *couponRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `UPDATE coupons SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to deactivate coupon",
			zap.Error(err),
			zap.String("coupon_id", id.String()),
		)
		return fmt.Errorf("deactivate coupon %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("coupon %s not found", id.String())
	}

	return nil
}
