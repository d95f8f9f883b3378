package repository

import (
	"context"
	"errors"
	"fmt"

	"picnify/internal/data/entity"
	"picnify/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByPropertyID(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Review, error)
	CountByPropertyID(ctx context.Context, propertyID uuid.UUID) (int64, error)

	// Business queries
	GetPropertyReviewStats(ctx context.Context, propertyID uuid.UUID) (float64, int64, error) // rating, count
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, property_id, booking_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.PropertyID,
		review.BookingID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("property_id", review.PropertyID.String()),
		)
		return fmt.Errorf("create review for property %s by user %s: %w",
			review.PropertyID.String(), review.UserID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByPropertyID(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := `
		SELECT id, user_id, property_id, booking_id, rating, comment, created_at
		FROM reviews
		WHERE property_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, propertyID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by property ID",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return nil, fmt.Errorf("find reviews by property ID %s: %w", propertyID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		var review entity.Review
		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.PropertyID,
			&review.BookingID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, user_id, property_id, booking_id, rating, comment, created_at
		FROM reviews
		WHERE booking_id = $1
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&review.ID,
		&review.UserID,
		&review.PropertyID,
		&review.BookingID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find review by booking %s: %w", bookingID.String(), err)
	}

	return &review, nil
}

func (r *reviewRepository) CountByPropertyID(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE property_id = $1`, propertyID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reviews",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return 0, fmt.Errorf("count reviews of property %s: %w", propertyID.String(), err)
	}

	return count, nil
}

func (r *reviewRepository) GetPropertyReviewStats(ctx context.Context, propertyID uuid.UUID) (float64, int64, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM reviews
		WHERE property_id = $1
	`

	var (
		avg   float64
		count int64
	)
	if err := r.db.QueryRow(ctx, query, propertyID).Scan(&avg, &count); err != nil {
		r.log.Error("Failed to get property review stats",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return 0, 0, fmt.Errorf("review stats of property %s: %w", propertyID.String(), err)
	}

	return avg, count, nil
}
