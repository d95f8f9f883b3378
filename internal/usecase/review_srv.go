package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"picnify/internal/data/entity"
	"picnify/internal/data/repository"
	"picnify/internal/dto/request"
	"picnify/internal/dto/response"
	"picnify/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	CreateReview(ctx context.Context, actor utils.Actor, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetPropertyReviews(ctx context.Context, propertyID string, req *request.PaginatedRequest) (*response.PropertyReviewsResponse, error)
}

type reviewService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, deps Deps, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		now:  deps.Now,
		log:  log.With(zap.String("service", "review")),
	}
}

// CreateReview lets a guest rate a property once per confirmed booking after
// check-in.
func (s *reviewService) CreateReview(ctx context.Context, actor utils.Actor, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create review validation failed", zap.Error(err))
		return nil, err
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %q", ErrInvalidArgument, req.BookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking not found", ErrNotFound)
	}

	if booking.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: only the guest can review this booking", ErrForbidden)
	}
	if booking.Status != entity.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: only confirmed bookings can be reviewed", ErrInvalidArgument)
	}

	now := s.now()
	if booking.CheckInDate.After(now) {
		return nil, fmt.Errorf("%w: reviews open after check-in", ErrInvalidArgument)
	}

	existing, err := s.repo.Review.FindByBookingID(ctx, booking.ID)
	if err != nil {
		s.log.Error("Failed to check existing review", zap.Error(err))
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: booking already reviewed", ErrConflict)
	}

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:     actor.UserID,
		PropertyID: booking.PropertyID,
		BookingID:  booking.ID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("booking_id", req.BookingID),
		)
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.refreshRating(ctx, booking.PropertyID)

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("property_id", review.PropertyID.String()),
		zap.Int("rating", review.Rating),
	)

	resp := response.ReviewToResponse(review, "")
	return &resp, nil
}

func (s *reviewService) GetPropertyReviews(ctx context.Context, propertyID string, req *request.PaginatedRequest) (*response.PropertyReviewsResponse, error) {
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

	reviews, err := s.repo.Review.FindByPropertyID(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get property reviews: %w", err)
	}

	avg, count, err := s.repo.Review.GetPropertyReviewStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review stats: %w", err)
	}

	reviewers := make(map[uuid.UUID]string)
	items := make([]response.ReviewResponse, len(reviews))
	for i, r := range reviews {
		name, ok := reviewers[r.UserID]
		if !ok {
			if user, err := s.repo.User.FindByID(ctx, r.UserID); err == nil && user != nil {
				name = user.FullName
			}
			reviewers[r.UserID] = name
		}
		items[i] = response.ReviewToResponse(r, name)
	}

	return &response.PropertyReviewsResponse{
		Stats: response.PropertyReviewStats{
			AverageRating: roundRating(avg),
			ReviewCount:   count,
		},
		Reviews: response.NewPaginatedResponse(items, req.Page, req.PerPage, count),
	}, nil
}

// refreshRating recomputes the cached property rating. Failure only leaves
// the listing's rating stale.
func (s *reviewService) refreshRating(ctx context.Context, propertyID uuid.UUID) {
	avg, _, err := s.repo.Review.GetPropertyReviewStats(ctx, propertyID)
	if err == nil {
		err = s.repo.Property.UpdateRating(ctx, propertyID, roundRating(avg))
	}
	if err != nil {
		s.log.Warn("Failed to refresh property rating", zap.Error(err), zap.String("property_id", propertyID.String()))
	}
}

func roundRating(r float64) float64 {
	return math.Round(r*10) / 10
}
