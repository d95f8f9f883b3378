package response

import (
	"time"

	"picnify/internal/data/entity"
)

type ReviewResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Reviewer   string    `json:"reviewer,omitempty"`
	PropertyID string    `json:"property_id"`
	BookingID  string    `json:"booking_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type PropertyReviewStats struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

type PropertyReviewsResponse struct {
	Stats   PropertyReviewStats                `json:"stats"`
	Reviews *PaginatedResponse[ReviewResponse] `json:"reviews"`
}

func ReviewToResponse(review *entity.Review, reviewer string) ReviewResponse {
	return ReviewResponse{
		ID:         review.ID.String(),
		UserID:     review.UserID.String(),
		Reviewer:   reviewer,
		PropertyID: review.PropertyID.String(),
		BookingID:  review.BookingID.String(),
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}
}
