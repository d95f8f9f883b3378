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

type reviewFixture struct {
	svc        ReviewService
	reviews    *fakeReviewRepo
	properties *fakePropertyRepo
	booking    *entity.Booking
	guest      utils.Actor
}

// newReviewFixture has a confirmed stay that checked in a day before fixedNow.
func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	guestID := uuid.New()
	property := &entity.Property{Base: entity.Base{ID: uuid.New()}, Title: "Hilltop Cottage", IsActive: true}
	booking := &entity.Booking{
		Base:          entity.Base{ID: uuid.New()},
		PropertyID:    property.ID,
		UserID:        guestID,
		BookedBy:      guestID,
		CheckInDate:   fixedNow.Add(-24 * time.Hour),
		CheckOutDate:  fixedNow,
		Status:        entity.BookingStatusConfirmed,
		PaymentStatus: pricing.PaymentStatusCompleted,
	}

	f := &reviewFixture{
		reviews:    &fakeReviewRepo{byBooking: map[uuid.UUID]*entity.Review{}, average: 4.25},
		properties: &fakePropertyRepo{property: property},
		booking:    booking,
		guest:      utils.Actor{UserID: guestID, Role: string(entity.RoleCustomer)},
	}
	repo := &repository.Repository{
		Booking:  &fakeBookingRepo{bookings: map[uuid.UUID]*entity.Booking{booking.ID: booking}},
		Property: f.properties,
		Review:   f.reviews,
	}
	f.svc = NewReviewService(repo, Deps{Now: func() time.Time { return fixedNow }}, zap.NewNop())
	return f
}

func TestCreateReviewRefreshesRating(t *testing.T) {
	f := newReviewFixture(t)

	resp, err := f.svc.CreateReview(context.Background(), f.guest, &request.CreateReviewRequest{
		BookingID: f.booking.ID.String(),
		Rating:    4,
	})
	if err != nil {
		t.Fatalf("CreateReview() error = %v", err)
	}
	if resp.Rating != 4 || resp.BookingID != f.booking.ID.String() {
		t.Errorf("unexpected review %+v", resp)
	}
	if f.reviews.created == nil || f.reviews.created.PropertyID != f.booking.PropertyID {
		t.Fatal("review was not saved against the booked property")
	}
	if f.properties.rating == nil || *f.properties.rating != 4.3 {
		t.Errorf("property rating = %v, want 4.3", f.properties.rating)
	}
}

func TestCreateReviewEligibility(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *reviewFixture) utils.Actor
		wantErr error
	}{
		{
			name: "not the guest",
			setup: func(f *reviewFixture) utils.Actor {
				return utils.Actor{UserID: uuid.New(), Role: string(entity.RoleCustomer)}
			},
			wantErr: ErrForbidden,
		},
		{
			name: "still pending",
			setup: func(f *reviewFixture) utils.Actor {
				f.booking.Status = entity.BookingStatusPending
				return f.guest
			},
			wantErr: ErrInvalidArgument,
		},
		{
			name: "cancelled stay",
			setup: func(f *reviewFixture) utils.Actor {
				f.booking.Status = entity.BookingStatusCancelled
				return f.guest
			},
			wantErr: ErrInvalidArgument,
		},
		{
			name: "before check-in",
			setup: func(f *reviewFixture) utils.Actor {
				f.booking.CheckInDate = fixedNow.Add(time.Hour)
				return f.guest
			},
			wantErr: ErrInvalidArgument,
		},
		{
			name: "already reviewed",
			setup: func(f *reviewFixture) utils.Actor {
				f.reviews.byBooking[f.booking.ID] = &entity.Review{BookingID: f.booking.ID, Rating: 5}
				return f.guest
			},
			wantErr: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture(t)
			actor := tt.setup(f)

			_, err := f.svc.CreateReview(context.Background(), actor, &request.CreateReviewRequest{
				BookingID: f.booking.ID.String(),
				Rating:    5,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if f.reviews.created != nil {
				t.Error("review saved for an ineligible booking")
			}
		})
	}
}

func TestCreateReviewUnknownBooking(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.svc.CreateReview(context.Background(), f.guest, &request.CreateReviewRequest{
		BookingID: uuid.NewString(),
		Rating:    3,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
