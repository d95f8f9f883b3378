package usecase

import (
	"time"

	"picnify/internal/data/repository"
	"picnify/pkg/cache"
	"picnify/pkg/events"
	"picnify/pkg/gateway"
	"picnify/pkg/mailer"
	"picnify/pkg/metrics"
	"picnify/pkg/utils"

	"go.uber.org/zap"
)

// Deps are the outside collaborators services talk to besides the database.
type Deps struct {
	Publisher events.Publisher
	Refunder  gateway.Refunder
	Mailer    mailer.Mailer
	Metrics   *metrics.Metrics
	Cache     cache.Cache
	Now       func() time.Time
}

func (d *Deps) defaults(log *zap.Logger) {
	if d.Publisher == nil {
		d.Publisher = events.NewLogPublisher(log)
	}
	if d.Refunder == nil {
		d.Refunder = gateway.DisabledRefunder{}
	}
	if d.Mailer == nil {
		d.Mailer = mailer.NewLogMailer(log)
	}
	if d.Cache == nil {
		d.Cache = cache.NoopCache{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
}

type Service struct {
	Auth     AuthService
	User     UserService
	Property PropertyService
	Coupon   CouponService
	Booking  BookingService
	Review   ReviewService
}

func NewService(repo *repository.Repository, config *utils.Config, deps Deps, log *zap.Logger) *Service {
	deps.defaults(log)

	return &Service{
		Auth:     NewAuthService(repo, config, deps, log),
		User:     NewUserService(repo, deps, log),
		Property: NewPropertyService(repo, deps, log),
		Coupon:   NewCouponService(repo, deps, log),
		Booking:  NewBookingService(repo, deps, log),
		Review:   NewReviewService(repo, deps, log),
	}
}
