package wire

import (
	"picnify/internal/adaptor"
	"picnify/internal/data/repository"
	"picnify/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCoupon(
	r chi.Router,
	couponHandler *adaptor.CouponHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Any signed-in user can check what a coupon is worth
	r.With(middleware.AuthSession(repo.Session, log)).Post("/api/coupons/preview", couponHandler.PreviewCoupon)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/coupons", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Get("/", couponHandler.GetCoupons)
		r.Post("/", couponHandler.CreateCoupon)
		r.Delete("/{code}", couponHandler.DeactivateCoupon)
	})
}
