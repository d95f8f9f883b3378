package wire

import (
	"picnify/internal/adaptor"
	"picnify/internal/data/repository"
	"picnify/pkg/middleware"
	"picnify/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	config *utils.Config,
	limiter *middleware.RateLimiter,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Rate limited per client IP
	r.Group(func(r chi.Router) {
		r.Use(limiter.Limit("auth", config.RateLimit.Auth))

		r.Post("/api/register", authHandler.Register)
		r.Post("/api/login", authHandler.Login)
		r.Post("/api/send-otp", authHandler.SendOTP)
		r.Post("/api/verify-email", authHandler.VerifyEmail)
		r.Post("/api/reset-password", authHandler.ResetPassword)
	})

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.AuthSession(repo.Session, log)).Post("/api/logout", authHandler.Logout)
}
