package wire

import (
	"net/http"

	"picnify/internal/adaptor"
	"picnify/internal/data/repository"
	"picnify/internal/usecase"
	"picnify/pkg/middleware"
	"picnify/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the router and the services the background jobs reuse.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes. redisClient may be nil.
func Wiring(repo *repository.Repository, config *utils.Config, deps usecase.Deps, redisClient *redis.Client, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, deps, logger)
	handler := adaptor.NewHandler(service, logger)
	limiter := middleware.NewRateLimiter(redisClient, logger)

	router := setupRouter(handler, repo, config, deps, limiter, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	deps usecase.Deps,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger(logger, deps.Metrics))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigins))

	wireAuth(r, handler.Auth, repo, config, limiter, logger)
	wireUser(r, handler.User, repo, logger)
	wireProperty(r, handler.Property, handler.Booking, repo, logger)
	wireCoupon(r, handler.Coupon, repo, logger)
	wireBooking(r, handler.Booking, repo, config, limiter, logger)
	wireReview(r, handler.Review, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	return r
}
