package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"picnify/pkg/utils"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

// ParseRate accepts "<limit>-<n><unit>" with unit s, m or h, e.g. "10-2m".
func ParseRate(rateStr string) (limiter.Rate, error) {
	parts := strings.Split(strings.TrimSpace(rateStr), "-")
	if len(parts) != 2 {
		return limiter.Rate{}, fmt.Errorf("invalid rate format: %q", rateStr)
	}

	limit, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || limit <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid limit: %q", parts[0])
	}

	period := parts[1]
	if period == "" {
		return limiter.Rate{}, fmt.Errorf("missing period in %q", rateStr)
	}

	var unit time.Duration
	switch period[len(period)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	default:
		return limiter.Rate{}, fmt.Errorf("unsupported period: %q", period)
	}

	n, err := strconv.Atoi(period[:len(period)-1])
	if err != nil || n <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid period: %q", period)
	}

	return limiter.Rate{
		Period: time.Duration(n) * unit,
		Limit:  limit,
	}, nil
}

// RateLimiter builds per-route limiters. With a Redis client the counters are
// shared across instances; without one each process counts on its own.
type RateLimiter struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRateLimiter(client *redis.Client, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		log:    log.With(zap.String("component", "rate_limiter")),
	}
}

// Limit returns middleware allowing rateStr requests per caller on routeID.
// Callers are keyed by user id when authenticated, otherwise by client IP.
// A bad rate or store disables limiting for the route instead of failing
// every request.
func (rl *RateLimiter) Limit(routeID, rateStr string) func(http.Handler) http.Handler {
	rate, err := ParseRate(rateStr)
	if err != nil {
		rl.log.Error("Rate limiting disabled: bad rate", zap.Error(err), zap.String("route", routeID))
		return passThrough
	}

	store, err := rl.store(routeID, rate.Period)
	if err != nil {
		rl.log.Error("Rate limiting disabled: store unavailable", zap.Error(err), zap.String("route", routeID))
		return passThrough
	}

	mw := stdlib.NewMiddleware(limiter.New(store, rate),
		stdlib.WithKeyGetter(callerKey),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			rl.log.Warn("Rate limit reached",
				zap.String("route", routeID),
				zap.String("key", callerKey(r)),
			)
			utils.ResponseTooManyRequests(w, "Too many requests, please try again later")
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			rl.log.Error("Rate limiter store error", zap.Error(err), zap.String("route", routeID))
			utils.ResponseInternalError(w, "Internal server error")
		}),
	)

	return mw.Handler
}

func (rl *RateLimiter) store(routeID string, period time.Duration) (limiter.Store, error) {
	prefix := "rate_limiter:" + routeID
	if rl.client == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          prefix,
			CleanUpInterval: period,
		}), nil
	}

	store, err := redisstore.NewStoreWithOptions(rl.client, limiter.StoreOptions{
		Prefix:   prefix,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store for route %s: %w", routeID, err)
	}
	return store, nil
}

func callerKey(r *http.Request) string {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return "user:" + userID.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

func passThrough(next http.Handler) http.Handler {
	return next
}
