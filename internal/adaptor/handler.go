package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"picnify/internal/dto/request"
	"picnify/internal/usecase"
	"picnify/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Property *PropertyHandler
	Coupon   *CouponHandler
	Booking  *BookingHandler
	Review   *ReviewHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		User:     NewUserHandler(service.User, log),
		Property: NewPropertyHandler(service.Property, log),
		Coupon:   NewCouponHandler(service.Coupon, log),
		Booking:  NewBookingHandler(service.Booking, log),
		Review:   NewReviewHandler(service.Review, log),
	}
}

// writeServiceError maps usecase errors to status codes. Unknown errors are
// logged and hidden behind a 500.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		log.Debug(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrInvalidArgument):
		log.Debug(operation+" rejected", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Debug(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// decodeJSON rejects unknown fields so typos in optional fields surface.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func paginationFromQuery(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}

// actorOrUnauthorized reads the caller set by the session middleware.
func actorOrUnauthorized(w http.ResponseWriter, r *http.Request) (utils.Actor, bool) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return utils.Actor{}, false
	}
	return actor, true
}
