package adaptor

import (
	"net/http"

	"picnify/internal/dto/request"
	"picnify/internal/usecase"
	"picnify/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created successfully", booking)
}

// GetMyBookings handles GET /api/bookings
func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	req := paginationFromQuery(r)
	bookings, err := h.service.GetMyBookings(r.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(w, err, "get my bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBookingByID handles GET /api/bookings/{id}
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetBookingByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ConfirmPayment handles POST /api/bookings/{id}/payment
func (h *BookingHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.ConfirmPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.ConfirmPayment(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "confirm payment")
		return
	}

	utils.ResponseSuccess(w, "Payment confirmed", booking)
}

// QuoteCancellation handles GET /api/bookings/{id}/cancellation-quote
func (h *BookingHandler) QuoteCancellation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	quote, err := h.service.QuoteCancellation(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "quote cancellation")
		return
	}

	utils.ResponseSuccess(w, quote.PolicyMessage, quote)
}

// CancelBooking handles POST /api/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.CancelBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", booking)
}

// GetAuditTrail handles GET /api/bookings/{id}/audit
func (h *BookingHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	logs, err := h.service.GetAuditTrail(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get audit trail")
		return
	}

	utils.ResponseSuccess(w, "success", logs)
}

// GetPropertyBookings handles GET /api/owner/properties/{id}/bookings
func (h *BookingHandler) GetPropertyBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	req := paginationFromQuery(r)
	bookings, err := h.service.GetPropertyBookings(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "get property bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeServiceError(w, h.log, err, operation)
}
