package adaptor

import (
	"net/http"

	"picnify/internal/dto/request"
	"picnify/internal/usecase"
	"picnify/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CouponHandler struct {
	service usecase.CouponService
	log     *zap.Logger
}

func NewCouponHandler(service usecase.CouponService, log *zap.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		log:     log.With(zap.String("handler", "coupon")),
	}
}

// PreviewCoupon handles POST /api/coupons/preview
func (h *CouponHandler) PreviewCoupon(w http.ResponseWriter, r *http.Request) {
	var req request.PreviewCouponRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	preview, err := h.service.PreviewCoupon(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "preview coupon")
		return
	}

	utils.ResponseSuccess(w, "success", preview)
}

// CreateCoupon handles POST /api/admin/coupons
func (h *CouponHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCouponRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	coupon, err := h.service.CreateCoupon(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create coupon")
		return
	}

	utils.ResponseCreated(w, "Coupon created successfully", coupon)
}

// GetCoupons handles GET /api/admin/coupons?active=true
func (h *CouponHandler) GetCoupons(w http.ResponseWriter, r *http.Request) {
	req := paginationFromQuery(r)
	activeOnly := r.URL.Query().Get("active") == "true"

	coupons, err := h.service.GetCoupons(r.Context(), &req, activeOnly)
	if err != nil {
		h.handleServiceError(w, err, "get coupons")
		return
	}

	utils.ResponseSuccess(w, "success", coupons)
}

// DeactivateCoupon handles DELETE /api/admin/coupons/{code}
func (h *CouponHandler) DeactivateCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeactivateCoupon(r.Context(), chi.URLParam(r, "code")); err != nil {
		h.handleServiceError(w, err, "deactivate coupon")
		return
	}

	utils.ResponseSuccess(w, "Coupon deactivated", nil)
}

func (h *CouponHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeServiceError(w, h.log, err, operation)
}
