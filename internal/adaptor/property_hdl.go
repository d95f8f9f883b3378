package adaptor

import (
	"net/http"

	"picnify/internal/dto/request"
	"picnify/internal/usecase"
	"picnify/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PropertyHandler struct {
	service usecase.PropertyService
	log     *zap.Logger
}

func NewPropertyHandler(service usecase.PropertyService, log *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		log:     log.With(zap.String("handler", "property")),
	}
}

// GetProperties handles GET /api/properties (public)
func (h *PropertyHandler) GetProperties(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PropertyListRequest{
		PaginatedRequest: paginationFromQuery(r),
		City:             query.Get("city"),
		Type:             query.Get("property_type"),
	}

	properties, err := h.service.GetProperties(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "get properties")
		return
	}

	utils.ResponseSuccess(w, "success", properties)
}

// GetPropertyByID handles GET /api/properties/{id} (public)
func (h *PropertyHandler) GetPropertyByID(w http.ResponseWriter, r *http.Request) {
	property, err := h.service.GetPropertyByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get property by ID")
		return
	}

	utils.ResponseSuccess(w, "success", property)
}

// GetMyProperties handles GET /api/owner/properties
func (h *PropertyHandler) GetMyProperties(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	req := paginationFromQuery(r)
	properties, err := h.service.GetMyProperties(r.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(w, err, "get my properties")
		return
	}

	utils.ResponseSuccess(w, "success", properties)
}

// CreateProperty handles POST /api/owner/properties
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.CreatePropertyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	property, err := h.service.CreateProperty(r.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(w, err, "create property")
		return
	}

	utils.ResponseCreated(w, "Property created successfully", property)
}

// UpdateProperty handles PUT /api/owner/properties/{id}
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.UpdatePropertyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	property, err := h.service.UpdateProperty(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "update property")
		return
	}

	utils.ResponseSuccess(w, "Property updated successfully", property)
}

// DeleteProperty handles DELETE /api/owner/properties/{id}
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProperty(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "delete property")
		return
	}

	utils.ResponseSuccess(w, "Property deleted successfully", nil)
}

func (h *PropertyHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeServiceError(w, h.log, err, operation)
}
