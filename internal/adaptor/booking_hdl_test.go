package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"picnify/internal/dto/request"
	"picnify/internal/dto/response"
	"picnify/internal/usecase"
	"picnify/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeBookingService struct {
	usecase.BookingService
	err      error
	gotID    string
	gotActor utils.Actor
}

func (f *fakeBookingService) CancelBooking(_ context.Context, actor utils.Actor, id string, _ *request.CancelBookingRequest) (*response.BookingResponse, error) {
	f.gotID, f.gotActor = id, actor
	if f.err != nil {
		return nil, f.err
	}
	return &response.BookingResponse{ID: id, Status: "cancelled"}, nil
}

func newCancelRequest(t *testing.T, body string, actor *utils.Actor) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/b-1/cancel", strings.NewReader(body))
	if actor != nil {
		req = req.WithContext(utils.SetActorContext(req.Context(), actor.UserID, actor.Role))
	}
	return req
}

func serveCancel(h *BookingHandler, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Post("/api/bookings/{id}/cancel", h.CancelBooking)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCancelBookingHandlerStatusCodes(t *testing.T) {
	actor := &utils.Actor{UserID: uuid.New(), Role: "customer"}
	body := `{"cancellation_type":"weather","reason":"storm warning"}`

	tests := []struct {
		name       string
		body       string
		actor      *utils.Actor
		serviceErr error
		wantStatus int
	}{
		{name: "success", body: body, actor: actor, wantStatus: http.StatusOK},
		{name: "no session", body: body, actor: nil, wantStatus: http.StatusUnauthorized},
		{name: "malformed json", body: `{"reason":`, actor: actor, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"reason":"x","refund":100}`, actor: actor, wantStatus: http.StatusBadRequest},
		{
			name:       "validation",
			body:       body,
			actor:      actor,
			serviceErr: &usecase.ValidationError{Fields: map[string]string{"Reason": "This field is required"}},
			wantStatus: http.StatusBadRequest,
		},
		{name: "bad id", body: body, actor: actor, serviceErr: fmt.Errorf("%w: invalid booking ID", usecase.ErrInvalidArgument), wantStatus: http.StatusUnprocessableEntity},
		{name: "not found", body: body, actor: actor, serviceErr: fmt.Errorf("%w: booking not found", usecase.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "forbidden", body: body, actor: actor, serviceErr: fmt.Errorf("%w: not allowed", usecase.ErrForbidden), wantStatus: http.StatusForbidden},
		{name: "already cancelled", body: body, actor: actor, serviceErr: fmt.Errorf("%w: booking is already cancelled", usecase.ErrConflict), wantStatus: http.StatusConflict},
		{name: "database down", body: body, actor: actor, serviceErr: errors.New("connection refused"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeBookingService{err: tt.serviceErr}
			h := NewBookingHandler(svc, zap.NewNop())

			rec := serveCancel(h, newCancelRequest(t, tt.body, tt.actor))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			var resp utils.Response
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if resp.Status != (tt.wantStatus == http.StatusOK) {
				t.Errorf("status flag = %v for HTTP %d", resp.Status, rec.Code)
			}
		})
	}
}

func TestCancelBookingHandlerPassesRouteAndActor(t *testing.T) {
	actor := utils.Actor{UserID: uuid.New(), Role: "agent"}
	svc := &fakeBookingService{}
	h := NewBookingHandler(svc, zap.NewNop())

	serveCancel(h, newCancelRequest(t, `{"cancellation_type":"other","reason":"client asked"}`, &actor))

	if svc.gotID != "b-1" {
		t.Errorf("booking id = %q, want b-1", svc.gotID)
	}
	if svc.gotActor != actor {
		t.Errorf("actor = %+v, want %+v", svc.gotActor, actor)
	}
}

func TestInternalErrorsAreHidden(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, zap.NewNop(), errors.New("pq: password authentication failed"), "cancel booking")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("internal error leaked to client: %s", rec.Body.String())
	}
}
