package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"picnify/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestParseRate(t *testing.T) {
	tests := []struct {
		in         string
		wantLimit  int64
		wantPeriod time.Duration
		wantErr    bool
	}{
		{in: "10-1m", wantLimit: 10, wantPeriod: time.Minute},
		{in: "5-30s", wantLimit: 5, wantPeriod: 30 * time.Second},
		{in: " 100-2h ", wantLimit: 100, wantPeriod: 2 * time.Hour},
		{in: "10", wantErr: true},
		{in: "0-1m", wantErr: true},
		{in: "ten-1m", wantErr: true},
		{in: "10-", wantErr: true},
		{in: "10-1d", wantErr: true},
		{in: "10-m", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			rate, err := ParseRate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRate(%q) error = %v", tt.in, err)
			}
			if rate.Limit != tt.wantLimit || rate.Period != tt.wantPeriod {
				t.Errorf("got %d per %s, want %d per %s", rate.Limit, rate.Period, tt.wantLimit, tt.wantPeriod)
			}
		})
	}
}

func TestLimitInMemory(t *testing.T) {
	rl := NewRateLimiter(nil, zap.NewNop())
	handler := rl.Limit("test", "2-1m")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1:5000"); code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d, want 204", i+1, code)
		}
	}
	if code := send("10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Errorf("third request from same IP: status = %d, want 429", code)
	}
	if code := send("10.0.0.2:5000"); code != http.StatusNoContent {
		t.Errorf("other IP: status = %d, want 204", code)
	}
}

func TestLimitBadRateDisablesLimiting(t *testing.T) {
	rl := NewRateLimiter(nil, zap.NewNop())
	handler := rl.Limit("test", "nonsense")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d, want 204", i+1, rec.Code)
		}
	}
}

func TestCallerKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:4321"
	if got := callerKey(req); got != "ip:192.168.1.9" {
		t.Errorf("anonymous key = %q", got)
	}

	userID := uuid.New()
	req = req.WithContext(utils.SetActorContext(req.Context(), userID, "customer"))
	if got := callerKey(req); got != "user:"+userID.String() {
		t.Errorf("authenticated key = %q", got)
	}
}
