package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestRateLimitDisabledPassthrough verifies the middleware is inert when
// rate limiting is turned off.
func TestRateLimitDisabledPassthrough(t *testing.T) {
	mw := RateLimitIP(RateLimitConfig{Logger: discardLogger(), Enabled: false})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/x", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}
}

// Test429Response verifies the rate limit error response format.
func Test429Response(t *testing.T) {
	rec := httptest.NewRecorder()
	writeRateLimitError(rec, 5*time.Second)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", rec.Code)
	}

	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON content type")
	}

	if rec.Body.Len() == 0 {
		t.Error("Expected error body")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{name: "x-forwarded-for single", header: map[string]string{"X-Forwarded-For": "1.2.3.4"}, remote: "9.9.9.9:1234", want: "1.2.3.4"},
		{name: "x-forwarded-for chain", header: map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, remote: "9.9.9.9:1234", want: "1.2.3.4"},
		{name: "x-real-ip", header: map[string]string{"X-Real-IP": "5.6.7.8"}, remote: "9.9.9.9:1234", want: "5.6.7.8"},
		{name: "remote addr fallback", header: nil, remote: "9.9.9.9:1234", want: "9.9.9.9:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
