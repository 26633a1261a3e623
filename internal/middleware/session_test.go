package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/filedrop/filedrop/internal/auth"
	"github.com/filedrop/filedrop/internal/model"
)

type fakeVerifier struct {
	identity *model.Identity
	err      error
	seen     []string
}

func (v *fakeVerifier) Verify(token string) (*model.Identity, error) {
	v.seen = append(v.seen, token)
	if v.err != nil {
		return nil, v.err
	}
	return v.identity, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sessionHandler(t *testing.T, verifier *fakeVerifier) http.Handler {
	t.Helper()
	mw := Session(SessionConfig{Logger: discardLogger(), Tokens: verifier})
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := auth.IdentityFromContext(r.Context())
		if identity == nil {
			t.Error("no identity in request context")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(identity.UserID))
	}))
}

func TestSessionFromCookie(t *testing.T) {
	verifier := &fakeVerifier{identity: &model.Identity{UserID: "user-1", Email: "a@b.c"}}
	handler := sessionHandler(t, verifier)

	req := httptest.NewRequest(http.MethodGet, "/files/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "user-1" {
		t.Errorf("body = %q, want user id", rec.Body.String())
	}
	if len(verifier.seen) != 1 || verifier.seen[0] != "cookie-token" {
		t.Errorf("verified tokens = %v, want [cookie-token]", verifier.seen)
	}
}

func TestSessionFromBearerHeader(t *testing.T) {
	verifier := &fakeVerifier{identity: &model.Identity{UserID: "user-1"}}
	handler := sessionHandler(t, verifier)

	req := httptest.NewRequest(http.MethodGet, "/files/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if verifier.seen[0] != "header-token" {
		t.Errorf("verified token = %q, want header-token", verifier.seen[0])
	}
}

func TestSessionCookiePrecedesHeader(t *testing.T) {
	verifier := &fakeVerifier{identity: &model.Identity{UserID: "user-1"}}
	handler := sessionHandler(t, verifier)

	req := httptest.NewRequest(http.MethodGet, "/files/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if verifier.seen[0] != "cookie-token" {
		t.Errorf("verified token = %q, want the cookie to win", verifier.seen[0])
	}
}

func TestSessionRejections(t *testing.T) {
	tests := []struct {
		name      string
		verifier  *fakeVerifier
		setupReq  func(*http.Request)
		wantCalls int
	}{
		{
			name:      "no credential",
			verifier:  &fakeVerifier{identity: &model.Identity{UserID: "u"}},
			setupReq:  func(*http.Request) {},
			wantCalls: 0,
		},
		{
			name:     "expired token",
			verifier: &fakeVerifier{err: auth.ErrTokenExpired},
			setupReq: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
			},
			wantCalls: 1,
		},
		{
			name:     "bad signature",
			verifier: &fakeVerifier{err: auth.ErrInvalidSignature},
			setupReq: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer forged")
			},
			wantCalls: 1,
		},
		{
			name:     "malformed token",
			verifier: &fakeVerifier{err: auth.ErrMalformedToken},
			setupReq: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "junk"})
			},
			wantCalls: 1,
		},
		{
			name:      "non-bearer authorization header",
			verifier:  &fakeVerifier{identity: &model.Identity{UserID: "u"}},
			setupReq:  func(r *http.Request) { r.Header.Set("Authorization", "Basic dXNlcg==") },
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := Session(SessionConfig{Logger: discardLogger(), Tokens: tt.verifier})
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler reached without valid credential")
			}))

			req := httptest.NewRequest(http.MethodGet, "/files/", nil)
			tt.setupReq(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if !strings.Contains(rec.Body.String(), "UNAUTHORIZED") {
				t.Errorf("body = %q, want UNAUTHORIZED code", rec.Body.String())
			}
			if len(tt.verifier.seen) != tt.wantCalls {
				t.Errorf("Verify calls = %d, want %d", len(tt.verifier.seen), tt.wantCalls)
			}
		})
	}
}

func TestVerifyFailureReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{auth.ErrTokenExpired, "expired_credential"},
		{auth.ErrInvalidSignature, "invalid_signature"},
		{auth.ErrMalformedToken, "malformed_credential"},
		{errors.New("other"), "invalid_credential"},
	}
	for _, tt := range tests {
		if got := verifyFailureReason(tt.err); got != tt.want {
			t.Errorf("verifyFailureReason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
