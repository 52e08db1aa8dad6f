package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/httputil"
)

type fakeVerifier struct {
	claims *models.Claims
	err    error
}

func (v *fakeVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	return v.claims, v.err
}

func (v *fakeVerifier) Close() error { return nil }

type fakeUserRepo struct {
	users map[string]*models.User
	err   error
}

func (r *fakeUserRepo) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	user, ok := r.users[subject]
	if !ok {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	return user, nil
}

func claimsFor(subject string) *models.Claims {
	return &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		Email:            subject + "@example.com",
	}
}

// capture records the user the inner handler observed.
type capture struct {
	called bool
	user   *models.User
}

func runAuth(t *testing.T, verifier *fakeVerifier, users *fakeUserRepo, header string) (*httptest.ResponseRecorder, *capture) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	captured := &capture{}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.called = true
		captured.user = httputil.GetUser(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/folders", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	Auth(verifier, users, logger)(inner).ServeHTTP(rec, req)
	return rec, captured
}

func TestAuth(t *testing.T) {
	knownUsers := &fakeUserRepo{users: map[string]*models.User{
		"sub-1": {ID: "u1", Subject: "sub-1", IsAdmin: true},
	}}

	t.Run("no header passes through unauthenticated", func(t *testing.T) {
		rec, captured := runAuth(t, &fakeVerifier{}, knownUsers, "")

		if rec.Code != http.StatusOK || !captured.called {
			t.Fatalf("request was blocked: status %d, called %v", rec.Code, captured.called)
		}
		if captured.user != nil {
			t.Errorf("context carries user %+v, want none", captured.user)
		}
	})

	t.Run("non-bearer header is rejected", func(t *testing.T) {
		rec, captured := runAuth(t, &fakeVerifier{}, knownUsers, "Basic dXNlcjpwYXNz")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		if captured.called {
			t.Error("inner handler ran despite rejection")
		}
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		verifier := &fakeVerifier{err: errors.New("signature invalid")}
		rec, captured := runAuth(t, verifier, knownUsers, "Bearer bad-token")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		if captured.called {
			t.Error("inner handler ran despite rejection")
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("body is not JSON: %v", err)
		}
		if body["error"] != "Unauthorized" {
			t.Errorf("error = %q, want Unauthorized", body["error"])
		}
	})

	t.Run("verified token without a user record is rejected", func(t *testing.T) {
		verifier := &fakeVerifier{claims: claimsFor("sub-unknown")}
		rec, captured := runAuth(t, verifier, knownUsers, "Bearer token")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		if captured.called {
			t.Error("inner handler ran despite rejection")
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("body is not JSON: %v", err)
		}
		if body["error"] != "User doesn't exist" {
			t.Errorf("error = %q, want User doesn't exist", body["error"])
		}
	})

	t.Run("user lookup failure is a 500", func(t *testing.T) {
		verifier := &fakeVerifier{claims: claimsFor("sub-1")}
		broken := &fakeUserRepo{err: errors.New("connection refused")}
		rec, captured := runAuth(t, verifier, broken, "Bearer token")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
		if captured.called {
			t.Error("inner handler ran despite the failure")
		}
	})

	t.Run("valid token puts the user in context", func(t *testing.T) {
		verifier := &fakeVerifier{claims: claimsFor("sub-1")}
		rec, captured := runAuth(t, verifier, knownUsers, "Bearer token")

		if rec.Code != http.StatusOK || !captured.called {
			t.Fatalf("request was blocked: status %d", rec.Code)
		}
		if captured.user == nil || captured.user.ID != "u1" || !captured.user.IsAdmin {
			t.Errorf("context user = %+v, want the admin record", captured.user)
		}
	})
}
