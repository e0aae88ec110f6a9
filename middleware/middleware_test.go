package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vivenda/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func residentClaims(isAdmin bool) *Claims {
	return &Claims{
		UserID:  "64f0c0ffee0000000000abcd",
		Email:   "resident@example.com",
		Name:    "Resident",
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestAuthenticateSetsUserContext(t *testing.T) {
	signed := signToken(t, residentClaims(false))

	called := false
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		if got := r.Context().Value(globals.UserIDKey); got != "64f0c0ffee0000000000abcd" {
			t.Errorf("user id in context = %v", got)
		}
		if got := r.Context().Value(globals.IsAdminKey); got != false {
			t.Errorf("isAdmin in context = %v", got)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if !called {
		t.Fatal("handler was not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	claims := residentClaims(false)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	signed := signToken(t, claims)

	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateRejectsWrongSignature(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, residentClaims(false))
	signed, err := token.SignedString([]byte("another-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func upgradeRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	return req
}

func TestAuthenticateWebSocketRequiresToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	rec := httptest.NewRecorder()
	handler(rec, upgradeRequest("/ws/places/p1/books"), nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateWebSocketQueryToken(t *testing.T) {
	signed := signToken(t, residentClaims(false))

	called := false
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		if got := r.Context().Value(globals.UserIDKey); got != "64f0c0ffee0000000000abcd" {
			t.Errorf("user id in context = %v", got)
		}
	})

	rec := httptest.NewRecorder()
	handler(rec, upgradeRequest("/ws/places/p1/books?token="+signed), nil)

	if !called {
		t.Fatal("handler was not called")
	}
}

func TestAuthenticateWebSocketBadQueryToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	rec := httptest.NewRecorder()
	handler(rec, upgradeRequest("/ws/places/p1/books?token=not-a-jwt"), nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	adminToken := signToken(t, residentClaims(true))
	residentToken := signToken(t, residentClaims(false))

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"admin passes", adminToken, http.StatusOK},
		{"resident forbidden", residentToken, http.StatusForbidden},
		{"anonymous unauthorized", "", http.StatusUnauthorized},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/condominiums", nil)
			if c.token != "" {
				req.Header.Set("Authorization", "Bearer "+c.token)
			}
			rec := httptest.NewRecorder()
			handler(rec, req, nil)
			if rec.Code != c.want {
				t.Fatalf("status = %d, want %d", rec.Code, c.want)
			}
		})
	}
}

func TestValidateJWTRoundTrip(t *testing.T) {
	claims := residentClaims(false)
	claims.ApartmentNumber = "12"
	claims.CondominiumName = "Residencial Aurora"
	signed := signToken(t, claims)

	parsed, err := ValidateJWT("Bearer " + signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if parsed.UserID != claims.UserID || parsed.Email != claims.Email {
		t.Fatalf("claims did not round trip: %+v", parsed)
	}
	if parsed.ApartmentNumber != "12" || parsed.CondominiumName != "Residencial Aurora" {
		t.Fatalf("residence claims did not round trip: %+v", parsed)
	}

	if _, err := ValidateJWT(signed); err == nil {
		t.Fatal("expected error without Bearer prefix")
	}
}
