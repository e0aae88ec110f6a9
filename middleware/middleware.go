package middleware

import (
	"context"
	"fmt"
	"net/http"

	"vivenda/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	UserID          string `json:"userId"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	IsAdmin         bool   `json:"isAdmin"`
	ApartmentID     string `json:"apartmentId,omitempty"`
	ApartmentNumber string `json:"apartmentNumber,omitempty"`
	CondominiumID   string `json:"condominiumId,omitempty"`
	CondominiumName string `json:"condominiumName,omitempty"`
	jwt.RegisteredClaims
}

func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := requestClaims(r)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.IsAdminKey, claims.IsAdmin)
		next(w, r.WithContext(ctx), ps)
	}
}

// requestClaims resolves the token from the Authorization header, falling
// back to the token query parameter on websocket upgrades since browser
// websocket clients cannot set request headers.
func requestClaims(r *http.Request) (*Claims, error) {
	if r.Header.Get("Authorization") != "" {
		return claimsFromHeader(r)
	}
	if websocket.IsWebSocketUpgrade(r) {
		if raw := r.URL.Query().Get("token"); raw != "" {
			return parseClaims(raw)
		}
	}
	return nil, fmt.Errorf("missing token")
}

// RequireAdmin gates a route on the isAdmin claim.
func RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := claimsFromHeader(r)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		if !claims.IsAdmin {
			http.Error(w, "Admin access required", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.IsAdminKey, true)
		next(w, r.WithContext(ctx), ps)
	}
}

func claimsFromHeader(r *http.Request) (*Claims, error) {
	tokenString := r.Header.Get("Authorization")
	if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
		return nil, fmt.Errorf("missing or malformed token")
	}
	return parseClaims(tokenString[7:])
}

func parseClaims(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	return claims, nil
}

// ValidateJWT parses a raw "Bearer ..." header value.
func ValidateJWT(tokenString string) (*Claims, error) {
	if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
		return nil, fmt.Errorf("invalid token")
	}
	return parseClaims(tokenString[7:])
}
