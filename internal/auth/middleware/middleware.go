package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mind-engage/mindengage-testgen/internal/rbac"
)

var ErrInvalidToken = errors.New("invalid token")

// AuthService issues and verifies HS256 bearer tokens with a single shared secret.
type AuthService struct {
	hmac []byte
	ttl  time.Duration
}

func NewAuthService(secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &AuthService{hmac: []byte(secret), ttl: ttl}
}

type Claims struct {
	ID    string `json:"id"`
	Role  string `json:"role"` // "student", "teacher" or "admin"
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (a *AuthService) IssueJWT(id, role, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		ID:    id,
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			Issuer:    "mindengage-testgen",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || c.ID == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}

// JWTMiddleware requires a valid bearer token and puts subject, email and role in the
// request context.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "No token provided")
				return
			}
			claims, err := a.Parse(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			ctx := WithSubject(r.Context(), claims.ID)
			ctx = WithEmail(ctx, claims.Email)
			ctx = rbac.WithRole(ctx, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
