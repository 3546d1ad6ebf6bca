// internal/adapters/auth/jwt.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hotel_booking/internal/domain"
)

// CookieName is where the web client keeps its session token.
const CookieName = "auth_token"

var (
	ErrNoToken      = errors.New("auth: token missing")
	ErrInvalidToken = errors.New("auth: invalid token")
)

type claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens that carry the caller in a userId claim.
type Verifier struct {
	secret []byte
	ttl    time.Duration
}

func NewVerifier(secret string, ttl time.Duration) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Verifier{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token for userID. Used by tests and the seeder.
func (v *Verifier) Issue(userID domain.UserID) (string, error) {
	now := time.Now()
	c := claims{
		UserID: string(userID),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(v.secret)
}

// UserID validates tokenString and returns its caller.
func (v *Verifier) UserID(ctx context.Context, tokenString string) (domain.UserID, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if c.UserID == "" {
		return "", ErrInvalidToken
	}
	return domain.UserID(c.UserID), nil
}

// TokenFromRequest prefers the session cookie, then a Bearer header.
func TokenFromRequest(r *http.Request) (string, error) {
	if ck, err := r.Cookie(CookieName); err == nil && ck.Value != "" {
		return ck.Value, nil
	}
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", ErrNoToken
	}
	parts := strings.Fields(h)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrNoToken
	}
	return parts[1], nil
}
