package userservice

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// TokenService mints and verifies the bearer tokens handed out at login.
// The signing secret is injected once at startup and never changes.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

type userClaims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"id"`
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token binding the user id. Tokens expire after the
// configured TTL.
func (s *TokenService) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := userClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify returns the user id a token was issued for. Any parse, signature,
// expiry, or missing-claim failure is ErrInvalidToken.
func (s *TokenService) Verify(token string) (int64, error) {
	var claims userClaims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return 0, ErrInvalidToken
	}

	if claims.UserID == 0 {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}
