package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/apperr"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/models"
)

type Claims struct {
	UserID uint        `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(u *models.User) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies signature and expiry. Every failure is Unauthorized; an
// expired token is reported as "token expired" so clients can re-login.
func (t *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, apperr.Wrap(apperr.Unauthorized, "token expired", err)
	case err != nil || !token.Valid:
		return nil, apperr.Wrap(apperr.Unauthorized, "invalid token", err)
	}
	if claims.UserID == 0 || claims.Email == "" {
		return nil, apperr.New(apperr.Unauthorized, "invalid token payload")
	}
	return claims, nil
}

// Allowed is the role predicate applied after a credential has been
// verified.
func Allowed(role models.Role, required ...models.Role) bool {
	return role != "" && slices.Contains(required, role)
}
