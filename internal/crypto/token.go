package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/greenverse/greenverse-go/internal/model"
)

const (
	tokenIssuer   = "greenverse"
	tokenAudience = "greenverse-web"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// SessionClaims is the signed payload of a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	User model.User `json:"user"`
}

// TokenCodec signs and verifies HS256 session tokens.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a TokenCodec keyed with secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Sign encodes the user snapshot and the session window into a signed token.
func (c *TokenCodec) Sign(user model.User, created, expires time.Time) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(created),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		User: user,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Parse verifies tokenString and returns its claims. Expiry is evaluated
// against now: the token is rejected once now is not before exp.
func (c *TokenCodec) Parse(tokenString string, now time.Time) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
