package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
)

// Tokens signs and verifies the session JWT carried in the "token" cookie.
type Tokens struct {
	Secret []byte
	Expire time.Duration
}

func (t *Tokens) Issue(userID string) (string, error) {
	claims := jwt.MapClaims{
		"_id": userID,
		"exp": time.Now().Add(t.Expire).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

// Verify parses the token and returns the subject user id.
func (t *Tokens) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token,
		func(*jwt.Token) (any, error) { return t.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", apperr.New(apperr.Auth, "Json web token is expired, try again")
	case err != nil:
		return "", apperr.New(apperr.Auth, "Json Web Token is invalid, try again")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperr.New(apperr.Auth, "Json Web Token is invalid, try again")
	}
	id, _ := claims["_id"].(string)
	if id == "" {
		return "", apperr.New(apperr.Auth, "Json Web Token is invalid, try again")
	}
	return id, nil
}
