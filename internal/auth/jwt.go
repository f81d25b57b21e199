// Package auth consumes bearer identity assertions. Verification failure is
// never fatal: callers fall back to a synthesized guest identity.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/codehive/server/internal/domain"
)

var ErrNoSubject = errors.New("token has no subject")

// JWT wraps a signing secret for issuing/verifying tokens.
type JWT struct{ secret []byte }

func New(secret string) *JWT { return &JWT{secret: []byte(secret)} }

// Verify checks a token and returns the asserted identity. The display name
// comes from the "name" claim, falling back to the subject.
func (j *JWT) Verify(tok string) (domain.Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tok, claims, func(token *jwt.Token) (any, error) {
		return j.secret, nil
	})
	if err != nil {
		return domain.Identity{}, err
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return domain.Identity{}, ErrNoSubject
	}
	name, _ := claims["name"].(string)
	if name == "" {
		name = sub
	}
	return domain.Identity{ID: domain.UserID(sub), DisplayName: name}, nil
}

// Sign creates a token for the identity with the given TTL.
func (j *JWT) Sign(id domain.Identity, ttl time.Duration) (string, error) {
	if id.ID == "" {
		return "", ErrNoSubject
	}
	claims := jwt.MapClaims{
		"sub":  string(id.ID),
		"name": id.DisplayName,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}
