package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrExpired is returned for tokens past their expiry. Callers surface a
	// different message for this case than for otherwise invalid tokens.
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
)

// Claims is the self-contained session payload: actor identity only.
// Everything else is re-fetched from the store on each request.
type Claims struct {
	ActorType string `json:"actor_type"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer mints and validates signed, time-bounded session tokens. Tokens
// carry no server-side state, so revocation before natural expiry is not
// supported.
type Issuer struct {
	secret []byte
	expiry time.Duration
}

// NewIssuer takes the expiry window as given; the default window lives in
// configuration. A non-positive expiry mints tokens that are already
// expired, which tests rely on.
func NewIssuer(secret string, expiry time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), expiry: expiry}
}

// Issue signs a token for the given actor. The same expiry window applies
// to all actor types.
func (i *Issuer) Issue(actorType string, actorID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		ActorType: actorType,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify parses and validates a token, distinguishing expiry from every
// other failure mode.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrInvalid
	}

	return claims, nil
}

// ActorID returns the subject as a record handle.
func (c *Claims) ActorID() uuid.UUID {
	id, _ := uuid.Parse(c.Subject)
	return id
}
