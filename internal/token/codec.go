// Package token encodes a booking projection into a signed, self-contained
// string for one-click email actions. The action handler can render a summary
// and act on the booking without server-held pending state; the HMAC makes
// the payload tamper-evident.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer   = "headstrap-actions"
	audience = "headstrap-booking"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid or tampered token")
	ErrEmptySecret  = errors.New("token secret cannot be empty")
)

// Projection is the minimal booking view carried inside a token: enough for
// the action handler to show what is being confirmed or declined.
type Projection struct {
	BookingID int    `json:"booking_id"`
	CourtID   int    `json:"court_id"`
	Date      string `json:"date"`
	Hour      int    `json:"hour"`
	Contact   string `json:"contact"`
}

type claims struct {
	Projection
	jwt.RegisteredClaims
}

type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

func (c *Codec) Encode(p Projection) (string, error) {
	if err := validate(p); err != nil {
		return "", err
	}

	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Projection: p,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  []string{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})

	return t.SignedString(c.secret)
}

// Decode verifies the signature and structure of an action token. Any
// malformed or tampered input comes back as ErrInvalidToken; an expired but
// otherwise valid token comes back as ErrTokenExpired.
func (c *Codec) Decode(tokenString string) (*Projection, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return c.secret, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	cl, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if err := validate(cl.Projection); err != nil {
		return nil, err
	}

	p := cl.Projection
	return &p, nil
}

func validate(p Projection) error {
	if p.BookingID <= 0 || p.CourtID <= 0 {
		return ErrInvalidToken
	}
	if p.Hour < 0 || p.Hour > 23 {
		return ErrInvalidToken
	}
	if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		return ErrInvalidToken
	}
	return nil
}
