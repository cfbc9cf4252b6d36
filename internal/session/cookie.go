package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the browser cookie carrying the signed session ticket.
const CookieName = "mcc_session"

var ErrBadTicket = errors.New("invalid session ticket")

// CookieCodec signs and verifies the session-ID ticket placed in the browser
// cookie. The ticket carries only the session ID; token and email stay
// server-side in the Store.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewCookieCodec(secret string, ttl time.Duration) *CookieCodec {
	return &CookieCodec{secret: []byte(secret), ttl: ttl}
}

// NewSessionID mints a fresh session ID.
func NewSessionID() string {
	return uuid.New().String()
}

func (c *CookieCodec) Issue(sid string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(c.ttl).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *CookieCodec) Parse(ticket string) (string, error) {
	token, err := jwt.Parse(ticket, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadTicket
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrBadTicket
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrBadTicket
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrBadTicket
	}
	return sid, nil
}
