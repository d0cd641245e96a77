package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errBadCookie = errors.New("invalid session cookie")

// CookieCodec signs the session id into the portal cookie. The cookie only
// carries the id; the credential slots stay server-side.
type CookieCodec struct {
	secret  []byte
	ttl     time.Duration
	nowFunc func() time.Time
}

func NewCookieCodec(secret string, ttl time.Duration) *CookieCodec {
	return &CookieCodec{secret: []byte(secret), ttl: ttl, nowFunc: time.Now}
}

func (cc *CookieCodec) Encode(sessionID string) (string, error) {
	now := cc.nowFunc()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cc.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cc.secret)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return signed, nil
}

// Decode returns the session id from a cookie value produced by Encode.
func (cc *CookieCodec) Decode(raw string) (string, error) {
	claims, err := cc.parse(raw)
	if err != nil {
		return "", err
	}
	return claims.ID, nil
}

func (cc *CookieCodec) parse(raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return cc.secret, nil
	}, jwt.WithTimeFunc(cc.nowFunc))
	if err != nil || !tkn.Valid || claims.ID == "" {
		return nil, errBadCookie
	}
	return claims, nil
}

// stale reports whether less than half of the cookie's lifetime is left.
// Such cookies are re-signed so an active visitor is never cut off.
func (cc *CookieCodec) stale(claims *jwt.RegisteredClaims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Sub(cc.nowFunc()) < cc.ttl/2
}
