package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
)

const (
	sessionKey = "session"
	issuerKey  = "session_cookie"
)

// SessionLoader is the part of the session service the middleware needs.
type SessionLoader interface {
	Load(ctx context.Context, id string) (*domain.Session, error)
	// Touch refreshes the stored record's idle timer.
	Touch(ctx context.Context, sess *domain.Session) error
}

type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// cookieIssuer writes the portal cookie for a session id.
type cookieIssuer struct {
	codec *CookieCodec
	opts  CookieOptions
}

func (ci cookieIssuer) issue(c echo.Context, id string) error {
	value, err := ci.codec.Encode(id)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     ci.opts.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ci.opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   ci.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Session resolves the portal cookie to a session record and stores it on the
// echo context. A missing or tampered cookie starts a fresh anonymous session.
// A cookie past half its lifetime is re-signed for the same id.
func Session(codec *CookieCodec, loader SessionLoader, opts CookieOptions) echo.MiddlewareFunc {
	issuer := cookieIssuer{codec: codec, opts: opts}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, refresh := "", false
			if ck, err := c.Cookie(opts.Name); err == nil {
				if claims, err := codec.parse(ck.Value); err == nil {
					id, refresh = claims.ID, codec.stale(claims)
				}
			}

			if id == "" {
				id = uuid.NewString()
				if err := issuer.issue(c, id); err != nil {
					return err
				}
			}

			sess, err := loader.Load(c.Request().Context(), id)
			if err != nil {
				return err
			}

			if refresh {
				if err := issuer.issue(c, id); err != nil {
					return err
				}
				if sess.IsAuthenticated() {
					if err := loader.Touch(c.Request().Context(), sess); err != nil {
						return err
					}
				}
			}

			c.Set(sessionKey, sess)
			c.Set(issuerKey, issuer)
			return next(c)
		}
	}
}

// RotateSession makes sess the request's session and points the browser's
// cookie at its id. Outside the Session middleware only the context changes.
func RotateSession(c echo.Context, sess *domain.Session) error {
	WithSession(c, sess)
	if issuer, ok := c.Get(issuerKey).(cookieIssuer); ok {
		return issuer.issue(c, sess.ID)
	}
	return nil
}

// SessionFrom returns the session loaded by Session, or an empty anonymous one
// when the middleware did not run.
func SessionFrom(c echo.Context) *domain.Session {
	if s, ok := c.Get(sessionKey).(*domain.Session); ok && s != nil {
		return s
	}
	return &domain.Session{}
}

// WithSession stores s on the context. Used by tests and by handlers that
// replace the session mid-request.
func WithSession(c echo.Context, s *domain.Session) {
	c.Set(sessionKey, s)
}
