package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	// CSRFField is the hidden form field carrying the token.
	CSRFField      = "csrf"
	csrfContextKey = "csrf"
	csrfCookieName = "bo_csrf"
)

// CSRF rejects unsafe requests whose csrf form field does not match the
// token cookie. The token for the current page is available via CSRFToken.
func CSRF(opts CookieOptions) echo.MiddlewareFunc {
	return echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		TokenLookup:    "form:" + CSRFField,
		ContextKey:     csrfContextKey,
		CookieName:     csrfCookieName,
		CookiePath:     "/",
		CookieMaxAge:   int(opts.MaxAge.Seconds()),
		CookieSecure:   opts.Secure,
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
		ErrorHandler: func(err error, c echo.Context) error {
			return echo.NewHTTPError(http.StatusForbidden, "This form has expired. Please try again.").SetInternal(err)
		},
	})
}

// CSRFToken returns the token CSRF stored for this request, or "".
func CSRFToken(c echo.Context) string {
	token, _ := c.Get(csrfContextKey).(string)
	return token
}
