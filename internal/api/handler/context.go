package handler

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ledgerline/backoffice-portal/internal/api/metrics"
	"github.com/ledgerline/backoffice-portal/internal/api/middleware"
	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

// BackKey is the echo context key holding where a failed form post should
// send the browser.
const BackKey = "back"

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ctxSession returns the signed-in session and performs a fast-fail check
// before any backend call. RequireAuth normally guarantees it; a session
// without a token here is treated like a backend 401.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess := middleware.SessionFrom(c)
	if !sess.IsAuthenticated() {
		return nil, domain.ErrUnauthorized
	}
	return sess, nil
}

func setBack(c echo.Context, path string) {
	c.Set(BackKey, path)
}

// returnTo is the same-origin Referer when there is one, else fallback.
// Keeps table filters and page numbers across a row action.
func returnTo(c echo.Context, fallback string) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Request().Host) {
		return fallback
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// listQuery reads page, limit, status and search from the query string.
func listQuery(c echo.Context) ports.ListQuery {
	q := ports.ListQuery{Page: 1, Limit: defaultLimit}
	_ = echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		String("status", &q.Status).
		String("search", &q.Search).
		BindError()
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > maxLimit {
		q.Limit = defaultLimit
	}
	return q
}

// pagerBase is the listing URL carrying the current filters, without page.
func pagerBase(path string, q ports.ListQuery) string {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Limit != defaultLimit {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

// claimSubmit rejects a replayed money-moving form.
func claimSubmit(c echo.Context, guard ports.SubmitGuard, sess *domain.Session, nonce, form string) error {
	ok, err := guard.Claim(c.Request().Context(), sess.ID, nonce)
	if err != nil {
		return err
	}
	if !ok {
		metrics.DuplicateSubmitsTotal.WithLabelValues(form).Inc()
		return domain.ErrDuplicateSubmit
	}
	return nil
}

// formFailure reports whether err should re-render the form rather than go to
// the error handler, and with which inline errors and toast.
func formFailure(err error) (FormErrors, string, bool) {
	var fe FormErrors
	if errors.As(err, &fe) {
		return fe, "", true
	}
	if !errors.Is(err, domain.ErrValidation) {
		return nil, "", false
	}
	msg := "Please check the form and try again."
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			msg = apiErr.Message
		}
		if len(apiErr.Fields) > 0 {
			return FormErrors(apiErr.Fields), msg, true
		}
	}
	return nil, msg, true
}
