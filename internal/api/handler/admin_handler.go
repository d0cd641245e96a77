package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ledgerline/backoffice-portal/internal/api/view"
	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

const (
	adminTransactionsPath = "/admin/transactions"
	adminUsersPath        = "/admin/users"
	adminKYCPath          = "/admin/kyc"
)

var (
	adminTransactionsScreen = screen{name: "admin_transactions", title: "Transactions", current: "transactions"}
	adminUsersScreen        = screen{name: "admin_users", title: "Users", current: "users"}
	adminKYCScreen          = screen{name: "admin_kyc", title: "KYC review", current: "kyc-review"}
)

// AdminHandler serves the admin console. Mounted behind
// middleware.RequireRole(domain.RoleAdmin).
type AdminHandler struct {
	admin ports.AdminAPI
	pages *Pages
}

func NewAdminHandler(admin ports.AdminAPI, pages *Pages) *AdminHandler {
	return &AdminHandler{admin: admin, pages: pages}
}

// Transactions handles GET /admin/transactions.
func (h *AdminHandler) Transactions(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	q := listQuery(c)
	txs, err := h.admin.ListTransactions(c.Request().Context(), sess.Token, q)
	if err != nil {
		return err
	}
	return h.pages.Render(c, http.StatusOK, adminTransactionsScreen,
		view.Page{Data: txs, PagerBase: pagerBase(adminTransactionsPath, q)})
}

// ApproveTransaction handles POST /admin/transactions/:id/approve.
func (h *AdminHandler) ApproveTransaction(c echo.Context) error {
	return h.review(c, adminTransactionsPath, "Transaction approved.", func(sess *domain.Session, id string) error {
		return h.admin.ApproveTransaction(c.Request().Context(), sess.Token, id)
	})
}

// RejectTransaction handles POST /admin/transactions/:id/reject.
func (h *AdminHandler) RejectTransaction(c echo.Context) error {
	return h.reject(c, adminTransactionsPath, "Transaction rejected.", h.admin.RejectTransaction)
}

// Users handles GET /admin/users.
func (h *AdminHandler) Users(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	q := listQuery(c)
	q.Search = strings.TrimSpace(q.Search)
	users, err := h.admin.ListUsers(c.Request().Context(), sess.Token, q)
	if err != nil {
		return err
	}
	return h.pages.Render(c, http.StatusOK, adminUsersScreen,
		view.Page{Data: users, PagerBase: pagerBase(adminUsersPath, q)})
}

// SetUserStatus handles POST /admin/users/:id/status.
func (h *AdminHandler) SetUserStatus(c echo.Context) error {
	setBack(c, returnTo(c, adminUsersPath))
	var form userStatusForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg := "User activated."
	if form.Status == domain.UserSuspended {
		msg = "User suspended."
	}
	return h.review(c, adminUsersPath, msg, func(sess *domain.Session, id string) error {
		return h.admin.SetUserStatus(c.Request().Context(), sess.Token, id, form.Status)
	})
}

// KYCReviews handles GET /admin/kyc.
func (h *AdminHandler) KYCReviews(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	q := listQuery(c)
	docs, err := h.admin.ListKYCReviews(c.Request().Context(), sess.Token, q)
	if err != nil {
		return err
	}
	return h.pages.Render(c, http.StatusOK, adminKYCScreen,
		view.Page{Data: docs, PagerBase: pagerBase(adminKYCPath, q)})
}

// ApproveKYC handles POST /admin/kyc/:id/approve.
func (h *AdminHandler) ApproveKYC(c echo.Context) error {
	return h.review(c, adminKYCPath, "Document approved.", func(sess *domain.Session, id string) error {
		return h.admin.ApproveKYC(c.Request().Context(), sess.Token, id)
	})
}

// RejectKYC handles POST /admin/kyc/:id/reject.
func (h *AdminHandler) RejectKYC(c echo.Context) error {
	return h.reject(c, adminKYCPath, "Document rejected.", h.admin.RejectKYC)
}

// review runs a row action and returns to the listing the admin came from.
func (h *AdminHandler) review(c echo.Context, list, okMsg string, action func(*domain.Session, string) error) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	back := returnTo(c, list)
	setBack(c, back)

	if err := action(sess, c.Param("id")); err != nil {
		return err
	}
	return h.pages.Redirect(c, domain.FlashSuccess, okMsg, back)
}

// reject validates the reason from the modal and runs fn.
func (h *AdminHandler) reject(c echo.Context, list, okMsg string, fn func(ctx context.Context, token, id, reason string) error) error {
	var form reasonForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Reason = strings.TrimSpace(form.Reason)
	if err := c.Validate(&form); err != nil {
		setBack(c, returnTo(c, list))
		return err
	}
	return h.review(c, list, okMsg, func(sess *domain.Session, id string) error {
		return fn(c.Request().Context(), sess.Token, id, form.Reason)
	})
}
