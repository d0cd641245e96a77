package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ledgerline/backoffice-portal/internal/api/view"
	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

var (
	accountsScreen = screen{name: "accounts", title: "Accounts", current: "accounts"}
	walletsScreen  = screen{name: "wallets", title: "Wallets", current: "wallets"}
)

// AccountHandler serves the client's accounts and wallets.
type AccountHandler struct {
	client ports.ClientAPI
	guard  ports.SubmitGuard
	pages  *Pages
}

func NewAccountHandler(client ports.ClientAPI, guard ports.SubmitGuard, pages *Pages) *AccountHandler {
	return &AccountHandler{client: client, guard: guard, pages: pages}
}

// ListAccounts handles GET /accounts.
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	return h.renderAccounts(c, http.StatusOK, nil, nil, "")
}

func (h *AccountHandler) renderAccounts(c echo.Context, status int, form *accountForm, errs FormErrors, msg string) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	accounts, err := h.client.ListAccounts(c.Request().Context(), sess.Token)
	if err != nil {
		return err
	}
	page := view.Page{Data: accounts, Errors: errs, Nonce: newNonce()}
	if form != nil {
		page.Form = form
	}
	return h.pages.Render(c, status, accountsScreen, page, errorFlash(msg)...)
}

// OpenAccount handles POST /accounts.
func (h *AccountHandler) OpenAccount(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	setBack(c, "/accounts")

	var form accountForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Currency = strings.ToUpper(strings.TrimSpace(form.Currency))

	err = c.Validate(&form)
	if err == nil {
		err = claimSubmit(c, h.guard, sess, form.Nonce, "account")
	}
	if err == nil {
		_, err = h.client.OpenAccount(c.Request().Context(), sess.Token, ports.OpenAccountInput{
			Type:     form.Type,
			Currency: form.Currency,
		})
	}
	if err != nil {
		if errs, msg, ok := formFailure(err); ok {
			return h.renderAccounts(c, http.StatusUnprocessableEntity, &form, errs, msg)
		}
		return err
	}
	return h.pages.Redirect(c, domain.FlashSuccess, "Account opened.", "/accounts")
}

// ListWallets handles GET /wallets.
func (h *AccountHandler) ListWallets(c echo.Context) error {
	return h.renderWallets(c, http.StatusOK, nil, nil, "")
}

func (h *AccountHandler) renderWallets(c echo.Context, status int, form *walletForm, errs FormErrors, msg string) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	wallets, err := h.client.ListWallets(c.Request().Context(), sess.Token)
	if err != nil {
		return err
	}
	page := view.Page{Data: wallets, Errors: errs, Nonce: newNonce()}
	if form != nil {
		page.Form = form
	}
	return h.pages.Render(c, status, walletsScreen, page, errorFlash(msg)...)
}

// CreateWallet handles POST /wallets.
func (h *AccountHandler) CreateWallet(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	setBack(c, "/wallets")

	var form walletForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Currency = strings.ToUpper(strings.TrimSpace(form.Currency))
	form.Network = strings.TrimSpace(form.Network)

	err = c.Validate(&form)
	if err == nil {
		err = claimSubmit(c, h.guard, sess, form.Nonce, "wallet")
	}
	if err == nil {
		_, err = h.client.CreateWallet(c.Request().Context(), sess.Token, ports.CreateWalletInput{
			Currency: form.Currency,
			Network:  form.Network,
		})
	}
	if err != nil {
		if errs, msg, ok := formFailure(err); ok {
			return h.renderWallets(c, http.StatusUnprocessableEntity, &form, errs, msg)
		}
		return err
	}
	return h.pages.Redirect(c, domain.FlashSuccess, "Wallet created.", "/wallets")
}
