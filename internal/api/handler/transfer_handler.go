package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ledgerline/backoffice-portal/internal/api/view"
	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

var (
	depositsScreen      = screen{name: "deposits", title: "Deposits", current: "deposits"}
	depositNewScreen    = screen{name: "deposit_new", title: "New deposit", current: "deposits"}
	withdrawalsScreen   = screen{name: "withdrawals", title: "Withdrawals", current: "withdrawals"}
	withdrawalNewScreen = screen{name: "withdrawal_new", title: "New withdrawal", current: "withdrawals"}
)

// TransferHandler serves deposits and withdrawals. Both forms switch their
// required fields on the selected method.
type TransferHandler struct {
	client ports.ClientAPI
	guard  ports.SubmitGuard
	pages  *Pages
}

func NewTransferHandler(client ports.ClientAPI, guard ports.SubmitGuard, pages *Pages) *TransferHandler {
	return &TransferHandler{client: client, guard: guard, pages: pages}
}

// ListDeposits handles GET /deposits.
func (h *TransferHandler) ListDeposits(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	q := listQuery(c)
	deposits, err := h.client.ListDeposits(c.Request().Context(), sess.Token, q)
	if err != nil {
		return err
	}
	return h.pages.Render(c, http.StatusOK, depositsScreen,
		view.Page{Data: deposits, PagerBase: pagerBase("/deposits", q)})
}

// NewDeposit handles GET /deposits/new.
func (h *TransferHandler) NewDeposit(c echo.Context) error {
	return h.pages.Render(c, http.StatusOK, depositNewScreen,
		view.Page{Form: &depositForm{Method: domain.MethodBank}, Nonce: newNonce()})
}

// CreateDeposit handles POST /deposits. The proof of payment is optional and
// is streamed to the backend as it is read.
func (h *TransferHandler) CreateDeposit(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	setBack(c, "/deposits/new")

	var form depositForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	trimDeposit(&form)

	err = c.Validate(&form)
	if err == nil {
		err = claimSubmit(c, h.guard, sess, form.Nonce, "deposit")
	}
	if err == nil {
		err = h.submitDeposit(c, sess, form)
	}
	if err != nil {
		if errs, msg, ok := formFailure(err); ok {
			return h.pages.Render(c, http.StatusUnprocessableEntity, depositNewScreen,
				view.Page{Form: &form, Errors: errs, Nonce: newNonce()}, errorFlash(msg)...)
		}
		return err
	}
	return h.pages.Redirect(c, domain.FlashSuccess, "Deposit submitted for review.", "/deposits")
}

func (h *TransferHandler) submitDeposit(c echo.Context, sess *domain.Session, form depositForm) error {
	in := ports.DepositInput{
		Method:   form.Method,
		Amount:   form.Amount,
		Currency: form.Currency,
	}
	switch form.Method {
	case domain.MethodBank:
		in.BankName, in.Reference = form.BankName, form.Reference
	case domain.MethodCrypto:
		in.Network, in.TxHash = form.Network, form.TxHash
	}

	fh, err := c.FormFile("proof")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		return FormErrors{"proof": "proof could not be read"}
	default:
		f, err := fh.Open()
		if err != nil {
			return FormErrors{"proof": "proof could not be read"}
		}
		defer f.Close()
		in.Proof = &ports.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Content:     f,
		}
	}

	_, err = h.client.CreateDeposit(c.Request().Context(), sess.Token, in)
	return err
}

func trimDeposit(f *depositForm) {
	f.Amount = strings.TrimSpace(f.Amount)
	f.Currency = strings.ToUpper(strings.TrimSpace(f.Currency))
	f.BankName = strings.TrimSpace(f.BankName)
	f.Reference = strings.TrimSpace(f.Reference)
	f.Network = strings.TrimSpace(f.Network)
	f.TxHash = strings.TrimSpace(f.TxHash)
}

// ListWithdrawals handles GET /withdrawals.
func (h *TransferHandler) ListWithdrawals(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	q := listQuery(c)
	withdrawals, err := h.client.ListWithdrawals(c.Request().Context(), sess.Token, q)
	if err != nil {
		return err
	}
	return h.pages.Render(c, http.StatusOK, withdrawalsScreen,
		view.Page{Data: withdrawals, PagerBase: pagerBase("/withdrawals", q)})
}

// NewWithdrawal handles GET /withdrawals/new.
func (h *TransferHandler) NewWithdrawal(c echo.Context) error {
	return h.pages.Render(c, http.StatusOK, withdrawalNewScreen,
		view.Page{Form: &withdrawalForm{Method: domain.MethodBank}, Nonce: newNonce()})
}

// CreateWithdrawal handles POST /withdrawals.
func (h *TransferHandler) CreateWithdrawal(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	setBack(c, "/withdrawals/new")

	var form withdrawalForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	trimWithdrawal(&form)

	err = c.Validate(&form)
	if err == nil {
		err = claimSubmit(c, h.guard, sess, form.Nonce, "withdrawal")
	}
	if err == nil {
		in := ports.WithdrawalInput{
			Method:   form.Method,
			Amount:   form.Amount,
			Currency: form.Currency,
		}
		switch form.Method {
		case domain.MethodBank:
			in.BankName, in.AccountHolder, in.AccountNumber = form.BankName, form.AccountHolder, form.AccountNumber
		case domain.MethodCrypto:
			in.Network, in.WalletAddress = form.Network, form.WalletAddress
		}
		_, err = h.client.CreateWithdrawal(c.Request().Context(), sess.Token, in)
	}
	if err != nil {
		if errs, msg, ok := formFailure(err); ok {
			return h.pages.Render(c, http.StatusUnprocessableEntity, withdrawalNewScreen,
				view.Page{Form: &form, Errors: errs, Nonce: newNonce()}, errorFlash(msg)...)
		}
		return err
	}
	return h.pages.Redirect(c, domain.FlashSuccess, "Withdrawal requested.", "/withdrawals")
}

func trimWithdrawal(f *withdrawalForm) {
	f.Amount = strings.TrimSpace(f.Amount)
	f.Currency = strings.ToUpper(strings.TrimSpace(f.Currency))
	f.BankName = strings.TrimSpace(f.BankName)
	f.AccountHolder = strings.TrimSpace(f.AccountHolder)
	f.AccountNumber = strings.ReplaceAll(strings.TrimSpace(f.AccountNumber), " ", "")
	f.Network = strings.TrimSpace(f.Network)
	f.WalletAddress = strings.TrimSpace(f.WalletAddress)
}
