package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/backoffice-portal/internal/api/middleware"
	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

func TestTransferHandler_CreateDeposit_CryptoRequiresCryptoFields(t *testing.T) {
	env := newTestEnv(nil)
	client := &stubClientAPI{}
	h := NewTransferHandler(client, env.guard, env.pages)
	sess := env.signIn(t, domain.RoleClient)

	c, rec := env.form(http.MethodPost, "/deposits", url.Values{
		"nonce":    {"n1"},
		"method":   {"crypto"},
		"amount":   {"100.50"},
		"currency": {"usdt"},
	}, sess)

	require.NoError(t, h.CreateDeposit(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "deposit_new", env.renderer.name)

	errs := env.renderer.page.Errors
	assert.Contains(t, errs, "network")
	assert.Contains(t, errs, "tx_hash")
	assert.NotContains(t, errs, "bank_name")
	assert.NotContains(t, errs, "reference")
	assert.NotEmpty(t, env.renderer.page.Nonce)
}

func TestTransferHandler_CreateDeposit_BankForwardsOnlyBankFields(t *testing.T) {
	env := newTestEnv(nil)
	var got ports.DepositInput
	client := &stubClientAPI{
		createDepositFn: func(_ context.Context, token string, in ports.DepositInput) (*domain.Deposit, error) {
			assert.Equal(t, "tok-client", token)
			got = in
			return &domain.Deposit{ID: "d1"}, nil
		},
	}
	h := NewTransferHandler(client, env.guard, env.pages)
	sess := env.signIn(t, domain.RoleClient)

	c, rec := env.form(http.MethodPost, "/deposits", url.Values{
		"nonce":     {"n1"},
		"method":    {"bank"},
		"amount":    {"250"},
		"currency":  {"usd"},
		"bank_name": {"First Bank"},
		"reference": {"INV-7"},
		"network":   {"ignored"},
	}, sess)

	require.NoError(t, h.CreateDeposit(c))
	assertRedirect(t, rec, "/deposits")
	assert.Equal(t, ports.DepositInput{
		Method:    domain.MethodBank,
		Amount:    "250",
		Currency:  "USD",
		BankName:  "First Bank",
		Reference: "INV-7",
	}, got)
}

func TestTransferHandler_CreateDeposit_ReplayedNonce(t *testing.T) {
	env := newTestEnv(nil)
	calls := 0
	client := &stubClientAPI{
		createDepositFn: func(context.Context, string, ports.DepositInput) (*domain.Deposit, error) {
			calls++
			return &domain.Deposit{}, nil
		},
	}
	h := NewTransferHandler(client, env.guard, env.pages)
	sess := env.signIn(t, domain.RoleClient)
	values := url.Values{
		"nonce": {"same"}, "method": {"crypto"}, "amount": {"1"}, "currency": {"BTC"},
		"network": {"bitcoin"}, "tx_hash": {"abc"},
	}

	c, _ := env.form(http.MethodPost, "/deposits", values, sess)
	require.NoError(t, h.CreateDeposit(c))

	c, _ = env.form(http.MethodPost, "/deposits", values, sess)
	err := h.CreateDeposit(c)

	assert.ErrorIs(t, err, domain.ErrDuplicateSubmit)
	assert.Equal(t, 1, calls)
}

func TestTransferHandler_CreateDeposit_ForwardsProof(t *testing.T) {
	env := newTestEnv(nil)
	var proof []byte
	var filename string
	client := &stubClientAPI{
		createDepositFn: func(_ context.Context, _ string, in ports.DepositInput) (*domain.Deposit, error) {
			require.NotNil(t, in.Proof)
			filename = in.Proof.Filename
			proof, _ = io.ReadAll(in.Proof.Content)
			return &domain.Deposit{}, nil
		},
	}
	h := NewTransferHandler(client, env.guard, env.pages)
	sess := env.signIn(t, domain.RoleClient)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"nonce": "n1", "method": "bank", "amount": "10", "currency": "USD",
		"bank_name": "First Bank", "reference": "R1",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("proof", "receipt.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/deposits", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	middleware.WithSession(c, sess)

	require.NoError(t, h.CreateDeposit(c))
	assertRedirect(t, rec, "/deposits")
	assert.Equal(t, "receipt.png", filename)
	assert.Equal(t, "png-bytes", string(proof))
}

func TestTransferHandler_CreateDeposit_UnauthorizedPropagates(t *testing.T) {
	env := newTestEnv(nil)
	client := &stubClientAPI{
		createDepositFn: func(context.Context, string, ports.DepositInput) (*domain.Deposit, error) {
			return nil, &domain.APIError{Status: http.StatusUnauthorized, Kind: domain.ErrUnauthorized}
		},
	}
	h := NewTransferHandler(client, env.guard, env.pages)
	sess := env.signIn(t, domain.RoleClient)

	c, _ := env.form(http.MethodPost, "/deposits", url.Values{
		"nonce": {"n1"}, "method": {"crypto"}, "amount": {"1"}, "currency": {"BTC"},
		"network": {"bitcoin"}, "tx_hash": {"abc"},
	}, sess)

	assert.True(t, errors.Is(h.CreateDeposit(c), domain.ErrUnauthorized))
}

func TestTransferHandler_CreateWithdrawal_BankRequiresAccount(t *testing.T) {
	env := newTestEnv(nil)
	h := NewTransferHandler(&stubClientAPI{}, env.guard, env.pages)
	sess := env.signIn(t, domain.RoleClient)

	c, rec := env.form(http.MethodPost, "/withdrawals", url.Values{
		"nonce": {"n1"}, "method": {"bank"}, "amount": {"0"}, "currency": {"USD"},
		"bank_name": {"First Bank"},
	}, sess)

	require.NoError(t, h.CreateWithdrawal(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := env.renderer.page.Errors
	assert.Contains(t, errs, "account_holder")
	assert.Contains(t, errs, "account_number")
	assert.Equal(t, "amount must be a positive number", errs["amount"])
	assert.NotContains(t, errs, "wallet_address")
}

func TestTransferHandler_CreateWithdrawal_BackendFieldErrors(t *testing.T) {
	env := newTestEnv(nil)
	client := &stubClientAPI{
		createWithdrawalFn: func(context.Context, string, ports.WithdrawalInput) (*domain.Withdrawal, error) {
			return nil, &domain.APIError{
				Status:  http.StatusUnprocessableEntity,
				Message: "Insufficient balance",
				Fields:  map[string]string{"amount": "exceeds available balance"},
				Kind:    domain.ErrValidation,
			}
		},
	}
	h := NewTransferHandler(client, env.guard, env.pages)
	sess := env.signIn(t, domain.RoleClient)

	c, rec := env.form(http.MethodPost, "/withdrawals", url.Values{
		"nonce": {"n1"}, "method": {"crypto"}, "amount": {"5"}, "currency": {"ETH"},
		"network": {"ethereum"}, "wallet_address": {"0xabc"},
	}, sess)

	require.NoError(t, h.CreateWithdrawal(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "exceeds available balance", env.renderer.page.Errors["amount"])
	require.Len(t, env.renderer.page.Flashes, 1)
	assert.Equal(t, "Insufficient balance", env.renderer.page.Flashes[0].Message)
}

func TestTransferHandler_ListDeposits_PassesPaging(t *testing.T) {
	env := newTestEnv(nil)
	var got ports.ListQuery
	client := &stubClientAPI{
		listDepositsFn: func(_ context.Context, _ string, q ports.ListQuery) (*domain.Page[domain.Deposit], error) {
			got = q
			return &domain.Page[domain.Deposit]{Page: q.Page, Limit: q.Limit}, nil
		},
	}
	h := NewTransferHandler(client, env.guard, env.pages)
	sess := env.signIn(t, domain.RoleClient)

	c, rec := env.form(http.MethodGet, "/deposits?page=3&limit=500&status=pending", nil, sess)

	require.NoError(t, h.ListDeposits(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ports.ListQuery{Page: 3, Limit: defaultLimit, Status: "pending"}, got)
	assert.Equal(t, "/deposits?status=pending", env.renderer.page.PagerBase)
	assert.Equal(t, "deposits", env.renderer.page.CurrentPage)
}
