package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/pkg/assets"
)

func TestRenderer_AllPagesParse(t *testing.T) {
	r, err := NewRenderer(assets.NewLinker("https://api.example.com"))
	require.NoError(t, err)

	for _, name := range []string{
		"login", "register", "dashboard_client", "dashboard_admin", "accounts", "wallets",
		"deposits", "deposit_new", "withdrawals", "withdrawal_new", "support", "ticket",
		"ticket_new", "kyc", "admin_transactions", "admin_users", "admin_kyc", "error",
	} {
		assert.True(t, r.Has(name), name)
	}
}

func TestRenderer_LoginShowsFieldErrorsAndFlashes(t *testing.T) {
	r, err := NewRenderer(nil)
	require.NoError(t, err)

	page := Page{
		Layout: NewLayout(domain.NewSession("sid", time.Now()), "Sign in", "login",
			[]domain.Flash{{Level: domain.FlashError, Message: "Your session has expired"}}),
		Errors: map[string]string{"email": "email must be a valid email"},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "login", page, nil))

	out := buf.String()
	assert.Contains(t, out, "Your session has expired")
	assert.Contains(t, out, "email must be a valid email")
	assert.NotContains(t, out, "Sign out")
}

func TestRenderer_FormsCarryCSRFToken(t *testing.T) {
	r, err := NewRenderer(nil)
	require.NoError(t, err)

	sess := domain.NewSession("sid", time.Now())
	sess.Authenticate("tok", domain.UserRecord{FullName: "Ann", Role: domain.RoleClient}, time.Now())
	page := Page{Layout: NewLayout(sess, "New ticket", "support", nil)}
	page.CSRFToken = "tkn-123"

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "ticket_new", page, nil))

	out := buf.String()
	// the ticket form and the sign-out form in the header
	assert.Equal(t, 2, strings.Count(out, `<input type="hidden" name="csrf" value="tkn-123">`))
}

func TestRenderer_DepositsLinksProofThroughAssetBase(t *testing.T) {
	r, err := NewRenderer(assets.NewLinker("https://api.example.com"))
	require.NoError(t, err)

	sess := domain.NewSession("sid", time.Now())
	sess.Authenticate("tok", domain.UserRecord{FullName: "Ann", Role: domain.RoleClient}, time.Now())
	page := Page{
		Layout: NewLayout(sess, "Deposits", "deposits", nil),
		Data: &domain.Page[domain.Deposit]{
			Items: []domain.Deposit{{Reference: "DEP-1", Method: "bank", Amount: "10.00", Currency: "USD", Status: "pending", ProofPath: "uploads/p.png"}},
			Total: 1, Page: 1, Limit: 20,
		},
		PagerBase: "/deposits",
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "deposits", page, nil))

	out := buf.String()
	assert.Contains(t, out, "https://api.example.com/uploads/p.png")
	assert.Contains(t, out, "Page 1 of 1")
	assert.Contains(t, out, "Sign out")
	assert.Contains(t, out, `href="/deposits" class="active"`)
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := NewRenderer(nil)
	require.NoError(t, err)

	assert.Error(t, r.Render(&bytes.Buffer{}, "nope", Page{}, nil))
}

func TestPageLink(t *testing.T) {
	assert.Equal(t, "/deposits?page=2", pageLink("/deposits", 2))
	assert.Equal(t, "/admin/kyc?status=pending&page=3", pageLink("/admin/kyc?status=pending", 3))
}
