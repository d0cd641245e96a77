// Package view renders the portal's HTML screens.
package view

import "github.com/ledgerline/backoffice-portal/internal/core/domain"

// Layout is the chrome shared by every screen.
type Layout struct {
	Title           string
	CurrentPage     string
	IsAuthenticated bool
	IsAdmin         bool
	User            *domain.UserRecord
	Nav             []NavItem
	Flashes         []domain.Flash
	// CSRFToken is echoed in a hidden field by every form.
	CSRFToken string
}

// Page is the data handed to a template. Form and Errors are only set on
// screens with a form; Nonce guards money-moving submissions.
type Page struct {
	Layout
	Data      any
	Form      any
	Errors    map[string]string
	Nonce     string
	PagerBase string
}

type NavItem struct {
	Key    string
	Label  string
	Href   string
	Active bool
}

var adminNav = []NavItem{
	{Key: "dashboard", Label: "Overview", Href: "/dashboard"},
	{Key: "transactions", Label: "Transactions", Href: "/admin/transactions"},
	{Key: "users", Label: "Users", Href: "/admin/users"},
	{Key: "kyc-review", Label: "KYC review", Href: "/admin/kyc"},
}

var clientNav = []NavItem{
	{Key: "dashboard", Label: "Dashboard", Href: "/dashboard"},
	{Key: "accounts", Label: "Accounts", Href: "/accounts"},
	{Key: "wallets", Label: "Wallets", Href: "/wallets"},
	{Key: "deposits", Label: "Deposits", Href: "/deposits"},
	{Key: "withdrawals", Label: "Withdrawals", Href: "/withdrawals"},
	{Key: "support", Label: "Support", Href: "/support"},
	{Key: "kyc", Label: "Verification", Href: "/kyc"},
}

// NavFor picks the admin menu iff the stored role is admin. An absent record
// or any other role gets the client menu.
func NavFor(user *domain.UserRecord, current string) []NavItem {
	src := clientNav
	if user.IsAdmin() {
		src = adminNav
	}
	out := make([]NavItem, len(src))
	for i, item := range src {
		item.Active = item.Key == current
		out[i] = item
	}
	return out
}

// NewLayout builds the chrome for sess. Anonymous visitors get no menu.
func NewLayout(sess *domain.Session, title, current string, flashes []domain.Flash) Layout {
	l := Layout{
		Title:           title,
		CurrentPage:     current,
		IsAuthenticated: sess.IsAuthenticated(),
		Flashes:         flashes,
	}
	if l.IsAuthenticated {
		l.User = sess.User
		l.IsAdmin = sess.User.IsAdmin()
		l.Nav = NavFor(sess.User, current)
	}
	return l
}
