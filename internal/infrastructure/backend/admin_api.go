package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

func (c *Client) Stats(ctx context.Context, token string) (*domain.AdminStats, error) {
	var out domain.AdminStats
	if err := c.doJSON(ctx, call{endpoint: "admin.stats", method: http.MethodGet, path: "/admin/stats", token: token}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTransactions(ctx context.Context, token string, q ports.ListQuery) (*domain.Page[domain.Transaction], error) {
	var out domain.Page[domain.Transaction]
	if err := c.doJSON(ctx, call{endpoint: "admin.transactions.list", method: http.MethodGet, path: "/admin/transactions", token: token, query: listQuery(q)}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ApproveTransaction(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, call{endpoint: "admin.transactions.approve", method: http.MethodPost, path: "/admin/transactions/" + url.PathEscape(id) + "/approve", token: token}, nil, nil)
}

func (c *Client) RejectTransaction(ctx context.Context, token, id, reason string) error {
	return c.doJSON(ctx, call{endpoint: "admin.transactions.reject", method: http.MethodPost, path: "/admin/transactions/" + url.PathEscape(id) + "/reject", token: token},
		map[string]string{"reason": reason}, nil)
}

func (c *Client) ListUsers(ctx context.Context, token string, q ports.ListQuery) (*domain.Page[domain.AdminUser], error) {
	var out domain.Page[domain.AdminUser]
	if err := c.doJSON(ctx, call{endpoint: "admin.users.list", method: http.MethodGet, path: "/admin/users", token: token, query: listQuery(q)}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetUserStatus(ctx context.Context, token, id, status string) error {
	return c.doJSON(ctx, call{endpoint: "admin.users.status", method: http.MethodPost, path: "/admin/users/" + url.PathEscape(id) + "/status", token: token},
		map[string]string{"status": status}, nil)
}

func (c *Client) ListKYCReviews(ctx context.Context, token string, q ports.ListQuery) (*domain.Page[domain.KYCDocument], error) {
	var out domain.Page[domain.KYCDocument]
	if err := c.doJSON(ctx, call{endpoint: "admin.kyc.list", method: http.MethodGet, path: "/admin/kyc", token: token, query: listQuery(q)}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ApproveKYC(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, call{endpoint: "admin.kyc.approve", method: http.MethodPost, path: "/admin/kyc/" + url.PathEscape(id) + "/approve", token: token}, nil, nil)
}

func (c *Client) RejectKYC(ctx context.Context, token, id, reason string) error {
	return c.doJSON(ctx, call{endpoint: "admin.kyc.reject", method: http.MethodPost, path: "/admin/kyc/" + url.PathEscape(id) + "/reject", token: token},
		map[string]string{"reason": reason}, nil)
}
