package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

func (c *Client) Dashboard(ctx context.Context, token string) (*domain.DashboardSummary, error) {
	var out domain.DashboardSummary
	if err := c.doJSON(ctx, call{endpoint: "dashboard", method: http.MethodGet, path: "/dashboard", token: token}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAccounts(ctx context.Context, token string) ([]domain.Account, error) {
	var out []domain.Account
	if err := c.doJSON(ctx, call{endpoint: "accounts.list", method: http.MethodGet, path: "/accounts", token: token}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) OpenAccount(ctx context.Context, token string, in ports.OpenAccountInput) (*domain.Account, error) {
	body := map[string]string{"type": in.Type, "currency": in.Currency}
	var out domain.Account
	if err := c.doJSON(ctx, call{endpoint: "accounts.create", method: http.MethodPost, path: "/accounts", token: token}, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListWallets(ctx context.Context, token string) ([]domain.Wallet, error) {
	var out []domain.Wallet
	if err := c.doJSON(ctx, call{endpoint: "wallets.list", method: http.MethodGet, path: "/wallets", token: token}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateWallet(ctx context.Context, token string, in ports.CreateWalletInput) (*domain.Wallet, error) {
	body := map[string]string{"currency": in.Currency, "network": in.Network}
	var out domain.Wallet
	if err := c.doJSON(ctx, call{endpoint: "wallets.create", method: http.MethodPost, path: "/wallets", token: token}, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListDeposits(ctx context.Context, token string, q ports.ListQuery) (*domain.Page[domain.Deposit], error) {
	var out domain.Page[domain.Deposit]
	if err := c.doJSON(ctx, call{endpoint: "deposits.list", method: http.MethodGet, path: "/deposits", token: token, query: listQuery(q)}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDeposit always posts multipart so that the optional proof of payment
// rides along with the fields.
func (c *Client) CreateDeposit(ctx context.Context, token string, in ports.DepositInput) (*domain.Deposit, error) {
	fields := map[string]string{
		"method":    in.Method,
		"amount":    in.Amount,
		"currency":  in.Currency,
		"bank_name": in.BankName,
		"reference": in.Reference,
		"network":   in.Network,
		"tx_hash":   in.TxHash,
	}
	var out domain.Deposit
	err := c.doMultipart(ctx, call{endpoint: "deposits.create", method: http.MethodPost, path: "/deposits", token: token},
		fields, "proof", in.Proof, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListWithdrawals(ctx context.Context, token string, q ports.ListQuery) (*domain.Page[domain.Withdrawal], error) {
	var out domain.Page[domain.Withdrawal]
	if err := c.doJSON(ctx, call{endpoint: "withdrawals.list", method: http.MethodGet, path: "/withdrawals", token: token, query: listQuery(q)}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type withdrawalRequest struct {
	Method        string `json:"method"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	BankName      string `json:"bank_name,omitempty"`
	AccountHolder string `json:"account_holder,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	Network       string `json:"network,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
}

func (c *Client) CreateWithdrawal(ctx context.Context, token string, in ports.WithdrawalInput) (*domain.Withdrawal, error) {
	body := withdrawalRequest{
		Method:        in.Method,
		Amount:        in.Amount,
		Currency:      in.Currency,
		BankName:      in.BankName,
		AccountHolder: in.AccountHolder,
		AccountNumber: in.AccountNumber,
		Network:       in.Network,
		WalletAddress: in.WalletAddress,
	}
	var out domain.Withdrawal
	if err := c.doJSON(ctx, call{endpoint: "withdrawals.create", method: http.MethodPost, path: "/withdrawals", token: token}, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTickets(ctx context.Context, token string, q ports.ListQuery) (*domain.Page[domain.Ticket], error) {
	var out domain.Page[domain.Ticket]
	if err := c.doJSON(ctx, call{endpoint: "tickets.list", method: http.MethodGet, path: "/tickets", token: token, query: listQuery(q)}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTicket(ctx context.Context, token, id string) (*domain.Ticket, error) {
	var out domain.Ticket
	if err := c.doJSON(ctx, call{endpoint: "tickets.get", method: http.MethodGet, path: "/tickets/" + url.PathEscape(id), token: token}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTicket(ctx context.Context, token string, in ports.TicketInput) (*domain.Ticket, error) {
	body := map[string]string{"subject": in.Subject, "priority": in.Priority, "message": in.Message}
	var out domain.Ticket
	if err := c.doJSON(ctx, call{endpoint: "tickets.create", method: http.MethodPost, path: "/tickets", token: token}, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReplyTicket(ctx context.Context, token, id, message string) error {
	return c.doJSON(ctx, call{endpoint: "tickets.reply", method: http.MethodPost, path: "/tickets/" + url.PathEscape(id) + "/replies", token: token},
		map[string]string{"message": message}, nil)
}

func (c *Client) ListKYC(ctx context.Context, token string) ([]domain.KYCDocument, error) {
	var out []domain.KYCDocument
	if err := c.doJSON(ctx, call{endpoint: "kyc.list", method: http.MethodGet, path: "/kyc", token: token}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UploadKYC(ctx context.Context, token string, in ports.KYCUploadInput) (*domain.KYCDocument, error) {
	file := in.File
	var out domain.KYCDocument
	err := c.doMultipart(ctx, call{endpoint: "kyc.upload", method: http.MethodPost, path: "/kyc", token: token},
		map[string]string{"document_type": in.DocumentType}, "document", &file, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
