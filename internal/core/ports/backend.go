package ports

import (
	"context"
	"io"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
)

// LoginResult is what the backend hands back on a successful sign-in.
type LoginResult struct {
	Token string
	User  domain.UserRecord
}

// RegisterInput carries the public sign-up form.
type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

// ListQuery carries table paging and filters.
type ListQuery struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// Upload is a file forwarded to the backend as multipart form data.
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

type OpenAccountInput struct {
	Type     string
	Currency string
}

type CreateWalletInput struct {
	Currency string
	Network  string
}

// DepositInput holds either the bank fields or the crypto fields, chosen by Method.
type DepositInput struct {
	Method    string
	Amount    string
	Currency  string
	BankName  string
	Reference string
	Network   string
	TxHash    string
	Proof     *Upload // optional
}

// WithdrawalInput holds either the bank fields or the crypto fields, chosen by Method.
type WithdrawalInput struct {
	Method        string
	Amount        string
	Currency      string
	BankName      string
	AccountHolder string
	AccountNumber string
	Network       string
	WalletAddress string
}

type TicketInput struct {
	Subject  string
	Priority string
	Message  string
}

type KYCUploadInput struct {
	DocumentType string
	File         Upload
}

// AuthAPI is the public part of the back-office API.
type AuthAPI interface {
	// Login returns domain.ErrInvalidCredentials on rejected credentials.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, in RegisterInput) error
	Logout(ctx context.Context, token string) error
}

// ClientAPI is what a signed-in client can do. Every call carries the stored
// bearer token and returns domain.ErrUnauthorized when the backend rejects it.
type ClientAPI interface {
	Dashboard(ctx context.Context, token string) (*domain.DashboardSummary, error)
	ListAccounts(ctx context.Context, token string) ([]domain.Account, error)
	OpenAccount(ctx context.Context, token string, in OpenAccountInput) (*domain.Account, error)
	ListWallets(ctx context.Context, token string) ([]domain.Wallet, error)
	CreateWallet(ctx context.Context, token string, in CreateWalletInput) (*domain.Wallet, error)
	ListDeposits(ctx context.Context, token string, q ListQuery) (*domain.Page[domain.Deposit], error)
	CreateDeposit(ctx context.Context, token string, in DepositInput) (*domain.Deposit, error)
	ListWithdrawals(ctx context.Context, token string, q ListQuery) (*domain.Page[domain.Withdrawal], error)
	CreateWithdrawal(ctx context.Context, token string, in WithdrawalInput) (*domain.Withdrawal, error)
	ListTickets(ctx context.Context, token string, q ListQuery) (*domain.Page[domain.Ticket], error)
	GetTicket(ctx context.Context, token, id string) (*domain.Ticket, error)
	CreateTicket(ctx context.Context, token string, in TicketInput) (*domain.Ticket, error)
	ReplyTicket(ctx context.Context, token, id, message string) error
	ListKYC(ctx context.Context, token string) ([]domain.KYCDocument, error)
	UploadKYC(ctx context.Context, token string, in KYCUploadInput) (*domain.KYCDocument, error)
}

// AdminAPI backs the admin console.
type AdminAPI interface {
	Stats(ctx context.Context, token string) (*domain.AdminStats, error)
	ListTransactions(ctx context.Context, token string, q ListQuery) (*domain.Page[domain.Transaction], error)
	ApproveTransaction(ctx context.Context, token, id string) error
	RejectTransaction(ctx context.Context, token, id, reason string) error
	ListUsers(ctx context.Context, token string, q ListQuery) (*domain.Page[domain.AdminUser], error)
	SetUserStatus(ctx context.Context, token, id, status string) error
	ListKYCReviews(ctx context.Context, token string, q ListQuery) (*domain.Page[domain.KYCDocument], error)
	ApproveKYC(ctx context.Context, token, id string) error
	RejectKYC(ctx context.Context, token, id, reason string) error
}
