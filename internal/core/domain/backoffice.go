package domain

import "time"

// Transfer methods. Deposit and withdrawal forms render a different field set
// for each.
const (
	MethodBank   = "bank"
	MethodCrypto = "crypto"
)

// Review states shared by transactions and KYC documents.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Admin-managed account states.
const (
	UserActive    = "active"
	UserSuspended = "suspended"
)

// Amounts travel as decimal strings; the portal never does arithmetic on them.

type Account struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Type      string    `json:"type"`
	Currency  string    `json:"currency"`
	Balance   string    `json:"balance"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Wallet struct {
	ID        string    `json:"id"`
	Currency  string    `json:"currency"`
	Network   string    `json:"network"`
	Address   string    `json:"address"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

type Deposit struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	Method    string    `json:"method"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	BankName  string    `json:"bank_name,omitempty"`
	Network   string    `json:"network,omitempty"`
	TxHash    string    `json:"tx_hash,omitempty"`
	ProofPath string    `json:"proof_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Withdrawal struct {
	ID            string    `json:"id"`
	Reference     string    `json:"reference"`
	Method        string    `json:"method"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	BankName      string    `json:"bank_name,omitempty"`
	AccountHolder string    `json:"account_holder,omitempty"`
	AccountNumber string    `json:"account_number,omitempty"`
	Network       string    `json:"network,omitempty"`
	WalletAddress string    `json:"wallet_address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type TicketMessage struct {
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	FromStaff bool      `json:"from_staff"`
	CreatedAt time.Time `json:"created_at"`
}

type Ticket struct {
	ID        string          `json:"id"`
	Subject   string          `json:"subject"`
	Status    string          `json:"status"`
	Priority  string          `json:"priority"`
	Messages  []TicketMessage `json:"messages,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Transaction is a deposit or withdrawal as seen from the admin queue.
type Transaction struct {
	ID           string     `json:"id"`
	Reference    string     `json:"reference"`
	Kind         string     `json:"kind"`
	Method       string     `json:"method"`
	Amount       string     `json:"amount"`
	Currency     string     `json:"currency"`
	Status       string     `json:"status"`
	UserName     string     `json:"user_name"`
	UserEmail    string     `json:"user_email"`
	ProofPath    string     `json:"proof_path,omitempty"`
	RejectReason string     `json:"reject_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
}

type AdminUser struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	KYCStatus string    `json:"kyc_status"`
	CreatedAt time.Time `json:"created_at"`
}

type KYCDocument struct {
	ID           string    `json:"id"`
	UserName     string    `json:"user_name,omitempty"`
	UserEmail    string    `json:"user_email,omitempty"`
	DocumentType string    `json:"document_type"`
	FilePath     string    `json:"file_path"`
	Status       string    `json:"status"`
	RejectReason string    `json:"reject_reason,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// DashboardSummary feeds the client dashboard.
type DashboardSummary struct {
	TotalBalance       string        `json:"total_balance"`
	Currency           string        `json:"currency"`
	Accounts           int           `json:"accounts"`
	Wallets            int           `json:"wallets"`
	PendingDeposits    int           `json:"pending_deposits"`
	PendingWithdrawals int           `json:"pending_withdrawals"`
	OpenTickets        int           `json:"open_tickets"`
	KYCStatus          string        `json:"kyc_status"`
	Recent             []Transaction `json:"recent"`
}

// AdminStats feeds the admin dashboard.
type AdminStats struct {
	Users               int    `json:"users"`
	PendingTransactions int    `json:"pending_transactions"`
	PendingKYC          int    `json:"pending_kyc"`
	OpenTickets         int    `json:"open_tickets"`
	VolumeToday         string `json:"volume_today"`
	Currency            string `json:"currency"`
	LogoPath            string `json:"logo_path,omitempty"`
}
