package handler

// --- Form types ---
//
// Field names follow the HTML inputs; conditional fields use required_if on
// Method so that only the selected transfer rail is validated.

type loginForm struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type registerForm struct {
	FullName        string `form:"full_name"        validate:"required,max=120"`
	Email           string `form:"email"            validate:"required,email"`
	Phone           string `form:"phone"            validate:"omitempty,max=32"`
	Password        string `form:"password"         validate:"required,min=8"`
	PasswordConfirm string `form:"password_confirm" validate:"required,eqfield=Password"`
}

type accountForm struct {
	Nonce    string `form:"nonce"    validate:"required"`
	Type     string `form:"type"     validate:"required,oneof=checking savings"`
	Currency string `form:"currency" validate:"required,len=3"`
}

type walletForm struct {
	Nonce    string `form:"nonce"    validate:"required"`
	Currency string `form:"currency" validate:"required,max=10"`
	Network  string `form:"network"  validate:"required,max=32"`
}

type depositForm struct {
	Nonce     string `form:"nonce"     validate:"required"`
	Method    string `form:"method"    validate:"required,oneof=bank crypto"`
	Amount    string `form:"amount"    validate:"required,amount"`
	Currency  string `form:"currency"  validate:"required,max=10"`
	BankName  string `form:"bank_name" validate:"required_if=Method bank"`
	Reference string `form:"reference" validate:"required_if=Method bank"`
	Network   string `form:"network"   validate:"required_if=Method crypto"`
	TxHash    string `form:"tx_hash"   validate:"required_if=Method crypto"`
}

type withdrawalForm struct {
	Nonce         string `form:"nonce"          validate:"required"`
	Method        string `form:"method"         validate:"required,oneof=bank crypto"`
	Amount        string `form:"amount"         validate:"required,amount"`
	Currency      string `form:"currency"       validate:"required,max=10"`
	BankName      string `form:"bank_name"      validate:"required_if=Method bank"`
	AccountHolder string `form:"account_holder" validate:"required_if=Method bank"`
	AccountNumber string `form:"account_number" validate:"required_if=Method bank"`
	Network       string `form:"network"        validate:"required_if=Method crypto"`
	WalletAddress string `form:"wallet_address" validate:"required_if=Method crypto"`
}

type ticketForm struct {
	Subject  string `form:"subject"  validate:"required,max=200"`
	Priority string `form:"priority" validate:"required,oneof=low normal high"`
	Message  string `form:"message"  validate:"required,max=5000"`
}

type replyForm struct {
	Message string `form:"message" validate:"required,max=5000"`
}

type kycForm struct {
	DocumentType string `form:"document_type" validate:"required,oneof=passport national_id proof_of_address"`
}

type reasonForm struct {
	Reason string `form:"reason" validate:"required,max=500"`
}

type userStatusForm struct {
	Status string `form:"status" validate:"required,oneof=active suspended"`
}

// --- JSON types ---

type sessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *userRecord `json:"user,omitempty"`
}

type userRecord struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// errorResponse is the standard error envelope returned on JSON endpoints.
type errorResponse struct {
	Error string `json:"error"`
}
