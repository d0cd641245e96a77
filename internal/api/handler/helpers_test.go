package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ledgerline/backoffice-portal/internal/api/middleware"
	"github.com/ledgerline/backoffice-portal/internal/api/view"
	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
	"github.com/ledgerline/backoffice-portal/internal/core/service"
	"github.com/ledgerline/backoffice-portal/internal/infrastructure/memstore"
)

// --- stubs ---

type stubAuthAPI struct {
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	registerFn func(ctx context.Context, in ports.RegisterInput) error
}

func (s *stubAuthAPI) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthAPI) Register(ctx context.Context, in ports.RegisterInput) error {
	return s.registerFn(ctx, in)
}

func (s *stubAuthAPI) Logout(context.Context, string) error { return nil }

// stubClientAPI panics on any method a test did not set up.
type stubClientAPI struct {
	ports.ClientAPI
	dashboardFn        func(ctx context.Context, token string) (*domain.DashboardSummary, error)
	listAccountsFn     func(ctx context.Context, token string) ([]domain.Account, error)
	openAccountFn      func(ctx context.Context, token string, in ports.OpenAccountInput) (*domain.Account, error)
	listDepositsFn     func(ctx context.Context, token string, q ports.ListQuery) (*domain.Page[domain.Deposit], error)
	createDepositFn    func(ctx context.Context, token string, in ports.DepositInput) (*domain.Deposit, error)
	createWithdrawalFn func(ctx context.Context, token string, in ports.WithdrawalInput) (*domain.Withdrawal, error)
	getTicketFn        func(ctx context.Context, token, id string) (*domain.Ticket, error)
	createTicketFn     func(ctx context.Context, token string, in ports.TicketInput) (*domain.Ticket, error)
	replyTicketFn      func(ctx context.Context, token, id, message string) error
	listKYCFn          func(ctx context.Context, token string) ([]domain.KYCDocument, error)
	uploadKYCFn        func(ctx context.Context, token string, in ports.KYCUploadInput) (*domain.KYCDocument, error)
}

func (s *stubClientAPI) Dashboard(ctx context.Context, token string) (*domain.DashboardSummary, error) {
	return s.dashboardFn(ctx, token)
}

func (s *stubClientAPI) ListAccounts(ctx context.Context, token string) ([]domain.Account, error) {
	return s.listAccountsFn(ctx, token)
}

func (s *stubClientAPI) OpenAccount(ctx context.Context, token string, in ports.OpenAccountInput) (*domain.Account, error) {
	return s.openAccountFn(ctx, token, in)
}

func (s *stubClientAPI) ListDeposits(ctx context.Context, token string, q ports.ListQuery) (*domain.Page[domain.Deposit], error) {
	return s.listDepositsFn(ctx, token, q)
}

func (s *stubClientAPI) CreateDeposit(ctx context.Context, token string, in ports.DepositInput) (*domain.Deposit, error) {
	return s.createDepositFn(ctx, token, in)
}

func (s *stubClientAPI) CreateWithdrawal(ctx context.Context, token string, in ports.WithdrawalInput) (*domain.Withdrawal, error) {
	return s.createWithdrawalFn(ctx, token, in)
}

func (s *stubClientAPI) GetTicket(ctx context.Context, token, id string) (*domain.Ticket, error) {
	return s.getTicketFn(ctx, token, id)
}

func (s *stubClientAPI) CreateTicket(ctx context.Context, token string, in ports.TicketInput) (*domain.Ticket, error) {
	return s.createTicketFn(ctx, token, in)
}

func (s *stubClientAPI) ReplyTicket(ctx context.Context, token, id, message string) error {
	return s.replyTicketFn(ctx, token, id, message)
}

func (s *stubClientAPI) ListKYC(ctx context.Context, token string) ([]domain.KYCDocument, error) {
	return s.listKYCFn(ctx, token)
}

func (s *stubClientAPI) UploadKYC(ctx context.Context, token string, in ports.KYCUploadInput) (*domain.KYCDocument, error) {
	return s.uploadKYCFn(ctx, token, in)
}

type stubAdminAPI struct {
	ports.AdminAPI
	statsFn            func(ctx context.Context, token string) (*domain.AdminStats, error)
	approveTxFn        func(ctx context.Context, token, id string) error
	rejectTxFn         func(ctx context.Context, token, id, reason string) error
	listTransactionsFn func(ctx context.Context, token string, q ports.ListQuery) (*domain.Page[domain.Transaction], error)
	setUserStatusFn    func(ctx context.Context, token, id, status string) error
}

func (s *stubAdminAPI) Stats(ctx context.Context, token string) (*domain.AdminStats, error) {
	return s.statsFn(ctx, token)
}

func (s *stubAdminAPI) ApproveTransaction(ctx context.Context, token, id string) error {
	return s.approveTxFn(ctx, token, id)
}

func (s *stubAdminAPI) RejectTransaction(ctx context.Context, token, id, reason string) error {
	return s.rejectTxFn(ctx, token, id, reason)
}

func (s *stubAdminAPI) ListTransactions(ctx context.Context, token string, q ports.ListQuery) (*domain.Page[domain.Transaction], error) {
	return s.listTransactionsFn(ctx, token, q)
}

func (s *stubAdminAPI) SetUserStatus(ctx context.Context, token, id, status string) error {
	return s.setUserStatusFn(ctx, token, id, status)
}

// recordingRenderer captures what a handler asked to render.
type recordingRenderer struct {
	name string
	page view.Page
}

func (r *recordingRenderer) Render(_ io.Writer, name string, data interface{}, _ echo.Context) error {
	r.name = name
	r.page, _ = data.(view.Page)
	return nil
}

// --- environment ---

type testEnv struct {
	e        *echo.Echo
	store    *memstore.SessionStore
	sessions *service.SessionService
	guard    *memstore.SubmitGuard
	renderer *recordingRenderer
	pages    *Pages
}

func newTestEnv(auth ports.AuthAPI) *testEnv {
	if auth == nil {
		auth = &stubAuthAPI{}
	}
	e := echo.New()
	e.Validator = NewValidator()
	r := &recordingRenderer{}
	e.Renderer = r

	store := memstore.NewSessionStore(0)
	sessions := service.NewSessionService(store, auth, zerolog.Nop())
	return &testEnv{
		e:        e,
		store:    store,
		sessions: sessions,
		guard:    memstore.NewSubmitGuard(time.Minute),
		renderer: r,
		pages:    NewPages(sessions),
	}
}

// signIn stores an authenticated session and returns it.
func (env *testEnv) signIn(t *testing.T, role string) *domain.Session {
	t.Helper()
	sess := domain.NewSession("sid-"+role, time.Now())
	sess.Authenticate("tok-"+role, domain.UserRecord{FullName: "Test " + role, Email: role + "@example.com", Role: role}, time.Now())
	if err := env.store.Set(context.Background(), sess); err != nil {
		t.Fatalf("store set: %v", err)
	}
	return sess
}

func (env *testEnv) anonymous() *domain.Session {
	return domain.NewSession("sid-anon", time.Now())
}

func (env *testEnv) form(method, target string, values url.Values, sess *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	var body io.Reader
	if values != nil {
		body = strings.NewReader(values.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if values != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	middleware.WithSession(c, sess)
	return c, rec
}

func (env *testEnv) flashes(t *testing.T, id string) []domain.Flash {
	t.Helper()
	sess, err := env.store.Get(context.Background(), id)
	if err != nil {
		return nil
	}
	return sess.Flashes
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, to string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != to {
		t.Fatalf("expected redirect to %q, got %q", to, loc)
	}
}
