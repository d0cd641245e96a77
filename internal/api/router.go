package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ledgerline/backoffice-portal/docs"
	"github.com/ledgerline/backoffice-portal/internal/api/handler"
	"github.com/ledgerline/backoffice-portal/internal/api/middleware"
	"github.com/ledgerline/backoffice-portal/internal/api/view"
	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
	"github.com/ledgerline/backoffice-portal/internal/infrastructure/http/handlers"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Log      zerolog.Logger
	Sessions ports.SessionService
	Client   ports.ClientAPI
	Admin    ports.AdminAPI
	Guard    ports.SubmitGuard
	Renderer echo.Renderer
	Codec    *middleware.CookieCodec
	Cookie   middleware.CookieOptions
	// Health lists the dependencies checked by /health/ready.
	Health map[string]handlers.Pinger
	// Registerer defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Renderer = d.Renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Sessions, d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health" || c.Path() == "/health/ready"
		},
	}))
	e.Use(echomiddleware.BodyLimit("12M"))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "same-origin",
	}))

	// --- Health, metrics and docs (no session) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Health)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.StaticFS("/static", view.Static())

	// --- Everything below runs with a session ---
	s := e.Group("", middleware.Session(d.Codec, d.Sessions, d.Cookie), middleware.CSRF(d.Cookie))

	pages := handler.NewPages(d.Sessions)
	authHandler := handler.NewAuthHandler(d.Sessions, pages)
	dashboardHandler := handler.NewDashboardHandler(d.Client, d.Admin, pages)
	accountHandler := handler.NewAccountHandler(d.Client, d.Guard, pages)
	transferHandler := handler.NewTransferHandler(d.Client, d.Guard, pages)
	supportHandler := handler.NewSupportHandler(d.Client, pages)
	kycHandler := handler.NewKYCHandler(d.Client, pages)
	adminHandler := handler.NewAdminHandler(d.Admin, pages)
	sessionAPIHandler := handler.NewSessionAPIHandler()

	s.GET("/api/session", sessionAPIHandler.Get)

	// --- Public screens ---
	public := s.Group("", middleware.PublicOnly())
	public.GET("/", func(c echo.Context) error { return c.Redirect(http.StatusSeeOther, middleware.LoginPath) })
	public.GET("/login", authHandler.ShowLogin)
	public.POST("/login", authHandler.Login)
	public.GET("/register", authHandler.ShowRegister)
	public.POST("/register", authHandler.Register)

	// --- Private screens ---
	private := s.Group("", middleware.RequireAuth())
	private.POST("/logout", authHandler.Logout)
	private.GET("/dashboard", dashboardHandler.Show)

	private.GET("/accounts", accountHandler.ListAccounts)
	private.POST("/accounts", accountHandler.OpenAccount)
	private.GET("/wallets", accountHandler.ListWallets)
	private.POST("/wallets", accountHandler.CreateWallet)

	private.GET("/deposits", transferHandler.ListDeposits)
	private.GET("/deposits/new", transferHandler.NewDeposit)
	private.POST("/deposits", transferHandler.CreateDeposit)
	private.GET("/withdrawals", transferHandler.ListWithdrawals)
	private.GET("/withdrawals/new", transferHandler.NewWithdrawal)
	private.POST("/withdrawals", transferHandler.CreateWithdrawal)

	private.GET("/support", supportHandler.List)
	private.GET("/support/new", supportHandler.New)
	private.POST("/support", supportHandler.Create)
	private.GET("/support/:id", supportHandler.Show)
	private.POST("/support/:id/replies", supportHandler.Reply)

	private.GET("/kyc", kycHandler.List)
	private.POST("/kyc", kycHandler.Upload)

	// --- Admin console ---
	admin := private.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/transactions", adminHandler.Transactions)
	admin.POST("/transactions/:id/approve", adminHandler.ApproveTransaction)
	admin.POST("/transactions/:id/reject", adminHandler.RejectTransaction)
	admin.GET("/users", adminHandler.Users)
	admin.POST("/users/:id/status", adminHandler.SetUserStatus)
	admin.GET("/kyc", adminHandler.KYCReviews)
	admin.POST("/kyc/:id/approve", adminHandler.ApproveKYC)
	admin.POST("/kyc/:id/reject", adminHandler.RejectKYC)

	return e
}

// requestLogger feeds echo's request logger into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("session_id", middleware.SessionFrom(c).ID).
				Msg("request")
			return nil
		},
	})
}
