// Copyright (c) 2026 Robin CRM. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/robin-crm/robin/internal/account"
	"github.com/robin-crm/robin/internal/auth"
	"github.com/robin-crm/robin/internal/permission"
	"github.com/robin-crm/robin/internal/platform/config"
	"github.com/robin-crm/robin/internal/platform/constants"
	"github.com/robin-crm/robin/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /healthz handler — always returns 200 if the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /readyz handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles login, logout, and the current-identity endpoint.
	Auth *auth.Handler

	// Permission handles the grant matrix endpoints.
	Permission *permission.Handler

	// Account handles administrative user management.
	Account *account.Handler

	// Login serves the browser login page. Page rendering belongs to the
	// frontend deployment; the server only guarantees the path stays
	// reachable without a token.
	Login http.Handler

	// Dashboard serves the browser dashboard shell behind the gatekeeper.
	Dashboard http.Handler
}

// Gatekeeper groups the access-control dependencies of the router.
type Gatekeeper struct {
	// Verifier validates session tokens.
	Verifier middleware.TokenVerifier

	// Revocations is the logout denylist.
	Revocations middleware.TokenRevocations

	// Grants answers module "view" checks for non-top roles.
	Grants middleware.GrantChecker

	// Routes is the static route classification table.
	Routes *middleware.RouteMap
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(appCtx context.Context, cfg *config.Config, log *slog.Logger, gate Gatekeeper, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(appCtx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(gate.Routes, gate.Verifier, gate.Revocations))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)

	// # Browser Surface
	// The login page must stay reachable with no token; everything under
	// /dashboard sits behind the full gate.
	r.Handle(constants.LoginPath, h.Login)
	r.Group(func(ui chi.Router) {
		ui.Use(middleware.RequireAuth)
		ui.Use(middleware.ModuleGate(gate.Routes, gate.Grants))
		ui.Handle(constants.DashboardPath, h.Dashboard)
		ui.Handle(constants.DashboardPath+"/*", h.Dashboard)
	})

	// # Application API
	// Domain route groups mounted under the versioned prefix. The public
	// group carries only the login endpoint; the protected group layers
	// RequireAuth and the module gate; the top-role group additionally
	// requires the chief-executive rank.
	r.Route("/api/v1", func(api chi.Router) {
		api.Group(func(public chi.Router) {
			api.Group(func(protected chi.Router) {
				protected.Use(middleware.RequireAuth)
				protected.Use(middleware.ModuleGate(gate.Routes, gate.Grants))

				h.Auth.Register(public, protected)

				protected.Group(func(topRole chi.Router) {
					topRole.Use(middleware.RequireAnyRole(auth.RoleChiefExecutive))
					h.Permission.Register(protected, topRole)
					h.Account.Register(topRole)
				})
			})
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
