// Package http wires the auth service's HTTP surface: JSON handlers over
// net/http with per-route rate limits and bearer authentication.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/daykeephq/daykeep/internal/auth/service"
	"github.com/daykeephq/daykeep/internal/auth/store"
	"github.com/daykeephq/daykeep/pkg/httpx"
	"github.com/daykeephq/daykeep/pkg/jwtx"
	"github.com/daykeephq/daykeep/pkg/slogx"

	_ "github.com/daykeephq/daykeep/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	tokens       *jwtx.Issuer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AuthService  *service.AuthService
	ResetService *service.PasswordResetService

	// DebugResetCodes echoes freshly issued reset codes in the request
	// response. Only ever true in the dev environment.
	DebugResetCodes bool
}

func NewRouter(
	tokens *jwtx.Issuer,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		tokens:       tokens,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPasswordReset()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Daykeep Auth Service API
//	@version		0.1.0
//	@description	Account and session management for the Daykeep mobile app:
//	@description	signup, login, token verification, account deletion and the
//	@description	email-code password reset flow.
//
//	@contact.name				Daykeep Team
//	@contact.url				https://github.com/daykeephq/daykeep
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /signup and /login - strict rate limit by IP (credential endpoints)
	r.Mux.Handle("POST /v1/auth/signup",
		httpx.Chain(&SignupHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /verify - moderate rate limit; the app calls this on every
	// cold start to validate a stored token.
	r.Mux.Handle("POST /v1/auth/verify",
		httpx.Chain(&VerifyTokenHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// DELETE /account - authenticated, moderate rate limit by user
	r.Mux.Handle("DELETE /v1/auth/account",
		httpx.Chain(&DeleteAccountHandler{AuthService: r.AuthService},
			httpx.AuthnMiddleware(r.tokens),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerPasswordReset() {
	// All three reset steps are strict-limited by IP: request mints codes,
	// verify and complete are six-digit guesses.
	r.Mux.Handle("POST /v1/auth/password-reset/request",
		httpx.Chain(&ResetRequestHandler{ResetService: r.ResetService, DebugCodes: r.DebugResetCodes},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/password-reset/verify",
		httpx.Chain(&ResetVerifyHandler{ResetService: r.ResetService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/password-reset/complete",
		httpx.Chain(&ResetCompleteHandler{ResetService: r.ResetService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
