package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/audit"
	"github.com/aussiebroadwan/licensor/internal/licensing/metrics"
	"github.com/aussiebroadwan/licensor/internal/licensing/service"
	"github.com/aussiebroadwan/licensor/internal/licensing/store"
	"github.com/aussiebroadwan/licensor/pkg/httpx"
	"github.com/aussiebroadwan/licensor/pkg/jwtx"
	"github.com/aussiebroadwan/licensor/pkg/slogx"

	_ "github.com/aussiebroadwan/licensor/api/licensor" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier // nil disables the admin API
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	metrics        *metrics.Metrics
	LicenseService *service.LicenseService
	ReleaseService *service.ReleaseService
	AdminService   *service.AdminService
	AuditReader    audit.Reader // nil leaves GET /v1/admin/audit unregistered
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      m,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.RequestLogger(r.logger, "/livez", "/readyz", "/metrics"),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerLicenses()
	r.registerUpdates()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Licensor License Authority API
//	@version		0.1.0
//	@description	License entitlement service. Installations activate a license key for their domain, poll its status
//	@description	and read the release feed. Operators issue and manage licenses through the admin API.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/licensor
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
//	@description				Operator JWT (HS256). Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerLicenses() {
	h := &LicenseHandler{LicenseService: r.LicenseService}

	// POST /activate - strict rate limit (key guessing)
	r.Mux.Handle("POST /v1/licenses/activate",
		httpx.Chain(http.HandlerFunc(h.HandleActivate),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/licenses/deactivate",
		httpx.Chain(http.HandlerFunc(h.HandleDeactivate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/licenses/status",
		httpx.Chain(http.HandlerFunc(h.HandleStatus),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUpdates() {
	r.Mux.Handle("GET /v1/updates",
		httpx.Chain(&UpdatesHandler{ReleaseService: r.ReleaseService},
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	if r.verifier == nil {
		return
	}
	h := &AdminHandler{
		AdminService:   r.AdminService,
		ReleaseService: r.ReleaseService,
	}

	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireOperator(r.verifier, jwtx.ScopeLicensesWrite),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		)
	}
	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireOperator(r.verifier, jwtx.ScopeLicensesRead, jwtx.ScopeLicensesWrite),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("POST /v1/admin/licenses", write(h.HandleIssue))
	r.Mux.Handle("GET /v1/admin/licenses/{key}", read(h.HandleGet))
	r.Mux.Handle("PATCH /v1/admin/licenses/{key}", write(h.HandleUpdate))
	r.Mux.Handle("POST /v1/admin/releases", write(h.HandlePublishRelease))

	if r.AuditReader != nil {
		r.Mux.Handle("GET /v1/admin/audit", read((&AuditHandler{Reader: r.AuditReader}).ServeHTTP))
	}
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
	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
