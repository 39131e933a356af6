package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stayforge/auth-server/internal/api/handlers"
	mw "github.com/stayforge/auth-server/internal/api/middleware"
	"github.com/stayforge/auth-server/internal/auth"
	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stayforge/auth-server/internal/metrics"
	"github.com/stayforge/auth-server/internal/service"
	"github.com/stayforge/auth-server/internal/store"
	"github.com/stayforge/auth-server/internal/store/memory"
	"github.com/stayforge/auth-server/internal/store/mongostore"
	"go.uber.org/zap"
)

// Deps are the stores and settings the application is assembled from.
type Deps struct {
	Tenants     domain.TenantStore
	Memberships domain.MembershipStore
	Users       domain.UserStore
	Verifier    domain.IdentityVerifier
	Logger      *zap.Logger

	RateLimitRPS         float64
	RateLimitBurst       int
	SlowRequestThreshold time.Duration
	DeleteRequiresOwner  bool
}

// App holds the router and background services for lifecycle management.
type App struct {
	Router     *chi.Mux
	Reconciler *service.ReconcilerService
	Metrics    *metrics.Metrics
	stop       chan struct{}
}

func NewApp(d Deps) *App {
	m := metrics.New()

	// Services
	tenantSvc := service.NewTenantService(d.Tenants, d.Memberships, d.Logger)
	tenantSvc.SetMetrics(m)
	tenantSvc.SetDeleteRequiresOwner(d.DeleteRequiresOwner)
	userSvc := service.NewUserService(d.Users)
	reconciler := service.NewReconcilerService(d.Tenants, d.Memberships, d.Logger)
	reconciler.SetMetrics(m)

	// Handlers
	tenantHandler := handlers.NewTenantHandler(tenantSvc)
	userHandler := handlers.NewUserHandler(userSvc)
	healthHandler := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"tenant_store": d.Tenants,
		"user_store":   d.Users,
	})

	r := chi.NewRouter()
	app := &App{
		Router:     r,
		Reconciler: reconciler,
		Metrics:    m,
		stop:       make(chan struct{}),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Metrics(m))
	r.Use(mw.Logging(d.Logger, d.SlowRequestThreshold))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(d.RateLimitRPS, d.RateLimitBurst, app.stop))

	// Probes and metrics (no auth)
	r.Get("/health", healthHandler.Health)
	r.Get("/readiness", healthHandler.Readiness)
	r.Get("/liveness", healthHandler.Liveness)
	r.Handle("/metrics", m.Handler())

	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(d.Verifier))

		r.Route("/tenant", func(r chi.Router) {
			r.Post("/create", tenantHandler.Create)
			r.Get("/list", tenantHandler.List)
			// Static segments must be registered before /{tenantID}.
			r.Get("/data/environment", tenantHandler.Environments)
			r.Get("/data/role", tenantHandler.Roles)
			r.Route("/{tenantID}", func(r chi.Router) {
				r.Get("/", tenantHandler.Get)
				r.Patch("/", tenantHandler.Update)
				r.Delete("/", tenantHandler.Delete)
				r.Get("/members", tenantHandler.Members)
				r.Post("/invite/member", tenantHandler.InviteMember)
			})
		})

		r.Route("/api/v1/users", func(r chi.Router) {
			r.Post("/", userHandler.Create)
			r.Get("/", userHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.Get)
				r.Patch("/", userHandler.Update)
				r.Delete("/", userHandler.Delete)
			})
		})
	})

	return app
}

// Close stops middleware goroutines started by NewApp.
func (app *App) Close() {
	close(app.stop)
}

// Ensure stores and verifiers satisfy interfaces at compile time.
var (
	_ domain.TenantStore      = (*mongostore.TenantStore)(nil)
	_ domain.MembershipStore  = (*mongostore.MembershipStore)(nil)
	_ domain.TenantStore      = (*memory.TenantStore)(nil)
	_ domain.MembershipStore  = (*memory.MembershipStore)(nil)
	_ domain.UserStore        = (*store.UserStore)(nil)
	_ domain.UserStore        = (*memory.UserStore)(nil)
	_ domain.IdentityVerifier = (*auth.Verifier)(nil)
)
