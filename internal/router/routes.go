package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/localabilities/portal-api/internal/config"
	"github.com/localabilities/portal-api/internal/handler"
	"github.com/localabilities/portal-api/internal/metrics"
	middlewarepkg "github.com/localabilities/portal-api/internal/middleware"
	"github.com/localabilities/portal-api/internal/repository"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth     *handler.AuthHandler
	Profile  *handler.ProfileHandler
	Contact  *handler.ContactHandler
	Upload   *handler.UploadHandler
	Register *handler.RegisterHandler
	Pages    *handler.PagesHandler
}

// Register wires all HTTP routes.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions *middlewarepkg.SessionParser,
	idempotency repository.IdempotencyRepository,
	recorder metrics.Recorder,
	gatherer prometheus.Gatherer,
	handlers Handlers,
) {
	e.Use(middlewarepkg.Attach(sessions))
	e.Use(HTTPMetrics(recorder))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(gatherer)))

	// Auth surface.
	e.POST("/api/auth/login", handlers.Auth.Login)
	e.POST("/api/auth/logout", handlers.Auth.Logout)
	e.POST("/api/auth/reset-password", handlers.Auth.ResetPassword)
	e.POST("/api/auth/update-password", handlers.Auth.UpdatePassword)
	e.GET("/auth/callback", handlers.Auth.Callback)

	// Registration saga, deduplicated by Idempotency-Key.
	dedupe := middlewarepkg.Idempotency(idempotency, cfg.IdempotencyTTL)
	register := e.Group("/api/register", dedupe)
	register.POST("/company", handlers.Register.RegisterCompany)
	register.POST("/facility", handlers.Register.RegisterFacility)

	// Profile endpoints. Creates accept the pre-session registration flow;
	// reads and updates need a session.
	e.POST("/api/company", handlers.Profile.CreateCompany, dedupe)
	e.POST("/api/facility", handlers.Profile.CreateFacility, dedupe)

	secured := e.Group("/api", middlewarepkg.RequireSession())
	secured.GET("/company", handlers.Profile.GetCompany)
	secured.PATCH("/company/profile", handlers.Profile.UpdateCompany)
	secured.GET("/facility", handlers.Profile.GetFacility)
	secured.PATCH("/facility/profile", handlers.Profile.UpdateFacility)

	e.POST("/api/contact", handlers.Contact.Submit, middlewarepkg.ContactRateLimiter(cfg.RateLimitContact))
	e.POST("/api/upload/profile-image", handlers.Upload.UploadProfileImage)

	// Server-rendered pages behind the session gate.
	e.GET("/login", handlers.Pages.Login, middlewarepkg.RedirectAuthenticated())
	e.GET("/register/company", handlers.Pages.RegisterCompany, middlewarepkg.RedirectAuthenticated())
	e.GET("/register/facility", handlers.Pages.RegisterFacility)
	e.GET("/auth-error", handlers.Pages.AuthError)

	dashboard := e.Group("/dashboard", middlewarepkg.GateDashboard())
	dashboard.GET("/company", handlers.Pages.CompanyDashboard)
	dashboard.GET("/facility", handlers.Pages.FacilityDashboard)
}

// HTTPMetrics reports every request to the collector, keyed by route pattern
// rather than raw path to keep cardinality bounded.
func HTTPMetrics(recorder metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			recorder.RecordHTTPRequest(c.Request().Method, c.Path(), c.Response().Status, time.Since(start))
			return err
		}
	}
}
