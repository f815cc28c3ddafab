package cmd

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/donaldgifford/restock-tracker/api/openapi"
	"github.com/donaldgifford/restock-tracker/internal/api/handlers"
	"github.com/donaldgifford/restock-tracker/internal/api/middleware"
	"github.com/donaldgifford/restock-tracker/internal/engine"
)

// routerDeps are the collaborators mounted on the router. Sched is nil when
// the schedule is disabled.
type routerDeps struct {
	Engine       *engine.Engine
	Sched        *engine.Scheduler
	Secret       string
	SweepTimeout time.Duration
	Log          *slog.Logger
}

func newRouter(d routerDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(d.Log))
	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware("restock-tracker",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(traced),
	)))
	e.Use(middleware.RequestLog(d.Log))
	e.Use(middleware.Metrics())

	var (
		ready handlers.ReadinessChecker
		next  handlers.NextRunner
	)
	if d.Sched != nil {
		ready, next = d.Sched, d.Sched
	}

	health := handlers.NewHealthHandler(ready)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("Restock Tracker API", Version))
	openapi.RegisterRoutes(e)

	handlers.RegisterTriggerRoutes(api, handlers.NewTriggerHandler(d.Engine,
		handlers.WithSecret(d.Secret),
		handlers.WithRunTimeout(d.SweepTimeout),
	))
	handlers.RegisterStatusRoutes(api, handlers.NewStatusHandler(d.Engine, next))

	return e
}

// traced reports whether a request gets a server span. Probes and scrapes
// do not.
func traced(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/readyz", "/metrics":
		return false
	}
	return true
}
