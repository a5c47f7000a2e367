package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/BlusDevsoftware/clientes-api-bluepay/docs"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/api/handler"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/api/middleware"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/ports"
	"github.com/BlusDevsoftware/clientes-api-bluepay/pkg/logger"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Customers   ports.CustomerService
	Credentials ports.CredentialValidator
	// Health lists the dependencies pinged by /health/ready.
	Health map[string]handler.Pinger
	Logger zerolog.Logger

	AllowOrigin       string
	ExposeStoreErrors bool

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	origin := d.AllowOrigin
	if origin == "" {
		origin = "*"
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomiddleware.Recover())
	e.Use(requestLogger(d.Logger))
	e.Use(contextLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{origin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "clientes",
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Unauthenticated routes ---
	health := handler.NewHealthHandler(d.Health)
	e.GET("/", health.Root)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Customer routes ---
	customers := handler.NewCustomerHandler(d.Customers, d.Logger, d.ExposeStoreErrors)
	g := e.Group("/api/clientes", middleware.Auth(d.Credentials, d.Logger))
	g.GET("", customers.List)
	g.GET("/:id", customers.Get)
	g.POST("", customers.Create)
	g.PUT("/:id", customers.Update)
	g.DELETE("/:id", customers.Delete)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// contextLogger attaches a logger tagged with the request id to the request
// context so handlers and services log with it.
func contextLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			scoped := log.With().Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).Logger()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), scoped)))
			return next(c)
		}
	}
}
