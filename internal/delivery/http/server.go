package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/FilipeAphrody/sentinel-access/internal/observability"
	"github.com/FilipeAphrody/sentinel-access/internal/usecase"
)

// Version is reported by the health check.
const Version = "1.1.0"

const healthTimeout = 2 * time.Second

// Pinger is a dependency the health check probes, usually *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Dependencies are the collaborators NewServer wires into routes.
type Dependencies struct {
	Auth  *usecase.AuthUsecase
	Users *usecase.UserUsecase
	Audit *usecase.AuditRecorder
	Guard *usecase.Guard

	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	DB       Pinger
	Log      *logrus.Logger
}

// NewServer builds the echo instance with global middlewares and all routes.
func NewServer(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(deps.Log)

	// Global Middlewares
	e.Use(middleware.RequestLoggerWithConfig(requestLogger(deps.Log)))
	e.Use(deps.Metrics.EchoMiddleware())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.Secure())

	guards := NewGuards(deps.Guard, deps.Metrics, deps.Log)

	v1 := e.Group("/v1")
	NewAuthHandler(v1, deps.Auth, deps.Log)
	NewUserHandler(v1, deps.Users, guards, deps.Log)
	NewAccessLogHandler(v1, deps.Audit, guards, deps.Log)

	e.GET("/health", healthHandler(deps.DB))
	if deps.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	return e
}

func healthHandler(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := echo.Map{
			"status":  "healthy",
			"version": Version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		}

		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				resp["status"] = "unavailable"
				return c.JSON(http.StatusServiceUnavailable, resp)
			}
		}

		return c.JSON(http.StatusOK, resp)
	}
}

func requestLogger(log logrus.FieldLogger) middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"remote_ip":  v.RemoteIP,
			})
			if v.RequestID != "" {
				entry = entry.WithField("request_id", v.RequestID)
			}
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}
}
