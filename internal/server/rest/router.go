// Package rest is the HTTP API of the auth server, built on echo.
package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/projecthub/internal/logging"
	"github.com/dmitrijs2005/projecthub/internal/server/auth"
	"github.com/dmitrijs2005/projecthub/internal/server/models"
	"github.com/dmitrijs2005/projecthub/internal/server/services"
	"github.com/dmitrijs2005/projecthub/internal/server/validation"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UserService is the use-case surface the handlers need.
type UserService interface {
	Register(ctx context.Context, in validation.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, in validation.LoginInput) (*services.AuthResult, error)
	Logout(ctx context.Context, session *auth.Session) error
	Profile(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
}

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Logger   logging.Logger
	Users    UserService
	Gate     Authenticator
	Pipeline *validation.Pipeline
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// Limiter guards the credential endpoints; nil disables limiting.
	Limiter *RateLimiter
}

// NewRouter creates and configures the echo router.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = cfg.Pipeline
	e.HTTPErrorHandler = errorHandler

	h := NewAuthHandler(cfg.Users, cfg.Pipeline)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(cfg.Logger))

	e.GET("/healthz", healthz)
	if cfg.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	// Public credential endpoints
	var limited []echo.MiddlewareFunc
	if cfg.Limiter != nil {
		limited = append(limited, cfg.Limiter.Middleware())
	}
	e.POST("/register", h.Register, limited...)
	e.POST("/login", h.Login, limited...)

	// Endpoints behind the session gate
	requireSession := RequireSession(cfg.Gate)
	e.GET("/profile", h.Profile, requireSession)
	e.GET("/logout", h.Logout, requireSession)
	e.GET("/all", h.All, requireSession)

	return e
}

func healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
