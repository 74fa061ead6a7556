package http

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/FilipeAphrody/sentinel-access/internal/domain"
	"github.com/FilipeAphrody/sentinel-access/internal/observability"
	"github.com/FilipeAphrody/sentinel-access/internal/usecase"
	"github.com/FilipeAphrody/sentinel-access/pkg/security"
)

// Guards builds the admission middleware of protected routes.
type Guards struct {
	guard   *usecase.Guard
	metrics *observability.Metrics
	log     logrus.FieldLogger
}

func NewGuards(g *usecase.Guard, m *observability.Metrics, log logrus.FieldLogger) *Guards {
	return &Guards{guard: g, metrics: m, log: log}
}

// Require returns the middleware chain for a route: authentication, then
// authorization against roles when any are given.
func (g *Guards) Require(roles ...domain.Role) []echo.MiddlewareFunc {
	chain := []echo.MiddlewareFunc{g.RequireAuth()}
	if len(roles) > 0 {
		chain = append(chain, g.RequireRoles(roles...))
	}
	return chain
}

// RequireAuth validates the bearer token in the Authorization header and
// attaches the resulting Principal to the request context.
func (g *Guards) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			p, err := g.guard.Authenticate(req.Header.Get(echo.HeaderAuthorization))
			if err != nil {
				reason := authnReason(err)
				g.metrics.GuardRejected("authn", reason)
				g.log.WithError(err).WithFields(logrus.Fields{
					"path":   c.Path(),
					"reason": reason,
				}).Debug("request not authenticated")
				return respondError(c, g.log, err)
			}

			c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), p)))
			return next(c)
		}
	}
}

// RequireRoles lets the request through only if the principal's role is one
// of roles. It must run after RequireAuth; without a principal it panics.
func (g *Guards) RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	required := domain.RoleRequirement(roles)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var principal *domain.Principal
			if p, ok := domain.PrincipalFromContext(c.Request().Context()); ok {
				principal = &p
			}

			if err := g.guard.Authorize(principal, required); err != nil {
				g.metrics.GuardRejected("authz", "role")
				g.log.WithFields(logrus.Fields{
					"path":    c.Path(),
					"user_id": principal.ID,
					"role":    principal.Role,
				}).Info("request forbidden")
				return respondError(c, g.log, err)
			}

			return next(c)
		}
	}
}

func authnReason(err error) string {
	switch {
	case errors.Is(err, security.ErrExpiredToken):
		return "expired"
	case errors.Is(err, security.ErrInvalidToken):
		return "invalid"
	default:
		return "missing"
	}
}

// principalOf returns the principal attached by RequireAuth.
func principalOf(c echo.Context) (domain.Principal, bool) {
	return domain.PrincipalFromContext(c.Request().Context())
}
