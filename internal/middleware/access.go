package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tickops/internal/access"
	"tickops/internal/carrier"
	"tickops/internal/rbac"
	"tickops/pkg/config"
	"tickops/pkg/logger"
	"tickops/prometheus"
)

// ContextKey is where the resolved access context lives in the echo
// context.
const ContextKey = "access_context"

// AccessMiddleware resolves the cookie carriers into an access context
// for every request in the protected group.
type AccessMiddleware struct {
	resolver *access.Resolver
	cfg      *config.Config
}

// NewAccessMiddleware creates the middleware.
func NewAccessMiddleware(resolver *access.Resolver, cfg *config.Config) *AccessMiddleware {
	return &AccessMiddleware{resolver: resolver, cfg: cfg}
}

func (m *AccessMiddleware) secure() bool {
	return m.cfg.Server.Env == "production"
}

// Resolve attaches the access context without rejecting any state.
// Route groups layer Require* on top.
func (m *AccessMiddleware) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := carrier.Get(c, m.cfg.Session.SessionCookie)
		pointer := carrier.Get(c, m.cfg.Session.WorkspaceCookie)

		ac, err := m.resolver.Resolve(c.Request().Context(), token, pointer, func(workspaceID string) {
			carrier.SetWorkspace(c, m.cfg.Session.WorkspaceCookie, workspaceID, m.secure())
		})
		if err != nil {
			logger.FromEcho(c).Error("Failed to resolve access context", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
		}

		c.Set(ContextKey, ac)
		return next(c)
	}
}

// FromEcho returns the resolved access context, or an unauthenticated
// one when the middleware did not run.
func FromEcho(c echo.Context) *access.Context {
	ac, ok := c.Get(ContextKey).(*access.Context)
	if !ok {
		return &access.Context{State: access.StateUnauthenticated}
	}
	return ac
}

// RequireAuthenticated rejects requests without a valid session.
func RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ac := FromEcho(c)
		if ac.State == access.StateUnauthenticated {
			prometheus.RecordAuthError("unauthenticated")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		return next(c)
	}
}

// RequireSelected rejects requests that have not resolved to exactly
// one workspace. The non-selected states are reported as explicit
// outcomes so the client can route to the right screen.
func RequireSelected(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ac := FromEcho(c)
		switch ac.State {
		case access.StateSelected:
			return next(c)
		case access.StateUnauthenticated:
			prometheus.RecordAuthError("unauthenticated")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		case access.StateNoWorkspace:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no workspace assigned", "state": string(ac.State)})
		default:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "workspace selection required", "state": string(ac.State)})
		}
	}
}

// RequireSuperAdmin rejects requests whose user lacks the SUPER_ADMIN
// global role. Workspace roles are irrelevant here.
func RequireSuperAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ac := FromEcho(c)
		if ac.State == access.StateUnauthenticated {
			prometheus.RecordAuthError("unauthenticated")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		if !rbac.IsSuperAdmin(ac.User.GlobalRole) {
			prometheus.RecordAuthError("forbidden")
			logger.FromEcho(c).Warn("Non-admin attempted admin operation",
				zap.String("user_id", ac.User.ID),
				zap.String("global_role", string(ac.User.GlobalRole)))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not permitted"})
		}
		return next(c)
	}
}
