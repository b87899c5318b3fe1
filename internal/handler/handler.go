// Package handler is the thin HTTP dispatch shell over the core. All
// authorization decisions happen in the core and rbac packages; the
// handlers translate carriers and outcomes.
package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tickops/internal/access"
	"tickops/internal/apperr"
	"tickops/internal/credential"
	"tickops/internal/entitlement"
	"tickops/internal/session"
	"tickops/internal/tenancy"
	"tickops/pkg/config"
	"tickops/pkg/logger"
)

// Handler carries the core services used by the HTTP surface.
type Handler struct {
	cfg          *config.Config
	auth         *credential.Authenticator
	sessions     *session.Manager
	directory    *tenancy.Directory
	entitlements *entitlement.Store
	resolver     *access.Resolver
}

// New wires a Handler.
func New(
	cfg *config.Config,
	auth *credential.Authenticator,
	sessions *session.Manager,
	directory *tenancy.Directory,
	entitlements *entitlement.Store,
	resolver *access.Resolver,
) *Handler {
	return &Handler{
		cfg:          cfg,
		auth:         auth,
		sessions:     sessions,
		directory:    directory,
		entitlements: entitlements,
		resolver:     resolver,
	}
}

func (h *Handler) secure() bool {
	return h.cfg.Server.Env == "production"
}

// respondError maps a core error onto the HTTP taxonomy. Server faults
// are logged but never leak their cause.
func respondError(c echo.Context, err error) error {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		logger.FromEcho(c).Error("Request failed", zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": apperr.Message(err)})
}
