package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tickops/internal/middleware"
	"tickops/internal/modules"
	"tickops/internal/rbac"
	"tickops/pkg/logger"
	"tickops/prometheus"
)

// ListModules returns the catalog annotated with the selected
// workspace's entitlements. Requires a selected workspace.
func (h *Handler) ListModules(c echo.Context) error {
	ac := middleware.FromEcho(c)

	enabled, err := h.entitlements.ListEnabled(c.Request().Context(), ac.Selected.WorkspaceID)
	if err != nil {
		return respondError(c, err)
	}
	enabledSet := make(map[string]bool, len(enabled))
	for _, key := range enabled {
		enabledSet[key] = true
	}

	type entry struct {
		modules.Module
		Enabled bool `json:"enabled"`
	}
	out := make([]entry, 0, len(modules.Catalog))
	for _, m := range modules.Catalog {
		out = append(out, entry{Module: m, Enabled: enabledSet[m.Key]})
	}

	return c.JSON(http.StatusOK, echo.Map{"modules": out})
}

// OpenModule gates entry into one feature module: the key must exist,
// the workspace must have it enabled, and the caller's workspace role
// must permit module access.
func (h *Handler) OpenModule(c echo.Context) error {
	ac := middleware.FromEcho(c)
	key := c.Param("key")

	mod, ok := modules.Lookup(key)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown module"})
	}

	if !rbac.CanAccessModule(ac.Selected.Role) {
		prometheus.RecordAuthError("module_access_denied")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not permitted"})
	}

	enabled, err := h.entitlements.IsEnabled(c.Request().Context(), ac.Selected.WorkspaceID, key)
	if err != nil {
		return respondError(c, err)
	}
	if !enabled {
		logger.FromEcho(c).Info("Module not enabled for workspace",
			zap.String("workspace_id", ac.Selected.WorkspaceID),
			zap.String("module_key", key))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "module not enabled"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"module":       mod,
		"workspace_id": ac.Selected.WorkspaceID,
		"role":         ac.Selected.Role,
	})
}
