package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tickops/internal/carrier"
	"tickops/internal/middleware"
	"tickops/pkg/logger"
)

// ListMemberships returns the caller's workspaces with their role,
// oldest membership first.
func (h *Handler) ListMemberships(c echo.Context) error {
	ac := middleware.FromEcho(c)

	type entry struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Slug     string `json:"slug"`
		Role     string `json:"role"`
		Selected bool   `json:"selected"`
	}

	out := make([]entry, 0, len(ac.Memberships))
	for _, m := range ac.Memberships {
		out = append(out, entry{
			ID:       m.WorkspaceID,
			Name:     m.Workspace.Name,
			Slug:     m.Workspace.Slug,
			Role:     string(m.Role),
			Selected: ac.Selected != nil && ac.Selected.WorkspaceID == m.WorkspaceID,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"state":      string(ac.State),
		"workspaces": out,
	})
}

// SelectWorkspace switches the caller's tenant context. The switch
// succeeds only for an existing membership; on failure the previous
// selection pointer is left untouched.
func (h *Handler) SelectWorkspace(c echo.Context) error {
	log := logger.FromEcho(c)
	ac := middleware.FromEcho(c)

	var req struct {
		WorkspaceID string `json:"workspace_id" form:"workspace_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	req.WorkspaceID = strings.TrimSpace(req.WorkspaceID)
	if req.WorkspaceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "workspace_id is required"})
	}

	m, err := h.resolver.Switch(c.Request().Context(), ac.User.ID, req.WorkspaceID)
	if err != nil {
		log.Warn("Workspace switch denied",
			zap.String("user_id", ac.User.ID),
			zap.String("workspace_id", req.WorkspaceID))
		return respondError(c, err)
	}

	carrier.SetWorkspace(c, h.cfg.Session.WorkspaceCookie, m.WorkspaceID, h.secure())

	log.Info("Workspace selected",
		zap.String("user_id", ac.User.ID),
		zap.String("workspace_id", m.WorkspaceID),
		zap.String("role", string(m.Role)))

	return c.JSON(http.StatusOK, echo.Map{
		"workspace": echo.Map{
			"id":   m.Workspace.ID,
			"name": m.Workspace.Name,
			"slug": m.Workspace.Slug,
		},
		"role": m.Role,
	})
}
