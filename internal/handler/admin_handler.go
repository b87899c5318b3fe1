package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tickops/internal/credential"
	"tickops/internal/middleware"
	"tickops/internal/model"
	"tickops/pkg/logger"
	"tickops/prometheus"
)

// Admin provisioning surface. Every handler here sits behind
// RequireSuperAdmin; the global role grants management rights only,
// never in-tenant data access.

// AdminListWorkspaces returns all workspaces, newest first.
func (h *Handler) AdminListWorkspaces(c echo.Context) error {
	workspaces, err := h.directory.ListWorkspaces(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"workspaces": workspaces})
}

// AdminCreateWorkspace creates a workspace. Duplicate slug is a
// conflict, malformed input is rejected before any write.
func (h *Handler) AdminCreateWorkspace(c echo.Context) error {
	var req struct {
		Name string `json:"name" form:"name"`
		Slug string `json:"slug" form:"slug"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ws, err := h.directory.CreateWorkspace(c.Request().Context(), req.Name, req.Slug)
	if err != nil {
		return respondError(c, err)
	}

	logger.FromEcho(c).Info("Workspace created",
		zap.String("workspace_id", ws.ID),
		zap.String("slug", ws.Slug))

	return c.JSON(http.StatusCreated, echo.Map{"workspace": ws})
}

// AdminListUsers returns all users, newest first.
func (h *Handler) AdminListUsers(c echo.Context) error {
	users, err := h.auth.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// AdminCreateUser provisions a user and attaches them to a workspace in
// one call. The password is always required and hashed. Membership
// attachment is an upsert, so re-running a failed provisioning request
// is safe.
func (h *Handler) AdminCreateUser(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Email       string `json:"email" form:"email"`
		Name        string `json:"name" form:"name"`
		Password    string `json:"password" form:"password"`
		WorkspaceID string `json:"workspace_id" form:"workspace_id"`
		Role        string `json:"role" form:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.WorkspaceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "workspace_id is required"})
	}

	role := model.WorkspaceRole(req.Role)
	if !role.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown workspace role"})
	}
	// Reject the membership target before creating the user so a failed
	// request leaves no partial state.
	if _, err := h.directory.GetWorkspace(c.Request().Context(), req.WorkspaceID); err != nil {
		return respondError(c, err)
	}

	user, err := h.auth.CreateUser(c.Request().Context(), credential.CreateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	membership, err := h.directory.AddMembership(c.Request().Context(), user.ID, req.WorkspaceID, role)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("User provisioned",
		zap.String("user_id", user.ID),
		zap.String("workspace_id", req.WorkspaceID),
		zap.String("role", string(role)))

	return c.JSON(http.StatusCreated, echo.Map{
		"user":       user,
		"membership": membership,
	})
}

// AdminSetModule toggles a module entitlement for a workspace.
func (h *Handler) AdminSetModule(c echo.Context) error {
	ac := middleware.FromEcho(c)

	var req struct {
		WorkspaceID string `json:"workspace_id" form:"workspace_id"`
		ModuleKey   string `json:"module_key" form:"module_key"`
		Enabled     bool   `json:"enabled" form:"enabled"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.WorkspaceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "workspace_id is required"})
	}

	if _, err := h.directory.GetWorkspace(c.Request().Context(), req.WorkspaceID); err != nil {
		return respondError(c, err)
	}

	row, err := h.entitlements.SetEnabled(c.Request().Context(), req.WorkspaceID, req.ModuleKey, req.Enabled)
	if err != nil {
		return respondError(c, err)
	}

	logger.FromEcho(c).Info("Module entitlement updated",
		zap.String("admin_id", ac.User.ID),
		zap.String("workspace_id", req.WorkspaceID),
		zap.String("module_key", req.ModuleKey),
		zap.Bool("enabled", req.Enabled))
	prometheus.RecordTenancyOperation("set_module")

	return c.JSON(http.StatusOK, echo.Map{"module": row})
}
