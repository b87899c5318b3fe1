package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tickops/internal/access"
	"tickops/internal/middleware"
)

// WhoAmI reports the caller's identity and selected workspace. The
// non-selected states come back as explicit outcomes the client
// pattern-matches on.
func (h *Handler) WhoAmI(c echo.Context) error {
	ac := middleware.FromEcho(c)

	resp := echo.Map{
		"state": string(ac.State),
		"user": echo.Map{
			"id":          ac.User.ID,
			"email":       ac.User.Email,
			"name":        ac.User.Name,
			"global_role": ac.User.GlobalRole,
		},
		"workspace": nil,
		"role":      nil,
	}

	if ac.State == access.StateSelected {
		resp["workspace"] = echo.Map{
			"id":   ac.Selected.Workspace.ID,
			"name": ac.Selected.Workspace.Name,
			"slug": ac.Selected.Workspace.Slug,
		}
		resp["role"] = ac.Selected.Role
	}

	return c.JSON(http.StatusOK, resp)
}
