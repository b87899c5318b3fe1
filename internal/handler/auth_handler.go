package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tickops/internal/apperr"
	"tickops/internal/carrier"
	"tickops/internal/middleware"
	"tickops/pkg/logger"
	"tickops/prometheus"
)

// Login verifies credentials and hands the session token to the caller
// as a cookie. Unknown email and wrong password produce the same
// response.
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	res, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthenticated) {
			prometheus.RecordAuthError("invalid_credentials")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return respondError(c, err)
	}

	// The session row is committed before the cookie leaves the server;
	// a successful response always refers to a durable session.
	carrier.SetSession(c, h.cfg.Session.SessionCookie, res.Token, res.ExpiresAt, h.secure())

	log.Info("User logged in",
		zap.String("user_id", res.User.ID),
		zap.String("email", res.User.Email))

	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"id":          res.User.ID,
			"email":       res.User.Email,
			"name":        res.User.Name,
			"global_role": res.User.GlobalRole,
		},
		"expires_at": res.ExpiresAt,
	})
}

// Logout destroys the current session and clears both carriers.
// Idempotent: logging out without a session still succeeds.
func (h *Handler) Logout(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LogoutCounter.Inc()

	token := carrier.Get(c, h.cfg.Session.SessionCookie)
	if token != "" {
		if err := h.sessions.Destroy(c.Request().Context(), token); err != nil {
			return respondError(c, err)
		}
	}

	carrier.Clear(c, h.cfg.Session.SessionCookie, h.secure())
	carrier.Clear(c, h.cfg.Session.WorkspaceCookie, h.secure())

	log.Info("User logged out")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// ChangePassword verifies the current password before storing a new
// hash for the logged-in user.
func (h *Handler) ChangePassword(c echo.Context) error {
	ac := middleware.FromEcho(c)

	var req struct {
		CurrentPassword string `json:"current_password" form:"current_password"`
		NewPassword     string `json:"new_password" form:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	err := h.auth.ChangePassword(c.Request().Context(), ac.User.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthenticated) {
			prometheus.RecordAuthError("invalid_credentials")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return respondError(c, err)
	}

	logger.FromEcho(c).Info("Password changed", zap.String("user_id", ac.User.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
