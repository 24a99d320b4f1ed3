package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimblecrm/crm-console/internal/core/domain"
	"github.com/nimblecrm/crm-console/internal/core/ports"
)

const msgPasswordMismatch = "New passwords do not match"

// SettingsHandler lets the operator edit their own profile and password.
type SettingsHandler struct {
	api     ports.UserAPI
	session ports.Session
	writes  ports.WriteSerializer
	feedback
}

func NewSettingsHandler(api ports.UserAPI, session ports.Session, writes ports.WriteSerializer, notify ports.Notifier) *SettingsHandler {
	return &SettingsHandler{api: api, session: session, writes: writes, feedback: feedback{notify: notify}}
}

// Profile handles GET /settings.
//
// @Summary      Current operator profile
// @Tags         settings
// @Produce      json
// @Success      200  {object}  domain.User
// @Router       /settings [get]
func (h *SettingsHandler) Profile(c echo.Context) error {
	user := h.session.CurrentUser()
	if user == nil {
		return domain.ErrNotAuthenticated
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /settings/profile.
//
// @Summary      Update own profile
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      profileForm  true  "Profile"
// @Success      200   {object}  domain.User
// @Failure      422   {object}  errorResponse
// @Router       /settings/profile [put]
func (h *SettingsHandler) UpdateProfile(c echo.Context) error {
	var form profileForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	me := h.session.CurrentUser()
	if me == nil {
		return domain.ErrNotAuthenticated
	}

	ctx := c.Request().Context()
	var updated *domain.User
	err := h.writes.Do(ctx, entityKey("users", me.ID), func(ctx context.Context) (err error) {
		updated, err = h.api.UpdateUser(ctx, me.ID, form.toUpdate())
		return err
	})
	if err != nil {
		return h.failed(ctx, err, "Failed to update profile")
	}
	if updated != nil {
		h.session.UpdateUser(updated)
	}
	h.done(ctx, "Profile updated successfully!")
	return c.JSON(http.StatusOK, h.session.CurrentUser())
}

// ChangePassword handles POST /settings/password.
//
// @Summary      Change own password
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      passwordChangeForm  true  "Old and new password"
// @Success      200   {object}  messageResponse
// @Failure      422   {object}  errorResponse
// @Router       /settings/password [post]
func (h *SettingsHandler) ChangePassword(c echo.Context) error {
	var form passwordChangeForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if form.NewPassword != form.ConfirmPassword {
		h.notify.Error(ctx, msgPasswordMismatch)
		return domain.ErrPasswordMismatch
	}

	req := domain.PasswordChange{OldPassword: form.OldPassword, NewPassword: form.NewPassword}
	if err := h.api.ChangeOwnPassword(ctx, req); err != nil {
		return h.failed(ctx, err, "Failed to change password")
	}
	h.done(ctx, "Password changed successfully!")
	return c.JSON(http.StatusOK, messageResponse{Message: "password changed"})
}
