package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimblecrm/crm-console/internal/core/domain"
	"github.com/nimblecrm/crm-console/internal/core/ports"
)

// UserHandler serves the admin-only users screen.
type UserHandler struct {
	api    ports.UserAPI
	writes ports.WriteSerializer
	feedback
}

func NewUserHandler(api ports.UserAPI, writes ports.WriteSerializer, notify ports.Notifier) *UserHandler {
	return &UserHandler{api: api, writes: writes, feedback: feedback{notify: notify}}
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page  query     int     false  "Page number (0-based)"
// @Param        size  query     int     false  "Page size"
// @Param        sort  query     string  false  "Sort, e.g. username,asc"
// @Success      200   {object}  domain.Page[domain.User]
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	q, err := bindPage(c)
	if err != nil {
		return err
	}
	page, err := h.api.ListUsers(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get handles GET /users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  domain.User
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	u, err := h.api.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Create handles POST /users. New accounts are active unless the form says
// otherwise.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      userCreateForm  true  "User"
// @Success      201   {object}  domain.User
// @Failure      422   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var form userCreateForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	ctx := c.Request().Context()
	u, err := h.api.CreateUser(ctx, form.toRequest())
	if err != nil {
		return h.failed(ctx, err, "Failed to create user")
	}
	h.done(ctx, "User created successfully!")
	return c.JSON(http.StatusCreated, u)
}

// Update handles PUT /users/:id.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "User ID"
// @Param        body  body      userUpdateForm  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      422   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var form userUpdateForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var u *domain.User
	err = h.writes.Do(ctx, entityKey("users", id), func(ctx context.Context) (err error) {
		u, err = h.api.UpdateUser(ctx, id, form.toUpdate())
		return err
	})
	if err != nil {
		return h.failed(ctx, err, "Failed to update user")
	}
	h.done(ctx, "User updated successfully!")
	return c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Param        id  path  int  true  "User ID"
// @Success      204
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	err = h.writes.Do(ctx, entityKey("users", id), func(ctx context.Context) error {
		return h.api.DeleteUser(ctx, id)
	})
	if err != nil {
		return h.failed(ctx, err, "Failed to delete user")
	}
	h.done(ctx, "User deleted successfully!")
	return c.NoContent(http.StatusNoContent)
}

// ResetPassword handles POST /users/:id/password.
//
// @Summary      Set another user's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "User ID"
// @Param        body  body      passwordResetForm  true  "New password"
// @Success      200   {object}  messageResponse
// @Failure      422   {object}  errorResponse
// @Router       /users/{id}/password [post]
func (h *UserHandler) ResetPassword(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var form passwordResetForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	ctx := c.Request().Context()
	err = h.writes.Do(ctx, entityKey("users", id), func(ctx context.Context) error {
		return h.api.ResetPassword(ctx, id, domain.PasswordReset{NewPassword: form.NewPassword})
	})
	if err != nil {
		return h.failed(ctx, err, "Failed to change password")
	}
	h.done(ctx, "Password changed successfully!")
	return c.JSON(http.StatusOK, messageResponse{Message: "password changed"})
}
