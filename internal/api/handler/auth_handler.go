package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimblecrm/crm-console/internal/api/middleware"
	"github.com/nimblecrm/crm-console/internal/core/ports"
)

// AuthHandler serves the login and register screens and the session endpoints.
type AuthHandler struct {
	session ports.Session
}

func NewAuthHandler(session ports.Session) *AuthHandler {
	return &AuthHandler{session: session}
}

// LoginView handles GET /login.
//
// @Summary      Login screen
// @Tags         auth
// @Produce      json
// @Success      200  {object}  viewResponse
// @Success      303  "Already authenticated, redirected to /"
// @Router       /login [get]
func (h *AuthHandler) LoginView(c echo.Context) error {
	return c.JSON(http.StatusOK, viewResponse{View: "login"})
}

// Login handles POST /login. On success the operator is sent to the dashboard.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  loginForm  true  "Credentials"
// @Success      303   "Logged in, redirected to /"
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	if _, err := h.session.Login(c.Request().Context(), form.toRequest()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, middleware.HomePath)
}

// RegisterView handles GET /register.
//
// @Summary      Registration screen
// @Tags         auth
// @Produce      json
// @Success      200  {object}  viewResponse
// @Router       /register [get]
func (h *AuthHandler) RegisterView(c echo.Context) error {
	return c.JSON(http.StatusOK, viewResponse{View: "register"})
}

// Register handles POST /register. Registration never logs the operator in.
//
// @Summary      Register an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  registerForm  true  "Account details"
// @Success      303   "Registered, redirected to /login"
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	if _, err := h.session.Register(c.Request().Context(), form.toRequest()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

// Logout handles POST /logout.
//
// @Summary      Log out
// @Tags         auth
// @Success      303  "Logged out, redirected to /login"
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.session.Logout(c.Request().Context())
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

// Session handles GET /session.
//
// @Summary      Current session state
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

// Refresh handles POST /session/refresh.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      409  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /session/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	if err := h.session.Refresh(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "token refreshed"})
}
