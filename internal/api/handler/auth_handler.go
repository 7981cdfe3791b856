package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kursownik/api/internal/core/ports"
	"github.com/kursownik/api/pkg/roles"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup creates a new user account with the default role set.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Credentials"
// @Success      201   {object}  signupResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, signupResponse{Email: user.Email, Roles: user.Roles})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		ID:    res.ID,
		Email: res.Email,
		Roles: res.Roles,
		Token: res.Token,
	})
}

// UpdateUserRoles replaces a user's role set.
//
// @Summary      Replace a user's roles
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateRolesRequest  true  "Target user and role indices"
// @Success      200   {object}  userRolesResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/users/roles [put]
func (h *AuthHandler) UpdateUserRoles(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateRolesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rs := make([]roles.Role, len(req.Roles))
	for i, r := range req.Roles {
		rs[i] = roles.Role(r)
	}

	updated, err := h.authService.UpdateUserRoles(c.Request().Context(), caller, req.UserID, rs)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserRolesResponse(*updated))
}

// ListUsers returns every user with role names.
//
// @Summary      List users with their roles
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userRolesResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /auth/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	users, err := h.authService.ListUsers(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	resp := make([]userRolesResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserRolesResponse(u))
	}
	return c.JSON(http.StatusOK, resp)
}
