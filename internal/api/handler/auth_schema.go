package handler

import "github.com/kursownik/api/internal/core/ports"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// Passwords are capped at bcrypt's 72-byte input.
type signupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type signupResponse struct {
	Email string `json:"email"`
	Roles string `json:"roles"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Roles string `json:"roles"`
	Token string `json:"token"`
}

type updateRolesRequest struct {
	UserID string `json:"userId" validate:"required"`
	Roles  []int  `json:"roles"  validate:"required,min=1,dive,min=0,max=4"`
}

type userRolesResponse struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Roles     string   `json:"roles"`
	RoleNames []string `json:"roleNames"`
}

func toUserRolesResponse(u ports.UserRoles) userRolesResponse {
	names := u.RoleNames
	if names == nil {
		names = []string{}
	}
	return userRolesResponse{ID: u.ID, Email: u.Email, Roles: u.Roles, RoleNames: names}
}
