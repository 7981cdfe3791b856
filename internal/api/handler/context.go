package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kursownik/api/internal/api/middleware"
	"github.com/kursownik/api/internal/core/domain"
)

// currentUser returns the caller injected by the Auth middleware.
func currentUser(c echo.Context) (domain.UserMetadata, error) {
	user, ok := c.Get(middleware.UserKey).(domain.UserMetadata)
	if !ok || user.ID == "" {
		return domain.UserMetadata{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
