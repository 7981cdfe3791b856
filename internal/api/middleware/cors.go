package middleware

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// Ports in this range on localhost are treated as local frontends.
const (
	localPortMin = 5000
	localPortMax = 5599
)

// CORS allows the configured origins. With an empty list it allows requests
// without an Origin header, plain localhost, and localhost on ports 5000-5599.
func CORS(allowed []string) echo.MiddlewareFunc {
	cfg := echomiddleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}
	if len(allowed) > 0 {
		cfg.AllowOrigins = allowed
	} else {
		cfg.AllowOriginFunc = func(origin string) (bool, error) {
			return LocalOrigin(origin), nil
		}
	}
	return echomiddleware.CORSWithConfig(cfg)
}

// LocalOrigin reports whether origin passes the default policy.
func LocalOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() != "localhost" {
		return false
	}
	if u.Port() == "" {
		return true
	}
	port, err := strconv.Atoi(u.Port())
	return err == nil && port >= localPortMin && port <= localPortMax
}
