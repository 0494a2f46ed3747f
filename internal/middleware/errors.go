package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// authProblem is the RFC 7807 body for auth rejections. The middleware
// layer only ever answers 401, so it carries no validation errors field.
type authProblem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// unauthorizedError rejects the request with a 401 problem response
func unauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, authProblem{
		Type:     "https://billetera.app/errors/unauthorized",
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}
