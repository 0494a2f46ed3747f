package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// errorTypeBase prefixes the type URI of every problem response
const errorTypeBase = "https://billetera.app/errors/"

// ProblemDetails is the RFC 7807 body shared by all error responses
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError pins a message to the request field that caused it
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func problem(c echo.Context, status int, slug, title, detail string, errs []ValidationError) error {
	return c.JSON(status, ProblemDetails{
		Type:     errorTypeBase + slug,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errs,
	})
}

// NewValidationError responds 400 with per-field validation messages
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return problem(c, http.StatusBadRequest, "validation", "Validation Error", detail, errors)
}

// NewNotFoundError responds 404
func NewNotFoundError(c echo.Context, detail string) error {
	return problem(c, http.StatusNotFound, "not-found", "Not Found", detail, nil)
}

// NewUnauthorizedError responds 401
func NewUnauthorizedError(c echo.Context, detail string) error {
	return problem(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", detail, nil)
}

// NewForbiddenError responds 403
func NewForbiddenError(c echo.Context, detail string) error {
	return problem(c, http.StatusForbidden, "forbidden", "Forbidden", detail, nil)
}

// NewInternalError responds 500
func NewInternalError(c echo.Context, detail string) error {
	return problem(c, http.StatusInternalServerError, "internal", "Internal Server Error", detail, nil)
}
