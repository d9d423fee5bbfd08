package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/belleallure/salon-api/internal/core/domain"
)

// ctxUserID returns the subject injected by the Auth middleware. An empty
// subject means the route was reached without a verified token.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return "", fmt.Errorf("%w: missing authentication claims", domain.ErrUnauthorized)
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidRequest)
	}
	return c.Validate(req)
}
