package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/belleallure/salon-api/internal/core/domain"
)

// RequireRole admits requests whose token role, as set by Auth, is one of
// roles. A request without a role never went through Auth and gets 401.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !slices.Contains(roles, role) {
				return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf("role %s may not access this resource", role))
			}
			return next(c)
		}
	}
}

// StaffOnly admits admins and stylists.
func StaffOnly() echo.MiddlewareFunc {
	return RequireRole(domain.StaffRoles...)
}

// AdminOnly admits admins.
func AdminOnly() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}
