// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/labstack/echo/v4"
)

// Role groups used by the routes.
var (
	AdminRoles      = []string{models.RoleAdmin, models.RoleAssistantAdmin}
	SupervisorRoles = []string{models.RoleAdmin, models.RoleAssistantAdmin, models.RoleSupervisor, models.RoleSupervisorTeller}
)

// RequireUserType checks if the authenticated user has one of the allowed user types
func RequireUserType(allowedTypes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userType := ExtractUserType(c)
			log := config.GetLogger().WithField("path", c.Request().URL.Path)

			if userType == "" {
				log.Warn("Authentication failed: user type not found")
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication failed: user type not found",
				})
			}

			for _, allowedType := range allowedTypes {
				if userType == allowedType {
					return next(c)
				}
			}

			log.WithField("userType", userType).Warn("Access denied")
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your user type",
			})
		}
	}
}

// RequireSelfOrRole lets a user read their own records (":userId" path
// param) and the given roles read anyone's.
func RequireSelfOrRole(param string, allowedTypes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetUserIDFromToken(c) != "" && GetUserIDFromToken(c) == c.Param(param) {
				return next(c)
			}
			return RequireUserType(allowedTypes...)(next)(c)
		}
	}
}
