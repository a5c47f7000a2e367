package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/api/middleware"
)

// currentUserID returns the id of the authenticated caller, or "" on
// unauthenticated routes.
func currentUserID(c echo.Context) string {
	if u, ok := middleware.CurrentUser(c); ok {
		return u.ID
	}
	return ""
}
