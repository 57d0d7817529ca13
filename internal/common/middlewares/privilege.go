package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benhvien-dev/baocao-backend/pkg/utils"
)

// RequirePrivilege kiểm tra claims JWT có privilege cần thiết hay không.
func RequirePrivilege(requiredPriv int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(string(ContextKeyClaims)).(*utils.Claims)
			if !ok || claims == nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Missing or invalid JWT claims",
					"data":    nil,
				})
			}

			for _, p := range claims.Privileges {
				if p == requiredPriv {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, map[string]interface{}{
				"status":  http.StatusForbidden,
				"message": "Bạn không có quyền truy cập",
				"data":    nil,
			})
		}
	}
}
