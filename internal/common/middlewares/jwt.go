package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/benhvien-dev/baocao-backend/pkg/utils"
)

type contextKey string

// ContextKeyClaims là key lưu claims trong echo.Context.
const ContextKeyClaims contextKey = "claims"

// JWTMiddleware xác thực Bearer token và lưu claims vào context.
func JWTMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Authorization header missing",
					"data":    nil,
				})
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Invalid authorization header",
					"data":    nil,
				})
			}
			claims, err := utils.ValidateJWTToken(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Invalid token: " + err.Error(),
					"data":    nil,
				})
			}

			c.Set(string(ContextKeyClaims), claims)
			return next(c)
		}
	}
}
