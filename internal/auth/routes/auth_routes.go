package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/benhvien-dev/baocao-backend/internal/auth/controllers"
)

// RegisterAuthRoutes gắn các route xác thực. Login không qua JWT.
func RegisterAuthRoutes(api *echo.Group, ac *controllers.AuthController) {
	auth := api.Group("/auth")
	auth.POST("/login", ac.Login)
}
