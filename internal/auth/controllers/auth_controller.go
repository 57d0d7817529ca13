package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/benhvien-dev/baocao-backend/internal/auth/services"
	"github.com/benhvien-dev/baocao-backend/pkg/utils"
)

type AuthController struct {
	Service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{Service: service}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (ac *AuthController) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload",
			"data":    nil,
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Username and Password are required",
			"data":    nil,
		})
	}

	nv, privileges, err := ac.Service.Authenticate(req.Username, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  http.StatusUnauthorized,
			"message": "Invalid username or password",
			"data":    nil,
		})
	}

	token, err := utils.GenerateJWTToken(
		nv.IDNhanVien, nv.Role, nv.IDRole, privileges, nv.Username,
		time.Now().Add(12*time.Hour))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to generate token: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Login successful",
		"data": map[string]interface{}{
			"token":   token,
			"ho_ten":  nv.HoTen,
			"role":    nv.Role,
			"id_role": nv.IDRole,
		},
	})
}
