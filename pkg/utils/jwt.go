package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/benhvien-dev/baocao-backend/config"
)

// Claims với field phẳng cho id_role và privileges.
type Claims struct {
	IDNhanVien string `json:"id_nhan_vien"`
	Role       string `json:"role"`
	IDRole     int    `json:"id_role"`
	Privileges []int  `json:"privileges"`
	Username   string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateJWTToken tạo token JWT với payload phẳng và exp theo tham số.
func GenerateJWTToken(idNhanVien string, role string, idRole int, privileges []int, username string, exp time.Time) (string, error) {
	jwtKey := []byte(config.LoadConfig().JWTSecret)
	if len(jwtKey) == 0 {
		return "", fmt.Errorf("JWT secret key is missing")
	}

	claims := Claims{
		IDNhanVien: idNhanVien,
		Role:       role,
		IDRole:     idRole,
		Privileges: privileges,
		Username:   username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ValidateJWTToken xác thực token JWT và trả về claims.
func ValidateJWTToken(tokenString string) (*Claims, error) {
	jwtKey := []byte(config.LoadConfig().JWTSecret)
	if len(jwtKey) == 0 {
		return nil, fmt.Errorf("JWT secret key is missing")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
