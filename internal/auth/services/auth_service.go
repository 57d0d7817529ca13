package services

import (
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/benhvien-dev/baocao-backend/internal/auth/models"
)

type AuthService struct {
	DB *sql.DB
}

func NewAuthService(db *sql.DB) *AuthService {
	return &AuthService{DB: db}
}

// Authenticate xác thực đăng nhập và trả về nhân viên cùng danh sách privilege.
func (s *AuthService) Authenticate(username, password string) (*models.NhanVien, []int, error) {
	var nv models.NhanVien
	query := `SELECT nv.id_nhan_vien, nv.username, nv.password, nv.ho_ten, r.id_role, r.ten_role
		FROM Nhan_Vien nv
		JOIN Role r ON r.id_role = nv.id_role
		WHERE nv.username = ? AND nv.deleted_at IS NULL`
	err := s.DB.QueryRow(query, username).Scan(
		&nv.IDNhanVien, &nv.Username, &nv.Password, &nv.HoTen, &nv.IDRole, &nv.Role)
	if err != nil {
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(nv.Password), []byte(password)); err != nil {
		return nil, nil, errors.New("invalid credentials")
	}

	rows, err := s.DB.Query("SELECT id_privilege FROM Role_Privilege WHERE id_role = ?", nv.IDRole)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var privileges []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, nil, err
		}
		privileges = append(privileges, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return &nv, privileges, nil
}
