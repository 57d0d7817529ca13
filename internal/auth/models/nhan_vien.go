package models

// NhanVien là tài khoản nhân viên được phép xem báo cáo.
type NhanVien struct {
	IDNhanVien string `json:"id_nhan_vien"`
	Username   string `json:"username"`
	Password   string `json:"-"` // bcrypt hash
	HoTen      string `json:"ho_ten"`
	Role       string `json:"role"`
	IDRole     int    `json:"id_role"`
}
