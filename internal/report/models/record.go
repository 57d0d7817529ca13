package models

import "github.com/benhvien-dev/baocao-backend/pkg/utils"

// DailyRecord is one reporting row from the backend tables: one day (or
// month) with its total counts and the per-specialty breakdown.
type DailyRecord struct {
	Ngay           string           `json:"NGAY"`
	SoLuotKhamTong int              `json:"SO_LUOT_KHAM_TONG"`
	SoBenhNhanTong int              `json:"SO_BENH_NHAN_TONG"`
	ChuyenKhoaKham []CategoryDetail `json:"CHUYEN_KHOA_KHAM"`
}

// CategoryDetail là số liệu con của một ngày cho một cặp (chuyên khoa, bác sĩ).
type CategoryDetail struct {
	TenChuyenKhoa string `json:"TEN_CHUYEN_KHOA"`
	TenBacSi      string `json:"TEN_BAC_SI"`
	SoLuotKham    int    `json:"SO_LUOT_KHAM"`
	SoBnMoi       int    `json:"SO_BN_MOI"`
	SoBnTaiKham   int    `json:"SO_BN_TAI_KHAM"`
}

// FlatRow is one display/export row per (date, specialty, doctor) triple.
// NgayKham holds the bucket key (YYYY-MM-DD or YYYY-MM); display formatting
// happens at projection/export time.
type FlatRow struct {
	NgayKham      string `json:"NGAY_KHAM"`
	TenChuyenKhoa string `json:"TEN_CHUYEN_KHOA"`
	TenBacSi      string `json:"TEN_BAC_SI"`
	SoLuotKham    int    `json:"SO_LUOT_KHAM"`
	SoBnMoi       int    `json:"SO_BN_MOI"`
	SoBnTaiKham   int    `json:"SO_BN_TAI_KHAM"`
	SoBenhNhan    int    `json:"SO_BENH_NHAN"`
}

// Value looks a row field up by its internal export key. Missing specialty
// and doctor names resolve to the fallback label, never an empty cell.
// Unknown keys return nil; the export layer defaults those to "".
func (r FlatRow) Value(key string) interface{} {
	switch key {
	case "NGAY_KHAM":
		return r.NgayKham
	case "TEN_CHUYEN_KHOA":
		if r.TenChuyenKhoa == "" {
			return utils.FallbackLabel
		}
		return r.TenChuyenKhoa
	case "TEN_BAC_SI":
		if r.TenBacSi == "" {
			return utils.FallbackLabel
		}
		return r.TenBacSi
	case "SO_LUOT_KHAM":
		return r.SoLuotKham
	case "SO_BN_MOI":
		return r.SoBnMoi
	case "SO_BN_TAI_KHAM":
		return r.SoBnTaiKham
	case "SO_BENH_NHAN":
		return r.SoBenhNhan
	}
	return nil
}
