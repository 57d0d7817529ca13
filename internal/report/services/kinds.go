package services

import (
	"fmt"

	"github.com/benhvien-dev/baocao-backend/internal/report/export"
	"github.com/benhvien-dev/baocao-backend/pkg/utils"
)

// ReportKind mô tả một loại báo cáo: câu truy vấn nguồn và cột xuất Excel.
// Cả ba báo cáo trả về cùng một bộ cột (ngày, nhóm, bác sĩ, các số đếm) nên
// dùng chung một pipeline tổng hợp.
type ReportKind struct {
	ID    string // đoạn route: kham-benh, icd, phau-thuat
	Name  string // tên file xuất
	Sheet string // tên sheet Excel

	// query có đúng một %s cho biểu thức ngày theo granularity.
	query string

	Columns []export.Column
}

// DateExpr trả về biểu thức SQL cắt mốc ngày theo granularity.
func dateExpr(column, granularity string) string {
	if granularity == utils.GranularityMonth {
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m')", column)
	}
	return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d')", column)
}

// Query dựng câu SQL hoàn chỉnh cho granularity đã cho.
func (k ReportKind) Query(granularity string) string {
	return fmt.Sprintf(k.query, dateExpr(k.dateColumn(), granularity))
}

func (k ReportKind) dateColumn() string {
	switch k.ID {
	case "phau-thuat":
		return "pt.ngay_phau_thuat"
	default:
		return "kb.ngay_kham"
	}
}

var khamBenhColumns = []export.Column{
	{Key: "NGAY_KHAM", Header: "Ngày khám", Kind: export.KindDate},
	{Key: "TEN_CHUYEN_KHOA", Header: "Chuyên khoa", Kind: export.KindText},
	{Key: "TEN_BAC_SI", Header: "Bác sĩ", Kind: export.KindText},
	{Key: "SO_LUOT_KHAM", Header: "Số lượt khám", Kind: export.KindNumber},
	{Key: "SO_BN_MOI", Header: "Bệnh nhân mới", Kind: export.KindNumber},
	{Key: "SO_BN_TAI_KHAM", Header: "Tái khám", Kind: export.KindNumber},
	{Key: "SO_BENH_NHAN", Header: "Tổng bệnh nhân", Kind: export.KindNumber},
}

var icdColumns = []export.Column{
	{Key: "NGAY_KHAM", Header: "Ngày khám", Kind: export.KindDate},
	{Key: "TEN_CHUYEN_KHOA", Header: "Mã ICD - Tên bệnh", Kind: export.KindText},
	{Key: "TEN_BAC_SI", Header: "Bác sĩ", Kind: export.KindText},
	{Key: "SO_LUOT_KHAM", Header: "Số lượt chẩn đoán", Kind: export.KindNumber},
	{Key: "SO_BN_MOI", Header: "Bệnh nhân mới", Kind: export.KindNumber},
	{Key: "SO_BN_TAI_KHAM", Header: "Tái khám", Kind: export.KindNumber},
	{Key: "SO_BENH_NHAN", Header: "Tổng bệnh nhân", Kind: export.KindNumber},
}

var phauThuatColumns = []export.Column{
	{Key: "NGAY_KHAM", Header: "Ngày phẫu thuật", Kind: export.KindDate},
	{Key: "TEN_CHUYEN_KHOA", Header: "Loại phẫu thuật", Kind: export.KindText},
	{Key: "TEN_BAC_SI", Header: "Bác sĩ mổ", Kind: export.KindText},
	{Key: "SO_LUOT_KHAM", Header: "Số ca mổ", Kind: export.KindNumber},
	{Key: "SO_BN_MOI", Header: "Mổ lần đầu", Kind: export.KindNumber},
	{Key: "SO_BN_TAI_KHAM", Header: "Mổ lại", Kind: export.KindNumber},
	{Key: "SO_BENH_NHAN", Header: "Tổng bệnh nhân", Kind: export.KindNumber},
}

// Mỗi truy vấn trả về các cột (ngày, nhóm, bác sĩ, số lượt, số mới, số tái)
// sắp theo ngày để service gom dòng liên tiếp thành DailyRecord.
var kinds = map[string]ReportKind{
	"kham-benh": {
		ID:    "kham-benh",
		Name:  "BaoCaoKhamBenh",
		Sheet: "Kham benh",
		query: `SELECT %s AS ngay, ck.ten_chuyen_khoa, nv.ho_ten,
			COUNT(*) AS so_luot,
			COALESCE(SUM(kb.lan_dau = 1), 0) AS so_moi,
			COALESCE(SUM(kb.lan_dau = 0), 0) AS so_tai_kham
		FROM Kham_Benh kb
		LEFT JOIN Chuyen_Khoa ck ON ck.id_chuyen_khoa = kb.id_chuyen_khoa
		LEFT JOIN Nhan_Vien nv ON nv.id_nhan_vien = kb.id_bac_si
		WHERE kb.ngay_kham BETWEEN ? AND ?
		GROUP BY 1, 2, 3
		ORDER BY 1`,
		Columns: khamBenhColumns,
	},
	"icd": {
		ID:    "icd",
		Name:  "BaoCaoICD",
		Sheet: "ICD",
		query: `SELECT %s AS ngay, CONCAT(i.ma_icd, ' - ', i.display), nv.ho_ten,
			COUNT(*) AS so_luot,
			COALESCE(SUM(kb.lan_dau = 1), 0) AS so_moi,
			COALESCE(SUM(kb.lan_dau = 0), 0) AS so_tai_kham
		FROM Kham_Benh kb
		JOIN ICD10 i ON i.id_icd10 = kb.id_icd10
		LEFT JOIN Nhan_Vien nv ON nv.id_nhan_vien = kb.id_bac_si
		WHERE kb.ngay_kham BETWEEN ? AND ?
		GROUP BY 1, 2, 3
		ORDER BY 1`,
		Columns: icdColumns,
	},
	"phau-thuat": {
		ID:    "phau-thuat",
		Name:  "BaoCaoPhauThuat",
		Sheet: "Phau thuat",
		query: `SELECT %s AS ngay, pt.loai_phau_thuat, nv.ho_ten,
			COUNT(*) AS so_ca,
			COALESCE(SUM(pt.mo_lai = 0), 0) AS so_moi,
			COALESCE(SUM(pt.mo_lai = 1), 0) AS so_mo_lai
		FROM Phau_Thuat pt
		LEFT JOIN Nhan_Vien nv ON nv.id_nhan_vien = pt.id_bac_si_mo
		WHERE pt.ngay_phau_thuat BETWEEN ? AND ?
		GROUP BY 1, 2, 3
		ORDER BY 1`,
		Columns: phauThuatColumns,
	},
}

// KindByID tra cứu loại báo cáo theo đoạn route.
func KindByID(id string) (ReportKind, bool) {
	k, ok := kinds[id]
	return k, ok
}
