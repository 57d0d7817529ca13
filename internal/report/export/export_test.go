package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/benhvien-dev/baocao-backend/internal/report/models"
	"github.com/benhvien-dev/baocao-backend/pkg/utils"
)

var testColumns = []Column{
	{Key: "NGAY_KHAM", Header: "Ngày khám", Kind: KindDate},
	{Key: "TEN_BAC_SI", Header: "Bác sĩ", Kind: KindText},
	{Key: "SO_LUOT_KHAM", Header: "Số lượt khám", Kind: KindNumber},
	{Key: "KHONG_TON_TAI", Header: "Cột trống", Kind: KindText},
}

func TestRowsMappingIsTotalAndOrderPreserving(t *testing.T) {
	rows := []models.FlatRow{
		{NgayKham: "2026-03-01", TenBacSi: "BS. An", SoLuotKham: 10},
	}

	recs := Rows(rows, testColumns)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, "01/03/2026", rec["Ngày khám"])
	assert.Equal(t, "BS. An", rec["Bác sĩ"])
	assert.Equal(t, 10, rec["Số lượt khám"])
	// cột khai báo nhưng không có trên dòng nguồn vẫn xuất hiện, mặc định ""
	assert.Equal(t, "", rec["Cột trống"])
}

func TestRowsNullDoctorNameGetsFallbackLabel(t *testing.T) {
	rows := []models.FlatRow{
		{NgayKham: "2026-03-01", TenBacSi: "", SoLuotKham: 3},
	}

	recs := Rows(rows, testColumns)
	require.Len(t, recs, 1)
	assert.Equal(t, utils.FallbackLabel, recs[0]["Bác sĩ"])
}

func TestFilenamePattern(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 4, 1, 8, 30, 15, 0, time.UTC)

	name := Filename("BaoCaoKhamBenh", from, to, now)
	assert.Equal(t, "BaoCaoKhamBenh_01-03-2026_31-03-2026_export_20260401083015.xlsx", name)
}

func TestSniffHTML(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    bool
	}{
		{"doctype", []byte("<!DOCTYPE html><html></html>"), true},
		{"html tag", []byte("<html><body>error</body></html>"), true},
		{"leading whitespace", []byte("\n\t  <HTML>"), true},
		{"bom prefix", []byte("\xef\xbb\xbf<!doctype html>"), true},
		{"xlsx zip magic", []byte("PK\x03\x04rest-of-zip"), false},
		{"plain text", []byte("Kính gửi {{.TenKhoa}}"), false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SniffHTML(tt.payload))
		})
	}
}

func TestRenderTemplate(t *testing.T) {
	raw := []byte("Báo cáo của {{.TenKhoa}}: {{.TongLuot}} lượt khám")
	out, err := RenderTemplate(raw, map[string]interface{}{
		"TenKhoa":  "Khoa Nội",
		"TongLuot": 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "Báo cáo của Khoa Nội: 30 lượt khám", string(out))
}

func TestRenderTemplateEmptyPayload(t *testing.T) {
	_, err := RenderTemplate(nil, nil)
	assert.ErrorIs(t, err, ErrNoTemplate)
}

func TestRenderTemplateHTMLPayload(t *testing.T) {
	_, err := RenderTemplate([]byte("<!DOCTYPE html><html>502 Bad Gateway</html>"), nil)
	assert.ErrorIs(t, err, ErrHTMLPayload)
}

func TestRenderTemplateParseError(t *testing.T) {
	_, err := RenderTemplate([]byte("{{.Unclosed"), nil)
	assert.Error(t, err)
}

func TestWorkbookRoundTrip(t *testing.T) {
	rows := []models.FlatRow{
		{NgayKham: "2026-03-01", TenBacSi: "BS. An", SoLuotKham: 10},
		{NgayKham: "2026-03-02", TenBacSi: "", SoLuotKham: 20},
	}
	recs := Rows(rows, testColumns)

	blob, err := Workbook("Kham benh", testColumns, recs)
	require.NoError(t, err)
	assert.False(t, SniffHTML(blob))

	f, err := excelize.OpenReader(bytes.NewReader(blob))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Kham benh", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Ngày khám", header)

	doctor, err := f.GetCellValue("Kham benh", "B3")
	require.NoError(t, err)
	assert.Equal(t, utils.FallbackLabel, doctor)

	visits, err := f.GetCellValue("Kham benh", "C2")
	require.NoError(t, err)
	assert.Equal(t, "10", visits)
}
