package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benhvien-dev/baocao-backend/internal/report/aggregate"
	"github.com/benhvien-dev/baocao-backend/internal/report/models"
	"github.com/benhvien-dev/baocao-backend/internal/report/projection"
	"github.com/benhvien-dev/baocao-backend/pkg/utils"
)

// seedResult nạp sẵn một kết quả hoàn chỉnh, như sau một lần tải thành công.
func seedResult(s *ReportService, kindID string, res *aggregate.Result) {
	s.mu.Lock()
	s.lastResults[kindID] = res
	s.mu.Unlock()
}

func TestRepaintWithoutLoadedResult(t *testing.T) {
	s := NewReportService(nil, 6.5, 200, nil)
	_, ok := s.Repaint("kham-benh", projection.DefaultPalette)
	assert.False(t, ok)
}

func TestRepaintUsesCachedResult(t *testing.T) {
	s := NewReportService(nil, 6.5, 200, nil)

	res := aggregate.Aggregate([]models.DailyRecord{
		{
			Ngay: "2026-03-01",
			ChuyenKhoaKham: []models.CategoryDetail{
				{TenChuyenKhoa: "Nội", TenBacSi: "BS. An", SoLuotKham: 10, SoBnMoi: 6, SoBnTaiKham: 4},
			},
		},
	}, utils.GranularityDay, 6.5)
	seedResult(s, "kham-benh", res)

	light, ok := s.Repaint("kham-benh", projection.DefaultPalette)
	require.True(t, ok)
	dark, ok := s.Repaint("kham-benh", projection.DarkPalette)
	require.True(t, ok)

	// chỉ đổi màu, số liệu giữ nguyên, không chạy lại vòng tổng hợp
	require.Len(t, light.Widgets, 4)
	for i := range light.Widgets {
		assert.Equal(t, light.Widgets[i].Value, dark.Widgets[i].Value)
		assert.NotEqual(t, light.Widgets[i].Color, dark.Widgets[i].Color)
	}
	assert.Equal(t, light.Rows, dark.Rows)
}

func TestClearResultResetsRepaint(t *testing.T) {
	s := NewReportService(nil, 6.5, 200, nil)
	seedResult(s, "icd", aggregate.Aggregate(nil, utils.GranularityDay, 6.5))

	_, ok := s.Repaint("icd", projection.DefaultPalette)
	require.True(t, ok)

	s.clearResult("icd")
	_, ok = s.Repaint("icd", projection.DefaultPalette)
	assert.False(t, ok)
}

func TestSupersedeCancelsPreviousRun(t *testing.T) {
	s := NewReportService(nil, 6.5, 200, nil)

	ctx1, run1 := s.supersede(context.Background(), "kham-benh")
	require.NoError(t, ctx1.Err())

	// lần tải mới hủy lần trước của cùng loại báo cáo
	ctx2, run2 := s.supersede(context.Background(), "kham-benh")
	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	require.NoError(t, ctx2.Err())

	// finish của lần cũ không gỡ lần mới khỏi bảng đang chạy
	s.finish("kham-benh", run1)
	s.mu.Lock()
	assert.Equal(t, run2, s.inflight["kham-benh"])
	s.mu.Unlock()

	s.finish("kham-benh", run2)
	s.mu.Lock()
	assert.NotContains(t, s.inflight, "kham-benh")
	s.mu.Unlock()
}

func TestSupersedeIsPerKind(t *testing.T) {
	s := NewReportService(nil, 6.5, 200, nil)

	ctxKham, _ := s.supersede(context.Background(), "kham-benh")
	ctxICD, _ := s.supersede(context.Background(), "icd")

	assert.NoError(t, ctxKham.Err())
	assert.NoError(t, ctxICD.Err())
}

type captureHub struct {
	messages [][]byte
}

func (h *captureHub) Broadcast(msg []byte) {
	h.messages = append(h.messages, msg)
}

func TestProgressFuncBroadcastsJSON(t *testing.T) {
	hub := &captureHub{}
	s := NewReportService(nil, 6.5, 200, hub)

	fn := s.progressFunc("kham-benh")
	require.NotNil(t, fn)
	fn(200, 450)

	require.Len(t, hub.messages, 1)
	var p models.Progress
	require.NoError(t, json.Unmarshal(hub.messages[0], &p))
	assert.Equal(t, models.Progress{Report: "kham-benh", Done: 200, Total: 450}, p)
}

func TestProgressFuncNilWithoutHub(t *testing.T) {
	s := NewReportService(nil, 6.5, 200, nil)
	assert.Nil(t, s.progressFunc("kham-benh"))
}

func TestStoreResultIgnoresSupersededRun(t *testing.T) {
	s := NewReportService(nil, 6.5, 200, nil)

	_, stale := s.supersede(context.Background(), "icd")
	_, current := s.supersede(context.Background(), "icd")
	defer s.finish("icd", current)
	defer s.finish("icd", stale)

	// run đã bị thay thế về đích muộn: kết quả của nó không được ghi
	s.storeResult("icd", stale, aggregate.Aggregate(nil, utils.GranularityDay, 6.5))
	_, ok := s.Repaint("icd", projection.DefaultPalette)
	assert.False(t, ok)

	s.storeResult("icd", current, aggregate.Aggregate(nil, utils.GranularityDay, 6.5))
	_, ok = s.Repaint("icd", projection.DefaultPalette)
	assert.True(t, ok)
}

func sampleRange(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
}

func TestQueryRecordsFoldsConsecutiveRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	kind, ok := KindByID("kham-benh")
	require.True(t, ok)
	from, to := sampleRange(t)

	// mốc cuối mở rộng tới hết ngày, cột nhóm/bác sĩ có thể NULL
	mock.ExpectQuery("SELECT").
		WithArgs(from, to.Add(23*time.Hour+59*time.Minute+59*time.Second)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"ngay", "nhom", "bac_si", "luot", "moi", "tai_kham"}).
			AddRow("2026-03-01", "Nội", "BS. An", 10, 6, 4).
			AddRow("2026-03-01", "Ngoại", nil, 5, 2, 3).
			AddRow("2026-03-02", nil, "BS. Bình", 7, 7, 0))

	s := NewReportService(db, 6.5, 200, nil)
	recs, err := s.queryRecords(context.Background(), kind, from, to, utils.GranularityDay)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, "2026-03-01", recs[0].Ngay)
	assert.Equal(t, 15, recs[0].SoLuotKhamTong)
	assert.Equal(t, 15, recs[0].SoBenhNhanTong)
	require.Len(t, recs[0].ChuyenKhoaKham, 2)
	// NULL giữ nguyên chuỗi rỗng ở đây, nhãn thay thế gắn ở tầng tổng hợp
	assert.Equal(t, "", recs[0].ChuyenKhoaKham[1].TenBacSi)

	assert.Equal(t, "2026-03-02", recs[1].Ngay)
	assert.Equal(t, 7, recs[1].SoLuotKhamTong)
	assert.Equal(t, 7, recs[1].SoBenhNhanTong)
	require.Len(t, recs[1].ChuyenKhoaKham, 1)
	assert.Equal(t, "", recs[1].ChuyenKhoaKham[0].TenChuyenKhoa)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadAggregatesQueriedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(
		[]string{"ngay", "nhom", "bac_si", "luot", "moi", "tai_kham"}).
		AddRow("2026-03-01", "Nội", "BS. An", 10, 6, 4).
		AddRow("2026-03-01", "Ngoại", nil, 5, 2, 3).
		AddRow("2026-03-02", nil, "BS. Bình", 7, 7, 0))

	s := NewReportService(db, 6.5, 200, nil)
	kind, ok := KindByID("kham-benh")
	require.True(t, ok)
	from, to := sampleRange(t)

	data, err := s.Load(context.Background(), kind, from, to, utils.GranularityDay)
	require.NoError(t, err)

	want := projection.Project(aggregate.Aggregate([]models.DailyRecord{
		{
			Ngay:           "2026-03-01",
			SoLuotKhamTong: 15,
			SoBenhNhanTong: 15,
			ChuyenKhoaKham: []models.CategoryDetail{
				{TenChuyenKhoa: "Nội", TenBacSi: "BS. An", SoLuotKham: 10, SoBnMoi: 6, SoBnTaiKham: 4},
				{TenChuyenKhoa: "Ngoại", SoLuotKham: 5, SoBnMoi: 2, SoBnTaiKham: 3},
			},
		},
		{
			Ngay:           "2026-03-02",
			SoLuotKhamTong: 7,
			SoBenhNhanTong: 7,
			ChuyenKhoaKham: []models.CategoryDetail{
				{TenBacSi: "BS. Bình", SoLuotKham: 7, SoBnMoi: 7},
			},
		},
	}, utils.GranularityDay, 6.5), projection.DefaultPalette)
	assert.Equal(t, want, data)

	// lần tải xong phải nuôi được đường "chỉ vẽ lại màu"
	_, ok = s.Repaint(kind.ID, projection.DarkPalette)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCancelledFetchKeepsPreviousResult(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewReportService(db, 6.5, 200, nil)
	kind, ok := KindByID("kham-benh")
	require.True(t, ok)
	seedResult(s, kind.ID, aggregate.Aggregate([]models.DailyRecord{
		{Ngay: "2026-03-01", SoLuotKhamTong: 3, SoBenhNhanTong: 3},
	}, utils.GranularityDay, 6.5))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	from, to := sampleRange(t)
	_, err = s.Load(ctx, kind, from, to, utils.GranularityDay)
	require.ErrorIs(t, err, context.Canceled)

	// truy vấn vỡ vì hủy không được xóa kết quả hoàn chỉnh trước đó
	_, ok = s.Repaint(kind.ID, projection.DefaultPalette)
	assert.True(t, ok)
}

func TestLoadFetchFailureClearsPreviousResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("mat ket noi"))

	s := NewReportService(db, 6.5, 200, nil)
	kind, ok := KindByID("kham-benh")
	require.True(t, ok)
	seedResult(s, kind.ID, aggregate.Aggregate(nil, utils.GranularityDay, 6.5))

	from, to := sampleRange(t)
	_, err = s.Load(context.Background(), kind, from, to, utils.GranularityDay)
	require.Error(t, err)

	// lỗi đọc thật thì UI về trạng thái rỗng
	_, ok = s.Repaint(kind.ID, projection.DefaultPalette)
	assert.False(t, ok)
}
