package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/benhvien-dev/baocao-backend/internal/report/aggregate"
	"github.com/benhvien-dev/baocao-backend/internal/report/chunk"
	"github.com/benhvien-dev/baocao-backend/internal/report/export"
	"github.com/benhvien-dev/baocao-backend/internal/report/models"
	"github.com/benhvien-dev/baocao-backend/internal/report/projection"
)

// Broadcaster nhận các sự kiện tiến độ tổng hợp; ws.Hub thỏa interface này.
type Broadcaster interface {
	Broadcast(message []byte)
}

type inflightRun struct {
	cancel context.CancelFunc
}

// ReportService chạy pipeline báo cáo: truy vấn bản ghi theo khoảng ngày,
// tổng hợp theo lô, chiếu ra widget/series/bảng. Mỗi loại báo cáo chỉ có một
// lần tải đang chạy: lần tải mới hủy lần trước qua context của nó.
type ReportService struct {
	DB        *sql.DB
	Divisor   float64
	ChunkSize int
	Hub       Broadcaster // có thể nil

	mu          sync.Mutex
	inflight    map[string]*inflightRun
	lastResults map[string]*aggregate.Result
}

func NewReportService(db *sql.DB, divisor float64, chunkSize int, hub Broadcaster) *ReportService {
	return &ReportService{
		DB:          db,
		Divisor:     divisor,
		ChunkSize:   chunkSize,
		Hub:         hub,
		inflight:    make(map[string]*inflightRun),
		lastResults: make(map[string]*aggregate.Result),
	}
}

// Load chạy một lần tải báo cáo trọn vẹn. Lần tải trước của cùng loại (nếu
// còn chạy) bị hủy trước khi bắt đầu; kết quả hoàn chỉnh mới được lưu lại
// cho đường "chỉ vẽ lại màu", kết quả dở dang thì không bao giờ lộ ra.
func (s *ReportService) Load(ctx context.Context, kind ReportKind, from, to time.Time, granularity string) (*models.ReportData, error) {
	runCtx, run := s.supersede(ctx, kind.ID)
	defer s.finish(kind.ID, run)

	records, err := s.queryRecords(runCtx, kind, from, to, granularity)
	if err != nil {
		// Truy vấn vỡ vì bị hủy (lần tải mới thay thế) thì không phải lỗi
		// dữ liệu: giữ nguyên kết quả đã có, chỉ lỗi đọc thật mới xóa.
		if runCtx.Err() == nil {
			s.clearResult(kind.ID)
		}
		return nil, err
	}

	res, err := chunk.Process(runCtx, records, s.ChunkSize, granularity, s.Divisor, s.progressFunc(kind.ID))
	if err != nil {
		// Hủy không phải lỗi dữ liệu: giữ nguyên kết quả đã có,
		// caller thoát im lặng.
		if runCtx.Err() == nil {
			s.clearResult(kind.ID)
		}
		return nil, err
	}

	s.storeResult(kind.ID, run, res)
	return projection.Project(res, projection.DefaultPalette), nil
}

// Repaint chiếu lại kết quả đã tổng hợp gần nhất với palette khác, không
// chạy lại vòng fold. Trả về false khi chưa có kết quả nào.
func (s *ReportService) Repaint(kindID string, pal projection.Palette) (*models.ReportData, bool) {
	s.mu.Lock()
	res := s.lastResults[kindID]
	s.mu.Unlock()
	if res == nil {
		return nil, false
	}
	return projection.Project(res, pal), true
}

// Export tải và tổng hợp lại dữ liệu rồi dựng file Excel. Không chen vào
// lần tải đang chạy của view: xuất là một lượt đọc độc lập.
func (s *ReportService) Export(ctx context.Context, kind ReportKind, from, to time.Time, granularity string) (string, []byte, error) {
	records, err := s.queryRecords(ctx, kind, from, to, granularity)
	if err != nil {
		return "", nil, err
	}

	res := aggregate.Aggregate(records, granularity, s.Divisor)
	recs := export.Rows(res.Rows, kind.Columns)
	blob, err := export.Workbook(kind.Sheet, kind.Columns, recs)
	if err != nil {
		return "", nil, err
	}

	return export.Filename(kind.Name, from, to, time.Now()), blob, nil
}

// supersede hủy lần chạy đang dở của kindID (nếu có) và đăng ký lần mới.
func (s *ReportService) supersede(ctx context.Context, kindID string) (context.Context, *inflightRun) {
	runCtx, cancel := context.WithCancel(ctx)
	run := &inflightRun{cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.inflight[kindID]; ok {
		prev.cancel()
	}
	s.inflight[kindID] = run
	s.mu.Unlock()

	return runCtx, run
}

func (s *ReportService) finish(kindID string, run *inflightRun) {
	s.mu.Lock()
	if s.inflight[kindID] == run {
		delete(s.inflight, kindID)
	}
	s.mu.Unlock()
	run.cancel()
}

// storeResult lưu kết quả của run nếu nó vẫn là lần chạy hiện hành của
// kindID; run đã bị thay thế không được đè lên kết quả của lần mới hơn.
func (s *ReportService) storeResult(kindID string, run *inflightRun, res *aggregate.Result) {
	s.mu.Lock()
	if s.inflight[kindID] == run {
		s.lastResults[kindID] = res
	}
	s.mu.Unlock()
}

// clearResult xóa kết quả cũ sau một lần tải lỗi, để UI về trạng thái rỗng
// thay vì hiển thị dữ liệu cũ.
func (s *ReportService) clearResult(kindID string) {
	s.mu.Lock()
	delete(s.lastResults, kindID)
	s.mu.Unlock()
}

func (s *ReportService) progressFunc(kindID string) func(done, total int) {
	if s.Hub == nil {
		return nil
	}
	return func(done, total int) {
		msg, err := json.Marshal(models.Progress{Report: kindID, Done: done, Total: total})
		if err != nil {
			return
		}
		s.Hub.Broadcast(msg)
	}
}

// queryRecords đọc các dòng (ngày, nhóm, bác sĩ, số đếm) đã GROUP BY từ
// MariaDB và gom dòng liên tiếp cùng ngày thành DailyRecord.
func (s *ReportService) queryRecords(ctx context.Context, kind ReportKind, from, to time.Time, granularity string) ([]models.DailyRecord, error) {
	// mở rộng mốc cuối tới hết ngày
	end := to.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	rows, err := s.DB.QueryContext(ctx, kind.Query(granularity), from, end)
	if err != nil {
		log.Printf("report %s: query failed: %v", kind.ID, err)
		return nil, err
	}
	defer rows.Close()

	var (
		records []models.DailyRecord
		cur     *models.DailyRecord
	)
	for rows.Next() {
		var (
			ngay, nhom, bacSi  sql.NullString
			luot, moi, taiKham sql.NullInt64
		)
		if err := rows.Scan(&ngay, &nhom, &bacSi, &luot, &moi, &taiKham); err != nil {
			return nil, err
		}

		if cur == nil || cur.Ngay != ngay.String {
			records = append(records, models.DailyRecord{Ngay: ngay.String})
			cur = &records[len(records)-1]
		}

		d := models.CategoryDetail{
			TenChuyenKhoa: nhom.String,
			TenBacSi:      bacSi.String,
			SoLuotKham:    int(luot.Int64),
			SoBnMoi:       int(moi.Int64),
			SoBnTaiKham:   int(taiKham.Int64),
		}
		cur.ChuyenKhoaKham = append(cur.ChuyenKhoaKham, d)
		cur.SoLuotKhamTong += d.SoLuotKham
		cur.SoBenhNhanTong += d.SoBnMoi + d.SoBnTaiKham
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
