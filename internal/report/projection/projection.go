// Package projection maps aggregation results into widget cards and chart
// series. Every function is a pure mapping over its inputs: a theme change
// re-projects the cached result with a new palette instead of re-running the
// fold.
package projection

import (
	"fmt"
	"sort"

	"github.com/benhvien-dev/baocao-backend/internal/report/aggregate"
	"github.com/benhvien-dev/baocao-backend/internal/report/models"
	"github.com/benhvien-dev/baocao-backend/pkg/utils"
)

// DefaultTopN là số mục tối đa của biểu đồ theo nhóm.
const DefaultTopN = 10

// Palette holds the accent colors for the four widget cards.
type Palette struct {
	Primary string
	Success string
	Warning string
	Info    string
}

var DefaultPalette = Palette{
	Primary: "#1890ff",
	Success: "#52c41a",
	Warning: "#faad14",
	Info:    "#13c2c2",
}

// DarkPalette dùng khi dashboard bật theme tối.
var DarkPalette = Palette{
	Primary: "#177ddc",
	Success: "#49aa19",
	Warning: "#d89614",
	Info:    "#13a8a8",
}

// Widgets builds the four summary cards of a report.
func Widgets(res *aggregate.Result, pal Palette) []models.WidgetSummary {
	return []models.WidgetSummary{
		{
			ID:    "tong_luot_kham",
			Title: "Tổng lượt khám",
			Value: fmt.Sprintf("%d", res.Totals.SoLuotKham),
			Caption: fmt.Sprintf("%d bệnh nhân trong kỳ",
				res.Totals.SoBenhNhan),
			Color: pal.Primary,
		},
		{
			ID:      "benh_nhan_moi",
			Title:   "Bệnh nhân mới",
			Value:   fmt.Sprintf("%d", res.Totals.SoBnMoi),
			Caption: "Khám lần đầu",
			Color:   pal.Success,
		},
		{
			ID:    "ty_le_tai_kham",
			Title: "Tỷ lệ tái khám",
			Value: utils.FormatPercent(res.ReExaminationRate()),
			Caption: fmt.Sprintf("%d lượt tái khám",
				res.Totals.SoBnTaiKham),
			Color: pal.Warning,
		},
		{
			ID:    "binh_quan",
			Title: "Bình quân theo hệ số",
			Value: utils.FormatNumber(res.AverageMetric(), 2),
			Caption: fmt.Sprintf("Hệ số khối lượng %s",
				utils.FormatNumber(res.Divisor, 1)),
			Color: pal.Info,
		},
	}
}

// DateSeries renders the date buckets chronologically; the "unknown"
// sentinel bucket, when present, sorts last.
func DateSeries(buckets map[string]models.DateBucket) []models.SeriesPoint {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == utils.UnknownDateKey {
			return false
		}
		if keys[j] == utils.UnknownDateKey {
			return true
		}
		return keys[i] < keys[j]
	})

	points := make([]models.SeriesPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, models.SeriesPoint{
			Label: utils.FormatDateDisplay(k),
			Value: float64(buckets[k].SoLuotKham),
		})
	}
	return points
}

// CategorySeries sorts a category bucket by value descending, keeps the top
// topN entries and reverses them, so the largest bar renders at the top of a
// horizontal bar chart. Ties break on the label so repeated projections of
// one snapshot are identical. The input map is never mutated.
func CategorySeries(bucket map[string]int, topN int) []models.SeriesPoint {
	if topN <= 0 {
		topN = DefaultTopN
	}

	points := make([]models.SeriesPoint, 0, len(bucket))
	for label, v := range bucket {
		points = append(points, models.SeriesPoint{Label: label, Value: float64(v)})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Value != points[j].Value {
			return points[i].Value > points[j].Value
		}
		return points[i].Label < points[j].Label
	})

	if len(points) > topN {
		points = points[:topN]
	}
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points
}

// Project assembles the full report payload from one aggregation result.
func Project(res *aggregate.Result, pal Palette) *models.ReportData {
	rows := make([]models.FlatRow, len(res.Rows))
	copy(rows, res.Rows)
	return &models.ReportData{
		Widgets:         Widgets(res, pal),
		DateSeries:      DateSeries(res.DateBuckets),
		TrendLine:       aggregate.TrendLine(res.DateBuckets),
		SpecialtySeries: CategorySeries(res.SpecialtyBuckets, DefaultTopN),
		DoctorSeries:    CategorySeries(res.DoctorBuckets, DefaultTopN),
		Rows:            rows,
	}
}
