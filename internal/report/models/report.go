package models

// DateBucket accumulates per-date sums.
type DateBucket struct {
	SoLuotKham int `json:"so_luot_kham"`
	SoBenhNhan int `json:"so_benh_nhan"`
}

// Totals là tổng toàn kỳ của một báo cáo.
type Totals struct {
	SoLuotKham  int `json:"so_luot_kham"`
	SoBnMoi     int `json:"so_bn_moi"`
	SoBnTaiKham int `json:"so_bn_tai_kham"`
	SoBenhNhan  int `json:"so_benh_nhan"`
}

// WidgetSummary is one summary card on the dashboard.
type WidgetSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Value   string `json:"value"`
	Caption string `json:"caption"`
	Color   string `json:"color"`
}

// SeriesPoint is one (label, value) pair of a chart series.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ReportData is the full payload for one report view.
type ReportData struct {
	Widgets         []WidgetSummary `json:"widgets"`
	DateSeries      []SeriesPoint   `json:"date_series"`
	TrendLine       []SeriesPoint   `json:"trend_line"`
	SpecialtySeries []SeriesPoint   `json:"specialty_series"`
	DoctorSeries    []SeriesPoint   `json:"doctor_series"`
	Rows            []FlatRow       `json:"rows"`
}

// Progress là sự kiện tiến độ tổng hợp đẩy qua websocket.
type Progress struct {
	Report string `json:"report"`
	Done   int    `json:"done"`
	Total  int    `json:"total"`
}
