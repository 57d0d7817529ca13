package utils

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Granularity của kỳ báo cáo.
const (
	GranularityDay   = "day"
	GranularityMonth = "month"
)

// UnknownDateKey is the bucket key for records whose date cannot be parsed.
const UnknownDateKey = "unknown"

// FallbackLabel thay cho tên chuyên khoa/bác sĩ bị thiếu,
// để khóa bucket luôn ổn định và bảng không có ô trống.
const FallbackLabel = "Chưa xác định"

const (
	dayKeyLayout   = "2006-01-02"
	monthKeyLayout = "2006-01"
	dayDisplay     = "02/01/2006"
	monthDisplay   = "01/2006"
)

// Các định dạng ngày backend có thể trả về.
var inputLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	dayKeyLayout,
	monthKeyLayout,
	dayDisplay,
}

// ParseDateKey normalizes a raw date value to a bucket key: YYYY-MM-DD for
// day granularity, YYYY-MM for month. Empty or unparseable input yields
// UnknownDateKey so aggregation never fails on a bad row.
func ParseDateKey(raw string, granularity string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UnknownDateKey
	}
	for _, layout := range inputLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return DateKey(t, granularity)
	}
	return UnknownDateKey
}

// DateKey truncates t to the bucket key for the given granularity.
func DateKey(t time.Time, granularity string) string {
	if granularity == GranularityMonth {
		return t.Format(monthKeyLayout)
	}
	return t.Format(dayKeyLayout)
}

// FormatDateDisplay renders a bucket key for the table and export:
// dd/MM/yyyy for day keys, MM/yyyy for month keys.
func FormatDateDisplay(key string) string {
	if t, err := time.Parse(dayKeyLayout, key); err == nil {
		return t.Format(dayDisplay)
	}
	if t, err := time.Parse(monthKeyLayout, key); err == nil {
		return t.Format(monthDisplay)
	}
	return FallbackLabel
}

// FormatNumber renders v with the given number of decimals.
func FormatNumber(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// FormatPercent renders v as a percentage with one decimal, e.g. "63.3%".
func FormatPercent(v float64) string {
	return FormatNumber(v, 1) + "%"
}

// Round2 làm tròn 2 chữ số thập phân.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
