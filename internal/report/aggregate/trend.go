package aggregate

import (
	"sort"

	"github.com/benhvien-dev/baocao-backend/internal/report/models"
	"github.com/benhvien-dev/baocao-backend/pkg/utils"
)

// TrendLine fits an ordinary least-squares line over the chronologically
// sorted date-bucket visit counts, with the index position as x. It returns
// one fitted point per date, rounded to 2 decimals. Fewer than 2 points
// yields no trend. The "unknown" sentinel bucket has no position on the time
// axis and is excluded.
func TrendLine(buckets map[string]models.DateBucket) []models.SeriesPoint {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		if k == utils.UnknownDateKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := len(keys)
	if n < 2 {
		return nil
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, k := range keys {
		x := float64(i)
		y := float64(buckets[k].SoLuotKham)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	// x values are distinct indices, so denom > 0 whenever n >= 2.
	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn

	points := make([]models.SeriesPoint, n)
	for i, k := range keys {
		points[i] = models.SeriesPoint{
			Label: utils.FormatDateDisplay(k),
			Value: utils.Round2(intercept + slope*float64(i)),
		}
	}
	return points
}
