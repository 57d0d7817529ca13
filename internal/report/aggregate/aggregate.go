// Package aggregate folds daily reporting records into date, specialty and
// doctor buckets plus the flat table rows, in a single pass.
//
// Policy for a record with no specialty breakdown: its totals still count
// toward the date bucket and the global visit total, but it emits no flat
// rows. Repeated date keys always sum, never overwrite. New/returning
// patient totals are derived from the breakdown only, so
// SoBenhNhan == SoBnMoi + SoBnTaiKham holds by construction.
package aggregate

import (
	"github.com/benhvien-dev/baocao-backend/internal/report/models"
	"github.com/benhvien-dev/baocao-backend/pkg/utils"
)

// Accumulator is the running fold state. Not safe for concurrent use; the
// chunked scheduler feeds it from a single goroutine.
type Accumulator struct {
	granularity string
	divisor     float64

	totals           models.Totals
	dateBuckets      map[string]models.DateBucket
	specialtyBuckets map[string]int
	doctorBuckets    map[string]int
	rows             []models.FlatRow
}

func NewAccumulator(granularity string, divisor float64) *Accumulator {
	if divisor <= 0 {
		divisor = 6.5
	}
	return &Accumulator{
		granularity:      granularity,
		divisor:          divisor,
		dateBuckets:      make(map[string]models.DateBucket),
		specialtyBuckets: make(map[string]int),
		doctorBuckets:    make(map[string]int),
	}
}

// Add folds one record. Malformed fields are recovered locally: a missing
// date goes to the "unknown" bucket, missing names get the fallback label,
// and zero-valued counts simply add nothing.
func (a *Accumulator) Add(rec models.DailyRecord) {
	key := utils.ParseDateKey(rec.Ngay, a.granularity)

	if len(rec.ChuyenKhoaKham) == 0 {
		// Detail-less day: counts toward the date bucket and the visit
		// total, emits no flat rows.
		b := a.dateBuckets[key]
		b.SoLuotKham += rec.SoLuotKhamTong
		b.SoBenhNhan += rec.SoBenhNhanTong
		a.dateBuckets[key] = b
		a.totals.SoLuotKham += rec.SoLuotKhamTong
		return
	}

	for _, d := range rec.ChuyenKhoaKham {
		chuyenKhoa := d.TenChuyenKhoa
		if chuyenKhoa == "" {
			chuyenKhoa = utils.FallbackLabel
		}
		bacSi := d.TenBacSi
		if bacSi == "" {
			bacSi = utils.FallbackLabel
		}
		benhNhan := d.SoBnMoi + d.SoBnTaiKham

		b := a.dateBuckets[key]
		b.SoLuotKham += d.SoLuotKham
		b.SoBenhNhan += benhNhan
		a.dateBuckets[key] = b

		a.specialtyBuckets[chuyenKhoa] += d.SoLuotKham
		a.doctorBuckets[bacSi] += d.SoLuotKham

		a.totals.SoLuotKham += d.SoLuotKham
		a.totals.SoBnMoi += d.SoBnMoi
		a.totals.SoBnTaiKham += d.SoBnTaiKham
		a.totals.SoBenhNhan += benhNhan

		a.rows = append(a.rows, models.FlatRow{
			NgayKham:      key,
			TenChuyenKhoa: chuyenKhoa,
			TenBacSi:      bacSi,
			SoLuotKham:    d.SoLuotKham,
			SoBnMoi:       d.SoBnMoi,
			SoBnTaiKham:   d.SoBnTaiKham,
			SoBenhNhan:    benhNhan,
		})
	}
}

// AddAll folds a batch of records.
func (a *Accumulator) AddAll(recs []models.DailyRecord) {
	for _, rec := range recs {
		a.Add(rec)
	}
}

// Result snapshots the fold state. Maps and rows are copied so the snapshot
// stays immutable if the accumulator keeps folding.
func (a *Accumulator) Result() *Result {
	res := &Result{
		Granularity:      a.granularity,
		Divisor:          a.divisor,
		Totals:           a.totals,
		DateBuckets:      make(map[string]models.DateBucket, len(a.dateBuckets)),
		SpecialtyBuckets: make(map[string]int, len(a.specialtyBuckets)),
		DoctorBuckets:    make(map[string]int, len(a.doctorBuckets)),
		Rows:             make([]models.FlatRow, len(a.rows)),
	}
	for k, v := range a.dateBuckets {
		res.DateBuckets[k] = v
	}
	for k, v := range a.specialtyBuckets {
		res.SpecialtyBuckets[k] = v
	}
	for k, v := range a.doctorBuckets {
		res.DoctorBuckets[k] = v
	}
	copy(res.Rows, a.rows)
	return res
}

// Result is a completed aggregation.
type Result struct {
	Granularity      string
	Divisor          float64
	Totals           models.Totals
	DateBuckets      map[string]models.DateBucket
	SpecialtyBuckets map[string]int
	DoctorBuckets    map[string]int
	Rows             []models.FlatRow
}

// AverageMetric quy đổi tổng lượt khám theo hệ số khối lượng công việc,
// làm tròn 2 chữ số.
func (r *Result) AverageMetric() float64 {
	return utils.Round2(float64(r.Totals.SoLuotKham) / r.Divisor)
}

// ReExaminationRate là tỷ lệ tái khám (%); bằng 0 khi chưa có lượt khám.
func (r *Result) ReExaminationRate() float64 {
	if r.Totals.SoLuotKham == 0 {
		return 0
	}
	return float64(r.Totals.SoBnTaiKham) / float64(r.Totals.SoLuotKham) * 100
}

// Aggregate runs a full single-pass fold. The chunked scheduler produces the
// same result for any chunk size.
func Aggregate(recs []models.DailyRecord, granularity string, divisor float64) *Result {
	acc := NewAccumulator(granularity, divisor)
	acc.AddAll(recs)
	return acc.Result()
}
