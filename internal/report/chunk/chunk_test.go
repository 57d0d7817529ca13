package chunk

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benhvien-dev/baocao-backend/internal/report/aggregate"
	"github.com/benhvien-dev/baocao-backend/internal/report/models"
	"github.com/benhvien-dev/baocao-backend/pkg/utils"
)

func makeRecords(n int) []models.DailyRecord {
	recs := make([]models.DailyRecord, 0, n)
	for i := 0; i < n; i++ {
		recs = append(recs, models.DailyRecord{
			Ngay: fmt.Sprintf("2026-03-%02d", i%28+1),
			ChuyenKhoaKham: []models.CategoryDetail{
				{
					TenChuyenKhoa: fmt.Sprintf("Khoa %d", i%5),
					TenBacSi:      fmt.Sprintf("BS %d", i%7),
					SoLuotKham:    i%11 + 1,
					SoBnMoi:       i % 3,
					SoBnTaiKham:   i % 4,
				},
			},
		})
	}
	return recs
}

func TestProcessMatchesSinglePassForAnyChunkSize(t *testing.T) {
	recs := makeRecords(53)
	want := aggregate.Aggregate(recs, utils.GranularityDay, 6.5)

	for _, size := range []int{1, 2, 3, 7, 53, 200} {
		got, err := Process(context.Background(), recs, size, utils.GranularityDay, 6.5, nil)
		require.NoError(t, err, "chunk size %d", size)
		assert.Equal(t, want, got, "chunk size %d", size)
	}
}

func TestProcessReportsProgressInOrder(t *testing.T) {
	recs := makeRecords(25)

	var done []int
	var total []int
	_, err := Process(context.Background(), recs, 10, utils.GranularityDay, 6.5, func(d, tot int) {
		done = append(done, d)
		total = append(total, tot)
	})
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20, 25}, done)
	assert.Equal(t, []int{25, 25, 25}, total)
}

func TestProcessCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Process(ctx, makeRecords(10), 3, utils.GranularityDay, 6.5, nil)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessCancelledMidSequenceExposesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	res, err := Process(ctx, makeRecords(30), 10, utils.GranularityDay, 6.5, func(d, tot int) {
		calls++
		if d >= 10 {
			cancel()
		}
	})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
	// lô đã bắt đầu luôn chạy xong; việc hủy có hiệu lực ở ranh giới lô
	assert.Equal(t, 1, calls)
}

func TestProcessEmptyInput(t *testing.T) {
	res, err := Process(context.Background(), nil, 0, utils.GranularityDay, 6.5, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Totals.SoLuotKham)
	assert.Empty(t, res.Rows)
}

func TestProcessDuplicateDateKeysSumAcrossChunks(t *testing.T) {
	// hai bản ghi cùng ngày rơi vào hai lô khác nhau vẫn phải cộng dồn
	recs := []models.DailyRecord{
		{Ngay: "2026-03-01", SoLuotKhamTong: 3},
		{Ngay: "2026-03-01", SoLuotKhamTong: 4},
	}

	res, err := Process(context.Background(), recs, 1, utils.GranularityDay, 6.5, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, res.DateBuckets["2026-03-01"].SoLuotKham)
}
