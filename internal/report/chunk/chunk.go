// Package chunk runs an aggregation in fixed-size batches with cooperative
// yields, so a long fold never monopolizes the scheduler and can be
// cancelled between batches when the consuming view goes away.
package chunk

import (
	"context"
	"runtime"

	"github.com/benhvien-dev/baocao-backend/internal/report/aggregate"
	"github.com/benhvien-dev/baocao-backend/internal/report/models"
)

// DefaultSize là số bản ghi mỗi lô.
const DefaultSize = 200

// Process folds recs through an accumulator in slices of size records,
// checking ctx before each slice and yielding between slices. onChunk (may
// be nil) reports progress after each slice as (records done, total).
//
// Cancellation is cooperative: a slice already started always completes, and
// a cancelled run returns ctx.Err() with no result, leaving nothing partial
// for the caller to observe. For any size >= 1 the result is identical to a
// single-pass aggregate over the same records.
func Process(ctx context.Context, recs []models.DailyRecord, size int, granularity string, divisor float64, onChunk func(done, total int)) (*aggregate.Result, error) {
	if size <= 0 {
		size = DefaultSize
	}

	acc := aggregate.NewAccumulator(granularity, divisor)
	total := len(recs)

	for start := 0; start < total; start += size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + size
		if end > total {
			end = total
		}
		acc.AddAll(recs[start:end])

		if onChunk != nil {
			onChunk(end, total)
		}

		// Yield between batches so other goroutines (spinner pushes,
		// request handling) are not starved during a large fold.
		runtime.Gosched()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return acc.Result(), nil
}
