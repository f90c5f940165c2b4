package snapshot_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/models"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/snapshot"
)

func testSnapshot(period models.Period, totalCases int) models.MetricsSnapshot {
	return models.MetricsSnapshot{
		ID:              string(period) + "-snap",
		Period:          period,
		ComputedAt:      now,
		TotalCasesCount: totalCases,
		AgencyStats:     map[string]models.AgencyStat{"hse": {CaseCount: totalCases}},
		CalculatedBy:    models.ActorAdmin,
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		st := snapshot.NewMemoryStore()
		snaps, err := st.GetCurrent(ctx)
		require.NoError(t, err)
		assert.Empty(t, snaps)

		_, err = st.Get(ctx, models.PeriodWeek)
		assert.ErrorIs(t, err, snapshot.ErrNotFound)
	})

	t.Run("replace swaps the whole row", func(t *testing.T) {
		st := snapshot.NewMemoryStore()
		require.NoError(t, st.Replace(ctx, models.PeriodWeek, testSnapshot(models.PeriodWeek, 1)))
		require.NoError(t, st.Replace(ctx, models.PeriodWeek, testSnapshot(models.PeriodWeek, 9)))

		got, err := st.Get(ctx, models.PeriodWeek)
		require.NoError(t, err)
		assert.Equal(t, 9, got.TotalCasesCount)

		snaps, err := st.GetCurrent(ctx)
		require.NoError(t, err)
		assert.Len(t, snaps, 1, "replace must not accumulate history")
	})

	t.Run("periods are independent", func(t *testing.T) {
		st := snapshot.NewMemoryStore()
		require.NoError(t, st.Replace(ctx, models.PeriodMonth, testSnapshot(models.PeriodMonth, 4)))

		_, err := st.Get(ctx, models.PeriodWeek)
		assert.ErrorIs(t, err, snapshot.ErrNotFound)

		got, err := st.Get(ctx, models.PeriodMonth)
		require.NoError(t, err)
		assert.Equal(t, 4, got.TotalCasesCount)
	})

	t.Run("returned snapshots are isolated from the store", func(t *testing.T) {
		st := snapshot.NewMemoryStore()
		require.NoError(t, st.Replace(ctx, models.PeriodYear, testSnapshot(models.PeriodYear, 2)))

		got, err := st.Get(ctx, models.PeriodYear)
		require.NoError(t, err)
		got.AgencyStats["hse"] = models.AgencyStat{CaseCount: 99}

		again, err := st.Get(ctx, models.PeriodYear)
		require.NoError(t, err)
		assert.Equal(t, 2, again.AgencyStats["hse"].CaseCount)
	})
}

func TestMemoryStoreConcurrentReplace(t *testing.T) {
	st := snapshot.NewMemoryStore()
	ctx := context.Background()

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			snap := testSnapshot(models.PeriodWeek, i)
			snap.ComputedAt = time.Now()
			assert.NoError(t, st.Replace(ctx, models.PeriodWeek, snap))
		}()
	}
	wg.Wait()

	got, err := st.Get(ctx, models.PeriodWeek)
	require.NoError(t, err)
	// Last-completed-write-wins; the row must be internally consistent.
	assert.Equal(t, got.TotalCasesCount, got.AgencyStats["hse"].CaseCount)
}
