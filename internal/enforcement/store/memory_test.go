package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/models"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/store"
)

var today = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }
func fine(v float64) *float64        { return &v }

func seeded() *store.MemoryReader {
	r := store.NewMemoryReader()
	r.Seed(
		[]models.Case{
			{RegulatorID: "C1", AgencyCode: "hse", ActionDate: datePtr(today.AddDate(0, 0, -3)), FineAmount: fine(25000), ActionType: "Court Case"},
			{RegulatorID: "C2", AgencyCode: "ea", ActionDate: datePtr(today.AddDate(0, 0, -40)), FineAmount: fine(45000)},
			{RegulatorID: "C3", AgencyCode: "hse"},
		},
		[]models.Notice{
			{RegulatorID: "N1", AgencyCode: "hse", ActionType: "Improvement Notice", NoticeDate: datePtr(today.AddDate(0, 0, -2))},
			{RegulatorID: "N2", AgencyCode: "ea", NoticeDate: datePtr(today.AddDate(0, 0, -100))},
		},
	)
	return r
}

func TestMemoryReaderFilters(t *testing.T) {
	r := seeded()
	ctx := context.Background()

	t.Run("agency filter", func(t *testing.T) {
		cases, err := r.Cases(ctx, store.Filter{AgencyCode: "hse"})
		require.NoError(t, err)
		assert.Len(t, cases, 2)
	})

	t.Run("action type filter", func(t *testing.T) {
		notices, err := r.Notices(ctx, store.Filter{ActionType: "Improvement Notice"})
		require.NoError(t, err)
		require.Len(t, notices, 1)
		assert.Equal(t, "N1", notices[0].RegulatorID)
	})

	t.Run("date window excludes undated rows", func(t *testing.T) {
		from := today.AddDate(0, 0, -7)
		cases, err := r.Cases(ctx, store.Filter{From: &from, To: &today})
		require.NoError(t, err)
		require.Len(t, cases, 1)
		assert.Equal(t, "C1", cases[0].RegulatorID)
	})

	t.Run("unbounded filter includes undated rows", func(t *testing.T) {
		cases, err := r.Cases(ctx, store.Filter{})
		require.NoError(t, err)
		assert.Len(t, cases, 3)
	})
}

func TestMemoryReaderCounts(t *testing.T) {
	r := seeded()
	ctx := context.Background()

	total, err := r.CountCases(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	weekAgo := today.AddDate(0, 0, -7)
	recent, err := r.CountCases(ctx, &weekAgo)
	require.NoError(t, err)
	assert.Equal(t, 1, recent)

	recentNotices, err := r.CountNotices(ctx, &weekAgo)
	require.NoError(t, err)
	assert.Equal(t, 1, recentNotices)
}

func TestMemoryReaderAgencyStats(t *testing.T) {
	r := seeded()

	stats, err := r.AgencyStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.AgencyStat{CaseCount: 2, NoticeCount: 1, TotalFines: 25000}, stats["hse"])
	assert.Equal(t, models.AgencyStat{CaseCount: 1, NoticeCount: 1, TotalFines: 45000}, stats["ea"])
}
