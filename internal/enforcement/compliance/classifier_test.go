package compliance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/compliance"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/models"
)

var today = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func noticeDueIn(days int) models.Notice {
	return models.Notice{
		RegulatorID:    "N100",
		ActionType:     "Improvement Notice",
		ComplianceDate: datePtr(today.AddDate(0, 0, days)),
	}
}

func TestClassify(t *testing.T) {
	c := compliance.New()

	t.Run("thirty days out is pending", func(t *testing.T) {
		status := c.Classify(today, noticeDueIn(30))
		assert.Equal(t, models.StatusPending, status.Level)
		assert.Equal(t, 30, status.DaysRemaining)
		assert.Zero(t, status.DaysOverdue)
	})

	t.Run("three days out is urgent", func(t *testing.T) {
		status := c.Classify(today, noticeDueIn(3))
		assert.Equal(t, models.StatusUrgent, status.Level)
		assert.Equal(t, 3, status.DaysRemaining)
	})

	t.Run("due today is urgent not overdue", func(t *testing.T) {
		status := c.Classify(today, noticeDueIn(0))
		assert.Equal(t, models.StatusUrgent, status.Level)
		assert.Equal(t, 0, status.DaysRemaining)
	})

	t.Run("fifteen days past is overdue", func(t *testing.T) {
		status := c.Classify(today, noticeDueIn(-15))
		assert.Equal(t, models.StatusOverdue, status.Level)
		assert.Equal(t, 15, status.DaysOverdue)
		assert.Zero(t, status.DaysRemaining)
	})

	t.Run("threshold boundary stays urgent", func(t *testing.T) {
		status := c.Classify(today, noticeDueIn(compliance.DefaultUrgentThresholdDays))
		assert.Equal(t, models.StatusUrgent, status.Level)

		status = c.Classify(today, noticeDueIn(compliance.DefaultUrgentThresholdDays+1))
		assert.Equal(t, models.StatusPending, status.Level)
	})

	t.Run("missing compliance date is unknown", func(t *testing.T) {
		status := c.Classify(today, models.Notice{RegulatorID: "N101"})
		assert.Equal(t, models.StatusUnknown, status.Level)
	})

	t.Run("time of day does not shift the day count", func(t *testing.T) {
		n := models.Notice{
			ComplianceDate: datePtr(time.Date(2026, 3, 13, 1, 0, 0, 0, time.UTC)),
		}
		lateEvening := time.Date(2026, 3, 10, 23, 55, 0, 0, time.UTC)
		status := c.Classify(lateEvening, n)
		assert.Equal(t, models.StatusUrgent, status.Level)
		assert.Equal(t, 3, status.DaysRemaining)
	})
}

func TestClassifyImmediate(t *testing.T) {
	c := compliance.New()
	served := today.AddDate(0, 0, -5)

	prohibition := models.Notice{
		RegulatorID:    "N200",
		ActionType:     "Prohibition Notice",
		NoticeDate:     datePtr(served),
		OperativeDate:  datePtr(served),
		ComplianceDate: datePtr(served),
	}

	t.Run("coinciding past dates on a prohibition are immediate", func(t *testing.T) {
		status := c.Classify(today, prohibition)
		assert.Equal(t, models.StatusImmediate, status.Level)
		assert.Zero(t, status.DaysRemaining)
		assert.Zero(t, status.DaysOverdue)
	})

	t.Run("non-coinciding dates fall through to day arithmetic", func(t *testing.T) {
		n := prohibition
		n.ComplianceDate = datePtr(served.AddDate(0, 0, 7))
		status := c.Classify(today, n)
		assert.Equal(t, models.StatusUrgent, status.Level)
		assert.Equal(t, 2, status.DaysRemaining)
	})

	t.Run("future immediate notices are not yet immediate", func(t *testing.T) {
		future := today.AddDate(0, 0, 2)
		n := models.Notice{
			ActionType:     "Prohibition Notice",
			NoticeDate:     datePtr(future),
			OperativeDate:  datePtr(future),
			ComplianceDate: datePtr(future),
		}
		status := c.Classify(today, n)
		assert.Equal(t, models.StatusUrgent, status.Level)
		assert.Equal(t, 2, status.DaysRemaining)
	})

	t.Run("improvement notices never classify as immediate", func(t *testing.T) {
		n := prohibition
		n.ActionType = "Improvement Notice"
		status := c.Classify(today, n)
		assert.Equal(t, models.StatusOverdue, status.Level)
		assert.Equal(t, 5, status.DaysOverdue)
	})

	t.Run("custom markers extend detection", func(t *testing.T) {
		cc := compliance.New(compliance.WithImmediateTypeMarkers("prohibition", "suspension"))
		n := prohibition
		n.ActionType = "Suspension Notice"
		status := cc.Classify(today, n)
		assert.Equal(t, models.StatusImmediate, status.Level)
	})
}

func TestClassifyExactlyOneLevel(t *testing.T) {
	c := compliance.New()
	known := map[models.ComplianceLevel]bool{
		models.StatusPending:   true,
		models.StatusUrgent:    true,
		models.StatusOverdue:   true,
		models.StatusImmediate: true,
		models.StatusUnknown:   true,
	}

	notices := []models.Notice{
		noticeDueIn(90),
		noticeDueIn(1),
		noticeDueIn(0),
		noticeDueIn(-1),
		{},
		{ActionType: "Prohibition Notice", NoticeDate: datePtr(today), OperativeDate: datePtr(today), ComplianceDate: datePtr(today)},
	}
	for _, n := range notices {
		status := c.Classify(today, n)
		assert.True(t, known[status.Level], "unexpected level %q", status.Level)
	}
}

func TestWithUrgentThreshold(t *testing.T) {
	c := compliance.New(compliance.WithUrgentThreshold(14))

	status := c.Classify(today, noticeDueIn(10))
	assert.Equal(t, models.StatusUrgent, status.Level)

	status = c.Classify(today, noticeDueIn(15))
	assert.Equal(t, models.StatusPending, status.Level)

	// Non-positive overrides keep the default.
	c = compliance.New(compliance.WithUrgentThreshold(0))
	status = c.Classify(today, noticeDueIn(7))
	assert.Equal(t, models.StatusUrgent, status.Level)
}

func TestTimelineIntervals(t *testing.T) {
	c := compliance.New()
	served := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	t.Run("full timeline", func(t *testing.T) {
		tl := c.TimelineIntervals(models.Notice{
			NoticeDate:     datePtr(served),
			OperativeDate:  datePtr(served.AddDate(0, 0, 21)),
			ComplianceDate: datePtr(served.AddDate(0, 0, 60)),
		})
		require.NotNil(t, tl.OperativePeriodDays)
		require.NotNil(t, tl.TotalCompliancePeriodDays)
		assert.Equal(t, 21, *tl.OperativePeriodDays)
		assert.Equal(t, 60, *tl.TotalCompliancePeriodDays)
	})

	t.Run("missing notice date yields empty timeline", func(t *testing.T) {
		tl := c.TimelineIntervals(models.Notice{
			OperativeDate:  datePtr(served),
			ComplianceDate: datePtr(served),
		})
		assert.Nil(t, tl.OperativePeriodDays)
		assert.Nil(t, tl.TotalCompliancePeriodDays)
	})

	t.Run("partial dates fill only what can be computed", func(t *testing.T) {
		tl := c.TimelineIntervals(models.Notice{
			NoticeDate:    datePtr(served),
			OperativeDate: datePtr(served.AddDate(0, 0, 7)),
		})
		require.NotNil(t, tl.OperativePeriodDays)
		assert.Equal(t, 7, *tl.OperativePeriodDays)
		assert.Nil(t, tl.TotalCompliancePeriodDays)
	})
}
