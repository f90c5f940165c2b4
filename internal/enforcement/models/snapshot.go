package models

import "time"

// Period identifies one of the three cached snapshot windows.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Periods returns all snapshot periods in their fixed reporting order.
func Periods() []Period {
	return []Period{PeriodWeek, PeriodMonth, PeriodYear}
}

// WindowDays is the size of the recent-activity window the period summarizes.
func (p Period) WindowDays() int {
	switch p {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	case PeriodYear:
		return 365
	default:
		return 0
	}
}

// Valid reports whether p is one of the three known periods.
func (p Period) Valid() bool {
	return p.WindowDays() > 0
}

// Actor records which kind of caller triggered a snapshot refresh.
type Actor string

const (
	ActorAdmin      Actor = "admin"
	ActorAutomation Actor = "automation"
)

// AgencyStat is the all-time per-agency rollup embedded in a snapshot.
type AgencyStat struct {
	CaseCount   int     `json:"case_count"`
	NoticeCount int     `json:"notice_count"`
	TotalFines  float64 `json:"total_fines"`
}

// MetricsSnapshot is the materialized aggregate row for one period.
//
// Invariants:
//   - exactly one live snapshot per period; a refresh replaces the prior row
//     atomically and no history is retained
//   - the struct is fully built in memory before it touches storage, so a
//     reader never observes a partially written snapshot
type MetricsSnapshot struct {
	ID                 string                `json:"id"`
	Period             Period                `json:"period"`
	ComputedAt         time.Time             `json:"computed_at"`
	RecentCasesCount   int                   `json:"recent_cases_count"`
	RecentNoticesCount int                   `json:"recent_notices_count"`
	TotalCasesCount    int                   `json:"total_cases_count"`
	TotalNoticesCount  int                   `json:"total_notices_count"`
	AgencyStats        map[string]AgencyStat `json:"agency_stats"`
	CalculatedBy       Actor                 `json:"calculated_by"`
}
