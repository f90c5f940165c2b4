// Package compliance derives a notice's deadline status from date arithmetic.
// Everything here is pure and safe to call on every render; status is never
// cached anywhere so it cannot go stale as "today" advances.
package compliance

import (
	"strings"
	"time"

	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/models"
)

// DefaultUrgentThresholdDays is the window, ending on the compliance date,
// inside which a notice is flagged urgent rather than pending.
const DefaultUrgentThresholdDays = 7

// immediateTypeMarkers are matched case-insensitively against the notice
// action type to detect immediate-effect notices. Prohibition-style notices
// take legal effect the day they are served.
var immediateTypeMarkers = []string{"prohibition"}

// Option configures a Classifier.
type Option func(*Classifier)

// WithUrgentThreshold overrides the urgent window in days. Non-positive
// values are ignored.
func WithUrgentThreshold(days int) Option {
	return func(c *Classifier) {
		if days > 0 {
			c.urgentThresholdDays = days
		}
	}
}

// WithImmediateTypeMarkers replaces the action-type substrings that mark a
// notice as immediate-effect.
func WithImmediateTypeMarkers(markers ...string) Option {
	return func(c *Classifier) {
		if len(markers) == 0 {
			return
		}
		c.immediateMarkers = make([]string, 0, len(markers))
		for _, m := range markers {
			if m = strings.TrimSpace(m); m != "" {
				c.immediateMarkers = append(c.immediateMarkers, strings.ToLower(m))
			}
		}
	}
}

// Classifier computes compliance statuses. The zero-cost construction makes
// it fine to share one instance across all requests; it holds no mutable
// state.
type Classifier struct {
	urgentThresholdDays int
	immediateMarkers    []string
}

// New builds a Classifier with the default 7-day urgent threshold.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		urgentThresholdDays: DefaultUrgentThresholdDays,
		immediateMarkers:    immediateTypeMarkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the notice's compliance status as of today.
//
// Precedence: immediate-effect detection first, then the missing-date
// fallback, then plain day arithmetic against the compliance date. A
// compliance date equal to today is urgent, never overdue.
func (c *Classifier) Classify(today time.Time, n models.Notice) models.ComplianceStatus {
	day := models.Date(today)

	if c.isImmediate(day, n) {
		return models.ComplianceStatus{Level: models.StatusImmediate}
	}

	if n.ComplianceDate == nil {
		return models.ComplianceStatus{Level: models.StatusUnknown}
	}

	delta := daysBetween(day, models.Date(*n.ComplianceDate))
	switch {
	case delta < 0:
		return models.ComplianceStatus{Level: models.StatusOverdue, DaysOverdue: -delta}
	case delta <= c.urgentThresholdDays:
		return models.ComplianceStatus{Level: models.StatusUrgent, DaysRemaining: delta}
	default:
		return models.ComplianceStatus{Level: models.StatusPending, DaysRemaining: delta}
	}
}

// TimelineIntervals reports the notice's operative and total compliance
// periods in whole days. Missing inputs yield nil fields rather than an
// error.
func (c *Classifier) TimelineIntervals(n models.Notice) models.Timeline {
	var tl models.Timeline
	if n.NoticeDate == nil {
		return tl
	}
	served := models.Date(*n.NoticeDate)
	if n.OperativeDate != nil {
		d := daysBetween(served, models.Date(*n.OperativeDate))
		tl.OperativePeriodDays = &d
	}
	if n.ComplianceDate != nil {
		d := daysBetween(served, models.Date(*n.ComplianceDate))
		tl.TotalCompliancePeriodDays = &d
	}
	return tl
}

// isImmediate reports whether the notice is an immediate-effect type whose
// notice, operative and compliance dates all coincide on or before today.
func (c *Classifier) isImmediate(today time.Time, n models.Notice) bool {
	if n.NoticeDate == nil || n.OperativeDate == nil || n.ComplianceDate == nil {
		return false
	}
	actionType := strings.ToLower(n.ActionType)
	matched := false
	for _, marker := range c.immediateMarkers {
		if strings.Contains(actionType, marker) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	served := models.Date(*n.NoticeDate)
	if !served.Equal(models.Date(*n.OperativeDate)) || !served.Equal(models.Date(*n.ComplianceDate)) {
		return false
	}
	return !served.After(today)
}

// daysBetween returns to - from in whole days. Both inputs must already be
// date-normalized.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
