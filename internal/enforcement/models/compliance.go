package models

// ComplianceLevel is the derived deadline state of a Notice.
type ComplianceLevel string

const (
	// StatusPending means the compliance date is comfortably in the future.
	StatusPending ComplianceLevel = "pending"
	// StatusUrgent means the compliance date is today or within the urgent
	// threshold. Due today is urgent, not overdue.
	StatusUrgent ComplianceLevel = "urgent"
	// StatusOverdue means the compliance date has passed.
	StatusOverdue ComplianceLevel = "overdue"
	// StatusImmediate marks immediate-effect notices whose dates all coincide
	// on or before today.
	StatusImmediate ComplianceLevel = "immediate"
	// StatusUnknown is returned when the notice carries no compliance date.
	StatusUnknown ComplianceLevel = "unknown"
)

// ComplianceStatus is computed at read time from stored dates and is never
// persisted. Caching it would let it go stale as "today" advances.
//
// Exactly one of DaysRemaining/DaysOverdue is meaningful:
//   - pending/urgent carry DaysRemaining (>= 0)
//   - overdue carries DaysOverdue (> 0)
//   - immediate/unknown carry neither
type ComplianceStatus struct {
	Level         ComplianceLevel `json:"level"`
	DaysRemaining int             `json:"days_remaining,omitempty"`
	DaysOverdue   int             `json:"days_overdue,omitempty"`
}

// Timeline reports the notice's statutory intervals in whole days. Fields are
// nil when the source dates needed to compute them are absent.
type Timeline struct {
	OperativePeriodDays       *int `json:"operative_period_days,omitempty"`
	TotalCompliancePeriodDays *int `json:"total_compliance_period_days,omitempty"`
}
