package models

import "time"

// ActivityKind discriminates the two record shapes in the merged feed. The
// aggregator dispatches on this tag; there is deliberately no reflection or
// interface-based variant handling.
type ActivityKind string

const (
	KindCase   ActivityKind = "case"
	KindNotice ActivityKind = "notice"
)

// Default type labels applied when the source record carries none.
const (
	DefaultCaseLabel   = "Court Case"
	DefaultNoticeLabel = "Enforcement Notice"
)

// ActivityItem is one row of the merged activity feed. Derived, never
// persisted; it exists only for the duration of a single read.
//
// Invariants:
//   - FineAmount is always set when Kind == KindCase
//   - FineAmount is always nil when Kind == KindNotice
//   - ActionDate is always set (date-less records never become items)
type ActivityItem struct {
	ID               string            `json:"id"`
	Kind             ActivityKind      `json:"kind"`
	ActionDate       time.Time         `json:"action_date"`
	OrganizationName string            `json:"organization_name"`
	Description      string            `json:"description,omitempty"`
	FineAmount       *float64          `json:"fine_amount,omitempty"`
	AgencyCode       string            `json:"agency_code"`
	TypeLabel        string            `json:"type_label"`
	Compliance       *ComplianceStatus `json:"compliance,omitempty"`
}
