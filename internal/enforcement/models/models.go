// Package models holds the enforcement domain types shared by the feed,
// compliance and snapshot packages. Rows are produced upstream by the scraping
// pipeline or manual entry; nothing in this package touches storage.
package models

import "time"

// Agency is a regulator that issues Cases and Notices (e.g. a health-and-safety
// or environmental regulator). Code is the short stable identifier used as the
// key for per-agency statistics.
type Agency struct {
	Code string `json:"code"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Offender is the organization a Case or Notice was issued against.
type Offender struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Case is an enforcement record that carries a fine.
//
// Invariants:
//   - RegulatorID is unique across cases
//   - ActionDate is required for the record to appear in the activity feed;
//     rows without one are dropped at merge time, not rejected here
type Case struct {
	RegulatorID  string     `json:"regulator_id"`
	AgencyCode   string     `json:"agency_code"`
	OffenderName string     `json:"offender_name"`
	ActionDate   *time.Time `json:"action_date,omitempty"`
	FineAmount   *float64   `json:"fine_amount,omitempty"`
	Breach       string     `json:"breach,omitempty"`
	ActionType   string     `json:"action_type,omitempty"`
	LastSyncedAt time.Time  `json:"last_synced_at"`
}

// Notice is an enforcement record without a fine, subject to a compliance
// deadline. All three dates are optional; the compliance classifier degrades
// to StatusUnknown when ComplianceDate is missing.
type Notice struct {
	RegulatorID    string     `json:"regulator_id"`
	AgencyCode     string     `json:"agency_code"`
	OffenderName   string     `json:"offender_name"`
	ActionType     string     `json:"action_type,omitempty"`
	NoticeDate     *time.Time `json:"notice_date,omitempty"`
	OperativeDate  *time.Time `json:"operative_date,omitempty"`
	ComplianceDate *time.Time `json:"compliance_date,omitempty"`
	Body           string     `json:"body,omitempty"`
}

// Date normalizes a timestamp to a UTC date-only value. Date arithmetic on
// notices and feed ordering both work in whole days, so everything entering a
// comparison goes through here first.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
