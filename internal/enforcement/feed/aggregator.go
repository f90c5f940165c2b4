// Package feed merges fined Cases and un-fined Notices into one
// chronologically ordered activity feed. The merge is pure: collections are
// already loaded by the caller, so filtering, sorting and pagination never
// block and are safe for unlimited concurrent use.
package feed

import (
	"sort"

	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/models"
)

// DefaultPageSize matches the dashboard's activity table.
const DefaultPageSize = 10

// Filter restricts the merged feed to one record kind.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterCases   Filter = "cases"
	FilterNotices Filter = "notices"
)

// Normalize maps unknown filter values to FilterAll. Malformed query input is
// absorbed here rather than surfaced as an error.
func (f Filter) Normalize() Filter {
	switch f {
	case FilterCases, FilterNotices:
		return f
	default:
		return FilterAll
	}
}

// Query carries the caller's feed parameters. Invalid values are clamped or
// defaulted, never rejected.
type Query struct {
	Filter   Filter
	Page     int
	PageSize int
}

// Page is one slice of the merged feed plus the totals the dashboard needs
// for its pager.
type Page struct {
	Items      []models.ActivityItem `json:"items"`
	Page       int                   `json:"page"`
	TotalCount int                   `json:"total_count"`
	TotalPages int                   `json:"total_pages"`
}

// Merge builds the activity feed from already-loaded collections.
//
// Records without an action date are dropped. Ordering is action date
// descending with regulator ID ascending as the tiebreak, so identical inputs
// always produce identical pages regardless of input order. The requested
// page is clamped into [1, TotalPages]; TotalPages is at least 1 even for an
// empty feed.
func Merge(cases []models.Case, notices []models.Notice, q Query) Page {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	filter := q.Filter.Normalize()

	items := make([]models.ActivityItem, 0, len(cases)+len(notices))
	if filter != FilterNotices {
		for _, c := range cases {
			if c.ActionDate == nil {
				continue
			}
			items = append(items, caseItem(c))
		}
	}
	if filter != FilterCases {
		for _, n := range notices {
			if n.NoticeDate == nil {
				continue
			}
			items = append(items, noticeItem(n))
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].ActionDate.Equal(items[j].ActionDate) {
			return items[i].ActionDate.After(items[j].ActionDate)
		}
		return items[i].ID < items[j].ID
	})

	totalCount := len(items)
	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalCount {
		start = totalCount
	}
	if end > totalCount {
		end = totalCount
	}

	return Page{
		Items:      items[start:end],
		Page:       page,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

func caseItem(c models.Case) models.ActivityItem {
	label := c.ActionType
	if label == "" {
		label = models.DefaultCaseLabel
	}
	// Case items always expose a fine; a scraped case missing one reads as 0
	// so the kind invariant holds for every feed consumer.
	fine := c.FineAmount
	if fine == nil {
		zero := 0.0
		fine = &zero
	}
	return models.ActivityItem{
		ID:               c.RegulatorID,
		Kind:             models.KindCase,
		ActionDate:       models.Date(*c.ActionDate),
		OrganizationName: c.OffenderName,
		Description:      c.Breach,
		FineAmount:       fine,
		AgencyCode:       c.AgencyCode,
		TypeLabel:        label,
	}
}

func noticeItem(n models.Notice) models.ActivityItem {
	label := n.ActionType
	if label == "" {
		label = models.DefaultNoticeLabel
	}
	return models.ActivityItem{
		ID:               n.RegulatorID,
		Kind:             models.KindNotice,
		ActionDate:       models.Date(*n.NoticeDate),
		OrganizationName: n.OffenderName,
		Description:      n.Body,
		AgencyCode:       n.AgencyCode,
		TypeLabel:        label,
	}
}
