// Package store exposes the read queries the enforcement core consumes from
// the persistence layer. The surface is a small fixed set of parameterized
// methods rather than a composable query builder; the aggregator and snapshot
// engine call these directly.
package store

import (
	"context"
	"time"

	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/models"
)

// Filter narrows a Case/Notice listing. Zero values mean "no restriction";
// From/To bound the record's action date inclusively.
type Filter struct {
	AgencyCode string
	ActionType string
	From       *time.Time
	To         *time.Time
}

// Reader is the persistence collaborator contract. Implementations must be
// safe for concurrent use; the snapshot engine queries periods in parallel.
type Reader interface {
	// Cases returns cases matching the filter, unordered.
	Cases(ctx context.Context, f Filter) ([]models.Case, error)
	// Notices returns notices matching the filter, unordered.
	Notices(ctx context.Context, f Filter) ([]models.Notice, error)
	// CountCases counts cases with an action date on or after since.
	// A nil since counts all time.
	CountCases(ctx context.Context, since *time.Time) (int, error)
	// CountNotices counts notices with a notice date on or after since.
	// A nil since counts all time.
	CountNotices(ctx context.Context, since *time.Time) (int, error)
	// AgencyStats returns the all-time per-agency rollup keyed by agency code.
	AgencyStats(ctx context.Context) (map[string]models.AgencyStat, error)
}
