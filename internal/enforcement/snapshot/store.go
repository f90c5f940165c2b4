// Package snapshot maintains the materialized metrics rows the dashboard
// reads instead of re-scanning the case/notice tables on every render. One
// row lives per period; a refresh replaces it atomically and keeps no
// history.
package snapshot

import (
	"context"
	"errors"

	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/models"
)

// ErrNotFound is returned when no snapshot has been persisted for a period.
// Callers fall back to on-demand computation rather than treating this as a
// failure.
var ErrNotFound = errors.New("snapshot not found")

// Store is the persistence contract for snapshot rows.
//
// Replace must be an indivisible per-period swap: concurrent calls for the
// same period may race, but a reader must never observe a row mixed from two
// refreshes. Calls for different periods are independent.
type Store interface {
	// GetCurrent returns every persisted snapshot, at most one per period,
	// in week/month/year order. An empty slice means never refreshed.
	GetCurrent(ctx context.Context) ([]models.MetricsSnapshot, error)
	// Get returns the live snapshot for one period, or ErrNotFound.
	Get(ctx context.Context, period models.Period) (models.MetricsSnapshot, error)
	// Replace atomically swaps the period's snapshot for the given one.
	Replace(ctx context.Context, period models.Period, snap models.MetricsSnapshot) error
}
