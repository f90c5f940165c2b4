package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/models"
)

// PostgresStore persists one snapshot row per period. The single-statement
// upsert keyed on period is the atomic swap the Store contract requires;
// concurrent refreshes for the same period serialize on the row lock and the
// last completed write wins.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const snapshotColumns = `id, period, computed_at, recent_cases_count, recent_notices_count,
	       total_cases_count, total_notices_count, agency_stats, calculated_by`

func (s *PostgresStore) GetCurrent(ctx context.Context) ([]models.MetricsSnapshot, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM metrics_snapshots
		ORDER BY CASE period WHEN 'week' THEN 1 WHEN 'month' THEN 2 ELSE 3 END
	`, snapshotColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []models.MetricsSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, period models.Period) (models.MetricsSnapshot, error) {
	query := fmt.Sprintf(`SELECT %s FROM metrics_snapshots WHERE period = $1`, snapshotColumns)

	row := s.db.QueryRowContext(ctx, query, string(period))
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MetricsSnapshot{}, ErrNotFound
	}
	if err != nil {
		return models.MetricsSnapshot{}, err
	}
	return snap, nil
}

func (s *PostgresStore) Replace(ctx context.Context, period models.Period, snap models.MetricsSnapshot) error {
	stats, err := json.Marshal(snap.AgencyStats)
	if err != nil {
		return fmt.Errorf("marshal agency stats: %w", err)
	}

	query := `
		INSERT INTO metrics_snapshots (id, period, computed_at, recent_cases_count,
		                               recent_notices_count, total_cases_count,
		                               total_notices_count, agency_stats, calculated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (period) DO UPDATE SET
			id = EXCLUDED.id,
			computed_at = EXCLUDED.computed_at,
			recent_cases_count = EXCLUDED.recent_cases_count,
			recent_notices_count = EXCLUDED.recent_notices_count,
			total_cases_count = EXCLUDED.total_cases_count,
			total_notices_count = EXCLUDED.total_notices_count,
			agency_stats = EXCLUDED.agency_stats,
			calculated_by = EXCLUDED.calculated_by
	`

	_, err = s.db.ExecContext(ctx, query,
		snap.ID,
		string(period),
		snap.ComputedAt,
		snap.RecentCasesCount,
		snap.RecentNoticesCount,
		snap.TotalCasesCount,
		snap.TotalNoticesCount,
		stats,
		string(snap.CalculatedBy),
	)
	if err != nil {
		return fmt.Errorf("replace %s snapshot: %w", period, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (models.MetricsSnapshot, error) {
	var (
		snap       models.MetricsSnapshot
		period     string
		actor      string
		statsBytes []byte
	)
	err := row.Scan(
		&snap.ID,
		&period,
		&snap.ComputedAt,
		&snap.RecentCasesCount,
		&snap.RecentNoticesCount,
		&snap.TotalCasesCount,
		&snap.TotalNoticesCount,
		&statsBytes,
		&actor,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MetricsSnapshot{}, err
	}
	if err != nil {
		return models.MetricsSnapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}

	snap.Period = models.Period(period)
	snap.CalculatedBy = models.Actor(actor)
	if len(statsBytes) > 0 {
		if err := json.Unmarshal(statsBytes, &snap.AgencyStats); err != nil {
			return models.MetricsSnapshot{}, fmt.Errorf("unmarshal agency stats: %w", err)
		}
	}
	return snap, nil
}
