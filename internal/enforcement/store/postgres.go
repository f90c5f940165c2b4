package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/models"
)

// PostgresReader implements Reader over the cases/notices tables populated by
// the scraping pipeline.
type PostgresReader struct {
	db *sql.DB
}

func NewPostgresReader(db *sql.DB) *PostgresReader {
	return &PostgresReader{db: db}
}

const caseColumns = `regulator_id, agency_code, offender_name, action_date, fine_amount, breach, action_type, last_synced_at`

func (r *PostgresReader) Cases(ctx context.Context, f Filter) ([]models.Case, error) {
	query, args := buildListQuery(
		fmt.Sprintf(`SELECT %s FROM cases`, caseColumns), "action_date", f)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer rows.Close()

	var cases []models.Case
	for rows.Next() {
		var (
			c          models.Case
			actionDate sql.NullTime
			fine       sql.NullFloat64
			breach     sql.NullString
			actionType sql.NullString
		)
		if err := rows.Scan(&c.RegulatorID, &c.AgencyCode, &c.OffenderName,
			&actionDate, &fine, &breach, &actionType, &c.LastSyncedAt); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		if actionDate.Valid {
			d := actionDate.Time
			c.ActionDate = &d
		}
		if fine.Valid {
			v := fine.Float64
			c.FineAmount = &v
		}
		c.Breach = breach.String
		c.ActionType = actionType.String
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

const noticeColumns = `regulator_id, agency_code, offender_name, action_type, notice_date, operative_date, compliance_date, body`

func (r *PostgresReader) Notices(ctx context.Context, f Filter) ([]models.Notice, error) {
	query, args := buildListQuery(
		fmt.Sprintf(`SELECT %s FROM notices`, noticeColumns), "notice_date", f)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notices: %w", err)
	}
	defer rows.Close()

	var notices []models.Notice
	for rows.Next() {
		var (
			n              models.Notice
			actionType     sql.NullString
			noticeDate     sql.NullTime
			operativeDate  sql.NullTime
			complianceDate sql.NullTime
			body           sql.NullString
		)
		if err := rows.Scan(&n.RegulatorID, &n.AgencyCode, &n.OffenderName,
			&actionType, &noticeDate, &operativeDate, &complianceDate, &body); err != nil {
			return nil, fmt.Errorf("scan notice: %w", err)
		}
		n.ActionType = actionType.String
		n.Body = body.String
		n.NoticeDate = nullTimePtr(noticeDate)
		n.OperativeDate = nullTimePtr(operativeDate)
		n.ComplianceDate = nullTimePtr(complianceDate)
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

func (r *PostgresReader) CountCases(ctx context.Context, since *time.Time) (int, error) {
	return r.count(ctx, "cases", "action_date", since)
}

func (r *PostgresReader) CountNotices(ctx context.Context, since *time.Time) (int, error) {
	return r.count(ctx, "notices", "notice_date", since)
}

func (r *PostgresReader) count(ctx context.Context, table, dateColumn string, since *time.Time) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)
	var args []any
	if since != nil {
		query += fmt.Sprintf(` WHERE %s >= $1`, dateColumn)
		args = append(args, models.Date(*since))
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

// AgencyStats joins the two tables with a grouped aggregate per side so a
// single round trip returns the full rollup.
func (r *PostgresReader) AgencyStats(ctx context.Context) (map[string]models.AgencyStat, error) {
	query := `
		SELECT agency_code,
		       SUM(case_count)   AS case_count,
		       SUM(notice_count) AS notice_count,
		       SUM(total_fines)  AS total_fines
		FROM (
			SELECT agency_code, COUNT(*) AS case_count, 0 AS notice_count,
			       COALESCE(SUM(fine_amount), 0) AS total_fines
			FROM cases GROUP BY agency_code
			UNION ALL
			SELECT agency_code, 0, COUNT(*), 0
			FROM notices GROUP BY agency_code
		) combined
		GROUP BY agency_code
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query agency stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]models.AgencyStat)
	for rows.Next() {
		var (
			code string
			s    models.AgencyStat
		)
		if err := rows.Scan(&code, &s.CaseCount, &s.NoticeCount, &s.TotalFines); err != nil {
			return nil, fmt.Errorf("scan agency stat: %w", err)
		}
		stats[code] = s
	}
	return stats, rows.Err()
}

// buildListQuery appends the filter's WHERE clauses with positional args.
func buildListQuery(base, dateColumn string, f Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.AgencyCode != "" {
		clauses = append(clauses, "agency_code = "+arg(f.AgencyCode))
	}
	if f.ActionType != "" {
		clauses = append(clauses, "action_type = "+arg(f.ActionType))
	}
	if f.From != nil {
		clauses = append(clauses, dateColumn+" >= "+arg(models.Date(*f.From)))
	}
	if f.To != nil {
		clauses = append(clauses, dateColumn+" <= "+arg(models.Date(*f.To)))
	}

	if len(clauses) > 0 {
		base += " WHERE " + strings.Join(clauses, " AND ")
	}
	return base, args
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
