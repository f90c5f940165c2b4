package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	enfmetrics "github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/metrics"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/models"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/notify"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/store"
)

const tracerName = "enforcement/snapshot"

// PeriodResult reports the outcome of one period within a refresh run.
// Exactly one of Snapshot/Err is meaningful.
type PeriodResult struct {
	Period   models.Period
	Snapshot models.MetricsSnapshot
	Err      error
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock overrides the engine's time source for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *enfmetrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// Engine recomputes the per-period aggregate snapshots and swaps them into
// the store. Safe for concurrent invocation: the store's per-period Replace
// is the only synchronization point, and last completed write wins.
type Engine struct {
	reader   store.Reader
	store    Store
	notifier notify.Notifier
	logger   *slog.Logger
	metrics  *enfmetrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

func NewEngine(reader store.Reader, st Store, notifier notify.Notifier, logger *slog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		reader:   reader,
		store:    st,
		notifier: notifier,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RefreshAll recomputes and swaps the snapshot for every period. A failing
// period is reported in its slot and does not abort the others; the previous
// snapshot for that period stays live. One change notification goes out
// after all periods have been attempted, whatever the outcomes.
func (e *Engine) RefreshAll(ctx context.Context, actor models.Actor) []PeriodResult {
	start := e.now()
	ctx, span := e.tracer.Start(ctx, "RefreshAll",
		trace.WithAttributes(attribute.String("actor", string(actor))))
	defer span.End()

	periods := models.Periods()
	results := make([]PeriodResult, len(periods))

	// Fan out per period. Goroutines never return an error: a period failure
	// lands in its result slot instead of cancelling the sibling contexts.
	g, gctx := errgroup.WithContext(ctx)
	for i, period := range periods {
		g.Go(func() error {
			results[i] = e.refreshPeriod(gctx, period, start, actor)
			return nil
		})
	}
	_ = g.Wait()

	outcomes := make([]notify.PeriodOutcome, len(results))
	failed := 0
	for i, res := range results {
		outcomes[i] = notify.PeriodOutcome{Period: res.Period, OK: res.Err == nil}
		if res.Err != nil {
			outcomes[i].Error = res.Err.Error()
			failed++
		}
	}

	payload := notify.Payload{
		ID:         uuid.NewString(),
		Actor:      actor,
		ComputedAt: start,
		Periods:    outcomes,
	}
	if err := e.notifier.Publish(ctx, notify.TopicMetricsRefreshed, payload); err != nil {
		e.logger.Warn("metrics refresh notification failed", "error", err.Error())
	}

	if e.metrics != nil {
		e.metrics.ObserveRefresh(string(actor), start)
	}
	e.logger.Info("metrics refresh finished",
		"actor", string(actor),
		"failed_periods", failed,
		"duration", e.now().Sub(start).String(),
	)
	return results
}

// ScheduledRefresh is the automation entry point the external scheduler
// calls. Repeated or overlapping invocations are idempotent in effect: the
// last successful swap per period stands.
func (e *Engine) ScheduledRefresh(ctx context.Context) []PeriodResult {
	return e.RefreshAll(ctx, models.ActorAutomation)
}

func (e *Engine) refreshPeriod(ctx context.Context, period models.Period, now time.Time, actor models.Actor) PeriodResult {
	res := PeriodResult{Period: period}

	snap, err := e.ComputeSnapshot(ctx, period, now, actor)
	if err != nil {
		res.Err = fmt.Errorf("compute %s snapshot: %w", period, err)
	} else if err := e.store.Replace(ctx, period, snap); err != nil {
		res.Err = fmt.Errorf("persist %s snapshot: %w", period, err)
	} else {
		res.Snapshot = snap
	}

	if res.Err != nil {
		if e.metrics != nil {
			e.metrics.IncrementPeriodFailure(string(period))
		}
		e.logger.Error("period refresh failed",
			"period", string(period),
			"error", res.Err.Error(),
		)
	}
	return res
}

// ComputeSnapshot is the pure aggregation step: it reads counts and agency
// stats for the period's window and builds the full snapshot in memory
// without touching the snapshot store. RefreshAll persists its result; cache
// misses call it directly and throw the value away after rendering.
func (e *Engine) ComputeSnapshot(ctx context.Context, period models.Period, now time.Time, actor models.Actor) (models.MetricsSnapshot, error) {
	if !period.Valid() {
		return models.MetricsSnapshot{}, fmt.Errorf("unknown period %q", period)
	}

	ctx, span := e.tracer.Start(ctx, "ComputeSnapshot",
		trace.WithAttributes(attribute.String("period", string(period))))
	defer span.End()

	windowStart := models.Date(now).AddDate(0, 0, -period.WindowDays())

	recentCases, err := e.reader.CountCases(ctx, &windowStart)
	if err != nil {
		return models.MetricsSnapshot{}, fmt.Errorf("count recent cases: %w", err)
	}
	recentNotices, err := e.reader.CountNotices(ctx, &windowStart)
	if err != nil {
		return models.MetricsSnapshot{}, fmt.Errorf("count recent notices: %w", err)
	}
	totalCases, err := e.reader.CountCases(ctx, nil)
	if err != nil {
		return models.MetricsSnapshot{}, fmt.Errorf("count cases: %w", err)
	}
	totalNotices, err := e.reader.CountNotices(ctx, nil)
	if err != nil {
		return models.MetricsSnapshot{}, fmt.Errorf("count notices: %w", err)
	}
	agencyStats, err := e.reader.AgencyStats(ctx)
	if err != nil {
		return models.MetricsSnapshot{}, fmt.Errorf("agency stats: %w", err)
	}

	return models.MetricsSnapshot{
		ID:                 uuid.NewString(),
		Period:             period,
		ComputedAt:         now,
		RecentCasesCount:   recentCases,
		RecentNoticesCount: recentNotices,
		TotalCasesCount:    totalCases,
		TotalNoticesCount:  totalNotices,
		AgencyStats:        agencyStats,
		CalculatedBy:       actor,
	}, nil
}

// Current returns every persisted snapshot in period order.
func (e *Engine) Current(ctx context.Context) ([]models.MetricsSnapshot, error) {
	return e.store.GetCurrent(ctx)
}

// CurrentOrCompute returns the live snapshot for a period, recomputing on a
// cache miss without persisting the result.
func (e *Engine) CurrentOrCompute(ctx context.Context, period models.Period) (models.MetricsSnapshot, error) {
	snap, err := e.store.Get(ctx, period)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.MetricsSnapshot{}, err
	}
	return e.ComputeSnapshot(ctx, period, e.now(), models.ActorAutomation)
}
