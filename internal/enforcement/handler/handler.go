// Package handler exposes the dashboard's JSON endpoints. It stays thin:
// merging, classification and snapshot work happen in the domain packages,
// and the surrounding application decides where these routes are mounted.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/compliance"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/feed"
	enfmetrics "github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/metrics"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/models"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/snapshot"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/store"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/platform/middleware"
)

// dateParam is the wire format for from/to query parameters.
const dateParam = "2006-01-02"

// MetricsService is the snapshot surface the handler consumes.
type MetricsService interface {
	Current(ctx context.Context) ([]models.MetricsSnapshot, error)
	CurrentOrCompute(ctx context.Context, period models.Period) (models.MetricsSnapshot, error)
	RefreshAll(ctx context.Context, actor models.Actor) []snapshot.PeriodResult
}

// Handler serves the dashboard endpoints.
type Handler struct {
	logger     *slog.Logger
	reader     store.Reader
	snapshots  MetricsService
	classifier *compliance.Classifier
	metrics    *enfmetrics.Metrics
	adminToken string
	pageSize   int
	now        func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithPageSize overrides the activity feed page size.
func WithPageSize(size int) Option {
	return func(h *Handler) {
		if size > 0 {
			h.pageSize = size
		}
	}
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *enfmetrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithClock overrides the handler's time source for tests.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// New creates the dashboard Handler.
func New(
	reader store.Reader,
	snapshots MetricsService,
	classifier *compliance.Classifier,
	logger *slog.Logger,
	adminToken string,
	opts ...Option,
) *Handler {
	h := &Handler{
		logger:     logger,
		reader:     reader,
		snapshots:  snapshots,
		classifier: classifier,
		adminToken: adminToken,
		pageSize:   feed.DefaultPageSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the dashboard and admin routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard/metrics", h.handleMetrics)
	r.Get("/dashboard/activity", h.handleActivity)

	adminRouter := chi.NewRouter()
	adminRouter.Use(middleware.RequireAdminToken(h.adminToken, h.logger))
	adminRouter.Post("/metrics/refresh", h.handleRefresh)
	r.Mount("/admin", adminRouter)
}

// handleMetrics returns the current snapshot set. Periods that were never
// refreshed are computed on demand without being persisted, so the dashboard
// renders numbers even before the first refresh.
func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snaps, err := h.snapshots.Current(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "reading snapshots failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load metrics")
		return
	}

	have := make(map[models.Period]bool, len(snaps))
	for _, snap := range snaps {
		have[snap.Period] = true
	}
	for _, period := range models.Periods() {
		if have[period] {
			continue
		}
		snap, err := h.snapshots.CurrentOrCompute(ctx, period)
		if err != nil {
			h.logger.ErrorContext(ctx, "on-demand snapshot failed",
				"period", string(period),
				"error", err.Error(),
			)
			writeError(w, http.StatusInternalServerError, "failed to load metrics")
			return
		}
		snaps = append(snaps, snap)
	}

	orderSnapshots(snaps)
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps})
}

// handleActivity returns one page of the merged Case/Notice feed. Filter and
// page arguments degrade to defaults instead of erroring; agency/date-range
// narrowing happens in the read query, the merge stays in memory.
func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := feed.Filter(q.Get("filter")).Normalize()
	page, _ := strconv.Atoi(q.Get("page"))

	readFilter := store.Filter{
		AgencyCode: q.Get("agency"),
		ActionType: q.Get("type"),
	}
	if from, err := time.Parse(dateParam, q.Get("from")); err == nil {
		readFilter.From = &from
	}
	if to, err := time.Parse(dateParam, q.Get("to")); err == nil {
		readFilter.To = &to
	}

	cases, err := h.reader.Cases(ctx, readFilter)
	if err != nil {
		h.logger.ErrorContext(ctx, "reading cases failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load activity")
		return
	}
	notices, err := h.reader.Notices(ctx, readFilter)
	if err != nil {
		h.logger.ErrorContext(ctx, "reading notices failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load activity")
		return
	}

	result := feed.Merge(cases, notices, feed.Query{
		Filter:   filter,
		Page:     page,
		PageSize: h.pageSize,
	})
	h.attachCompliance(result.Items, notices)

	if h.metrics != nil {
		h.metrics.IncrementFeedRequest(string(filter))
	}
	writeJSON(w, http.StatusOK, result)
}

// handleRefresh recomputes all snapshots as the admin actor and reports the
// per-period outcomes. A partial failure still returns the full result list;
// the admin sees exactly which periods failed.
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	results := h.snapshots.RefreshAll(r.Context(), models.ActorAdmin)

	type periodResponse struct {
		Period   models.Period           `json:"period"`
		OK       bool                    `json:"ok"`
		Error    string                  `json:"error,omitempty"`
		Snapshot *models.MetricsSnapshot `json:"snapshot,omitempty"`
	}

	out := make([]periodResponse, len(results))
	failed := 0
	for i, res := range results {
		out[i] = periodResponse{Period: res.Period, OK: res.Err == nil}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
			failed++
		} else {
			snap := res.Snapshot
			out[i].Snapshot = &snap
		}
	}

	status := http.StatusOK
	if failed == len(results) {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]any{"results": out})
}

// attachCompliance decorates notice items with their derived status as of
// now. Derived at render time on purpose; see the compliance package.
func (h *Handler) attachCompliance(items []models.ActivityItem, notices []models.Notice) {
	byID := make(map[string]models.Notice, len(notices))
	for _, n := range notices {
		byID[n.RegulatorID] = n
	}
	today := h.now()
	for i := range items {
		if items[i].Kind != models.KindNotice {
			continue
		}
		if n, ok := byID[items[i].ID]; ok {
			status := h.classifier.Classify(today, n)
			items[i].Compliance = &status
		}
	}
}

func orderSnapshots(snaps []models.MetricsSnapshot) {
	rank := map[models.Period]int{models.PeriodWeek: 0, models.PeriodMonth: 1, models.PeriodYear: 2}
	for i := 1; i < len(snaps); i++ {
		for j := i; j > 0 && rank[snaps[j].Period] < rank[snaps[j-1].Period]; j-- {
			snaps[j], snaps[j-1] = snaps[j-1], snaps[j]
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
