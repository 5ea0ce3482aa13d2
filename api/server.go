package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/A25-CS046/back-end/query"
	"github.com/A25-CS046/back-end/recommend"
	"github.com/A25-CS046/back-end/store"
	"github.com/A25-CS046/back-end/telemetry"
)

// Store is the subset of persistence methods needed by the HTTP API.
type Store interface {
	DashboardSummary(ctx context.Context, asOf time.Time) (telemetry.Summary, error)
	LatestSnapshots(ctx context.Context, asOf time.Time, page query.Page) (query.Paged[telemetry.Snapshot], error)
	ListMachines(ctx context.Context, f query.MachineFilter) (query.Paged[telemetry.Machine], error)
	MachineByID(ctx context.Context, unitID string) (telemetry.Machine, error)
	MachineExists(ctx context.Context, unitID string) (bool, error)
	MachineSensors(ctx context.Context, unitID string, q query.SensorQuery) (query.Paged[telemetry.SensorRow], error)
	MachineTimeseries(ctx context.Context, unitID string, start, end *time.Time, intervalSeconds int64) ([]telemetry.TimeBucket, error)
	TelemetryRaw(ctx context.Context, f query.TelemetryFilter) (query.Paged[telemetry.Reading], error)
	TelemetryBuckets(ctx context.Context, f query.TelemetryFilter) (query.Paged[telemetry.TimeBucket], error)
	MaintenanceSchedules(ctx context.Context, f query.ScheduleFilter) (query.Paged[recommend.Schedule], error)
	ScheduleByID(ctx context.Context, id int64) (recommend.Schedule, error)
	ActiveTaskCounts(ctx context.Context) (store.TaskCounts, error)
	UserCount(ctx context.Context) (int, error)
	WeeklyTeamPerf(ctx context.Context, weeks int) ([]store.WeekPerf, error)
}

// Recommender fetches normalized recommendations from the upstream ML
// scheduler.
type Recommender interface {
	Recommendations(ctx context.Context, filters map[string]string) ([]recommend.Recommendation, error)
}

// Server implements the HTTP API for the predictive-maintenance dashboard.
// It is safe to use concurrently.
type Server struct {
	store Store
	rec   Recommender
	log   *zap.Logger
	mux   *http.ServeMux
}

// NewServer constructs a Server with all routes registered on an internal
// mux. A nil logger is replaced with a no-op logger.
func NewServer(st Store, rec Recommender, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		store: st,
		rec:   rec,
		log:   log,
		mux:   http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler, logging every request with a generated
// request id.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	s.mux.ServeHTTP(rw, r)

	s.log.Info("request",
		zap.String("request_id", uuid.NewString()),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rw.status),
		zap.Duration("duration", time.Since(start)),
	)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc("/api/dashboard/summary", s.handleDashboardSummary)
	s.mux.HandleFunc("/api/dashboard/active-tasks", s.handleActiveTasks)
	s.mux.HandleFunc("/api/dashboard/team-members", s.handleTeamMembers)
	s.mux.HandleFunc("/api/dashboard/team-perf", s.handleTeamPerf)

	s.mux.HandleFunc("/api/machines", s.handleListMachines)
	s.mux.HandleFunc("/api/machines/latest", s.handleMachinesLatest)
	// Catch-all for machine detail and sub-resources; the path is parsed
	// manually.
	s.mux.HandleFunc("/api/machines/", s.handleMachineSubroutes)

	s.mux.HandleFunc("/api/telemetry", s.handleTelemetry)

	s.mux.HandleFunc("/api/maintenance/schedules", s.handleSchedules)
	s.mux.HandleFunc("/api/maintenance/schedules/", s.handleScheduleByID)

	s.mux.HandleFunc("/api/recommendations", s.handleRecommendations)

	// OpenAPI specification endpoint plus a minimal Swagger UI page.
	s.mux.HandleFunc("/openapi.json", s.handleOpenAPI)
	s.mux.HandleFunc("/swagger", s.handleSwaggerUI)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders the error envelope used across all endpoints.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"message": message,
		"status":  status,
	})
}

// respondError maps core error classes to HTTP statuses: validation errors
// become 400, missing resources 404, everything else a logged 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *query.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Reason)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		s.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
