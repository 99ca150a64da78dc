// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "trip-planner/internal/common/errors"
	"trip-planner/internal/common/logger"
	"trip-planner/internal/common/metrics"
	"trip-planner/internal/common/observability"
	"trip-planner/internal/genai"
	"trip-planner/internal/models"
	"trip-planner/internal/pipeline/history"
	"trip-planner/internal/pipeline/planner"
	"trip-planner/internal/pipeline/queryplanner"
	"trip-planner/internal/pipeline/researcher"
)

// Pipeline composes the planning stages into a single run: query
// planning, research, itinerary generation, and history recording.
// Stages communicate only through the values passed between them.
type Pipeline struct {
	queryPlanner *queryplanner.Planner
	researcher   *researcher.Researcher
	planner      *planner.Planner
	store        history.Store
	obs          *observability.Observability
	logger       logger.Logger
}

// New wires the pipeline from its stage components.
func New(
	qp *queryplanner.Planner,
	r *researcher.Researcher,
	p *planner.Planner,
	store history.Store,
	obs *observability.Observability,
	log logger.Logger,
) *Pipeline {
	return &Pipeline{
		queryPlanner: qp,
		researcher:   r,
		planner:      p,
		store:        store,
		obs:          obs,
		logger:       log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}
}

// Plan runs the full pipeline for one request and records the result.
// A failed research stage degrades the run instead of failing it; only
// an invalid request or a failed generation stage aborts.
func (p *Pipeline) Plan(ctx context.Context, req models.TravelRequest) (*models.TripHistoryEntry, error) {
	if err := validateRequest(req); err != nil {
		metrics.PipelineRunsFailed.WithLabelValues(string(apperrors.ErrCodeInvalidRequest)).Inc()
		return nil, err
	}

	queries, err := p.queryPlanner.Generate(req)
	if err != nil {
		metrics.PipelineRunsFailed.WithLabelValues(string(apperrors.ErrCodeInvalidRequest)).Inc()
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "query planning rejected request", err)
	}

	degraded := false
	researchStart := time.Now()
	output, err := p.researcher.Research(ctx, queries)
	p.recordStage(ctx, "research", time.Since(researchStart))
	if err != nil {
		if !errors.Is(err, researcher.ErrResearchDegraded) {
			metrics.PipelineRunsFailed.WithLabelValues(string(apperrors.ErrCodeInternal)).Inc()
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "research stage failed", err)
		}
		degraded = true
		p.logger.Warn("research produced no results, continuing degraded", map[string]interface{}{
			"destination": req.Destination,
			"queries":     len(queries),
		})
	}
	if len(output.POIs) == 0 {
		degraded = true
	}

	planStart := time.Now()
	itinerary, err := p.planner.Plan(ctx, req, output.POIs, degraded)
	p.recordStage(ctx, "generation", time.Since(planStart))
	if err != nil {
		code := apperrors.ErrCodeGenerationFailed
		if errors.Is(err, genai.ErrGenerationTimeout) {
			code = apperrors.ErrCodeGenerationTimeout
		}
		metrics.PipelineRunsFailed.WithLabelValues(string(code)).Inc()
		p.obs.RecordRun(ctx, "failed")
		return nil, apperrors.Wrap(code, "itinerary generation failed", err)
	}

	entry, err := p.store.Record(ctx, req, *itinerary)
	if err != nil {
		metrics.PipelineRunsFailed.WithLabelValues(string(apperrors.ErrCodeInternal)).Inc()
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to record trip history", err)
	}

	metrics.PipelineRunsCompleted.WithLabelValues(strconv.FormatBool(degraded)).Inc()
	p.obs.RecordRun(ctx, runStatus(degraded))
	p.logger.Info("pipeline run completed", map[string]interface{}{
		"trip_id":     entry.ID,
		"destination": req.Destination,
		"days":        req.Days,
		"degraded":    degraded,
		"pois":        len(output.POIs),
	})

	return entry, nil
}

// Regenerate re-runs the full pipeline for a previously recorded trip.
// The original entry is untouched; the re-run appends a new entry with
// its own id, and fresh research may yield different content.
func (p *Pipeline) Regenerate(ctx context.Context, id string) (*models.TripHistoryEntry, error) {
	prev, err := p.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, fmt.Sprintf("trip %s not found", id))
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to load trip history", err)
	}
	return p.Plan(ctx, prev.Request)
}

// History exposes the append-only store for read-side callers.
func (p *Pipeline) History() history.Store {
	return p.store
}

func (p *Pipeline) recordStage(ctx context.Context, stage string, d time.Duration) {
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(d.Seconds())
	p.obs.RecordStageDuration(ctx, stage, d)
}

func runStatus(degraded bool) string {
	if degraded {
		return "degraded"
	}
	return "completed"
}

// validateRequest enforces the request invariants that do not depend
// on any collaborator.
func validateRequest(req models.TravelRequest) error {
	switch {
	case strings.TrimSpace(req.Destination) == "":
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "destination is required")
	case req.Days < models.MinTripDays || req.Days > models.MaxTripDays:
		return apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("days must be between %d and %d", models.MinTripDays, models.MaxTripDays))
	case !req.BudgetTier.Valid():
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "budgetTier must be low, medium or high")
	case strings.TrimSpace(req.Language) == "":
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "language is required")
	}
	return nil
}
