// internal/pipeline/researcher/researcher.go
package researcher

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"trip-planner/internal/common/logger"
	"trip-planner/internal/common/metrics"
	"trip-planner/internal/models"
	"trip-planner/internal/search"
)

var (
	// ErrResearchDegraded signals that every query failed and the run
	// is proceeding without research context. Non-fatal: callers absorb
	// it into a degraded-mode flag.
	ErrResearchDegraded = errors.New("RESEARCH_DEGRADED")
)

// Output is the aggregated result of one research run.
type Output struct {
	POIs          []models.POIRecord
	QueriesRun    int
	QueriesFailed int
}

// Researcher executes queries against the search collaborator and
// aggregates the hits into deduplicated POI records.
type Researcher struct {
	config *Config
	client search.Client
	logger logger.Logger
}

func NewResearcher(config *Config, client search.Client, log logger.Logger) *Researcher {
	return &Researcher{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"stage": "researcher"}),
	}
}

// Research fans queries out to the search provider with a bounded
// degree of parallelism and waits for every outcome. Individual query
// failures are retried once and then skipped; only a fully failed run
// returns ErrResearchDegraded alongside an empty output.
func (r *Researcher) Research(ctx context.Context, queries []models.SearchQuery) (*Output, error) {
	start := time.Now()

	type queryOutcome struct {
		results []search.Result
		failed  bool
	}

	outcomes := make([]queryOutcome, len(queries))
	sem := make(chan struct{}, r.config.MaxConcurrency)
	var wg sync.WaitGroup

	for i, query := range queries {
		wg.Add(1)
		go func(slot int, q models.SearchQuery) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results, err := r.searchWithRetry(ctx, q)
			if err != nil {
				r.logger.Warn("query skipped after retry", map[string]interface{}{
					"query": q.Text,
					"error": err.Error(),
				})
				metrics.SearchQueriesFailed.Inc()
				outcomes[slot] = queryOutcome{failed: true}
				return
			}
			outcomes[slot] = queryOutcome{results: results}
		}(i, query)
	}

	wg.Wait()

	// Single-writer merge in query order keeps aggregation
	// deterministic regardless of completion order.
	merged := make(map[string]*models.POIRecord)
	var order []string
	failed := 0

	for i, outcome := range outcomes {
		if outcome.failed {
			failed++
			continue
		}
		for _, candidate := range r.extract(queries[i].Intent, outcome.results) {
			if existing, ok := merged[candidate.CanonicalKey]; ok {
				existing.Merge(candidate)
				continue
			}
			record := candidate
			merged[candidate.CanonicalKey] = &record
			order = append(order, candidate.CanonicalKey)
		}
	}

	output := &Output{
		POIs:          make([]models.POIRecord, 0, len(order)),
		QueriesRun:    len(queries),
		QueriesFailed: failed,
	}
	for _, key := range order {
		output.POIs = append(output.POIs, *merged[key])
	}

	r.logger.Info("research completed", map[string]interface{}{
		"queries":       len(queries),
		"queriesFailed": failed,
		"pois":          len(output.POIs),
		"durationMs":    time.Since(start).Milliseconds(),
	})

	if len(queries) > 0 && failed == len(queries) {
		return output, ErrResearchDegraded
	}

	return output, nil
}

// searchWithRetry retries a failed query once with unchanged
// parameters before giving up on it.
func (r *Researcher) searchWithRetry(ctx context.Context, query models.SearchQuery) ([]search.Result, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		metrics.SearchQueriesDispatched.Inc()
		results, err := r.client.Search(ctx, query.Text)
		if err == nil {
			return results, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// extract maps raw hits to POI candidates using the fixed extraction
// rule: title to name, snippet to description, link to source URL.
func (r *Researcher) extract(intent models.QueryIntent, results []search.Result) []models.POIRecord {
	if len(results) > r.config.ResultsPerQuery {
		results = results[:r.config.ResultsPerQuery]
	}

	candidates := make([]models.POIRecord, 0, len(results))
	for _, hit := range results {
		name := strings.TrimSpace(hit.Title)
		if name == "" {
			continue
		}
		record := models.POIRecord{
			CanonicalKey:      models.CanonicalKey(name, intent),
			Name:              name,
			Description:       strings.TrimSpace(hit.Snippet),
			Category:          intent,
			EstimatedCostTier: classifyCostTier(hit.Snippet),
		}
		if hit.Link != "" {
			record.SourceURLs = []string{hit.Link}
		}
		candidates = append(candidates, record)
	}
	return candidates
}

// classifyCostTier is a keyword heuristic over the snippet text.
// Longer price markers are checked first so "$$$$" never reads as "$".
func classifyCostTier(snippet string) models.CostTier {
	text := strings.ToLower(snippet)

	switch {
	case strings.Contains(text, "free entry"),
		strings.Contains(text, "free admission"),
		strings.Contains(text, "entry is free"),
		strings.HasPrefix(text, "free "):
		return models.CostFree
	case strings.Contains(text, "$$$$"),
		strings.Contains(text, "luxury"),
		strings.Contains(text, "5-star"),
		strings.Contains(text, "upscale"):
		return models.CostHigh
	case strings.Contains(text, "$$$"):
		return models.CostHigh
	case strings.Contains(text, "$$"),
		strings.Contains(text, "mid-range"),
		strings.Contains(text, "moderate"):
		return models.CostMedium
	case strings.Contains(text, "$"),
		strings.Contains(text, "budget"),
		strings.Contains(text, "cheap"),
		strings.Contains(text, "affordable"),
		strings.Contains(text, "hostel"):
		return models.CostLow
	case strings.Contains(text, "free"):
		return models.CostFree
	}
	return models.CostUnknown
}
