// internal/models/poi.go
package models

import (
	"regexp"
	"strings"
)

// QueryIntent classifies what a search query (and the POIs extracted
// from its results) is about.
type QueryIntent string

const (
	IntentActivity      QueryIntent = "activity"
	IntentAccommodation QueryIntent = "accommodation"
	IntentDining        QueryIntent = "dining"
	IntentTransport     QueryIntent = "transport"
)

// CostTier is the estimated price band of a single POI, classified
// heuristically from search snippets.
type CostTier string

const (
	CostFree    CostTier = "free"
	CostLow     CostTier = "low"
	CostMedium  CostTier = "medium"
	CostHigh    CostTier = "high"
	CostUnknown CostTier = "unknown"
)

// SearchQuery is a generated, never mutated query for the search
// provider.
type SearchQuery struct {
	Text   string      `json:"text"`
	Intent QueryIntent `json:"intent"`
}

// POIRecord is the canonical representation of a discovered point of
// interest. CanonicalKey is unique within a research run; colliding
// candidates are merged, not dropped.
type POIRecord struct {
	CanonicalKey      string      `json:"canonicalKey"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Category          QueryIntent `json:"category"`
	SourceURLs        []string    `json:"sourceUrls"`
	EstimatedCostTier CostTier    `json:"estimatedCostTier"`
}

var (
	nonKeyChars = regexp.MustCompile(`[^a-z0-9 ]+`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// CanonicalKey derives the dedup identity for a POI from its
// normalized name and intent.
func CanonicalKey(name string, intent QueryIntent) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = nonKeyChars.ReplaceAllString(key, "")
	key = whitespace.ReplaceAllString(key, " ")
	return strings.TrimSpace(key) + "|" + string(intent)
}

// Merge folds another candidate with the same canonical key into p.
// The richer (longer) description wins and source URLs are unioned,
// preserving first-seen order.
func (p *POIRecord) Merge(other POIRecord) {
	if len(other.Description) > len(p.Description) {
		p.Description = other.Description
	}
	if p.EstimatedCostTier == CostUnknown && other.EstimatedCostTier != CostUnknown {
		p.EstimatedCostTier = other.EstimatedCostTier
	}
	seen := make(map[string]bool, len(p.SourceURLs))
	for _, u := range p.SourceURLs {
		seen[u] = true
	}
	for _, u := range other.SourceURLs {
		if u != "" && !seen[u] {
			seen[u] = true
			p.SourceURLs = append(p.SourceURLs, u)
		}
	}
}
