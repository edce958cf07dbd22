// Package assessment provides pure editorial gating functions: source
// completeness scoring and content risk detection. Both are total functions;
// they never fail and touch no storage.
package assessment

import (
	"math"

	"github.com/bylinehq/integrity-engine/internal/models"
)

// Completeness is the result of a source completeness assessment.
type Completeness struct {
	Complete bool     `json:"complete"`
	Score    int      `json:"score"`
	Issues   []string `json:"issues"`
}

// completeThreshold is the score at or above which sourcing counts as complete.
const completeThreshold = 50

// AssessSourceCompleteness scores an article's citation quality on a 0-100
// scale. Components are additive and individually capped, so the total never
// exceeds 100:
//
//	+20 any source, +30 primary source, up to +20 for URLs on non-anonymous
//	sources (+10 flat when all sources are anonymous), +15 for multiple
//	sources, +15 for diverse source types.
func AssessSourceCompleteness(sources []models.Source) Completeness {
	issues := []string{}

	if len(sources) == 0 {
		return Completeness{Complete: false, Score: 0, Issues: []string{"No sources attached"}}
	}

	// Has at least one source: +20
	score := 20

	// Has primary source: +30
	hasPrimary := false
	for _, s := range sources {
		if s.Quality == models.SourceQualityPrimary || s.SourceType == models.SourceTypePrimaryDocument {
			hasPrimary = true
			break
		}
	}
	if hasPrimary {
		score += 30
	} else {
		issues = append(issues, "No primary sources")
	}

	// Has URLs for non-anonymous sources: +20
	nonAnonymous := 0
	withURLs := 0
	for _, s := range sources {
		if s.Quality == models.SourceQualityAnonymous || s.Quality == models.SourceQualityUnverifiable {
			continue
		}
		nonAnonymous++
		if s.URL != "" {
			withURLs++
		}
	}
	if nonAnonymous > 0 {
		urlRatio := float64(withURLs) / float64(nonAnonymous)
		score += int(math.Round(urlRatio * 20))
		if urlRatio < 1 {
			issues = append(issues, "Some non-anonymous sources missing URLs")
		}
	} else {
		score += 10 // all anonymous - partial credit
		issues = append(issues, "All sources are anonymous or unverifiable")
	}

	// Multiple sources: +15
	if len(sources) >= 2 {
		score += 15
	} else {
		issues = append(issues, "Single source only")
	}

	// Diverse source types: +15
	types := make(map[string]bool, len(sources))
	for _, s := range sources {
		types[s.SourceType] = true
	}
	if len(types) >= 2 {
		score += 15
	}

	return Completeness{
		Complete: score >= completeThreshold,
		Score:    score,
		Issues:   issues,
	}
}
