package assessment

import (
	"regexp"
	"strings"
)

// Risk level constants.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// RiskAssessment is the result of a content risk check. ShouldHold is
// advisory; the publishing workflow decides whether to act on it.
type RiskAssessment struct {
	RiskLevel  string   `json:"risk_level"`
	Triggers   []string `json:"triggers"`
	ShouldHold bool     `json:"should_hold"`
}

// allegationPatterns match allegation-indicator phrasing in title or body.
// The set is fixed; risk detection is rule-based, not a classifier.
var allegationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`allege[sd]?\s`),
	regexp.MustCompile(`accus[ed]+\sof`),
	regexp.MustCompile(`charged\swith`),
	regexp.MustCompile(`investigation\s(into|of)`),
	regexp.MustCompile(`misconduct`),
	regexp.MustCompile(`corruption`),
	regexp.MustCompile(`fraud`),
	regexp.MustCompile(`criminal`),
	regexp.MustCompile(`scandal`),
	regexp.MustCompile(`cover.?up`),
	regexp.MustCompile(`sexual\s(assault|harassment|abuse)`),
}

// AssessContentRisk flags allegation-heavy, weakly-sourced text. Rules are
// evaluated in order and union their triggers; the level only ever escalates.
func AssessContentRisk(title, contentText string, sourceCompleteness int) RiskAssessment {
	triggers := []string{}
	riskLevel := RiskLow

	text := strings.ToLower(title + " " + contentText)

	hasAllegation := false
	for _, p := range allegationPatterns {
		if p.MatchString(text) {
			hasAllegation = true
			break
		}
	}

	if hasAllegation {
		triggers = append(triggers, "Contains allegation language")
		riskLevel = RiskMedium
	}

	// Weak sourcing + allegation = high risk
	if hasAllegation && sourceCompleteness < 50 {
		triggers = append(triggers, "Allegation with insufficient sourcing")
		riskLevel = RiskHigh
	}

	// Very weak sourcing alone
	if sourceCompleteness < 20 {
		triggers = append(triggers, "Very weak sourcing")
		if riskLevel == RiskLow {
			riskLevel = RiskMedium
		}
	}

	return RiskAssessment{
		RiskLevel:  riskLevel,
		Triggers:   triggers,
		ShouldHold: riskLevel == RiskHigh,
	}
}
