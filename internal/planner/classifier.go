package planner

import (
	"strings"

	"github.com/sells-group/memo-cli/internal/model"
)

// Signals are the four independent booleans that select a research path.
// Computed fresh per request, never persisted.
type Signals struct {
	// HoldingIntent: the entity is a capital/dividend-holding vehicle.
	HoldingIntent bool
	// ForcedEntityType: the Dutch B.V. legal form is mandatory, either by
	// explicit naming/selection or implied by HoldingIntent.
	ForcedEntityType bool
	// TechIntent: eligible for WBSO / Innovation Box research incentives.
	TechIntent bool
	// SpeedPreference: the timeline text indicates urgency.
	SpeedPreference bool
}

// Classify derives Signals from an intake profile. Pure and deterministic:
// no I/O, no state, case-insensitive substring matching over the keyword
// tables. Holding intent is evaluated before the forced entity type because
// a holding company always requires the B.V. form for treaty access.
func Classify(profile model.IntakeProfile) Signals {
	name := strings.ToLower(profile.CompanyName)
	industry := strings.ToLower(profile.Industry)
	companyType := strings.ToLower(profile.CompanyType)
	timeline := strings.ToLower(profile.TimelinePreference)
	goals := strings.ToLower(strings.Join(profile.EntryGoals, " "))
	taxText := strings.ToLower(strings.Join(profile.TaxConsiderations, " ") + " " + profile.AdditionalContext)

	var s Signals
	s.HoldingIntent = detectHolding(name, companyType, taxText)
	s.ForcedEntityType = detectForcedBV(name, companyType) || s.HoldingIntent
	s.TechIntent = detectTech(industry, goals)
	s.SpeedPreference = containsAny(timeline, keywords.Speed.Timeline)
	return s
}

func detectHolding(name, companyType, taxText string) bool {
	for _, kw := range keywords.Holding.TypeOrName {
		if companyType != "" && strings.Contains(companyType, kw) {
			return true
		}
		if name != "" && strings.Contains(name, kw) {
			return true
		}
	}
	if containsAny(taxText, keywords.Holding.TaxText) {
		return true
	}
	for _, group := range keywords.Holding.JointTaxText {
		if containsAll(taxText, group) {
			return true
		}
	}
	return false
}

// detectForcedBV matches only explicit Dutch entity intent. Generic foreign
// terms like "LLC" or "Corporation" never force the B.V., so an unforced
// user keeps the fast Branch Office path open.
func detectForcedBV(name, companyType string) bool {
	if containsAny(name, keywords.ForcedBV.Name) {
		return true
	}
	for _, suffix := range keywords.ForcedBV.NameSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return containsAny(companyType, keywords.ForcedBV.CompanyType)
}

// detectTech excludes financial services from the software/technology match
// so financial firms never get phantom R&D credit research.
func detectTech(industry, goals string) bool {
	if containsAny(industry, keywords.Tech.Industry) && !containsAny(industry, keywords.Tech.IndustryExclude) {
		return true
	}
	if containsAny(industry, keywords.Tech.IndustryAlways) {
		return true
	}
	return containsAny(goals, keywords.Tech.Goals)
}

func containsAny(text string, terms []string) bool {
	if text == "" {
		return false
	}
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func containsAll(text string, terms []string) bool {
	if text == "" || len(terms) == 0 {
		return false
	}
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}
