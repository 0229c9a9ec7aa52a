// Package advisory turns a soil reading into agronomic suggestions.
//
// Everything here is pure: the same reading always yields the same
// suggestions, and pH is not re-validated (callers guarantee 0 <= ph <= 14).
package advisory

import (
	"math"
	"strconv"

	"soilwatch/entities"
	"soilwatch/pkg/rounding"
)

type Status string

const (
	StatusAcidic   Status = "acidic"
	StatusOptimal  Status = "optimal"
	StatusAlkaline Status = "alkaline"
	StatusDry      Status = "dry"
	StatusWet      Status = "wet"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Suggestion struct {
	Status   Status   `json:"status"`
	Severity Severity `json:"severity"`
	Headline string   `json:"headline"`
	Details  []string `json:"details"`
}

const (
	acidicBelow   = 6.0
	alkalineAbove = 7.5
	dryBelow      = 25.0
	veryDry       = 15.0
	wetAbove      = 80.0
	veryWet       = 90.0
)

// Evaluate returns the pH suggestion first, followed by a moisture suggestion
// when the reading carries a moisture value outside the comfortable band.
func Evaluate(r entities.Reading) []Suggestion {
	out := []Suggestion{ForPh(r.Ph)}
	if r.Moisture != nil {
		if s, ok := ForMoisture(*r.Moisture); ok {
			out = append(out, s)
		}
	}
	return out
}

func ForPh(ph float64) Suggestion {
	switch {
	case ph < acidicBelow:
		rate := LimeRate(ph)
		return Suggestion{
			Status:   StatusAcidic,
			Severity: grade(acidDelta(ph), 1.2, 0.5),
			Headline: "Soil is acidic — raise pH",
			Details: []string{
				"Apply garden lime approximately " + fmtRate(rate) + " lb per 100 sq ft, then re-test in 2–4 weeks.",
				"Prefer dolomitic lime if magnesium is also low.",
				"Add organic matter (compost) to improve buffering.",
				"Avoid ammonium-based nitrogen sources until pH improves.",
			},
		}
	case ph > alkalineAbove:
		rate := SulfurRate(ph)
		return Suggestion{
			Status:   StatusAlkaline,
			Severity: grade(alkDelta(ph), 1.5, 0.75),
			Headline: "Soil is alkaline — lower pH",
			Details: []string{
				"Apply elemental sulfur about " + fmtRate(rate) + " lb per 100 sq ft; water in well.",
				"Use acid-forming fertilizers (e.g., ammonium sulfate).",
				"Mulch with pine bark/needles; add composted manure sparingly.",
				"For calcareous soils, expect gradual change and periodic maintenance.",
			},
		}
	default:
		return Suggestion{
			Status:   StatusOptimal,
			Severity: SeverityLow,
			Headline: "pH is within the ideal range",
			Details: []string{
				"Maintain with balanced NPK and organic matter.",
				"Spot-correct only if crop-specific needs differ.",
				"Continue weekly/monthly monitoring.",
			},
		}
	}
}

// ForMoisture reports false when moisture is within [25, 80].
func ForMoisture(moisture float64) (Suggestion, bool) {
	switch {
	case moisture < dryBelow:
		sev := SeverityMedium
		if moisture < veryDry {
			sev = SeverityHigh
		}
		return Suggestion{
			Status:   StatusDry,
			Severity: sev,
			Headline: "Soil moisture is low — increase irrigation",
			Details: []string{
				"Irrigate to field capacity; avoid waterlogging.",
				"Mulch to reduce evaporation.",
				"Schedule watering in early morning.",
			},
		}, true
	case moisture > wetAbove:
		sev := SeverityMedium
		if moisture > veryWet {
			sev = SeverityHigh
		}
		return Suggestion{
			Status:   StatusWet,
			Severity: sev,
			Headline: "Soil is too wet — reduce watering",
			Details: []string{
				"Allow drainage before field operations.",
				"Check irrigation scheduling and soil compaction.",
			},
		}, true
	}
	return Suggestion{}, false
}

// LimeRate is the garden lime application in lb per 100 sq ft for an acidic
// reading. The deficit is capped at 2 pH units, so the rate tops out at 13.
func LimeRate(ph float64) float64 {
	return rounding.HalfUp(5+acidDelta(ph)*4, 1)
}

// SulfurRate is the elemental sulfur application in lb per 100 sq ft for an
// alkaline reading. The excess over 7 is capped at 2.5 pH units.
func SulfurRate(ph float64) float64 {
	return rounding.HalfUp(1+alkDelta(ph)*1.2, 1)
}

func acidDelta(ph float64) float64 { return math.Min(6-ph, 2) }

func alkDelta(ph float64) float64 { return math.Min(ph-7, 2.5) }

func grade(delta, high, medium float64) Severity {
	switch {
	case delta > high:
		return SeverityHigh
	case delta > medium:
		return SeverityMedium
	}
	return SeverityLow
}

func fmtRate(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// ReferenceQuery is a web search phrase matching the most pressing suggestion.
func ReferenceQuery(list []Suggestion) string {
	if len(list) == 0 {
		return "soil pH management"
	}
	switch list[0].Status {
	case StatusAcidic:
		return "raise soil pH garden lime application rate"
	case StatusAlkaline:
		return "lower alkaline soil pH elemental sulfur"
	case StatusDry:
		return "increase soil moisture irrigation scheduling"
	case StatusWet:
		return "improve soil drainage reduce overwatering"
	}
	return "soil pH management"
}
