// Package outbreak applies a fixed, explainable rule to flag emerging
// clusters: a count threshold on fever cases per area over a trailing
// window. Deliberately simple and auditable rather than statistically
// adaptive; every call recomputes from scratch over the records it is given.
package outbreak

import (
	"time"

	"github.com/healthwatch/healthwatch/internal/report"
)

// Default rule parameters. Both are runtime-adjustable, not data.
const (
	DefaultThreshold  = 10
	DefaultWindowDays = 7
)

// FeverLabel is the single symptom the rule currently watches. Extending the
// rule to other symptoms is a parameterization of countCases.
const FeverLabel = "Fever"

// Outbreak signals that an area has met or exceeded the fever-case threshold
// within the trailing window.
type Outbreak struct {
	Area       string `json:"area"`
	Symptom    string `json:"symptom"`
	CaseCount  int    `json:"case_count"`
	WindowDays int    `json:"window_days"`
}

// Detect groups records from the trailing window by area and emits one
// Outbreak per area whose fever-case count reaches threshold. Non-positive
// parameters fall back to the defaults. The result order follows first
// appearance of each area in the scan.
func Detect(records []*report.HealthReport, now time.Time, threshold, windowDays int) []Outbreak {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	start := windowStart(now, windowDays)

	counts := map[string]int{}
	order := []string{}
	for _, r := range records {
		if r.SymptomDate.Before(start) {
			continue
		}
		if !r.HasSymptom(FeverLabel) {
			continue
		}
		if _, seen := counts[r.Area]; !seen {
			order = append(order, r.Area)
		}
		counts[r.Area]++
	}

	out := []Outbreak{}
	for _, area := range order {
		if counts[area] >= threshold {
			out = append(out, Outbreak{
				Area:       area,
				Symptom:    FeverLabel,
				CaseCount:  counts[area],
				WindowDays: windowDays,
			})
		}
	}
	return out
}

// windowStart truncates the window bound to midnight: symptom dates are
// day-granular, so a record dated exactly windowDays ago still counts.
func windowStart(now time.Time, windowDays int) time.Time {
	d := now.AddDate(0, 0, -windowDays)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
