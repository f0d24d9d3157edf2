// Package trends derives descriptive statistics from a report sequence.
// Every function is a pure function of its input slice: no side effects, no
// state between calls. Callers pass "now" explicitly so the trailing windows
// are reproducible.
package trends

import (
	"sort"
	"time"

	"github.com/healthwatch/healthwatch/internal/report"
)

// Windows fixed by the aggregation rules.
const (
	TopSymptomWindowDays = 7
	DefaultTopN          = 3
	DefaultSeriesDays    = 30
)

// FrequencyEntry is one symptom with its occurrence count in the window.
type FrequencyEntry struct {
	Symptom string `json:"symptom"`
	Count   int    `json:"count"`
}

// AgeGroupEntry is one age group with its report count in the window.
type AgeGroupEntry struct {
	AgeGroup string `json:"age_group"`
	Count    int    `json:"count"`
}

// DailyPoint is the report count for one calendar day.
type DailyPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SymptomSeries is one symptom's daily counts, chronological ascending.
type SymptomSeries struct {
	Symptom string       `json:"symptom"`
	Points  []DailyPoint `json:"points"`
}

// Summary holds the headline statistics for a trailing window.
type Summary struct {
	TotalReports    int     `json:"total_reports"`
	DistinctAreas   int     `json:"distinct_areas"`
	AverageSeverity float64 `json:"average_severity"`
}

// SymptomFrequency counts individual symptom occurrences across records
// whose symptom date falls within the trailing windowDays ending at now.
// The result is ordered descending by count; ties keep first-seen scan
// order. Empty input yields an empty slice.
func SymptomFrequency(records []*report.HealthReport, now time.Time, windowDays int) []FrequencyEntry {
	start := windowStart(now, windowDays)

	counts := map[string]int{}
	order := []string{}
	for _, r := range records {
		if !inWindow(r.SymptomDate, start, now) {
			continue
		}
		for _, s := range r.Symptoms {
			if _, seen := counts[s]; !seen {
				order = append(order, s)
			}
			counts[s]++
		}
	}

	out := make([]FrequencyEntry, 0, len(order))
	for _, s := range order {
		out = append(out, FrequencyEntry{Symptom: s, Count: counts[s]})
	}
	sortByCountDesc(out)
	return out
}

// AgeDistribution counts reports per age group within the trailing window,
// ordered descending by count with first-seen tie order.
func AgeDistribution(records []*report.HealthReport, now time.Time, windowDays int) []AgeGroupEntry {
	start := windowStart(now, windowDays)

	counts := map[string]int{}
	order := []string{}
	for _, r := range records {
		if !inWindow(r.SymptomDate, start, now) {
			continue
		}
		if _, seen := counts[r.AgeGroup]; !seen {
			order = append(order, r.AgeGroup)
		}
		counts[r.AgeGroup]++
	}

	out := make([]AgeGroupEntry, 0, len(order))
	for _, g := range order {
		out = append(out, AgeGroupEntry{AgeGroup: g, Count: counts[g]})
	}
	sortAgeByCountDesc(out)
	return out
}

// DailySeries produces per-day counts for the topN symptoms over the last
// totalDays calendar days. The top symptoms are chosen from the trailing
// 7-day frequency regardless of totalDays; each series covers exactly
// totalDays points, oldest day first. Day membership compares the calendar
// date, symptom membership is a case-insensitive label match.
func DailySeries(records []*report.HealthReport, now time.Time, topN, totalDays int) []SymptomSeries {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if totalDays <= 0 {
		totalDays = DefaultSeriesDays
	}

	freq := SymptomFrequency(records, now, TopSymptomWindowDays)
	if len(freq) > topN {
		freq = freq[:topN]
	}

	out := make([]SymptomSeries, 0, len(freq))
	for _, entry := range freq {
		points := make([]DailyPoint, 0, totalDays)
		for i := totalDays - 1; i >= 0; i-- {
			day := now.AddDate(0, 0, -i)
			count := 0
			for _, r := range records {
				if sameDay(r.SymptomDate, day) && r.HasSymptom(entry.Symptom) {
					count++
				}
			}
			points = append(points, DailyPoint{Date: day.Format(report.DateLayout), Count: count})
		}
		out = append(out, SymptomSeries{Symptom: entry.Symptom, Points: points})
	}
	return out
}

// Summarize computes headline statistics over the trailing window.
func Summarize(records []*report.HealthReport, now time.Time, windowDays int) Summary {
	start := windowStart(now, windowDays)

	areas := map[string]bool{}
	total := 0
	severitySum := 0
	for _, r := range records {
		if !inWindow(r.SymptomDate, start, now) {
			continue
		}
		total++
		severitySum += r.Severity
		areas[r.Area] = true
	}

	s := Summary{TotalReports: total, DistinctAreas: len(areas)}
	if total > 0 {
		s.AverageSeverity = float64(severitySum) / float64(total)
	}
	return s
}

// windowStart is the first calendar day inside a trailing window of
// windowDays ending at now. Symptom dates are day-granular, so the bound is
// truncated to midnight: a record dated exactly windowDays ago is in, one
// day older is out.
func windowStart(now time.Time, windowDays int) time.Time {
	d := now.AddDate(0, 0, -windowDays)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func inWindow(date, start, now time.Time) bool {
	return !date.Before(start) && !date.After(endOfDay(now))
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func sortByCountDesc(entries []FrequencyEntry) {
	// Stable so equal counts keep first-seen order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
}

func sortAgeByCountDesc(entries []AgeGroupEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
}
