package report

import (
	"sort"
	"time"
)

// Constraints narrows a record sequence for display or export. Each field is
// optional; supplied constraints are combined with logical AND. Areas and
// age groups are set-membership tests, the date range is inclusive on both
// ends.
type Constraints struct {
	Areas     []string
	AgeGroups []string
	From      *time.Time
	To        *time.Time
}

// Filter returns the records satisfying every supplied constraint. The input
// slice is never mutated.
func Filter(records []*HealthReport, c Constraints) []*HealthReport {
	areas := map[string]bool{}
	for _, a := range c.Areas {
		areas[NormalizeArea(a)] = true
	}
	ageGroups := map[string]bool{}
	for _, g := range c.AgeGroups {
		ageGroups[g] = true
	}

	out := []*HealthReport{}
	for _, r := range records {
		if len(areas) > 0 && !areas[r.Area] {
			continue
		}
		if len(ageGroups) > 0 && !ageGroups[r.AgeGroup] {
			continue
		}
		if c.From != nil && r.SymptomDate.Before(*c.From) {
			continue
		}
		if c.To != nil && r.SymptomDate.After(*c.To) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortedByRecency returns a copy of records ordered by SubmittedAt
// descending, for most-recent-first views and positional deletion safety.
func SortedByRecency(records []*HealthReport) []*HealthReport {
	out := append([]*HealthReport(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}
