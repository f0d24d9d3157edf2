package report

import (
	"testing"
	"time"
)

func date(day int) time.Time {
	return time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC)
}

func filterFixture() []*HealthReport {
	return []*HealthReport{
		{Area: "Koramangala", AgeGroup: "Adult (25-59)", SymptomDate: date(10), SubmittedAt: date(10)},
		{Area: "Indiranagar", AgeGroup: "Child (0-12)", SymptomDate: date(12), SubmittedAt: date(12)},
		{Area: "Koramangala", AgeGroup: "Child (0-12)", SymptomDate: date(15), SubmittedAt: date(15)},
		{Area: "Jayanagar", AgeGroup: "Senior (60+)", SymptomDate: date(20), SubmittedAt: date(20)},
	}
}

func TestFilter_NoConstraints(t *testing.T) {
	records := filterFixture()
	got := Filter(records, Constraints{})
	if len(got) != len(records) {
		t.Errorf("expected all records, got %d", len(got))
	}
}

func TestFilter_ByArea(t *testing.T) {
	got := Filter(filterFixture(), Constraints{Areas: []string{"Koramangala"}})
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	for _, r := range got {
		if r.Area != "Koramangala" {
			t.Errorf("unexpected area %q", r.Area)
		}
	}
}

func TestFilter_AreaNormalized(t *testing.T) {
	// Constraint values get the same normalization as stored areas.
	got := Filter(filterFixture(), Constraints{Areas: []string{"  koramangala "}})
	if len(got) != 2 {
		t.Errorf("expected 2, got %d", len(got))
	}
}

func TestFilter_AllConstraintsAND(t *testing.T) {
	from := date(11)
	to := date(16)
	got := Filter(filterFixture(), Constraints{
		Areas:     []string{"Koramangala"},
		AgeGroups: []string{"Child (0-12)"},
		From:      &from,
		To:        &to,
	})
	if len(got) != 1 {
		t.Fatalf("expected 1, got %d", len(got))
	}
	if !got[0].SymptomDate.Equal(date(15)) {
		t.Errorf("unexpected record: %v", got[0].SymptomDate)
	}
}

func TestFilter_DateRangeInclusive(t *testing.T) {
	from := date(12)
	to := date(15)
	got := Filter(filterFixture(), Constraints{From: &from, To: &to})
	if len(got) != 2 {
		t.Fatalf("expected boundary dates included, got %d", len(got))
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	records := filterFixture()
	Filter(records, Constraints{Areas: []string{"Jayanagar"}})
	if len(records) != 4 {
		t.Error("input slice was mutated")
	}
}

func TestSortedByRecency(t *testing.T) {
	records := filterFixture()
	got := SortedByRecency(records)

	for i := 1; i < len(got); i++ {
		if got[i].SubmittedAt.After(got[i-1].SubmittedAt) {
			t.Errorf("not descending at index %d", i)
		}
	}
	// Original order preserved.
	if !records[0].SubmittedAt.Equal(date(10)) {
		t.Error("input slice was reordered")
	}
}
