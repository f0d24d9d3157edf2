package trends

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healthwatch/healthwatch/internal/report"
)

type stubStore struct {
	records []*report.HealthReport
}

func (s *stubStore) EnsureInitialized() error { return nil }
func (s *stubStore) Append(r *report.HealthReport) error { return nil }
func (s *stubStore) LoadAll() []*report.HealthReport { return s.records }
func (s *stubStore) DeleteByPositions(positions []int) error { return nil }

// recentRec builds a record relative to the wall clock, since the handler
// computes its windows from time.Now.
func recentRec(daysAgo int, ageGroup string, symptoms ...string) *report.HealthReport {
	d := time.Now().AddDate(0, 0, -daysAgo)
	return &report.HealthReport{
		SymptomDate: time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
		AgeGroup:    ageGroup,
		Area:        "Koramangala",
		Duration:    "1-3 days",
		Symptoms:    symptoms,
		Severity:    5,
		SubmittedAt: d,
	}
}

func get(t *testing.T, h echo.HandlerFunc, target string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func TestGetTrends(t *testing.T) {
	h := NewHandler(&stubStore{records: []*report.HealthReport{
		recentRec(1, "Adult (25-59)", "Fever", "Cough"),
		recentRec(2, "Child (0-12)", "Fever"),
	}})

	rec, err := get(t, h.GetTrends, "/api/v1/trends")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp trendsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.WindowDays != TopSymptomWindowDays {
		t.Errorf("expected default window, got %d", resp.WindowDays)
	}
	if len(resp.SymptomFrequency) != 2 || resp.SymptomFrequency[0].Symptom != "Fever" {
		t.Errorf("unexpected frequency: %+v", resp.SymptomFrequency)
	}
	if len(resp.AgeDistribution) != 2 {
		t.Errorf("unexpected age distribution: %+v", resp.AgeDistribution)
	}
}

func TestGetTrends_EmptyStore(t *testing.T) {
	h := NewHandler(&stubStore{})

	rec, err := get(t, h.GetTrends, "/api/v1/trends")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp trendsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.SymptomFrequency) != 0 || len(resp.AgeDistribution) != 0 {
		t.Errorf("expected empty aggregations, got %+v", resp)
	}
}

func TestGetTrends_BadWindow(t *testing.T) {
	h := NewHandler(&stubStore{})
	_, err := get(t, h.GetTrends, "/api/v1/trends?window_days=-3")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestGetDailySeries(t *testing.T) {
	h := NewHandler(&stubStore{records: []*report.HealthReport{
		recentRec(1, "Adult (25-59)", "Fever"),
	}})

	rec, err := get(t, h.GetDailySeries, "/api/v1/trends/daily?top=1&days=10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp dailySeriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Days != 10 {
		t.Errorf("expected days echo, got %d", resp.Days)
	}
	if len(resp.Series) != 1 || len(resp.Series[0].Points) != 10 {
		t.Fatalf("unexpected series shape: %+v", resp.Series)
	}
}

func TestGetSummary(t *testing.T) {
	h := NewHandler(&stubStore{records: []*report.HealthReport{
		recentRec(1, "Adult (25-59)", "Fever"),
		recentRec(2, "Adult (25-59)", "Cough"),
	}})

	rec, err := get(t, h.GetSummary, "/api/v1/trends/summary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalReports != 2 || resp.DistinctAreas != 1 {
		t.Errorf("unexpected summary: %+v", resp.Summary)
	}
	if resp.AverageSeverity != 5 {
		t.Errorf("unexpected average severity: %v", resp.AverageSeverity)
	}
}
