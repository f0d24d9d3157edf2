package trends

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healthwatch/healthwatch/internal/report"
)

// Handler exposes the trend aggregations over HTTP. Every request recomputes
// from the full store contents; the engine keeps no state between calls.
type Handler struct {
	store report.Store
}

func NewHandler(store report.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/trends", h.GetTrends)
	api.GET("/trends/daily", h.GetDailySeries)
	api.GET("/trends/summary", h.GetSummary)
}

type trendsResponse struct {
	GeneratedAt      time.Time        `json:"generated_at"`
	WindowDays       int              `json:"window_days"`
	SymptomFrequency []FrequencyEntry `json:"symptom_frequency"`
	AgeDistribution  []AgeGroupEntry  `json:"age_distribution"`
}

// GetTrends returns symptom frequency and age distribution for a trailing
// window (default 7 days).
func (h *Handler) GetTrends(c echo.Context) error {
	windowDays, err := intParam(c, "window_days", TopSymptomWindowDays)
	if err != nil {
		return err
	}

	records := h.store.LoadAll()
	now := time.Now()
	return c.JSON(http.StatusOK, trendsResponse{
		GeneratedAt:      now,
		WindowDays:       windowDays,
		SymptomFrequency: SymptomFrequency(records, now, windowDays),
		AgeDistribution:  AgeDistribution(records, now, windowDays),
	})
}

type dailySeriesResponse struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Days        int             `json:"days"`
	Series      []SymptomSeries `json:"series"`
}

// GetDailySeries returns per-day counts for the top symptoms.
func (h *Handler) GetDailySeries(c echo.Context) error {
	topN, err := intParam(c, "top", DefaultTopN)
	if err != nil {
		return err
	}
	days, err := intParam(c, "days", DefaultSeriesDays)
	if err != nil {
		return err
	}

	now := time.Now()
	return c.JSON(http.StatusOK, dailySeriesResponse{
		GeneratedAt: now,
		Days:        days,
		Series:      DailySeries(h.store.LoadAll(), now, topN, days),
	})
}

type summaryResponse struct {
	GeneratedAt time.Time `json:"generated_at"`
	WindowDays  int       `json:"window_days"`
	Summary
}

// GetSummary returns headline statistics for a trailing window.
func (h *Handler) GetSummary(c echo.Context) error {
	windowDays, err := intParam(c, "window_days", TopSymptomWindowDays)
	if err != nil {
		return err
	}

	now := time.Now()
	return c.JSON(http.StatusOK, summaryResponse{
		GeneratedAt: now,
		WindowDays:  windowDays,
		Summary:     Summarize(h.store.LoadAll(), now, windowDays),
	})
}

func intParam(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return v, nil
}
