package report

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Rejection reasons surfaced to the submitter.
const (
	ReasonMissingArea        = "missing area"
	ReasonNoSymptomsSelected = "no symptoms selected"
	ReasonUnknownSymptom     = "unknown symptom"
	ReasonInvalidDate        = "invalid date"
	ReasonFutureDate         = "date is in the future"
	ReasonSeverityOutOfRange = "severity must be between 1 and 10"
	ReasonInvalidAgeGroup    = "invalid age group"
	ReasonInvalidDuration    = "invalid duration"
)

// ValidationError is a rejected submission. It is recoverable: nothing was
// written and the submitter can correct the field and retry.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Submission holds the raw candidate field values of a report before
// validation. SymptomDate is the calendar date symptoms were experienced,
// not the submission time.
type Submission struct {
	SymptomDate  string   `json:"symptom_date"`
	ReporterName string   `json:"reporter_name"`
	AgeGroup     string   `json:"age_group"`
	Area         string   `json:"area"`
	Duration     string   `json:"duration"`
	Symptoms     []string `json:"symptoms"`
	Severity     int      `json:"severity"`
}

// Service gatekeeps the store: it validates and normalizes a submission and
// appends the resulting record. No partial writes occur on rejection.
type Service struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// Submit validates sub and appends the normalized record. It returns a
// *ValidationError on rejection; any other error is an IO failure from the
// store.
func (s *Service) Submit(sub Submission) (*HealthReport, error) {
	now := s.now()

	area := NormalizeArea(sub.Area)
	if area == "" {
		return nil, &ValidationError{Field: "area", Reason: ReasonMissingArea}
	}

	if len(sub.Symptoms) == 0 {
		return nil, &ValidationError{Field: "symptoms", Reason: ReasonNoSymptomsSelected}
	}
	symptoms := make([]string, 0, len(sub.Symptoms))
	for _, raw := range sub.Symptoms {
		canonical, ok := CanonicalSymptom(raw)
		if !ok {
			return nil, &ValidationError{Field: "symptoms", Reason: fmt.Sprintf("%s: %q", ReasonUnknownSymptom, raw)}
		}
		symptoms = append(symptoms, canonical)
	}

	date, err := time.Parse(DateLayout, sub.SymptomDate)
	if err != nil {
		return nil, &ValidationError{Field: "symptom_date", Reason: ReasonInvalidDate}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.After(today) {
		return nil, &ValidationError{Field: "symptom_date", Reason: ReasonFutureDate}
	}

	if sub.Severity < 1 || sub.Severity > 10 {
		return nil, &ValidationError{Field: "severity", Reason: ReasonSeverityOutOfRange}
	}
	if !ValidAgeGroup(sub.AgeGroup) {
		return nil, &ValidationError{Field: "age_group", Reason: ReasonInvalidAgeGroup}
	}
	if !ValidDuration(sub.Duration) {
		return nil, &ValidationError{Field: "duration", Reason: ReasonInvalidDuration}
	}

	rec := &HealthReport{
		SymptomDate:  date,
		ReporterName: sub.ReporterName,
		AgeGroup:     sub.AgeGroup,
		Area:         area,
		Duration:     sub.Duration,
		Symptoms:     symptoms,
		Severity:     sub.Severity,
		SubmittedAt:  now,
	}
	if err := s.store.Append(rec); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("area", rec.Area).
		Int("symptoms", len(rec.Symptoms)).
		Int("severity", rec.Severity).
		Msg("report accepted")
	return rec, nil
}
