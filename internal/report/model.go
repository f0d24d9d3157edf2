package report

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Date layouts used in the persisted store and on the API surface.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// AgeGroups is the fixed enumeration of reporter age brackets.
var AgeGroups = []string{
	"Child (0-12)",
	"Teen/Youth (13-24)",
	"Adult (25-59)",
	"Senior (60+)",
}

// Durations is the fixed enumeration of symptom duration ranges.
var Durations = []string{
	"<1 day",
	"1-3 days",
	"4-7 days",
	">1 week",
}

// SymptomVocabulary is the closed set of symptom labels a report may carry.
var SymptomVocabulary = []string{
	"Fever",
	"Cough",
	"Headache",
	"Fatigue",
	"Sore throat",
	"Running nose",
	"Muscle pain",
	"Rash",
	"Stomach pain",
	"Nausea",
	"Diarrhea",
	"Loss of taste/smell",
	"Breathing difficulty",
}

var (
	validAgeGroups    = map[string]bool{}
	validDurations    = map[string]bool{}
	canonicalSymptoms = map[string]string{}
)

func init() {
	for _, g := range AgeGroups {
		validAgeGroups[g] = true
	}
	for _, d := range Durations {
		validDurations[d] = true
	}
	for _, s := range SymptomVocabulary {
		canonicalSymptoms[strings.ToLower(s)] = s
	}
}

// HealthReport is one submitted health observation. Reports are immutable
// once appended to the store; SubmittedAt is assigned at acceptance and is
// the sort key for most-recent-first views.
type HealthReport struct {
	SymptomDate  time.Time `json:"symptom_date"`
	ReporterName string    `json:"reporter_name,omitempty"`
	AgeGroup     string    `json:"age_group"`
	Area         string    `json:"area"`
	Duration     string    `json:"duration"`
	Symptoms     []string  `json:"symptoms"`
	Severity     int       `json:"severity"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// HasSymptom reports whether the report's symptom set contains the label,
// compared case-insensitively.
func (r *HealthReport) HasSymptom(label string) bool {
	for _, s := range r.Symptoms {
		if strings.EqualFold(s, label) {
			return true
		}
	}
	return false
}

// NormalizeArea trims and title-cases an area label so aggregation by area
// is not fragmented by formatting variance ("  koramangala " -> "Koramangala").
func NormalizeArea(area string) string {
	trimmed := strings.TrimSpace(area)
	if trimmed == "" {
		return ""
	}
	return cases.Title(language.English).String(trimmed)
}

// CanonicalSymptom resolves a label to its canonical vocabulary form,
// ignoring case and surrounding whitespace.
func CanonicalSymptom(label string) (string, bool) {
	canonical, ok := canonicalSymptoms[strings.ToLower(strings.TrimSpace(label))]
	return canonical, ok
}

// ValidAgeGroup reports whether g is a member of the age group enumeration.
func ValidAgeGroup(g string) bool {
	return validAgeGroups[g]
}

// ValidDuration reports whether d is a member of the duration enumeration.
func ValidDuration(d string) bool {
	return validDurations[d]
}

// JoinSymptoms serializes a symptom set into its canonical comma-joined form.
func JoinSymptoms(symptoms []string) string {
	return strings.Join(symptoms, ", ")
}

// SplitSymptoms parses the comma-joined serialized form back into labels.
func SplitSymptoms(serialized string) []string {
	var out []string
	for _, part := range strings.Split(serialized, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Columns returns the persisted column set, in order. The reporter-name
// schema variant adds a name column after date; otherwise the layouts are
// identical.
func Columns(includeName bool) []string {
	if includeName {
		return []string{"date", "name", "age_group", "area", "duration", "symptoms", "severity", "timestamp"}
	}
	return []string{"date", "age_group", "area", "duration", "symptoms", "severity", "timestamp"}
}

// Row serializes the report as one store row matching Columns(includeName).
func (r *HealthReport) Row(includeName bool) []string {
	row := []string{r.SymptomDate.Format(DateLayout)}
	if includeName {
		row = append(row, r.ReporterName)
	}
	return append(row,
		r.AgeGroup,
		r.Area,
		r.Duration,
		JoinSymptoms(r.Symptoms),
		strconv.Itoa(r.Severity),
		r.SubmittedAt.Format(TimestampLayout),
	)
}
