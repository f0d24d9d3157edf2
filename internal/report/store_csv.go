package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CSVStore persists reports in a single header-plus-rows CSV file. The file
// is lazily created on first access and only ever grows, except for the
// administrative delete which rewrites it atomically via a temp file.
//
// A parse failure on read is degraded to an empty result so read paths never
// error out; the failure is logged so "no data" and "store unreadable" can at
// least be told apart operationally. Rows that are individually malformed are
// skipped rather than discarding the rest of the history.
type CSVStore struct {
	path        string
	includeName bool
	logger      zerolog.Logger

	mu sync.Mutex
}

// NewCSVStore creates a store backed by the CSV file at path. includeName
// selects the schema variant that persists the reporter name column.
func NewCSVStore(path string, includeName bool, logger zerolog.Logger) *CSVStore {
	return &CSVStore{path: path, includeName: includeName, logger: logger}
}

// EnsureInitialized creates the file with the header row only if it is absent.
func (s *CSVStore) EnsureInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureInitialized()
}

func (s *CSVStore) ensureInitialized() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat store file: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create store file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns(s.includeName)); err != nil {
		return fmt.Errorf("write store header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write store header: %w", err)
	}
	return nil
}

// Append writes r as the new last row.
func (s *CSVStore) Append(r *HealthReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(); err != nil {
		return err
	}
	if err := s.checkHeader(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open store file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(r.Row(s.includeName)); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// LoadAll returns every parseable record in file order.
func (s *CSVStore) LoadAll() []*HealthReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _ := s.loadAll()
	return records
}

// loadAll returns the parsed records alongside the header actually found in
// the file, so delete can rewrite under the same schema the file was written
// with.
func (s *CSVStore) loadAll() ([]*HealthReport, []string) {
	f, err := os.Open(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("store unreadable, treating as empty")
		}
		return []*HealthReport{}, nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err != io.EOF {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("store header unreadable, treating as empty")
		}
		return []*HealthReport{}, nil
	}

	includeName, ok := schemaOf(header)
	if !ok {
		s.logger.Warn().Strs("header", header).Str("path", s.path).Msg("unknown store header, treating as empty")
		return []*HealthReport{}, nil
	}

	records := []*HealthReport{}
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.logger.Warn().Err(err).Int("line", line).Msg("skipping malformed store row")
			continue
		}
		rec, err := parseRow(row, includeName)
		if err != nil {
			s.logger.Warn().Err(err).Int("line", line).Msg("skipping malformed store row")
			continue
		}
		records = append(records, rec)
	}
	return records, header
}

// DeleteByPositions rewrites the store omitting the given zero-based
// positions. The new file is written to a temp file and renamed over the
// original so a failed rewrite leaves the prior state intact.
func (s *CSVStore) DeleteByPositions(positions []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(positions) == 0 {
		return nil
	}

	records, header := s.loadAll()
	if header == nil {
		header = Columns(s.includeName)
	}
	includeName, _ := schemaOf(header)

	drop := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(records) {
			return fmt.Errorf("%w: %d (store has %d rows)", ErrPositionOutOfRange, p, len(records))
		}
		drop[p] = true
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".symptom_log_*.csv")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("rewrite store: %w", err)
	}
	for i, rec := range records {
		if drop[i] {
			continue
		}
		if err := w.Write(rec.Row(includeName)); err != nil {
			tmp.Close()
			return fmt.Errorf("rewrite store: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("rewrite store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("rewrite store: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// checkHeader refuses to append under a schema different from the one the
// file was written with.
func (s *CSVStore) checkHeader() error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open store file: %w", err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read store header: %w", err)
	}
	includeName, ok := schemaOf(header)
	if !ok || includeName != s.includeName {
		return ErrSchemaMismatch
	}
	return nil
}

func schemaOf(header []string) (includeName bool, ok bool) {
	if equalColumns(header, Columns(false)) {
		return false, true
	}
	if equalColumns(header, Columns(true)) {
		return true, true
	}
	return false, false
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if strings.TrimSpace(a[i]) != b[i] {
			return false
		}
	}
	return true
}

func parseRow(row []string, includeName bool) (*HealthReport, error) {
	want := len(Columns(includeName))
	if len(row) != want {
		return nil, fmt.Errorf("expected %d fields, got %d", want, len(row))
	}

	rec := &HealthReport{}
	i := 0

	date, err := time.Parse(DateLayout, strings.TrimSpace(row[i]))
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	rec.SymptomDate = date
	i++

	if includeName {
		rec.ReporterName = strings.TrimSpace(row[i])
		i++
	}

	rec.AgeGroup = strings.TrimSpace(row[i])
	i++
	rec.Area = strings.TrimSpace(row[i])
	i++
	rec.Duration = strings.TrimSpace(row[i])
	i++
	rec.Symptoms = SplitSymptoms(row[i])
	i++

	severity, err := strconv.Atoi(strings.TrimSpace(row[i]))
	if err != nil {
		return nil, fmt.Errorf("parse severity: %w", err)
	}
	rec.Severity = severity
	i++

	ts, err := time.Parse(TimestampLayout, strings.TrimSpace(row[i]))
	if err != nil {
		return nil, fmt.Errorf("parse timestamp: %w", err)
	}
	rec.SubmittedAt = ts

	return rec, nil
}
