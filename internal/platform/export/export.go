// Package export renders a report sequence as a downloadable dataset, in
// the same column layout the store persists.
package export

import (
	"github.com/healthwatch/healthwatch/internal/report"
)

const sheetName = "Health Reports"

// CSV serializes records as header-plus-rows CSV bytes.
func CSV(records []*report.HealthReport, includeName bool) ([]byte, error) {
	return report.ExportCSV(records, includeName)
}

// Excel builds a single-sheet workbook with a styled header row.
func Excel(records []*report.HealthReport, includeName bool) ([]byte, error) {
	return report.ExportExcel(records, includeName)
}
