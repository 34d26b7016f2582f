package service

import (
	"geotab-reformatter/internal/models"
)

// NormalizeRows re-keys each data row by the header name at the same column position.
// Empty cells and cells under an empty or missing header are dropped; rows left with
// nothing are not data and are skipped.
func NormalizeRows(header []string, rows [][]string) []models.NormalizedRecord {
	records := make([]models.NormalizedRecord, 0, len(rows))
	for _, row := range rows {
		rec := make(models.NormalizedRecord)
		for col, value := range row {
			if value == "" || col >= len(header) {
				continue
			}
			name := header[col]
			if name == "" {
				continue
			}
			rec[name] = value
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return records
}

// HeaderColumns returns the non-empty header names in column order
func HeaderColumns(header []string) []string {
	cols := make([]string, 0, len(header))
	for _, h := range header {
		if h != "" {
			cols = append(cols, h)
		}
	}
	return cols
}
