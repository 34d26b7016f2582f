package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"geotab-reformatter/internal/models"
)

const readChunkSize = 32 * 1024

// ReportEngine runs the two pipelines of the add-in: ingesting one uploaded report
// into a FileInfo, and turning a pair of valid FileInfo records into the output workbook.
type ReportEngine struct {
	excel  *ExcelService
	logger *logrus.Logger
}

func NewReportEngine(excel *ExcelService, logger *logrus.Logger) *ReportEngine {
	return &ReportEngine{
		excel:  excel,
		logger: logger,
	}
}

// Report is the generated output, three worksheets in workbook order
type Report struct {
	Sheets       []models.Worksheet
	Devices      int
	Unrecognized int
	Malformed    int
}

// ReadUpload reads the whole upload into memory, giving up when ctx is done or the
// content exceeds limit bytes (limit <= 0 means unbounded).
func ReadUpload(ctx context.Context, r io.Reader, limit int64) ([]byte, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("upload read interrupted: %v: %w", err, ErrReadFailure)
		}
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])
		if limit > 0 && int64(buf.Len()) > limit {
			return nil, fmt.Errorf("upload exceeds %d bytes: %w", limit, ErrReadFailure)
		}
		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrReadFailure)
		}
	}
}

// Ingest validates and normalizes one uploaded report. On any error no FileInfo is
// returned; the caller resets its state to the empty record.
func (e *ReportEngine) Ingest(kind models.ReportKind, fileName string, data []byte) (info *models.FileInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			info = nil
			err = fmt.Errorf("panic while ingesting %s: %v: %w", fileName, r, ErrProcessingFailure)
		}
	}()

	log := e.logger.WithFields(logrus.Fields{"kind": kind, "file": fileName})

	if fileName == "" {
		return nil, ErrNoFileSelected
	}

	sheet, err := e.excel.ReadDataSheet(fileName, data)
	if err != nil {
		log.WithError(err).Warn("Rejected upload")
		return nil, err
	}

	required := RequiredColumns(kind)
	if len(sheet.Rows) <= HeaderRowIndex {
		err := &SchemaError{Missing: required}
		log.WithError(err).Warn("Upload has no header row")
		return nil, err
	}

	header := sheet.Rows[HeaderRowIndex]
	if err := ValidateColumns(header, required); err != nil {
		log.WithError(err).Warn("Upload header does not match report layout")
		return nil, err
	}

	records := NormalizeRows(header, sheet.Rows[DataRowIndex:])

	formatted, err := FormatRecords(header, records)
	if err != nil {
		log.WithError(err).Error("Failed to format report rows")
		return nil, fmt.Errorf("failed to format rows: %v: %w", err, ErrProcessingFailure)
	}

	info = &models.FileInfo{
		Kind:          kind,
		Valid:         true,
		FileName:      fileName,
		NumRows:       len(sheet.Rows),
		NumData:       len(formatted.Records),
		HeaderColumns: HeaderColumns(header),
		MinDate:       formatted.MinDate,
		MaxDate:       formatted.MaxDate,
		DataContent:   formatted.Records,
	}

	log.WithFields(logrus.Fields{
		"rows":     info.NumRows,
		"records":  info.NumData,
		"min_date": info.MinDate,
		"max_date": info.MaxDate,
	}).Info("Report uploaded")

	return info, nil
}

// Generate groups both reports and emits the Trip Details, Speedings and Eco Driving sheets
func (e *ReportEngine) Generate(exceptions, trips *models.FileInfo) (report *Report, err error) {
	if exceptions == nil || trips == nil || !exceptions.Valid || !trips.Valid {
		return nil, ErrReportNotReady
	}

	defer func() {
		if r := recover(); r != nil {
			report = nil
			err = fmt.Errorf("panic while generating report: %v: %w", r, ErrProcessingFailure)
		}
	}()

	tripGroups := GroupRecords(trips.DataContent, FieldsFor(trips.Kind), e.logger)
	exceptionGroups := GroupRecords(exceptions.DataContent, FieldsFor(exceptions.Kind), e.logger)

	report = &Report{
		Sheets: []models.Worksheet{
			EmitTripDetails(tripGroups.Devices),
			EmitSpeedings(exceptionGroups.Devices),
			EmitEcoDriving(exceptionGroups.Devices),
		},
		Devices:      len(tripGroups.Devices) + len(exceptionGroups.Devices),
		Unrecognized: tripGroups.Unrecognized + exceptionGroups.Unrecognized,
		Malformed:    tripGroups.Malformed + exceptionGroups.Malformed,
	}

	e.logger.WithFields(logrus.Fields{
		"trip_rows":     len(report.Sheets[0].Rows) - 1,
		"speeding_rows": len(report.Sheets[1].Rows) - 1,
		"eco_rows":      len(report.Sheets[2].Rows) - 1,
		"unrecognized":  report.Unrecognized,
		"malformed":     report.Malformed,
	}).Info("Report generated")

	return report, nil
}

// WriteReport serializes a generated report as an xlsx workbook
func (e *ReportEngine) WriteReport(w io.Writer, report *Report) error {
	if err := e.excel.WriteReport(w, report.Sheets); err != nil {
		e.logger.WithError(err).Error("Failed to assemble workbook")
		return fmt.Errorf("%v: %w", err, ErrProcessingFailure)
	}
	return nil
}

// SaveReport serializes a generated report to path
func (e *ReportEngine) SaveReport(path string, report *Report) error {
	if err := e.excel.SaveReport(path, report.Sheets); err != nil {
		e.logger.WithError(err).Error("Failed to assemble workbook")
		return fmt.Errorf("%v: %w", err, ErrProcessingFailure)
	}
	return nil
}
