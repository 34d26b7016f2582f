package service

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"geotab-reformatter/internal/models"
)

// DataSheetName is the worksheet Geotab writes report rows to
const DataSheetName = "Data"

type ExcelService struct {
	logger *logrus.Logger
}

func NewExcelService(logger *logrus.Logger) *ExcelService {
	return &ExcelService{logger: logger}
}

// IsExcelFileName checks the final dot segment, case-insensitively, against .xls and .xlsx
func IsExcelFileName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".xls" || ext == ".xlsx"
}

// ReadDataSheet parses an uploaded workbook and returns its Data sheet
func (s *ExcelService) ReadDataSheet(fileName string, data []byte) (*models.RawSheet, error) {
	if !IsExcelFileName(fileName) {
		return nil, fmt.Errorf("%s: %w", fileName, ErrWrongExtension)
	}

	if strings.ToLower(filepath.Ext(fileName)) == ".xls" {
		return s.readXLS(data)
	}
	return s.readXLSX(data)
}

func (s *ExcelService) readXLSX(data []byte) (*models.RawSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v: %w", err, ErrReadFailure)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(DataSheetName); err != nil || idx < 0 {
		return nil, ErrMissingDataSheet
	}

	// raw values keep date serials and fractional-day durations numeric
	rows, err := f.GetRows(DataSheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %v: %w", err, ErrReadFailure)
	}

	s.logger.WithField("rows", len(rows)).Debug("Read xlsx Data sheet")
	return &models.RawSheet{Name: DataSheetName, Rows: rows}, nil
}

func (s *ExcelService) readXLS(data []byte) (sheet *models.RawSheet, err error) {
	// the BIFF decoder panics on some malformed input
	defer func() {
		if r := recover(); r != nil {
			sheet = nil
			err = fmt.Errorf("failed to decode xls: %v: %w", r, ErrReadFailure)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v: %w", err, ErrReadFailure)
	}
	if wb == nil {
		return nil, fmt.Errorf("failed to open Excel file: no workbook stream: %w", ErrReadFailure)
	}

	index := -1
	var ws *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		if sh := wb.GetSheet(i); sh != nil && sh.Name == DataSheetName {
			index, ws = i, sh
			break
		}
	}
	if ws == nil {
		return nil, ErrMissingDataSheet
	}

	cells, err := dataSheetCells(data, index)
	if err != nil {
		return nil, fmt.Errorf("failed to read cells: %v: %w", err, ErrReadFailure)
	}

	rows := make([][]string, cells.maxRow+1)
	for r := range rows {
		width := cells.width[uint16(r)]
		if width == 0 {
			continue
		}
		row := xlsRow(ws, r)
		out := make([]string, width)
		for c := range out {
			if v, ok := cells.values[cellRef{uint16(r), uint16(c)}]; ok {
				out[c] = v
			} else if row != nil {
				out[c] = row.Col(c)
			}
		}
		rows[r] = out
	}

	s.logger.WithField("rows", len(rows)).Debug("Read xls Data sheet")
	return &models.RawSheet{Name: DataSheetName, Rows: rows}, nil
}

// dataSheetCells scans the typed cells of the sheet at the given position
func dataSheetCells(data []byte, index int) (*xlsCells, error) {
	stream, err := workbookStream(data)
	if err != nil {
		return nil, err
	}
	offsets, err := sheetOffsets(stream)
	if err != nil {
		return nil, err
	}
	if index >= len(offsets) {
		return nil, fmt.Errorf("sheet %d has no BOUNDSHEET record", index)
	}
	return scanXLSCells(stream, offsets[index])
}

// xlsRow returns nil for rows the decoder never saw; WorkSheet.Row
// dereferences them unchecked.
func xlsRow(ws *xls.WorkSheet, r int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(r)
}

// WriteReport assembles the worksheets, in the given order, into one workbook
func (s *ExcelService) WriteReport(w io.Writer, sheets []models.Worksheet) error {
	f, err := s.buildReport(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveReport is WriteReport to a file path
func (s *ExcelService) SaveReport(path string, sheets []models.Worksheet) error {
	f, err := s.buildReport(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (s *ExcelService) buildReport(sheets []models.Worksheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no worksheets to write")
	}

	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			err = f.SetSheetName("Sheet1", sheet.Name)
		} else {
			_, err = f.NewSheet(sheet.Name)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}

		width := 0
		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				f.Close()
				return nil, err
			}
			values := row
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write %s row %d: %w", sheet.Name, r+1, err)
			}
			if len(row) > width {
				width = len(row)
			}
		}

		if width == 0 {
			continue
		}
		lastCol, _ := excelize.ColumnNumberToName(width)
		f.SetCellStyle(sheet.Name, "A1", lastCol+"1", headerStyle)

		// Set column widths for better readability
		f.SetColWidth(sheet.Name, "A", "B", 20)
		f.SetColWidth(sheet.Name, "C", lastCol, 18)
	}

	f.SetActiveSheet(0)
	return f, nil
}
