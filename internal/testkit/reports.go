package testkit

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"geotab-reformatter/internal/service"
)

// ExceptionsHeader is the exceptions layout plus the optional detail and location columns
func ExceptionsHeader() []string {
	return append(service.ParseColumnList(service.ExceptionColumns),
		"ExceptionDetailDetails", "ExceptionDetailLocation")
}

// TripsHeader is the trips layout in export order
func TripsHeader() []string {
	return service.ParseColumnList(service.TripColumns)
}

// Exception describes one row of an exceptions export
type Exception struct {
	Device    string
	FirstName string
	LastName  string
	Rule      string
	Details   string
	ExtraInfo string
	Location  string
	Start     float64 // date serial
	Duration  float64 // seconds
	Distance  float64
}

// Trip describes one row of a trips export
type Trip struct {
	Device    string
	FirstName string
	LastName  string
	Location  string
	Start     float64 // date serial
	Stop      float64 // date serial
	Driving   float64 // fractional days
	Distance  float64
	MaxSpeed  float64
}

// Row lays the exception out under ExceptionsHeader
func (e Exception) Row() map[string]interface{} {
	row := map[string]interface{}{
		".Device.DeviceName":               e.Device,
		".Device.DeviceId":                 "b" + e.Device,
		".Driver.UserFirstName":            e.FirstName,
		".Driver.UserLastName":             e.LastName,
		".ExceptionRule.ExceptionRuleName": e.Rule,
		"ExceptionDetailStartTime":         e.Start,
		"ExceptionDuration":                e.Duration,
		"ExceptionDistance":                e.Distance,
		"ExceptionDetailExtraInfo":         e.ExtraInfo,
		"ExceptionDetailDetails":           e.Details,
		"ExceptionDetailLocation":          e.Location,
	}
	return row
}

// Row lays the trip out under TripsHeader
func (t Trip) Row() map[string]interface{} {
	return map[string]interface{}{
		"DeviceName":               t.Device,
		"DeviceId":                 "b" + t.Device,
		"UserFirstName":            t.FirstName,
		"UserLastName":             t.LastName,
		"TripDetailStartDateTime":  t.Start,
		"TripDetailStopDateTime":   t.Stop,
		"TripDetailDrivingDuraion": t.Driving,
		"TripDetailDistance":       t.Distance,
		"TripDetailLocation":       t.Location,
		"TripDetailMaximumSpeed":   t.MaxSpeed,
	}
}

// BuildWorkbook writes an xlsx with the Geotab layout: a title and blank meta rows,
// the header on row 10 and data from row 11. Row maps are keyed by header name.
func BuildWorkbook(sheetName string, header []string, rows []map[string]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	f.SetCellValue(sheetName, "A1", "Geotab report export")
	f.SetCellValue(sheetName, "A3", "Generated for testing")

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A10", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for r, row := range rows {
		values := make([]interface{}, len(header))
		for i, h := range header {
			if v, ok := row[h]; ok && v != "" {
				values[i] = v
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, 11+r)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExceptionsWorkbook builds a Data sheet exceptions export
func ExceptionsWorkbook(exceptions ...Exception) ([]byte, error) {
	rows := make([]map[string]interface{}, len(exceptions))
	for i, e := range exceptions {
		rows[i] = e.Row()
	}
	return BuildWorkbook(service.DataSheetName, ExceptionsHeader(), rows)
}

// TripsWorkbook builds a Data sheet trips export
func TripsWorkbook(trips ...Trip) ([]byte, error) {
	rows := make([]map[string]interface{}, len(trips))
	for i, t := range trips {
		rows[i] = t.Row()
	}
	return BuildWorkbook(service.DataSheetName, TripsHeader(), rows)
}

// ReadSheet returns every row of sheet in a workbook produced by the report writer
func ReadSheet(data []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetRows(sheet)
}

// SheetNames lists the sheets of a workbook in order
func SheetNames(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}
