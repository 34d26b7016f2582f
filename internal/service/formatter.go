package service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"

	"geotab-reformatter/internal/models"
)

const (
	exceptionStartField = "ExceptionDetailStartTime"
	tripStartField      = "TripDetailStartDateTime"

	secondsPerDay = 86400
)

// spreadsheet day 0; valid for every serial after 1900-02-28
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// timestamp layouts found in text cells
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// a date cell rendered as year.month; it parses as a number but the day
// and time are gone
var monthOnlyPattern = regexp.MustCompile(`^\d{4}\.\d{2}$`)

type temporalFields struct {
	start          string
	stop           string
	duration       string
	distance       string
	durationInDays bool
}

var (
	exceptionTemporal = temporalFields{
		start:    exceptionStartField,
		duration: "ExceptionDuration",
		distance: "ExceptionDistance",
	}
	tripTemporal = temporalFields{
		start:          tripStartField,
		stop:           "TripDetailStopDateTime",
		duration:       "TripDetailDrivingDuraion",
		distance:       "TripDetailDistance",
		durationInDays: true,
	}
)

// FormatResult holds the display-ready copies of the records and the covered date range
type FormatResult struct {
	Records []models.NormalizedRecord
	MinDate string
	MaxDate string
}

// FormatRecords renders dates, durations and distances for display. It only acts when
// header carries a recognized start-time column; otherwise records come back unchanged.
func FormatRecords(header []string, records []models.NormalizedRecord) (*FormatResult, error) {
	fields, ok := temporalFieldsFor(header)
	if !ok {
		return &FormatResult{Records: records}, nil
	}

	minSerial := math.Inf(1)
	maxSerial := math.Inf(-1)
	out := make([]models.NormalizedRecord, 0, len(records))

	for i, rec := range records {
		formatted := rec.Clone()

		if raw, ok := rec[fields.start]; ok {
			serial, err := parseSerial(raw)
			if err != nil {
				return nil, fmt.Errorf("record %d: %s: %w", i, fields.start, err)
			}
			minSerial = math.Min(minSerial, serial)
			maxSerial = math.Max(maxSerial, serial)

			if formatted[fields.start], err = FormatDateTime(serial); err != nil {
				return nil, fmt.Errorf("record %d: %s: %w", i, fields.start, err)
			}
		}

		if fields.stop != "" {
			if raw, ok := rec[fields.stop]; ok {
				serial, err := parseSerial(raw)
				if err != nil {
					return nil, fmt.Errorf("record %d: %s: %w", i, fields.stop, err)
				}
				if formatted[fields.stop], err = FormatDateTime(serial); err != nil {
					return nil, fmt.Errorf("record %d: %s: %w", i, fields.stop, err)
				}
			}
		}

		if raw, ok := rec[fields.duration]; ok {
			v, err := parseNumber(raw)
			if err != nil {
				return nil, fmt.Errorf("record %d: %s: %w", i, fields.duration, err)
			}
			if fields.durationInDays {
				v *= secondsPerDay
			}
			formatted[fields.duration] = FormatDuration(v)
		}

		if raw, ok := rec[fields.distance]; ok {
			v, err := parseNumber(raw)
			if err != nil {
				return nil, fmt.Errorf("record %d: %s: %w", i, fields.distance, err)
			}
			formatted[fields.distance] = FormatDistance(v)
		}

		out = append(out, formatted)
	}

	result := &FormatResult{Records: out}
	if minSerial <= maxSerial {
		var err error
		if result.MinDate, err = FormatSummaryDate(minSerial); err != nil {
			return nil, err
		}
		if result.MaxDate, err = FormatSummaryDate(maxSerial); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func temporalFieldsFor(header []string) (temporalFields, bool) {
	var hasTrip bool
	for _, h := range header {
		switch h {
		case exceptionStartField:
			return exceptionTemporal, true
		case tripStartField:
			hasTrip = true
		}
	}
	return tripTemporal, hasTrip
}

// FormatDateTime renders a date serial as dd/mm/yyyy h:m:s AM/PM, to the nearest second
func FormatDateTime(serial float64) (string, error) {
	t, err := serialToTime(serial)
	if err != nil {
		return "", err
	}

	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	meridiem := "AM"
	if t.Hour() >= 12 {
		meridiem = "PM"
	}

	return fmt.Sprintf("%02d/%02d/%04d %d:%d:%d %s",
		t.Day(), int(t.Month()), t.Year(), hour, t.Minute(), t.Second(), meridiem), nil
}

// FormatSummaryDate renders a date serial as dd MMM yyyy (e.g. 05 Mar 2024)
func FormatSummaryDate(serial float64) (string, error) {
	t, err := serialToTime(serial)
	if err != nil {
		return "", err
	}
	return t.Format("02 Jan 2006"), nil
}

// FormatDuration renders a second count as HH:MM:SS using floor division
func FormatDuration(seconds float64) string {
	hours := math.Floor(seconds / 3600)
	minutes := math.Floor(math.Mod(seconds, 3600) / 60)
	secs := math.Floor(math.Mod(seconds, 60))
	return fmt.Sprintf("%02d:%02d:%02d", int64(hours), int64(minutes), int64(secs))
}

// FormatDistance renders a distance with exactly two decimals
func FormatDistance(d float64) string {
	return strconv.FormatFloat(d, 'f', 2, 64)
}

// serialToTime rounds to the nearest second before converting, so 0.9999 of a
// second never renders as the previous second.
func serialToTime(serial float64) (time.Time, error) {
	total := math.Round(serial * secondsPerDay)
	days := math.Floor(total / secondsPerDay)
	t, err := excelize.ExcelDateToTime(days, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date serial %v: %w", serial, err)
	}
	return t.Add(time.Duration(total-days*secondsPerDay) * time.Second), nil
}

func parseNumber(raw string) (float64, error) {
	v, err := cast.ToFloat64E(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("not a number %q: %w", raw, err)
	}
	return v, nil
}

func parseSerial(raw string) (float64, error) {
	if monthOnlyPattern.MatchString(strings.TrimSpace(raw)) {
		return 0, fmt.Errorf("month-only date %q has no day or time", raw)
	}
	if v, err := parseNumber(raw); err == nil {
		return v, nil
	}
	s := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Sub(serialEpoch).Hours() / 24, nil
		}
	}
	return 0, fmt.Errorf("not a date serial or timestamp %q", raw)
}
