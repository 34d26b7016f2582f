package service_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geotab-reformatter/internal/models"
	"geotab-reformatter/internal/service"
	"geotab-reformatter/internal/testkit"
	"geotab-reformatter/internal/utils"
)

func newEngine() *service.ReportEngine {
	logger := utils.NewDiscardLogger()
	return service.NewReportEngine(service.NewExcelService(logger), logger)
}

var (
	speeding = testkit.Exception{
		Device: "Truck1", FirstName: "Alice", LastName: "Smith", Rule: "Speeding",
		Details:   "Heavy Vehicle Speeding",
		ExtraInfo: "Max Speed: 120 km/h (Max road speed: 100 km/h)",
		Location:  "Main St", Start: 45000.5, Duration: 300, Distance: 2,
	}
	braking = testkit.Exception{
		Device: "Truck1", FirstName: "Alice", LastName: "Smith", Rule: "Harsh Braking",
		Details:   "Heavy Vehicle Harsh Braking",
		ExtraInfo: "Acceleration forward or braking: 0.52 g",
		Location:  "Depot Rd", Start: 45001.25, Duration: 3661, Distance: 0.123,
	}
	trip = testkit.Trip{
		Device: "Truck1", FirstName: "Alice", LastName: "Smith", Location: "Depot",
		Start: 45000.5, Stop: 45000.75, Driving: 0.25, Distance: 42.456,
	}
)

func TestIngestExceptionsEndToEnd(t *testing.T) {
	data, err := testkit.ExceptionsWorkbook(speeding, braking)
	require.NoError(t, err)

	engine := newEngine()
	info, err := engine.Ingest(models.KindExceptions, "exceptions.xlsx", data)
	require.NoError(t, err)

	assert.True(t, info.Valid)
	assert.Equal(t, "exceptions.xlsx", info.FileName)
	assert.Equal(t, 12, info.NumRows)
	assert.Equal(t, 2, info.NumData)
	assert.Equal(t, testkit.ExceptionsHeader(), info.HeaderColumns)
	assert.Equal(t, "15 Mar 2023", info.MinDate)
	assert.Equal(t, "16 Mar 2023", info.MaxDate)
	assert.Equal(t, "00:05:00", info.DataContent[0]["ExceptionDuration"])
	assert.Equal(t, "0.12", info.DataContent[1]["ExceptionDistance"])

	groups := service.GroupRecords(info.DataContent, service.ExceptionFields, utils.NewDiscardLogger())
	require.Len(t, groups.Devices, 1)
	require.Len(t, groups.Devices[0].Drivers, 1)
	drv := groups.Devices[0].Drivers[0]
	assert.Len(t, drv.Trips, 2)
	assert.Len(t, drv.Incidents, 1)
	assert.Len(t, drv.Violations, 1)

	speedings := service.EmitSpeedings(groups.Devices)
	require.Len(t, speedings.Rows, 2)
	assert.Equal(t, []string{"Truck1", "Alice", "00:05:00", "120 km/h", "100 km/h", "2.00",
		"15/03/2023 12:0:0 PM", "Main St"}, speedings.Rows[1][:8])

	eco := service.EmitEcoDriving(groups.Devices)
	require.Len(t, eco.Rows, 2)
	assert.Equal(t, []string{"Truck1", "Alice", "Heavy Vehicle Harsh Braking", "0.52 g", "01:01:01", "0.12",
		"", "16/03/2023 6:0:0 AM", "Depot Rd"}, eco.Rows[1][:9])
}

func TestIngestExceptionsXLS(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "exceptions.xls"))
	require.NoError(t, err)

	info, err := newEngine().Ingest(models.KindExceptions, "Exceptions.XLS", data)
	require.NoError(t, err)

	assert.Equal(t, 12, info.NumRows)
	assert.Equal(t, 2, info.NumData)
	assert.Equal(t, "15 Mar 2023", info.MinDate)
	assert.Equal(t, "16 Mar 2023", info.MaxDate)

	require.Len(t, info.DataContent, 2)
	first, second := info.DataContent[0], info.DataContent[1]
	assert.Equal(t, "15/03/2023 12:0:0 PM", first["ExceptionDetailStartTime"])
	assert.Equal(t, "00:05:00", first["ExceptionDuration"])
	assert.Equal(t, "2.50", first["ExceptionDistance"])
	assert.Equal(t, "16/03/2023 6:0:0 AM", second["ExceptionDetailStartTime"])
	assert.Equal(t, "01:01:01", second["ExceptionDuration"])
	assert.Equal(t, "0.75", second["ExceptionDistance"])
}

func TestIngestTrips(t *testing.T) {
	data, err := testkit.TripsWorkbook(trip)
	require.NoError(t, err)

	info, err := newEngine().Ingest(models.KindTrips, "Trips.XLSX", data)
	require.NoError(t, err)

	require.Len(t, info.DataContent, 1)
	rec := info.DataContent[0]
	assert.Equal(t, "06:00:00", rec["TripDetailDrivingDuraion"])
	assert.Equal(t, "42.46", rec["TripDetailDistance"])
	assert.Equal(t, "15/03/2023 6:0:0 PM", rec["TripDetailStopDateTime"])
}

func TestIngestFailures(t *testing.T) {
	exceptions, err := testkit.ExceptionsWorkbook(speeding)
	require.NoError(t, err)
	noData, err := testkit.BuildWorkbook("Sheet9", testkit.ExceptionsHeader(), nil)
	require.NoError(t, err)
	badValue, err := testkit.BuildWorkbook(service.DataSheetName, testkit.ExceptionsHeader(),
		[]map[string]interface{}{{"ExceptionDetailStartTime": 45000.0, "ExceptionDistance": "far"}})
	require.NoError(t, err)
	short, err := testkit.BuildWorkbook(service.DataSheetName, nil, nil)
	require.NoError(t, err)
	monthOnly, err := testkit.BuildWorkbook(service.DataSheetName, testkit.ExceptionsHeader(),
		[]map[string]interface{}{{"ExceptionDetailStartTime": "2023.03", "ExceptionDuration": 300.0}})
	require.NoError(t, err)
	stampedDuration, err := testkit.BuildWorkbook(service.DataSheetName, testkit.TripsHeader(),
		[]map[string]interface{}{{"TripDetailStartDateTime": 45000.5, "TripDetailDrivingDuraion": "1899-12-30T06:00:00Z"}})
	require.NoError(t, err)

	tests := []struct {
		name     string
		kind     models.ReportKind
		fileName string
		data     []byte
		want     error
	}{
		{"no file", models.KindExceptions, "", nil, service.ErrNoFileSelected},
		{"extension", models.KindExceptions, "exceptions.pdf", exceptions, service.ErrWrongExtension},
		{"data sheet", models.KindExceptions, "exceptions.xlsx", noData, service.ErrMissingDataSheet},
		{"wrong layout", models.KindTrips, "trips.xlsx", exceptions, service.ErrSchemaMismatch},
		{"no header row", models.KindExceptions, "exceptions.xlsx", short, service.ErrSchemaMismatch},
		{"unreadable", models.KindExceptions, "exceptions.xlsx", []byte("junk"), service.ErrReadFailure},
		{"bad value", models.KindExceptions, "exceptions.xlsx", badValue, service.ErrProcessingFailure},
		{"month-only start", models.KindExceptions, "exceptions.xlsx", monthOnly, service.ErrProcessingFailure},
		{"timestamp duration", models.KindTrips, "trips.xlsx", stampedDuration, service.ErrProcessingFailure},
	}

	engine := newEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := engine.Ingest(tt.kind, tt.fileName, tt.data)
			assert.Nil(t, info)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestGenerateReport(t *testing.T) {
	engine := newEngine()

	exData, err := testkit.ExceptionsWorkbook(speeding, braking)
	require.NoError(t, err)
	tripData, err := testkit.TripsWorkbook(trip, trip)
	require.NoError(t, err)

	exceptions, err := engine.Ingest(models.KindExceptions, "exceptions.xlsx", exData)
	require.NoError(t, err)
	trips, err := engine.Ingest(models.KindTrips, "trips.xlsx", tripData)
	require.NoError(t, err)

	report, err := engine.Generate(exceptions, trips)
	require.NoError(t, err)
	require.Len(t, report.Sheets, 3)
	assert.Len(t, report.Sheets[0].Rows, 3)
	assert.Len(t, report.Sheets[1].Rows, 2)
	assert.Len(t, report.Sheets[2].Rows, 2)

	var buf bytes.Buffer
	require.NoError(t, engine.WriteReport(&buf, report))

	rows, err := testkit.ReadSheet(buf.Bytes(), service.SheetTripDetails)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Truck1", "Alice", "42.46", "06:00:00", "", "15/03/2023 12:0:0 PM",
		"15/03/2023 6:0:0 PM", "Depot"}, rows[1][:8])
	assert.Equal(t, "", rows[2][0])
	assert.Equal(t, "", rows[2][1])
}

func TestGenerateRequiresBothReports(t *testing.T) {
	engine := newEngine()
	valid := &models.FileInfo{Kind: models.KindTrips, Valid: true}

	_, err := engine.Generate(models.NewFileInfo(models.KindExceptions), valid)
	assert.True(t, errors.Is(err, service.ErrReportNotReady))

	_, err = engine.Generate(nil, valid)
	assert.True(t, errors.Is(err, service.ErrReportNotReady))
}

func TestReadUpload(t *testing.T) {
	data, err := service.ReadUpload(context.Background(), strings.NewReader("abc"), 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)

	_, err = service.ReadUpload(context.Background(), strings.NewReader("abcdef"), 5)
	assert.True(t, errors.Is(err, service.ErrReadFailure))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = service.ReadUpload(ctx, strings.NewReader("abc"), 0)
	assert.True(t, errors.Is(err, service.ErrReadFailure))
}
