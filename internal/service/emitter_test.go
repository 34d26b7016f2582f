package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geotab-reformatter/internal/models"
)

func trips(mileage ...string) []models.TripEntry {
	out := make([]models.TripEntry, len(mileage))
	for i, m := range mileage {
		out[i] = models.TripEntry{Mileage: m}
	}
	return out
}

func TestEmitTripDetailsLabelSuppression(t *testing.T) {
	devices := []models.DeviceGroup{{
		Device: "Truck1",
		Drivers: []models.DriverGroup{
			{Driver: "Alice", Trips: trips("1.00", "2.00")},
			{Driver: "Bob", Trips: trips("3.00", "4.00")},
		},
	}}

	sheet := EmitTripDetails(devices)

	assert.Equal(t, SheetTripDetails, sheet.Name)
	require.Len(t, sheet.Rows, 5)
	assert.Equal(t, TripDetailsHeader, sheet.Rows[0])

	labels := [][2]string{}
	for _, row := range sheet.Rows[1:] {
		require.Len(t, row, len(TripDetailsHeader))
		labels = append(labels, [2]string{row[0], row[1]})
	}
	assert.Equal(t, [][2]string{
		{"Truck1", "Alice"},
		{"", ""},
		{"", "Bob"},
		{"", ""},
	}, labels)

	assert.Equal(t, "3.00", sheet.Rows[3][2])
	assert.Equal(t, []string{"", "", "", "", ""}, sheet.Rows[1][9:])
}

func TestEmitRowsRestartsLabelsPerDevice(t *testing.T) {
	devices := []models.DeviceGroup{
		{Device: "Truck1", Drivers: []models.DriverGroup{{Driver: "Alice", Trips: trips("1.00")}}},
		{Device: "Van", Drivers: []models.DriverGroup{
			{Driver: "", Trips: trips("2.00")},
			{Driver: "Alice", Trips: trips("3.00")},
		}},
	}

	rows := EmitTripDetails(devices).Rows

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Truck1", "Alice"}, rows[1][:2])
	assert.Equal(t, []string{"Van", "N/A"}, rows[2][:2])
	assert.Equal(t, []string{"", "Alice"}, rows[3][:2])
}

func TestEmitSpeedingsSkipsDriversWithoutIncidents(t *testing.T) {
	devices := []models.DeviceGroup{{
		Device: "Truck1",
		Drivers: []models.DriverGroup{
			{Driver: "Alice", Trips: trips("1.00")},
			{Driver: "Bob", Incidents: []models.SpeedingEntry{{
				Duration: "00:01:00", MaxSpeed: "120 km/h", MaxRoadSpeed: "100 km/h",
				Mileage: "1.50", Beginning: "15/03/2023 12:0:0 PM", InitialLocation: "Main St",
			}}},
		},
	}}

	sheet := EmitSpeedings(devices)

	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, []string{
		"Truck1", "Bob", "00:01:00", "120 km/h", "100 km/h", "1.50", "15/03/2023 12:0:0 PM", "Main St",
		"", "", "", "", "",
	}, sheet.Rows[1])
	assert.Len(t, sheet.Rows[1], len(SpeedingsHeader))
}

func TestEmitEcoDriving(t *testing.T) {
	devices := []models.DeviceGroup{{
		Device: "Truck1",
		Drivers: []models.DriverGroup{{Driver: "Alice", Violations: []models.HarshEventEntry{
			{Violation: "Heavy Vehicle Harsh Braking", GForceValue: "0.45 g"},
			{Violation: "Light Vehicle Harsh Turning", GForceValue: "0.3 g"},
		}}},
	}}

	sheet := EmitEcoDriving(devices)

	assert.Equal(t, SheetEcoDriving, sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, []string{"Truck1", "Alice", "Heavy Vehicle Harsh Braking", "0.45 g"}, sheet.Rows[1][:4])
	assert.Equal(t, []string{"", "", "Light Vehicle Harsh Turning", "0.3 g"}, sheet.Rows[2][:4])
	assert.Len(t, sheet.Rows[1], len(EcoDrivingHeader))
}

func TestEmitEmptyTreeIsHeaderOnly(t *testing.T) {
	assert.Equal(t, [][]string{SpeedingsHeader}, EmitSpeedings(nil).Rows)
}
