package service

import (
	"geotab-reformatter/internal/models"
)

const (
	SheetTripDetails = "Trip Details"
	SheetSpeedings   = "Speedings"
	SheetEcoDriving  = "Eco Driving"
)

var (
	TripDetailsHeader = []string{
		"Grouping", "Driver", "Mileage", "Driving Duration", "Max Speed", "Beginning", "End",
		"Initial Location", "Final Location", "BSP Trip", "Comment", "Comment By", "Date Updated",
		"Post Submission Notes",
	}
	SpeedingsHeader = []string{
		"Grouping", "Driver", "Duration", "Max Speed", "Speed Limit", "Mileage", "Beginning",
		"Initial Location", "BSP Trip", "Comment", "Comment By", "Date Updated", "Post Submission Notes",
	}
	EcoDrivingHeader = []string{
		"Grouping", "Driver", "Violation", "G-force Value", "Duration", "Mileage", "Max Speed",
		"Beginning", "Location", "BSP Trip", "Comment", "Comment By", "Date Update",
		"Post Submission Notes",
	}
)

// BSP Trip, Comment, Comment By, Date Updated, Post Submission Notes are filled in by hand later
var reservedColumns = []string{"", "", "", "", ""}

// EmitTripDetails flattens the trips of every driver into the Trip Details sheet
func EmitTripDetails(devices []models.DeviceGroup) models.Worksheet {
	rows := emitRows(TripDetailsHeader, devices, func(d models.DriverGroup) [][]string {
		out := make([][]string, 0, len(d.Trips))
		for _, t := range d.Trips {
			out = append(out, []string{
				t.Mileage, t.Duration, t.MaxSpeed, t.Beginning, t.End, t.InitialLocation, t.FinalLocation,
			})
		}
		return out
	})
	return models.Worksheet{Name: SheetTripDetails, Rows: rows}
}

// EmitSpeedings flattens speeding incidents into the Speedings sheet
func EmitSpeedings(devices []models.DeviceGroup) models.Worksheet {
	rows := emitRows(SpeedingsHeader, devices, func(d models.DriverGroup) [][]string {
		out := make([][]string, 0, len(d.Incidents))
		for _, s := range d.Incidents {
			out = append(out, []string{
				s.Duration, s.MaxSpeed, s.MaxRoadSpeed, s.Mileage, s.Beginning, s.InitialLocation,
			})
		}
		return out
	})
	return models.Worksheet{Name: SheetSpeedings, Rows: rows}
}

// EmitEcoDriving flattens harsh-driving violations into the Eco Driving sheet
func EmitEcoDriving(devices []models.DeviceGroup) models.Worksheet {
	rows := emitRows(EcoDrivingHeader, devices, func(d models.DriverGroup) [][]string {
		out := make([][]string, 0, len(d.Violations))
		for _, v := range d.Violations {
			out = append(out, []string{
				v.Violation, v.GForceValue, v.Duration, v.Mileage, v.MaxSpeed, v.Beginning, v.InitialLocation,
			})
		}
		return out
	})
	return models.Worksheet{Name: SheetEcoDriving, Rows: rows}
}

// emitRows walks devices, drivers and entries in insertion order. The first entry
// written for a device carries device and driver, the first entry of each later
// driver carries the driver only, and every other row leaves both blank.
func emitRows(header []string, devices []models.DeviceGroup, entries func(models.DriverGroup) [][]string) [][]string {
	rows := [][]string{append([]string(nil), header...)}

	for _, device := range devices {
		firstRow := true
		for _, driver := range device.Drivers {
			for i, cells := range entries(driver) {
				deviceLabel, driverLabel := "", ""
				switch {
				case i == 0 && firstRow:
					deviceLabel, driverLabel = device.Device, driver.DisplayName()
					firstRow = false
				case i == 0:
					driverLabel = driver.DisplayName()
				}

				row := make([]string, 0, 2+len(cells)+len(reservedColumns))
				row = append(row, deviceLabel, driverLabel)
				row = append(row, cells...)
				row = append(row, reservedColumns...)
				rows = append(rows, row)
			}
		}
	}

	return rows
}
