package service

import (
	"strings"

	"github.com/sirupsen/logrus"

	"geotab-reformatter/internal/models"
)

const (
	maxSpeedPrefix      = "Max Speed: "
	maxRoadSpeedPrefix  = "Max road speed: "
	forwardGForcePrefix = "Acceleration forward or braking: "
	sideGForcePrefix    = "Acceleration side to side: "
)

// FieldSet names the columns the grouping engine reads from a record
type FieldSet struct {
	Device    string
	Driver    string
	Distance  string
	Duration  string
	Start     string
	Stop      string
	Location  string
	Details   string
	ExtraInfo string
}

var (
	ExceptionFields = FieldSet{
		Device:    ".Device.DeviceName",
		Driver:    ".Driver.UserFirstName",
		Distance:  "ExceptionDistance",
		Duration:  "ExceptionDuration",
		Start:     "ExceptionDetailStartTime",
		Location:  "ExceptionDetailLocation",
		Details:   "ExceptionDetailDetails",
		ExtraInfo: "ExceptionDetailExtraInfo",
	}

	TripFields = FieldSet{
		Device:   "DeviceName",
		Driver:   "UserFirstName",
		Distance: "TripDetailDistance",
		Duration: "TripDetailDrivingDuraion",
		Start:    "TripDetailStartDateTime",
		Stop:     "TripDetailStopDateTime",
		Location: "TripDetailLocation",
	}
)

// FieldsFor returns the grouping columns of a report kind
func FieldsFor(kind models.ReportKind) FieldSet {
	if kind == models.KindTrips {
		return TripFields
	}
	return ExceptionFields
}

// GroupResult is the device tree plus counts of records the engine could not fully use
type GroupResult struct {
	Devices      []models.DeviceGroup
	Unrecognized int
	Malformed    int
}

// GroupRecords folds records into devices then drivers, both in first-seen order.
// Every record yields a TripEntry; speeding and harsh-driving categories additionally
// yield a SpeedingEntry or HarshEventEntry.
func GroupRecords(records []models.NormalizedRecord, fields FieldSet, log *logrus.Logger) *GroupResult {
	result := &GroupResult{}
	deviceIndex := make(map[string]int)
	driverIndex := make(map[string]map[string]int)

	for i, rec := range records {
		device := rec[fields.Device]
		di, ok := deviceIndex[device]
		if !ok {
			di = len(result.Devices)
			deviceIndex[device] = di
			driverIndex[device] = make(map[string]int)
			result.Devices = append(result.Devices, models.DeviceGroup{Device: device})
		}
		dg := &result.Devices[di]

		driver := rec[fields.Driver]
		ri, ok := driverIndex[device][driver]
		if !ok {
			ri = len(dg.Drivers)
			driverIndex[device][driver] = ri
			dg.Drivers = append(dg.Drivers, models.DriverGroup{Driver: driver})
		}
		drv := &dg.Drivers[ri]

		var category models.Category
		if fields.Details != "" {
			category = models.ParseCategory(rec[fields.Details])
		}

		var maxSpeed, maxRoadSpeed string
		if category.IsSpeeding() {
			var ok bool
			maxSpeed, maxRoadSpeed, ok = ParseSpeedingInfo(rec[fields.ExtraInfo])
			if !ok {
				result.Malformed++
				log.WithFields(logrus.Fields{
					"record":     i,
					"device":     device,
					"extra_info": rec[fields.ExtraInfo],
				}).Warn("Speeding extra info not in expected format")
			}
		}

		drv.Trips = append(drv.Trips, models.TripEntry{
			Mileage:         rec[fields.Distance],
			Duration:        rec[fields.Duration],
			MaxSpeed:        maxSpeed,
			Beginning:       rec[fields.Start],
			End:             rec[fields.Stop],
			InitialLocation: rec[fields.Location],
		})

		switch {
		case category.IsSpeeding():
			drv.Incidents = append(drv.Incidents, models.SpeedingEntry{
				Duration:        rec[fields.Duration],
				MaxSpeed:        maxSpeed,
				MaxRoadSpeed:    maxRoadSpeed,
				Mileage:         rec[fields.Distance],
				Beginning:       rec[fields.Start],
				InitialLocation: rec[fields.Location],
			})
		case category.IsHarshEvent():
			gForce, ok := ParseGForceInfo(rec[fields.ExtraInfo])
			if !ok {
				result.Malformed++
				log.WithFields(logrus.Fields{
					"record":     i,
					"device":     device,
					"extra_info": rec[fields.ExtraInfo],
				}).Warn("Harsh event extra info not in expected format")
			}
			drv.Violations = append(drv.Violations, models.HarshEventEntry{
				Violation:       rec[fields.Details],
				GForceValue:     gForce,
				Duration:        rec[fields.Duration],
				Mileage:         rec[fields.Distance],
				Beginning:       rec[fields.Start],
				InitialLocation: rec[fields.Location],
			})
		case category == models.CategoryUnrecognized:
			result.Unrecognized++
			log.WithFields(logrus.Fields{
				"record":   i,
				"device":   device,
				"category": rec[fields.Details],
			}).Warn("Unrecognized exception category")
		}
	}

	return result
}

// ParseSpeedingInfo splits "Max Speed: 120 km/h (Max road speed: 100 km/h)" into
// "120 km/h" and "100 km/h". ok is false when the text has no "(" section; whatever
// could be read is still returned.
func ParseSpeedingInfo(info string) (maxSpeed, maxRoadSpeed string, ok bool) {
	before, after, found := strings.Cut(info, "(")
	maxSpeed = dropLast(strings.Replace(before, maxSpeedPrefix, "", 1))
	if !found {
		return maxSpeed, "", false
	}
	// only the text up to a second "(" counts
	after, _, _ = strings.Cut(after, "(")
	maxRoadSpeed = dropLast(strings.Replace(after, maxRoadSpeedPrefix, "", 1))
	return maxSpeed, maxRoadSpeed, true
}

// ParseGForceInfo strips the acceleration prefix from harsh-event extra info.
// ok is false for empty text or text carrying neither known prefix.
func ParseGForceInfo(info string) (string, bool) {
	switch {
	case strings.Contains(info, forwardGForcePrefix):
		return strings.Replace(info, forwardGForcePrefix, "", 1), true
	case strings.Contains(info, sideGForcePrefix):
		return strings.Replace(info, sideGForcePrefix, "", 1), true
	}
	return info, false
}

func dropLast(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(r[:len(r)-1])
}
