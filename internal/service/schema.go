package service

import (
	"strings"

	"geotab-reformatter/internal/models"
)

const (
	// ExceptionColumns is the header set of the Exceptions > Details > Advanced export
	ExceptionColumns = ".Device.DeviceName;.Device.DeviceId;.Driver.UserFirstName;.Driver.UserLastName;.ExceptionRule.ExceptionRuleName;ExceptionDetailStartTime;ExceptionDuration;ExceptionDistance;ExceptionDetailExtraInfo"

	// TripColumns is the header set of the trips detail export
	TripColumns = "DeviceName;DeviceId;DeviceComment;DeviceGroup;DeviceGroup|Company Group;UserFirstName;UserLastName;UserName;UserId;UserComment;DriverGroup;DriverGroup|Company Group;TripDetailRouteName;TripDetailStartDateTime;TripDetailDrivingDuraion;TripDetailStopDateTime;TripDetailDistance;TripDetailStopDuration;TripDetailLatitude;TripDetailLongitude;TripDetailLocation;Location.ZoneZoneTypes;Location.ZoneExternalReference;TripDetailPrivateTrip;TripDetailIdlingDuration;TripDetailMaximumSpeed;TripDetailSpeedRange1;TripDetailSpeedRange1Duration;TripDetailSpeedRange2;TripDetailSpeedRange2Duration;TripDetailSpeedRange3;TripDetailSpeedRange3Duration;TripDetailIsStartDriveWorkHours;TripDetailIsStopDriveWorkHours;TripDetailWorkHoursDistance;TripDetailWorkHoursTripTime;TripDetailWorkHoursStopTime;TripDetailExceptionRule1Duration;TripDetailExceptionRule1Count;TripDetailExceptionRule1Distance;TripDetailExceptionRule2Duration;TripDetailExceptionRule2Count;TripDetailExceptionRule2Distance;TripDetailExceptionRule3Duration;TripDetailExceptionRule3Count;TripDetailExceptionRule3Distance;TripDetailExceptionRule4Duration;TripDetailExceptionRule4Count;TripDetailExceptionRule4Distance;TripDetailExceptionRule5Duration;TripDetailExceptionRule5Count;TripDetailExceptionRule5Distance;TripDetailExceptionRule6Duration;TripDetailExceptionRule6Count;TripDetailExceptionRule6Distance;TripDetailExceptionRule7Duration;TripDetailExceptionRule7Count;TripDetailExceptionRule7Distance;TripDetailExceptionRule8Duration;TripDetailExceptionRule8Count;TripDetailExceptionRule8Distance;TripStartEVBatteryCharge;TripEndEVBatteryCharge;TripElectricEnergyUsed;TripElectricEnergyUsedWhileDriving;TripElectricEnergyUsedWhileIdling;TripElectricEnergyEconomy;TripDetailFuelConsumed"

	// HeaderRowIndex is the 0-based row holding column names; data follows immediately
	HeaderRowIndex = 9
	DataRowIndex   = HeaderRowIndex + 1
)

// ParseColumnList splits a semicolon-delimited column literal, dropping empty entries
func ParseColumnList(s string) []string {
	var cols []string
	for _, c := range strings.Split(s, ";") {
		if c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// RequiredColumns returns the header names an upload of kind must contain
func RequiredColumns(kind models.ReportKind) []string {
	if kind == models.KindTrips {
		return ParseColumnList(TripColumns)
	}
	return ParseColumnList(ExceptionColumns)
}

// ValidateColumns succeeds when every required name appears somewhere in header
func ValidateColumns(header []string, required []string) error {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}

	var missing []string
	seen := make(map[string]struct{}, len(required))
	for _, r := range required {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		if _, ok := present[r]; !ok {
			missing = append(missing, r)
		}
	}

	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
