package models

// ReportKind distinguishes the two Geotab exports the add-in accepts
type ReportKind string

const (
	KindExceptions ReportKind = "exceptions"
	KindTrips      ReportKind = "trips"
)

// ParseReportKind maps a route parameter to a ReportKind
func ParseReportKind(s string) (ReportKind, bool) {
	switch ReportKind(s) {
	case KindExceptions:
		return KindExceptions, true
	case KindTrips:
		return KindTrips, true
	}
	return "", false
}

// NoFileName is shown while nothing has been uploaded for a kind
const NoFileName = "No file selected."

// RawSheet is the "Data" worksheet as read from the workbook, one []string per row,
// indexed by 0-based column position.
type RawSheet struct {
	Name string
	Rows [][]string
}

// NormalizedRecord maps a canonical column name (e.g. ExceptionDetailStartTime) to the cell text
type NormalizedRecord map[string]string

// Clone returns a shallow copy so later stages never mutate their input
func (r NormalizedRecord) Clone() NormalizedRecord {
	out := make(NormalizedRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FileInfo is the state of one uploaded report. It is replaced wholesale on every
// upload or reset and never edited in place.
type FileInfo struct {
	Kind          ReportKind         `json:"kind"`
	Valid         bool               `json:"valid"`
	FileName      string             `json:"file_name"`
	NumRows       int                `json:"num_rows"`
	NumData       int                `json:"num_data"`
	HeaderColumns []string           `json:"header_columns"`
	MinDate       string             `json:"min_date"`
	MaxDate       string             `json:"max_date"`
	DataContent   []NormalizedRecord `json:"data_content,omitempty"`
}

// NewFileInfo returns the empty record used on start-up and after any reset or failure
func NewFileInfo(kind ReportKind) *FileInfo {
	return &FileInfo{
		Kind:     kind,
		FileName: NoFileName,
	}
}

// FileInfoSummary is FileInfo without the row payload, for API responses
type FileInfoSummary struct {
	Kind          ReportKind `json:"kind"`
	Valid         bool       `json:"valid"`
	FileName      string     `json:"file_name"`
	NumRows       int        `json:"num_rows"`
	NumData       int        `json:"num_data"`
	HeaderColumns []string   `json:"header_columns"`
	MinDate       string     `json:"min_date"`
	MaxDate       string     `json:"max_date"`
}

func (f *FileInfo) Summary() FileInfoSummary {
	return FileInfoSummary{
		Kind:          f.Kind,
		Valid:         f.Valid,
		FileName:      f.FileName,
		NumRows:       f.NumRows,
		NumData:       f.NumData,
		HeaderColumns: f.HeaderColumns,
		MinDate:       f.MinDate,
		MaxDate:       f.MaxDate,
	}
}

// DeviceGroup collects every driver seen for one vehicle, in first-seen order
type DeviceGroup struct {
	Device  string        `json:"device"`
	Drivers []DriverGroup `json:"drivers"`
}

// DriverGroup is keyed by first name only; two drivers sharing a first name on the
// same device land in the same group.
type DriverGroup struct {
	Driver     string            `json:"driver"`
	Trips      []TripEntry       `json:"trips"`
	Incidents  []SpeedingEntry   `json:"incidents"`
	Violations []HarshEventEntry `json:"violations"`
}

// DisplayName is the driver label written to the worksheets
func (d DriverGroup) DisplayName() string {
	if d.Driver == "" {
		return "N/A"
	}
	return d.Driver
}

type TripEntry struct {
	Mileage         string `json:"mileage"`
	Duration        string `json:"duration"`
	MaxSpeed        string `json:"max_speed"`
	Beginning       string `json:"beginning"`
	End             string `json:"end"`
	InitialLocation string `json:"initial_location"`
	FinalLocation   string `json:"final_location"`
}

type SpeedingEntry struct {
	Duration        string `json:"duration"`
	MaxSpeed        string `json:"max_speed"`
	MaxRoadSpeed    string `json:"max_road_speed"`
	Mileage         string `json:"mileage"`
	Beginning       string `json:"beginning"`
	InitialLocation string `json:"initial_location"`
}

type HarshEventEntry struct {
	Violation       string `json:"violation"`
	GForceValue     string `json:"g_force_value"`
	Duration        string `json:"duration"`
	Mileage         string `json:"mileage"`
	MaxSpeed        string `json:"max_speed"`
	MaxRoadSpeed    string `json:"max_road_speed"`
	Beginning       string `json:"beginning"`
	InitialLocation string `json:"initial_location"`
}

// Worksheet is an array of rows ready for the workbook writer; Rows[0] is the header
type Worksheet struct {
	Name string
	Rows [][]string
}
