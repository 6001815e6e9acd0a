package models

import "time"

// Category classifies what kind of civic issue a report describes.
type Category string

const (
	CategoryPothole        Category = "POTHOLE"
	CategoryWaste          Category = "WASTE"
	CategoryPollution      Category = "POLLUTION"
	CategoryPublicLighting Category = "PUBLIC_LIGHTING"
	CategoryVandalism      Category = "VANDALISM"
	CategoryOther          Category = "OTHER"
)

// Categories lists every accepted category value.
var Categories = []Category{
	CategoryPothole,
	CategoryWaste,
	CategoryPollution,
	CategoryPublicLighting,
	CategoryVandalism,
	CategoryOther,
}

// SeverityLevel ranks how urgent a report is.
type SeverityLevel string

const (
	SeverityLow      SeverityLevel = "LOW"
	SeverityMedium   SeverityLevel = "MEDIUM"
	SeverityHigh     SeverityLevel = "HIGH"
	SeverityCritical SeverityLevel = "CRITICAL"
)

// SeverityLevels lists every accepted severity value.
var SeverityLevels = []SeverityLevel{
	SeverityLow,
	SeverityMedium,
	SeverityHigh,
	SeverityCritical,
}

// Status tracks where a report is in the municipal workflow.
type Status string

const (
	StatusPending  Status = "PENDING" // initial status for new reports
	StatusWorking  Status = "WORKING"
	StatusPlanning Status = "PLANNING"
	StatusDone     Status = "DONE"
)

// Statuses lists every accepted status value.
var Statuses = []Status{
	StatusPending,
	StatusWorking,
	StatusPlanning,
	StatusDone,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

func (s SeverityLevel) Valid() bool {
	for _, v := range SeverityLevels {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Report is a single civic issue submitted by a citizen.
type Report struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Date          time.Time     `json:"date"`
	Location      Location      `json:"location"`
	Address       string        `json:"address"`
	Category      Category      `json:"category"`
	SeverityLevel SeverityLevel `json:"severityLevel"`
	Status        Status        `json:"status"`
	Images        []string      `json:"images"`
	Description   string        `json:"description"`
	Upvotes       int           `json:"upvotes"`
}

// CreateReportRequest carries the client-supplied fields for a new report.
// The store assigns id, date, status and upvotes.
type CreateReportRequest struct {
	Name          string        `json:"name"`
	Location      *Location     `json:"location"`
	Address       string        `json:"address"`
	Category      Category      `json:"category"`
	SeverityLevel SeverityLevel `json:"severityLevel"`
	Images        []string      `json:"images"`
	Description   string        `json:"description"`
}

// UpdateReportRequest is a partial report patch. Only non-nil fields are
// applied; everything else keeps its stored value.
type UpdateReportRequest struct {
	Name          *string        `json:"name,omitempty"`
	Location      *Location      `json:"location,omitempty"`
	Address       *string        `json:"address,omitempty"`
	Category      *Category      `json:"category,omitempty"`
	SeverityLevel *SeverityLevel `json:"severityLevel,omitempty"`
	Status        *Status        `json:"status,omitempty"`
	Images        *[]string      `json:"images,omitempty"`
	Description   *string        `json:"description,omitempty"`
	Upvotes       *int           `json:"upvotes,omitempty"`
}

// Empty reports whether the patch carries no fields at all.
func (r *UpdateReportRequest) Empty() bool {
	return r.Name == nil && r.Location == nil && r.Address == nil &&
		r.Category == nil && r.SeverityLevel == nil && r.Status == nil &&
		r.Images == nil && r.Description == nil && r.Upvotes == nil
}

// ReportFilters narrows a listing. Zero values mean "no filter". All
// supplied filters must match (AND semantics). Search is a case-insensitive
// substring match over name, address and description.
type ReportFilters struct {
	Category Category
	Status   Status
	Severity SeverityLevel
	Search   string
}

// ViewPort is a lat/lng bounding box for map queries.
type ViewPort struct {
	LatMin float64
	LonMin float64
	LatMax float64
	LonMax float64
}

// MapCell is one aggregated bucket of report locations for map rendering.
// Weight carries the summed severity intensity used by heatmap views.
type MapCell struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int64   `json:"count"`
	Weight    float64 `json:"weight"`
}

// ReportEvent is broadcast over the websocket feed whenever the collection
// changes.
type ReportEvent struct {
	Type      string    `json:"type"` // "created", "updated" or "deleted"
	Report    *Report   `json:"report,omitempty"`
	ReportID  int       `json:"reportId"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)
