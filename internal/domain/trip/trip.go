package trip

import (
	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/routing"
)

// TripMode tags whether a trip returns to its starting point
type TripMode string

const (
	// ModeOpen is a one-way trip: no lodging and distinct start/end
	ModeOpen TripMode = "OPEN"
	// ModeLoop is a round trip: lodging is set, or start and end coincide
	ModeLoop TripMode = "LOOP"
)

// sameCoordEps is the tolerance under which start and end count as the same
// place for mode detection
const sameCoordEps = 1e-6

// DayWindow bounds a single day's usable time
type DayWindow struct {
	StartTime string `json:"startTime,omitempty"` // HH:MM
	EndTime   string `json:"endTime,omitempty"`   // HH:MM
}

// TripInput is the engine's request payload
type TripInput struct {
	TripID          string      `json:"tripId" validate:"required"`
	Days            int         `json:"days" validate:"required,min=1"`
	Start           geo.LatLng  `json:"start"`
	End             *geo.LatLng `json:"end,omitempty"`
	Lodging         *geo.LatLng `json:"lodging,omitempty"`
	Waypoints       []*Waypoint `json:"waypoints" validate:"required,min=1"`
	DailyMaxMinutes int         `json:"dailyMaxMinutes,omitempty"` // 0 = unbounded
	TripStartDate   string      `json:"tripStartDate,omitempty"`   // YYYY-MM-DD
	CheckInDate     string      `json:"checkInDate,omitempty"`     // YYYY-MM-DD
	CheckInTime     string      `json:"checkInTime,omitempty"`     // HH:MM
	DayWindows      []DayWindow `json:"dayWindows,omitempty"`      // aligned with days, optional
}

// Mode derives OPEN or LOOP from lodging and the start/end geometry
func (in *TripInput) Mode() TripMode {
	if in.Lodging != nil {
		return ModeLoop
	}
	if in.End != nil && in.Start.ApproxEquals(*in.End, sameCoordEps) {
		return ModeLoop
	}
	return ModeOpen
}

// DayLimitMinutes returns the effective time budget for a 1-based day index.
// A per-day window overrides the trip-wide daily budget; 0 means unbounded.
func (in *TripInput) DayLimitMinutes(dayIndex int) int {
	if dayIndex >= 1 && dayIndex <= len(in.DayWindows) {
		w := in.DayWindows[dayIndex-1]
		if start, okS := ParseClockMinutes(w.StartTime); okS {
			if end, okE := ParseClockMinutes(w.EndTime); okE && end > start {
				return end - start
			}
		}
	}
	return in.DailyMaxMinutes
}

// Zone is an ephemeral spatial grouping that lives from zoning until
// day-assignment
type Zone struct {
	ZoneID           string
	WaypointIDs      []string
	Centroid         geo.LatLng
	EstimatedMinutes int
	HasFixed         bool
	FixedDayIndex    int // 0-based; -1 when the zone carries no fixed date
}

// Cluster is the set of waypoints assigned to one calendar day
type Cluster struct {
	ClusterID   string     `json:"clusterId"`
	DayIndex    int        `json:"dayIndex"` // 1-based
	WaypointIDs []string   `json:"waypointIds"`
	Centroid    geo.LatLng `json:"centroid"`
}

// DayPlan is the ordered visit sequence for one day plus its exclusions
type DayPlan struct {
	DayIndex            int      `json:"dayIndex"`
	WaypointOrder       []string `json:"waypointOrder"`
	ExcludedWaypointIDs []string `json:"excludedWaypointIds"`
	CheckInBreakIndex   *int     `json:"checkInBreakIndex,omitempty"`
}

// TripOutput is the engine's response payload
type TripOutput struct {
	TripID       string                `json:"tripId"`
	Mode         TripMode              `json:"mode"`
	Clusters     []*Cluster            `json:"clusters"`
	DayPlans     []*DayPlan            `json:"dayPlans"`
	SegmentCosts []routing.SegmentCost `json:"segmentCosts"`
	Warnings     []string              `json:"warnings,omitempty"`
}
