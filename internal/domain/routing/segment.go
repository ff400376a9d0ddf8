package routing

import (
	"fmt"

	"github.com/minsukang/tripweaver/internal/domain/geo"
)

// Special segment ids; stable wire contract in emitted SegmentKeys
const (
	OriginID        = "__origin__"
	DestinationID   = "__destination__"
	AccommodationID = "__accommodation_0__"
)

// TrafficType tags a transit subpath's mode. The numeric values are the
// provider's wire codes and must not change.
type TrafficType int

const (
	TrafficSubway       TrafficType = 1
	TrafficBus          TrafficType = 2
	TrafficWalk         TrafficType = 3
	TrafficRail         TrafficType = 10
	TrafficIntercityBus TrafficType = 11
	TrafficExpressBus   TrafficType = 12
	TrafficMarine       TrafficType = 14
)

func (t TrafficType) String() string {
	switch t {
	case TrafficSubway:
		return "SUBWAY"
	case TrafficBus:
		return "BUS"
	case TrafficWalk:
		return "WALK"
	case TrafficRail:
		return "RAIL"
	case TrafficIntercityBus:
		return "INTERCITY_BUS"
	case TrafficExpressBus:
		return "EXPRESS_BUS"
	case TrafficMarine:
		return "MARINE"
	default:
		return fmt.Sprintf("TRAFFIC_%d", int(t))
	}
}

// IsWalk reports whether the subpath is traveled on foot
func (t TrafficType) IsWalk() bool {
	return t == TrafficWalk
}

// SegmentKey identifies a directed hop between two plan positions
type SegmentKey struct {
	FromID string `json:"fromId"`
	ToID   string `json:"toId"`
}

func (k SegmentKey) String() string {
	return k.FromID + "->" + k.ToID
}

// SubPath is one leg of a transit path
type SubPath struct {
	TrafficType    TrafficType  `json:"trafficType"`
	DistanceMeters float64      `json:"distance"`
	SectionMinutes float64      `json:"sectionTime"`
	StartCoord     *geo.LatLng  `json:"startCoord,omitempty"`
	EndCoord       *geo.LatLng  `json:"endCoord,omitempty"`
	StationCount   int          `json:"stationCount,omitempty"`
	Lane           string       `json:"lane,omitempty"`
	Way            string       `json:"way,omitempty"`
	PassStopCoords []geo.LatLng `json:"passStopCoords,omitempty"`
	Polyline       string       `json:"polyline,omitempty"`
}

// TransitDetails carries fare and per-leg breakdown for a transit path
type TransitDetails struct {
	TotalFare             int       `json:"totalFare"`
	TransferCount         int       `json:"transferCount"`
	WalkingTimeMinutes    float64   `json:"walkingTime"`
	WalkingDistanceMeters float64   `json:"walkingDistance"`
	SubPaths              []SubPath `json:"subPaths"`
}

// SegmentCost is the materialized travel cost for one segment
type SegmentCost struct {
	Key             SegmentKey      `json:"key"`
	DurationMinutes float64         `json:"durationMinutes"`
	DistanceMeters  float64         `json:"distanceMeters"`
	Transfers       *int            `json:"transfers,omitempty"`
	Polyline        string          `json:"polyline,omitempty"`
	Transit         *TransitDetails `json:"transitDetails,omitempty"`
	Fallback        bool            `json:"fallback,omitempty"`
	Warning         string          `json:"warning,omitempty"`
}

// CloneWithKey returns a deep copy of the cost with its key rewritten.
// Cache hits use this so callers never share transit detail slices.
func (c *SegmentCost) CloneWithKey(key SegmentKey) SegmentCost {
	out := *c
	out.Key = key
	if c.Transfers != nil {
		t := *c.Transfers
		out.Transfers = &t
	}
	if c.Transit != nil {
		details := *c.Transit
		details.SubPaths = make([]SubPath, len(c.Transit.SubPaths))
		copy(details.SubPaths, c.Transit.SubPaths)
		for i := range details.SubPaths {
			if sp := c.Transit.SubPaths[i]; sp.StartCoord != nil {
				v := *sp.StartCoord
				details.SubPaths[i].StartCoord = &v
			}
			if sp := c.Transit.SubPaths[i]; sp.EndCoord != nil {
				v := *sp.EndCoord
				details.SubPaths[i].EndCoord = &v
			}
			if sp := c.Transit.SubPaths[i]; len(sp.PassStopCoords) > 0 {
				stops := make([]geo.LatLng, len(sp.PassStopCoords))
				copy(stops, sp.PassStopCoords)
				details.SubPaths[i].PassStopCoords = stops
			}
		}
		out.Transit = &details
	}
	return out
}

// SegmentRequest asks the router for the cost of one coordinate pair
type SegmentRequest struct {
	Key  SegmentKey
	From geo.LatLng
	To   geo.LatLng
}
