package trip

import (
	"fmt"

	"github.com/minsukang/tripweaver/internal/domain/geo"
)

const (
	// DefaultStayMinutes is assumed when a waypoint does not declare one
	DefaultStayMinutes = 60
	// DefaultImportance is assumed when a waypoint does not declare one
	DefaultImportance = 1.0
)

// Waypoint is a place the traveler may visit; the basic unit of planning.
// Records are owned by the orchestrator for the duration of a planning call
// and shared read-only with all stages through an id-keyed map.
type Waypoint struct {
	ID             string     `json:"id" validate:"required"`
	Name           string     `json:"name"`
	Coord          geo.LatLng `json:"coord"`
	IsFixed        bool       `json:"isFixed,omitempty"`
	FixedDate      string     `json:"fixedDate,omitempty"`      // YYYY-MM-DD
	FixedStartTime string     `json:"fixedStartTime,omitempty"` // HH:MM
	DayLock        int        `json:"dayLock,omitempty"`        // 1-based day index, 0 = unlocked
	Importance     float64    `json:"importance,omitempty"`
	StayMinutes    int        `json:"stayMinutes,omitempty"`
}

// Pinned reports whether the waypoint carries a fixed start time and must
// keep its position within the day's sequence
func (w *Waypoint) Pinned() bool {
	return w.IsFixed && w.FixedStartTime != ""
}

// Removable reports whether reconciliation may exclude this waypoint
func (w *Waypoint) Removable() bool {
	return !w.IsFixed && w.DayLock == 0
}

func (w *Waypoint) String() string {
	return fmt.Sprintf("Waypoint(%s %s)", w.ID, w.Coord)
}

// WaypointMap is the read-only id -> waypoint snapshot threaded through the
// pipeline. Stages reference waypoints by id only, never by pointer identity.
type WaypointMap map[string]*Waypoint

// NewWaypointMap builds the id-keyed snapshot for a waypoint slice
func NewWaypointMap(waypoints []*Waypoint) WaypointMap {
	m := make(WaypointMap, len(waypoints))
	for _, w := range waypoints {
		m[w.ID] = w
	}
	return m
}

// Coords resolves the coordinates for an ordered id slice, skipping unknowns
func (m WaypointMap) Coords(ids []string) []geo.LatLng {
	coords := make([]geo.LatLng, 0, len(ids))
	for _, id := range ids {
		if w, ok := m[id]; ok {
			coords = append(coords, w.Coord)
		}
	}
	return coords
}
