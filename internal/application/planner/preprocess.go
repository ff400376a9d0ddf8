package planner

import (
	"strings"

	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/trip"
)

// mergeRadiusMeters is the proximity under which two waypoints are treated
// as the same place
const mergeRadiusMeters = 10.0

// Preprocess validates and dedupes the raw waypoint list.
//
// Rules, applied in order: entries lacking an id or with out-of-range
// coordinates are rejected; duplicate ids after the first are rejected;
// entries within 10 m of an already-accepted entry are merged into it.
// The input is never mutated; survivors are fresh copies with defaults
// applied, which keeps the operation idempotent.
func Preprocess(raw []*trip.Waypoint) ([]*trip.Waypoint, error) {
	accepted := make([]*trip.Waypoint, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, w := range raw {
		if w == nil || w.ID == "" || !w.Coord.Valid() {
			continue
		}
		if seen[w.ID] {
			continue
		}
		seen[w.ID] = true

		if near := findNearby(accepted, w.Coord); near != nil {
			mergeInto(near, normalize(w))
			continue
		}

		accepted = append(accepted, normalize(w))
	}

	if len(accepted) == 0 {
		return nil, trip.NewInvalidInputError("no valid waypoints after preprocessing")
	}
	return accepted, nil
}

// normalize copies the waypoint and fills defaulted attributes
func normalize(w *trip.Waypoint) *trip.Waypoint {
	out := *w
	if out.Importance <= 0 {
		out.Importance = trip.DefaultImportance
	}
	if out.StayMinutes <= 0 {
		out.StayMinutes = trip.DefaultStayMinutes
	}
	return &out
}

func findNearby(accepted []*trip.Waypoint, coord geo.LatLng) *trip.Waypoint {
	for _, a := range accepted {
		if geo.HaversineMeters(a.Coord, coord) <= mergeRadiusMeters {
			return a
		}
	}
	return nil
}

// mergeInto folds src into dst: names concatenate, pin flags OR, the first
// set day lock and fixed date win, importance and stay take the larger value
func mergeInto(dst *trip.Waypoint, src *trip.Waypoint) {
	if src.Name != "" && src.Name != dst.Name && !strings.Contains(dst.Name, src.Name) {
		if dst.Name == "" {
			dst.Name = src.Name
		} else {
			dst.Name = dst.Name + " / " + src.Name
		}
	}
	dst.IsFixed = dst.IsFixed || src.IsFixed
	if dst.DayLock == 0 {
		dst.DayLock = src.DayLock
	}
	if dst.FixedDate == "" {
		dst.FixedDate = src.FixedDate
	}
	if dst.FixedStartTime == "" {
		dst.FixedStartTime = src.FixedStartTime
	}
	if src.Importance > dst.Importance {
		dst.Importance = src.Importance
	}
	if src.StayMinutes > dst.StayMinutes {
		dst.StayMinutes = src.StayMinutes
	}
}
