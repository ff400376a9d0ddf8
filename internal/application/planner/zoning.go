package planner

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/minsukang/tripweaver/internal/application/common"
	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/trip"
	"github.com/minsukang/tripweaver/pkg/utils"
)

// unionFind is a plain weighted union-find over waypoint indices
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// BuildZones groups geographically close waypoints into zones so tight
// neighborhoods stay together when day budgets force rebalancing.
//
// The adjacency radius is the median k-th nearest neighbor distance scaled
// by the configured multiplier. A degenerate radius (zero or non-finite)
// collapses everything into a single zone.
func BuildZones(ctx context.Context, waypoints []*trip.Waypoint, in *trip.TripInput, cfg Config) []*trip.Zone {
	cfg = cfg.normalized()
	logger := common.LoggerFromContext(ctx)

	radius := adjacencyRadius(waypoints, cfg.KNearest, cfg.RadiusMultiplier)
	if radius <= 0 || math.IsInf(radius, 0) || math.IsNaN(radius) {
		logger.Log("WARN", "Degenerate adjacency radius, emitting a single zone", map[string]interface{}{
			"waypoint_count": len(waypoints),
		})
		return []*trip.Zone{makeZone(0, indices(len(waypoints)), waypoints)}
	}

	uf := newUnionFind(len(waypoints))
	for i := 0; i < len(waypoints); i++ {
		for j := i + 1; j < len(waypoints); j++ {
			if geo.HaversineMeters(waypoints[i].Coord, waypoints[j].Coord) <= radius {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := range waypoints {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}
	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	zones := make([]*trip.Zone, 0, len(groups))
	seq := 0
	for _, root := range roots {
		zones = append(zones, makeZone(seq, groups[root], waypoints))
		seq++
	}

	zones = splitByFixedDate(zones, waypoints, in, &seq)

	targetPerDay := utils.CeilDiv(len(waypoints), in.Days)
	sizeLimit := int(math.Ceil(float64(targetPerDay) * (1 + cfg.ClusterFlex + 0.1)))
	zones = splitOverloaded(zones, waypoints, sizeLimit, targetPerDay, in.DailyMaxMinutes, &seq)

	logger.Log("DEBUG", "Zoning complete", map[string]interface{}{
		"zone_count":    len(zones),
		"radius_meters": radius,
	})
	return zones
}

// adjacencyRadius estimates how far apart "adjacent" waypoints are: the
// median of per-point distances to the k-th nearest neighbor, scaled.
func adjacencyRadius(waypoints []*trip.Waypoint, k int, multiplier float64) float64 {
	if len(waypoints) < 2 {
		return 0
	}
	knn := make([]float64, 0, len(waypoints))
	for i := range waypoints {
		dists := make([]float64, 0, len(waypoints)-1)
		for j := range waypoints {
			if i == j {
				continue
			}
			dists = append(dists, geo.HaversineMeters(waypoints[i].Coord, waypoints[j].Coord))
		}
		sort.Float64s(dists)
		rank := utils.Min(k, len(dists)) - 1
		knn = append(knn, dists[rank])
	}
	sort.Float64s(knn)
	median := knn[len(knn)/2]
	if len(knn)%2 == 0 {
		median = (knn[len(knn)/2-1] + knn[len(knn)/2]) / 2
	}
	return median * multiplier
}

func indices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func makeZone(seq int, members []int, waypoints []*trip.Waypoint) *trip.Zone {
	ids := make([]string, 0, len(members))
	coords := make([]geo.LatLng, 0, len(members))
	minutes := 0
	hasFixed := false
	for _, i := range members {
		w := waypoints[i]
		ids = append(ids, w.ID)
		coords = append(coords, w.Coord)
		minutes += w.StayMinutes
		hasFixed = hasFixed || w.IsFixed
	}
	return &trip.Zone{
		ZoneID:           fmt.Sprintf("zone-%d", seq),
		WaypointIDs:      ids,
		Centroid:         geo.Centroid(coords),
		EstimatedMinutes: minutes,
		HasFixed:         hasFixed,
		FixedDayIndex:    -1,
	}
}

// splitByFixedDate splits zones whose members carry different fixedDate
// values: one sub-zone per date stamped with its day index, plus a free
// sub-zone for members without a date.
func splitByFixedDate(zones []*trip.Zone, waypoints []*trip.Waypoint, in *trip.TripInput, seq *int) []*trip.Zone {
	byID := trip.NewWaypointMap(waypoints)
	out := make([]*trip.Zone, 0, len(zones))

	for _, zone := range zones {
		byDate := make(map[string][]int)
		var free []int
		for _, id := range zone.WaypointIDs {
			w := byID[id]
			if _, ok := resolveFixedDay(w, in); !ok {
				free = append(free, indexOf(waypoints, id))
				continue
			}
			byDate[w.FixedDate] = append(byDate[w.FixedDate], indexOf(waypoints, id))
		}

		if len(byDate) == 0 {
			out = append(out, zone)
			continue
		}
		if len(byDate) == 1 && len(free) == 0 {
			// Homogeneous date: keep the zone, stamp its day
			for date := range byDate {
				day, _ := trip.DayIndexFromDates(in.TripStartDate, date)
				zone.FixedDayIndex = day
			}
			out = append(out, zone)
			continue
		}

		dates := make([]string, 0, len(byDate))
		for date := range byDate {
			dates = append(dates, date)
		}
		sort.Strings(dates)
		for _, date := range dates {
			sub := makeZone(*seq, byDate[date], waypoints)
			*seq++
			day, _ := trip.DayIndexFromDates(in.TripStartDate, date)
			sub.FixedDayIndex = day
			out = append(out, sub)
		}
		if len(free) > 0 {
			sub := makeZone(*seq, free, waypoints)
			*seq++
			out = append(out, sub)
		}
	}
	return out
}

// resolveFixedDay maps a waypoint's fixedDate onto a 0-based trip day.
// Out-of-range or unparseable dates leave the waypoint free.
func resolveFixedDay(w *trip.Waypoint, in *trip.TripInput) (int, bool) {
	if w == nil || w.FixedDate == "" {
		return 0, false
	}
	day, ok := trip.DayIndexFromDates(in.TripStartDate, w.FixedDate)
	if !ok || day < 0 || day >= in.Days {
		return 0, false
	}
	return day, true
}

func indexOf(waypoints []*trip.Waypoint, id string) int {
	for i, w := range waypoints {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// splitOverloaded splits zones too large for a single day along their
// dominant coordinate axis into contiguous equal-sized buckets. The trigger
// tolerates overfill up to sizeLimit, but once a split happens the buckets
// are sized to targetPerDay so each can fill a day on its own.
func splitOverloaded(zones []*trip.Zone, waypoints []*trip.Waypoint, sizeLimit, targetPerDay, minutesLimit int, seq *int) []*trip.Zone {
	out := make([]*trip.Zone, 0, len(zones))

	for _, zone := range zones {
		tooBig := sizeLimit > 0 && len(zone.WaypointIDs) > sizeLimit
		tooLong := minutesLimit > 0 && zone.EstimatedMinutes > minutesLimit
		if !tooBig && !tooLong {
			out = append(out, zone)
			continue
		}

		buckets := 2
		if targetPerDay > 0 {
			buckets = utils.Max(buckets, utils.CeilDiv(len(zone.WaypointIDs), targetPerDay))
		}
		if minutesLimit > 0 {
			buckets = utils.Max(buckets, utils.CeilDiv(zone.EstimatedMinutes, minutesLimit))
		}
		buckets = utils.Min(buckets, len(zone.WaypointIDs))
		if buckets < 2 {
			out = append(out, zone)
			continue
		}

		members := make([]int, 0, len(zone.WaypointIDs))
		for _, id := range zone.WaypointIDs {
			members = append(members, indexOf(waypoints, id))
		}
		sortByDominantAxis(members, waypoints)

		per := utils.CeilDiv(len(members), buckets)
		for start := 0; start < len(members); start += per {
			end := utils.Min(start+per, len(members))
			sub := makeZone(*seq, members[start:end], waypoints)
			*seq++
			sub.FixedDayIndex = zone.FixedDayIndex
			out = append(out, sub)
		}
	}
	return out
}

// sortByDominantAxis orders member indices along whichever coordinate axis
// spans the larger range
func sortByDominantAxis(members []int, waypoints []*trip.Waypoint) {
	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLng, maxLng := math.Inf(1), math.Inf(-1)
	for _, i := range members {
		c := waypoints[i].Coord
		minLat = math.Min(minLat, c.Lat)
		maxLat = math.Max(maxLat, c.Lat)
		minLng = math.Min(minLng, c.Lng)
		maxLng = math.Max(maxLng, c.Lng)
	}
	byLat := (maxLat - minLat) >= (maxLng - minLng)
	sort.SliceStable(members, func(a, b int) bool {
		ca, cb := waypoints[members[a]].Coord, waypoints[members[b]].Coord
		if byLat {
			return ca.Lat < cb.Lat
		}
		return ca.Lng < cb.Lng
	})
}

// AssignZonesToDays distributes zones over the trip's days. Zones stamped
// with a fixed day are pre-assigned; the rest are placed greedily in
// decreasing estimated-minutes order, each into the day minimizing
//
//	anchorCost + sizePenalty*sizeOverflow + minutesPenalty*minutesOverflow
//
// with ties breaking toward the lower day index.
func AssignZonesToDays(ctx context.Context, zones []*trip.Zone, waypoints []*trip.Waypoint, in *trip.TripInput, cfg Config) []*trip.Cluster {
	cfg = cfg.normalized()
	logger := common.LoggerFromContext(ctx)

	days := in.Days
	targetPerDay := utils.CeilDiv(len(waypoints), days)
	byID := trip.NewWaypointMap(waypoints)

	type dayState struct {
		zones   []*trip.Zone
		size    int
		minutes int
	}
	states := make([]dayState, days)

	assign := func(day int, z *trip.Zone) {
		states[day].zones = append(states[day].zones, z)
		states[day].size += len(z.WaypointIDs)
		states[day].minutes += z.EstimatedMinutes
	}

	var free []*trip.Zone
	for _, z := range zones {
		if z.FixedDayIndex >= 0 && z.FixedDayIndex < days {
			assign(z.FixedDayIndex, z)
			continue
		}
		free = append(free, z)
	}

	sort.SliceStable(free, func(a, b int) bool {
		return free[a].EstimatedMinutes > free[b].EstimatedMinutes
	})

	for _, z := range free {
		bestDay := 0
		bestScore := math.Inf(1)
		for day := 0; day < days; day++ {
			score := zonePlacementScore(z, day, days, states[day].size, states[day].minutes, targetPerDay, in, cfg)
			if score < bestScore {
				bestScore = score
				bestDay = day
			}
		}
		assign(bestDay, z)
	}

	clusters := make([]*trip.Cluster, days)
	for day := 0; day < days; day++ {
		var ids []string
		for _, z := range states[day].zones {
			ids = append(ids, z.WaypointIDs...)
		}
		clusters[day] = &trip.Cluster{
			ClusterID:   fmt.Sprintf("cluster-%d", day+1),
			DayIndex:    day + 1,
			WaypointIDs: ids,
			Centroid:    geo.Centroid(byID.Coords(ids)),
		}
	}

	logger.Log("DEBUG", "Zones assigned to days", map[string]interface{}{
		"days":           days,
		"zone_count":     len(zones),
		"target_per_day": targetPerDay,
	})
	return clusters
}

// zonePlacementScore is the greedy day-assignment objective
func zonePlacementScore(z *trip.Zone, day, days, curSize, curMinutes, targetPerDay int, in *trip.TripInput, cfg Config) float64 {
	start, end := dayAnchors(day, days, in)
	anchorMeters := geo.HaversineMeters(z.Centroid, start) + geo.HaversineMeters(z.Centroid, end)
	anchorCost := anchorMeters / 1000 * cfg.ProxyMinutesPerKm

	sizeOverflow := float64(utils.Max(0, curSize+len(z.WaypointIDs)-targetPerDay))

	minutesOverflow := 0.0
	if limit := in.DayLimitMinutes(day + 1); limit > 0 {
		minutesOverflow = math.Max(0, float64(curMinutes+z.EstimatedMinutes-limit))
	}

	return anchorCost + cfg.SizePenalty*sizeOverflow + cfg.MinutesPenalty*minutesOverflow
}

// dayAnchors returns the {start, end} reference points for a 0-based day
func dayAnchors(day, days int, in *trip.TripInput) (geo.LatLng, geo.LatLng) {
	start := in.Start
	if day > 0 && in.Lodging != nil {
		start = *in.Lodging
	}

	// The last day is pulled toward the trip destination when one is set,
	// even for lodging trips; every other day ends at lodging.
	var end geo.LatLng
	switch {
	case day == days-1 && in.End != nil:
		end = *in.End
	case in.Lodging != nil:
		end = *in.Lodging
	default:
		end = in.Start
	}
	return start, end
}
