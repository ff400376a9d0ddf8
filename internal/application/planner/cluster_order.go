package planner

import (
	"context"
	"sort"

	"github.com/minsukang/tripweaver/internal/application/common"
	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/trip"
)

// monotonicityTolerance is the minimum acceptable dot product between a
// consecutive-cluster direction and the trip axis before a progression
// warning is logged
const monotonicityTolerance = -0.1

// ChooseEndAnchor picks the reference point the day sequence should head
// toward: lodging when set, otherwise the cluster centroid farthest from
// the mean of all cluster centroids.
func ChooseEndAnchor(in *trip.TripInput, clusters []*trip.Cluster) geo.LatLng {
	if in.Lodging != nil {
		return *in.Lodging
	}

	centroids := make([]geo.LatLng, 0, len(clusters))
	for _, c := range clusters {
		if len(c.WaypointIDs) > 0 {
			centroids = append(centroids, c.Centroid)
		}
	}
	if len(centroids) == 0 {
		return in.Start
	}

	mean := geo.Centroid(centroids)
	farthest := centroids[0]
	best := geo.HaversineMeters(mean, centroids[0])
	for _, c := range centroids[1:] {
		if d := geo.HaversineMeters(mean, c); d > best {
			best = d
			farthest = c
		}
	}
	return farthest
}

// OrderClusters produces the day sequence: clusters sorted by scalar
// projection onto the start→end axis, then smoothed by a bounded relocation
// pass. Day indices are renumbered to the resulting order.
func OrderClusters(ctx context.Context, clusters []*trip.Cluster, in *trip.TripInput, endAnchor geo.LatLng, cfg Config) []*trip.Cluster {
	cfg = cfg.normalized()
	logger := common.LoggerFromContext(ctx)

	ordered := make([]*trip.Cluster, len(clusters))
	copy(ordered, clusters)

	nonEmpty := 0
	for _, c := range ordered {
		if len(c.WaypointIDs) > 0 {
			nonEmpty++
		}
	}
	if nonEmpty <= 1 {
		renumber(ordered)
		return ordered
	}

	startAnchor := in.Start
	axis := geo.Direction(startAnchor, endAnchor).Unit()

	sort.SliceStable(ordered, func(a, b int) bool {
		return geo.Project(ordered[a].Centroid, startAnchor, axis) <
			geo.Project(ordered[b].Centroid, startAnchor, axis)
	})

	smoothClusterOrder(ordered, startAnchor, endAnchor, cfg)
	checkMonotonicProgression(logger, ordered, axis)
	renumber(ordered)
	return ordered
}

func renumber(ordered []*trip.Cluster) {
	for i, c := range ordered {
		c.DayIndex = i + 1
	}
}

// chainMeters is the edge-sum cost of a cluster sequence including the
// virtual start and end edges
func chainMeters(ordered []*trip.Cluster, start, end geo.LatLng) float64 {
	total := 0.0
	prev := start
	for _, c := range ordered {
		total += geo.HaversineMeters(prev, c.Centroid)
		prev = c.Centroid
	}
	return total + geo.HaversineMeters(prev, end)
}

// smoothClusterOrder runs bounded relocation passes: move cluster j in front
// of position i when it shortens the chain by at least the configured
// threshold. At most one move per pass; the pass restarts after a move.
func smoothClusterOrder(ordered []*trip.Cluster, start, end geo.LatLng, cfg Config) {
	for pass := 0; pass < cfg.SmoothingPasses; pass++ {
		improved := false
		before := chainMeters(ordered, start, end)

		for i := 1; i < len(ordered)-1 && !improved; i++ {
			for j := i + 1; j < len(ordered); j++ {
				candidate := relocate(ordered, j, i)
				after := chainMeters(candidate, start, end)
				if before-after >= cfg.SmoothingThresholdMeters {
					copy(ordered, candidate)
					improved = true
					break
				}
			}
		}
		if !improved {
			return
		}
	}
}

// relocate returns a copy of the sequence with element j moved to position i
func relocate(ordered []*trip.Cluster, j, i int) []*trip.Cluster {
	out := make([]*trip.Cluster, 0, len(ordered))
	moved := ordered[j]
	for k, c := range ordered {
		if k == j {
			continue
		}
		if k == i {
			out = append(out, moved)
		}
		out = append(out, c)
	}
	return out
}

// checkMonotonicProgression verifies the smoothed order still progresses
// along the trip axis. Violations are logged, never fatal.
func checkMonotonicProgression(logger common.Logger, ordered []*trip.Cluster, axis geo.Vector) {
	for i := 0; i+1 < len(ordered); i++ {
		cur, next := ordered[i], ordered[i+1]
		if len(cur.WaypointIDs) == 0 || len(next.WaypointIDs) == 0 {
			continue
		}
		step := geo.Direction(cur.Centroid, next.Centroid).Unit()
		if step.Dot(axis) < monotonicityTolerance {
			logger.Log("WARN", "Cluster order regresses against the trip axis", map[string]interface{}{
				"position":     i,
				"cluster_from": cur.ClusterID,
				"cluster_to":   next.ClusterID,
				"dot":          step.Dot(axis),
			})
		}
	}
}

// DayEndAnchor resolves the effective end point for a 0-based position in
// the ordered day sequence
func DayEndAnchor(ordered []*trip.Cluster, i int, in *trip.TripInput) geo.LatLng {
	if in.Lodging != nil {
		return *in.Lodging
	}
	if i == len(ordered)-1 {
		if in.End != nil {
			return *in.End
		}
		return in.Start
	}
	return ordered[i+1].Centroid
}

// DayStartAnchor resolves the effective start point for a 0-based position
// in the ordered day sequence
func DayStartAnchor(ordered []*trip.Cluster, i int, in *trip.TripInput, wm trip.WaypointMap) geo.LatLng {
	if i == 0 {
		return in.Start
	}
	if in.Lodging != nil {
		return *in.Lodging
	}
	// Without lodging the day picks up where the previous one ended
	prev := ordered[i-1]
	if n := len(prev.WaypointIDs); n > 0 {
		if w, ok := wm[prev.WaypointIDs[n-1]]; ok {
			return w.Coord
		}
	}
	return in.Start
}
