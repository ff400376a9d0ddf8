package routing

import (
	"context"
	"errors"

	"github.com/minsukang/tripweaver/internal/domain/geo"
)

// ErrNoRoute is returned by providers when no path exists between the
// requested coordinates
var ErrNoRoute = errors.New("no route found")

// TransitPlan is a provider's answer for a transit query
type TransitPlan struct {
	TotalDurationMinutes float64
	TotalDistanceMeters  float64
	TransferCount        int
	Polyline             string
	Details              *TransitDetails
}

// WalkPlan is a provider's answer for a walking query
type WalkPlan struct {
	TotalDurationMinutes float64
	TotalDistanceMeters  float64
	Polyline             string
}

// TransitProvider is the black-box transit routing endpoint
type TransitProvider interface {
	PlanTransit(ctx context.Context, from, to geo.LatLng) (*TransitPlan, error)
}

// WalkProvider is the black-box walking routing endpoint
type WalkProvider interface {
	PlanWalk(ctx context.Context, from, to geo.LatLng) (*WalkPlan, error)
}

// SegmentRouter materializes travel costs for a batch of segments.
// Results are returned in request order; routing failures degrade to
// fallback costs and never surface as errors, so the only error returned
// is context cancellation.
type SegmentRouter interface {
	Route(ctx context.Context, requests []SegmentRequest) ([]SegmentCost, error)
}
