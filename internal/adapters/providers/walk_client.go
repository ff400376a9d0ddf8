package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/routing"
	"github.com/minsukang/tripweaver/internal/domain/shared"
)

// WalkClient implements routing.WalkProvider over the pedestrian routing
// service's HTTP endpoint
type WalkClient struct {
	http *httpClient
}

// NewWalkClient builds a client for the given base URL. A nil clock means
// RealClock.
func NewWalkClient(baseURL string, rps float64, clock shared.Clock) *WalkClient {
	return &WalkClient{http: newHTTPClient(baseURL, rps, clock)}
}

// walkResponse mirrors the provider's wire format; a null path means no
// walkable route
type walkResponse struct {
	Path *struct {
		TotalDuration float64 `json:"totalDuration"`
		TotalDistance float64 `json:"totalDistance"`
		Polyline      string  `json:"polyline"`
	} `json:"path"`
}

// PlanWalk queries the walking endpoint. ErrNoRoute is returned when the
// provider cannot connect the endpoints after retries.
func (c *WalkClient) PlanWalk(ctx context.Context, from, to geo.LatLng) (*routing.WalkPlan, error) {
	body := routePayload{
		From: coordPayload{Lat: from.Lat, Lng: from.Lng},
		To:   coordPayload{Lat: to.Lat, Lng: to.Lng},
	}

	var plan *routing.WalkPlan
	err := c.http.postRoute(ctx, "/route/walk", body, func(raw []byte) (bool, error) {
		var resp walkResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return false, fmt.Errorf("unmarshal walk response: %w", err)
		}
		if resp.Path == nil {
			return false, nil
		}
		plan = &routing.WalkPlan{
			TotalDurationMinutes: resp.Path.TotalDuration,
			TotalDistanceMeters:  resp.Path.TotalDistance,
			Polyline:             resp.Path.Polyline,
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}
