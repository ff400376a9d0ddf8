package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/routing"
	"github.com/minsukang/tripweaver/internal/domain/shared"
)

// TransitClient implements routing.TransitProvider over the transit
// routing service's HTTP endpoint
type TransitClient struct {
	http *httpClient
}

// NewTransitClient builds a client for the given base URL. A nil clock
// means RealClock.
func NewTransitClient(baseURL string, rps float64, clock shared.Clock) *TransitClient {
	return &TransitClient{http: newHTTPClient(baseURL, rps, clock)}
}

// transitResponse mirrors the provider's wire format. A null path means no
// route exists between the endpoints.
type transitResponse struct {
	Path *struct {
		TotalDuration float64 `json:"totalDuration"`
		TotalDistance float64 `json:"totalDistance"`
		TransferCount int     `json:"transferCount"`
		Polyline      string  `json:"polyline"`
		Details       *struct {
			TotalFare       int     `json:"totalFare"`
			TransferCount   int     `json:"transferCount"`
			WalkingTime     float64 `json:"walkingTime"`
			WalkingDistance float64 `json:"walkingDistance"`
			SubPaths        []struct {
				TrafficType  int      `json:"trafficType"`
				Distance     float64  `json:"distance"`
				SectionTime  float64  `json:"sectionTime"`
				StartCoord   *coordPayload `json:"startCoord,omitempty"`
				EndCoord     *coordPayload `json:"endCoord,omitempty"`
				StationCount int      `json:"stationCount,omitempty"`
				Lane         string   `json:"lane,omitempty"`
				Way          string   `json:"way,omitempty"`
				PassStops    []coordPayload `json:"passStopCoords,omitempty"`
			} `json:"subPaths"`
		} `json:"details"`
	} `json:"path"`
}

// PlanTransit queries the transit endpoint. ErrNoRoute is returned when the
// provider cannot connect the endpoints after retries.
func (c *TransitClient) PlanTransit(ctx context.Context, from, to geo.LatLng) (*routing.TransitPlan, error) {
	body := routePayload{
		From: coordPayload{Lat: from.Lat, Lng: from.Lng},
		To:   coordPayload{Lat: to.Lat, Lng: to.Lng},
	}

	var plan *routing.TransitPlan
	err := c.http.postRoute(ctx, "/route/transit", body, func(raw []byte) (bool, error) {
		var resp transitResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return false, fmt.Errorf("unmarshal transit response: %w", err)
		}
		if resp.Path == nil {
			return false, nil
		}
		plan = convertTransitPath(resp)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func convertTransitPath(resp transitResponse) *routing.TransitPlan {
	p := resp.Path
	plan := &routing.TransitPlan{
		TotalDurationMinutes: p.TotalDuration,
		TotalDistanceMeters:  p.TotalDistance,
		TransferCount:        p.TransferCount,
		Polyline:             p.Polyline,
	}
	if p.Details == nil {
		return plan
	}

	details := &routing.TransitDetails{
		TotalFare:             p.Details.TotalFare,
		TransferCount:         p.Details.TransferCount,
		WalkingTimeMinutes:    p.Details.WalkingTime,
		WalkingDistanceMeters: p.Details.WalkingDistance,
		SubPaths:              make([]routing.SubPath, 0, len(p.Details.SubPaths)),
	}
	for _, sp := range p.Details.SubPaths {
		leg := routing.SubPath{
			TrafficType:    routing.TrafficType(sp.TrafficType),
			DistanceMeters: sp.Distance,
			SectionMinutes: sp.SectionTime,
			StationCount:   sp.StationCount,
			Lane:           sp.Lane,
			Way:            sp.Way,
		}
		if sp.StartCoord != nil {
			leg.StartCoord = &geo.LatLng{Lat: sp.StartCoord.Lat, Lng: sp.StartCoord.Lng}
		}
		if sp.EndCoord != nil {
			leg.EndCoord = &geo.LatLng{Lat: sp.EndCoord.Lat, Lng: sp.EndCoord.Lng}
		}
		for _, stop := range sp.PassStops {
			leg.PassStopCoords = append(leg.PassStopCoords, geo.LatLng{Lat: stop.Lat, Lng: stop.Lng})
		}
		details.SubPaths = append(details.SubPaths, leg)
	}
	plan.Details = details
	return plan
}
